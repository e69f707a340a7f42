// README: Toll handlers for single-pass, single-day and batch quotes plus the fee schedule.
package handlers

import (
	"fmt"
	"net/http"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"

	"tollfee/internal/modules/toll"
)

type TollHandler struct {
	toll *toll.Service
}

func NewTollHandler(svc *toll.Service) *TollHandler {
	return &TollHandler{toll: svc}
}

type passReq struct {
	Vehicle string `json:"vehicle"`
	At      string `json:"at" binding:"required"`
}

type dayReq struct {
	Vehicle string   `json:"vehicle"`
	Passes  []string `json:"passes"`
}

type daysReq struct {
	Days []dayReq `json:"days" binding:"required"`
}

type windowResp struct {
	Start  string `json:"start"`
	Fee    int    `json:"fee"`
	Passes int    `json:"passes"`
}

type dayResp struct {
	Vehicle  toll.VehicleKind `json:"vehicle"`
	Total    int              `json:"total"`
	Uncapped int              `json:"uncapped"`
	Capped   bool             `json:"capped"`
	Currency string           `json:"currency"`
	Windows  []windowResp     `json:"windows"`
}

func (h *TollHandler) Pass(c *gin.Context) {
	var req passReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	kind, err := toll.ParseVehicleKind(req.Vehicle)
	if err != nil {
		writeTollError(c, err)
		return
	}
	at, err := h.toll.ParsePass(req.At)
	if err != nil {
		writeTollError(c, err)
		return
	}
	q, err := h.toll.QuotePass(c.Request.Context(), kind, at)
	if err != nil {
		writeTollError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, gin.H{
		"vehicle":           q.Vehicle,
		"at":                q.At.String(),
		"fee":               q.Fee,
		"currency":          h.toll.Currency(),
		"toll_free_date":    q.TollFreeDate,
		"toll_free_vehicle": q.TollFreeVehicle,
	})
}

func (h *TollHandler) Day(c *gin.Context) {
	var req dayReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	dr, err := h.parseDay(req)
	if err != nil {
		writeTollError(c, err)
		return
	}
	res, err := h.toll.QuoteDay(c.Request.Context(), dr.Vehicle, dr.Passes)
	if err != nil {
		writeTollError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, h.toDayResp(res))
}

func (h *TollHandler) Days(c *gin.Context) {
	var req daysReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	reqs := make([]toll.DayRequest, 0, len(req.Days))
	for i, d := range req.Days {
		dr, err := h.parseDay(d)
		if err != nil {
			writeTollError(c, fmt.Errorf("day %d: %w", i, err))
			return
		}
		reqs = append(reqs, dr)
	}
	results, err := h.toll.QuoteDays(c.Request.Context(), reqs)
	if err != nil {
		writeTollError(c, err)
		return
	}
	out := make([]dayResp, len(results))
	for i, r := range results {
		out[i] = h.toDayResp(r)
	}
	writeJSON(c, http.StatusOK, gin.H{"results": out})
}

func (h *TollHandler) Schedule(c *gin.Context) {
	bands := toll.Bands()
	bandsOut := make([]gin.H, len(bands))
	for i, b := range bands {
		bandsOut[i] = gin.H{"start": hhmm(b.Start), "end": hhmm(b.End), "fee": b.Fee}
	}
	holidays := toll.Holidays()
	holidaysOut := make([]gin.H, len(holidays))
	for i, r := range holidays {
		holidaysOut[i] = gin.H{"start": r.Start.String(), "end": r.End.String()}
	}
	kinds := toll.VehicleKinds()
	vehiclesOut := make([]gin.H, len(kinds))
	for i, k := range kinds {
		exempt, _ := toll.IsTollFreeVehicle(k)
		vehiclesOut[i] = gin.H{"kind": k, "exempt": exempt}
	}
	writeJSON(c, http.StatusOK, gin.H{
		"currency":       h.toll.Currency(),
		"daily_cap":      toll.DailyCap,
		"window_minutes": int(toll.WindowLength.Minutes()),
		"bands":          bandsOut,
		"holidays":       holidaysOut,
		"vehicles":       vehiclesOut,
	})
}

func (h *TollHandler) parseDay(req dayReq) (toll.DayRequest, error) {
	kind, err := toll.ParseVehicleKind(req.Vehicle)
	if err != nil {
		return toll.DayRequest{}, err
	}
	passes, err := h.toll.ParsePasses(req.Passes)
	if err != nil {
		return toll.DayRequest{}, err
	}
	return toll.DayRequest{Vehicle: kind, Passes: passes}, nil
}

func (h *TollHandler) toDayResp(res toll.DayResult) dayResp {
	windows := make([]windowResp, len(res.Windows))
	for i, w := range res.Windows {
		windows[i] = windowResp{Start: w.Start.String(), Fee: w.Fee, Passes: w.Passes}
	}
	return dayResp{
		Vehicle:  res.Vehicle,
		Total:    res.Total,
		Uncapped: res.Uncapped,
		Capped:   res.Capped,
		Currency: h.toll.Currency(),
		Windows:  windows,
	}
}

func hhmm(t civil.Time) string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}
