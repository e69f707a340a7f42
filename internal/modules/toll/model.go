// README: Toll domain types: vehicle kinds, time bands, holiday ranges and day results.
package toll

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

type VehicleKind string

const (
	VehicleCar       VehicleKind = "car"
	VehicleMotorbike VehicleKind = "motorbike"
	VehicleTractor   VehicleKind = "tractor"
	VehicleEmergency VehicleKind = "emergency"
	VehicleDiplomat  VehicleKind = "diplomat"
	VehicleForeign   VehicleKind = "foreign"
	VehicleMilitary  VehicleKind = "military"
)

// vehicleKinds is the closed set of accepted kinds, in display order.
var vehicleKinds = []VehicleKind{
	VehicleCar,
	VehicleMotorbike,
	VehicleTractor,
	VehicleEmergency,
	VehicleDiplomat,
	VehicleForeign,
	VehicleMilitary,
}

// exemptKinds never pay. Every other valid kind is chargeable.
var exemptKinds = map[VehicleKind]bool{
	VehicleMotorbike: true,
	VehicleTractor:   true,
	VehicleEmergency: true,
	VehicleDiplomat:  true,
	VehicleForeign:   true,
	VehicleMilitary:  true,
}

// VehicleKinds returns a copy of the accepted vehicle kinds.
func VehicleKinds() []VehicleKind {
	out := make([]VehicleKind, len(vehicleKinds))
	copy(out, vehicleKinds)
	return out
}

func (k VehicleKind) Valid() bool {
	for _, v := range vehicleKinds {
		if v == k {
			return true
		}
	}
	return false
}

// ParseVehicleKind is case-insensitive and ignores surrounding whitespace.
func ParseVehicleKind(s string) (VehicleKind, error) {
	k := VehicleKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("%w: unknown vehicle kind %q", ErrInvalidArgument, s)
	}
	return k, nil
}

// MonthDay is a calendar day without a year.
type MonthDay struct {
	Month time.Month
	Day   int
}

func MonthDayOf(d civil.Date) MonthDay {
	return MonthDay{Month: d.Month, Day: d.Day}
}

// Valid accepts Feb 29 since ranges are year-agnostic.
func (m MonthDay) Valid() bool {
	if m.Month < time.January || m.Month > time.December || m.Day < 1 {
		return false
	}
	last := time.Date(2000, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return m.Day <= last
}

func (m MonthDay) Before(o MonthDay) bool {
	if m.Month != o.Month {
		return m.Month < o.Month
	}
	return m.Day < o.Day
}

func (m MonthDay) String() string {
	return fmt.Sprintf("%02d-%02d", int(m.Month), m.Day)
}

// MonthDayRange is an inclusive range on the Jan 1 .. Dec 31 line. It never wraps the year.
type MonthDayRange struct {
	Start MonthDay
	End   MonthDay
}

func NewMonthDayRange(start, end MonthDay) (MonthDayRange, error) {
	if !start.Valid() || !end.Valid() {
		return MonthDayRange{}, fmt.Errorf("%w: invalid month-day in range %s..%s", ErrInvalidArgument, start, end)
	}
	if end.Before(start) {
		return MonthDayRange{}, fmt.Errorf("%w: range %s..%s ends before it starts", ErrInvalidArgument, start, end)
	}
	return MonthDayRange{Start: start, End: end}, nil
}

func (r MonthDayRange) Contains(m MonthDay) bool {
	return !m.Before(r.Start) && !r.End.Before(m)
}

// TimeBand charges Fee for passes between Start and End, both inclusive, at minute granularity.
type TimeBand struct {
	Start civil.Time
	End   civil.Time
	Fee   int
}

func (b TimeBand) Contains(t civil.Time) bool {
	m := minuteOfDay(t)
	return m >= minuteOfDay(b.Start) && m <= minuteOfDay(b.End)
}

func minuteOfDay(t civil.Time) int {
	return t.Hour*60 + t.Minute
}

// Window is one group of passes charged as a single event.
type Window struct {
	Start  civil.DateTime `json:"start"`
	Fee    int            `json:"fee"`
	Passes int            `json:"passes"`
}

type DayResult struct {
	Vehicle  VehicleKind `json:"vehicle"`
	Total    int         `json:"total"`
	Uncapped int         `json:"uncapped"`
	Capped   bool        `json:"capped"`
	Windows  []Window    `json:"windows"`
}
