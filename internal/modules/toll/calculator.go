// README: Fee engine; per-pass fee lookup and the daily 60-minute window merge with cap.
package toll

import (
	"time"

	"cloud.google.com/go/civil"
)

// FeeAt is the fee of a single pass before any window merging.
func FeeAt(at civil.DateTime, k VehicleKind) (int, error) {
	free, err := IsTollFreeVehicle(k)
	if err != nil {
		return 0, err
	}
	if free || IsTollFreeDate(at.Date) {
		return 0, nil
	}
	return FeeForTime(at.Time), nil
}

func FeeForSinglePass(at civil.DateTime, k VehicleKind) (int, error) {
	return FeeAt(at, k)
}

// DailyFee merges passes, in the given order, into windows anchored at each
// window's first pass. A pass less than WindowLength after the anchor joins
// the window and the window costs its most expensive pass. A later pass opens
// a new window. The sum over windows is capped at DailyCap.
func DailyFee(k VehicleKind, passes []civil.DateTime) (DayResult, error) {
	if _, err := IsTollFreeVehicle(k); err != nil {
		return DayResult{}, err
	}

	res := DayResult{Vehicle: k, Windows: []Window{}}
	var open *Window
	for _, p := range passes {
		fee, err := FeeAt(p, k)
		if err != nil {
			return DayResult{}, err
		}
		if open != nil && minutesBetween(open.Start, p) < int64(WindowLength/time.Minute) {
			open.Passes++
			if fee > open.Fee {
				open.Fee = fee
			}
			continue
		}
		res.Windows = append(res.Windows, Window{Start: p, Fee: fee, Passes: 1})
		open = &res.Windows[len(res.Windows)-1]
	}

	for _, w := range res.Windows {
		res.Uncapped += w.Fee
	}
	res.Total = min(res.Uncapped, DailyCap)
	res.Capped = res.Uncapped > DailyCap
	return res, nil
}

func FeeForSingleDay(k VehicleKind, passes []civil.DateTime) (int, error) {
	res, err := DailyFee(k, passes)
	if err != nil {
		return 0, err
	}
	return res.Total, nil
}

// minutesBetween counts whole minutes from a to b, truncating toward zero.
func minutesBetween(a, b civil.DateTime) int64 {
	return int64(b.In(time.UTC).Sub(a.In(time.UTC)) / time.Minute)
}
