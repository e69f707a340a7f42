// README: Fixed toll schedule: fee bands by time of day, holiday ranges and toll-free checks.
package toll

import (
	"fmt"
	"time"

	"cloud.google.com/go/civil"
)

const (
	// DailyCap is the most one vehicle pays on one day.
	DailyCap = 60
	// WindowLength groups passes into one chargeable event.
	WindowLength = 60 * time.Minute
)

var holidays = []MonthDayRange{
	mustRange(time.December, 24, time.December, 26),
	// New Year's Eve and Day wrap the year, so they are two ranges.
	mustRange(time.December, 31, time.December, 31),
	mustRange(time.January, 1, time.January, 1),
	mustRange(time.March, 28, time.March, 29),
	mustRange(time.April, 1, time.April, 1),
	mustRange(time.April, 30, time.May, 1),
	mustRange(time.May, 8, time.May, 9),
	mustRange(time.June, 5, time.June, 6),
	mustRange(time.June, 21, time.June, 21),
	mustRange(time.July, 1, time.July, 31),
	mustRange(time.November, 1, time.November, 1),
}

var bands = buildBands()

func buildBands() []TimeBand {
	out := []TimeBand{
		band(6, 0, 6, 29, 8),
		band(6, 30, 6, 59, 13),
		band(7, 0, 7, 59, 18),
		band(8, 0, 8, 29, 13),
	}
	for hour := 8; hour < 14; hour++ {
		out = append(out, band(hour, 30, hour, 59, 8))
	}
	return append(out,
		band(15, 0, 15, 29, 13),
		band(15, 30, 15, 59, 18),
		band(16, 0, 16, 59, 18),
		band(17, 0, 17, 59, 13),
		band(18, 0, 18, 29, 8),
	)
}

func band(startHour, startMinute, endHour, endMinute, fee int) TimeBand {
	return TimeBand{
		Start: civil.Time{Hour: startHour, Minute: startMinute},
		End:   civil.Time{Hour: endHour, Minute: endMinute},
		Fee:   fee,
	}
}

func mustRange(startMonth time.Month, startDay int, endMonth time.Month, endDay int) MonthDayRange {
	r, err := NewMonthDayRange(MonthDay{startMonth, startDay}, MonthDay{endMonth, endDay})
	if err != nil {
		panic(err)
	}
	return r
}

// Bands returns a copy of the fee bands in lookup order.
func Bands() []TimeBand {
	out := make([]TimeBand, len(bands))
	copy(out, bands)
	return out
}

// Holidays returns a copy of the toll-free date ranges.
func Holidays() []MonthDayRange {
	out := make([]MonthDayRange, len(holidays))
	copy(out, holidays)
	return out
}

func IsHoliday(d civil.Date) bool {
	md := MonthDayOf(d)
	for _, h := range holidays {
		if h.Contains(md) {
			return true
		}
	}
	return false
}

func IsTollFreeDate(d civil.Date) bool {
	switch d.In(time.UTC).Weekday() {
	case time.Saturday, time.Sunday:
		return true
	}
	return IsHoliday(d)
}

// IsTollFreeVehicle fails with ErrInvalidArgument for the zero kind or any unknown kind.
func IsTollFreeVehicle(k VehicleKind) (bool, error) {
	if k == "" {
		return false, fmt.Errorf("%w: vehicle kind is unset", ErrInvalidArgument)
	}
	if !k.Valid() {
		return false, fmt.Errorf("%w: unknown vehicle kind %q", ErrInvalidArgument, string(k))
	}
	return exemptKinds[k], nil
}

// FeeForTime returns the first matching band's fee, or 0 outside every band.
func FeeForTime(t civil.Time) int {
	for _, b := range bands {
		if b.Contains(t) {
			return b.Fee
		}
	}
	return 0
}
