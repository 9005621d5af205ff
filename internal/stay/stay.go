package stay

import (
	"fmt"
	"math"
	"time"
)

// PropertyTimezone is the zone all stay math is anchored to; check-in and
// check-out are calendar dates at the property, not instants.
const PropertyTimezone = "America/Chicago"

const dateLayout = "2006-01-02"

type Details struct {
	Nights int
}

// Calculator computes stay durations for the dashboard read model.
type Calculator interface {
	Stay(checkIn, checkOut string) (Details, error)
}

// CalendarCalculator counts nights as whole calendar days between the two
// dates in the property timezone.
type CalendarCalculator struct {
	loc *time.Location
}

func NewCalculator() *CalendarCalculator {
	loc, err := time.LoadLocation(PropertyTimezone)
	if err != nil {
		loc = time.UTC
	}
	return &CalendarCalculator{loc: loc}
}

func (c *CalendarCalculator) parseDate(value string) (time.Time, error) {
	if t, err := time.ParseInLocation(dateLayout, value, c.loc); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid stay date %q", value)
	}
	t = t.In(c.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, c.loc), nil
}

func (c *CalendarCalculator) Stay(checkIn, checkOut string) (Details, error) {
	arrival, err := c.parseDate(checkIn)
	if err != nil {
		return Details{}, err
	}
	departure, err := c.parseDate(checkOut)
	if err != nil {
		return Details{}, err
	}

	// Rounding keeps DST transitions from shaving a night off the count.
	nights := int(math.Round(departure.Sub(arrival).Hours() / 24))
	if nights <= 0 {
		return Details{}, fmt.Errorf("check-out %s is not after check-in %s", checkOut, checkIn)
	}
	return Details{Nights: nights}, nil
}
