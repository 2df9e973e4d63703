package util

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"

	"School-Administration-System/models"
)

const DateLayout = "2006-01-02"

// ResolveHoliday returns the holiday in effect on the given date, or
// nil. An entry stored for that exact calendar date always wins over
// recurring month/day matches.
func ResolveHoliday(holidays []models.Holiday, date time.Time) *models.Holiday {
	target := date.Format(DateLayout)
	for i := range holidays {
		if holidays[i].Date == target {
			return &holidays[i]
		}
	}
	return MatchRecurring(holidays, date)
}

// MatchRecurring returns the first recurring holiday whose month and day
// match the given date, or nil. When several recurring holidays share a
// month/day the first stored one wins; the lookup does not try to
// disambiguate (known limitation of the holiday data model).
func MatchRecurring(holidays []models.Holiday, date time.Time) *models.Holiday {
	for i := range holidays {
		h := holidays[i]
		if !h.IsRecurring {
			continue
		}
		hd, err := time.Parse(DateLayout, h.Date)
		if err != nil {
			continue
		}
		if hd.Month() == date.Month() && hd.Day() == date.Day() {
			return &holidays[i]
		}
	}
	return nil
}

// ExpandHolidays projects stored holidays onto concrete dates inside
// [start, end]. Recurring holidays are expanded with a yearly RRULE
// anchored at their original date; one-off holidays pass through if they
// fall inside the range.
func ExpandHolidays(holidays []models.Holiday, start, end time.Time) ([]models.HolidayOccurrence, error) {
	var occurrences []models.HolidayOccurrence

	for _, h := range holidays {
		hd, err := time.Parse(DateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday %q has an invalid date %q: %w", h.Name, h.Date, err)
		}

		if !h.IsRecurring {
			if !hd.Before(start) && !hd.After(end) {
				occurrences = append(occurrences, models.HolidayOccurrence{
					Date: h.Date,
					Name: h.Name,
				})
			}
			continue
		}

		rule, err := rrule.NewRRule(rrule.ROption{
			Freq:    rrule.YEARLY,
			Dtstart: hd,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build recurrence for holiday %q: %w", h.Name, err)
		}

		for _, instance := range rule.Between(start, end, true) {
			occurrences = append(occurrences, models.HolidayOccurrence{
				Date:        instance.Format(DateLayout),
				Name:        h.Name,
				IsRecurring: true,
			})
		}
	}

	return occurrences, nil
}
