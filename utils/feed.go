package utils

import "time"

// Feed helpers for the filters that cannot be pushed down into the
// events query: tag matching, hour-window overlap and pagination all run
// over rows already fetched from the database.

const FeedPageSize = 10

// campusLocation is the fixed timezone all date/hour filters are
// evaluated in, regardless of the server's local zone.
var campusLocation = mustLoadLocation("America/New_York")

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// CampusLocation returns the campus timezone.
func CampusLocation() *time.Location {
	return campusLocation
}

// HasAnyTag reports whether the event carries at least one of the
// selected tags. Selection is OR semantics; an empty selection matches
// everything.
func HasAnyTag(eventTags, selected []string) bool {
	if len(selected) == 0 {
		return true
	}
	for _, want := range selected {
		for _, have := range eventTags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// InHourWindow reports whether an event overlaps the requested
// whole-hour window [startHour, endHour), judged in campus time. Events
// without a start time never match. Events without an end time match
// only when their start hour falls inside the window; otherwise any
// overlap between the event span and the window counts.
func InHourWindow(start, end *time.Time, startHour, endHour int) bool {
	if start == nil {
		return false
	}
	eventStartHour := start.In(campusLocation).Hour()

	if end == nil {
		return eventStartHour >= startHour && eventStartHour < endHour
	}

	eventEndHour := end.In(campusLocation).Hour()
	return eventStartHour < endHour && eventEndHour > startHour
}

// DayRange parses a YYYY-MM-DD calendar date and returns the campus-time
// span of that day, for pushing the date filter into the query.
func DayRange(date string) (time.Time, time.Time, bool) {
	day, err := time.ParseInLocation("2006-01-02", date, campusLocation)
	if err != nil {
		return time.Time{}, time.Time{}, false
	}
	return day, day.AddDate(0, 0, 1), true
}

// PopularityCount is the count "most_popular" sorts by: interest for
// tentative events, attendance for official ones.
func PopularityCount(status string, prospectCount, attendeeCount int) int {
	if status == "tentative" {
		return prospectCount
	}
	return attendeeCount
}

// PageBounds returns the slice bounds for page N of a result of the
// given total length, and whether further pages exist.
func PageBounds(total, page, size int) (lo, hi int, hasMore bool) {
	if page < 0 {
		page = 0
	}
	lo = page * size
	if lo > total {
		lo = total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return lo, hi, page*size+size < total
}
