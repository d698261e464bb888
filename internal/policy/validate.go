package policy

import (
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type SearchKind int

const (
	SearchAll   SearchKind = iota // empty query, no filter
	SearchOwner                   // all-digit query, interpreted as a user id
	SearchText                    // free-text substring search
)

var digitsOnly = regexp.MustCompile(`^\d+$`)

// ClassifyQuery decides how a search query is dispatched. An all-digit query
// is a user-id lookup, not a text search; this mirrors how the dashboard
// search box has always behaved and is relied on by its users.
func ClassifyQuery(q string) (SearchKind, int) {
	q = strings.TrimSpace(q)
	if q == "" {
		return SearchAll, 0
	}
	if digitsOnly.MatchString(q) {
		if id, err := strconv.Atoi(q); err == nil {
			return SearchOwner, id
		}
	}
	return SearchText, 0
}

// Validate enforces the policy invariants before anything reaches the
// database. Each violation names the offending field.
func Validate(premium float64, userID int, startDate, endDate string) error {
	if premium < 0 {
		return errors.New("premium must be non-negative")
	}
	if userID < 0 {
		return errors.New("user_id must be non-negative")
	}
	if strings.TrimSpace(startDate) == "" || strings.TrimSpace(endDate) == "" {
		return errors.New("start_date and end_date are required")
	}
	start, err := parseDate(startDate)
	if err != nil {
		return errors.New("start_date must be an ISO date")
	}
	end, err := parseDate(endDate)
	if err != nil {
		return errors.New("end_date must be an ISO date")
	}
	if !end.After(start) {
		return errors.New("end_date must be greater than start_date")
	}
	return nil
}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
