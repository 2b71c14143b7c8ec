package lifecycle

import (
	"sort"
	"strings"

	"eldato-web/apperrors"
	"eldato-web/models"
)

// FilterAll selects every request
const FilterAll = "all"

// Summarize tallies requests per state. Cancelled requests only count towards the total.
func Summarize(reqs []models.ServiceRequest) models.RequestSummary {
	s := models.RequestSummary{Total: len(reqs)}
	for _, r := range reqs {
		switch r.State {
		case models.RequestStateScheduled:
			s.Scheduled++
		case models.RequestStateCompleted:
			s.Completed++
		case models.RequestStateFinalized:
			s.Finalized++
		}
	}
	return s
}

// Filter returns the requests matching state exactly, or all of them for "all" or "".
// The input slice is not modified.
func Filter(reqs []models.ServiceRequest, state string) ([]models.ServiceRequest, error) {
	state = strings.TrimSpace(state)
	if state == "" || strings.EqualFold(state, FilterAll) {
		return append([]models.ServiceRequest(nil), reqs...), nil
	}

	want, ok := models.ParseRequestState(state)
	if !ok {
		return nil, apperrors.Validation("unknown request state " + state)
	}
	out := make([]models.ServiceRequest, 0, len(reqs))
	for _, r := range reqs {
		if r.State == want {
			out = append(out, r)
		}
	}
	return out, nil
}

// SortNewestFirst orders requests by id, highest first
func SortNewestFirst(reqs []models.ServiceRequest) {
	sort.SliceStable(reqs, func(i, j int) bool {
		return reqs[i].ID > reqs[j].ID
	})
}
