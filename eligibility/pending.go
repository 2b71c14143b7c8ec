package eligibility

import (
	"sort"

	"eldato-web/apperrors"
	"eldato-web/models"
)

// NoEligibleRequestMessage is reported when a selected counterpart no longer has a rateable request
const NoEligibleRequestMessage = "No eligible request was found to rate this person."

// Qualifies reports whether a request in state can be rated by role.
// Clients may rate once they marked the work completed; providers only after finalizing.
func Qualifies(role models.Role, state models.RequestState) bool {
	switch role {
	case models.RoleProvider:
		return state == models.RequestStateFinalized
	case models.RoleClient:
		return state == models.RequestStateFinalized || state == models.RequestStateCompleted
	}
	return false
}

// Candidates returns the actor's requests that can carry a rating, highest id first
func Candidates(reqs []models.ServiceRequest, actor models.Actor) []models.ServiceRequest {
	out := make([]models.ServiceRequest, 0, len(reqs))
	for _, r := range reqs {
		if r.Involves(actor.UserID, actor.Role) && Qualifies(actor.Role, r.State) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

// RatedCounterparts returns the counterparts the actor already rated through a candidate request.
// Ratings that point outside the candidate set are ignored.
func RatedCounterparts(candidates []models.ServiceRequest, authored []models.Rating, actor models.Actor) map[uint]bool {
	byID := make(map[uint]models.ServiceRequest, len(candidates))
	for _, r := range candidates {
		byID[r.ID] = r
	}

	rated := make(map[uint]bool)
	for _, rating := range authored {
		req, ok := byID[rating.RequestID]
		if !ok {
			continue
		}
		counterpartID, _ := req.CounterpartOf(actor.Role)
		rated[counterpartID] = true
	}
	return rated
}

// Pending lists the counterparts the actor can still rate, one entry per person
func Pending(reqs []models.ServiceRequest, authored []models.Rating, actor models.Actor) []models.Counterpart {
	candidates := Candidates(reqs, actor)
	rated := RatedCounterparts(candidates, authored, actor)

	seen := make(map[uint]bool)
	out := []models.Counterpart{}
	for _, r := range candidates {
		id, name := r.CounterpartOf(actor.Role)
		if rated[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, models.Counterpart{ID: id, DisplayName: name})
	}
	return out
}

// ResolveRequest picks the request a new rating about counterpartID attaches to
func ResolveRequest(reqs []models.ServiceRequest, actor models.Actor, counterpartID uint) (models.ServiceRequest, error) {
	for _, r := range Candidates(reqs, actor) {
		if id, _ := r.CounterpartOf(actor.Role); id == counterpartID {
			return r, nil
		}
	}
	return models.ServiceRequest{}, apperrors.NotFound(NoEligibleRequestMessage)
}
