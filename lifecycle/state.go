package lifecycle

import (
	"time"

	"eldato-web/apperrors"
	"eldato-web/models"
)

// Action is a user-triggered transition on a service request
type Action string

const (
	ActionComplete Action = "complete"
	ActionFinalize Action = "finalize"
	ActionCancel   Action = "cancel"
)

// CancelFinalizedMessage is reported when cancelling a request that is already finalized
const CancelFinalizedMessage = "Cannot cancel: the request is already finalized. Refresh and try again."

type transition struct {
	from  []models.RequestState
	to    models.RequestState
	roles []models.Role
}

var transitions = map[Action]transition{
	ActionComplete: {
		from:  []models.RequestState{models.RequestStateScheduled},
		to:    models.RequestStateCompleted,
		roles: []models.Role{models.RoleClient},
	},
	ActionFinalize: {
		from:  []models.RequestState{models.RequestStateCompleted},
		to:    models.RequestStateFinalized,
		roles: []models.Role{models.RoleProvider},
	},
	ActionCancel: {
		from:  []models.RequestState{models.RequestStateScheduled, models.RequestStateCompleted},
		to:    models.RequestStateCancelled,
		roles: []models.Role{models.RoleClient, models.RoleProvider},
	},
}

// actionOrder keeps Actions deterministic
var actionOrder = []Action{ActionComplete, ActionFinalize, ActionCancel}

// Allowed reports whether role may apply action to a request in state
func Allowed(role models.Role, state models.RequestState, action Action) bool {
	t, ok := transitions[action]
	if !ok {
		return false
	}
	return containsRole(t.roles, role) && containsState(t.from, state)
}

// Actions lists what role can do to a request in state right now
func Actions(role models.Role, state models.RequestState) []Action {
	actions := []Action{}
	for _, a := range actionOrder {
		if Allowed(role, state, a) {
			actions = append(actions, a)
		}
	}
	return actions
}

// Transition applies action to a copy of req on behalf of actor.
// The original value is never modified.
func Transition(req models.ServiceRequest, actor models.Actor, action Action, at time.Time) (models.ServiceRequest, error) {
	t, ok := transitions[action]
	if !ok {
		return req, apperrors.Validation("unknown action " + string(action))
	}
	if !containsRole(t.roles, actor.Role) || !req.Involves(actor.UserID, actor.Role) {
		return req, apperrors.Authorization("access denied")
	}
	if !containsState(t.from, req.State) {
		if action == ActionCancel && req.State == models.RequestStateFinalized {
			return req, apperrors.Conflict(CancelFinalizedMessage)
		}
		return req, apperrors.Conflict("This action is not available for a request in state " + string(req.State))
	}

	next := req
	next.State = t.to
	stamp := at
	switch t.to {
	case models.RequestStateCompleted:
		next.CompletedAt = &stamp
	case models.RequestStateFinalized:
		next.FinalizedAt = &stamp
	}
	return next, nil
}

func containsRole(roles []models.Role, role models.Role) bool {
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}

func containsState(states []models.RequestState, state models.RequestState) bool {
	for _, s := range states {
		if s == state {
			return true
		}
	}
	return false
}
