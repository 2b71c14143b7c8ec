package lifecycle

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"eldato-web/apperrors"
	"eldato-web/models"
	"eldato-web/utils"
)

// SettlementRequiredMessage is reported when finalize is missing its settlement terms
const SettlementRequiredMessage = "Enter the agreed price and the payment method."

// RequestAPI is the remote side of the request lifecycle
type RequestAPI interface {
	ListMyRequests(ctx context.Context) ([]models.ServiceRequest, error)
	CreateRequest(ctx context.Context, clientID, providerID, serviceID uint, scheduledAt *time.Time) (uint, error)
	MarkCompleted(ctx context.Context, id uint) error
	Finalize(ctx context.Context, id uint, s models.Settlement) error
	Cancel(ctx context.Context, id uint) error
}

// Notifier receives lifecycle events for connected users
type Notifier interface {
	EvaluationPrompt(userID uint, prompt EvaluationPrompt)
	RequestUpdated(userID uint, req models.ServiceRequest)
}

// EvaluationPrompt offers the acting user to rate the counterpart now or later.
// Either choice leaves the transition in place.
type EvaluationPrompt struct {
	RequestID       uint     `json:"request_id"`
	CounterpartID   uint     `json:"counterpart_id"`
	CounterpartName string   `json:"counterpart_name"`
	Choices         []string `json:"choices"`
}

// RequestView is a request together with the actions its viewer may take
type RequestView struct {
	models.ServiceRequest
	Actions []Action `json:"actions"`
}

// Outcome is the result of a successful transition
type Outcome struct {
	Request models.ServiceRequest `json:"request"`
	Prompt  *EvaluationPrompt     `json:"evaluation_prompt,omitempty"`
}

// Manager applies lifecycle transitions against the remote API
type Manager struct {
	api      RequestAPI
	notifier Notifier
	now      func() time.Time
}

// NewManager creates a manager; notifier may be nil
func NewManager(api RequestAPI, notifier Notifier) *Manager {
	return &Manager{api: api, notifier: notifier, now: time.Now}
}

// List returns the actor's requests, newest first, with their available actions
func (m *Manager) List(ctx context.Context, actor models.Actor, state string) ([]RequestView, models.RequestSummary, error) {
	reqs, err := m.api.ListMyRequests(ctx)
	if err != nil {
		return nil, models.RequestSummary{}, err
	}
	SortNewestFirst(reqs)

	summary := Summarize(reqs)
	filtered, err := Filter(reqs, state)
	if err != nil {
		return nil, summary, err
	}
	return Views(filtered, actor.Role), summary, nil
}

// Views pairs each request with the actions available to role
func Views(reqs []models.ServiceRequest, role models.Role) []RequestView {
	views := make([]RequestView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, RequestView{ServiceRequest: r, Actions: Actions(role, r.State)})
	}
	return views
}

// Get finds one of the actor's requests
func (m *Manager) Get(ctx context.Context, id uint) (models.ServiceRequest, error) {
	reqs, err := m.api.ListMyRequests(ctx)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	for _, r := range reqs {
		if r.ID == id {
			return r, nil
		}
	}
	return models.ServiceRequest{}, apperrors.NotFound(fmt.Sprintf("request %d not found", id))
}

// Create schedules a request for the service of a provider. The actor becomes the client.
func (m *Manager) Create(ctx context.Context, actor models.Actor, in models.ServiceRequestCreate) (uint, error) {
	if !actor.Role.IsParticipant() {
		return 0, apperrors.Authorization("access denied")
	}
	if err := utils.ValidateStruct(in, "invalid request"); err != nil {
		return 0, err
	}
	if in.ProviderID == actor.UserID {
		return 0, apperrors.Validation("You cannot request your own service.")
	}

	id, err := m.api.CreateRequest(ctx, actor.UserID, in.ProviderID, in.ServiceID, in.ScheduledAt)
	if err != nil {
		return 0, err
	}
	log.Printf("✅ Request %d scheduled by user %d for service %d", id, actor.UserID, in.ServiceID)
	return id, nil
}

// Complete marks delivered work as done on behalf of the client
func (m *Manager) Complete(ctx context.Context, actor models.Actor, id uint) (*Outcome, error) {
	return m.apply(ctx, actor, id, ActionComplete, nil, func(req models.ServiceRequest) error {
		return m.api.MarkCompleted(ctx, req.ID)
	})
}

// Finalize records the settlement on behalf of the provider.
// Missing terms are rejected before anything is sent.
func (m *Manager) Finalize(ctx context.Context, actor models.Actor, id uint, s models.Settlement) (*Outcome, error) {
	s, err := ValidateSettlement(s)
	if err != nil {
		return nil, err
	}
	return m.apply(ctx, actor, id, ActionFinalize, &s, func(req models.ServiceRequest) error {
		return m.api.Finalize(ctx, req.ID, s)
	})
}

// Cancel cancels a request that is not finalized yet
func (m *Manager) Cancel(ctx context.Context, actor models.Actor, id uint) (*Outcome, error) {
	return m.apply(ctx, actor, id, ActionCancel, nil, func(req models.ServiceRequest) error {
		return m.api.Cancel(ctx, req.ID)
	})
}

func (m *Manager) apply(ctx context.Context, actor models.Actor, id uint, action Action, settlement *models.Settlement, remote func(models.ServiceRequest) error) (*Outcome, error) {
	req, err := m.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := Transition(req, actor, action, m.now())
	if err != nil {
		return nil, err
	}
	if err := remote(req); err != nil {
		return nil, err
	}
	if settlement != nil {
		next.Settlement = settlement
	}
	log.Printf("✅ Request %d moved %s -> %s by user %d", req.ID, req.State, next.State, actor.UserID)

	outcome := &Outcome{Request: next}
	counterpartID, counterpartName := next.CounterpartOf(actor.Role)
	if action == ActionComplete || action == ActionFinalize {
		outcome.Prompt = &EvaluationPrompt{
			RequestID:       next.ID,
			CounterpartID:   counterpartID,
			CounterpartName: counterpartName,
			Choices:         []string{"now", "later"},
		}
	}

	if m.notifier != nil {
		if outcome.Prompt != nil {
			m.notifier.EvaluationPrompt(actor.UserID, *outcome.Prompt)
		}
		m.notifier.RequestUpdated(counterpartID, next)
	}
	return outcome, nil
}

// ValidateSettlement trims the settlement and checks its required terms
func ValidateSettlement(s models.Settlement) (models.Settlement, error) {
	s.PaymentMethod = strings.TrimSpace(s.PaymentMethod)
	s.Notes = strings.TrimSpace(s.Notes)
	if err := utils.ValidateStruct(s, SettlementRequiredMessage); err != nil {
		return s, err
	}
	return s, nil
}
