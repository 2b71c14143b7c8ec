package models

import (
	"strings"
	"time"
)

// RequestState represents the lifecycle state of a service request
type RequestState string

const (
	RequestStateScheduled RequestState = "Agendado"
	RequestStateCompleted RequestState = "Completado"
	RequestStateFinalized RequestState = "Finalizado"
	RequestStateCancelled RequestState = "Cancelado"
)

// ParseRequestState matches the wire value case-insensitively
func ParseRequestState(s string) (RequestState, bool) {
	for _, st := range []RequestState{RequestStateScheduled, RequestStateCompleted, RequestStateFinalized, RequestStateCancelled} {
		if strings.EqualFold(string(st), strings.TrimSpace(s)) {
			return st, true
		}
	}
	return "", false
}

// IsTerminal reports whether no transition can leave the state
func (s RequestState) IsTerminal() bool {
	return s == RequestStateFinalized || s == RequestStateCancelled
}

// Settlement holds the terms recorded by the provider when finalizing
type Settlement struct {
	AgreedPrice   *float64 `json:"agreed_price" validate:"required,gt=0"`
	PaymentMethod string   `json:"payment_method" validate:"required"`
	Notes         string   `json:"notes,omitempty" validate:"max=1000"`
}

// ServiceRequest is one engagement between a client and a provider
type ServiceRequest struct {
	ID           uint         `json:"id"`
	ClientID     uint         `json:"client_id"`
	ProviderID   uint         `json:"provider_id"`
	ServiceID    uint         `json:"service_id"`
	ClientName   string       `json:"client_name"`
	ProviderName string       `json:"provider_name"`
	State        RequestState `json:"state"`
	ScheduledAt  *time.Time   `json:"scheduled_at"`
	Settlement   *Settlement  `json:"settlement,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
	CompletedAt  *time.Time   `json:"completed_at,omitempty"`
	FinalizedAt  *time.Time   `json:"finalized_at,omitempty"`
}

// CounterpartOf returns the other participant relative to role
func (r ServiceRequest) CounterpartOf(role Role) (id uint, name string) {
	if role == RoleProvider {
		return r.ClientID, r.ClientName
	}
	return r.ProviderID, r.ProviderName
}

// Involves reports whether userID takes part in the request under the given role
func (r ServiceRequest) Involves(userID uint, role Role) bool {
	switch role {
	case RoleClient:
		return r.ClientID == userID
	case RoleProvider:
		return r.ProviderID == userID
	}
	return false
}

// ServiceRequestCreate is the payload accepted to schedule a new request
type ServiceRequestCreate struct {
	ProviderID  uint       `json:"provider_id" validate:"required"`
	ServiceID   uint       `json:"service_id" validate:"required"`
	ScheduledAt *time.Time `json:"scheduled_at"`
}

// RequestSummary is the per-state tally of a collection of requests
type RequestSummary struct {
	Total     int `json:"total"`
	Scheduled int `json:"agendados"`
	Completed int `json:"completados"`
	Finalized int `json:"finalizados"`
}
