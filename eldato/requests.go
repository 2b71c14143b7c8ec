package eldato

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"eldato-web/models"
)

// CancelFailedMessage distinguishes a refused cancellation from a generic failure
const CancelFailedMessage = "Could not cancel. Check that the request is not finalized or try again."

// ListMyRequests returns the requests the current user takes part in
func (c *Client) ListMyRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var dtos []solicitudListadoDTO
	if err := c.do(ctx, http.MethodGet, "/api/Solicitud/GetMisSolicitudes", nil, &dtos, "Could not load your requests"); err != nil {
		return nil, err
	}
	return toServiceRequests(dtos), nil
}

// ListAllRequests returns every request; administrators only
func (c *Client) ListAllRequests(ctx context.Context) ([]models.ServiceRequest, error) {
	var dtos []solicitudListadoDTO
	if err := c.do(ctx, http.MethodGet, "/api/Solicitud/GetSolicitudes", nil, &dtos, "Could not load the requests"); err != nil {
		return nil, err
	}
	return toServiceRequests(dtos), nil
}

// CreateRequest schedules a new request and returns its id when the server reports one
func (c *Client) CreateRequest(ctx context.Context, clientID, providerID, serviceID uint, scheduledAt *time.Time) (uint, error) {
	body := solicitudCreateDTO{
		IDUsuario:         clientID,
		IDProveedor:       providerID,
		IDServicio:        serviceID,
		FechaAgendamiento: formatTime(scheduledAt),
	}
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, "/api/Solicitud/CrearSolicitud", body, &raw, "Could not create the request"); err != nil {
		return 0, err
	}
	return createdID(raw, "idSolicitud"), nil
}

// MarkCompleted moves a scheduled request to completed
func (c *Client) MarkCompleted(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/Solicitud/%d/completar", id)
	return c.do(ctx, http.MethodPut, path, struct{}{}, nil, "Could not mark the request as completed")
}

// Finalize records the settlement and closes the request
func (c *Client) Finalize(ctx context.Context, id uint, s models.Settlement) error {
	body := solicitudFinalizarDTO{
		MedioDePago: strings.TrimSpace(s.PaymentMethod),
		Notas:       optional(s.Notes),
	}
	if s.AgreedPrice != nil {
		body.PrecioAcordado = *s.AgreedPrice
	}
	path := fmt.Sprintf("/api/Solicitud/%d/finalizar", id)
	return c.do(ctx, http.MethodPut, path, body, nil, "Could not finalize the request")
}

// Cancel cancels a request that is not finalized yet
func (c *Client) Cancel(ctx context.Context, id uint) error {
	path := fmt.Sprintf("/api/Solicitud/%d/cancelar", id)
	return c.do(ctx, http.MethodPut, path, struct{}{}, nil, CancelFailedMessage)
}

// createdID reads an id from a create response, which is either a bare
// number or an object carrying the id under key
func createdID(raw json.RawMessage, key string) uint {
	var n uint
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return 0
	}
	for _, k := range []string{key, "id"} {
		if v, ok := obj[k]; ok {
			if err := json.Unmarshal(v, &n); err == nil {
				return n
			}
		}
	}
	return 0
}
