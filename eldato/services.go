package eldato

import (
	"context"
	"fmt"
	"net/http"

	"eldato-web/models"
)

// ListServices returns every published service
func (c *Client) ListServices(ctx context.Context) ([]models.Service, error) {
	var dtos []servicioDTO
	if err := c.do(ctx, http.MethodGet, "/api/Services", nil, &dtos, "Could not load the services"); err != nil {
		return nil, err
	}
	return toServices(dtos), nil
}

// ServiceDetail returns a service with its provider and photos
func (c *Client) ServiceDetail(ctx context.Context, id uint) (*models.ServiceDetail, error) {
	var dto servicioDetalleDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Services/%d/detalle", id), nil, &dto, "Could not load the service"); err != nil {
		return nil, err
	}
	detail := toServiceDetail(dto)
	return &detail, nil
}

// CreateService publishes a service for the current provider
func (c *Client) CreateService(ctx context.Context, in models.ServiceCreate) (*models.Service, error) {
	var dto servicioDTO
	if err := c.do(ctx, http.MethodPost, "/api/Services/CreateService", fromServiceCreate(in), &dto, "Could not publish the service"); err != nil {
		return nil, err
	}
	s := toService(dto)
	return &s, nil
}

// DeleteService removes a reported service; administrators only
func (c *Client) DeleteService(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Services/%d", id), nil, nil, "Could not delete the service")
}

// SavedServices lists the services bookmarked by the current user
func (c *Client) SavedServices(ctx context.Context) ([]models.Service, error) {
	var dtos []servicioDTO
	if err := c.do(ctx, http.MethodGet, "/api/Services/Guardados", nil, &dtos, "Could not load your saved services"); err != nil {
		return nil, err
	}
	return toServices(dtos), nil
}

// SaveService bookmarks a service
func (c *Client) SaveService(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodPost, fmt.Sprintf("/api/Services/%d/guardar", id), struct{}{}, nil, "Could not save the service")
}

// UnsaveService removes a bookmark
func (c *Client) UnsaveService(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Services/%d/guardar", id), nil, nil, "Could not remove the saved service")
}
