package eldato

import (
	"context"
	"fmt"
	"net/http"

	"eldato-web/models"
)

// CreateReport files an abuse report
func (c *Client) CreateReport(ctx context.Context, r models.Report) error {
	return c.do(ctx, http.MethodPost, "/api/denuncia", fromReport(r), nil, "Could not send the report")
}

// RatingReports lists open reports against ratings
func (c *Client) RatingReports(ctx context.Context) ([]models.RatingReport, error) {
	var dtos []denunciaResenaAdminDTO
	if err := c.do(ctx, http.MethodGet, "/api/denuncia/resenas", nil, &dtos, "Could not load the rating reports"); err != nil {
		return nil, err
	}
	out := make([]models.RatingReport, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toRatingReport(d))
	}
	return out, nil
}

// ServiceReports lists open reports against services
func (c *Client) ServiceReports(ctx context.Context) ([]models.ServiceReport, error) {
	var dtos []denunciaServicioAdminDTO
	if err := c.do(ctx, http.MethodGet, "/api/denuncia/servicios", nil, &dtos, "Could not load the service reports"); err != nil {
		return nil, err
	}
	out := make([]models.ServiceReport, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toServiceReport(d))
	}
	return out, nil
}

// RequestReports lists open reports against service requests
func (c *Client) RequestReports(ctx context.Context) ([]models.RequestReport, error) {
	var dtos []denunciaSolicitudAdminDTO
	if err := c.do(ctx, http.MethodGet, "/api/denuncia/solicitudes", nil, &dtos, "Could not load the request reports"); err != nil {
		return nil, err
	}
	out := make([]models.RequestReport, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toRequestReport(d))
	}
	return out, nil
}

// ResolveReport closes a report without touching its target
func (c *Client) ResolveReport(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/denuncia/%d", id), nil, nil, "Could not resolve the report")
}
