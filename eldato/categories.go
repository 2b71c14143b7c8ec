package eldato

import (
	"context"
	"net/http"

	"eldato-web/models"
)

// ListCategories returns the service categories
func (c *Client) ListCategories(ctx context.Context) ([]models.Category, error) {
	var dtos []categoriaDTO
	if err := c.do(ctx, http.MethodGet, "/api/Categoria", nil, &dtos, "Could not load the categories"); err != nil {
		return nil, err
	}
	out := make([]models.Category, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toCategory(d))
	}
	return out, nil
}
