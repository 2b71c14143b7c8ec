package eldato

import (
	"context"
	"fmt"
	"net/http"

	"eldato-web/models"
)

// RatingsAuthoredBy lists the ratings written by userID
func (c *Client) RatingsAuthoredBy(ctx context.Context, userID uint) ([]models.Rating, error) {
	return c.listRatings(ctx, fmt.Sprintf("/api/Calificacion/autor/%d", userID), "Could not load your ratings")
}

// RatingsReceivedBy lists the ratings written about userID
func (c *Client) RatingsReceivedBy(ctx context.Context, userID uint) ([]models.Rating, error) {
	return c.listRatings(ctx, fmt.Sprintf("/api/Calificacion/recibidas/%d", userID), "Could not load the received ratings")
}

// LatestRatingsFor lists the most recent ratings shown on a public profile
func (c *Client) LatestRatingsFor(ctx context.Context, userID uint) ([]models.Rating, error) {
	return c.listRatings(ctx, fmt.Sprintf("/api/Calificacion/Ultimas/%d", userID), "Could not load the latest ratings")
}

func (c *Client) listRatings(ctx context.Context, path, fallback string) ([]models.Rating, error) {
	var dtos []calificacionDTO
	if err := c.do(ctx, http.MethodGet, path, nil, &dtos, fallback); err != nil {
		return nil, err
	}
	return toRatings(dtos), nil
}

// GetRating loads one rating
func (c *Client) GetRating(ctx context.Context, id uint) (*models.Rating, error) {
	var dto calificacionDTO
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/Calificacion/%d", id), nil, &dto, "Could not load the rating"); err != nil {
		return nil, err
	}
	r := toRating(dto)
	return &r, nil
}

// CreateRating submits a new rating for the counterpart of requestID
func (c *Client) CreateRating(ctx context.Context, authorID, requestID uint, stars int, comment *string) (*models.Rating, error) {
	body := calificacionCreateDTO{
		IDUsuario:     authorID,
		IDSolicitud:   requestID,
		CantEstrellas: stars,
		Comentario:    comment,
	}
	var dto calificacionDTO
	if err := c.do(ctx, http.MethodPost, "/api/Calificacion", body, &dto, "Could not send the rating"); err != nil {
		return nil, err
	}
	r := toRating(dto)
	return &r, nil
}

// UpdateRating changes the stars and comment of a rating; actorID is checked by the server
func (c *Client) UpdateRating(ctx context.Context, ratingID, actorID uint, stars int, comment *string) (*models.Rating, error) {
	body := calificacionUpdateDTO{CantEstrellas: stars, Comentario: comment}
	path := fmt.Sprintf("/api/Calificacion/%d?actorUserId=%d", ratingID, actorID)

	var dto calificacionDTO
	if err := c.do(ctx, http.MethodPut, path, body, &dto, "Could not update the rating"); err != nil {
		return nil, err
	}
	r := toRating(dto)
	return &r, nil
}

// DeleteRating removes a reported rating; administrators only
func (c *Client) DeleteRating(ctx context.Context, id uint) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/Calificacion/%d", id), nil, nil, "Could not delete the rating")
}
