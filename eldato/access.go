package eldato

import (
	"context"
	"net/http"
	"strings"

	"eldato-web/apperrors"
	"eldato-web/models"
)

// Login exchanges credentials for an API token
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	var resp loginResponseDTO
	body := loginDTO{Correo: strings.TrimSpace(email), Contrasena: password}
	if err := c.do(ctx, http.MethodPost, "/api/Access/Login", body, &resp, "Could not log in"); err != nil {
		if apperrors.Is(err, apperrors.KindAuthorization) {
			return "", apperrors.Unauthenticated("invalid email or password")
		}
		return "", err
	}
	if !resp.IsSuccess || resp.Token == "" {
		return "", apperrors.Unauthenticated("invalid email or password")
	}
	return resp.Token, nil
}

// Register creates a new account and returns its id
func (c *Client) Register(ctx context.Context, reg models.UserRegistration) (uint, error) {
	var resp registerResponseDTO
	if err := c.do(ctx, http.MethodPost, "/api/Access/Register", fromRegistration(reg), &resp, "Could not complete the registration"); err != nil {
		return 0, err
	}
	if !resp.IsSuccess || resp.UserID == nil {
		message := resp.Message
		if message == "" {
			message = "Could not complete the registration"
		}
		return 0, apperrors.Conflict(message)
	}
	return *resp.UserID, nil
}
