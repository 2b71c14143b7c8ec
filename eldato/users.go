package eldato

import (
	"context"
	"io"
	"net/http"

	"eldato-web/models"
)

// Me returns the account bound to the client's token, with its role derived
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	var dto usuarioDetalleDTO
	if err := c.do(ctx, http.MethodGet, "/api/Usuario/Me", nil, &dto, "Could not load your profile"); err != nil {
		return nil, err
	}
	user := toUser(dto)
	return &user, nil
}

// UploadProfilePhoto replaces the current user's profile photo
func (c *Client) UploadProfilePhoto(ctx context.Context, filename string, file io.Reader) (*models.ProfilePhoto, error) {
	var dto fotoUsuarioDTO
	if err := c.doMultipart(ctx, "/api/Usuario/Foto", "archivo", filename, file, &dto, "Could not upload the photo"); err != nil {
		return nil, err
	}
	photo := toProfilePhoto(dto)
	return &photo, nil
}

// DeleteProfilePhoto removes the current user's profile photo
func (c *Client) DeleteProfilePhoto(ctx context.Context) error {
	return c.do(ctx, http.MethodDelete, "/api/Usuario/FotoActual", nil, nil, "Could not delete the photo")
}
