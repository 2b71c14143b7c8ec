package eldato

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eldato-web/apperrors"
	"eldato-web/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", 5*time.Second).WithToken("api-token")
}

func TestListMyRequestsMapsWireFields(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Solicitud/GetMisSolicitudes", r.URL.Path)
		assert.Equal(t, "Bearer api-token", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `[
			{"idSolicitud": 7, "idUsuario": 1, "idProveedor": 2, "idServicio": 30,
			 "fechaAgendamiento": "2025-03-01T10:00:00", "precioAcordado": 25000,
			 "fechaCreacion": "2025-02-27T09:15:00.1234567", "fechaRealizacion": null,
			 "estado": "finalizado", "clienteNombre": "Ana", "proveedorNombre": "Luis",
			 "medioDePago": "Efectivo", "notas": null},
			{"idSolicitud": 8, "idUsuario": 1, "idProveedor": 2, "idServicio": 30,
			 "fechaCreacion": "2025-02-28", "estado": "EnRevision",
			 "clienteNombre": "Ana", "proveedorNombre": "Luis"}
		]`)
	})

	reqs, err := client.ListMyRequests(context.Background())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, models.RequestState("EnRevision"), reqs[1].State)
	assert.Nil(t, reqs[1].Settlement)

	r := reqs[0]
	assert.Equal(t, uint(7), r.ID)
	assert.Equal(t, uint(1), r.ClientID)
	assert.Equal(t, uint(2), r.ProviderID)
	assert.Equal(t, models.RequestStateFinalized, r.State)
	require.NotNil(t, r.ScheduledAt)
	assert.Equal(t, 10, r.ScheduledAt.Hour())
	assert.Equal(t, 27, r.CreatedAt.Day())
	require.NotNil(t, r.Settlement)
	assert.Equal(t, 25000.0, *r.Settlement.AgreedPrice)
	assert.Equal(t, "Efectivo", r.Settlement.PaymentMethod)
	assert.Nil(t, r.CompletedAt)
}

func TestListServicesNormalizesCoordinates(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[
			{"idServicio": 1, "titulo": "Gasfiter", "latitud": "-33.45", "longitud": -70.66},
			{"idServicio": 2, "titulo": "Jardinero", "latitud": "", "longitud": null},
			{"idServicio": 3, "titulo": "Electricista",
			 "direccion": {"descripcion": "Av. Siempre Viva 742", "latitud": "-33,50", "longitud": "-70.60"}}
		]`)
	})

	services, err := client.ListServices(context.Background())
	require.NoError(t, err)
	require.Len(t, services, 3)

	require.NotNil(t, services[0].Latitude)
	assert.InDelta(t, -33.45, *services[0].Latitude, 1e-9)
	assert.InDelta(t, -70.66, *services[0].Longitude, 1e-9)

	assert.Nil(t, services[1].Latitude)
	assert.Nil(t, services[1].Longitude)

	require.NotNil(t, services[2].Latitude)
	assert.InDelta(t, -33.50, *services[2].Latitude, 1e-9)
}

func TestFinalizeSendsSettlement(t *testing.T) {
	var got map[string]interface{}
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/Solicitud/7/finalizar", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	})

	price := 18000.0
	err := client.Finalize(context.Background(), 7, models.Settlement{AgreedPrice: &price, PaymentMethod: " Transferencia ", Notes: ""})
	require.NoError(t, err)

	assert.Equal(t, 18000.0, got["precioAcordado"])
	assert.Equal(t, "Transferencia", got["medioDePago"])
	assert.Nil(t, got["notas"])
}

func TestErrorClassification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		kind    apperrors.Kind
		message string
	}{
		{"bare string", http.StatusBadRequest, `"La solicitud ya fue finalizada"`, apperrors.KindConflict, "La solicitud ya fue finalizada"},
		{"message object", http.StatusBadRequest, `{"message": "Ya calificaste esta solicitud"}`, apperrors.KindConflict, "Ya calificaste esta solicitud"},
		{"empty body falls back", http.StatusConflict, ``, apperrors.KindConflict, CancelFailedMessage},
		{"unauthorized", http.StatusUnauthorized, ``, apperrors.KindAuthorization, "access denied"},
		{"server error", http.StatusInternalServerError, `{"title": "boom"}`, apperrors.KindTransient, CancelFailedMessage},
		{"html error page", http.StatusBadRequest, `<html>bad</html>`, apperrors.KindConflict, CancelFailedMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			err := client.Cancel(context.Background(), 3)
			require.Error(t, err)

			var appErr *apperrors.AppError
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.kind, appErr.Kind)
			assert.Equal(t, tt.message, appErr.Message)
		})
	}
}

func TestTransportFailureIsTransient(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", time.Second)

	_, err := client.ListCategories(context.Background())

	assert.Equal(t, apperrors.KindTransient, apperrors.KindOf(err))
}

func TestDecodeProblemValidationDocument(t *testing.T) {
	message, fields := decodeProblem([]byte(`{
		"title": "One or more validation errors occurred.",
		"status": 400,
		"errors": {"Correo": ["El correo ya está registrado."], "Telefono": ["Debe tener 9 dígitos."]}
	}`))

	assert.Equal(t, "El correo ya está registrado. Debe tener 9 dígitos.", message)
	assert.Equal(t, "El correo ya está registrado.", fields["Correo"])
	assert.Len(t, fields, 2)
}

func TestDecodeProblemTruncatesOnRuneBoundary(t *testing.T) {
	long := strings.Repeat("ñ", 299) + "áé tail"

	message, fields := decodeProblem([]byte(long))

	assert.Nil(t, fields)
	assert.True(t, utf8.ValidString(message))
	assert.Equal(t, 300, utf8.RuneCountInString(message))
	assert.True(t, strings.HasSuffix(message, "ñá"))
}

func TestRegisterSurfacesServerRefusal(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "1990-04-02", body["fechaNacimiento"])
		assert.Equal(t, true, body["esProveedor"])
		_, _ = io.WriteString(w, `{"isSuccess": false, "message": "Correo en uso"}`)
	})

	_, err := client.Register(context.Background(), models.UserRegistration{
		Email: "luis@example.cl", Name: "Luis", Password: "secreto123",
		BirthDate: "1990-04-02", IsProvider: true,
	})

	require.Error(t, err)
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Contains(t, err.Error(), "Correo en uso")
}

func TestLoginRejectsUnsuccessfulResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"isSuccess": false, "token": ""}`)
	})

	_, err := client.Login(context.Background(), "ana@example.cl", "x")

	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestMeDerivesRole(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"idUsuario": 4, "nombre": "Luis", "correo": "luis@example.cl",
			"esCliente": true, "esProveedor": true,
			"direccion": {"descripcion": "Los Aromos 12", "latitud": null, "longitud": "-70.1"}}`)
	})

	me, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, models.RoleProvider, me.Role)
	require.NotNil(t, me.Address)
	assert.False(t, me.Address.HasCoordinates())
}

func TestCreateRequestReadsID(t *testing.T) {
	tests := map[string]string{
		"bare number": `41`,
		"object":      `{"idSolicitud": 41, "estado": "Agendado"}`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				var dto solicitudCreateDTO
				require.NoError(t, json.NewDecoder(r.Body).Decode(&dto))
				assert.Equal(t, uint(9), dto.IDUsuario)
				assert.Equal(t, uint(2), dto.IDProveedor)
				require.NotNil(t, dto.FechaAgendamiento)
				assert.True(t, strings.HasPrefix(*dto.FechaAgendamiento, "2025-05-10T"))
				_, _ = io.WriteString(w, body)
			})

			at := time.Date(2025, 5, 10, 16, 30, 0, 0, time.UTC)
			id, err := client.CreateRequest(context.Background(), 9, 2, 30, &at)
			require.NoError(t, err)
			assert.Equal(t, uint(41), id)
		})
	}
}

func TestUpdateRatingPassesActor(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/Calificacion/12", r.URL.Path)
		assert.Equal(t, "5", r.URL.Query().Get("actorUserId"))
		_, _ = io.WriteString(w, `{"idValorizacion": 12, "idUsuario": 5, "idSolicitud": 7, "cantEstrellas": 4, "comentario": "  ", "fecha": "2025-03-02T11:00:00Z"}`)
	})

	r, err := client.UpdateRating(context.Background(), 12, 5, 4, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, r.Stars)
	assert.Nil(t, r.Comment, "blank comments map to absent")
}
