package eldato

import (
	"log"
	"strings"
	"time"

	"eldato-web/models"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.9999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseTime reads the server's timestamps, which may or may not carry a zone
func parseTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return &t
		}
	}
	log.Printf("⚠️ Unparseable timestamp from API: %q", s)
	return nil
}

func parseTimePtr(s *string) *time.Time {
	if s == nil {
		return nil
	}
	return parseTime(*s)
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("2006-01-02T15:04:05")
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func toAddress(d *direccionDTO) *models.Address {
	if d == nil {
		return nil
	}
	a := &models.Address{
		Description: d.Descripcion,
		Commune:     deref(d.Comuna),
		PostalCode:  deref(d.CodigoPostal),
		Region:      deref(d.Region),
		Latitude:    d.Latitud.Value,
		Longitude:   d.Longitud.Value,
	}
	if d.IDDireccion != nil {
		a.ID = *d.IDDireccion
	}
	return a
}

func fromAddress(a *models.Address) *direccionDTO {
	if a == nil {
		return nil
	}
	d := &direccionDTO{
		Descripcion:  a.Description,
		Comuna:       optional(a.Commune),
		CodigoPostal: optional(a.PostalCode),
		Region:       optional(a.Region),
		Latitud:      newFlexFloat(a.Latitude),
		Longitud:     newFlexFloat(a.Longitude),
	}
	if a.ID != 0 {
		id := a.ID
		d.IDDireccion = &id
	}
	return d
}

func toUser(d usuarioDetalleDTO) models.User {
	isClient := d.EsCliente != nil && *d.EsCliente
	isProvider := d.EsProveedor != nil && *d.EsProveedor
	return models.User{
		ID:          d.IDUsuario,
		Name:        d.Nombre,
		Email:       d.Correo,
		Phone:       deref(d.Telefono),
		Description: deref(d.Descripcion),
		Evaluation:  d.Evaluacion,
		PhotoURL:    deref(d.FotoPerfilURL),
		Address:     toAddress(d.Direccion),
		IsClient:    isClient,
		IsProvider:  isProvider,
		Role:        models.DeriveRole(isClient, isProvider),
	}
}

func fromRegistration(r models.UserRegistration) usuarioDTO {
	return usuarioDTO{
		Correo:          strings.TrimSpace(r.Email),
		Nombre:          strings.TrimSpace(r.Name),
		Contrasena:      r.Password,
		Descripcion:     optional(r.Description),
		FechaNacimiento: optional(r.BirthDate),
		Telefono:        optional(r.Phone),
		EsCliente:       r.IsClient,
		EsProveedor:     r.IsProvider,
	}
}

// toServiceRequest keeps states this service does not know about verbatim.
// They count toward totals but offer no actions.
func toServiceRequest(d solicitudListadoDTO) models.ServiceRequest {
	state, ok := models.ParseRequestState(d.Estado)
	if !ok {
		log.Printf("⚠️ Request %d has unknown state %q", d.IDSolicitud, d.Estado)
		state = models.RequestState(strings.TrimSpace(d.Estado))
	}

	r := models.ServiceRequest{
		ID:           d.IDSolicitud,
		ClientID:     d.IDUsuario,
		ProviderID:   d.IDProveedor,
		ServiceID:    d.IDServicio,
		ClientName:   d.ClienteNombre,
		ProviderName: d.ProveedorNombre,
		State:        state,
		ScheduledAt:  parseTimePtr(d.FechaAgendamiento),
		CompletedAt:  parseTimePtr(d.FechaRealizacion),
		FinalizedAt:  parseTimePtr(d.FechaFinalizacion),
	}
	if created := parseTime(d.FechaCreacion); created != nil {
		r.CreatedAt = *created
	}
	if state == models.RequestStateFinalized {
		r.Settlement = &models.Settlement{
			AgreedPrice:   d.PrecioAcordado,
			PaymentMethod: deref(d.MedioDePago),
			Notes:         deref(d.Notas),
		}
	}
	return r
}

func toServiceRequests(dtos []solicitudListadoDTO) []models.ServiceRequest {
	out := make([]models.ServiceRequest, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toServiceRequest(d))
	}
	return out
}

func toRating(d calificacionDTO) models.Rating {
	r := models.Rating{
		ID:             d.IDValorizacion,
		AuthorID:       d.IDUsuario,
		AuthorName:     deref(d.AutorNombre),
		AuthorPhotoURL: deref(d.FotoAutorURL),
		RequestID:      d.IDSolicitud,
		Stars:          d.CantEstrellas,
		Comment:        optional(deref(d.Comentario)),
		RecipientName:  deref(d.ReceptorNombre),
	}
	if d.ReceptorUsuarioID != nil {
		r.RecipientID = *d.ReceptorUsuarioID
	}
	if created := parseTime(d.Fecha); created != nil {
		r.CreatedAt = *created
	}
	return r
}

func toRatings(dtos []calificacionDTO) []models.Rating {
	out := make([]models.Rating, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toRating(d))
	}
	return out
}

func fromReport(r models.Report) denunciaCreateDTO {
	return denunciaCreateDTO{
		IDUsuarioDenunciante: r.ReporterID,
		IDValorizacion:       r.RatingID,
		IDServicio:           r.ServiceID,
		Motivo:               r.Reason,
	}
}

func toRatingReport(d denunciaResenaAdminDTO) models.RatingReport {
	return models.RatingReport{
		ID:            d.IDDenuncia,
		ReporterID:    d.IDUsuarioDenunciante,
		ReporterName:  deref(d.DenuncianteNombre),
		RatingID:      d.IDValorizacion,
		RatingComment: optional(deref(d.ResenaComentario)),
		RatingStars:   d.ResenaCantEstrellas,
		RatingDate:    d.ResenaFecha,
		AuthorID:      d.ResenaAutorID,
		AuthorName:    deref(d.ResenaAutorNombre),
		Reason:        d.Motivo,
	}
}

func toServiceReport(d denunciaServicioAdminDTO) models.ServiceReport {
	return models.ServiceReport{
		ID:           d.IDDenuncia,
		ReporterID:   d.IDUsuarioDenunciante,
		ReporterName: deref(d.DenuncianteNombre),
		ServiceID:    d.IDServicio,
		ServiceTitle: deref(d.ServicioTitulo),
		CategoryName: deref(d.ServicioCategoria),
		ProviderID:   d.ProveedorID,
		ProviderName: deref(d.ProveedorNombre),
		Reason:       d.Motivo,
	}
}

func toRequestReport(d denunciaSolicitudAdminDTO) models.RequestReport {
	state, _ := models.ParseRequestState(d.SolicitudEstado)
	return models.RequestReport{
		ID:           d.IDDenuncia,
		ReporterID:   d.IDUsuarioDenunciante,
		ReporterName: deref(d.DenuncianteNombre),
		RequestID:    d.IDSolicitud,
		Summary:      deref(d.SolicitudResumen),
		State:        state,
		ClientID:     d.ClienteID,
		ClientName:   deref(d.ClienteNombre),
		ProviderID:   d.ProveedorID,
		ProviderName: deref(d.ProveedorNombre),
		Reason:       d.Motivo,
	}
}

func toCategory(d categoriaDTO) models.Category {
	return models.Category{
		ID:          d.IDCategoriaServicio,
		Name:        d.Nombre,
		Description: deref(d.Descripcion),
	}
}

func toService(d servicioDTO) models.Service {
	s := models.Service{
		ID:            d.IDServicio,
		ProviderID:    d.IDUsuario,
		ProviderName:  d.ProveedorNombre,
		ProviderPhone: deref(d.TelefonoProveedor),
		Title:         d.Titulo,
		Description:   deref(d.Descripcion),
		BasePrice:     d.PrecioBase,
		Negotiable:    d.EsConversable,
		CategoryID:    d.IDCategoriaServicio,
		CategoryName:  d.CategoriaNombre,
		Active:        d.Activo,
		PhotoURL:      deref(d.URLFotoPrincipal),
		Location:      deref(d.Ubicacion),
		Latitude:      d.Latitud.Value,
		Longitude:     d.Longitud.Value,
	}
	if published := parseTime(d.FechaPublicacion); published != nil {
		s.PublishedAt = *published
	}
	// Coordinates may only be present on the nested address
	if s.Latitude == nil || s.Longitude == nil {
		if addr := toAddress(d.Direccion); addr.HasCoordinates() {
			s.Latitude, s.Longitude = addr.Latitude, addr.Longitude
		}
	}
	return s
}

func toServices(dtos []servicioDTO) []models.Service {
	out := make([]models.Service, 0, len(dtos))
	for _, d := range dtos {
		out = append(out, toService(d))
	}
	return out
}

func toServiceDetail(d servicioDetalleDTO) models.ServiceDetail {
	detail := models.ServiceDetail{
		ID:                 d.IDServicio,
		Title:              d.Titulo,
		Description:        deref(d.Descripcion),
		BasePrice:          d.PrecioBase,
		CategoryName:       d.Categoria,
		Location:           deref(d.Ubicacion),
		ProviderID:         d.ProveedorID,
		ProviderName:       d.ProveedorNombre,
		ProviderPhotoURL:   deref(d.ProveedorFoto),
		ProviderEvaluation: d.ProveedorEvaluacion,
		ProviderPhone:      deref(d.ProveedorTelefono),
		Photos:             make([]models.ServicePhoto, 0, len(d.Fotos)),
	}
	for _, f := range d.Fotos {
		detail.Photos = append(detail.Photos, models.ServicePhoto{
			ID:        f.IDFoto,
			URL:       f.URL,
			Principal: f.EsPrincipal,
			Order:     f.Orden,
		})
	}
	return detail
}

func fromServiceCreate(in models.ServiceCreate) createServiceDTO {
	d := createServiceDTO{
		Titulo:              strings.TrimSpace(in.Title),
		Descripcion:         optional(in.Description),
		IDCategoriaServicio: in.CategoryID,
		Direccion:           fromAddress(in.Address),
	}
	if in.BasePrice != nil {
		d.PrecioBase = *in.BasePrice
	}
	for i, url := range in.PhotoURLs {
		d.Fotos = append(d.Fotos, fotoServicioDTO{Ruta: url, EsPrincipal: i == 0})
	}
	return d
}

func toProfilePhoto(d fotoUsuarioDTO) models.ProfilePhoto {
	url := d.URL
	if url == "" {
		url = d.Ruta
	}
	return models.ProfilePhoto{
		ID:         d.IDFoto,
		URL:        url,
		UploadedAt: parseTimePtr(d.FechaSubida),
	}
}
