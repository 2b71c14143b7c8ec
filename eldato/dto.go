package eldato

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Wire shapes of the El Dato API. Field names follow the server contract and
// never leave this package; mapping.go converts them into models.

type loginDTO struct {
	Correo     string `json:"correo"`
	Contrasena string `json:"contrasena"`
}

type loginResponseDTO struct {
	IsSuccess bool   `json:"isSuccess"`
	Token     string `json:"token"`
}

type usuarioDTO struct {
	Correo          string  `json:"correo"`
	Nombre          string  `json:"nombre"`
	Contrasena      string  `json:"contrasena"`
	Descripcion     *string `json:"descripcion"`
	FechaNacimiento *string `json:"fechaNacimiento"`
	Telefono        *string `json:"telefono"`
	EsCliente       bool    `json:"esCliente"`
	EsProveedor     bool    `json:"esProveedor"`
}

type registerResponseDTO struct {
	IsSuccess bool   `json:"isSuccess"`
	UserID    *uint  `json:"userId"`
	Message   string `json:"message"`
}

type direccionDTO struct {
	IDDireccion  *uint     `json:"idDireccion,omitempty"`
	Descripcion  string    `json:"descripcion"`
	Comuna       *string   `json:"comuna,omitempty"`
	CodigoPostal *string   `json:"codigoPostal,omitempty"`
	Region       *string   `json:"region,omitempty"`
	Latitud      flexFloat `json:"latitud"`
	Longitud     flexFloat `json:"longitud"`
}

type usuarioDetalleDTO struct {
	IDUsuario     uint          `json:"idUsuario"`
	Nombre        string        `json:"nombre"`
	Correo        string        `json:"correo"`
	Telefono      *string       `json:"telefono"`
	Evaluacion    *float64      `json:"evaluacion"`
	Descripcion   *string       `json:"descripcion"`
	Direccion     *direccionDTO `json:"direccion"`
	FotoPerfilURL *string       `json:"fotoPerfilUrl"`
	EsCliente     *bool         `json:"esCliente"`
	EsProveedor   *bool         `json:"esProveedor"`
}

type fotoUsuarioDTO struct {
	IDFoto      uint    `json:"idFoto"`
	URL         string  `json:"url"`
	Ruta        string  `json:"ruta"`
	FechaSubida *string `json:"fechaSubida"`
}

type solicitudListadoDTO struct {
	IDSolicitud       uint     `json:"idSolicitud"`
	IDUsuario         uint     `json:"idUsuario"`
	IDProveedor       uint     `json:"idProveedor"`
	IDServicio        uint     `json:"idServicio"`
	FechaAgendamiento *string  `json:"fechaAgendamiento"`
	PrecioAcordado    *float64 `json:"precioAcordado"`
	FechaCreacion     string   `json:"fechaCreacion"`
	FechaRealizacion  *string  `json:"fechaRealizacion"`
	FechaFinalizacion *string  `json:"fechaFinalizacion"`
	Estado            string   `json:"estado"`
	ClienteNombre     string   `json:"clienteNombre"`
	ProveedorNombre   string   `json:"proveedorNombre"`
	MedioDePago       *string  `json:"medioDePago"`
	Notas             *string  `json:"notas"`
}

type solicitudCreateDTO struct {
	IDUsuario         uint    `json:"idUsuario"`
	IDProveedor       uint    `json:"idProveedor"`
	IDServicio        uint    `json:"idServicio"`
	FechaAgendamiento *string `json:"fechaAgendamiento"`
}

type solicitudFinalizarDTO struct {
	PrecioAcordado float64 `json:"precioAcordado"`
	MedioDePago    string  `json:"medioDePago"`
	Notas          *string `json:"notas"`
}

type calificacionDTO struct {
	IDValorizacion    uint    `json:"idValorizacion"`
	IDUsuario         uint    `json:"idUsuario"`
	IDSolicitud       uint    `json:"idSolicitud"`
	CantEstrellas     int     `json:"cantEstrellas"`
	Comentario        *string `json:"comentario"`
	Fecha             string  `json:"fecha"`
	ReceptorUsuarioID *uint   `json:"receptorUsuarioId"`
	ReceptorNombre    *string `json:"receptorNombre"`
	AutorNombre       *string `json:"autorNombre"`
	FotoAutorURL      *string `json:"fotoAutorUrl"`
}

type calificacionCreateDTO struct {
	IDUsuario     uint    `json:"idUsuario"`
	IDSolicitud   uint    `json:"idSolicitud"`
	CantEstrellas int     `json:"cantEstrellas"`
	Comentario    *string `json:"comentario"`
}

type calificacionUpdateDTO struct {
	CantEstrellas int     `json:"cantEstrellas"`
	Comentario    *string `json:"comentario"`
}

type denunciaCreateDTO struct {
	IDUsuarioDenunciante uint   `json:"idUsuarioDenunciante"`
	IDValorizacion       *uint  `json:"idValorizacion,omitempty"`
	IDServicio           *uint  `json:"idServicio,omitempty"`
	Motivo               string `json:"motivo"`
}

type denunciaResenaAdminDTO struct {
	IDDenuncia           uint    `json:"idDenuncia"`
	IDUsuarioDenunciante uint    `json:"idUsuarioDenunciante"`
	DenuncianteNombre    *string `json:"denuncianteNombre"`
	IDValorizacion       uint    `json:"idValorizacion"`
	ResenaComentario     *string `json:"resenaComentario"`
	ResenaCantEstrellas  int     `json:"resenaCantEstrellas"`
	ResenaFecha          string  `json:"resenaFecha"`
	ResenaAutorID        uint    `json:"resenaAutorId"`
	ResenaAutorNombre    *string `json:"resenaAutorNombre"`
	Motivo               string  `json:"motivo"`
}

type denunciaServicioAdminDTO struct {
	IDDenuncia           uint    `json:"idDenuncia"`
	IDUsuarioDenunciante uint    `json:"idUsuarioDenunciante"`
	DenuncianteNombre    *string `json:"denuncianteNombre"`
	IDServicio           uint    `json:"idServicio"`
	ServicioTitulo       *string `json:"servicioTitulo"`
	ServicioCategoria    *string `json:"servicioCategoria"`
	ProveedorID          uint    `json:"proveedorId"`
	ProveedorNombre      *string `json:"proveedorNombre"`
	Motivo               string  `json:"motivo"`
}

type denunciaSolicitudAdminDTO struct {
	IDDenuncia           uint    `json:"idDenuncia"`
	IDUsuarioDenunciante uint    `json:"idUsuarioDenunciante"`
	DenuncianteNombre    *string `json:"denuncianteNombre"`
	IDSolicitud          uint    `json:"idSolicitud"`
	SolicitudResumen     *string `json:"solicitudResumen"`
	SolicitudEstado      string  `json:"solicitudEstado"`
	ClienteID            uint    `json:"clienteId"`
	ClienteNombre        *string `json:"clienteNombre"`
	ProveedorID          uint    `json:"proveedorId"`
	ProveedorNombre      *string `json:"proveedorNombre"`
	Motivo               string  `json:"motivo"`
}

type categoriaDTO struct {
	IDCategoriaServicio uint    `json:"idCategoriaServicio"`
	Nombre              string  `json:"nombre"`
	Descripcion         *string `json:"descripcion"`
}

type servicioDTO struct {
	IDServicio          uint          `json:"idServicio"`
	IDUsuario           uint          `json:"idUsuario"`
	Titulo              string        `json:"titulo"`
	Descripcion         *string       `json:"descripcion"`
	PrecioBase          float64       `json:"precioBase"`
	EsConversable       bool          `json:"esConversable"`
	IDCategoriaServicio uint          `json:"idCategoriaServicio"`
	Activo              bool          `json:"activo"`
	FechaPublicacion    string        `json:"fechaPublicacion"`
	URLFotoPrincipal    *string       `json:"urlFotoPrincipal"`
	CategoriaNombre     string        `json:"categoriaNombre"`
	ProveedorNombre     string        `json:"proveedorNombre"`
	Ubicacion           *string       `json:"ubicacion"`
	TelefonoProveedor   *string       `json:"telefonoProveedor"`
	Direccion           *direccionDTO `json:"direccion"`
	Latitud             flexFloat     `json:"latitud"`
	Longitud            flexFloat     `json:"longitud"`
}

type fotoServicioDetalleDTO struct {
	IDFoto      uint   `json:"idFoto"`
	URL         string `json:"url"`
	EsPrincipal bool   `json:"esPrincipal"`
	Orden       int    `json:"orden"`
}

type servicioDetalleDTO struct {
	IDServicio          uint                     `json:"idServicio"`
	Titulo              string                   `json:"titulo"`
	Descripcion         *string                  `json:"descripcion"`
	PrecioBase          float64                  `json:"precioBase"`
	Categoria           string                   `json:"categoria"`
	Ubicacion           *string                  `json:"ubicacion"`
	ProveedorID         uint                     `json:"proveedorId"`
	ProveedorNombre     string                   `json:"proveedorNombre"`
	ProveedorFoto       *string                  `json:"proveedorFoto"`
	ProveedorEvaluacion float64                  `json:"proveedorEvaluacion"`
	ProveedorTelefono   *string                  `json:"proveedorTelefono"`
	Fotos               []fotoServicioDetalleDTO `json:"fotos"`
}

type fotoServicioDTO struct {
	Ruta        string `json:"ruta"`
	EsPrincipal bool   `json:"esPrincipal"`
}

type createServiceDTO struct {
	Titulo              string            `json:"titulo"`
	Descripcion         *string           `json:"descripcion"`
	PrecioBase          float64           `json:"precioBase"`
	IDCategoriaServicio uint              `json:"idCategoriaServicio"`
	Direccion           *direccionDTO     `json:"direccion,omitempty"`
	Fotos               []fotoServicioDTO `json:"fotos,omitempty"`
}

// flexFloat accepts a JSON number, a numeric string, an empty string or null.
// The server sends coordinates in any of these forms.
type flexFloat struct {
	Value *float64
}

func newFlexFloat(v *float64) flexFloat {
	return flexFloat{Value: v}
}

func (f *flexFloat) UnmarshalJSON(data []byte) error {
	f.Value = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
		if s == "" {
			return nil
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return fmt.Errorf("invalid coordinate %q: %w", s, err)
		}
		f.Value = &v
		return nil
	}

	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid coordinate %s: %w", data, err)
	}
	f.Value = &v
	return nil
}

func (f flexFloat) MarshalJSON() ([]byte, error) {
	if f.Value == nil {
		return []byte("null"), nil
	}
	return json.Marshal(*f.Value)
}
