package models

import "time"

// Category groups published services
type Category struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Address is a postal address with optional coordinates
type Address struct {
	ID          uint     `json:"id,omitempty"`
	Description string   `json:"description"`
	Commune     string   `json:"commune,omitempty"`
	PostalCode  string   `json:"postal_code,omitempty"`
	Region      string   `json:"region,omitempty"`
	Latitude    *float64 `json:"latitude,omitempty"`
	Longitude   *float64 `json:"longitude,omitempty"`
}

// HasCoordinates reports whether both coordinates are known
func (a *Address) HasCoordinates() bool {
	return a != nil && a.Latitude != nil && a.Longitude != nil
}

// Service is a published offer by a provider
type Service struct {
	ID            uint      `json:"id"`
	ProviderID    uint      `json:"provider_id"`
	ProviderName  string    `json:"provider_name"`
	ProviderPhone string    `json:"provider_phone,omitempty"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	BasePrice     float64   `json:"base_price"`
	Negotiable    bool      `json:"negotiable"`
	CategoryID    uint      `json:"category_id"`
	CategoryName  string    `json:"category_name"`
	Active        bool      `json:"active"`
	PublishedAt   time.Time `json:"published_at"`
	PhotoURL      string    `json:"photo_url,omitempty"`
	Location      string    `json:"location,omitempty"`
	Latitude      *float64  `json:"latitude,omitempty"`
	Longitude     *float64  `json:"longitude,omitempty"`
}

// ServicePhoto is one picture attached to a service
type ServicePhoto struct {
	ID        uint   `json:"id,omitempty"`
	URL       string `json:"url"`
	Principal bool   `json:"principal"`
	Order     int    `json:"order"`
}

// ServiceDetail is a service with its provider details and every photo
type ServiceDetail struct {
	ID                 uint           `json:"id"`
	Title              string         `json:"title"`
	Description        string         `json:"description,omitempty"`
	BasePrice          float64        `json:"base_price"`
	CategoryName       string         `json:"category_name"`
	Location           string         `json:"location,omitempty"`
	ProviderID         uint           `json:"provider_id"`
	ProviderName       string         `json:"provider_name"`
	ProviderPhotoURL   string         `json:"provider_photo_url,omitempty"`
	ProviderEvaluation float64        `json:"provider_evaluation"`
	ProviderStars      []StarState    `json:"provider_stars"`
	ProviderPhone      string         `json:"provider_phone,omitempty"`
	Photos             []ServicePhoto `json:"photos"`
}

// ServiceCreate is the payload accepted to publish a service
type ServiceCreate struct {
	Title       string   `json:"title" form:"title" validate:"required,min=3,max=150"`
	Description string   `json:"description" form:"description" validate:"required,min=10"`
	BasePrice   *float64 `json:"base_price" form:"base_price" validate:"omitempty,gte=0"`
	CategoryID  uint     `json:"category_id" form:"category_id" validate:"required"`
	Address     *Address `json:"address"`
	PhotoURLs   []string `json:"photo_urls"`
}

// ServiceSearch holds the filters of a service search
type ServiceSearch struct {
	Query      string   `form:"q"`
	CategoryID uint     `form:"category_id"`
	Latitude   *float64 `form:"lat"`
	Longitude  *float64 `form:"lng"`
	Address    string   `form:"address"`
	RadiusKm   float64  `form:"radius_km"`
}

// ServiceMatch is a search hit, with its distance when a proximity search was requested
type ServiceMatch struct {
	Service
	DistanceKm *float64 `json:"distance_km,omitempty"`
}
