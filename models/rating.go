package models

import "time"

// Rating is one evaluation authored by a participant about the counterpart of a request
type Rating struct {
	ID             uint      `json:"id"`
	AuthorID       uint      `json:"author_id"`
	AuthorName     string    `json:"author_name,omitempty"`
	AuthorPhotoURL string    `json:"author_photo_url,omitempty"`
	RequestID      uint      `json:"request_id"`
	Stars          int       `json:"stars"`
	Comment        *string   `json:"comment,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	RecipientID    uint      `json:"recipient_id,omitempty"`
	RecipientName  string    `json:"recipient_name,omitempty"`
}

// RatingCreate is the payload accepted to rate a counterpart
type RatingCreate struct {
	RequestID uint   `json:"request_id" validate:"required"`
	Stars     int    `json:"stars" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"max=1000"`
}

// RatingUpdate carries the only mutable fields of a rating
type RatingUpdate struct {
	Stars   int    `json:"stars" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=1000"`
}

// Counterpart is a person the current user can still rate
type Counterpart struct {
	ID          uint   `json:"id"`
	DisplayName string `json:"display_name"`
}

// StarState is one position of a five-star rendering
type StarState string

const (
	StarFull  StarState = "full"
	StarHalf  StarState = "half"
	StarEmpty StarState = "empty"
)

// RatingOverview summarises the ratings received by a user
type RatingOverview struct {
	Ratings []Rating    `json:"ratings"`
	Count   int         `json:"count"`
	Average float64     `json:"average"`
	Stars   []StarState `json:"stars"`
}
