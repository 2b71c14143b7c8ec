package models

// ReportTarget names the kind of entity a report points at
type ReportTarget string

const (
	ReportTargetRating  ReportTarget = "rating"
	ReportTargetService ReportTarget = "service"
)

// Report is an abuse flag raised against exactly one rating or one service
type Report struct {
	ReporterID uint   `json:"reporter_id"`
	RatingID   *uint  `json:"rating_id,omitempty"`
	ServiceID  *uint  `json:"service_id,omitempty"`
	Reason     string `json:"reason"`
}

// Target returns which entity the report points at
func (r Report) Target() ReportTarget {
	if r.RatingID != nil {
		return ReportTargetRating
	}
	return ReportTargetService
}

// ReportCreate is the payload accepted to raise a report
type ReportCreate struct {
	Motive    string `json:"motive" validate:"required,max=200"`
	Detail    string `json:"detail" validate:"max=1000"`
	RatingID  *uint  `json:"rating_id"`
	ServiceID *uint  `json:"service_id"`
}

// RatingReport is the administrator view of a report against a rating
type RatingReport struct {
	ID            uint    `json:"id"`
	ReporterID    uint    `json:"reporter_id"`
	ReporterName  string  `json:"reporter_name,omitempty"`
	RatingID      uint    `json:"rating_id"`
	RatingComment *string `json:"rating_comment,omitempty"`
	RatingStars   int     `json:"rating_stars"`
	RatingDate    string  `json:"rating_date,omitempty"`
	AuthorID      uint    `json:"author_id"`
	AuthorName    string  `json:"author_name,omitempty"`
	Reason        string  `json:"reason"`
}

// ServiceReport is the administrator view of a report against a service
type ServiceReport struct {
	ID           uint   `json:"id"`
	ReporterID   uint   `json:"reporter_id"`
	ReporterName string `json:"reporter_name,omitempty"`
	ServiceID    uint   `json:"service_id"`
	ServiceTitle string `json:"service_title,omitempty"`
	CategoryName string `json:"category_name,omitempty"`
	ProviderID   uint   `json:"provider_id"`
	ProviderName string `json:"provider_name,omitempty"`
	Reason       string `json:"reason"`
}

// RequestReport is the administrator view of a report against a service request
type RequestReport struct {
	ID           uint         `json:"id"`
	ReporterID   uint         `json:"reporter_id"`
	ReporterName string       `json:"reporter_name,omitempty"`
	RequestID    uint         `json:"request_id"`
	Summary      string       `json:"summary,omitempty"`
	State        RequestState `json:"state"`
	ClientID     uint         `json:"client_id"`
	ClientName   string       `json:"client_name,omitempty"`
	ProviderID   uint         `json:"provider_id"`
	ProviderName string       `json:"provider_name,omitempty"`
	Reason       string       `json:"reason"`
}
