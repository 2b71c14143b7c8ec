package eligibility

import (
	"context"
	"log"
	"strings"

	"eldato-web/apperrors"
	"eldato-web/models"
	"eldato-web/utils"
)

// API is the remote side of ratings and reports
type API interface {
	ListMyRequests(ctx context.Context) ([]models.ServiceRequest, error)
	RatingsAuthoredBy(ctx context.Context, userID uint) ([]models.Rating, error)
	CreateRating(ctx context.Context, authorID, requestID uint, stars int, comment *string) (*models.Rating, error)
	UpdateRating(ctx context.Context, ratingID, actorID uint, stars int, comment *string) (*models.Rating, error)
	CreateReport(ctx context.Context, r models.Report) error
}

// Engine decides who can still be rated and mediates ratings and reports
type Engine struct {
	api API
}

func NewEngine(api API) *Engine {
	return &Engine{api: api}
}

// history loads the actor's requests and authored ratings together.
// Both must succeed.
func (e *Engine) history(ctx context.Context, actor models.Actor) ([]models.ServiceRequest, []models.Rating, error) {
	var (
		reqs    []models.ServiceRequest
		ratings []models.Rating
	)
	err := Join(ctx,
		func(ctx context.Context) error {
			var err error
			reqs, err = e.api.ListMyRequests(ctx)
			return err
		},
		func(ctx context.Context) error {
			var err error
			ratings, err = e.api.RatingsAuthoredBy(ctx, actor.UserID)
			return err
		},
	)
	if err != nil {
		return nil, nil, err
	}
	return reqs, ratings, nil
}

// PendingCounterparts lists the people the actor can still rate
func (e *Engine) PendingCounterparts(ctx context.Context, actor models.Actor) ([]models.Counterpart, error) {
	if !actor.Role.IsParticipant() {
		return nil, apperrors.Authorization("access denied")
	}
	reqs, ratings, err := e.history(ctx, actor)
	if err != nil {
		return nil, err
	}
	return Pending(reqs, ratings, actor), nil
}

// SelectCounterpart re-resolves the request a rating about counterpartID attaches to.
// The request list is fetched again since states may have moved since the selector was built.
func (e *Engine) SelectCounterpart(ctx context.Context, actor models.Actor, counterpartID uint) (models.ServiceRequest, error) {
	if !actor.Role.IsParticipant() {
		return models.ServiceRequest{}, apperrors.Authorization("access denied")
	}
	reqs, err := e.api.ListMyRequests(ctx)
	if err != nil {
		return models.ServiceRequest{}, err
	}
	return ResolveRequest(reqs, actor, counterpartID)
}

// CreateRating submits a rating written by the actor
func (e *Engine) CreateRating(ctx context.Context, actor models.Actor, in models.RatingCreate) (*models.Rating, error) {
	if !actor.Role.IsParticipant() {
		return nil, apperrors.Authorization("access denied")
	}
	if err := validateStars(in.Stars); err != nil {
		return nil, err
	}
	if in.RequestID == 0 {
		return nil, apperrors.Validation("Select who you want to rate.")
	}
	if err := utils.ValidateStruct(in, "invalid rating"); err != nil {
		return nil, err
	}

	rating, err := e.api.CreateRating(ctx, actor.UserID, in.RequestID, in.Stars, NormalizeComment(in.Comment))
	if err != nil {
		return nil, err
	}
	log.Printf("⭐ User %d rated request %d with %d stars", actor.UserID, in.RequestID, in.Stars)
	return rating, nil
}

// UpdateRating edits the stars and comment of one of the actor's ratings
func (e *Engine) UpdateRating(ctx context.Context, actor models.Actor, ratingID uint, in models.RatingUpdate) (*models.Rating, error) {
	if ratingID == 0 {
		return nil, apperrors.Validation("Select the rating to edit.")
	}
	if err := validateStars(in.Stars); err != nil {
		return nil, err
	}
	if err := utils.ValidateStruct(in, "invalid rating"); err != nil {
		return nil, err
	}
	return e.api.UpdateRating(ctx, ratingID, actor.UserID, in.Stars, NormalizeComment(in.Comment))
}

// SubmitReport files a report raised by the actor
func (e *Engine) SubmitReport(ctx context.Context, actor models.Actor, in models.ReportCreate) error {
	report, err := BuildReport(actor.UserID, in)
	if err != nil {
		return err
	}
	if err := e.api.CreateReport(ctx, report); err != nil {
		return err
	}
	log.Printf("🚩 User %d reported a %s", actor.UserID, report.Target())
	return nil
}

// NormalizeComment trims a comment and maps the empty string to absent
func NormalizeComment(comment string) *string {
	comment = strings.TrimSpace(comment)
	if comment == "" {
		return nil
	}
	return &comment
}

func validateStars(stars int) error {
	if stars < 1 || stars > MaxStars {
		return apperrors.Validation("Select between 1 and 5 stars.")
	}
	return nil
}
