package session

import (
	"context"
	"errors"
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"

	"eldato-web/models"
)

// GormStore persists sessions in the sessions table with the upstream token sealed
type GormStore struct {
	db     *gorm.DB
	sealer *Sealer
}

func NewGormStore(db *gorm.DB, sealer *Sealer) *GormStore {
	return &GormStore{db: db, sealer: sealer}
}

func (gs *GormStore) Save(ctx context.Context, s *Session) error {
	sealed, err := gs.sealer.Seal([]byte(s.Token))
	if err != nil {
		return err
	}
	row := models.Session{
		ID:            s.ID,
		UserID:        s.UserID,
		Role:          s.Role,
		DisplayName:   s.DisplayName,
		SealedToken:   sealed,
		SearchHistory: pq.StringArray(s.SearchHistory),
		ExpiresAt:     s.ExpiresAt,
	}
	if row.SearchHistory == nil {
		row.SearchHistory = pq.StringArray{}
	}
	return gs.db.WithContext(ctx).Save(&row).Error
}

func (gs *GormStore) Load(ctx context.Context, id string) (*Session, error) {
	var row models.Session
	if err := gs.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	token, err := gs.sealer.Open(row.SealedToken)
	if err != nil {
		return nil, err
	}
	return &Session{
		ID:            row.ID,
		UserID:        row.UserID,
		Role:          row.Role,
		DisplayName:   row.DisplayName,
		Token:         string(token),
		SearchHistory: append([]string{}, row.SearchHistory...),
		ExpiresAt:     row.ExpiresAt,
	}, nil
}

func (gs *GormStore) Delete(ctx context.Context, id string) error {
	res := gs.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Session{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (gs *GormStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := gs.db.WithContext(ctx).Where("expires_at <= ?", now).Delete(&models.Session{})
	return res.RowsAffected, res.Error
}
