package postgres

import (
	"context"
	"errors"
	"fmt"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
)

// SessionRepository persists user_sessions rows
type SessionRepository struct {
	db *DB
}

func NewSessionRepository(db *DB) domainUser.SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, s *domainUser.Session) error {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	dbModel := &models.UserSessionModel{Token: s.Token, UserID: s.UserID}
	if err := tx.Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return domainUser.ErrUserNotFound
		}
		return fmt.Errorf("failed to create session: %w", err)
	}

	s.ID = dbModel.ID
	return nil
}

func (r *SessionRepository) GetByToken(ctx context.Context, token string) (*domainUser.Session, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.UserSessionModel
	err := tx.Where("token = ?", token).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	return &domainUser.Session{ID: dbModel.ID, Token: dbModel.Token, UserID: dbModel.UserID}, nil
}
