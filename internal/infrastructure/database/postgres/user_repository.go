package postgres

import (
	"context"
	"errors"
	"fmt"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/infrastructure/database/postgres/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserRepository implements domainUser.Repository interface
type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) domainUser.Repository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domainUser.User) error {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	dbModel := toUserModel(u)
	if err := tx.Create(dbModel).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domainUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	u.ID = dbModel.ID
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID int64) (*domainUser.User, error) {
	return r.first(ctx, "id = ?", userID)
}

func (r *UserRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string) (*domainUser.User, error) {
	return r.first(ctx, "phone_number = ?", phoneNumber)
}

func (r *UserRepository) first(ctx context.Context, query string, args ...interface{}) (*domainUser.User, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.UserModel
	err := tx.Where(query, args...).First(&dbModel).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return toUserEntity(&dbModel), nil
}

func (r *UserRepository) List(ctx context.Context, skip, limit int) ([]*domainUser.User, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModels []models.UserModel
	err := tx.Order("id ASC").
		Offset(skip).
		Limit(limit).
		Find(&dbModels).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domainUser.User, len(dbModels))
	for i := range dbModels {
		users[i] = toUserEntity(&dbModels[i])
	}
	return users, nil
}

func (r *UserRepository) Update(ctx context.Context, userID int64, patch *domainUser.Patch) (*domainUser.User, error) {
	updates := userPatchToColumns(patch)
	if len(updates) == 0 {
		return r.GetByID(ctx, userID)
	}

	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.UserModel
	result := tx.Model(&dbModel).
		Clauses(clause.Returning{}).
		Where("id = ?", userID).
		Updates(updates)

	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return nil, domainUser.ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainUser.ErrUserNotFound
	}

	return toUserEntity(&dbModel), nil
}

// Delete removes the user; orders and sessions referencing it go with it
// through ON DELETE CASCADE.
func (r *UserRepository) Delete(ctx context.Context, userID int64) (*domainUser.User, error) {
	tx, cancel := r.db.session(ctx)
	defer cancel()

	var dbModel models.UserModel
	result := tx.Clauses(clause.Returning{}).
		Where("id = ?", userID).
		Delete(&dbModel)

	if result.Error != nil {
		return nil, fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, domainUser.ErrUserNotFound
	}

	return toUserEntity(&dbModel), nil
}

func userPatchToColumns(p *domainUser.Patch) map[string]interface{} {
	updates := map[string]interface{}{}
	if p.PhoneNumber != nil {
		updates["phone_number"] = *p.PhoneNumber
	}
	if p.FirstName != nil {
		updates["first_name"] = *p.FirstName
	}
	if p.LastName != nil {
		updates["last_name"] = *p.LastName
	}
	if p.Type != nil {
		updates["type"] = toEnumLabel(*p.Type)
	}
	if p.Address != nil {
		updates["address"] = *p.Address
	}
	if p.Longitude != nil {
		updates["longitude"] = *p.Longitude
	}
	if p.Latitude != nil {
		updates["latitude"] = *p.Latitude
	}
	if p.ImageURL != nil {
		updates["image_url"] = *p.ImageURL
	}
	if p.Description != nil {
		updates["description"] = *p.Description
	}
	return updates
}

func toUserModel(u *domainUser.User) *models.UserModel {
	return &models.UserModel{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Address:     u.Address,
		Longitude:   u.Longitude,
		Latitude:    u.Latitude,
		Type:        toEnumLabel(u.Type),
		ImageURL:    u.ImageURL,
		Description: u.Description,
	}
}

func toUserEntity(m *models.UserModel) *domainUser.User {
	return &domainUser.User{
		ID:          m.ID,
		PhoneNumber: m.PhoneNumber,
		FirstName:   m.FirstName,
		LastName:    m.LastName,
		Type:        fromEnumLabel[domainUser.Type](m.Type),
		Address:     m.Address,
		Longitude:   m.Longitude,
		Latitude:    m.Latitude,
		ImageURL:    m.ImageURL,
		Description: m.Description,
	}
}
