package user

import (
	domainUser "volunteer-match/internal/domain/user"
)

type CreateUserRequest struct {
	PhoneNumber string   `json:"phone_number" validate:"required,phone"`
	FirstName   string   `json:"first_name" validate:"required,max=255"`
	LastName    string   `json:"last_name" validate:"required,max=255"`
	Type        string   `json:"type" validate:"required,user_type"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=2048"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
}

// UpdateUserRequest is a partial update; omitted fields keep their value.
type UpdateUserRequest struct {
	PhoneNumber *string  `json:"phone_number" validate:"omitempty,phone"`
	FirstName   *string  `json:"first_name" validate:"omitempty,min=1,max=255"`
	LastName    *string  `json:"last_name" validate:"omitempty,min=1,max=255"`
	Type        *string  `json:"type" validate:"omitempty,user_type"`
	Address     *string  `json:"address" validate:"omitempty,max=500"`
	Longitude   *float64 `json:"longitude" validate:"omitempty,longitude"`
	Latitude    *float64 `json:"latitude" validate:"omitempty,latitude"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,max=2048"`
	Description *string  `json:"description" validate:"omitempty,max=2000"`
}

type ListUsersRequest struct {
	Skip  int  `form:"skip" validate:"min=0"`
	Limit *int `form:"limit" validate:"omitempty,min=0"`
}

// RegisterRequest creates a user and binds the client-issued token to it.
type RegisterRequest struct {
	CreateUserRequest
	Token string `json:"token" validate:"required,max=512"`
}

type LoginRequest struct {
	PhoneNumber string `json:"phone_number" validate:"required"`
	Token       string `json:"token" validate:"required"`
}

type UserResponse struct {
	ID          int64           `json:"id"`
	PhoneNumber string          `json:"phone_number"`
	FirstName   string          `json:"first_name"`
	LastName    string          `json:"last_name"`
	Address     *string         `json:"address"`
	Longitude   *float64        `json:"longitude"`
	Latitude    *float64        `json:"latitude"`
	Type        domainUser.Type `json:"type"`
	ImageURL    *string         `json:"image_url"`
	Description *string         `json:"description"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:          u.ID,
		PhoneNumber: u.PhoneNumber,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Address:     u.Address,
		Longitude:   u.Longitude,
		Latitude:    u.Latitude,
		Type:        u.Type,
		ImageURL:    u.ImageURL,
		Description: u.Description,
	}
}

func toDomainUser(req *CreateUserRequest) *domainUser.User {
	return &domainUser.User{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Type:        domainUser.Type(req.Type),
		Address:     req.Address,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
}

func toDomainPatch(req *UpdateUserRequest) *domainUser.Patch {
	patch := &domainUser.Patch{
		PhoneNumber: req.PhoneNumber,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Address:     req.Address,
		Longitude:   req.Longitude,
		Latitude:    req.Latitude,
		ImageURL:    req.ImageURL,
		Description: req.Description,
	}
	if req.Type != nil {
		t := domainUser.Type(*req.Type)
		patch.Type = &t
	}
	return patch
}
