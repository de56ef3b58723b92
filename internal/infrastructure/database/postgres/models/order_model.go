package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderModel represents the database model for Orders
type OrderModel struct {
	ID          int64             `gorm:"primaryKey;autoIncrement"`
	Category    string            `gorm:"type:ordercategory;not null"`
	Description datatypes.JSONMap `gorm:"type:json;not null"`
	CreatedAt   time.Time         `gorm:"type:timestamp;autoCreateTime:false"`
	ValidSince  *time.Time        `gorm:"type:timestamp"`
	ValidUntil  *time.Time        `gorm:"type:timestamp"`
	Status      string            `gorm:"type:orderstatus;not null"`
	SeniorID    int64             `gorm:"not null;index"`
	VolunteerID *int64            `gorm:"index"`

	// Relations
	Senior    *UserModel `gorm:"foreignKey:SeniorID;constraint:OnDelete:CASCADE"`
	Volunteer *UserModel `gorm:"foreignKey:VolunteerID;constraint:OnDelete:CASCADE"`
}

func (OrderModel) TableName() string {
	return "orders"
}
