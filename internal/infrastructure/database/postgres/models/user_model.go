package models

// UserModel represents the database model for User
type UserModel struct {
	ID          int64    `gorm:"primaryKey;autoIncrement"`
	PhoneNumber string   `gorm:"type:varchar;not null;uniqueIndex"`
	FirstName   string   `gorm:"type:varchar;not null"`
	LastName    string   `gorm:"type:varchar;not null"`
	Address     *string  `gorm:"type:varchar"`
	Longitude   *float64 `gorm:"type:double precision"`
	Latitude    *float64 `gorm:"type:double precision"`
	Type        string   `gorm:"type:usertype;not null"`
	ImageURL    *string  `gorm:"column:image_url;type:varchar"`
	Description *string  `gorm:"type:varchar"`
}

func (UserModel) TableName() string {
	return "users"
}

// UserSessionModel represents the database model for UserSession
type UserSessionModel struct {
	ID     int64  `gorm:"primaryKey;autoIncrement"`
	Token  string `gorm:"type:varchar;not null;index"`
	UserID int64  `gorm:"not null;index"`

	User *UserModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
}

func (UserSessionModel) TableName() string {
	return "user_sessions"
}
