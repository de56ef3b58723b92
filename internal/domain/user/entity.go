package user

// Type is the role a user plays in the marketplace
type Type string

const (
	TypeSenior    Type = "senior"
	TypeVolunteer Type = "volunteer"
)

func (t Type) IsValid() bool {
	return t == TypeSenior || t == TypeVolunteer
}

// User represents a senior or a volunteer
type User struct {
	ID          int64
	PhoneNumber string
	FirstName   string
	LastName    string
	Type        Type

	// Location, nil until geocoded
	Address   *string
	Longitude *float64
	Latitude  *float64

	// Profile
	ImageURL    *string
	Description *string
}

// HasLocation reports whether both coordinates are stored.
func (u *User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

// Patch carries the fields of a partial update; nil fields are left untouched.
type Patch struct {
	PhoneNumber *string
	FirstName   *string
	LastName    *string
	Type        *Type
	Address     *string
	Longitude   *float64
	Latitude    *float64
	ImageURL    *string
	Description *string
}

func (p *Patch) Apply(u *User) {
	if p.PhoneNumber != nil {
		u.PhoneNumber = *p.PhoneNumber
	}
	if p.FirstName != nil {
		u.FirstName = *p.FirstName
	}
	if p.LastName != nil {
		u.LastName = *p.LastName
	}
	if p.Type != nil {
		u.Type = *p.Type
	}
	if p.Address != nil {
		u.Address = cloneOf(p.Address)
	}
	if p.Longitude != nil {
		u.Longitude = cloneOf(p.Longitude)
	}
	if p.Latitude != nil {
		u.Latitude = cloneOf(p.Latitude)
	}
	if p.ImageURL != nil {
		u.ImageURL = cloneOf(p.ImageURL)
	}
	if p.Description != nil {
		u.Description = cloneOf(p.Description)
	}
}

func cloneOf[T any](v *T) *T {
	c := *v
	return &c
}

// Session binds an opaque token to a user
type Session struct {
	ID     int64
	Token  string
	UserID int64
}
