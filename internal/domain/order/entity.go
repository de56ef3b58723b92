package order

import (
	"time"
)

// Category is what kind of help the senior asks for
type Category string

const (
	CategoryGroceries    Category = "groceries"
	CategoryPetWalking   Category = "pet_walking"
	CategoryConversation Category = "conversation"
	CategoryOther        Category = "other"
)

var categories = []Category{CategoryGroceries, CategoryPetWalking, CategoryConversation, CategoryOther}

func (c Category) IsValid() bool {
	for _, known := range categories {
		if c == known {
			return true
		}
	}
	return false
}

// Status represents the status of an order. Transitions are not enforced.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAccepted  Status = "accepted"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

var statuses = []Status{StatusPending, StatusAccepted, StatusCompleted, StatusCancelled}

func (s Status) IsValid() bool {
	for _, known := range statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Description is a free-form JSON document kept opaque by the query engine.
type Description map[string]any

// Order is a request for help posted by a senior
type Order struct {
	ID       int64
	Category Category

	Description Description

	CreatedAt  time.Time
	ValidSince *time.Time
	ValidUntil *time.Time

	Status Status

	// Parties involved
	SeniorID    int64
	VolunteerID *int64
}

// Patch carries the fields of a partial update; nil fields are left untouched.
type Patch struct {
	Category    *Category
	Description *Description
	ValidSince  *time.Time
	ValidUntil  *time.Time
	Status      *Status
	SeniorID    *int64
	VolunteerID *int64
}

// IsEmpty reports whether the patch changes nothing.
func (p *Patch) IsEmpty() bool {
	return p.Category == nil && p.Description == nil && p.ValidSince == nil &&
		p.ValidUntil == nil && p.Status == nil && p.SeniorID == nil && p.VolunteerID == nil
}

// Apply copies the supplied fields onto o.
func (p *Patch) Apply(o *Order) {
	if p.Category != nil {
		o.Category = *p.Category
	}
	if p.Description != nil {
		o.Description = *p.Description
	}
	if p.ValidSince != nil {
		t := *p.ValidSince
		o.ValidSince = &t
	}
	if p.ValidUntil != nil {
		t := *p.ValidUntil
		o.ValidUntil = &t
	}
	if p.Status != nil {
		o.Status = *p.Status
	}
	if p.SeniorID != nil {
		o.SeniorID = *p.SeniorID
	}
	if p.VolunteerID != nil {
		id := *p.VolunteerID
		o.VolunteerID = &id
	}
}

// Result is one row of a query. Distance is only meaningful when HasDistance
// is set, and stays nil when the senior has no stored coordinates.
type Result struct {
	Order       *Order
	Distance    *float64
	HasDistance bool
}
