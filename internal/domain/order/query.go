package order

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Filter holds optional constraints. A nil field means no constraint; all
// present fields are AND-combined.
type Filter struct {
	Category    *Category
	Status      *Status
	SeniorID    *int64
	VolunteerID *int64

	// Validity window bounds
	ValidSince *time.Time // matches valid_since >= ValidSince
	ValidUntil *time.Time // matches valid_until <= ValidUntil
}

// Matches evaluates the filter against o with SQL semantics: a NULL column
// never satisfies a comparison.
func (f *Filter) Matches(o *Order) bool {
	if f.Category != nil && o.Category != *f.Category {
		return false
	}
	if f.Status != nil && o.Status != *f.Status {
		return false
	}
	if f.SeniorID != nil && o.SeniorID != *f.SeniorID {
		return false
	}
	if f.VolunteerID != nil && (o.VolunteerID == nil || *o.VolunteerID != *f.VolunteerID) {
		return false
	}
	if f.ValidSince != nil && (o.ValidSince == nil || o.ValidSince.Before(*f.ValidSince)) {
		return false
	}
	if f.ValidUntil != nil && (o.ValidUntil == nil || o.ValidUntil.After(*f.ValidUntil)) {
		return false
	}
	return true
}

type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortField is one of the enumerated sortable fields.
type SortField string

const (
	SortByID          SortField = "id"
	SortByCategory    SortField = "category"
	SortByCreatedAt   SortField = "created_at"
	SortByValidSince  SortField = "valid_since"
	SortByValidUntil  SortField = "valid_until"
	SortByStatus      SortField = "status"
	SortBySeniorID    SortField = "senior_id"
	SortByVolunteerID SortField = "volunteer_id"
	SortByDistance    SortField = "distance"
)

type fieldSpec struct {
	// column is empty for computed fields
	column  string
	isNull  func(r *Result) bool
	compare func(a, b *Result) int // only called when neither side is null
}

func never(*Result) bool { return false }

var sortFields = map[SortField]fieldSpec{
	SortByID: {
		column:  "id",
		isNull:  never,
		compare: func(a, b *Result) int { return compareOrdered(a.Order.ID, b.Order.ID) },
	},
	SortByCategory: {
		column:  "category",
		isNull:  never,
		compare: func(a, b *Result) int { return compareEnum(categories, a.Order.Category, b.Order.Category) },
	},
	SortByCreatedAt: {
		column:  "created_at",
		isNull:  never,
		compare: func(a, b *Result) int { return a.Order.CreatedAt.Compare(b.Order.CreatedAt) },
	},
	SortByValidSince: {
		column:  "valid_since",
		isNull:  func(r *Result) bool { return r.Order.ValidSince == nil },
		compare: func(a, b *Result) int { return a.Order.ValidSince.Compare(*b.Order.ValidSince) },
	},
	SortByValidUntil: {
		column:  "valid_until",
		isNull:  func(r *Result) bool { return r.Order.ValidUntil == nil },
		compare: func(a, b *Result) int { return a.Order.ValidUntil.Compare(*b.Order.ValidUntil) },
	},
	SortByStatus: {
		column:  "status",
		isNull:  never,
		compare: func(a, b *Result) int { return compareEnum(statuses, a.Order.Status, b.Order.Status) },
	},
	SortBySeniorID: {
		column:  "senior_id",
		isNull:  never,
		compare: func(a, b *Result) int { return compareOrdered(a.Order.SeniorID, b.Order.SeniorID) },
	},
	SortByVolunteerID: {
		column:  "volunteer_id",
		isNull:  func(r *Result) bool { return r.Order.VolunteerID == nil },
		compare: func(a, b *Result) int { return compareOrdered(*a.Order.VolunteerID, *b.Order.VolunteerID) },
	},
	SortByDistance: {
		isNull:  func(r *Result) bool { return r.Distance == nil },
		compare: func(a, b *Result) int { return compareOrdered(*a.Distance, *b.Distance) },
	},
}

// ParseSortField maps a caller-supplied name onto the enumeration.
func ParseSortField(name string) (SortField, error) {
	field := SortField(strings.TrimSpace(name))
	if _, ok := sortFields[field]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidSortField, name)
	}
	return field, nil
}

// Column returns the orders column backing the field, or "" for distance.
func (f SortField) Column() string {
	return sortFields[f].column
}

func (f SortField) IsComputed() bool {
	return f.Column() == ""
}

type Sort struct {
	Field     SortField
	Direction Direction
}

// Page is applied after filtering and ordering.
type Page struct {
	Skip  int
	Limit int
}

// Point is a WGS84 coordinate in degrees.
type Point struct {
	Latitude  float64
	Longitude float64
}

func (p Point) Validate() error {
	switch {
	case math.IsNaN(p.Latitude) || math.IsInf(p.Latitude, 0) || p.Latitude < -90 || p.Latitude > 90:
		return fmt.Errorf("%w: latitude %v", ErrInvalidReferencePoint, p.Latitude)
	case math.IsNaN(p.Longitude) || math.IsInf(p.Longitude, 0) || p.Longitude < -180 || p.Longitude > 180:
		return fmt.Errorf("%w: longitude %v", ErrInvalidReferencePoint, p.Longitude)
	}
	return nil
}

// Query is the full input of the order query engine.
type Query struct {
	Filter    Filter
	Sort      *Sort
	Page      Page
	Reference *Point
}

// Validate rejects queries the engine cannot run. Repositories call it before
// building anything.
func (q *Query) Validate() error {
	if q.Filter.Category != nil && !q.Filter.Category.IsValid() {
		return ErrInvalidCategory
	}
	if q.Filter.Status != nil && !q.Filter.Status.IsValid() {
		return ErrInvalidStatus
	}
	if q.Sort != nil {
		if _, ok := sortFields[q.Sort.Field]; !ok {
			return fmt.Errorf("%w: %q", ErrInvalidSortField, q.Sort.Field)
		}
		if q.Sort.Direction != Ascending && q.Sort.Direction != Descending {
			return fmt.Errorf("%w: %q", ErrInvalidSortDirection, q.Sort.Direction)
		}
		if q.Sort.Field == SortByDistance && q.Reference == nil {
			return ErrDistanceWithoutReference
		}
	}
	if q.Reference != nil {
		if err := q.Reference.Validate(); err != nil {
			return err
		}
	}
	if q.Page.Skip < 0 || q.Page.Limit < 0 {
		return ErrInvalidPagination
	}
	return nil
}

// EffectiveSort is the requested sort, or ascending id when none was given.
func (q *Query) EffectiveSort() Sort {
	if q.Sort == nil {
		return Sort{Field: SortByID, Direction: Ascending}
	}
	return *q.Sort
}

func compareOrdered[T int64 | float64](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareEnum follows declaration order, as Postgres does for enum columns.
func compareEnum[T comparable](order []T, a, b T) int {
	return compareOrdered(int64(indexOf(order, a)), int64(indexOf(order, b)))
}

func indexOf[T comparable](values []T, v T) int {
	for i, candidate := range values {
		if candidate == v {
			return i
		}
	}
	return len(values)
}
