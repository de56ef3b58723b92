package order

import (
	"errors"
	"time"
	domainOrder "volunteer-match/internal/domain/order"
	appErrors "volunteer-match/pkg/errors"
)

// queryValidationErrors are the engine errors the caller can fix.
var queryValidationErrors = []error{
	domainOrder.ErrInvalidCategory,
	domainOrder.ErrInvalidStatus,
	domainOrder.ErrInvalidSortField,
	domainOrder.ErrInvalidSortDirection,
	domainOrder.ErrDistanceWithoutReference,
	domainOrder.ErrInvalidReferencePoint,
	domainOrder.ErrInvalidPagination,
}

// BuildQuery turns the bound query string into an engine query. Supplying
// only one of latitude/longitude means no reference point.
func BuildQuery(req *ListOrdersRequest, defaultLimit int) (*domainOrder.Query, error) {
	q := &domainOrder.Query{
		Filter: domainOrder.Filter{
			SeniorID:    req.SeniorID,
			VolunteerID: req.VolunteerID,
			ValidSince:  req.ValidSince,
			ValidUntil:  req.ValidUntil,
		},
		Page: domainOrder.Page{Skip: req.Skip, Limit: defaultLimit},
	}

	if req.Category != "" {
		category := domainOrder.Category(req.Category)
		q.Filter.Category = &category
	}
	if req.Status != "" {
		status := domainOrder.Status(req.Status)
		q.Filter.Status = &status
	}

	if req.SortBy != "" {
		field, err := domainOrder.ParseSortField(req.SortBy)
		if err != nil {
			return nil, appErrors.Validation(err.Error(), err)
		}
		direction := domainOrder.Ascending
		if req.SortDirection != "" {
			direction = domainOrder.Direction(req.SortDirection)
		}
		q.Sort = &domainOrder.Sort{Field: field, Direction: direction}
	}

	if req.Limit != nil {
		q.Page.Limit = *req.Limit
	}

	if req.Latitude != nil && req.Longitude != nil {
		q.Reference = &domainOrder.Point{Latitude: *req.Latitude, Longitude: *req.Longitude}
	}

	if err := q.Validate(); err != nil {
		return nil, AsValidationError(err)
	}

	return q, nil
}

// AsValidationError tags engine validation failures so handlers answer 400.
// Anything else passes through untouched.
func AsValidationError(err error) error {
	for _, target := range queryValidationErrors {
		if errors.Is(err, target) {
			return appErrors.Validation(err.Error(), err)
		}
	}
	return err
}

// ValidateTimeRange rejects a validity window that ends before it starts
func ValidateTimeRange(validSince, validUntil *time.Time) error {
	if validSince == nil || validUntil == nil {
		return nil
	}

	if validUntil.Before(*validSince) {
		return appErrors.NewAppError(appErrors.CodeValidation, "valid_until must not be before valid_since", nil)
	}

	return nil
}
