package order

import "errors"

var (
	ErrOrderNotFound            = errors.New("order not found")
	ErrInvalidCategory          = errors.New("invalid order category")
	ErrInvalidStatus            = errors.New("invalid order status")
	ErrInvalidSortField         = errors.New("invalid sort field")
	ErrInvalidSortDirection     = errors.New("invalid sort direction")
	ErrDistanceWithoutReference = errors.New("sorting by distance requires latitude and longitude")
	ErrInvalidReferencePoint    = errors.New("invalid reference point")
	ErrInvalidPagination        = errors.New("skip and limit must not be negative")
	ErrUnknownParty             = errors.New("referenced senior or volunteer does not exist")
)
