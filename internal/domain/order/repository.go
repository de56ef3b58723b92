package order

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

import (
	"context"
)

// Repository defines the interface for order repository operations
type Repository interface {
	Create(ctx context.Context, o *Order) error
	GetByID(ctx context.Context, orderID int64) (*Order, error)
	Update(ctx context.Context, orderID int64, patch *Patch) (*Order, error)
	Delete(ctx context.Context, orderID int64) (*Order, error)

	// Query runs the filter/sort/paginate engine. It returns an empty slice,
	// not an error, when nothing matches.
	Query(ctx context.Context, q *Query) ([]Result, error)
}
