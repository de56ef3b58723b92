package order

import (
	"context"
	"errors"
	"strconv"
	"time"
	"volunteer-match/internal/config"
	domainOrder "volunteer-match/internal/domain/order"
	"volunteer-match/internal/logger"
	"volunteer-match/internal/metrics"
	appErrors "volunteer-match/pkg/errors"
	"volunteer-match/pkg/utils"

	"go.uber.org/zap"
)

// Service implements order use cases
type Service struct {
	orderRepo    domainOrder.Repository
	metrics      *metrics.Metrics
	defaultLimit int
}

// NewService creates a new order service. m may be nil.
func NewService(orderRepo domainOrder.Repository, cfg *config.Config, m *metrics.Metrics) *Service {
	return &Service{
		orderRepo:    orderRepo,
		metrics:      m,
		defaultLimit: cfg.Query.OrdersDefaultLimit,
	}
}

func (s *Service) ListOrders(ctx context.Context, req *ListOrdersRequest) ([]OrderListItem, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid query parameters", err)
	}

	q, err := BuildQuery(req, s.defaultLimit)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	results, err := s.orderRepo.Query(ctx, q)
	elapsed := time.Since(start)
	if err != nil {
		return nil, AsValidationError(err)
	}

	if s.metrics != nil {
		s.metrics.OrderQueryDuration.WithLabelValues(strconv.FormatBool(q.Reference != nil)).Observe(elapsed.Seconds())
		s.metrics.OrderQueryResults.Observe(float64(len(results)))
	}

	sort := q.EffectiveSort()
	logger.Debug("Orders queried",
		zap.String("sort_by", string(sort.Field)),
		zap.String("sort_direction", string(sort.Direction)),
		zap.Int("skip", q.Page.Skip),
		zap.Int("limit", q.Page.Limit),
		zap.Bool("with_distance", q.Reference != nil),
		zap.Int("results", len(results)),
		zap.Duration("elapsed", elapsed),
	)

	return ToOrderListItems(results), nil
}

func (s *Service) GetOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	o, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(o), nil
}

func (s *Service) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	if err := ValidateTimeRange(req.ValidSince, req.ValidUntil); err != nil {
		return nil, err
	}

	o := toDomainOrder(req)
	if err := s.orderRepo.Create(ctx, o); err != nil {
		return nil, mapPartyError(err)
	}

	logger.Info("Order created",
		zap.Int64("order_id", o.ID),
		zap.Int64("senior_id", o.SeniorID),
		zap.String("category", string(o.Category)),
		zap.String("event", "order_created"),
	)

	return ToOrderResponse(o), nil
}

func (s *Service) UpdateOrder(ctx context.Context, orderID int64, req *UpdateOrderRequest) (*OrderResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	patch := toDomainPatch(req)
	if err := s.validatePatchedWindow(ctx, orderID, patch); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.Update(ctx, orderID, patch)
	if err != nil {
		return nil, mapPartyError(err)
	}

	if req.Status != nil {
		logger.Info("Order status changed",
			zap.Int64("order_id", orderID),
			zap.String("status", *req.Status),
			zap.String("event", "order_status_changed"),
		)
	}

	return ToOrderResponse(updated), nil
}

// validatePatchedWindow checks the validity window the order will have once
// patch is applied, so a lone valid_until is compared with the stored
// valid_since.
func (s *Service) validatePatchedWindow(ctx context.Context, orderID int64, patch *domainOrder.Patch) error {
	if patch.ValidSince == nil && patch.ValidUntil == nil {
		return nil
	}

	current, err := s.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return err
	}

	patched := *current
	patch.Apply(&patched)
	return ValidateTimeRange(patched.ValidSince, patched.ValidUntil)
}

func (s *Service) DeleteOrder(ctx context.Context, orderID int64) (*OrderResponse, error) {
	deleted, err := s.orderRepo.Delete(ctx, orderID)
	if err != nil {
		return nil, err
	}

	logger.Info("Order deleted",
		zap.Int64("order_id", orderID),
		zap.String("event", "order_deleted"),
	)

	return ToOrderResponse(deleted), nil
}

func mapPartyError(err error) error {
	if errors.Is(err, domainOrder.ErrUnknownParty) {
		return appErrors.Validation(err.Error(), err)
	}
	return err
}
