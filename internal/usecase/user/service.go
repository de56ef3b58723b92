package user

import (
	"context"
	"errors"
	"fmt"
	"volunteer-match/internal/config"
	domainUser "volunteer-match/internal/domain/user"
	"volunteer-match/internal/logger"
	"volunteer-match/internal/metrics"
	appErrors "volunteer-match/pkg/errors"
	"volunteer-match/pkg/utils"

	"go.uber.org/zap"
)

// Service implements user and session use cases
type Service struct {
	userRepo     domainUser.Repository
	sessionRepo  domainUser.SessionRepository
	sessionCache domainUser.SessionCache
	metrics      *metrics.Metrics
	defaultLimit int
}

// NewService creates a new user service. sessionCache and m may be nil.
func NewService(
	userRepo domainUser.Repository,
	sessionRepo domainUser.SessionRepository,
	sessionCache domainUser.SessionCache,
	cfg *config.Config,
	m *metrics.Metrics,
) *Service {
	return &Service{
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		sessionCache: sessionCache,
		metrics:      m,
		defaultLimit: cfg.Query.UsersDefaultLimit,
	}
}

func (s *Service) ListUsers(ctx context.Context, req *ListUsersRequest) ([]*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid query parameters", err)
	}

	limit := s.defaultLimit
	if req.Limit != nil {
		limit = *req.Limit
	}

	users, err := s.userRepo.List(ctx, req.Skip, limit)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, len(users))
	for i, u := range users {
		responses[i] = ToUserResponse(u)
	}
	return responses, nil
}

func (s *Service) GetUser(ctx context.Context, userID int64) (*UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) CreateUser(ctx context.Context, req *CreateUserRequest) (*UserResponse, error) {
	u, err := s.createUser(ctx, req)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

func (s *Service) createUser(ctx context.Context, req *CreateUserRequest) (*domainUser.User, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	u := toDomainUser(req)
	if err := s.userRepo.Create(ctx, u); err != nil {
		if errors.Is(err, domainUser.ErrUserAlreadyExists) {
			logger.Warn("Registration attempt with existing phone number",
				zap.String("event", "user_create_failed_duplicate_phone"),
			)
		}
		return nil, err
	}

	logger.Info("User created",
		zap.Int64("user_id", u.ID),
		zap.String("type", string(u.Type)),
		zap.String("event", "user_created"),
	)

	return u, nil
}

func (s *Service) UpdateUser(ctx context.Context, userID int64, req *UpdateUserRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	updated, err := s.userRepo.Update(ctx, userID, toDomainPatch(req))
	if err != nil {
		return nil, err
	}

	return ToUserResponse(updated), nil
}

// DeleteUser removes the user; its orders and sessions go with it.
func (s *Service) DeleteUser(ctx context.Context, userID int64) (*UserResponse, error) {
	deleted, err := s.userRepo.Delete(ctx, userID)
	if err != nil {
		return nil, err
	}

	logger.Info("User deleted",
		zap.Int64("user_id", userID),
		zap.String("event", "user_deleted"),
	)

	return ToUserResponse(deleted), nil
}

// Register creates the user and a session for the supplied token. The two
// writes are separate single-row inserts.
func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	u, err := s.createUser(ctx, &req.CreateUserRequest)
	if err != nil {
		return nil, err
	}

	session := &domainUser.Session{Token: req.Token, UserID: u.ID}
	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	s.cacheSession(ctx, req.Token, u.ID)

	logger.Info("User registered",
		zap.Int64("user_id", u.ID),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(u), nil
}

// Login returns the user owning phone number when token belongs to them.
// Any mismatch is reported as ErrUserNotFound.
func (s *Service) Login(ctx context.Context, req *LoginRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.Validation("Invalid input", err)
	}

	u, err := s.userRepo.GetByPhoneNumber(ctx, req.PhoneNumber)
	if err != nil {
		return nil, err
	}

	sessionUserID, err := s.ResolveSession(ctx, req.Token)
	if errors.Is(err, domainUser.ErrSessionNotFound) {
		logger.Warn("Login attempt with unknown token",
			zap.Int64("user_id", u.ID),
			zap.String("event", "login_failed_unknown_token"),
		)
		return nil, domainUser.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	if sessionUserID != u.ID {
		logger.Warn("Login attempt with token of another user",
			zap.Int64("user_id", u.ID),
			zap.String("event", "login_failed_token_mismatch"),
		)
		return nil, domainUser.ErrUserNotFound
	}

	return ToUserResponse(u), nil
}

// ResolveSession maps a token to its user id, reading through the cache.
// Cache failures are logged and fall back to the repository.
func (s *Service) ResolveSession(ctx context.Context, token string) (int64, error) {
	if s.sessionCache != nil {
		userID, found, err := s.sessionCache.Get(ctx, token)
		switch {
		case err != nil:
			s.countLookup("error")
			logger.Warn("Session cache unavailable, falling back to database", zap.Error(err))
		case found:
			s.countLookup("hit")
			return userID, nil
		default:
			s.countLookup("miss")
		}
	}

	session, err := s.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		return 0, err
	}

	s.cacheSession(ctx, token, session.UserID)
	return session.UserID, nil
}

func (s *Service) cacheSession(ctx context.Context, token string, userID int64) {
	if s.sessionCache == nil {
		return
	}
	if err := s.sessionCache.Set(ctx, token, userID); err != nil {
		logger.Warn("Failed to cache session", zap.Error(err))
	}
}

func (s *Service) countLookup(outcome string) {
	if s.metrics != nil {
		s.metrics.SessionCacheLookups.WithLabelValues(outcome).Inc()
	}
}
