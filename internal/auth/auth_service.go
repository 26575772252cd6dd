package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	autherrors "github.com/shahadat-technovicinity/school-management-system/internal/auth/errors"
	"github.com/shahadat-technovicinity/school-management-system/internal/rbac"
	"github.com/shahadat-technovicinity/school-management-system/internal/shared/token"
)

//go:generate mockgen -source=auth_service.go -destination=mock/auth_service_mock.go -package=mock
type Service interface {
	Login(ctx context.Context, email, password string) (TokenResponse, error)
	RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
}

type service struct {
	repo   Repository
	rbac   rbac.Service
	secret string
	now    func() time.Time
	logger *zap.Logger
}

func NewService(repo Repository, rbacService rbac.Service, secret string, logger ...*zap.Logger) Service {
	l := zap.L().Named("auth.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("auth.service")
	}
	return &service{
		repo:   repo,
		rbac:   rbacService,
		secret: secret,
		now:    time.Now,
		logger: l,
	}
}

func (s *service) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Info("login rejected", zap.String("user_id", user.ID.String()))
		return TokenResponse{}, autherrors.ErrInvalidCredentials
	}
	if !user.IsActive {
		return TokenResponse{}, autherrors.ErrInactiveUser
	}

	// Fail early when the school's policy cannot be loaded.
	if s.rbac != nil {
		if err := s.rbac.LoadSchoolPolicy(user.SchoolID.String()); err != nil {
			s.logger.Error("login load school policy failed",
				zap.String("school_id", user.SchoolID.String()),
				zap.Error(err),
			)
			return TokenResponse{}, err
		}
	}

	return s.issue(user)
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (TokenResponse, error) {
	sub, err := token.Parse(s.secret, refreshToken, token.TypeRefresh)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidRefreshToken
	}

	userID, err := uuid.Parse(sub.UserID)
	if err != nil {
		return TokenResponse{}, autherrors.ErrInvalidUserID
	}

	user, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return TokenResponse{}, autherrors.ErrUserNotFound
	}
	if !user.IsActive {
		return TokenResponse{}, autherrors.ErrInactiveUser
	}

	return s.issue(user)
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidUserID
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrUserNotFound
	}

	resp := mapToResponse(u)
	return &resp, nil
}

func (s *service) issue(user *User) (TokenResponse, error) {
	now := s.now()
	sub := token.Subject{
		UserID:   user.ID.String(),
		SchoolID: user.SchoolID.String(),
		Role:     user.Role,
	}
	if user.EmployeeID != nil {
		sub.EmployeeID = user.EmployeeID.String()
	}

	access, err := token.Generate(s.secret, sub, token.TypeAccess, token.AccessTTL, now)
	if err != nil {
		s.logger.Error("sign access token failed", zap.Error(err))
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refresh, err := token.Generate(s.secret, sub, token.TypeRefresh, token.RefreshTTL, now)
	if err != nil {
		s.logger.Error("sign refresh token failed", zap.Error(err))
		return TokenResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return TokenResponse{
		User:         mapToResponse(user),
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func mapToResponse(u *User) AuthResponse {
	resp := AuthResponse{
		ID:       u.ID.String(),
		SchoolID: u.SchoolID.String(),
		Email:    u.Email,
		Name:     u.Name,
		Role:     u.Role,
	}
	if u.EmployeeID != nil {
		resp.EmployeeID = u.EmployeeID.String()
	}
	return resp
}
