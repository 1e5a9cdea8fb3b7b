package service

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/request"
	"itemtracker/internal/core/util"
)

type AuthService struct {
	users      *UserService
	bcryptCost int
	logger     *zap.Logger
}

func NewAuthService(users *UserService, bcryptCost int, logger *zap.Logger) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &AuthService{users: users, bcryptCost: bcryptCost, logger: logger}
}

func (as *AuthService) Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error) {
	_, err := as.users.GetUserByEmail(ctx, req.Email)

	if err == nil {
		return nil, domain.ErrUserAlreadyExists
	}

	if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	encrypted, err := util.HashPassword(req.Password, as.bcryptCost)

	if err != nil {
		return nil, fmt.Errorf("error creating encrypted password: %w", err)
	}

	savedUser, err := as.users.Create(ctx, domain.User{
		Name:              req.Name,
		Email:             req.Email,
		EncryptedPassword: encrypted,
		Role:              domain.Profile,
	})

	if err != nil {
		return nil, err
	}

	as.logger.Info("Auth#Registration", zap.Int("user_id", savedUser.ID))

	return &savedUser, nil
}

func (as *AuthService) Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error) {
	user, err := as.users.GetUserByEmail(ctx, req.Email)

	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			as.logger.Warn("Auth#Authenticate", zap.String("reason", "unknown email"))
			return nil, domain.ErrInvalidCredentials
		}

		return nil, err
	}

	if err := util.ComparePassword(req.Password, user.EncryptedPassword); err != nil {
		as.logger.Warn("Auth#Authenticate", zap.String("reason", "password mismatch"), zap.Int("user_id", user.ID))
		return nil, domain.ErrInvalidCredentials
	}

	as.logger.Info("Auth#Authenticate", zap.Int("user_id", user.ID))

	return &user, nil
}
