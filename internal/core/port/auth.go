package port

import (
	"context"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/model/request"
)

type AuthService interface {
	Registration(ctx context.Context, req *request.SignUpRequest) (*domain.User, error)
	Authenticate(ctx context.Context, req *request.LoginRequest) (*domain.User, error)
}

type TokenIssuer interface {
	CreateToken(userID int) (string, error)
	VerifyToken(token string) (int, error)
}
