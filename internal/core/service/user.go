package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"itemtracker/internal/core/domain"
	"itemtracker/internal/core/port"
)

type UserService struct {
	store port.Store
}

func NewUserService(store port.Store) *UserService {
	return &UserService{store}
}

func (us *UserService) Create(ctx context.Context, user domain.User) (domain.User, error) {
	now := domain.Now()

	newData := domain.User{
		UUID:              uuid.New(),
		Name:              user.Name,
		Email:             strings.ToLower(strings.TrimSpace(user.Email)),
		EncryptedPassword: user.EncryptedPassword,
		Role:              user.Role.OrDefault(),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	var saved domain.User

	err := withinSession(ctx, us.store, func(session port.Session) error {
		var err error
		saved, err = session.Users().Create(ctx, newData)
		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return saved, nil
}

func (us *UserService) GetUserByID(ctx context.Context, id int) (domain.User, error) {
	var user domain.User

	err := withinSession(ctx, us.store, func(session port.Session) error {
		var err error
		user, err = session.Users().GetByID(ctx, id)
		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}

func (us *UserService) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	var user domain.User

	err := withinSession(ctx, us.store, func(session port.Session) error {
		var err error
		user, err = session.Users().GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
		return err
	})

	if err != nil {
		return domain.User{}, err
	}

	return user, nil
}
