package repository

import (
	"context"
	"errors"

	"sweetshop/internal/domain/model"
)

// emailが既に使用済み
var ErrEmailAlreadyExists = errors.New("email already exists")

type UserRepository interface {
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
	Create(ctx context.Context, u model.User) (model.User, error)
}
