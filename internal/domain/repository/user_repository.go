package repository

import (
	"context"

	"github.com/TP4uit/SmartBook-MERN-sub000/internal/domain/user"
)

type UserRepository interface {
	Save(ctx context.Context, u *user.User) error
	FindByID(ctx context.Context, id string) (*user.User, error)
	FindByEmail(ctx context.Context, email string) (*user.User, error)
	Update(ctx context.Context, u *user.User) error
	List(ctx context.Context, limit, offset int) ([]*user.User, error)
}
