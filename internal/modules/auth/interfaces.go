package auth

import (
	"context"

	"carbnb/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, u *domain.User) error
}

type tokenIssuer interface {
	GenerateToken(userID int64, email string) (string, error)
}
