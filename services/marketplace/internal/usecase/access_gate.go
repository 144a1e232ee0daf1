package usecase

import (
	"context"
	"errors"
	"fmt"

	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

// AccessGate resolves bearer tokens to live user records.
type AccessGate struct {
	tokens TokenService
	users  repo.UserRepository
}

func NewAccessGate(tokens TokenService, users repo.UserRepository) *AccessGate {
	return &AccessGate{tokens: tokens, users: users}
}

// Resolve fails with ErrUnauthenticated for malformed or expired tokens and
// for tokens whose user no longer exists. The role comes from the stored
// user, not the token.
func (g *AccessGate) Resolve(ctx context.Context, token string) (*entity.User, error) {
	claims, err := g.tokens.ValidateToken(token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entity.ErrUnauthenticated, err)
	}

	user, err := g.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, fmt.Errorf("%w: %w", entity.ErrUnauthenticated, entity.ErrUserNotFound)
		}
		return nil, err
	}
	return user, nil
}

func (g *AccessGate) Actor(ctx context.Context, token string) (entity.Actor, error) {
	user, err := g.Resolve(ctx, token)
	if err != nil {
		return entity.Actor{}, err
	}
	return entity.Actor{UserID: user.ID, Role: user.Role}, nil
}

func requireAdmin(actor entity.Actor) error {
	if !actor.IsAdmin() {
		return fmt.Errorf("admin access required: %w", entity.ErrForbidden)
	}
	return nil
}
