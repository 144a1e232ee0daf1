package usecase

import (
	"context"
	"fmt"
	"time"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"
)

const maxVIPDays = 3650

// UserAdminUseCase is admin-only account management.
type UserAdminUseCase interface {
	ListUsers(ctx context.Context, actor entity.Actor) ([]*entity.User, error)
	SetVerified(ctx context.Context, actor entity.Actor, userID string, verified bool) (*entity.User, error)
	GrantVIP(ctx context.Context, actor entity.Actor, userID string, days int) (*entity.User, error)
	SetRole(ctx context.Context, actor entity.Actor, userID string, role entity.Role) (*entity.User, error)
	DeleteUser(ctx context.Context, actor entity.Actor, userID string) error
}

type userAdminUseCase struct {
	userRepo repo.UserRepository
	logger   *logger.Logger
	now      func() time.Time
}

func NewUserAdminUseCase(userRepo repo.UserRepository, logger *logger.Logger) UserAdminUseCase {
	return &userAdminUseCase{userRepo: userRepo, logger: logger, now: time.Now}
}

func (uc *userAdminUseCase) ListUsers(ctx context.Context, actor entity.Actor) ([]*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	users, err := uc.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		u.Password = ""
	}
	return users, nil
}

func (uc *userAdminUseCase) SetVerified(ctx context.Context, actor entity.Actor, userID string, verified bool) (*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if err := uc.userRepo.SetVerified(ctx, userID, verified); err != nil {
		return nil, err
	}
	return uc.reload(ctx, userID)
}

// GrantVIP sets the VIP flag for days from now; zero days revokes it.
func (uc *userAdminUseCase) GrantVIP(ctx context.Context, actor entity.Actor, userID string, days int) (*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if days < 0 || days > maxVIPDays {
		return nil, fmt.Errorf("days must be between 0 and %d: %w", maxVIPDays, entity.ErrValidation)
	}

	var err error
	if days == 0 {
		err = uc.userRepo.SetVIP(ctx, userID, false, nil)
	} else {
		expiry := uc.now().UTC().Add(time.Duration(days) * 24 * time.Hour)
		err = uc.userRepo.SetVIP(ctx, userID, true, &expiry)
	}
	if err != nil {
		return nil, err
	}

	uc.logger.Info("Admin %s set VIP for user %s (%d days)", actor.UserID, userID, days)
	return uc.reload(ctx, userID)
}

func (uc *userAdminUseCase) SetRole(ctx context.Context, actor entity.Actor, userID string, role entity.Role) (*entity.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, entity.ErrValidation)
	}
	if userID == actor.UserID && role != entity.RoleAdmin {
		return nil, fmt.Errorf("cannot demote yourself: %w", entity.ErrValidation)
	}
	if err := uc.userRepo.SetRole(ctx, userID, role); err != nil {
		return nil, err
	}
	return uc.reload(ctx, userID)
}

func (uc *userAdminUseCase) DeleteUser(ctx context.Context, actor entity.Actor, userID string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.UserID {
		return fmt.Errorf("cannot delete yourself: %w", entity.ErrValidation)
	}
	if err := uc.userRepo.Delete(ctx, userID); err != nil {
		return err
	}
	uc.logger.Info("Admin %s deleted user %s", actor.UserID, userID)
	return nil
}

func (uc *userAdminUseCase) reload(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}
