package usecase

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"classifieds/pkg/logger"
	"classifieds/services/marketplace/internal/entity"
	"classifieds/services/marketplace/internal/repo"

	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 6

type AuthUseCase interface {
	Register(ctx context.Context, email, password, name string) (*entity.User, string, error)
	Login(ctx context.Context, email, password string) (*entity.User, string, error)
	Me(ctx context.Context, userID string) (*entity.User, error)
	BootstrapAdmin(ctx context.Context, email string) error
}

type authUseCase struct {
	userRepo   repo.UserRepository
	tokens     TokenService
	adminEmail string
	logger     *logger.Logger
}

func NewAuthUseCase(userRepo repo.UserRepository, tokens TokenService, adminEmail string, logger *logger.Logger) AuthUseCase {
	return &authUseCase{
		userRepo:   userRepo,
		tokens:     tokens,
		adminEmail: strings.ToLower(strings.TrimSpace(adminEmail)),
		logger:     logger,
	}
}

func (uc *authUseCase) Register(ctx context.Context, email, password, name string) (*entity.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)

	if _, err := mail.ParseAddress(email); err != nil {
		return nil, "", fmt.Errorf("invalid email: %w", entity.ErrValidation)
	}
	if len(password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, entity.ErrValidation)
	}
	if name == "" {
		return nil, "", fmt.Errorf("name is required: %w", entity.ErrValidation)
	}

	if _, err := uc.userRepo.GetByEmail(ctx, email); err == nil {
		return nil, "", fmt.Errorf("email already registered: %w", entity.ErrValidation)
	} else if !errors.Is(err, entity.ErrNotFound) {
		return nil, "", err
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		uc.logger.Error("Failed to hash password: %v", err)
		return nil, "", fmt.Errorf("failed to process registration")
	}

	role := entity.RoleUser
	if uc.adminEmail != "" && email == uc.adminEmail {
		role = entity.RoleAdmin
	}

	user := &entity.User{
		Email:    email,
		Name:     name,
		Password: string(hashedPassword),
		Role:     role,
	}
	if err := uc.userRepo.Create(ctx, user); err != nil {
		uc.logger.Error("Failed to create user: %v", err)
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}

	token, err := uc.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Login(ctx context.Context, email, password string) (*entity.User, string, error) {
	user, err := uc.userRepo.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			return nil, "", fmt.Errorf("invalid credentials: %w", entity.ErrUnauthenticated)
		}
		return nil, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", fmt.Errorf("invalid credentials: %w", entity.ErrUnauthenticated)
	}

	token, err := uc.tokens.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		uc.logger.Error("Failed to generate token: %v", err)
		return nil, "", fmt.Errorf("failed to generate token")
	}

	user.Password = ""
	return user, token, nil
}

func (uc *authUseCase) Me(ctx context.Context, userID string) (*entity.User, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	user.Password = ""
	return user, nil
}

// BootstrapAdmin promotes an existing account to admin. A missing account is
// not an error; Register promotes it on sign-up instead.
func (uc *authUseCase) BootstrapAdmin(ctx context.Context, email string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil
	}

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, entity.ErrNotFound) {
			uc.logger.Info("Admin account %s not registered yet", email)
			return nil
		}
		return err
	}
	if user.Role == entity.RoleAdmin {
		return nil
	}

	if err := uc.userRepo.SetRole(ctx, user.ID, entity.RoleAdmin); err != nil {
		return fmt.Errorf("failed to promote %s: %w", email, err)
	}
	uc.logger.Info("Promoted %s to admin", email)
	return nil
}
