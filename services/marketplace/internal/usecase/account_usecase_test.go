package usecase

import (
	"context"
	"testing"
	"time"

	"classifieds/pkg/jwt"
	"classifieds/services/marketplace/internal/entity"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthUseCase_RegisterAndLogin(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	tokens := jwt.NewService("test-secret")
	uc := NewAuthUseCase(repos.Users, tokens, "Boss@Example.com", testLogger())

	user, token, err := uc.Register(ctx, " Alice@Example.com ", "secret1", "Alice")
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, entity.RoleUser, user.Role)
	assert.Empty(t, user.Password)
	assert.NotEmpty(t, token)

	_, _, err = uc.Register(ctx, "alice@example.com", "secret1", "Alice again")
	assert.ErrorIs(t, err, entity.ErrValidation)

	admin, _, err := uc.Register(ctx, "boss@example.com", "secret1", "Boss")
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, admin.Role)

	logged, loginToken, err := uc.Login(ctx, "alice@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, logged.ID)

	claims, err := tokens.ValidateToken(loginToken)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)

	_, _, err = uc.Login(ctx, "alice@example.com", "wrong")
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
	_, _, err = uc.Login(ctx, "nobody@example.com", "secret1")
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestAuthUseCase_RegisterValidation(t *testing.T) {
	repos := setupRepos(t)
	uc := NewAuthUseCase(repos.Users, jwt.NewService("s"), "", testLogger())

	tests := []struct {
		name, email, password, userName string
	}{
		{"bad email", "not-an-email", "secret1", "A"},
		{"short password", "a@example.com", "123", "A"},
		{"missing name", "a@example.com", "secret1", "  "},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := uc.Register(context.Background(), tt.email, tt.password, tt.userName)
			assert.ErrorIs(t, err, entity.ErrValidation)
		})
	}
}

func TestAuthUseCase_BootstrapAdmin(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	uc := NewAuthUseCase(repos.Users, jwt.NewService("s"), "", testLogger())
	user := createUser(t, repos, "ops@example.com", entity.RoleUser)

	require.NoError(t, uc.BootstrapAdmin(ctx, "missing@example.com"))
	require.NoError(t, uc.BootstrapAdmin(ctx, "OPS@example.com"))

	got, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, got.Role)
}

func TestAccessGate_Resolve(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	tokens := jwt.NewService("gate-secret")
	gate := NewAccessGate(tokens, repos.Users)
	user := createUser(t, repos, "gate@example.com", entity.RoleUser)

	// The token claims admin, the stored role wins.
	token, err := tokens.GenerateToken(user.ID, string(entity.RoleAdmin))
	require.NoError(t, err)

	actor, err := gate.Actor(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, entity.RoleUser, actor.Role)

	_, err = gate.Actor(ctx, "garbage")
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)

	foreign, err := jwt.NewService("other-secret").GenerateToken(user.ID, "user")
	require.NoError(t, err)
	_, err = gate.Actor(ctx, foreign)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)

	require.NoError(t, repos.Users.Delete(ctx, user.ID))
	_, err = gate.Actor(ctx, token)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
	assert.ErrorIs(t, err, entity.ErrUserNotFound)
}

func TestAccessGate_ExpiredToken(t *testing.T) {
	repos := setupRepos(t)
	tokens := jwt.NewServiceWithTTL("gate-secret", time.Millisecond)
	gate := NewAccessGate(tokens, repos.Users)
	user := createUser(t, repos, "late@example.com", entity.RoleUser)

	token, err := tokens.GenerateToken(user.ID, "user")
	require.NoError(t, err)
	time.Sleep(1100 * time.Millisecond)

	_, err = gate.Actor(context.Background(), token)
	assert.ErrorIs(t, err, entity.ErrUnauthenticated)
}

func TestUserAdminUseCase(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	fixed := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	uc := &userAdminUseCase{userRepo: repos.Users, logger: testLogger(), now: func() time.Time { return fixed }}

	admin := createUser(t, repos, "root@example.com", entity.RoleAdmin)
	user := createUser(t, repos, "member@example.com", entity.RoleUser)

	_, err := uc.ListUsers(ctx, actorFor(user))
	assert.ErrorIs(t, err, entity.ErrForbidden)

	users, err := uc.ListUsers(ctx, actorFor(admin))
	require.NoError(t, err)
	assert.Len(t, users, 2)
	for _, u := range users {
		assert.Empty(t, u.Password)
	}

	verified, err := uc.SetVerified(ctx, actorFor(admin), user.ID, true)
	require.NoError(t, err)
	assert.True(t, verified.VerifiedBadge)

	vip, err := uc.GrantVIP(ctx, actorFor(admin), user.ID, 30)
	require.NoError(t, err)
	assert.True(t, vip.VIPStatus)
	require.NotNil(t, vip.VIPExpiry)
	assert.True(t, vip.VIPExpiry.Equal(fixed.Add(30*24*time.Hour)))

	revoked, err := uc.GrantVIP(ctx, actorFor(admin), user.ID, 0)
	require.NoError(t, err)
	assert.False(t, revoked.VIPStatus)
	assert.Nil(t, revoked.VIPExpiry)

	_, err = uc.GrantVIP(ctx, actorFor(admin), user.ID, -1)
	assert.ErrorIs(t, err, entity.ErrValidation)

	_, err = uc.SetRole(ctx, actorFor(admin), admin.ID, entity.RoleUser)
	assert.ErrorIs(t, err, entity.ErrValidation)
	_, err = uc.SetRole(ctx, actorFor(admin), user.ID, entity.Role("owner"))
	assert.ErrorIs(t, err, entity.ErrValidation)

	promoted, err := uc.SetRole(ctx, actorFor(admin), user.ID, entity.RoleAdmin)
	require.NoError(t, err)
	assert.Equal(t, entity.RoleAdmin, promoted.Role)

	assert.ErrorIs(t, uc.DeleteUser(ctx, actorFor(admin), admin.ID), entity.ErrValidation)
	require.NoError(t, uc.DeleteUser(ctx, actorFor(admin), user.ID))
	_, err = repos.Users.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestStatsUseCase(t *testing.T) {
	ctx := context.Background()
	repos := setupRepos(t)
	uc, err := NewStatsUseCase(repos.Listings, repos.Users, nil, testLogger())
	require.NoError(t, err)

	createUser(t, repos, "a@example.com", entity.RoleUser)
	createUser(t, repos, "b@example.com", entity.RoleUser)
	require.NoError(t, repos.Listings.Create(ctx, &entity.Listing{Title: "a", UserID: "x", Status: entity.StatusApproved}))
	require.NoError(t, repos.Listings.Create(ctx, &entity.Listing{Title: "b", UserID: "x", Status: entity.StatusPending}))

	stats, err := uc.GetStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stats.TotalListings)
	assert.Equal(t, int64(2), stats.TotalUsers)

	catalog := uc.Locations()
	require.Contains(t, catalog, "USA")
	assert.Contains(t, catalog["USA"]["California"]["Los Angeles"], "Hollywood")
}
