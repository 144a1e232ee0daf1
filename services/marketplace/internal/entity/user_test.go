package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUser_VIPActive(t *testing.T) {
	now := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)
	future := now.Add(24 * time.Hour)
	past := now.Add(-time.Hour)

	assert.False(t, (&User{}).VIPActive(now))
	assert.True(t, (&User{VIPStatus: true, VIPExpiry: &future}).VIPActive(now))
	assert.False(t, (&User{VIPStatus: true, VIPExpiry: &past}).VIPActive(now))
	assert.True(t, (&User{VIPStatus: true}).VIPActive(now))
}

func TestActor_CanModify(t *testing.T) {
	assert.True(t, Actor{UserID: "u1", Role: RoleUser}.CanModify("u1"))
	assert.False(t, Actor{UserID: "u2", Role: RoleUser}.CanModify("u1"))
	assert.True(t, Actor{UserID: "a1", Role: RoleAdmin}.CanModify("u1"))
	assert.False(t, Actor{}.CanModify(""))
}

func TestListingStatus_Valid(t *testing.T) {
	for _, s := range []ListingStatus{StatusPending, StatusApproved, StatusRejected} {
		assert.True(t, s.Valid())
	}
	assert.False(t, ListingStatus("archived").Valid())
	assert.False(t, ListingStatus("").Valid())
}

func TestListingFilter_NormalizedLimit(t *testing.T) {
	assert.Equal(t, DefaultListingLimit, ListingFilter{}.NormalizedLimit())
	assert.Equal(t, 10, ListingFilter{Limit: 10}.NormalizedLimit())
	assert.Equal(t, AdminListingLimit, ListingFilter{Limit: AdminListingLimit}.NormalizedLimit())
}

func TestClampLimit(t *testing.T) {
	assert.Equal(t, DefaultListingLimit, ClampLimit(0))
	assert.Equal(t, DefaultListingLimit, ClampLimit(-3))
	assert.Equal(t, 20, ClampLimit(20))
	assert.Equal(t, MaxListingLimit, ClampLimit(5000))
}

func TestLocation_String(t *testing.T) {
	loc := Location{Country: "Kazakhstan", City: "Almaty", District: "Medeu"}
	assert.Equal(t, "Medeu, Almaty, Kazakhstan", loc.String())
}
