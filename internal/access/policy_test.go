package access

import (
	"testing"

	"restaurant_reviews/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestIsAuthorized_TruthTable(t *testing.T) {
	tests := []struct {
		name       string
		level      model.AccessLevel
		role       model.Role
		identified bool
		want       bool
	}{
		{"guest route, anonymous", model.AccessGuest, 0, false, true},
		{"guest route, guest", model.AccessGuest, model.RoleGuest, true, true},
		{"guest route, user", model.AccessGuest, model.RoleUser, true, true},
		{"guest route, admin", model.AccessGuest, model.RoleAdmin, true, true},

		{"user route, anonymous", model.AccessUser, 0, false, false},
		{"user route, guest", model.AccessUser, model.RoleGuest, true, false},
		{"user route, user", model.AccessUser, model.RoleUser, true, true},
		{"user route, admin", model.AccessUser, model.RoleAdmin, true, true},

		{"admin route, anonymous", model.AccessAdmin, 0, false, false},
		{"admin route, guest", model.AccessAdmin, model.RoleGuest, true, false},
		{"admin route, user", model.AccessAdmin, model.RoleUser, true, false},
		{"admin route, admin", model.AccessAdmin, model.RoleAdmin, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAuthorized(tt.level, tt.role, tt.identified))
		})
	}
}

func TestIsAuthorized_AnonymousIgnoresRole(t *testing.T) {
	// A stale role value must not leak through when no identity was resolved.
	assert.False(t, IsAuthorized(model.AccessAdmin, model.RoleAdmin, false))
}

func TestIsAuthorized_UnknownRole(t *testing.T) {
	assert.False(t, IsAuthorized(model.AccessUser, 0, true))
	assert.False(t, IsAuthorized(model.AccessAdmin, model.Role(8), true))
}

func TestAccessLevels_Hierarchy(t *testing.T) {
	assert.Equal(t, model.AccessLevel(7), model.AccessGuest)
	assert.Equal(t, model.AccessLevel(6), model.AccessUser)
	assert.Equal(t, model.AccessLevel(4), model.AccessAdmin)
}
