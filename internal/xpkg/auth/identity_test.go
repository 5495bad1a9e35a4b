package auth

import (
	"context"
	"errors"
	"testing"

	apperr "crispy/internal/xpkg/errors"

	"github.com/stretchr/testify/assert"
)

func TestRequireStaff(t *testing.T) {
	tests := []struct {
		name    string
		id      Identity
		allowed bool
	}{
		{"staff", Identity{ID: 1, Role: RoleStaff}, true},
		{"manager", Identity{ID: 2, Role: RoleManager}, true},
		{"admin", Identity{ID: 3, Role: RoleAdmin}, true},
		{"customer", Identity{ID: 4, Role: RoleCustomer}, false},
		{"unknown role", Identity{ID: 5, Role: "chef"}, false},
		{"anonymous staff", Identity{Role: RoleStaff}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireStaff(tt.id)
			if tt.allowed {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, apperr.ErrForbidden))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Dana", Identity{ID: 1, Name: "Dana", Email: "d@x"}.Label())
	assert.Equal(t, "d@x", Identity{ID: 1, Email: "d@x"}.Label())
	assert.Equal(t, "staff-7", Identity{ID: 7}.Label())
}

func TestContextRoundTrip(t *testing.T) {
	_, ok := FromContext(context.Background())
	assert.False(t, ok)

	ctx := WithIdentity(context.Background(), Identity{ID: 9, Role: RoleStaff})
	got, ok := FromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, int64(9), got.ID)
}
