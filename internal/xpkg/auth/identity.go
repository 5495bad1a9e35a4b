package auth

import (
	"context"
	"fmt"

	apperr "crispy/internal/xpkg/errors"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleStaff    Role = "staff"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Identity is the authenticated caller as supplied by the authentication
// layer.
type Identity struct {
	ID    int64
	Name  string
	Email string
	Role  Role
}

func (i Identity) IsStaff() bool {
	switch i.Role {
	case RoleStaff, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Label is the human readable actor recorded on tracking events.
func (i Identity) Label() string {
	switch {
	case i.Name != "":
		return i.Name
	case i.Email != "":
		return i.Email
	}
	return fmt.Sprintf("staff-%d", i.ID)
}

// RequireStaff fails with ErrForbidden unless the identity carries a staff
// role.
func RequireStaff(i Identity) error {
	if i.ID <= 0 || !i.IsStaff() {
		return fmt.Errorf("%w: role %q", apperr.ErrForbidden, i.Role)
	}
	return nil
}

type ctxKey struct{}

func WithIdentity(ctx context.Context, i Identity) context.Context {
	return context.WithValue(ctx, ctxKey{}, i)
}

func FromContext(ctx context.Context) (Identity, bool) {
	i, ok := ctx.Value(ctxKey{}).(Identity)
	return i, ok
}
