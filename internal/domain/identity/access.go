package identity

import (
	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/shared"
)

// Role represents the role carried by a caller's credential
type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleStaff      Role = "STAFF"
)

// IsValid checks if the role is one of the known roles
func (r Role) IsValid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleStaff:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Credential is a caller's decoded identity: who they are, what role they
// hold, and which shop they belong to. It is produced by the auth layer and
// consumed by the tenant guard; the core never trusts a shop id embedded in a
// request body.
type Credential struct {
	UserID     uuid.UUID
	Username   string
	Role       Role
	HomeShopID uuid.UUID
}

// TenantGuard resolves the effective shop for a request and verifies record
// ownership. It is a pure authorization decision with no side effects; every
// failure is terminal for the request.
type TenantGuard struct{}

// NewTenantGuard creates a new TenantGuard
func NewTenantGuard() *TenantGuard {
	return &TenantGuard{}
}

// ResolveShop produces the effective shop id for the caller.
// A SUPER_ADMIN may view another shop by supplying requestedShopID; everyone
// else acts on their home shop. If neither is resolvable the caller is not
// authenticated for any tenant.
func (g *TenantGuard) ResolveShop(cred Credential, requestedShopID uuid.UUID) (uuid.UUID, error) {
	if cred.Role == RoleSuperAdmin && requestedShopID != uuid.Nil {
		return requestedShopID, nil
	}
	if cred.HomeShopID != uuid.Nil {
		return cred.HomeShopID, nil
	}
	return uuid.Nil, shared.ErrUnauthenticated
}

// EnsureShopOwnership verifies a fetched record belongs to the effective shop.
// A mismatch is ACCESS_DENIED, not NOT_FOUND: "exists but not yours" must stay
// distinguishable from "doesn't exist" for audit review. The check applies
// uniformly, including records found by secondary lookup keys.
func (g *TenantGuard) EnsureShopOwnership(effectiveShopID, recordShopID uuid.UUID) error {
	if recordShopID != effectiveShopID {
		return shared.ErrAccessDenied
	}
	return nil
}
