package identity

import (
	"context"

	"github.com/google/uuid"
	"github.com/retailcore/backend/internal/domain/identity"
	"github.com/retailcore/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ShopService handles shop administration use cases
type ShopService struct {
	shops  identity.ShopRepository
	guard  *identity.TenantGuard
	logger *zap.Logger
}

// NewShopService creates a new ShopService
func NewShopService(shops identity.ShopRepository, guard *identity.TenantGuard, logger *zap.Logger) *ShopService {
	return &ShopService{shops: shops, guard: guard, logger: logger}
}

// GetShop returns one shop by id. Regular callers may only read their own
// shop; asking for another shop is an access violation, not a miss. A
// superadmin may read any shop.
func (s *ShopService) GetShop(ctx context.Context, cred identity.Credential, effectiveShopID, id uuid.UUID) (*identity.Shop, error) {
	if cred.Role != identity.RoleSuperAdmin {
		if err := s.guard.EnsureShopOwnership(effectiveShopID, id); err != nil {
			return nil, err
		}
	}
	return s.shops.FindByID(ctx, id)
}

// SetShopActive toggles a shop's active flag. Only a superadmin may do this;
// deactivation hides the shop from regular operation but keeps its data.
func (s *ShopService) SetShopActive(ctx context.Context, cred identity.Credential, shopID uuid.UUID, active bool) (*identity.Shop, error) {
	if cred.Role != identity.RoleSuperAdmin {
		return nil, shared.ErrAccessDenied
	}

	shop, err := s.shops.FindByID(ctx, shopID)
	if err != nil {
		return nil, err
	}

	if active {
		shop.Activate()
	} else {
		shop.Deactivate()
	}

	if err := s.shops.Save(ctx, shop); err != nil {
		return nil, err
	}

	s.logger.Info("shop active flag changed",
		zap.String("shop_id", shopID.String()),
		zap.Bool("active", active),
		zap.String("changed_by", cred.UserID.String()))

	return shop, nil
}
