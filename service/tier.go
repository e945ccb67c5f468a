package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"legendario-service/config"
	"legendario-service/model"
	"legendario-service/pkg/errors"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Quota resources bounded per subscription tier.
const (
	ResourceMaxConnections            = "max_connections"
	ResourceMaxConfraternitiesMonthly = "max_confraternities_per_month"
	ResourceMaxMarketplaceAds         = "max_marketplace_ads"
)

const tierCacheTTL = 5 * time.Minute

// defaultLimits backs tiers with no TIER_<TIER>_<RESOURCE> override in
// the environment.
var defaultLimits = map[string]map[string]int{
	"basic": {
		ResourceMaxConnections:            10,
		ResourceMaxConfraternitiesMonthly: 1,
		ResourceMaxMarketplaceAds:         1,
	},
	"elite": {
		ResourceMaxConnections:            50,
		ResourceMaxConfraternitiesMonthly: 4,
		ResourceMaxMarketplaceAds:         5,
	},
	"legendary": {
		ResourceMaxConnections:            200,
		ResourceMaxConfraternitiesMonthly: 12,
		ResourceMaxMarketplaceAds:         20,
	},
}

// TierService answers subscription tier and quota questions. The tier
// itself lives on the mirrored user row (synced from the account
// service); lookups are cached in Redis because the connection quota
// check runs on every request.
type TierService struct {
	DB    *gorm.DB
	Cache *redis.Client
}

func tierCacheKey(userID uint) string {
	return fmt.Sprintf("tier:%d", userID)
}

// Tier returns the subscription tier of the given user.
func (s *TierService) Tier(ctx context.Context, userID uint) (string, error) {
	if s.Cache != nil {
		if tier, err := s.Cache.Get(ctx, tierCacheKey(userID)).Result(); err == nil && tier != "" {
			return tier, nil
		}
	}

	user := new(model.User)
	if err := s.DB.WithContext(ctx).First(user, userID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", errors.NotFound("user not found")
		}
		return "", errors.Wrap(errors.CodeInternal, "failed to load user tier", err)
	}

	tier := user.Tier
	if tier == "" {
		tier = "basic"
	}

	if s.Cache != nil {
		s.Cache.Set(ctx, tierCacheKey(userID), tier, tierCacheTTL)
	}
	return tier, nil
}

// Invalidate drops the cached tier for a user. The account listener
// calls this when a tier change event arrives.
func (s *TierService) Invalidate(ctx context.Context, userID uint) {
	if s.Cache != nil {
		s.Cache.Del(ctx, tierCacheKey(userID))
	}
}

// Limit returns the numeric limit of a resource for a tier. An
// environment override like TIER_ELITE_MAX_CONNECTIONS wins over the
// built-in table; unknown tiers fall back to basic.
func (s *TierService) Limit(tier string, resource string) int {
	key := fmt.Sprintf("TIER_%s_%s", strings.ToUpper(tier), strings.ToUpper(resource))
	if raw := config.Config(key); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil {
			return limit
		}
	}

	limits, ok := defaultLimits[tier]
	if !ok {
		limits = defaultLimits["basic"]
	}
	return limits[resource]
}

// Limits returns the full limit set for a tier, for the external
// features that own the other quotas.
func (s *TierService) Limits(tier string) map[string]int {
	return map[string]int{
		ResourceMaxConnections:            s.Limit(tier, ResourceMaxConnections),
		ResourceMaxConfraternitiesMonthly: s.Limit(tier, ResourceMaxConfraternitiesMonthly),
		ResourceMaxMarketplaceAds:         s.Limit(tier, ResourceMaxMarketplaceAds),
	}
}
