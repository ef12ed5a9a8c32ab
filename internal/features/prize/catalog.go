package prize

import (
	"context"
	"fmt"

	"nerox-support-bot/internal/common/logger"
	premiummodels "nerox-support-bot/internal/features/premium/models"
	premiumrepo "nerox-support-bot/internal/features/premium/repository"
	premiumservice "nerox-support-bot/internal/features/premium/service"

	"github.com/rs/zerolog"
)

// Prize kinds recognized by the catalog.
const (
	KindNoPrefix = "noprefix"
	KindPremium  = "premium"
)

// Info is the display metadata for a prize kind.
type Info struct {
	Name string
}

var known = map[string]Info{
	KindNoPrefix: {Name: "No Prefix Access"},
	KindPremium:  {Name: "Premium (30 days)"},
}

// Catalog maps prize kinds to display metadata and to the mutation applying
// them to a user.
type Catalog struct {
	premium  premiumservice.PremiumService
	noprefix premiumrepo.NoPrefixRepository
	logger   zerolog.Logger
}

func NewCatalog(premium premiumservice.PremiumService, noprefix premiumrepo.NoPrefixRepository) *Catalog {
	return &Catalog{
		premium:  premium,
		noprefix: noprefix,
		logger:   logger.Component("prize"),
	}
}

// Known reports whether the kind is in the recognized set.
func (c *Catalog) Known(kind string) bool {
	_, ok := known[kind]
	return ok
}

// Describe returns display metadata for the kind. Unrecognized kinds are
// echoed verbatim rather than failing.
func (c *Catalog) Describe(kind string) Info {
	if info, ok := known[kind]; ok {
		return info
	}
	return Info{Name: kind}
}

// Apply performs the prize's mutation on the user's record. The actor is
// recorded on grants that track who gave them.
func (c *Catalog) Apply(ctx context.Context, kind, userID, actor string) error {
	switch kind {
	case KindNoPrefix:
		if err := c.noprefix.Enable(ctx, userID); err != nil {
			return fmt.Errorf("failed to enable no-prefix for %s: %w", userID, err)
		}
	case KindPremium:
		if _, _, err := c.premium.Grant(ctx, userID, premiummodels.DefaultGrantDays, actor); err != nil {
			return fmt.Errorf("failed to grant premium to %s: %w", userID, err)
		}
	default:
		return fmt.Errorf("unknown prize kind: %s", kind)
	}

	c.logger.Debug().
		Str("prize", kind).
		Str("user_id", userID).
		Msg("Applied prize")
	return nil
}
