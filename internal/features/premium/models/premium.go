package models

import (
	"errors"
	"time"
)

var ErrInvalidDays = errors.New("duration must be between 1 and 365 days")

const (
	// DefaultGrantDays is the premium duration used when none is given,
	// and the duration attached to giveaway prizes.
	DefaultGrantDays = 30

	MinGrantDays = 1
	MaxGrantDays = 365
)

// Grant is one user's premium subscription record.
type Grant struct {
	GrantID    string `json:"grant_id"`
	ExpiresAt  int64  `json:"expires_at"`
	RedeemedAt int64  `json:"redeemed_at"`
	AddedBy    string `json:"added_by"`
}

// Active reports whether the grant has not yet expired.
func (g *Grant) Active(now time.Time) bool {
	return g.ExpiresAt > now.UnixMilli()
}

// DaysLeft returns the number of whole-or-partial days until expiry.
func (g *Grant) DaysLeft(now time.Time) int {
	ms := g.ExpiresAt - now.UnixMilli()
	if ms <= 0 {
		return 0
	}
	day := int64(24 * time.Hour / time.Millisecond)
	return int((ms + day - 1) / day)
}
