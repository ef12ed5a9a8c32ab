package models

import (
	"errors"
	"time"
)

var (
	ErrInvalidDuration = errors.New("invalid duration: minimum is 1 minute")
	ErrInvalidPrize    = errors.New("invalid prize kind")
	ErrInvalidWinners  = errors.New("winners count must be between 1 and 10")
	ErrAlreadyEnded    = errors.New("giveaway has already ended")
	ErrNotEnded        = errors.New("giveaway has not ended yet")
	ErrNoEligible      = errors.New("no eligible participants for reroll")
	ErrAnnounceFailed  = errors.New("failed to send giveaway message")
)

const (
	// EntryEmoji is the reaction users add to enter.
	EntryEmoji = "\U0001F389" // 🎉

	MinDuration = time.Minute
	MinWinners  = 1
	MaxWinners  = 10
)

// Giveaway is a single persisted giveaway record. Timestamps are epoch
// milliseconds; EndsAt is authoritative for scheduling across restarts.
type Giveaway struct {
	ID           string   `json:"id"`
	MessageID    string   `json:"message_id"`
	ChannelID    string   `json:"channel_id"`
	GuildID      string   `json:"guild_id"`
	HostID       string   `json:"host_id"`
	Prize        string   `json:"prize"`
	WinnersCount int      `json:"winners_count"`
	CreatedAt    int64    `json:"created_at"`
	EndsAt       int64    `json:"ends_at"`
	Ended        bool     `json:"ended"`
	EndedAt      int64    `json:"ended_at,omitempty"`
	Participants []string `json:"participants"`
	WinnerIDs    []string `json:"winner_ids"`
}

// HasExpired reports whether the record is due for closing at the given time.
func (g *Giveaway) HasExpired(now time.Time) bool {
	return now.UnixMilli() >= g.EndsAt
}

// Remaining returns the time left until EndsAt; negative when past due.
func (g *Giveaway) Remaining(now time.Time) time.Duration {
	return time.Duration(g.EndsAt-now.UnixMilli()) * time.Millisecond
}
