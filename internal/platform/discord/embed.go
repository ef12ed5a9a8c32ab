package discord

import (
	"strings"

	"github.com/bwmarrin/discordgo"
)

// Embed palette shared by the command surfaces.
const (
	ColorPrimary = 0x5865F2
	ColorSuccess = 0x57F287
	ColorError   = 0xED4245
	ColorWarning = 0xFEE75C
	ColorInfo    = 0x3498DB
	ColorEnded   = 0x2F3136
)

// Reply sends a simple embed reply to the channel the command came from.
// The returned error is for logging only; command handlers never fail on a
// reply.
func Reply(transport Transport, channelID string, color int, description string) error {
	_, err := transport.ChannelMessageSendEmbed(channelID, &discordgo.MessageEmbed{
		Color:       color,
		Description: description,
	})
	return err
}

// ParseUserMention extracts a user id from "<@123>", "<@!123>" or a bare
// numeric id. Empty string when the token is neither.
func ParseUserMention(token string) string {
	id := strings.TrimSuffix(strings.TrimPrefix(token, "<@"), ">")
	id = strings.TrimPrefix(id, "!")
	return numericID(id)
}

// ParseChannelMention extracts a channel id from "<#123>" or a bare numeric
// id. Empty string when the token is neither.
func ParseChannelMention(token string) string {
	id := strings.TrimSuffix(strings.TrimPrefix(token, "<#"), ">")
	return numericID(id)
}

func numericID(s string) string {
	if s == "" {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ""
		}
	}
	return s
}
