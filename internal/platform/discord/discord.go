package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// Transport is the slice of discordgo.Session the services depend on, to
// enable testing against a stub. *discordgo.Session satisfies it.
type Transport interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessage(channelID, messageID string, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageDelete(channelID, messageID string, options ...discordgo.RequestOption) error
	MessageReactionAdd(channelID, messageID, emojiID string, options ...discordgo.RequestOption) error
	MessageReactions(channelID, messageID, emojiID string, limit int, beforeID, afterID string, options ...discordgo.RequestOption) ([]*discordgo.User, error)
	User(userID string, options ...discordgo.RequestOption) (*discordgo.User, error)
}

// Open creates a gateway session with the intents the bot needs and
// connects it.
func Open(token string) (*discordgo.Session, error) {
	session, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildMessageReactions |
		discordgo.IntentMessageContent

	if err := session.Open(); err != nil {
		return nil, fmt.Errorf("failed to open discord gateway: %w", err)
	}

	return session, nil
}

// ReactionUsers pages through all users who reacted with the given emoji.
// Bot accounts are filtered out.
func ReactionUsers(transport Transport, channelID, messageID, emoji string) ([]string, error) {
	const pageSize = 100

	var userIDs []string
	after := ""
	for {
		users, err := transport.MessageReactions(channelID, messageID, emoji, pageSize, "", after)
		if err != nil {
			return nil, err
		}
		for _, u := range users {
			if u.Bot {
				continue
			}
			userIDs = append(userIDs, u.ID)
		}
		if len(users) < pageSize {
			return userIDs, nil
		}
		after = users[len(users)-1].ID
	}
}
