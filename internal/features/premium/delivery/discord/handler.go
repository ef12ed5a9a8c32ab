package discord

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"nerox-support-bot/internal/common/logger"
	"nerox-support-bot/internal/config"
	"nerox-support-bot/internal/features/premium/models"
	"nerox-support-bot/internal/features/premium/repository"
	"nerox-support-bot/internal/features/premium/service"
	platform "nerox-support-bot/internal/platform/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const commandTimeout = 30 * time.Second

// Handler translates "premium" prefix commands into grant operations.
type Handler struct {
	cfg    *config.Config
	svc    service.PremiumService
	logger zerolog.Logger
}

func NewHandler(cfg *config.Config, svc service.PremiumService) *Handler {
	return &Handler{
		cfg:    cfg,
		svc:    svc,
		logger: logger.Component("premium-commands"),
	}
}

func (h *Handler) Register(session *discordgo.Session) {
	session.AddHandler(h.onMessageCreate)
}

func (h *Handler) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author == nil || m.Author.Bot {
		return
	}
	if h.cfg.Discord.SupportGuildID != "" && m.GuildID != h.cfg.Discord.SupportGuildID {
		return
	}

	prefix := h.cfg.Discord.CommandPrefix
	content := strings.TrimSpace(m.Content)
	if !strings.HasPrefix(content, prefix) {
		return
	}

	fields := strings.Fields(content[len(prefix):])
	if len(fields) == 0 {
		return
	}
	switch strings.ToLower(fields[0]) {
	case "premium", "prem":
	default:
		return
	}
	if !isOwner(h.cfg, m.Author.ID) {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), commandTimeout)
	defer cancel()

	args := fields[1:]
	if len(args) == 0 {
		h.sendUsage(s, m.ChannelID)
		return
	}

	switch strings.ToLower(args[0]) {
	case "add":
		h.handleAdd(ctx, s, m, args[1:])
	case "remove":
		h.handleRemove(ctx, s, m, args[1:])
	case "check":
		h.handleCheck(ctx, s, m, args[1:])
	case "list":
		h.handleList(ctx, s, m)
	default:
		h.sendUsage(s, m.ChannelID)
	}
}

func (h *Handler) sendUsage(s *discordgo.Session, channelID string) {
	prefix := h.cfg.Discord.CommandPrefix
	embed := &discordgo.MessageEmbed{
		Color: platform.ColorInfo,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Premium System",
		},
		Description: fmt.Sprintf(
			"**Commands:**\n"+
				"`%[1]spremium add <user> [days]` - Grant premium (default %[2]d days)\n"+
				"`%[1]spremium remove <user>` - Remove premium\n"+
				"`%[1]spremium check <user>` - Check a user's premium\n"+
				"`%[1]spremium list` - List premium users",
			prefix, models.DefaultGrantDays,
		),
		Footer: &discordgo.MessageEmbedFooter{Text: "NeroX Support Manager"},
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send usage")
	}
}

func (h *Handler) handleAdd(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	userID, ok := h.requireUser(s, m.ChannelID, args)
	if !ok {
		return
	}

	days := models.DefaultGrantDays
	if len(args) >= 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			h.reply(s, m.ChannelID, platform.ColorError, "Duration must be between 1 and 365 days.")
			return
		}
		days = parsed
	}

	grant, extended, err := h.svc.Grant(ctx, userID, days, m.Author.ID)
	if err != nil {
		if errors.Is(err, models.ErrInvalidDays) {
			h.reply(s, m.ChannelID, platform.ColorError, "Duration must be between 1 and 365 days.")
			return
		}
		h.logger.Error().Str("user_id", userID).Err(err).Msg("Grant failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}

	action := "granted"
	if extended {
		action = "extended"
	}
	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf(
		"Premium %s for %s (%d days).\n\n**Expires:** <t:%d:R>",
		action, h.userTag(s, userID), days, grant.ExpiresAt/1000,
	))
}

func (h *Handler) handleRemove(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	userID, ok := h.requireUser(s, m.ChannelID, args)
	if !ok {
		return
	}

	if err := h.svc.Remove(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrGrantNotFound) {
			h.reply(s, m.ChannelID, platform.ColorWarning, "That user doesn't have premium.")
			return
		}
		h.logger.Error().Str("user_id", userID).Err(err).Msg("Remove failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf("Premium removed from %s.", h.userTag(s, userID)))
}

func (h *Handler) handleCheck(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	userID, ok := h.requireUser(s, m.ChannelID, args)
	if !ok {
		return
	}

	grant, active, err := h.svc.Status(ctx, userID)
	if err != nil {
		h.logger.Error().Str("user_id", userID).Err(err).Msg("Status failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}
	if grant == nil {
		h.reply(s, m.ChannelID, platform.ColorInfo, fmt.Sprintf("%s doesn't have premium.", h.userTag(s, userID)))
		return
	}
	if !active {
		h.reply(s, m.ChannelID, platform.ColorWarning, fmt.Sprintf(
			"%s's premium expired <t:%d:R>.", h.userTag(s, userID), grant.ExpiresAt/1000,
		))
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf(
		"%s has premium.\n\n**Expires:** <t:%d:R> (%d day(s) left)",
		h.userTag(s, userID), grant.ExpiresAt/1000, grant.DaysLeft(time.Now()),
	))
}

func (h *Handler) handleList(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	grants, err := h.svc.List(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("List failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}

	now := time.Now()
	var active []string
	for _, entry := range grants {
		if !entry.Grant.Active(now) {
			continue
		}
		active = append(active, fmt.Sprintf(
			"<@%s> - expires <t:%d:R>", entry.UserID, entry.Grant.ExpiresAt/1000,
		))
	}

	if len(active) == 0 {
		h.reply(s, m.ChannelID, platform.ColorInfo, "No active premium users.")
		return
	}

	embed := &discordgo.MessageEmbed{
		Color: platform.ColorPrimary,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Premium Users",
		},
		Description: strings.Join(active, "\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d active grant(s)", len(active)),
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send list")
	}
}

func (h *Handler) requireUser(s *discordgo.Session, channelID string, args []string) (string, bool) {
	if len(args) == 0 {
		h.reply(s, channelID, platform.ColorWarning, "Please mention a user or provide a user ID.")
		return "", false
	}
	userID := platform.ParseUserMention(args[0])
	if userID == "" {
		h.reply(s, channelID, platform.ColorError, "Invalid user. Mention them or use their ID.")
		return "", false
	}
	return userID, true
}

func (h *Handler) userTag(s *discordgo.Session, userID string) string {
	if user, err := s.User(userID); err == nil {
		return "**" + user.Username + "**"
	}
	return "<@" + userID + ">"
}

func (h *Handler) reply(s *discordgo.Session, channelID string, color int, description string) {
	if err := platform.Reply(s, channelID, color, description); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send reply")
	}
}

func isOwner(cfg *config.Config, userID string) bool {
	for _, ownerID := range cfg.Discord.OwnerIDs {
		if ownerID == userID {
			return true
		}
	}
	return false
}
