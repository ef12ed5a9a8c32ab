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
	"nerox-support-bot/internal/features/giveaway/models"
	"nerox-support-bot/internal/features/giveaway/repository"
	"nerox-support-bot/internal/features/giveaway/service"
	platform "nerox-support-bot/internal/platform/discord"

	"github.com/bwmarrin/discordgo"
	"github.com/rs/zerolog"
)

const commandTimeout = 30 * time.Second

// Handler translates "giveaway" prefix commands from the support guild into
// lifecycle operations and renders the results as embeds.
type Handler struct {
	cfg     *config.Config
	svc     service.GiveawayService
	catalog service.PrizeCatalog
	logger  zerolog.Logger
}

func NewHandler(cfg *config.Config, svc service.GiveawayService, catalog service.PrizeCatalog) *Handler {
	return &Handler{
		cfg:     cfg,
		svc:     svc,
		catalog: catalog,
		logger:  logger.Component("giveaway-commands"),
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
	case "giveaway", "gw", "gcreate":
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
	case "create":
		h.handleCreate(ctx, s, m, args[1:])
	case "end":
		h.handleEnd(ctx, s, m, args[1:])
	case "reroll":
		h.handleReroll(ctx, s, m, args[1:])
	case "list":
		h.handleList(ctx, s, m)
	case "info":
		h.handleInfo(ctx, s, m, args[1:])
	case "delete":
		h.handleDelete(ctx, s, m, args[1:])
	default:
		h.sendUsage(s, m.ChannelID)
	}
}

func (h *Handler) sendUsage(s *discordgo.Session, channelID string) {
	prefix := h.cfg.Discord.CommandPrefix
	embed := &discordgo.MessageEmbed{
		Color: platform.ColorInfo,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Giveaway System",
		},
		Description: fmt.Sprintf(
			"**Commands:**\n"+
				"`%[1]sgiveaway create <duration> <prize> <winners> [channel]`\n"+
				"`%[1]sgiveaway end <id>` - End a giveaway early\n"+
				"`%[1]sgiveaway reroll <id>` - Pick new winners\n"+
				"`%[1]sgiveaway list` - View active giveaways\n"+
				"`%[1]sgiveaway info <id>` - View giveaway details\n"+
				"`%[1]sgiveaway delete <id>` - Delete a giveaway\n\n"+
				"**Prize Types:**\n"+
				"`noprefix` - No Prefix Access\n"+
				"`premium` - Premium (30 days)\n\n"+
				"**Duration:** `10m`, `1h`, `1d`, `1w`\n\n"+
				"**Example:**\n"+
				"`%[1]sgiveaway create 1h noprefix 1`",
			prefix,
		),
		Footer: &discordgo.MessageEmbedFooter{Text: "NeroX Support Manager"},
	}
	if _, err := s.ChannelMessageSendEmbed(channelID, embed); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send usage")
	}
}

func (h *Handler) handleCreate(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	prefix := h.cfg.Discord.CommandPrefix
	if len(args) < 3 {
		h.reply(s, m.ChannelID, platform.ColorWarning, fmt.Sprintf(
			"Missing arguments.\n\n**Usage:** `%[1]sgiveaway create <duration> <prize> <winners> [channel]`\n\n**Example:** `%[1]sgiveaway create 1h noprefix 1`",
			prefix,
		))
		return
	}

	winnersCount, err := strconv.Atoi(args[2])
	if err != nil {
		h.reply(s, m.ChannelID, platform.ColorError, "Winners must be between 1 and 10.")
		return
	}

	channelID := m.ChannelID
	if len(args) >= 4 {
		if id := platform.ParseChannelMention(args[3]); id != "" {
			channelID = id
		}
	}

	giveaway, err := h.svc.Create(ctx, service.CreateInput{
		HostID:        m.Author.ID,
		GuildID:       m.GuildID,
		ChannelID:     channelID,
		DurationToken: args[0],
		Prize:         strings.ToLower(args[1]),
		WinnersCount:  winnersCount,
	})
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInvalidDuration):
			h.reply(s, m.ChannelID, platform.ColorError, "Invalid duration. Minimum is 1 minute.\n\nUse: `10m`, `1h`, `1d`, `1w`")
		case errors.Is(err, models.ErrInvalidPrize):
			h.reply(s, m.ChannelID, platform.ColorError, "Invalid prize type.\n\nValid types: `noprefix`, `premium`")
		case errors.Is(err, models.ErrInvalidWinners):
			h.reply(s, m.ChannelID, platform.ColorError, "Winners must be between 1 and 10.")
		case errors.Is(err, models.ErrAnnounceFailed):
			h.reply(s, m.ChannelID, platform.ColorError, "Failed to send giveaway message. Check channel permissions.")
		default:
			h.logger.Error().Err(err).Msg("Create failed")
			h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		}
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf(
		"Giveaway created.\n\n**ID:** `%s`\n**Channel:** <#%s>\n**Ends:** <t:%d:R>",
		giveaway.ID, giveaway.ChannelID, giveaway.EndsAt/1000,
	))
}

func (h *Handler) handleEnd(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	id, ok := h.requireID(s, m.ChannelID, args)
	if !ok {
		return
	}

	giveaway, err := h.svc.Get(ctx, id)
	if err != nil {
		h.replyLookupError(s, m.ChannelID, id, err)
		return
	}
	if giveaway.Ended {
		h.reply(s, m.ChannelID, platform.ColorWarning, "This giveaway has already ended.")
		return
	}

	if _, err := h.svc.Close(ctx, id); err != nil {
		h.logger.Error().Str("giveaway_id", id).Err(err).Msg("End failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf("Giveaway `%s` has been ended.", id))
}

func (h *Handler) handleReroll(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	id, ok := h.requireID(s, m.ChannelID, args)
	if !ok {
		return
	}

	winnerID, err := h.svc.Reroll(ctx, id)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrGiveawayNotFound):
			h.reply(s, m.ChannelID, platform.ColorError, fmt.Sprintf("Giveaway `%s` not found.", id))
		case errors.Is(err, models.ErrNotEnded):
			h.reply(s, m.ChannelID, platform.ColorWarning, "This giveaway hasn't ended yet.")
		case errors.Is(err, models.ErrNoEligible):
			h.reply(s, m.ChannelID, platform.ColorError, "No eligible participants for reroll.")
		default:
			h.logger.Error().Str("giveaway_id", id).Err(err).Msg("Reroll failed")
			h.reply(s, m.ChannelID, platform.ColorError, "Failed to apply prize.")
		}
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf("Rerolled. New winner: <@%s>", winnerID))
}

func (h *Handler) handleList(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate) {
	open, err := h.svc.ListOpen(ctx)
	if err != nil {
		h.logger.Error().Err(err).Msg("List failed")
		h.reply(s, m.ChannelID, platform.ColorError, "An error occurred: "+err.Error())
		return
	}

	if len(open) == 0 {
		h.reply(s, m.ChannelID, platform.ColorInfo, fmt.Sprintf(
			"No active giveaways.\n\nCreate one with `%sgiveaway create`",
			h.cfg.Discord.CommandPrefix,
		))
		return
	}

	entries := make([]string, len(open))
	for i, giveaway := range open {
		entries[i] = fmt.Sprintf(
			"**%s**\nPrize: %s\nWinners: %d • Ends: <t:%d:R>",
			giveaway.ID,
			h.catalog.Describe(giveaway.Prize).Name,
			giveaway.WinnersCount,
			giveaway.EndsAt/1000,
		)
	}

	embed := &discordgo.MessageEmbed{
		Color: platform.ColorPrimary,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Active Giveaways",
		},
		Description: strings.Join(entries, "\n\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d active giveaway(s)", len(open)),
		},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send list")
	}
}

func (h *Handler) handleInfo(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	id, ok := h.requireID(s, m.ChannelID, args)
	if !ok {
		return
	}

	giveaway, err := h.svc.Get(ctx, id)
	if err != nil {
		h.replyLookupError(s, m.ChannelID, id, err)
		return
	}

	host := giveaway.HostID
	if user, err := s.User(giveaway.HostID); err == nil {
		host = user.Username
	}

	status, endLabel, endAt := "Active", "Ends", giveaway.EndsAt
	if giveaway.Ended {
		status, endLabel, endAt = "Ended", "Ended", giveaway.EndedAt
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Prize:** %s\n", h.catalog.Describe(giveaway.Prize).Name)
	fmt.Fprintf(&sb, "**Winners:** %d\n", giveaway.WinnersCount)
	fmt.Fprintf(&sb, "**Host:** %s\n", host)
	fmt.Fprintf(&sb, "**Status:** %s\n", status)
	fmt.Fprintf(&sb, "**%s:** <t:%d:R>\n", endLabel, endAt/1000)
	fmt.Fprintf(&sb, "**Participants:** %d\n", len(giveaway.Participants))
	if giveaway.Ended && len(giveaway.WinnerIDs) > 0 {
		mentions := make([]string, len(giveaway.WinnerIDs))
		for i, winnerID := range giveaway.WinnerIDs {
			mentions[i] = "<@" + winnerID + ">"
		}
		fmt.Fprintf(&sb, "**Winners:** %s\n", strings.Join(mentions, ", "))
	}
	fmt.Fprintf(&sb, "\n**Channel:** <#%s>\n", giveaway.ChannelID)
	fmt.Fprintf(&sb, "**Message ID:** `%s`", giveaway.MessageID)

	embed := &discordgo.MessageEmbed{
		Color: platform.ColorInfo,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "Giveaway Info: " + giveaway.ID,
		},
		Description: sb.String(),
		Footer:      &discordgo.MessageEmbedFooter{Text: "NeroX Support Manager"},
	}
	if _, err := s.ChannelMessageSendEmbed(m.ChannelID, embed); err != nil {
		h.logger.Warn().Err(err).Msg("Failed to send info")
	}
}

func (h *Handler) handleDelete(ctx context.Context, s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	id, ok := h.requireID(s, m.ChannelID, args)
	if !ok {
		return
	}

	if err := h.svc.Delete(ctx, id); err != nil {
		h.replyLookupError(s, m.ChannelID, id, err)
		return
	}

	h.reply(s, m.ChannelID, platform.ColorSuccess, fmt.Sprintf("Giveaway `%s` has been deleted.", id))
}

func (h *Handler) requireID(s *discordgo.Session, channelID string, args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" {
		h.reply(s, channelID, platform.ColorWarning, "Please provide a giveaway ID.")
		return "", false
	}
	return strings.ToUpper(args[0]), true
}

func (h *Handler) replyLookupError(s *discordgo.Session, channelID, id string, err error) {
	if errors.Is(err, repository.ErrGiveawayNotFound) {
		h.reply(s, channelID, platform.ColorError, fmt.Sprintf("Giveaway `%s` not found.", id))
		return
	}
	h.logger.Error().Str("giveaway_id", id).Err(err).Msg("Lookup failed")
	h.reply(s, channelID, platform.ColorError, "An error occurred: "+err.Error())
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
