package service

import (
	"fmt"
	"strings"
	"time"

	"nerox-support-bot/internal/features/giveaway/models"
	"nerox-support-bot/internal/features/prize"
	"nerox-support-bot/internal/platform/discord"

	"github.com/bwmarrin/discordgo"
)

func announcementEmbed(giveaway *models.Giveaway, info prize.Info) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Color: discord.ColorPrimary,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "GIVEAWAY",
		},
		Description: fmt.Sprintf(
			"React with %s to enter.\n\n**Prize:** %s\n**Winners:** %d\n**Ends:** <t:%d:R>\n**Host:** <@%s>",
			models.EntryEmoji,
			info.Name,
			giveaway.WinnersCount,
			giveaway.EndsAt/1000,
			giveaway.HostID,
		),
		Footer: &discordgo.MessageEmbedFooter{
			Text: "ID: " + giveaway.ID,
		},
		Timestamp: time.UnixMilli(giveaway.EndsAt).UTC().Format(time.RFC3339),
	}
}

func endedEmbed(giveaway *models.Giveaway, info prize.Info) *discordgo.MessageEmbed {
	winnersLine := "No valid entries"
	outcome := "No winners this time."
	if len(giveaway.WinnerIDs) > 0 {
		winnersLine = mentionList(giveaway.WinnerIDs)
		outcome = "Congratulations! Prizes have been applied."
	}

	plural := ""
	if len(giveaway.WinnerIDs) != 1 {
		plural = "s"
	}

	return &discordgo.MessageEmbed{
		Color: discord.ColorEnded,
		Author: &discordgo.MessageEmbedAuthor{
			Name: "GIVEAWAY ENDED",
		},
		Description: fmt.Sprintf(
			"**Prize:** %s\n**Entries:** %d\n**Winner%s:** %s\n\n%s",
			info.Name,
			len(giveaway.Participants),
			plural,
			winnersLine,
			outcome,
		),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("ID: %s | Ended", giveaway.ID),
		},
		Timestamp: time.UnixMilli(giveaway.EndedAt).UTC().Format(time.RFC3339),
	}
}

func congratulationsMessage(winners []string, info prize.Info) string {
	return fmt.Sprintf("**Congratulations** %s! You won **%s**.", mentionList(winners), info.Name)
}

func rerollMessage(winnerID string, info prize.Info) string {
	return fmt.Sprintf("**Reroll Winner!** <@%s> - You won **%s**.", winnerID, info.Name)
}

func mentionList(userIDs []string) string {
	mentions := make([]string, len(userIDs))
	for i, id := range userIDs {
		mentions[i] = "<@" + id + ">"
	}
	return strings.Join(mentions, ", ")
}
