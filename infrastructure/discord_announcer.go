package infrastructure

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ecochampions/events"

	"github.com/bwmarrin/discordgo"
	log "github.com/sirupsen/logrus"
)

const (
	colorSuccess = 0x2ecc71
	colorError   = 0xe74c3c
)

// webhookExecutor is the part of *discordgo.Session the announcer needs
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// DiscordAnnouncer posts completed projects and failed cascade awards to a
// community channel through a webhook.
type DiscordAnnouncer struct {
	webhookID string
	token     string
	session   webhookExecutor
}

// NewDiscordAnnouncer creates an announcer. Webhooks need no bot token, so
// the session is unauthenticated.
func NewDiscordAnnouncer(webhookID, token string) (*DiscordAnnouncer, error) {
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("failed to create discord session: %w", err)
	}
	return &DiscordAnnouncer{
		webhookID: webhookID,
		token:     token,
		session:   session,
	}, nil
}

// Subscribe attaches the announcer to the event bus
func (a *DiscordAnnouncer) Subscribe(bus *events.Bus) {
	bus.Subscribe(events.EventTypeProjectCompleted, a.handle)
	bus.Subscribe(events.EventTypeAwardFailed, a.handle)
}

func (a *DiscordAnnouncer) handle(_ context.Context, event events.Event) {
	var embed *discordgo.MessageEmbed
	switch e := event.(type) {
	case events.ProjectCompletedEvent:
		embed = projectCompletedEmbed(e)
	case events.AwardFailedEvent:
		embed = awardFailedEmbed(e)
	default:
		return
	}

	_, err := a.session.WebhookExecute(a.webhookID, a.token, false, &discordgo.WebhookParams{
		Username: "EcoChampions",
		Embeds:   []*discordgo.MessageEmbed{embed},
	})
	if err != nil {
		log.WithError(err).WithField("eventType", event.Type()).Error("Failed to post discord announcement")
	}
}

func projectCompletedEmbed(e events.ProjectCompletedEvent) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Project completed: %s", e.Title),
		Description: fmt.Sprintf("The community collected **%.2f kg** of a %.2f kg goal.", e.CollectedWeight, e.GoalWeight),
		Color:       colorSuccess,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   "Participants",
				Value:  fmt.Sprintf("%d", len(e.Participants)),
				Inline: true,
			},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Project ID: %s", e.ProjectID),
		},
	}
}

// maxCauseLength keeps the cause field under Discord's 1024 character limit
const maxCauseLength = 1000

func awardFailedEmbed(e events.AwardFailedEvent) *discordgo.MessageEmbed {
	cause := strings.TrimSpace(e.Cause)
	if cause == "" {
		cause = "unknown"
	}
	if runes := []rune(cause); len(runes) > maxCauseLength {
		cause = string(runes[:maxCauseLength])
	}
	return &discordgo.MessageEmbed{
		Title:       "Reward could not be applied",
		Description: fmt.Sprintf("%d eco-coins for **%s** need to be reapplied.", e.Amount, e.Reason),
		Color:       colorError,
		Timestamp:   time.Now().Format(time.RFC3339),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "User", Value: e.UserID.String(), Inline: true},
			{Name: "Cause", Value: cause},
		},
	}
}
