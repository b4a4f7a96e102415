package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"

	"github.com/campscout/campscout/internal/providers"
)

// Discord caps a single message at this many embeds.
const maxEmbedsPerMessage = 10

// DiscordWebhook posts findings to a Discord channel webhook, one embed per
// campsite.
type DiscordWebhook struct {
	session *discordgo.Session
	id      string
	token   string
}

// NewDiscordWebhook builds a notifier for the given webhook id and token.
// Webhook execution needs no bot credentials, so the session is unauthenticated.
func NewDiscordWebhook(id, token string) (*DiscordWebhook, error) {
	if id == "" || token == "" {
		return nil, fmt.Errorf("discord webhook id and token required")
	}
	s, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &DiscordWebhook{session: s, id: id, token: token}, nil
}

func (d *DiscordWebhook) NotifyAvailability(ctx context.Context, sites []providers.AvailableCampsite) error {
	for start := 0; start < len(sites); start += maxEmbedsPerMessage {
		end := min(start+maxEmbedsPerMessage, len(sites))
		embeds := make([]*discordgo.MessageEmbed, 0, end-start)
		for _, s := range sites[start:end] {
			embeds = append(embeds, siteEmbed(s))
		}
		_, err := d.session.WebhookExecute(d.id, d.token, true, &discordgo.WebhookParams{
			Embeds: embeds,
		}, discordgo.WithContext(ctx))
		if err != nil {
			return fmt.Errorf("webhook execute: %w", err)
		}
	}
	return nil
}

func siteEmbed(s providers.AvailableCampsite) *discordgo.MessageEmbed {
	title := fmt.Sprintf("%s: %s", s.FacilityName, s.SiteName)
	fields := []*discordgo.MessageEmbedField{
		{
			Name:   "Dates",
			Value:  fmt.Sprintf("%s to %s (%d nights)", s.StartDate.Format("Mon Jan 2"), s.EndDate.Format("Mon Jan 2"), s.Nights),
			Inline: true,
		},
		{
			Name:   "Area",
			Value:  s.RecreationArea,
			Inline: true,
		},
	}
	if s.MaxOccupancy > 0 {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Occupancy",
			Value:  fmt.Sprintf("%d to %d people", s.MinOccupancy, s.MaxOccupancy),
			Inline: true,
		})
	}
	if s.SiteType != "" {
		fields = append(fields, &discordgo.MessageEmbedField{
			Name:   "Site type",
			Value:  s.SiteType,
			Inline: true,
		})
	}
	return &discordgo.MessageEmbed{
		Title:  title,
		URL:    s.BookingURL,
		Fields: fields,
		Color:  0x2e8b57,
	}
}
