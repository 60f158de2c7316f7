package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
)

// CreateActionRow creates an action row with buttons
func CreateActionRow(buttons ...discordgo.MessageComponent) discordgo.MessageComponent {
	return discordgo.ActionsRow{
		Components: buttons,
	}
}

// CreateButton creates a button component
func CreateButton(customID, label string, style discordgo.ButtonStyle, disabled bool, emoji *discordgo.ComponentEmoji) discordgo.MessageComponent {
	button := discordgo.Button{
		CustomID: customID,
		Label:    label,
		Style:    style,
		Disabled: disabled,
	}

	if emoji != nil {
		button.Emoji = emoji
	}

	return button
}

// CreateSelectMenu creates a single-choice select menu
func CreateSelectMenu(customID, placeholder string, options []discordgo.SelectMenuOption) discordgo.MessageComponent {
	one := 1
	return discordgo.SelectMenu{
		CustomID:    customID,
		Placeholder: placeholder,
		Options:     options,
		MinValues:   &one,
		MaxValues:   1,
	}
}

// DisableAllComponents returns a copy of rows with every button and select menu disabled
func DisableAllComponents(rows []discordgo.MessageComponent) []discordgo.MessageComponent {
	out := make([]discordgo.MessageComponent, 0, len(rows))
	for _, row := range rows {
		ar, ok := row.(discordgo.ActionsRow)
		if !ok {
			out = append(out, row)
			continue
		}
		disabled := make([]discordgo.MessageComponent, 0, len(ar.Components))
		for _, c := range ar.Components {
			switch v := c.(type) {
			case discordgo.Button:
				v.Disabled = true
				disabled = append(disabled, v)
			case discordgo.SelectMenu:
				v.Disabled = true
				disabled = append(disabled, v)
			default:
				disabled = append(disabled, c)
			}
		}
		out = append(out, discordgo.ActionsRow{Components: disabled})
	}
	return out
}

// SendInteractionResponse sends an interaction response with embed and components
func SendInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: components,
	}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: data,
	})
	if err != nil {
		BotLogf("DISCORD_API", "SendInteractionResponse failed: %v", err)
	}
	return err
}

// DeferInteractionResponse defers an interaction response
func DeferInteractionResponse(s *discordgo.Session, i *discordgo.InteractionCreate, ephemeral bool) error {
	data := &discordgo.InteractionResponseData{}
	if ephemeral {
		data.Flags = discordgo.MessageFlagsEphemeral
	}

	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: data,
	}

	return s.InteractionRespond(i.Interaction, response)
}

// UpdateComponentInteraction updates the message a component belongs to
func UpdateComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		},
	}

	return s.InteractionRespond(i.Interaction, response)
}

// AcknowledgeComponentInteraction acknowledges a component interaction without updating the message
func AcknowledgeComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	response := &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}

	return s.InteractionRespond(i.Interaction, response)
}

// EditOriginalInteraction edits the original interaction response (slash command message)
func EditOriginalInteraction(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent) error {
	edit := &discordgo.WebhookEdit{
		Embeds:     &[]*discordgo.MessageEmbed{embed},
		Components: &components,
	}
	_, err := s.InteractionResponseEdit(i.Interaction, edit)
	return err
}

// EditOriginalWithRetry retries EditOriginalInteraction with a short backoff.
// Expired webhooks and bad requests are not retried.
func EditOriginalWithRetry(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed, components []discordgo.MessageComponent, maxRetries int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(50*attempt*attempt) * time.Millisecond
			if backoff > 500*time.Millisecond {
				backoff = 500 * time.Millisecond
			}
			time.Sleep(backoff)
		}

		start := time.Now()
		lastErr = EditOriginalInteraction(s, i, embed, components)
		DiscordAPI.Record(start, lastErr)
		if lastErr == nil {
			return nil
		}
		if isNonRetryableError(lastErr) {
			break
		}
		BotLogf("DISCORD_API", "edit attempt %d failed: %v", attempt+1, lastErr)
	}

	if isWebhookExpiredError(lastErr) && i.ChannelID != "" {
		_, err := s.ChannelMessageSendComplex(i.ChannelID, &discordgo.MessageSend{
			Embeds:     []*discordgo.MessageEmbed{embed},
			Components: components,
		})
		if err == nil {
			DiscordAPI.RecordFallback()
			BotLogf("DISCORD_API", "webhook expired, sent channel message instead")
			return nil
		}
	}
	return fmt.Errorf("edit original response: %w", lastErr)
}

// isNonRetryableError checks if an error should not be retried
func isNonRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return isWebhookExpiredError(err) || strings.Contains(msg, "400")
}

// isWebhookExpiredError checks if the error indicates an expired webhook
func isWebhookExpiredError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "Unknown Webhook") ||
		strings.Contains(msg, "\"code\": 10015") ||
		strings.Contains(msg, "404") ||
		strings.Contains(msg, "Unknown interaction")
}

// TryEphemeralFollowup attempts to send a small ephemeral notice if an update failed.
func TryEphemeralFollowup(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	params := &discordgo.WebhookParams{Content: content, Flags: discordgo.MessageFlagsEphemeral}
	_, err := s.FollowupMessageCreate(i.Interaction, true, params)
	return err
}

// RespondEphemeral answers with a short private text message
func RespondEphemeral(s *discordgo.Session, i *discordgo.InteractionCreate, content string) error {
	return s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

// ParseUserID converts a Discord user ID string to int64
func ParseUserID(id string) (int64, error) { return strconv.ParseInt(id, 10, 64) }

// InteractionUser returns the invoking user for both guild and DM interactions
func InteractionUser(i *discordgo.InteractionCreate) *discordgo.User {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User
	}
	return i.User
}
