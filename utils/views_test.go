package utils

import (
	"errors"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func TestDisableAllComponents(t *testing.T) {
	rows := []discordgo.MessageComponent{
		CreateActionRow(
			CreateButton("a", "A", discordgo.PrimaryButton, false, nil),
			CreateButton("b", "B", discordgo.SuccessButton, false, &discordgo.ComponentEmoji{Name: "💰"}),
		),
		CreateActionRow(CreateSelectMenu("menu", "pick", []discordgo.SelectMenuOption{{Label: "x", Value: "x"}})),
	}

	out := DisableAllComponents(rows)
	if len(out) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(out))
	}

	first := out[0].(discordgo.ActionsRow)
	for _, c := range first.Components {
		if b := c.(discordgo.Button); !b.Disabled {
			t.Errorf("Expected button %s to be disabled", b.CustomID)
		}
	}
	if menu := out[1].(discordgo.ActionsRow).Components[0].(discordgo.SelectMenu); !menu.Disabled {
		t.Error("Expected select menu to be disabled")
	}

	// The input must be left untouched
	if b := rows[0].(discordgo.ActionsRow).Components[0].(discordgo.Button); b.Disabled {
		t.Error("DisableAllComponents modified its input")
	}
}

func TestCreateSelectMenuSingleChoice(t *testing.T) {
	menu := CreateSelectMenu("id", "placeholder", nil).(discordgo.SelectMenu)
	if menu.MinValues == nil || *menu.MinValues != 1 || menu.MaxValues != 1 {
		t.Errorf("Expected a single-choice menu, got min=%v max=%d", menu.MinValues, menu.MaxValues)
	}
}

func TestIsWebhookExpiredError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{nil, false},
		{errors.New(`HTTP 404 Not Found, {"message": "Unknown Webhook", "code": 10015}`), true},
		{errors.New("Unknown interaction"), true},
		{errors.New("HTTP 500 Internal Server Error"), false},
	}
	for _, tt := range tests {
		if got := isWebhookExpiredError(tt.err); got != tt.want {
			t.Errorf("isWebhookExpiredError(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestIsNonRetryableError(t *testing.T) {
	if isNonRetryableError(nil) {
		t.Error("nil is retryable")
	}
	if !isNonRetryableError(errors.New("HTTP 400 Bad Request")) {
		t.Error("Expected 400 to be non-retryable")
	}
	if isNonRetryableError(errors.New("HTTP 502 Bad Gateway")) {
		t.Error("Expected 502 to be retryable")
	}
}

func TestInteractionUser(t *testing.T) {
	guild := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		Member: &discordgo.Member{User: &discordgo.User{ID: "1"}},
	}}
	if u := InteractionUser(guild); u == nil || u.ID != "1" {
		t.Errorf("Expected member user, got %v", u)
	}

	dm := &discordgo.InteractionCreate{Interaction: &discordgo.Interaction{
		User: &discordgo.User{ID: "2"},
	}}
	if u := InteractionUser(dm); u == nil || u.ID != "2" {
		t.Errorf("Expected DM user, got %v", u)
	}
}

func TestParseUserID(t *testing.T) {
	id, err := ParseUserID("123456789012345678")
	if err != nil || id != 123456789012345678 {
		t.Errorf("ParseUserID returned %d, %v", id, err)
	}
	if _, err := ParseUserID("abc"); err == nil {
		t.Error("Expected error for non-numeric id")
	}
}
