package channel

import (
	"testing"

	"github.com/saudemt/diskdengue/internal/bus"
	"github.com/saudemt/diskdengue/internal/config"
)

func TestBaseChannel_Name(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, nil)
	if ch.Name() != "test" {
		t.Errorf("Name = %q, want test", ch.Name())
	}
}

func TestBaseChannel_IsAllowed_NoFilter(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, nil)
	if !ch.IsAllowed("anyone") {
		t.Error("should allow anyone when allowFrom is empty")
	}
}

func TestBaseChannel_IsAllowed_WithFilter(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch := NewBaseChannel("test", b, []string{"user1", "user2"})

	if !ch.IsAllowed("user1") {
		t.Error("should allow user1")
	}
	if !ch.IsAllowed("user2") {
		t.Error("should allow user2")
	}
	if ch.IsAllowed("user3") {
		t.Error("should reject user3")
	}
}

func TestNewTelegramChannel_NoToken(t *testing.T) {
	b := bus.NewMessageBus(10)
	_, err := NewTelegramChannel(config.TelegramConfig{}, b)
	if err == nil {
		t.Error("expected error for empty token")
	}
}

func TestNewTelegramChannel_Valid(t *testing.T) {
	b := bus.NewMessageBus(10)
	ch, err := NewTelegramChannel(config.TelegramConfig{Token: "fake-token"}, b)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ch.Name() != "telegram" {
		t.Errorf("Name = %q, want telegram", ch.Name())
	}
}

func TestChannelManager_Empty(t *testing.T) {
	b := bus.NewMessageBus(10)
	m, err := NewChannelManager(config.ChannelsConfig{}, b)
	if err != nil {
		t.Fatalf("NewChannelManager error: %v", err)
	}
	if len(m.EnabledChannels()) != 0 {
		t.Errorf("expected 0 enabled channels, got %d", len(m.EnabledChannels()))
	}
	if err := m.StopAll(); err != nil {
		t.Errorf("StopAll error: %v", err)
	}
}

func TestParseWhatsAppJID(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"5567999990000@s.whatsapp.net", "5567999990000@s.whatsapp.net", false},
		{"5567999990000", "5567999990000@s.whatsapp.net", false},
		{"+5567999990000", "5567999990000@s.whatsapp.net", false},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := parseWhatsAppJID(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("parseWhatsAppJID(%q): expected error", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseWhatsAppJID(%q) error: %v", tt.input, err)
			continue
		}
		if got.String() != tt.want {
			t.Errorf("parseWhatsAppJID(%q) = %q, want %q", tt.input, got.String(), tt.want)
		}
	}
}

func TestIsDigitsOnly(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"1234567890", true},
		{"", false},
		{"12a34", false},
		{"+123", false},
	}

	for _, tt := range tests {
		if got := isDigitsOnly(tt.input); got != tt.want {
			t.Errorf("isDigitsOnly(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}
