package bus

import "time"

// Attachment is an inbound binary payload (a photo, in practice).
type Attachment struct {
	Data     []byte
	MimeType string
}

type InboundMessage struct {
	Channel    string
	SenderID   string
	ChatID     string
	PushName   string
	Content    string
	Timestamp  time.Time
	Attachment *Attachment
	Metadata   map[string]any
}

func (m *InboundMessage) SessionKey() string {
	return m.Channel + ":" + m.SenderID
}

type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
}
