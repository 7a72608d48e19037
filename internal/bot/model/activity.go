package model

import "github.com/google/uuid"

// ActivityType tags the kind of inbound turn delivered by the hosting channel.
type ActivityType string

const (
	ActivityMessage            ActivityType = "message"
	ActivityConversationUpdate ActivityType = "conversationUpdate"
)

// ChannelAccount identifies one conversation participant as reported by the
// channel.
type ChannelAccount struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Activity is the tagged inbound event the turn processor dispatches on. The
// hosting adapter translates its own callback shape into one of these, which
// keeps the decision logic host-independent.
type Activity struct {
	Type ActivityType
	Text string
	From ChannelAccount
	// Recipient is the bot's own identity in this conversation.
	Recipient ChannelAccount
	// MembersAdded is populated for conversation updates only.
	MembersAdded []ChannelAccount
}

// Reply is one outbound activity produced by the turn processor.
type Reply struct {
	ID          string       `json:"id"`
	Text        string       `json:"text,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// TextReply builds a plain-text outbound activity with a fresh activity ID.
func TextReply(text string) Reply {
	return Reply{ID: uuid.NewString(), Text: text}
}

// AttachmentReply builds an outbound activity carrying a single card
// attachment.
func AttachmentReply(att Attachment) Reply {
	return Reply{ID: uuid.NewString(), Attachments: []Attachment{att}}
}
