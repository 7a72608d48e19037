package model

import (
	"encoding/json"
	"fmt"
)

const (
	// HeroCardContentType is the attachment content type for hero cards.
	HeroCardContentType = "application/vnd.microsoft.card.hero"
	// AdaptiveCardContentType is the attachment content type for adaptive cards.
	AdaptiveCardContentType = "application/vnd.microsoft.card.adaptive"

	// ActionOpenURL opens the action value as a URL in the client.
	ActionOpenURL = "openUrl"
)

// Attachment is a rendered card ready to be carried on an outbound activity.
type Attachment struct {
	ContentType string          `json:"contentType"`
	Content     json.RawMessage `json:"content"`
}

// CardImage is a single image on a hero card.
type CardImage struct {
	URL string `json:"url"`
}

// CardAction is one button on a hero card.
type CardAction struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Text        string `json:"text,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
	Value       string `json:"value"`
}

// HeroCard is a rich card with a title, text, images and action buttons.
type HeroCard struct {
	Title   string       `json:"title,omitempty"`
	Text    string       `json:"text,omitempty"`
	Images  []CardImage  `json:"images,omitempty"`
	Buttons []CardAction `json:"buttons,omitempty"`
}

// ToAttachment serialises the card into an attachment with the hero card
// content type.
func (c HeroCard) ToAttachment() (Attachment, error) {
	b, err := json.Marshal(c)
	if err != nil {
		return Attachment{}, fmt.Errorf("marshal hero card: %w", err)
	}
	return Attachment{ContentType: HeroCardContentType, Content: b}, nil
}
