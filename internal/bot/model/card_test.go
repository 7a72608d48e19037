package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHeroCardToAttachment(t *testing.T) {
	card := HeroCard{
		Title:   "Title",
		Text:    "Body",
		Buttons: []CardAction{{Type: ActionOpenURL, Title: "Go", Value: "https://example.com"}},
	}

	att, err := card.ToAttachment()
	require.NoError(t, err)
	require.Equal(t, HeroCardContentType, att.ContentType)

	var decoded HeroCard
	require.NoError(t, json.Unmarshal(att.Content, &decoded))
	require.Equal(t, card, decoded)
}

func TestRepliesGetDistinctActivityIDs(t *testing.T) {
	a := TextReply("one")
	b := TextReply("two")
	require.NotEmpty(t, a.ID)
	require.NotEqual(t, a.ID, b.ID)

	c := AttachmentReply(Attachment{ContentType: AdaptiveCardContentType, Content: json.RawMessage(`{}`)})
	require.NotEmpty(t, c.ID)
	require.Len(t, c.Attachments, 1)
	require.Empty(t, c.Text)
}
