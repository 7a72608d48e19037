package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/welcomebot-core/server/internal/bot/model"
	errx "github.com/welcomebot-core/server/internal/core/error"
	logx "github.com/welcomebot-core/server/pkg/logger"
)

// referenceDoc mirrors the external reference-identifier document.
type referenceDoc struct {
	FrID string `json:"frId"`
}

// Store holds the static bot content loaded once at boot: the fallback
// reference identifier and the adaptive card template it unlocks. Both
// documents are validated eagerly so a broken deployment fails at startup
// instead of mid-conversation.
type Store struct {
	refID    string
	cardRaw  json.RawMessage
	cardPath string
}

// Load reads and validates both content documents from the configured
// directory.
func Load(cfg model.ContentConfig) (*Store, error) {
	refPath := filepath.Join(cfg.Dir, cfg.ReferenceFile)
	refID, err := loadReferenceID(refPath)
	if err != nil {
		logx.Error().Err(err).Str("path", refPath).Msg("failed to load reference document")
		return nil, errx.WrapContent(err)
	}

	cardPath := filepath.Join(cfg.Dir, cfg.CardFile)
	raw, err := loadCardTemplate(cardPath)
	if err != nil {
		logx.Error().Err(err).Str("path", cardPath).Msg("failed to load card template")
		return nil, errx.WrapContent(err)
	}

	logx.Info().Str("dir", cfg.Dir).Msg("bot content loaded")
	return &Store{refID: refID, cardRaw: raw, cardPath: cardPath}, nil
}

// ReferenceID returns the identifier a message must match, verbatim, to
// receive the card.
func (s *Store) ReferenceID() string {
	return s.refID
}

// RenderCard returns the adaptive card template as an attachment with the
// text of its first body element replaced. The stored template is never
// mutated; each render works on a fresh copy.
func (s *Store) RenderCard(text string) (model.Attachment, error) {
	var doc map[string]any
	if err := json.Unmarshal(s.cardRaw, &doc); err != nil {
		return model.Attachment{}, errx.WrapContent(fmt.Errorf("card template %s: %w", s.cardPath, err))
	}

	body, first, err := cardBody(doc)
	if err != nil {
		return model.Attachment{}, errx.WrapContent(fmt.Errorf("card template %s: %w", s.cardPath, err))
	}
	first["text"] = text
	body[0] = first

	b, err := json.Marshal(doc)
	if err != nil {
		return model.Attachment{}, errx.WrapContent(fmt.Errorf("card template %s: %w", s.cardPath, err))
	}
	return model.Attachment{ContentType: model.AdaptiveCardContentType, Content: b}, nil
}

func loadReferenceID(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference document: %w", err)
	}
	var doc referenceDoc
	if err := json.Unmarshal(b, &doc); err != nil {
		return "", fmt.Errorf("parse reference document %s: %w", path, err)
	}
	if doc.FrID == "" {
		return "", fmt.Errorf("reference document %s: missing frId", path)
	}
	return doc.FrID, nil
}

func loadCardTemplate(path string) (json.RawMessage, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read card template: %w", err)
	}
	var doc map[string]any
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("parse card template %s: %w", path, err)
	}
	if _, _, err := cardBody(doc); err != nil {
		return nil, fmt.Errorf("card template %s: %w", path, err)
	}
	return b, nil
}

func cardBody(doc map[string]any) ([]any, map[string]any, error) {
	raw, ok := doc["body"]
	if !ok {
		return nil, nil, fmt.Errorf("missing body")
	}
	body, ok := raw.([]any)
	if !ok || len(body) == 0 {
		return nil, nil, fmt.Errorf("body must be a non-empty array")
	}
	first, ok := body[0].(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("first body element must be an object")
	}
	return body, first, nil
}
