package model

// ================ Config ================
type BotConfig struct {
	ID   string `envconfig:"BOT_ID" default:"welcome-bot"`
	Name string `envconfig:"BOT_NAME" default:"WelcomeBot"`
}

type StateConfig struct {
	// TTL of "0" keeps records forever; expiry is the store operator's call.
	TTL string `envconfig:"STATE_TTL" default:"0"`
}

type ContentConfig struct {
	Dir           string `envconfig:"CONTENT_DIR" default:"content"`
	ReferenceFile string `envconfig:"CONTENT_REFERENCE_FILE" default:"reference.json"`
	CardFile      string `envconfig:"CONTENT_CARD_FILE" default:"adaptive_card.json"`
}
