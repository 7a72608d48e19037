package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/welcomebot-core/server/internal/bot/content"
	"github.com/welcomebot-core/server/internal/bot/model"
	"github.com/welcomebot-core/server/internal/bot/repo"
	"github.com/welcomebot-core/server/internal/bot/turn"
	"github.com/welcomebot-core/server/internal/core"
	logx "github.com/welcomebot-core/server/pkg/logger"
	pkgredis "github.com/welcomebot-core/server/pkg/redis"
)

// AppConfig defines all configurable parameters for the welcome bot demo,
// sourced from environment variables (loaded from .env for local runs).
type AppConfig struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`

	// Infrastructure
	Redis pkgredis.Config

	// Bot configs
	Bot     model.BotConfig
	State   model.StateConfig
	Content model.ContentConfig
}

// consoleSender prints replies instead of delivering them through a channel.
type consoleSender struct{}

func (consoleSender) Send(_ context.Context, replies ...model.Reply) error {
	for _, r := range replies {
		if r.Text != "" {
			fmt.Printf("BOT> %s\n", r.Text)
		}
		for _, att := range r.Attachments {
			fmt.Printf("BOT> [%s] %s\n", att.ContentType, att.Content)
		}
	}
	return nil
}

func main() {
	fmt.Println("Testing Welcome Bot Turn Processor...")
	ctx := context.Background()
	// Load .env file
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load structured config from env
	var envCfg AppConfig
	if err := envconfig.Process("", &envCfg); err != nil {
		log.Fatalf("Failed to process environment config: %v", err)
	}

	logx.Init(logx.LoggerOpts{
		Environment: core.ParseEnvironment(envCfg.Environment),
		Service:     "welcomebot",
	})

	rdb, err := envCfg.Redis.New()
	if err != nil {
		log.Fatalf("Failed to initialise Redis client: %v", err)
	}
	defer rdb.Close()

	fmt.Println("Connected to Redis successfully")

	ttl, err := time.ParseDuration(envCfg.State.TTL)
	if err != nil {
		log.Fatalf("Invalid STATE_TTL '%s': %v", envCfg.State.TTL, err)
	}

	// Content is validated here, at boot, so a broken deployment never gets
	// as far as answering users.
	store, err := content.Load(envCfg.Content)
	if err != nil {
		log.Fatalf("Failed to load bot content: %v", err)
	}

	processor, err := turn.NewProcessor(repo.NewRedisStateRepository(rdb, ttl), store)
	if err != nil {
		log.Fatalf("Failed to build turn processor: %v", err)
	}

	self := model.ChannelAccount{ID: envCfg.Bot.ID, Name: envCfg.Bot.Name}
	user := model.ChannelAccount{ID: "demo-user-123451", Name: "Alex"}

	demoTurns := []struct {
		description string
		activity    model.Activity
	}{
		{
			description: "User joins the conversation (bot filtered out)",
			activity: model.Activity{
				Type:         model.ActivityConversationUpdate,
				Recipient:    self,
				MembersAdded: []model.ChannelAccount{self, user},
			},
		},
		{
			description: "First message ever triggers the welcome pair",
			activity:    messageFrom(user, self, "hi"),
		},
		{
			description: "Steady-state echo, case-insensitive",
			activity:    messageFrom(user, self, "HELLO"),
		},
		{
			description: "Informational card",
			activity:    messageFrom(user, self, "help"),
		},
		{
			description: "Fallback hit with the reference identifier",
			activity:    messageFrom(user, self, store.ReferenceID()),
		},
		{
			description: "Fallback miss",
			activity:    messageFrom(user, self, "foo"),
		},
	}

	for i, t := range demoTurns {
		fmt.Printf("\nTurn %d: %s\n", i+1, t.description)
		if t.activity.Type == model.ActivityMessage {
			fmt.Printf("USER> %s\n", t.activity.Text)
		}

		if err := processor.Process(ctx, t.activity, consoleSender{}); err != nil {
			log.Fatalf("Failed to process turn %d: %v", i+1, err)
		}

		// slight delay between turns for readability
		time.Sleep(200 * time.Millisecond)
	}

	fmt.Println("All demo turns completed successfully!")
}

func messageFrom(from, recipient model.ChannelAccount, text string) model.Activity {
	return model.Activity{
		Type:      model.ActivityMessage,
		Text:      text,
		From:      from,
		Recipient: recipient,
	}
}
