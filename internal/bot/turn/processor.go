package turn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/welcomebot-core/server/internal/bot/content"
	"github.com/welcomebot-core/server/internal/bot/model"
	logx "github.com/welcomebot-core/server/pkg/logger"
)

// Messages sent to the user.
const (
	welcomeMessage  = "This is a simple Welcome Bot sample."
	firstWelcomeOne = "You are seeing this message because this was your first message ever to this bot."
	firstWelcomeTwo = "It is a good practice to welcome the user and provide personal greeting. For example: Welcome %s."

	invalidIDMessage   = "Invalid Id"
	unavailableMessage = "Sorry - that service is temporarily unavailable. Please try again later."

	// patchedCardID replaces the text of the card template's first body
	// element before the card is sent.
	patchedCardID = "US|5722106988174"
)

// Sender delivers the replies of one turn back through the hosting channel.
type Sender interface {
	Send(ctx context.Context, replies ...model.Reply) error
}

// Processor decides, for one inbound turn, what to send back and how the
// per-user welcome record changes. It owns no transport and no storage: the
// channel adapter supplies activities and a Sender, the state repository owns
// the records.
type Processor struct {
	states  model.StateRepository
	content *content.Store
}

func NewProcessor(states model.StateRepository, store *content.Store) (*Processor, error) {
	if states == nil {
		return nil, errors.New("turn: state repository must not be nil")
	}
	if store == nil {
		return nil, errors.New("turn: content store must not be nil")
	}
	return &Processor{states: states, content: store}, nil
}

// Process handles a single inbound activity. Replies for the turn are sent
// before the state write; the turn is not complete until both have happened.
func (p *Processor) Process(ctx context.Context, act model.Activity, sender Sender) error {
	switch act.Type {
	case model.ActivityConversationUpdate:
		replies := GreetMembers(act.MembersAdded, act.Recipient.ID)
		if len(replies) == 0 {
			return nil
		}
		return sender.Send(ctx, replies...)
	case model.ActivityMessage:
		return p.processMessage(ctx, act, sender)
	default:
		logx.Debug().Str("type", string(act.Type)).Msg("ignoring unsupported activity type")
		return nil
	}
}

func (p *Processor) processMessage(ctx context.Context, act model.Activity, sender Sender) error {
	// A read failure aborts the turn. Falling back to a default record here
	// would replay the first-contact welcome for an already-welcomed user.
	st, err := p.states.Get(ctx, act.From.ID)
	if err != nil {
		return err
	}

	replies, next, err := p.react(st, act.Text, act.From.Name)
	if err != nil {
		logx.Error().Err(err).Str("userID", act.From.ID).Msg("failed to build reply")
		replies = []model.Reply{model.TextReply(unavailableMessage)}
		next = st
	}

	if err := sender.Send(ctx, replies...); err != nil {
		return err
	}
	return p.states.Save(ctx, act.From.ID, next)
}

// react is the pure decision function behind message turns: current record
// in, replies and next record out. The welcome flag flips at most once per
// user, ever, and the command table is skipped entirely on that turn.
func (p *Processor) react(st model.WelcomeState, text, senderName string) ([]model.Reply, model.WelcomeState, error) {
	if !st.DidBotWelcomeUser {
		st.DidBotWelcomeUser = true
		return []model.Reply{
			model.TextReply(firstWelcomeOne),
			model.TextReply(fmt.Sprintf(firstWelcomeTwo, senderName)),
		}, st, nil
	}

	switch lowered := strings.ToLower(text); lowered {
	case "hello", "hi":
		return []model.Reply{model.TextReply("You said " + lowered)}, st, nil
	case "intro", "help":
		att, err := introCard().ToAttachment()
		if err != nil {
			return nil, st, err
		}
		return []model.Reply{model.AttachmentReply(att)}, st, nil
	default:
		reply, err := p.lookup(text)
		if err != nil {
			return nil, st, err
		}
		return []model.Reply{reply}, st, nil
	}
}

// lookup is the fallback for text outside the command table. Unlike the
// command table, the reference identifier comparison is case sensitive and
// runs against the raw text.
func (p *Processor) lookup(text string) (model.Reply, error) {
	if text != p.content.ReferenceID() {
		return model.TextReply(invalidIDMessage), nil
	}
	att, err := p.content.RenderCard(patchedCardID)
	if err != nil {
		return model.Reply{}, err
	}
	return model.AttachmentReply(att), nil
}

// GreetMembers produces one greeting per newly added member in input order,
// skipping the bot's own account so it never greets itself.
func GreetMembers(members []model.ChannelAccount, selfID string) []model.Reply {
	var replies []model.Reply
	for _, m := range members {
		if m.ID == selfID {
			continue
		}
		replies = append(replies, model.TextReply(fmt.Sprintf("Hi there - %s. %s", m.Name, welcomeMessage)))
	}
	return replies
}
