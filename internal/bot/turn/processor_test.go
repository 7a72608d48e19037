package turn

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/welcomebot-core/server/internal/bot/content"
	"github.com/welcomebot-core/server/internal/bot/model"
)

type mockState struct {
	records map[string]model.WelcomeState
	getErr  error
	saveErr error
	saves   int
	events  *[]string
}

func newMockState() *mockState {
	return &mockState{records: map[string]model.WelcomeState{}}
}

func (m *mockState) Get(_ context.Context, userID string) (model.WelcomeState, error) {
	if m.getErr != nil {
		return model.WelcomeState{}, m.getErr
	}
	return m.records[userID], nil
}

func (m *mockState) Save(_ context.Context, userID string, st model.WelcomeState) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.records[userID] = st
	if m.events != nil {
		*m.events = append(*m.events, "save")
	}
	return nil
}

type captureSender struct {
	sent   []model.Reply
	err    error
	events *[]string
}

func (c *captureSender) Send(_ context.Context, replies ...model.Reply) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, replies...)
	if c.events != nil {
		*c.events = append(*c.events, "send")
	}
	return nil
}

func testStore(t *testing.T) *content.Store {
	t.Helper()
	store, err := content.Load(model.ContentConfig{
		Dir:           "testdata",
		ReferenceFile: "reference.json",
		CardFile:      "adaptive_card.json",
	})
	require.NoError(t, err)
	return store
}

func testProcessor(t *testing.T, states model.StateRepository) *Processor {
	t.Helper()
	p, err := NewProcessor(states, testStore(t))
	require.NoError(t, err)
	return p
}

var (
	self  = model.ChannelAccount{ID: "bot-id", Name: "WelcomeBot"}
	alex  = model.ChannelAccount{ID: "user-alex", Name: "Alex"}
	robin = model.ChannelAccount{ID: "user-robin", Name: "Robin"}
)

func messageActivity(from model.ChannelAccount, text string) model.Activity {
	return model.Activity{
		Type:      model.ActivityMessage,
		Text:      text,
		From:      from,
		Recipient: self,
	}
}

func texts(replies []model.Reply) []string {
	out := make([]string, 0, len(replies))
	for _, r := range replies {
		out = append(out, r.Text)
	}
	return out
}

func TestNewProcessorValidation(t *testing.T) {
	_, err := NewProcessor(nil, testStore(t))
	require.Error(t, err)

	_, err = NewProcessor(newMockState(), nil)
	require.Error(t, err)
}

func TestFirstMessageSendsWelcomePairExactlyOnce(t *testing.T) {
	states := newMockState()
	p := testProcessor(t, states)
	sender := &captureSender{}

	require.NoError(t, p.Process(context.Background(), messageActivity(alex, "hi"), sender))

	require.Equal(t, []string{
		"You are seeing this message because this was your first message ever to this bot.",
		"It is a good practice to welcome the user and provide personal greeting. For example: Welcome Alex.",
	}, texts(sender.sent))
	require.True(t, states.records[alex.ID].DidBotWelcomeUser)
	require.Equal(t, 1, states.saves)

	// the second message never re-triggers the pair
	sender.sent = nil
	require.NoError(t, p.Process(context.Background(), messageActivity(alex, "hi"), sender))
	require.Equal(t, []string{"You said hi"}, texts(sender.sent))
	require.True(t, states.records[alex.ID].DidBotWelcomeUser)
}

func TestFirstMessageBypassesCommandTable(t *testing.T) {
	states := newMockState()
	p := testProcessor(t, states)
	sender := &captureSender{}

	// "help" would normally produce the intro card, but not on first contact
	require.NoError(t, p.Process(context.Background(), messageActivity(alex, "help"), sender))
	require.Len(t, sender.sent, 2)
	for _, r := range sender.sent {
		require.Empty(t, r.Attachments)
	}
}

func TestCommandMatchingIsCaseInsensitive(t *testing.T) {
	for _, input := range []string{"HELLO", "Hello", "hello", "HI", "Hi", "hi"} {
		t.Run(input, func(t *testing.T) {
			states := newMockState()
			states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
			sender := &captureSender{}

			require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, input), sender))
			require.Equal(t, []string{"You said " + strings.ToLower(input)}, texts(sender.sent))
		})
	}
}

func TestIntroAndHelpReturnTheSameHeroCard(t *testing.T) {
	var cards []model.Attachment
	for _, input := range []string{"intro", "help"} {
		states := newMockState()
		states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
		sender := &captureSender{}

		require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, input), sender))
		require.Len(t, sender.sent, 1)
		require.Len(t, sender.sent[0].Attachments, 1)
		cards = append(cards, sender.sent[0].Attachments[0])
	}

	require.Equal(t, cards[0], cards[1])
	require.Equal(t, model.HeroCardContentType, cards[0].ContentType)

	var card model.HeroCard
	require.NoError(t, json.Unmarshal(cards[0].Content, &card))
	require.Equal(t, "Welcome to Bot Framework!", card.Title)
	require.Len(t, card.Buttons, 3)
	for _, b := range card.Buttons {
		require.Equal(t, model.ActionOpenURL, b.Type)
	}
	require.Equal(t, "Get an overview", card.Buttons[0].Title)
	require.Equal(t, "Ask a question", card.Buttons[1].Title)
	require.Equal(t, "Learn how to deploy", card.Buttons[2].Title)
}

func TestFallbackMissRepliesInvalidID(t *testing.T) {
	states := newMockState()
	states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
	sender := &captureSender{}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, "foo"), sender))
	require.Equal(t, []string{"Invalid Id"}, texts(sender.sent))
	require.Empty(t, sender.sent[0].Attachments)
}

func TestFallbackHitReturnsPatchedCard(t *testing.T) {
	states := newMockState()
	states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
	sender := &captureSender{}

	// testdata reference.json carries FR1234
	require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, "FR1234"), sender))
	require.Len(t, sender.sent, 1)
	require.Len(t, sender.sent[0].Attachments, 1)

	att := sender.sent[0].Attachments[0]
	require.Equal(t, model.AdaptiveCardContentType, att.ContentType)

	var card struct {
		Body []map[string]any `json:"body"`
	}
	require.NoError(t, json.Unmarshal(att.Content, &card))
	require.NotEmpty(t, card.Body)
	require.Equal(t, "US|5722106988174", card.Body[0]["text"])
}

func TestFallbackMatchIsCaseSensitive(t *testing.T) {
	states := newMockState()
	states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
	sender := &captureSender{}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, "fr1234"), sender))
	require.Equal(t, []string{"Invalid Id"}, texts(sender.sent))
}

func TestSteadyStateIsIdempotent(t *testing.T) {
	states := newMockState()
	states.records[alex.ID] = model.WelcomeState{DidBotWelcomeUser: true}
	p := testProcessor(t, states)

	first := &captureSender{}
	require.NoError(t, p.Process(context.Background(), messageActivity(alex, "hello"), first))
	second := &captureSender{}
	require.NoError(t, p.Process(context.Background(), messageActivity(alex, "hello"), second))

	require.Equal(t, texts(first.sent), texts(second.sent))
	require.Equal(t, model.WelcomeState{DidBotWelcomeUser: true}, states.records[alex.ID])
	// save still runs once per turn, mutated or not
	require.Equal(t, 2, states.saves)
}

func TestStateReadFailureAbortsTheTurn(t *testing.T) {
	states := newMockState()
	states.getErr = errors.New("redis down")
	sender := &captureSender{}

	err := testProcessor(t, states).Process(context.Background(), messageActivity(alex, "hi"), sender)
	require.Error(t, err)
	require.Empty(t, sender.sent)
	require.Zero(t, states.saves)
}

func TestSendHappensBeforeSave(t *testing.T) {
	var events []string
	states := newMockState()
	states.events = &events
	sender := &captureSender{events: &events}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), messageActivity(alex, "hi"), sender))
	require.Equal(t, []string{"send", "save"}, events)
}

func TestSendFailureSkipsSave(t *testing.T) {
	states := newMockState()
	sender := &captureSender{err: errors.New("channel unavailable")}

	err := testProcessor(t, states).Process(context.Background(), messageActivity(alex, "hi"), sender)
	require.Error(t, err)
	// the welcome pair was never delivered, so the flag must not flip
	require.Zero(t, states.saves)
	require.False(t, states.records[alex.ID].DidBotWelcomeUser)
}

func TestMembersAddedGreetsEveryoneButTheBot(t *testing.T) {
	states := newMockState()
	sender := &captureSender{}
	act := model.Activity{
		Type:         model.ActivityConversationUpdate,
		Recipient:    self,
		MembersAdded: []model.ChannelAccount{alex, self, robin},
	}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), act, sender))
	require.Equal(t, []string{
		"Hi there - Alex. This is a simple Welcome Bot sample.",
		"Hi there - Robin. This is a simple Welcome Bot sample.",
	}, texts(sender.sent))
	// greeting touches no per-user state
	require.Zero(t, states.saves)
}

func TestMembersAddedBotOnlyProducesNothing(t *testing.T) {
	states := newMockState()
	sender := &captureSender{}
	act := model.Activity{
		Type:         model.ActivityConversationUpdate,
		Recipient:    self,
		MembersAdded: []model.ChannelAccount{self},
	}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), act, sender))
	require.Empty(t, sender.sent)
}

func TestGreetMembersPreservesInputOrder(t *testing.T) {
	replies := GreetMembers([]model.ChannelAccount{robin, alex}, self.ID)
	require.Equal(t, []string{
		"Hi there - Robin. This is a simple Welcome Bot sample.",
		"Hi there - Alex. This is a simple Welcome Bot sample.",
	}, texts(replies))

	require.Empty(t, GreetMembers(nil, self.ID))
}

func TestUnsupportedActivityTypeIsIgnored(t *testing.T) {
	states := newMockState()
	sender := &captureSender{}

	require.NoError(t, testProcessor(t, states).Process(context.Background(), model.Activity{Type: "typing", From: alex}, sender))
	require.Empty(t, sender.sent)
	require.Zero(t, states.saves)
}
