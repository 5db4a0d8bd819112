// ABOUTME: Stateful coaching chat session over the generation client
// ABOUTME: Keeps message history with ULID ids for stable ordering

package genai

import (
	"context"
	"fmt"

	"github.com/oklog/ulid/v2"

	"github.com/vsdcomms/salesdesk/models"
)

// Message is one turn in a coaching conversation.
type Message struct {
	ID   string `json:"id"`
	Role string `json:"role"` // "user" or "model"
	Text string `json:"text"`
}

// Chat is a coaching session. History accumulates across Send calls and is
// replayed in full on each request.
type Chat struct {
	client  *Client
	profile *models.Profile
	history []Message
}

// NewCoachingChat opens a session, optionally seeded with prior history.
func (c *Client) NewCoachingChat(profile *models.Profile, history []Message) *Chat {
	return &Chat{
		client:  c,
		profile: profile,
		history: append([]Message{}, history...),
	}
}

// History returns a copy of the conversation so far.
func (ch *Chat) History() []Message {
	return append([]Message{}, ch.history...)
}

// Send submits a user message and returns the coach's reply. The user turn
// joins the history even when the call fails, so a retry keeps the thread.
func (ch *Chat) Send(ctx context.Context, text string) (Message, error) {
	userMsg := Message{
		ID:   ulid.Make().String(),
		Role: "user",
		Text: text,
	}
	ch.history = append(ch.history, userMsg)

	contents := make([]content, 0, len(ch.history))
	for _, m := range ch.history {
		contents = append(contents, content{Role: m.Role, Parts: []part{{Text: m.Text}}})
	}

	system := fmt.Sprintf(`You are the Elite AI Sales Coach.
Your purpose is to help Channel Consultants optimize their pipeline, handle complex objections, and refine their strategic positioning.
%s`, BuildUserContext(ch.profile))

	reply, err := ch.client.generate(ctx, ModelPro, request{
		SystemInstruction: &content{Parts: []part{{Text: system}}},
		Contents:          contents,
		GenerationConfig:  &genConfig{Temperature: temp(0.7)},
	})
	if err != nil {
		return Message{}, err
	}

	modelMsg := Message{
		ID:   ulid.Make().String(),
		Role: "model",
		Text: reply,
	}
	ch.history = append(ch.history, modelMsg)
	return modelMsg, nil
}
