// Copyright (c) 2025 Poojith Guntaka.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/PoojithGuntaka/CivicConnect/models"
)

// Greeting opens every conversation.
const Greeting = "Hello! I am your Civic Assistant. How can I help you today?"

// DefaultMaxConversations bounds a Registry when no limit is given.
const DefaultMaxConversations = 1000

var (
	ErrBusy         = errors.New("a message is already being answered")
	ErrEmptyMessage = errors.New("message is empty")
)

// Conversation is an append-only chat transcript. Only one message can be
// awaiting an answer at a time; a second Send fails with ErrBusy.
type Conversation struct {
	id        string
	assistant *Assistant
	now       func() time.Time

	mu       sync.Mutex
	messages []models.ChatMessage
	inFlight bool
}

func newConversation(a *Assistant, now func() time.Time) *Conversation {
	return &Conversation{
		id:        uuid.NewString(),
		assistant: a,
		now:       now,
		messages: []models.ChatMessage{{
			ID:        uuid.NewString(),
			Sender:    models.SenderBot,
			Text:      Greeting,
			Timestamp: now(),
		}},
	}
}

// ID returns the conversation id.
func (c *Conversation) ID() string {
	return c.id
}

// Messages returns a copy of the transcript in conversation order.
func (c *Conversation) Messages() []models.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

// Busy reports whether a message is awaiting an answer.
func (c *Conversation) Busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inFlight
}

// Send appends the user's message, asks the assistant with the previous
// HistoryLimit messages as context, and appends the reply. Fallback replies
// are marked IsError.
func (c *Conversation) Send(ctx context.Context, text string) (models.ChatMessage, models.ChatMessage, error) {
	if strings.TrimSpace(text) == "" {
		return models.ChatMessage{}, models.ChatMessage{}, ErrEmptyMessage
	}

	c.mu.Lock()
	if c.inFlight {
		c.mu.Unlock()
		return models.ChatMessage{}, models.ChatMessage{}, ErrBusy
	}
	c.inFlight = true
	history := HistoryWindow(c.messages)
	userMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    models.SenderUser,
		Text:      text,
		Timestamp: c.now(),
	}
	c.messages = append(c.messages, userMsg)
	c.mu.Unlock()

	reply := c.assistant.Reply(ctx, text, history)

	botMsg := models.ChatMessage{
		ID:        uuid.NewString(),
		Sender:    models.SenderBot,
		Text:      reply.Text,
		Timestamp: c.now(),
		IsError:   reply.Outcome.Fallback(),
	}

	c.mu.Lock()
	c.messages = append(c.messages, botMsg)
	c.inFlight = false
	c.mu.Unlock()

	return userMsg, botMsg, nil
}

// Registry owns conversations by id. When full, starting a conversation
// drops the oldest one.
type Registry struct {
	assistant *Assistant
	max       int
	now       func() time.Time

	mu            sync.RWMutex
	conversations map[string]*Conversation
	order         []string
}

// NewRegistry creates a registry holding at most max conversations.
// max <= 0 uses DefaultMaxConversations.
func NewRegistry(a *Assistant, max int) *Registry {
	if max <= 0 {
		max = DefaultMaxConversations
	}
	return &Registry{
		assistant:     a,
		max:           max,
		now:           time.Now,
		conversations: make(map[string]*Conversation),
	}
}

// Start opens a new conversation seeded with the greeting.
func (r *Registry) Start() *Conversation {
	c := newConversation(r.assistant, r.now)

	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.order) >= r.max {
		oldest := r.order[0]
		r.order = r.order[1:]
		delete(r.conversations, oldest)
	}
	r.conversations[c.id] = c
	r.order = append(r.order, c.id)

	return c
}

// Get returns the conversation with the given id.
func (r *Registry) Get(id string) (*Conversation, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.conversations[id]
	return c, ok
}

// Len returns the number of live conversations.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.conversations)
}
