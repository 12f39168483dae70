// Package assistant answers common SEO questions from a fixed set of
// responses, keeping per-conversation history.
package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// ErrEmptyQuestion is returned when the question is blank
var ErrEmptyQuestion = errors.New("question is empty")

// ErrConversationNotFound is returned for unknown conversation ids
var ErrConversationNotFound = errors.New("conversation not found")

// Greeting opens every conversation
const Greeting = "Hi there! I'm your SEO assistant. Ask me anything about SEO optimization!"

const fallback = "I'm here to help with your SEO questions. Could you provide more details about what you'd like to know?"

// Checked in order; the first topic whose triggers appear in the question wins.
var topics = []struct {
	triggers []string
	answer   string
}{
	{[]string{"keyword"}, "To improve your keyword density, try including your target keyword in your headings, introduction, and conclusion."},
	{[]string{"meta"}, "The ideal meta description length is between 150-160 characters to ensure it displays properly in search results."},
	{[]string{"link"}, "Internal linking helps search engines understand your site structure and distributes page authority throughout your website."},
	{[]string{"schema"}, "Yes, schema markup can significantly improve your rich snippet opportunities in search results."},
	{[]string{"local"}, "For local SEO, make sure to include location-specific keywords and create a Google My Business profile."},
	{[]string{"on-page", "onpage"}, "The most important on-page SEO factors include quality content, proper header usage, keyword optimization, and fast loading speed."},
	{[]string{"backlink"}, "Backlinks remain one of the most important ranking factors. Focus on quality rather than quantity."},
	{[]string{"image"}, "To optimize images for SEO, use descriptive filenames, add alt text with keywords, and compress them for faster loading."},
	{[]string{"mobile"}, "Mobile optimization is critical as Google primarily uses mobile-first indexing."},
	{[]string{"word count", "length"}, "The optimal word count depends on the topic, but comprehensive content (1500+ words) tends to rank better for competitive keywords."},
}

// Answer picks the canned response for question
func Answer(question string) string {
	q := strings.ToLower(question)
	for _, topic := range topics {
		for _, trigger := range topic.triggers {
			if strings.Contains(q, trigger) {
				return topic.answer
			}
		}
	}
	return fallback
}

// Sender identifies who wrote a message
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

// Message is one entry of a conversation
type Message struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Sender    Sender    `json:"sender"`
	Timestamp time.Time `json:"timestamp"`
}

// Assistant replies to questions and tracks open conversations
type Assistant struct {
	delay time.Duration
	now   func() time.Time

	mu            sync.RWMutex
	conversations map[string]*Conversation
}

// New creates an Assistant that waits delay before each reply
func New(delay time.Duration) *Assistant {
	return &Assistant{
		delay:         delay,
		now:           time.Now,
		conversations: make(map[string]*Conversation),
	}
}

func (a *Assistant) message(sender Sender, content string) Message {
	return Message{
		ID:        uuid.NewString(),
		Content:   content,
		Sender:    sender,
		Timestamp: a.now(),
	}
}

// Reply answers question after the configured delay. It returns the context
// error if ctx is done first.
func (a *Assistant) Reply(ctx context.Context, question string) (Message, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Message{}, ErrEmptyQuestion
	}

	if a.delay > 0 {
		timer := time.NewTimer(a.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Message{}, ctx.Err()
		case <-timer.C:
		}
	}

	return a.message(SenderBot, Answer(question)), nil
}

// Start opens a new conversation seeded with the greeting
func (a *Assistant) Start() *Conversation {
	c := a.newConversation()
	a.register(c)
	return c
}

// Begin opens a conversation with its first question. The conversation is
// only kept when the question is answered.
func (a *Assistant) Begin(ctx context.Context, question string) (*Conversation, Message, error) {
	c := a.newConversation()
	reply, err := c.Ask(ctx, question)
	if err != nil {
		return nil, Message{}, err
	}
	a.register(c)
	return c, reply, nil
}

func (a *Assistant) newConversation() *Conversation {
	return &Conversation{
		ID:         uuid.NewString(),
		assistant:  a,
		messages:   []Message{a.message(SenderBot, Greeting)},
		lastActive: a.now(),
	}
}

func (a *Assistant) register(c *Conversation) {
	a.mu.Lock()
	a.conversations[c.ID] = c
	a.mu.Unlock()
}

// Conversation looks up an open conversation
func (a *Assistant) Conversation(id string) (*Conversation, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	c, ok := a.conversations[id]
	if !ok {
		return nil, ErrConversationNotFound
	}
	return c, nil
}

// End forgets a conversation
func (a *Assistant) End(id string) {
	a.mu.Lock()
	delete(a.conversations, id)
	a.mu.Unlock()
}

// Prune ends conversations without activity for longer than idle and
// returns how many were removed.
func (a *Assistant) Prune(idle time.Duration) int {
	cutoff := a.now().Add(-idle)

	a.mu.Lock()
	defer a.mu.Unlock()
	removed := 0
	for id, c := range a.conversations {
		if c.LastActive().Before(cutoff) {
			delete(a.conversations, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of open conversations
func (a *Assistant) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.conversations)
}

// Conversation holds the message history of one chat
type Conversation struct {
	ID string

	assistant *Assistant

	mu         sync.Mutex
	messages   []Message
	lastActive time.Time
}

// Ask records question, waits for the reply and records it too.
// Nothing is recorded when the question is blank or ctx ends first.
func (c *Conversation) Ask(ctx context.Context, question string) (Message, error) {
	reply, err := c.assistant.Reply(ctx, question)
	if err != nil {
		return Message{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages,
		c.assistant.message(SenderUser, strings.TrimSpace(question)),
		reply,
	)
	c.lastActive = c.assistant.now()
	return reply, nil
}

// Messages returns a copy of the history
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// LastActive is when the conversation was opened or last answered
func (c *Conversation) LastActive() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastActive
}
