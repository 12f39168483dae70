package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnswer(t *testing.T) {
	tests := []struct {
		question string
		contains string
	}{
		{"How do I pick a KEYWORD?", "keyword density"},
		{"meta description tips", "150-160 characters"},
		// "backlink" also contains "link", which is checked first
		{"are backlinks important", "Internal linking"},
		{"what about schema?", "rich snippet"},
		{"local search", "Google My Business"},
		{"onpage factors", "on-page SEO factors"},
		{"image sizes", "descriptive filenames"},
		{"Mobile first", "mobile-first indexing"},
		{"ideal word count", "1500+ words"},
		{"article length", "1500+ words"},
		{"hello", "Could you provide more details"},
	}

	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Contains(t, Answer(tt.question), tt.contains)
		})
	}
}

func TestReply(t *testing.T) {
	a := New(0)

	msg, err := a.Reply(context.Background(), "  mobile?  ")
	require.NoError(t, err)
	assert.Equal(t, SenderBot, msg.Sender)
	assert.NotEmpty(t, msg.ID)
	assert.Contains(t, msg.Content, "mobile-first")

	_, err = a.Reply(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
}

func TestReplyHonorsContext(t *testing.T) {
	a := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := a.Reply(ctx, "schema")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConversation(t *testing.T) {
	a := New(0)
	c := a.Start()

	history := c.Messages()
	require.Len(t, history, 1)
	assert.Equal(t, Greeting, history[0].Content)

	_, err := c.Ask(context.Background(), "")
	require.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Len(t, c.Messages(), 1)

	reply, err := c.Ask(context.Background(), "schema markup?")
	require.NoError(t, err)
	history = c.Messages()
	require.Len(t, history, 3)
	assert.Equal(t, SenderUser, history[1].Sender)
	assert.Equal(t, "schema markup?", history[1].Content)
	assert.Equal(t, reply, history[2])
	assert.NotEqual(t, history[1].ID, history[2].ID)

	found, err := a.Conversation(c.ID)
	require.NoError(t, err)
	assert.Same(t, c, found)

	a.End(c.ID)
	_, err = a.Conversation(c.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
}

func TestBegin(t *testing.T) {
	a := New(0)

	_, _, err := a.Begin(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrEmptyQuestion)
	assert.Zero(t, a.Len())

	slow := New(time.Hour)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = slow.Begin(ctx, "schema")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, slow.Len())

	c, reply, err := a.Begin(context.Background(), "local seo")
	require.NoError(t, err)
	assert.Contains(t, reply.Content, "Google My Business")
	assert.Len(t, c.Messages(), 3)
	assert.Equal(t, 1, a.Len())

	found, err := a.Conversation(c.ID)
	require.NoError(t, err)
	assert.Same(t, c, found)
}

func TestPrune(t *testing.T) {
	a := New(0)
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	a.now = func() time.Time { return now }

	stale := a.Start()
	active := a.Start()

	now = now.Add(20 * time.Minute)
	_, err := active.Ask(context.Background(), "mobile")
	require.NoError(t, err)

	now = now.Add(15 * time.Minute)
	assert.Equal(t, 1, a.Prune(30*time.Minute))

	_, err = a.Conversation(stale.ID)
	assert.ErrorIs(t, err, ErrConversationNotFound)
	_, err = a.Conversation(active.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, a.Len())
}
