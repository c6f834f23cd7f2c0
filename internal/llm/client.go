package llm

import (
	"context"
	"time"
)

// Message is one turn of a model conversation.
type Message struct {
	Role    string `json:"role"` // "system", "user", "assistant"
	Content string `json:"content"`
}

// Client abstracts the code-generation model. The engine only needs whole
// completions; streaming is a transport concern it does not own.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
	ModelName() string
}

// Config carries provider settings shared by adapters.
type Config struct {
	Model   string
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultTimeout bounds a single completion call when none is configured.
const DefaultTimeout = 90 * time.Second
