// Package flash carries one-shot user messages across a redirect.
package flash

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelInfo    Level = "info"
	LevelWarning Level = "warning"
)

type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

func Success(text string) Message { return Message{Level: LevelSuccess, Text: text} }
func Error(text string) Message   { return Message{Level: LevelError, Text: text} }
func Info(text string) Message    { return Message{Level: LevelInfo, Text: text} }

// Store keeps pending messages per session until they are popped.
type Store interface {
	Add(ctx context.Context, sessionKey string, msg Message) error
	Pop(ctx context.Context, sessionKey string) ([]Message, error)
}

type listStore interface {
	AppendList(ctx context.Context, key string, ttl time.Duration, values ...string) error
	DrainList(ctx context.Context, key string) ([]string, error)
	FlashKey(sessionID string) string
}

// RedisStore keeps each session's messages in a Redis list.
type RedisStore struct {
	client listStore
	ttl    time.Duration
}

func NewRedisStore(client listStore, ttl time.Duration) (*RedisStore, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (s *RedisStore) Add(ctx context.Context, sessionKey string, msg Message) error {
	if strings.TrimSpace(sessionKey) == "" {
		return fmt.Errorf("session key required")
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode flash: %w", err)
	}
	return s.client.AppendList(ctx, s.client.FlashKey(sessionKey), s.ttl, string(raw))
}

func (s *RedisStore) Pop(ctx context.Context, sessionKey string) ([]Message, error) {
	if strings.TrimSpace(sessionKey) == "" {
		return nil, nil
	}
	values, err := s.client.DrainList(ctx, s.client.FlashKey(sessionKey))
	if err != nil {
		return nil, err
	}
	out := make([]Message, 0, len(values))
	for _, value := range values {
		var msg Message
		if err := json.Unmarshal([]byte(value), &msg); err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// MemoryStore is a process-local Store for dev and tests.
type MemoryStore struct {
	mu      sync.Mutex
	pending map[string][]Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pending: map[string][]Message{}}
}

func (s *MemoryStore) Add(_ context.Context, sessionKey string, msg Message) error {
	if strings.TrimSpace(sessionKey) == "" {
		return fmt.Errorf("session key required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending[sessionKey] = append(s.pending[sessionKey], msg)
	return nil
}

func (s *MemoryStore) Pop(_ context.Context, sessionKey string) ([]Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	msgs := s.pending[sessionKey]
	delete(s.pending, sessionKey)
	return msgs, nil
}
