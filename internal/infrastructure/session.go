package infrastructure

import (
	"sync"
	"time"
)

// conversationSession tracks the turn in flight for one conversation.
type conversationSession struct {
	startedAt time.Time
}

// ConversationGuard lets one chat turn run per conversation at a time.
type ConversationGuard struct {
	sessions map[string]*conversationSession
	mu       sync.Mutex
}

func NewConversationGuard() *ConversationGuard {
	return &ConversationGuard{
		sessions: make(map[string]*conversationSession),
	}
}

// TryAcquire marks the conversation as processing. It returns false when a
// turn is already running.
func (g *ConversationGuard) TryAcquire(conversationID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, busy := g.sessions[conversationID]; busy {
		return false
	}
	g.sessions[conversationID] = &conversationSession{startedAt: time.Now()}
	return true
}

// Release marks the conversation as done.
func (g *ConversationGuard) Release(conversationID string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.sessions, conversationID)
}

// InFlight returns the number of turns currently running.
func (g *ConversationGuard) InFlight() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.sessions)
}
