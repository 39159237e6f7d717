package service

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/Harshitk-cp/crag/internal/domain"
	"github.com/Harshitk-cp/crag/internal/store"
)

// DefaultMaxThreads bounds ConversationMemory when no limit is given.
const DefaultMaxThreads = 1000

// ConversationMemory is the in-process conversation store. It holds at most
// maxThreads threads and evicts the least recently used one past that.
// All methods are safe for concurrent use; reads return copies.
type ConversationMemory struct {
	mu         sync.Mutex
	maxThreads int
	threads    map[string]*list.Element
	lru        *list.List
	now        func() time.Time
}

type threadEntry struct {
	id            string
	messages      []domain.Message
	lastRetrieved []domain.SourceRef
	updatedAt     time.Time
}

func NewConversationMemory(maxThreads int) *ConversationMemory {
	if maxThreads <= 0 {
		maxThreads = DefaultMaxThreads
	}
	return &ConversationMemory{
		maxThreads: maxThreads,
		threads:    make(map[string]*list.Element),
		lru:        list.New(),
		now:        time.Now,
	}
}

// Append adds one user/assistant pair to the thread, creating it on first use.
func (m *ConversationMemory) Append(ctx context.Context, threadID string, user, assistant domain.Message, sources []domain.SourceRef) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var entry *threadEntry
	if el, ok := m.threads[threadID]; ok {
		m.lru.MoveToFront(el)
		entry = el.Value.(*threadEntry)
	} else {
		entry = &threadEntry{id: threadID}
		m.threads[threadID] = m.lru.PushFront(entry)
		m.evictLocked()
	}

	entry.messages = append(entry.messages, user, assistant)
	entry.lastRetrieved = append([]domain.SourceRef(nil), sources...)
	entry.updatedAt = m.now()
	return nil
}

// History returns the thread's messages in insertion order. An unknown
// thread has an empty history.
func (m *ConversationMemory) History(ctx context.Context, threadID string) ([]domain.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.threads[threadID]
	if !ok {
		return []domain.Message{}, nil
	}
	m.lru.MoveToFront(el)
	return append([]domain.Message{}, el.Value.(*threadEntry).messages...), nil
}

func (m *ConversationMemory) Get(ctx context.Context, threadID string) (*domain.Thread, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.threads[threadID]
	if !ok {
		return nil, store.ErrNotFound
	}
	m.lru.MoveToFront(el)
	entry := el.Value.(*threadEntry)
	return &domain.Thread{
		ID:            entry.id,
		Messages:      append([]domain.Message{}, entry.messages...),
		LastRetrieved: append([]domain.SourceRef{}, entry.lastRetrieved...),
		UpdatedAt:     entry.updatedAt,
	}, nil
}

func (m *ConversationMemory) Delete(ctx context.Context, threadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	el, ok := m.threads[threadID]
	if !ok {
		return store.ErrNotFound
	}
	m.lru.Remove(el)
	delete(m.threads, threadID)
	return nil
}

// DeleteIdle drops threads whose last append is before olderThan.
func (m *ConversationMemory) DeleteIdle(ctx context.Context, olderThan time.Time) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var deleted int64
	for el := m.lru.Back(); el != nil; {
		prev := el.Prev()
		entry := el.Value.(*threadEntry)
		if entry.updatedAt.Before(olderThan) {
			m.lru.Remove(el)
			delete(m.threads, entry.id)
			deleted++
		}
		el = prev
	}
	return deleted, nil
}

// Len returns the number of threads held.
func (m *ConversationMemory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lru.Len()
}

func (m *ConversationMemory) evictLocked() {
	for m.lru.Len() > m.maxThreads {
		oldest := m.lru.Back()
		m.lru.Remove(oldest)
		delete(m.threads, oldest.Value.(*threadEntry).id)
	}
}
