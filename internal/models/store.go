package models

import (
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound        = errors.New("subscription not found")
	ErrVersionConflict = errors.New("subscription version conflict")
)

// SubscriptionStore keeps all records in memory behind a RWMutex; durability
// comes from the scheduler's periodic snapshot save. Every accessor works on
// clones so callers never share memory with the store.
type SubscriptionStore struct {
	mu   sync.RWMutex
	data map[uuid.UUID]*Subscription
}

func NewSubscriptionStore() *SubscriptionStore {
	return &SubscriptionStore{data: make(map[uuid.UUID]*Subscription)}
}

func (st *SubscriptionStore) Create(sub *Subscription) *Subscription {
	st.mu.Lock()
	defer st.mu.Unlock()

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	sub.Version = 1
	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now
	st.data[sub.ID] = sub.Clone()
	return sub.Clone()
}

func (st *SubscriptionStore) Get(id uuid.UUID) (*Subscription, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	sub, ok := st.data[id]
	if !ok {
		return nil, false
	}
	return sub.Clone(), true
}

// Update applies a compare-and-swap on Version: the caller must present the
// version it read, and loses to any writer that committed in between.
func (st *SubscriptionStore) Update(sub *Subscription) (*Subscription, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	current, ok := st.data[sub.ID]
	if !ok {
		return nil, ErrNotFound
	}
	if current.Version != sub.Version {
		return nil, ErrVersionConflict
	}
	next := sub.Clone()
	next.Version++
	next.CreatedAt = current.CreatedAt
	next.UpdatedAt = time.Now().UTC()
	st.data[sub.ID] = next
	return next.Clone(), nil
}

func (st *SubscriptionStore) Delete(id uuid.UUID) error {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.data[id]; !ok {
		return ErrNotFound
	}
	delete(st.data, id)
	return nil
}

// List returns clones ordered by expiry date, then name.
func (st *SubscriptionStore) List() []*Subscription {
	st.mu.RLock()
	defer st.mu.RUnlock()

	out := make([]*Subscription, 0, len(st.data))
	for _, sub := range st.data {
		out = append(out, sub.Clone())
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ExpiresAt.Equal(out[j].ExpiresAt.Time) {
			return out[i].ExpiresAt.Before(out[j].ExpiresAt.Time)
		}
		return strings.ToLower(out[i].Name) < strings.ToLower(out[j].Name)
	})
	return out
}

func (st *SubscriptionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.data)
}

// Replace swaps in a restored snapshot wholesale.
func (st *SubscriptionStore) Replace(subs []*Subscription) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.data = make(map[uuid.UUID]*Subscription, len(subs))
	for _, sub := range subs {
		if sub == nil || sub.ID == uuid.Nil {
			continue
		}
		st.data[sub.ID] = sub.Clone()
	}
}
