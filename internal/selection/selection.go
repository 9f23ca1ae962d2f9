// Package selection keeps each visitor's set of selected photo ids between
// requests, the way a browser would keep it in local storage.
package selection

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/koaestudio/koa-photos-backend/pkg/kv"
)

// StorageKey is the per-visitor key holding the JSON array of selected ids.
const StorageKey = "selectedPhotos"

type Provider struct {
	kv kv.Store
}

func NewProvider(store kv.Store) *Provider {
	return &Provider{kv: store}
}

// For rehydrates the visitor's selection. A missing or unreadable value yields
// an empty set; only a failing backend is an error.
func (p *Provider) For(ctx context.Context, visitorID string) (*Store, error) {
	s := &Store{
		kv:  p.kv,
		key: kv.VisitorKey(visitorID, StorageKey),
		ids: make(map[string]struct{}),
	}

	raw, err := p.kv.Get(ctx, s.key)
	if errors.Is(err, kv.ErrNotFound) {
		return s, nil
	}
	if err != nil {
		return nil, err
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return s, nil
	}
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s, nil
}

// Store is one visitor's selection. It is not safe for concurrent use; two
// requests from the same visitor race and the last write wins.
type Store struct {
	kv  kv.Store
	key string
	ids map[string]struct{}
}

// Toggle adds or removes id and reports whether it is now selected.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	_, selected := s.ids[id]
	if selected {
		delete(s.ids, id)
	} else {
		s.ids[id] = struct{}{}
	}
	if err := s.persist(ctx); err != nil {
		return selected, err
	}
	return !selected, nil
}

// SelectAll replaces the whole set.
func (s *Store) SelectAll(ctx context.Context, ids []string) error {
	s.ids = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if id != "" {
			s.ids[id] = struct{}{}
		}
	}
	return s.persist(ctx)
}

// Clear empties the set and removes the persisted value.
func (s *Store) Clear(ctx context.Context) error {
	s.ids = make(map[string]struct{})
	if err := s.kv.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("failed to clear selection: %w", err)
	}
	return nil
}

func (s *Store) IsSelected(id string) bool {
	_, ok := s.ids[id]
	return ok
}

func (s *Store) Count() int {
	return len(s.ids)
}

// IDs returns the selection sorted, so responses are stable.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.IDs())
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(data), kv.VisitorTTL); err != nil {
		return fmt.Errorf("failed to save selection: %w", err)
	}
	return nil
}
