package watchlist

import (
	"context"
	"errors"
	"log"
	"slices"
	"time"

	"marquee/models"
	"marquee/utils/metrics"
	"marquee/utils/observable"
)

var (
	ErrInvalidID    = errors.New("content id must be positive")
	ErrTitleMissing = errors.New("content title is required")
)

// Service keeps the session watchlist in memory. Entries are keyed by content
// id and kept in insertion order; nothing survives a restart.
type Service struct {
	state *observable.Value[models.WatchlistSnapshot]
}

func NewService() *Service {
	return &Service{
		state: observable.New(models.WatchlistSnapshot{
			Items:     []models.ContentItem{},
			UpdatedAt: time.Now().UTC(),
		}),
	}
}

// List returns the saved items in insertion order.
func (s *Service) List() []models.ContentItem {
	snap := s.state.Get()
	items := make([]models.ContentItem, len(snap.Items))
	for i, item := range snap.Items {
		items[i] = item.Clone()
	}
	return items
}

// Snapshot returns the current immutable state.
func (s *Service) Snapshot() models.WatchlistSnapshot {
	return s.state.Get()
}

// Contains reports whether an item with the id is saved.
func (s *Service) Contains(id int64) bool {
	return s.state.Get().Contains(id)
}

// Add appends item unless an entry with the same id exists. It reports
// whether the list changed.
func (s *Service) Add(item models.ContentItem) (bool, error) {
	if err := validate(item); err != nil {
		return false, err
	}

	added := false
	s.state.Update(func(cur models.WatchlistSnapshot) (models.WatchlistSnapshot, bool) {
		if cur.Contains(item.ID) {
			return cur, false
		}
		items := make([]models.ContentItem, 0, len(cur.Items)+1)
		items = append(items, cur.Items...)
		items = append(items, item.Clone())
		added = true
		return next(cur, items), true
	})
	if added {
		log.Printf("[watchlist] added %d %q", item.ID, item.Title)
	}
	return added, nil
}

// Remove deletes any entry with the id. It reports whether the list changed;
// an absent id, including one that could never have been added, is a no-op.
func (s *Service) Remove(id int64) (bool, error) {
	removed := false
	s.state.Update(func(cur models.WatchlistSnapshot) (models.WatchlistSnapshot, bool) {
		idx := slices.IndexFunc(cur.Items, func(c models.ContentItem) bool { return c.ID == id })
		if idx < 0 {
			return cur, false
		}
		items := slices.DeleteFunc(slices.Clone(cur.Items), func(c models.ContentItem) bool { return c.ID == id })
		removed = true
		return next(cur, items), true
	})
	if removed {
		log.Printf("[watchlist] removed %d", id)
	}
	return removed, nil
}

// Toggle adds the item when absent and removes it when present. It returns
// whether the item is saved afterwards.
func (s *Service) Toggle(item models.ContentItem) (bool, error) {
	if err := validate(item); err != nil {
		return false, err
	}

	var saved bool
	s.state.Update(func(cur models.WatchlistSnapshot) (models.WatchlistSnapshot, bool) {
		if cur.Contains(item.ID) {
			items := slices.DeleteFunc(slices.Clone(cur.Items), func(c models.ContentItem) bool { return c.ID == item.ID })
			saved = false
			return next(cur, items), true
		}
		items := make([]models.ContentItem, 0, len(cur.Items)+1)
		items = append(items, cur.Items...)
		items = append(items, item.Clone())
		saved = true
		return next(cur, items), true
	})
	return saved, nil
}

// Subscribe streams snapshots: the current one first, then one per change.
func (s *Service) Subscribe(ctx context.Context) <-chan models.WatchlistSnapshot {
	return s.state.Subscribe(ctx)
}

func next(cur models.WatchlistSnapshot, items []models.ContentItem) models.WatchlistSnapshot {
	metrics.WatchlistSize.Set(float64(len(items)))
	return models.WatchlistSnapshot{
		Items:     items,
		Version:   cur.Version + 1,
		UpdatedAt: time.Now().UTC(),
	}
}

func validate(item models.ContentItem) error {
	if item.ID <= 0 {
		return ErrInvalidID
	}
	if item.Title == "" {
		return ErrTitleMissing
	}
	return nil
}
