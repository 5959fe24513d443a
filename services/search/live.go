package search

import (
	"context"
	"log"
	"strings"
	"time"

	"marquee/models"
	"marquee/utils/observable"
)

// Results is the answer to one query.
type Results struct {
	Query     string               `json:"query"`
	Items     []models.ContentItem `json:"items"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// Live tracks the current query and its results. Queries set through
// SetQuery are debounced; results for superseded queries never appear.
type Live struct {
	query     *observable.Value[string]
	results   *observable.Value[Results]
	debouncer *Debouncer[[]models.ContentItem]
}

func NewLive(ctx context.Context, svc *Service, delay time.Duration) *Live {
	l := &Live{
		query:   observable.New(""),
		results: observable.New(Results{Items: []models.ContentItem{}, UpdatedAt: time.Now().UTC()}),
	}
	l.debouncer = NewDebouncer[[]models.ContentItem](ctx, delay, svc.Search, l.publish)
	return l
}

// SetQuery updates the current query and schedules a search for it.
func (l *Live) SetQuery(query string) {
	l.query.Set(query)
	l.debouncer.Submit(query)
}

// Record stores a query answered outside the debouncer.
func (l *Live) Record(query string, items []models.ContentItem) {
	l.query.Set(query)
	l.publish(strings.TrimSpace(query), items)
}

func (l *Live) Query() string {
	return l.query.Get()
}

func (l *Live) Results() Results {
	return l.results.Get()
}

func (l *Live) SubscribeQuery(ctx context.Context) <-chan string {
	return l.query.Subscribe(ctx)
}

// SubscribeResults streams results: the current ones first, then one per
// completed search.
func (l *Live) SubscribeResults(ctx context.Context) <-chan Results {
	return l.results.Subscribe(ctx)
}

func (l *Live) Close() {
	l.debouncer.Close()
}

func (l *Live) publish(query string, items []models.ContentItem) {
	if items == nil {
		items = []models.ContentItem{}
	}
	log.Printf("[search] %q: %d results", query, len(items))
	l.results.Set(Results{Query: query, Items: items, UpdatedAt: time.Now().UTC()})
}
