package search

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marquee/models"
)

type recorder struct {
	mu        sync.Mutex
	ran       []string
	delivered []string
	done      chan string
}

func newRecorder() *recorder {
	return &recorder{done: make(chan string, 16)}
}

func (r *recorder) run(_ context.Context, q string) string {
	r.mu.Lock()
	r.ran = append(r.ran, q)
	r.mu.Unlock()
	return "result:" + q
}

func (r *recorder) deliver(q, result string) {
	r.mu.Lock()
	r.delivered = append(r.delivered, q)
	r.mu.Unlock()
	r.done <- result
}

func (r *recorder) snapshot() ([]string, []string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ran...), append([]string(nil), r.delivered...)
}

func waitDelivery(t *testing.T, ch <-chan string) string {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for delivery")
		return ""
	}
}

func TestDebouncerRunsOnlyLastOfBurst(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer[string](context.Background(), 30*time.Millisecond, rec.run, rec.deliver)
	defer d.Close()

	for _, q := range []string{"d", "da", "dar", "dark"} {
		d.Submit(q)
		time.Sleep(5 * time.Millisecond)
	}

	assert.Equal(t, "result:dark", waitDelivery(t, rec.done))
	time.Sleep(60 * time.Millisecond)
	ran, delivered := rec.snapshot()
	assert.Equal(t, []string{"dark"}, ran)
	assert.Equal(t, []string{"dark"}, delivered)
}

func TestDebouncerSuppressesRepeatedQuery(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer[string](context.Background(), 10*time.Millisecond, rec.run, rec.deliver)
	defer d.Close()

	d.Submit("matrix")
	waitDelivery(t, rec.done)

	d.Submit(" matrix ")
	time.Sleep(50 * time.Millisecond)
	d.Submit("heat")
	waitDelivery(t, rec.done)

	ran, _ := rec.snapshot()
	assert.Equal(t, []string{"matrix", "heat"}, ran)
}

func TestDebouncerCancelsSupersededRun(t *testing.T) {
	started := make(chan struct{})
	var (
		mu        sync.Mutex
		cancelled bool
	)
	run := func(ctx context.Context, q string) string {
		if q == "slow" {
			close(started)
			<-ctx.Done()
			mu.Lock()
			cancelled = true
			mu.Unlock()
		}
		return q
	}
	delivered := make(chan string, 4)
	d := NewDebouncer[string](context.Background(), 5*time.Millisecond, run, func(q, _ string) { delivered <- q })
	defer d.Close()

	d.Submit("slow")
	<-started
	d.Submit("fast")

	assert.Equal(t, "fast", waitDelivery(t, delivered))
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return cancelled
	}, time.Second, 5*time.Millisecond)

	select {
	case q := <-delivered:
		t.Fatalf("superseded query %q was delivered", q)
	case <-time.After(30 * time.Millisecond):
	}
}

func TestDebouncerCloseStopsPending(t *testing.T) {
	rec := newRecorder()
	d := NewDebouncer[string](context.Background(), 20*time.Millisecond, rec.run, rec.deliver)

	d.Submit("heat")
	d.Close()
	d.Submit("ronin")
	time.Sleep(60 * time.Millisecond)

	ran, delivered := rec.snapshot()
	assert.Empty(t, ran)
	assert.Empty(t, delivered)
}

func TestLivePublishesDebouncedResults(t *testing.T) {
	svc := NewService(nil, nil, localItems{{ID: 1, Title: "Heat"}}, Options{})
	live := NewLive(context.Background(), svc, 10*time.Millisecond)
	defer live.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	updates := live.SubscribeResults(ctx)

	initial := <-updates
	assert.Empty(t, initial.Items)

	live.SetQuery("he")
	live.SetQuery("heat")
	assert.Equal(t, "heat", live.Query())

	select {
	case res := <-updates:
		assert.Equal(t, "heat", res.Query)
		require.NotEmpty(t, res.Items)
		assert.Equal(t, "Heat", res.Items[0].Title)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for results")
	}
}

func TestLiveRecordBypassesDebounce(t *testing.T) {
	svc := NewService(nil, nil, nil, Options{})
	live := NewLive(context.Background(), svc, time.Hour)
	defer live.Close()

	live.Record(" heat ", []models.ContentItem{{ID: 1, Title: "Heat"}})
	assert.Equal(t, " heat ", live.Query())
	assert.Equal(t, "heat", live.Results().Query)
	assert.Len(t, live.Results().Items, 1)
}
