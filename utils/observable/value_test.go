package observable

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v, ok := <-ch:
		require.True(t, ok, "channel closed unexpectedly")
		return v
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for value")
	}
	var zero T
	return zero
}

func TestSubscribeReceivesCurrentValueFirst(t *testing.T) {
	v := New("home")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	assert.Equal(t, "home", receive(t, ch))

	v.Set("movies")
	assert.Equal(t, "movies", receive(t, ch))
}

func TestSlowSubscriberSeesLatestValue(t *testing.T) {
	v := New(0)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	for i := 1; i <= 5; i++ {
		v.Set(i)
	}
	assert.Equal(t, 5, receive(t, ch))
	assert.Equal(t, 5, v.Get())
}

func TestUpdateSkipsUnchanged(t *testing.T) {
	v := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := v.Subscribe(ctx)
	receive(t, ch)

	got := v.Update(func(cur int) (int, bool) { return cur, false })
	assert.Equal(t, 1, got)

	select {
	case val := <-ch:
		t.Fatalf("unexpected notification %d", val)
	default:
	}

	got = v.Update(func(cur int) (int, bool) { return cur + 1, true })
	assert.Equal(t, 2, got)
	assert.Equal(t, 2, receive(t, ch))
}

func TestSubscriptionClosesWithContext(t *testing.T) {
	v := New("x")
	ctx, cancel := context.WithCancel(context.Background())
	ch := v.Subscribe(ctx)
	receive(t, ch)
	assert.Equal(t, 1, v.Subscribers())

	cancel()
	require.Eventually(t, func() bool { return v.Subscribers() == 0 }, time.Second, 5*time.Millisecond)

	_, ok := <-ch
	assert.False(t, ok)

	// Publishing after unsubscribe must not panic on the closed channel.
	v.Set("y")
}
