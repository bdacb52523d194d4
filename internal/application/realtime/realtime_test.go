package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "canal cerrado")
		return ev
	case <-time.After(time.Second):
		t.Fatal("timeout esperando evento")
		return Event{}
	}
}

func TestMemoryBroker_FanOutAndDrop(t *testing.T) {
	b := NewMemoryBroker(1)
	ctx := context.Background()

	a, cancelA, err := b.Subscribe(ctx, "c1:sales")
	require.NoError(t, err)
	defer cancelA()
	other, cancelOther, err := b.Subscribe(ctx, "c2:sales")
	require.NoError(t, err)
	defer cancelOther()

	require.NoError(t, b.Publish(ctx, "c1:sales", Event{Type: EventCreated, ID: "v1"}))
	require.NoError(t, b.Publish(ctx, "c1:sales", Event{Type: EventCreated, ID: "v2"}))

	assert.Equal(t, "v1", recv(t, a).ID)
	assert.Equal(t, int64(1), b.Dropped(), "buffer de 1: el segundo evento se descarta")
	assert.Len(t, other, 0, "otra empresa no recibe eventos")
}

func TestMemoryBroker_CancelIsIdempotent(t *testing.T) {
	b := NewMemoryBroker(0)
	ch, cancel, err := b.Subscribe(context.Background(), "k")
	require.NoError(t, err)
	assert.Equal(t, 1, b.Subscribers("k"))

	cancel()
	cancel()
	_, ok := <-ch
	assert.False(t, ok)
	assert.Equal(t, 0, b.Subscribers("k"))
	assert.NoError(t, b.Publish(context.Background(), "k", Event{}))
}

func TestFeed_WatchSnapshotThenLive(t *testing.T) {
	b := NewMemoryBroker(8)
	feed := NewFeed(b)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pub := NewPublisher(b, zerolog.Nop())
	fetch := func(ctx context.Context) (any, error) {
		// Un cambio ocurrido durante la lectura no debe perderse.
		pub.Notify(ctx, "c1", TopicProducts, EventUpdated, "p1", map[string]string{"name": "Arroz"})
		return []string{"p1"}, nil
	}

	ch, err := feed.Watch(ctx, "c1", TopicProducts, fetch)
	require.NoError(t, err)

	snap := recv(t, ch)
	assert.Equal(t, EventSnapshot, snap.Type)
	var ids []string
	require.NoError(t, json.Unmarshal(snap.Payload, &ids))
	assert.Equal(t, []string{"p1"}, ids)

	live := recv(t, ch)
	assert.Equal(t, EventUpdated, live.Type)
	assert.Equal(t, "p1", live.ID)
	assert.Equal(t, TopicProducts, live.Topic)

	cancel()
	assert.Eventually(t, func() bool {
		_, ok := <-ch
		return !ok
	}, time.Second, 10*time.Millisecond)
	assert.Eventually(t, func() bool { return b.Subscribers(Key("c1", TopicProducts)) == 0 }, time.Second, 10*time.Millisecond)
}

func TestFeed_WatchErrors(t *testing.T) {
	b := NewMemoryBroker(8)
	feed := NewFeed(b)

	_, err := feed.Watch(context.Background(), "c1", "desconocido", nil)
	assert.Error(t, err)

	_, err = feed.Watch(context.Background(), "c1", TopicSales, func(context.Context) (any, error) {
		return nil, errors.New("db caída")
	})
	assert.Error(t, err)
	assert.Equal(t, 0, b.Subscribers(Key("c1", TopicSales)), "la suscripción se libera si falla la lectura")
}

type failingBroker struct{ MemoryBroker }

func (*failingBroker) Publish(context.Context, string, Event) error { return errors.New("sin conexión") }

func TestPublisher_ErrorsDoNotPropagate(t *testing.T) {
	var nilPub *Publisher
	assert.NotPanics(t, func() { nilPub.Notify(context.Background(), "c1", TopicSales, EventCreated, "x", nil) })

	p := NewPublisher(&failingBroker{}, zerolog.Nop())
	assert.NotPanics(t, func() { p.Notify(context.Background(), "c1", TopicSales, EventCreated, "x", nil) })
}
