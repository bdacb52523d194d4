// Package redis difunde los eventos en tiempo real entre instancias de la API
// usando Redis Pub/Sub.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/pos-api/internal/application/realtime"
	"github.com/jhoicas/pos-api/pkg/config"
)

const channelPrefix = "pos:events:"

var _ realtime.Broker = (*Broker)(nil)

// Broker implementa realtime.Broker sobre canales de Redis (JSON por mensaje).
type Broker struct {
	client *redis.Client
	buffer int
	log    zerolog.Logger
}

// NewClient crea el cliente y verifica la conexión.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

// NewBroker construye el broker sobre un cliente existente.
func NewBroker(client *redis.Client, log zerolog.Logger) *Broker {
	return &Broker{client: client, buffer: 64, log: log}
}

func (b *Broker) Publish(ctx context.Context, key string, ev realtime.Event) error {
	raw, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	if err := b.client.Publish(ctx, channelPrefix+key, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

// Subscribe abre una suscripción al canal de la clave. Los mensajes que no se
// pueden decodificar se registran y se omiten.
func (b *Broker) Subscribe(ctx context.Context, key string) (<-chan realtime.Event, func(), error) {
	ps := b.client.Subscribe(ctx, channelPrefix+key)
	// Receive confirma la suscripción antes de devolver el control.
	if _, err := ps.Receive(ctx); err != nil {
		_ = ps.Close()
		return nil, nil, fmt.Errorf("redis subscribe: %w", err)
	}

	out := make(chan realtime.Event, b.buffer)
	done := make(chan struct{})
	go func() {
		defer close(out)
		msgs := ps.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev realtime.Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					b.log.Warn().Err(err).Str("channel", msg.Channel).Msg("redis: evento inválido")
					continue
				}
				select {
				case out <- ev:
				default:
					b.log.Warn().Str("channel", msg.Channel).Msg("redis: suscriptor saturado, evento descartado")
				}
			}
		}
	}()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			close(done)
			_ = ps.Close()
		})
	}
	return out, cancel, nil
}

// Close cierra el cliente.
func (b *Broker) Close() error {
	return b.client.Close()
}
