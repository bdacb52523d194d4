package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// FetchFunc obtiene la instantánea actual de los datos del tópico.
type FetchFunc func(ctx context.Context) (any, error)

// Feed combina lectura inicial y suscripción sin perder cambios intermedios.
type Feed struct {
	broker Broker
	now    func() time.Time
}

// NewFeed construye el feed sobre un broker.
func NewFeed(broker Broker) *Feed {
	return &Feed{broker: broker, now: time.Now}
}

// Watch se suscribe primero y luego consulta la instantánea, de modo que ningún
// cambio ocurrido durante la lectura se pierde. El primer evento es de tipo
// snapshot; el canal se cierra al cancelar ctx o si el broker cierra la suscripción.
func (f *Feed) Watch(ctx context.Context, companyID, topic string, fetch FetchFunc) (<-chan Event, error) {
	if !ValidTopic(topic) {
		return nil, fmt.Errorf("realtime: tópico desconocido %q", topic)
	}
	live, cancel, err := f.broker.Subscribe(ctx, Key(companyID, topic))
	if err != nil {
		return nil, fmt.Errorf("realtime: subscribe: %w", err)
	}
	data, err := fetch(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("realtime: snapshot: %w", err)
	}
	payload, err := json.Marshal(data)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("realtime: snapshot: %w", err)
	}

	out := make(chan Event, 1)
	out <- Event{Topic: topic, Type: EventSnapshot, Payload: payload, At: f.now()}
	go func() {
		defer close(out)
		defer cancel()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-live:
				if !ok {
					return
				}
				select {
				case out <- ev:
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
