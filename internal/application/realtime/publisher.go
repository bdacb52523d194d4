package realtime

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// Publisher notifica cambios desde los casos de uso. Un fallo de publicación
// se registra en el log y nunca hace fallar la operación de negocio.
type Publisher struct {
	broker Broker
	log    zerolog.Logger
	now    func() time.Time
}

// NewPublisher construye el publicador. broker nil descarta los eventos.
func NewPublisher(broker Broker, log zerolog.Logger) *Publisher {
	return &Publisher{broker: broker, log: log, now: time.Now}
}

// Notify publica un evento para la empresa indicada.
func (p *Publisher) Notify(ctx context.Context, companyID, topic, eventType, id string, payload any) {
	if p == nil || p.broker == nil {
		return
	}
	ev := Event{Topic: topic, Type: eventType, ID: id, At: p.now()}
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			p.log.Warn().Err(err).Str("topic", topic).Msg("realtime: payload no serializable")
			return
		}
		ev.Payload = raw
	}
	if err := p.broker.Publish(ctx, Key(companyID, topic), ev); err != nil {
		p.log.Warn().Err(err).Str("topic", topic).Str("company_id", companyID).Msg("realtime: publish falló")
	}
}
