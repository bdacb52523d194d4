// Package realtime difunde cambios de datos a las pantallas conectadas:
// un cliente recibe primero una instantánea y luego los eventos en vivo.
package realtime

import (
	"context"
	"encoding/json"
	"time"
)

// Tópicos publicados por los casos de uso.
const (
	TopicProducts  = "products"
	TopicStock     = "stock"
	TopicSales     = "sales"
	TopicBaskets   = "baskets"
	TopicTransfers = "transfers"
	TopicInvoices  = "invoices"
	TopicDevices   = "devices"
)

// Tipos de evento.
const (
	EventSnapshot = "snapshot"
	EventCreated  = "created"
	EventUpdated  = "updated"
	EventDeleted  = "deleted"
)

// Topics lista de tópicos a los que un cliente puede suscribirse.
var Topics = []string{
	TopicProducts, TopicStock, TopicSales, TopicBaskets, TopicTransfers, TopicInvoices, TopicDevices,
}

// ValidTopic informa si el tópico existe.
func ValidTopic(topic string) bool {
	for _, t := range Topics {
		if t == topic {
			return true
		}
	}
	return false
}

// Event cambio publicado sobre un tópico de una empresa.
type Event struct {
	Topic   string          `json:"topic"`
	Type    string          `json:"type"`
	ID      string          `json:"id,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
	At      time.Time       `json:"at"`
}

// GlobalScope ámbito de los eventos que no pertenecen a una empresa (periféricos del terminal).
const GlobalScope = "*"

// ScopeFor ámbito de suscripción de un tópico: devices es global, el resto por empresa.
func ScopeFor(companyID, topic string) string {
	if topic == TopicDevices {
		return GlobalScope
	}
	return companyID
}

// Key clave de enrutamiento "<companyID>:<topic>".
func Key(companyID, topic string) string {
	return companyID + ":" + topic
}

// Broker transporte de eventos entre publicadores y suscriptores.
type Broker interface {
	Publish(ctx context.Context, key string, ev Event) error
	// Subscribe devuelve un canal de eventos y una función para cancelar la suscripción.
	Subscribe(ctx context.Context, key string) (<-chan Event, func(), error)
}
