package http

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/valyala/fasthttp"

	"github.com/jhoicas/pos-api/internal/application/dto"
	"github.com/jhoicas/pos-api/internal/application/realtime"
)

// DefaultKeepAlive intervalo de los comentarios que mantienen viva la conexión SSE.
const DefaultKeepAlive = 15 * time.Second

// SnapshotFunc lee el estado actual de un tópico para el actor.
type SnapshotFunc func(ctx context.Context, actor dto.Actor) (any, error)

// RealtimeHandler expone los tópicos en tiempo real como Server-Sent Events.
type RealtimeHandler struct {
	feed      *realtime.Feed
	snapshots map[string]SnapshotFunc
	keepAlive time.Duration
	log       zerolog.Logger
}

// NewRealtimeHandler construye el handler. keepAlive <= 0 usa DefaultKeepAlive.
func NewRealtimeHandler(feed *realtime.Feed, snapshots map[string]SnapshotFunc, keepAlive time.Duration, log zerolog.Logger) *RealtimeHandler {
	if keepAlive <= 0 {
		keepAlive = DefaultKeepAlive
	}
	return &RealtimeHandler{feed: feed, snapshots: snapshots, keepAlive: keepAlive, log: log}
}

// Stream godoc
// @Summary      Suscripción en tiempo real (SSE)
// @Description  Primer evento: snapshot con el estado actual; luego created/updated/deleted.
// @Tags         realtime
// @Security     Bearer
// @Produce      text/event-stream
// @Param        topic  path  string  true  "products | stock | sales | baskets | transfers | invoices | devices"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/realtime/{topic} [get]
func (h *RealtimeHandler) Stream(c *fiber.Ctx) error {
	topic := c.Params("topic")
	snapshot, ok := h.snapshots[topic]
	if !ok || !realtime.ValidTopic(topic) {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "UNKNOWN_TOPIC", Message: "tópico desconocido: " + topic})
	}
	actor := ActorFrom(c)

	// El stream sobrevive al handler; no se usa el contexto de fasthttp.
	ctx, cancel := context.WithCancel(context.Background())
	events, err := h.feed.Watch(ctx, realtime.ScopeFor(actor.CompanyID, topic), topic, func(ctx context.Context) (any, error) {
		return snapshot(ctx, actor)
	})
	if err != nil {
		cancel()
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	log := h.log.With().Str("topic", topic).Str("company_id", actor.CompanyID).Logger()
	keepAlive := h.keepAlive
	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		ticker := time.NewTicker(keepAlive)
		defer ticker.Stop()
		log.Debug().Msg("realtime: cliente suscrito")
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return
				}
				if err := writeEvent(w, ev); err != nil {
					log.Debug().Err(err).Msg("realtime: cliente desconectado")
					return
				}
			case <-ticker.C:
				if _, err := w.WriteString(": keepalive\n\n"); err != nil {
					return
				}
				if err := w.Flush(); err != nil {
					log.Debug().Err(err).Msg("realtime: cliente desconectado")
					return
				}
			}
		}
	}))
	return nil
}

// writeEvent serializa ev en formato SSE y vacía el buffer.
func writeEvent(w *bufio.Writer, ev realtime.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	if ev.ID != "" {
		if _, err := fmt.Fprintf(w, "id: %s\n", ev.ID); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.Type, data); err != nil {
		return err
	}
	return w.Flush()
}
