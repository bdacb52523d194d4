package hardware

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/pos-api/internal/domain"
)

// Options configuración del Manager.
type Options struct {
	SpoolDir    string          // carpeta de salida de la impresora
	Latency     time.Duration   // demora simulada de cada operación
	ScanGap     time.Duration   // pausa máxima entre teclas de una misma lectura (default 50ms)
	DeclineOver decimal.Decimal // el datáfono rechaza montos mayores (0 = nunca)
	Renderer    ReceiptRenderer
	Log         zerolog.Logger
}

const minScanLength = 3

// Manager mantiene el estado de los periféricos y serializa su uso.
type Manager struct {
	opts Options
	now  func() time.Time

	mu             sync.Mutex
	states         map[Device]DeviceState
	statusHandlers []func(DeviceState)
	scanHandlers   []func(ScanEvent)
	buf            []rune
	lastKey        time.Time
	drawerOpenings int
	voidedAuths    int
}

// NewManager construye el Manager con todos los dispositivos desconectados.
func NewManager(opts Options) *Manager {
	if opts.ScanGap <= 0 {
		opts.ScanGap = 50 * time.Millisecond
	}
	m := &Manager{opts: opts, now: time.Now, states: map[Device]DeviceState{}}
	for _, d := range Devices {
		m.states[d] = DeviceState{Device: d, Status: StatusDisconnected, UpdatedAt: m.now()}
	}
	return m
}

// OnStatusChange registra un callback invocado en cada cambio de estado.
func (m *Manager) OnStatusChange(fn func(DeviceState)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.statusHandlers = append(m.statusHandlers, fn)
}

// OnScan registra un callback invocado en cada lectura de código de barras.
func (m *Manager) OnScan(fn func(ScanEvent)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scanHandlers = append(m.scanHandlers, fn)
}

// Status estado actual de un dispositivo (disconnected si no existe).
func (m *Manager) Status(d Device) Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.states[d]
	if !ok {
		return StatusDisconnected
	}
	return st.Status
}

// Statuses copia del estado de todos los dispositivos.
func (m *Manager) Statuses() map[Device]DeviceState {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[Device]DeviceState, len(m.states))
	for d, st := range m.states {
		out[d] = st
	}
	return out
}

// DrawerOpenings veces que se ha abierto el cajón.
func (m *Manager) DrawerOpenings() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.drawerOpenings
}

// Connect realiza el handshake simulado y deja el dispositivo listo.
func (m *Manager) Connect(ctx context.Context, d Device) error {
	if !known(d) {
		return fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, d)
	}
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.setStatus(d, StatusReady, "")
	m.opts.Log.Info().Str("device", string(d)).Msg("hardware: dispositivo conectado")
	return nil
}

// Disconnect marca el dispositivo como desconectado.
func (m *Manager) Disconnect(d Device) error {
	if !known(d) {
		return fmt.Errorf("%w: %s", domain.ErrDeviceUnavailable, d)
	}
	if d == Scanner {
		m.mu.Lock()
		m.buf = m.buf[:0]
		m.mu.Unlock()
	}
	m.setStatus(d, StatusDisconnected, "")
	return nil
}

// FeedKey recibe una tecla del lector tipo teclado. Enter cierra la lectura; una
// pausa mayor a ScanGap descarta lo acumulado (tecleo humano) y las lecturas de
// menos de 3 caracteres se ignoran. Devuelve el evento cuando la lectura se completa.
func (m *Manager) FeedKey(r rune, at time.Time) (ScanEvent, bool) {
	m.mu.Lock()
	if m.states[Scanner].Status != StatusReady {
		m.mu.Unlock()
		return ScanEvent{}, false
	}
	if len(m.buf) > 0 && at.Sub(m.lastKey) > m.opts.ScanGap {
		m.buf = m.buf[:0]
	}
	if r == '\n' || r == '\r' {
		code := string(m.buf)
		m.buf = m.buf[:0]
		handlers := slices.Clone(m.scanHandlers)
		m.mu.Unlock()
		if len([]rune(code)) < minScanLength {
			return ScanEvent{}, false
		}
		ev := ScanEvent{Code: code, At: at}
		for _, fn := range handlers {
			fn(ev)
		}
		return ev, true
	}
	m.buf = append(m.buf, r)
	m.lastKey = at
	m.mu.Unlock()
	return ScanEvent{}, false
}

// Scan entrega una lectura completa (lectores por puerto serie o cliente HTTP).
func (m *Manager) Scan(code string) (ScanEvent, error) {
	code = strings.TrimSpace(code)
	m.mu.Lock()
	ready := m.states[Scanner].Status == StatusReady
	handlers := slices.Clone(m.scanHandlers)
	m.mu.Unlock()
	if !ready {
		return ScanEvent{}, domain.ErrDeviceUnavailable
	}
	if len([]rune(code)) < minScanLength {
		return ScanEvent{}, domain.ErrInvalidInput
	}
	ev := ScanEvent{Code: code, At: m.now()}
	for _, fn := range handlers {
		fn(ev)
	}
	return ev, nil
}

// PrintReceipt renderiza el recibo y lo deja en la carpeta de impresión como
// receipt-<número>.pdf. Devuelve la ruta del archivo.
func (m *Manager) PrintReceipt(ctx context.Context, r Receipt) (string, error) {
	if m.opts.Renderer == nil {
		return "", fmt.Errorf("%w: impresora sin renderizador", domain.ErrDeviceUnavailable)
	}
	if err := m.acquire(Printer); err != nil {
		return "", err
	}
	if err := m.wait(ctx); err != nil {
		m.setStatus(Printer, StatusReady, "")
		return "", err
	}
	doc, err := m.opts.Renderer.RenderReceipt(ctx, r)
	if err != nil {
		return "", m.fail(Printer, fmt.Errorf("hardware: renderizar recibo: %w", err))
	}
	if err := os.MkdirAll(m.opts.SpoolDir, 0o755); err != nil {
		return "", m.fail(Printer, fmt.Errorf("hardware: carpeta de impresión: %w", err))
	}
	path := filepath.Join(m.opts.SpoolDir, "receipt-"+safeName(r.Number)+".pdf")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		return "", m.fail(Printer, fmt.Errorf("hardware: escribir recibo: %w", err))
	}
	m.setStatus(Printer, StatusReady, "")
	return path, nil
}

// OpenCashDrawer abre el cajón monedero.
func (m *Manager) OpenCashDrawer(ctx context.Context) error {
	if err := m.acquire(CashDrawer); err != nil {
		return err
	}
	if err := m.wait(ctx); err != nil {
		m.setStatus(CashDrawer, StatusReady, "")
		return err
	}
	m.mu.Lock()
	m.drawerOpenings++
	m.mu.Unlock()
	m.setStatus(CashDrawer, StatusReady, "")
	return nil
}

// AuthorizeCard solicita autorización al datáfono por el monto indicado.
func (m *Manager) AuthorizeCard(ctx context.Context, amount decimal.Decimal) (CardAuthorization, error) {
	if !amount.IsPositive() {
		return CardAuthorization{}, domain.ErrInvalidInput
	}
	if err := m.acquire(CardReader); err != nil {
		return CardAuthorization{}, err
	}
	defer m.setStatus(CardReader, StatusReady, "")
	if err := m.wait(ctx); err != nil {
		return CardAuthorization{}, err
	}
	if m.opts.DeclineOver.IsPositive() && amount.GreaterThan(m.opts.DeclineOver) {
		m.opts.Log.Warn().Str("amount", amount.String()).Msg("hardware: tarjeta rechazada")
		return CardAuthorization{}, domain.ErrPaymentDeclined
	}
	id := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", ""))
	return CardAuthorization{
		AuthCode: id[:6],
		Last4:    "4242",
		Amount:   amount,
		At:       m.now(),
	}, nil
}

// VoidCard anula una autorización aprobada que no llegó a cobrarse.
func (m *Manager) VoidCard(ctx context.Context, auth CardAuthorization) error {
	if auth.AuthCode == "" {
		return domain.ErrInvalidInput
	}
	if err := m.acquire(CardReader); err != nil {
		return err
	}
	defer m.setStatus(CardReader, StatusReady, "")
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	m.voidedAuths++
	m.mu.Unlock()
	m.opts.Log.Info().Str("auth_code", auth.AuthCode).Str("amount", auth.Amount.String()).Msg("hardware: autorización anulada")
	return nil
}

// VoidedAuthorizations autorizaciones anuladas desde el arranque.
func (m *Manager) VoidedAuthorizations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.voidedAuths
}

// acquire pasa el dispositivo de ready a busy en una sola sección crítica; solo
// un llamador a la vez obtiene el dispositivo.
func (m *Manager) acquire(d Device) error {
	m.mu.Lock()
	if st := m.states[d]; st.Status != StatusReady {
		m.mu.Unlock()
		return fmt.Errorf("%w: %s está %s", domain.ErrDeviceUnavailable, d, st.Status)
	}
	st, handlers, _ := m.transitionLocked(d, StatusBusy, "")
	m.mu.Unlock()
	notify(handlers, st)
	return nil
}

func (m *Manager) fail(d Device, err error) error {
	m.setStatus(d, StatusError, err.Error())
	m.opts.Log.Error().Err(err).Str("device", string(d)).Msg("hardware: fallo de dispositivo")
	return err
}

// setStatus actualiza el estado y notifica fuera del lock.
func (m *Manager) setStatus(d Device, s Status, lastErr string) {
	m.mu.Lock()
	st, handlers, changed := m.transitionLocked(d, s, lastErr)
	m.mu.Unlock()
	if changed {
		notify(handlers, st)
	}
}

// transitionLocked requiere m.mu tomado.
func (m *Manager) transitionLocked(d Device, s Status, lastErr string) (DeviceState, []func(DeviceState), bool) {
	prev := m.states[d]
	st := DeviceState{Device: d, Status: s, LastError: lastErr, UpdatedAt: m.now()}
	m.states[d] = st
	return st, slices.Clone(m.statusHandlers), prev.Status != s || prev.LastError != lastErr
}

func notify(handlers []func(DeviceState), st DeviceState) {
	for _, fn := range handlers {
		fn(st)
	}
}

// wait simula la latencia del dispositivo respetando la cancelación.
func (m *Manager) wait(ctx context.Context) error {
	if m.opts.Latency <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(m.opts.Latency)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func known(d Device) bool {
	for _, k := range Devices {
		if k == d {
			return true
		}
	}
	return false
}

func safeName(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '/' || r == '\\' || r == ':' || r == ' ' {
			return '_'
		}
		return r
	}, s)
}
