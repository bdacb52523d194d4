package hardware

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/domain"
)

type fakeRenderer struct {
	err error
}

func (f fakeRenderer) RenderReceipt(_ context.Context, r Receipt) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []byte("%PDF-" + r.Number), nil
}

func newTestManager(t *testing.T, opts Options) *Manager {
	t.Helper()
	if opts.SpoolDir == "" {
		opts.SpoolDir = t.TempDir()
	}
	if opts.Renderer == nil {
		opts.Renderer = fakeRenderer{}
	}
	opts.Log = zerolog.Nop()
	m := NewManager(opts)
	for _, d := range Devices {
		require.NoError(t, m.Connect(context.Background(), d))
	}
	return m
}

func TestManager_ConnectDisconnect(t *testing.T) {
	m := NewManager(Options{Log: zerolog.Nop()})
	assert.Equal(t, StatusDisconnected, m.Status(Printer))

	var mu sync.Mutex
	var seen []DeviceState
	m.OnStatusChange(func(st DeviceState) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, st)
	})

	require.NoError(t, m.Connect(context.Background(), Printer))
	assert.Equal(t, StatusReady, m.Status(Printer))
	require.NoError(t, m.Disconnect(Printer))
	assert.Equal(t, StatusDisconnected, m.Status(Printer))

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 2)
	assert.Equal(t, StatusReady, seen[0].Status)
	assert.Equal(t, StatusDisconnected, seen[1].Status)

	assert.ErrorIs(t, m.Connect(context.Background(), Device("fax")), domain.ErrDeviceUnavailable)
	assert.Len(t, m.Statuses(), len(Devices))
}

func feed(m *Manager, s string, start time.Time, step time.Duration) (ScanEvent, bool) {
	at := start
	var ev ScanEvent
	var ok bool
	for _, r := range s {
		ev, ok = m.FeedKey(r, at)
		at = at.Add(step)
	}
	return ev, ok
}

func TestManager_FeedKey(t *testing.T) {
	m := newTestManager(t, Options{})
	var scans []string
	m.OnScan(func(ev ScanEvent) { scans = append(scans, ev.Code) })
	t0 := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	ev, ok := feed(m, "7702001\n", t0, 5*time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "7702001", ev.Code)

	_, ok = feed(m, "ab\n", t0.Add(time.Second), 5*time.Millisecond)
	assert.False(t, ok, "lecturas cortas se ignoran")

	_, ok = feed(m, "12345\n", t0.Add(2*time.Second), 200*time.Millisecond)
	assert.False(t, ok, "tecleo humano (pausas largas) se descarta")

	// Una pausa larga reinicia el buffer y la lectura rápida posterior sí se acepta.
	m.FeedKey('9', t0.Add(3*time.Second))
	ev, ok = feed(m, "1234\r", t0.Add(4*time.Second), time.Millisecond)
	require.True(t, ok)
	assert.Equal(t, "1234", ev.Code)

	assert.Equal(t, []string{"7702001", "1234"}, scans)

	require.NoError(t, m.Disconnect(Scanner))
	_, ok = feed(m, "7702001\n", t0.Add(5*time.Second), time.Millisecond)
	assert.False(t, ok, "scanner desconectado ignora teclas")
}

func TestManager_ScanLines(t *testing.T) {
	m := newTestManager(t, Options{})
	var scans []string
	m.OnScan(func(ev ScanEvent) { scans = append(scans, ev.Code) })

	err := m.ScanLines(context.Background(), strings.NewReader("7702001\nx\n  SKU-001  \n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"7702001", "SKU-001"}, scans)
}

func TestManager_PrintReceipt(t *testing.T) {
	dir := t.TempDir()
	m := newTestManager(t, Options{SpoolDir: filepath.Join(dir, "spool"), Latency: time.Millisecond})

	path, err := m.PrintReceipt(context.Background(), Receipt{Number: "V-20260301-0001"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "spool", "receipt-V-20260301-0001.pdf"), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-V-20260301-0001", string(data))
	assert.Equal(t, StatusReady, m.Status(Printer))
}

func TestManager_PrintReceiptFailureSetsError(t *testing.T) {
	m := newTestManager(t, Options{Renderer: fakeRenderer{err: errors.New("sin papel")}})

	_, err := m.PrintReceipt(context.Background(), Receipt{Number: "1"})
	require.Error(t, err)
	assert.Equal(t, StatusError, m.Status(Printer))
	assert.Contains(t, m.Statuses()[Printer].LastError, "sin papel")

	_, err = m.PrintReceipt(context.Background(), Receipt{Number: "2"})
	assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
}

func TestManager_LatencyHonoursCancel(t *testing.T) {
	m := newTestManager(t, Options{})
	m.opts.Latency = time.Hour

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	err := m.OpenCashDrawer(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, StatusReady, m.Status(CashDrawer))
	assert.Equal(t, 0, m.DrawerOpenings())
}

func TestManager_OpenCashDrawer(t *testing.T) {
	m := newTestManager(t, Options{})
	require.NoError(t, m.OpenCashDrawer(context.Background()))
	require.NoError(t, m.OpenCashDrawer(context.Background()))
	assert.Equal(t, 2, m.DrawerOpenings())

	require.NoError(t, m.Disconnect(CashDrawer))
	assert.ErrorIs(t, m.OpenCashDrawer(context.Background()), domain.ErrDeviceUnavailable)
}

func TestManager_AuthorizeCard(t *testing.T) {
	m := newTestManager(t, Options{DeclineOver: decimal.NewFromInt(1000)})

	auth, err := m.AuthorizeCard(context.Background(), decimal.NewFromInt(900))
	require.NoError(t, err)
	assert.Len(t, auth.AuthCode, 6)
	assert.Len(t, auth.Last4, 4)
	assert.True(t, auth.Amount.Equal(decimal.NewFromInt(900)))

	_, err = m.AuthorizeCard(context.Background(), decimal.NewFromInt(1001))
	assert.ErrorIs(t, err, domain.ErrPaymentDeclined)
	assert.Equal(t, StatusReady, m.Status(CardReader))

	_, err = m.AuthorizeCard(context.Background(), decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// concurrentRenderer mide cuántas impresiones se ejecutan a la vez.
type concurrentRenderer struct {
	inFlight atomic.Int32
	max      atomic.Int32
}

func (c *concurrentRenderer) RenderReceipt(_ context.Context, r Receipt) ([]byte, error) {
	n := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		cur := c.max.Load()
		if n <= cur || c.max.CompareAndSwap(cur, n) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return []byte("%PDF-" + r.Number), nil
}

func TestManager_UsoExclusivoDelDispositivo(t *testing.T) {
	renderer := &concurrentRenderer{}
	m := newTestManager(t, Options{Renderer: renderer})

	var wg sync.WaitGroup
	var printed atomic.Int32
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 50; i++ {
				_, err := m.PrintReceipt(context.Background(), Receipt{Number: "R-1"})
				if err == nil {
					printed.Add(1)
					continue
				}
				assert.ErrorIs(t, err, domain.ErrDeviceUnavailable)
			}
		}()
	}
	wg.Wait()

	assert.Positive(t, printed.Load())
	assert.LessOrEqual(t, renderer.max.Load(), int32(1))
	assert.Equal(t, StatusReady, m.Status(Printer))
}

func TestManager_VoidCard(t *testing.T) {
	m := newTestManager(t, Options{})

	auth, err := m.AuthorizeCard(context.Background(), decimal.NewFromInt(50000))
	require.NoError(t, err)
	require.NoError(t, m.VoidCard(context.Background(), auth))
	assert.Equal(t, 1, m.VoidedAuthorizations())
	assert.Equal(t, StatusReady, m.Status(CardReader))

	assert.ErrorIs(t, m.VoidCard(context.Background(), CardAuthorization{}), domain.ErrInvalidInput)

	require.NoError(t, m.Disconnect(CardReader))
	assert.ErrorIs(t, m.VoidCard(context.Background(), auth), domain.ErrDeviceUnavailable)
}

func TestParseDevice(t *testing.T) {
	d, ok := ParseDevice("cash-drawer")
	assert.True(t, ok)
	assert.Equal(t, CashDrawer, d)
	_, ok = ParseDevice("fax")
	assert.False(t, ok)
}
