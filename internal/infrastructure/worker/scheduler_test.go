package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/pos-api/internal/application/dto"
)

func TestScheduler_RunsOnTickerUntilCancelled(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	var runs atomic.Int32
	s.Register(Job{Name: "tick", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
		runs.Add(1)
		return nil
	}})

	ctx, cancel := context.WithCancel(context.Background())
	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
	cancel()

	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("el scheduler no se detuvo al cancelar el contexto")
	}
}

func TestScheduler_RecoversPanicAndKeepsRunning(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	var runs atomic.Int32
	s.Register(Job{Name: "panics", Interval: 10 * time.Millisecond, Run: func(context.Context) error {
		runs.Add(1)
		panic("boom")
	}})

	err := s.RunOnce(context.Background(), "panics")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 3 }, time.Second, 5*time.Millisecond)
}

func TestScheduler_RunOnceAppliesTimeout(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	s.Register(Job{Name: "slow", Timeout: 20 * time.Millisecond, Run: func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	}})

	err := s.RunOnce(context.Background(), "slow")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	err = s.RunOnce(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUnknownJob)
	assert.Equal(t, []string{"slow"}, s.Jobs())
}

type fakeInvoices struct {
	n   int64
	err error
}

func (f fakeInvoices) MarkOverdue(context.Context) (int64, error) { return f.n, f.err }

type fakeReorder struct{ calls int }

func (f *fakeReorder) RunAutoReorder(context.Context) ([]dto.AutoReorderResult, error) {
	f.calls++
	return []dto.AutoReorderResult{{CompanyID: "c1", OrdersCreated: []string{"OC-1"}}}, nil
}

func TestJobs(t *testing.T) {
	s := NewScheduler(zerolog.Nop())
	reorder := &fakeReorder{}
	s.Register(InvoiceSyncJob(fakeInvoices{err: errors.New("db caída")}, 30*time.Second, zerolog.Nop()))
	s.Register(AutoReorderJob(reorder, time.Minute, zerolog.Nop()))

	assert.Equal(t, []string{JobAutoReorder, JobInvoiceSync}, s.Jobs())
	assert.EqualError(t, s.RunOnce(context.Background(), JobInvoiceSync), "db caída")
	require.NoError(t, s.RunOnce(context.Background(), JobAutoReorder))
	assert.Equal(t, 1, reorder.calls)
}
