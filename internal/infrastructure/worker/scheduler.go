// Package worker ejecuta tareas periódicas (sincronización de facturas vencidas y
// reorden automático) con un ticker por tarea.
package worker

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Nombres de las tareas registradas por la API.
const (
	JobInvoiceSync = "invoice-sync"
	JobAutoReorder = "auto-reorder"
)

// ErrUnknownJob la tarea pedida no está registrada.
var ErrUnknownJob = errors.New("worker: tarea desconocida")

// Job tarea periódica. Run recibe un contexto con el timeout de la tarea.
type Job struct {
	Name     string
	Interval time.Duration
	Timeout  time.Duration // 0 = el intervalo
	Run      func(ctx context.Context) error
}

// Scheduler corre cada tarea en su propia goroutine hasta que se cancele el contexto.
type Scheduler struct {
	log  zerolog.Logger
	mu   sync.Mutex
	jobs map[string]Job
	wg   sync.WaitGroup
}

// NewScheduler construye un scheduler sin tareas.
func NewScheduler(log zerolog.Logger) *Scheduler {
	return &Scheduler{log: log, jobs: map[string]Job{}}
}

// Register agrega una tarea. Intervalo <= 0 la deja disponible solo para RunOnce.
func (s *Scheduler) Register(job Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.Name] = job
}

// Jobs nombres de las tareas registradas, ordenados.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.jobs))
	for name := range s.jobs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Start lanza las tareas con intervalo. Retorna de inmediato; Wait espera a que terminen.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, job := range s.jobs {
		if job.Interval <= 0 {
			continue
		}
		s.wg.Add(1)
		go s.loop(ctx, job)
	}
}

// Wait bloquea hasta que todas las tareas se detengan (contexto cancelado).
func (s *Scheduler) Wait() {
	s.wg.Wait()
}

// RunOnce ejecuta una tarea por nombre (usado por el CLI).
func (s *Scheduler) RunOnce(ctx context.Context, name string) error {
	s.mu.Lock()
	job, ok := s.jobs[name]
	s.mu.Unlock()
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownJob, name)
	}
	return s.execute(ctx, job)
}

func (s *Scheduler) loop(ctx context.Context, job Job) {
	defer s.wg.Done()
	ticker := time.NewTicker(job.Interval)
	defer ticker.Stop()
	s.log.Info().Str("job", job.Name).Dur("interval", job.Interval).Msg("worker: tarea iniciada")
	for {
		select {
		case <-ctx.Done():
			s.log.Info().Str("job", job.Name).Msg("worker: tarea detenida")
			return
		case <-ticker.C:
			_ = s.execute(ctx, job)
		}
	}
}

// execute corre la tarea con su timeout; un panic se recupera y se devuelve como error.
func (s *Scheduler) execute(ctx context.Context, job Job) (err error) {
	timeout := job.Timeout
	if timeout <= 0 {
		timeout = job.Interval
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("worker: panic en %s: %v", job.Name, r)
		}
		if err != nil {
			s.log.Error().Err(err).Str("job", job.Name).Msg("worker: ejecución fallida")
			return
		}
		s.log.Debug().Str("job", job.Name).Dur("took", time.Since(start)).Msg("worker: ejecución completada")
	}()
	return job.Run(ctx)
}
