package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/raulbarbur/abysstracker-system-sub000/internal/metrics"
)

const (
	QueueLiquidacion = "jobs:liquidacion"
	QueueEmail       = "jobs:email"

	// MaxIntentos is how many times a job runs before it goes to the DLQ.
	MaxIntentos = 3
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type     string          `json:"type"`
	Payload  json.RawMessage `json:"payload"`
	Intentos int             `json:"intentos,omitempty"`
}

// Procesador handles the payload of one job type.
type Procesador interface {
	Process(ctx context.Context, raw json.RawMessage) error
}

// ── Dispatcher ───────────────────────────────────────────────────────────────

// Dispatcher enqueues async jobs. The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	cola Cola
}

func NewDispatcher(cola Cola) *Dispatcher {
	return &Dispatcher{cola: cola}
}

// LiquidacionJobPayload is the job envelope sent to QueueLiquidacion.
type LiquidacionJobPayload struct {
	LiquidacionID string `json:"liquidacion_id"`
}

// EncolarLiquidacion schedules receipt generation for a committed settlement.
func (d *Dispatcher) EncolarLiquidacion(ctx context.Context, id uuid.UUID) error {
	return d.enqueue(ctx, QueueLiquidacion, "liquidacion", LiquidacionJobPayload{LiquidacionID: id.String()})
}

// EncolarEmail pushes an email job.
func (d *Dispatcher) EncolarEmail(ctx context.Context, payload EmailJobPayload) error {
	return d.enqueue(ctx, QueueEmail, "email", payload)
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		return err
	}
	return d.cola.Push(ctx, queue, encoded)
}

// ── Pool ─────────────────────────────────────────────────────────────────────

// Pool consumes the job queues with a fixed number of goroutines.
type Pool struct {
	cola         Cola
	procesadores map[string]Procesador
	jobs         *metrics.Jobs
	popTimeout   time.Duration
	wg           sync.WaitGroup
}

// NewPool maps each queue to its processor. jobs may be nil.
func NewPool(cola Cola, procesadores map[string]Procesador, jobs *metrics.Jobs) *Pool {
	return &Pool{cola: cola, procesadores: procesadores, jobs: jobs, popTimeout: 5 * time.Second}
}

// Start launches numWorkers goroutines. Each one blocks on BRPOP, so idle
// workers cost nothing.
func (p *Pool) Start(ctx context.Context, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		p.wg.Add(1)
		go p.runWorker(ctx, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

// Wait blocks until every worker has returned after ctx was cancelled.
func (p *Pool) Wait() { p.wg.Wait() }

func (p *Pool) colas() []string {
	queues := make([]string, 0, len(p.procesadores))
	for q := range p.procesadores {
		queues = append(queues, q)
	}
	return queues
}

func (p *Pool) runWorker(ctx context.Context, id int) {
	defer p.wg.Done()
	queues := p.colas()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
		}
		queue, raw, ok, err := p.cola.Pop(ctx, p.popTimeout, queues...)
		if err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Int("worker", id).Msg("worker: pop failed")
				time.Sleep(time.Second)
			}
			continue
		}
		if !ok {
			continue
		}
		p.procesar(ctx, queue, raw)
	}
}

// procesar runs one job. A failed job is re-enqueued until MaxIntentos,
// then moved to the DLQ.
func (p *Pool) procesar(ctx context.Context, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		p.aDLQ(ctx, queue, Job{Type: "desconocido", Payload: json.RawMessage(`null`)}, "payload ilegible: "+err.Error())
		return
	}
	proc, ok := p.procesadores[queue]
	if !ok {
		log.Error().Str("queue", queue).Msg("no processor for queue")
		return
	}

	err := ejecutar(ctx, proc, job.Payload)
	p.jobs.Procesado(job.Type, err)
	if err == nil {
		log.Info().Str("type", job.Type).Str("queue", queue).Msg("job processed")
		return
	}

	job.Intentos++
	if job.Intentos >= MaxIntentos {
		p.aDLQ(ctx, queue, job, err.Error())
		return
	}
	log.Warn().Err(err).Str("type", job.Type).Int("intentos", job.Intentos).Msg("job failed, re-enqueued")
	encoded, mErr := json.Marshal(job)
	if mErr != nil {
		p.aDLQ(ctx, queue, job, mErr.Error())
		return
	}
	if pErr := p.cola.Push(ctx, queue, encoded); pErr != nil {
		log.Error().Err(pErr).Str("queue", queue).Msg("re-enqueue failed")
	}
}

func (p *Pool) aDLQ(ctx context.Context, queue string, job Job, reason string) {
	if err := SendToDLQ(ctx, p.cola, queue, job, reason); err == nil {
		p.jobs.EnviadoADLQ(queue)
	}
}

// ejecutar turns a processor panic into an error so one bad job cannot
// take the worker down.
func ejecutar(ctx context.Context, proc Procesador, payload json.RawMessage) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return proc.Process(ctx, payload)
}
