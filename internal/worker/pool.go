package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fadesignlk/stock-master-api/internal/service"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const QueueEmail = "jobs:email"

// Job types routed by the worker pool.
const (
	JobReceipt       = "receipt"
	JobPasswordReset = "password_reset"
	JobLowStock      = "low_stock"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// ReceiptPayload asks the email worker to render and mail a sale receipt.
type ReceiptPayload struct {
	SaleID  string `json:"sale_id"`
	ToEmail string `json:"to_email"`
}

// PasswordResetPayload carries the reset mail parameters.
type PasswordResetPayload struct {
	ToEmail string `json:"to_email"`
	Token   string `json:"token"`
}

// LowStockPayload lists the products that crossed the alert threshold.
type LowStockPayload struct {
	Lines []string `json:"lines"`
}

// Dispatcher enqueues async jobs into a Redis list the worker pool dequeues
// via BRPOP. It implements the notification contracts the services depend on;
// enqueue failures are logged and swallowed so a Redis hiccup never fails the
// business operation that triggered the notification.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher { return &Dispatcher{rdb: rdb} }

func (d *Dispatcher) NotifyReceipt(saleID uuid.UUID, email string) {
	d.enqueue(JobReceipt, ReceiptPayload{SaleID: saleID.String(), ToEmail: email})
}

func (d *Dispatcher) NotifyLowStock(lines []service.LowStockLine) {
	payload := LowStockPayload{Lines: make([]string, len(lines))}
	for i, l := range lines {
		payload.Lines[i] = l.String()
	}
	d.enqueue(JobLowStock, payload)
}

func (d *Dispatcher) NotifyPasswordReset(email, token string) {
	d.enqueue(JobPasswordReset, PasswordResetPayload{ToEmail: email, Token: token})
}

func (d *Dispatcher) enqueue(jobType string, payload interface{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	data, err := json.Marshal(payload)
	if err != nil {
		log.Error().Err(err).Str("type", jobType).Msg("dispatcher: marshal payload")
		return
	}
	encoded, err := json.Marshal(Job{Type: jobType, Payload: data})
	if err != nil {
		log.Error().Err(err).Str("type", jobType).Msg("dispatcher: marshal job")
		return
	}
	if err := d.rdb.LPush(ctx, QueueEmail, encoded).Err(); err != nil {
		log.Error().Err(err).Str("type", jobType).Msg("dispatcher: enqueue failed")
	}
}

// StartWorkerPool launches numWorkers goroutines consuming the email queue.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartWorkerPool(ctx context.Context, rdb *redis.Client, numWorkers int, ew *EmailWorker) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, i, ew)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, id int, ew *EmailWorker) {
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, QueueEmail).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, result[1], ew)
		}
	}
}

func processJob(ctx context.Context, raw string, ew *EmailWorker) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Err(err).Msg("worker: failed to unmarshal job")
		return
	}

	switch job.Type {
	case JobReceipt:
		ew.ProcessReceipt(ctx, job.Payload)
	case JobPasswordReset:
		ew.ProcessPasswordReset(ctx, job.Payload)
	case JobLowStock:
		ew.ProcessLowStock(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Msg("worker: unknown job type")
	}
}
