package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	AuditBatchSize    = 50
	AuditBatchTimeout = 2 * time.Second
	AuditPollTimeout  = 1 * time.Second
)

// AuditWorker drains the audit queue and persists events into audit_log.
// Services push events fire-and-forget; durability happens here, off the
// request path.
type AuditWorker struct {
	pool *pgxpool.Pool
	rdb  *redis.Client
	log  zerolog.Logger
}

func NewAuditWorker(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *AuditWorker {
	return &AuditWorker{
		pool: pool,
		rdb:  rdb,
		log:  log.With().Str("component", "audit_worker").Logger(),
	}
}

type auditPayload struct {
	ActorID    int       `json:"actor_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID int       `json:"resource_id"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// ----------------------------------------------------------------
// Worker loop with batching
// ----------------------------------------------------------------

func (w *AuditWorker) Start(ctx context.Context) {
	w.log.Info().Msg("AuditWorker started")

	batch := make([]*auditPayload, 0, AuditBatchSize)
	lastFlush := time.Now()

	for {
		// Should flush?
		if len(batch) > 0 &&
			(len(batch) >= AuditBatchSize || time.Since(lastFlush) >= AuditBatchTimeout) {

			w.flushSafe(ctx, batch)
			batch = batch[:0]
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing remaining batch...")
			w.flushSafe(context.Background(), batch)
			return

		default:
			item, err := w.rdb.BLPop(ctx, AuditPollTimeout, config.WorkerKey.AuditEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}

			if len(item) < 2 {
				continue
			}

			var p auditPayload
			if err := json.Unmarshal([]byte(item[1]), &p); err != nil {
				w.log.Error().Err(err).Msg("Invalid JSON payload")
				continue
			}

			batch = append(batch, &p)
		}
	}
}

// ----------------------------------------------------------------
// Batch insert wrapper
// ----------------------------------------------------------------

func (w *AuditWorker) flushSafe(ctx context.Context, batch []*auditPayload) {
	if len(batch) == 0 {
		return
	}

	if err := w.bulkInsert(ctx, batch); err != nil {
		w.log.Warn().Err(err).Msg("bulk audit insert failed, using fallback")

		for _, p := range batch {
			if err := w.persistSingle(ctx, p); err != nil {
				w.log.Error().Err(err).Msg("persistSingle failed — requeueing")
				raw, _ := json.Marshal(p)
				w.rdb.RPush(ctx, config.WorkerKey.AuditEventsQueue, raw)
			}
		}
	}
}

// ----------------------------------------------------------------
// BULK PostgreSQL INSERT using UNNEST
// ----------------------------------------------------------------

func (w *AuditWorker) bulkInsert(ctx context.Context, batch []*auditPayload) error {
	n := len(batch)

	actors := make([]int, 0, n)
	actions := make([]string, 0, n)
	resources := make([]string, 0, n)
	resourceIDs := make([]int, 0, n)
	details := make([]string, 0, n)
	occurredAts := make([]time.Time, 0, n)

	for _, p := range batch {
		actors = append(actors, p.ActorID)
		actions = append(actions, p.Action)
		resources = append(resources, p.Resource)
		resourceIDs = append(resourceIDs, p.ResourceID)
		details = append(details, p.Detail)
		occurredAts = append(occurredAts, p.OccurredAt)
	}

	query := `
		INSERT INTO audit_log (actor_id, action, resource, resource_id, detail, created_at)
		SELECT u.actor_id, u.action, u.resource, u.resource_id, u.detail, u.created_at
		FROM UNNEST(
			$1::int[],
			$2::text[],
			$3::text[],
			$4::int[],
			$5::text[],
			$6::timestamptz[]
		) AS u (actor_id, action, resource, resource_id, detail, created_at)
	`

	_, err := w.pool.Exec(ctx, query, actors, actions, resources, resourceIDs, details, occurredAts)
	return err
}

// ----------------------------------------------------------------
// FALLBACK single insert
// ----------------------------------------------------------------

func (w *AuditWorker) persistSingle(ctx context.Context, p *auditPayload) error {
	_, err := w.pool.Exec(ctx,
		`INSERT INTO audit_log (actor_id, action, resource, resource_id, detail, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		p.ActorID, p.Action, p.Resource, p.ResourceID, p.Detail, p.OccurredAt,
	)

	return err
}
