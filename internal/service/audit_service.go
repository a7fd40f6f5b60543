package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ramit8508/Teacher-managment-system-sub000/internal/config"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// AuditEvent describes one guarded mutation for the audit trail.
type AuditEvent struct {
	ActorID    int       `json:"actor_id"`
	Action     string    `json:"action"`
	Resource   string    `json:"resource"`
	ResourceID int       `json:"resource_id"`
	Detail     string    `json:"detail,omitempty"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditService queues mutation events for asynchronous persistence by the
// audit worker. Recording is best-effort: a full or unreachable queue is
// logged, never allowed to fail the originating request.
type AuditService struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewAuditService creates a new AuditService.
func NewAuditService(rdb *redis.Client, log zerolog.Logger) *AuditService {
	return &AuditService{
		rdb: rdb,
		log: log.With().Str("component", "audit_service").Logger(),
	}
}

// Record pushes one event onto the audit queue.
func (s *AuditService) Record(ctx context.Context, actorID int, action, resource string, resourceID int, detail string) {
	event := AuditEvent{
		ActorID:    actorID,
		Action:     action,
		Resource:   resource,
		ResourceID: resourceID,
		Detail:     detail,
		OccurredAt: time.Now().UTC(),
	}

	raw, err := json.Marshal(event)
	if err != nil {
		s.log.Error().Err(err).Msg("marshal audit event")
		return
	}

	if err := s.rdb.RPush(ctx, config.WorkerKey.AuditEventsQueue, raw).Err(); err != nil {
		s.log.Warn().Err(err).Str("action", action).Msg("audit event dropped")
	}
}
