package realtime

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
)

type EventAction string

const (
	ActionCreated        EventAction = "created"
	ActionUpdated        EventAction = "updated"
	ActionStructureSaved EventAction = "structure_saved"
	ActionDeleted        EventAction = "deleted"
)

// WorkflowEvent is the envelope published on workflow changes so editor
// clients and tool registries can refresh.
type WorkflowEvent struct {
	WorkflowID string      `json:"workflowId"`
	Action     EventAction `json:"action"`
	UserID     uint        `json:"userId"`
	At         time.Time   `json:"at"`
}

// Publisher sends workflow change events via NATS.
// Best-effort: if the NATS connection fails (or no URL is configured) it
// degrades to a no-op and never fails the request that triggered the event.
type Publisher struct {
	conn   *nats.Conn
	logger zerolog.Logger
	noop   bool
}

func NewPublisher(natsURL string, logger zerolog.Logger) *Publisher {
	if natsURL == "" {
		return &Publisher{noop: true, logger: logger}
	}

	nc, err := nats.Connect(natsURL)
	if err != nil {
		logger.Warn().Err(err).Str("url", natsURL).Msg("NATS connection failed, workflow events disabled")
		return &Publisher{noop: true, logger: logger}
	}

	logger.Info().Str("url", natsURL).Msg("NATS connected, publishing workflow events")
	return &Publisher{conn: nc, logger: logger}
}

// PublishWorkflow emits workflow.<id>.<action>.
func (slf *Publisher) PublishWorkflow(workflowID string, action EventAction, userID uint) {
	if slf.noop {
		return
	}

	event := WorkflowEvent{
		WorkflowID: workflowID,
		Action:     action,
		UserID:     userID,
		At:         time.Now(),
	}
	data, err := json.Marshal(event)
	if err != nil {
		slf.logger.Error().Err(err).Msg("Failed to marshal workflow event")
		return
	}

	subject := fmt.Sprintf("workflow.%s.%s", workflowID, action)
	if err := slf.conn.Publish(subject, data); err != nil {
		slf.logger.Warn().Err(err).Str("subject", subject).Msg("Failed to publish workflow event")
	}
}

// Close drains the NATS connection.
func (slf *Publisher) Close() {
	if slf.noop || slf.conn == nil {
		return
	}
	if err := slf.conn.Drain(); err != nil {
		slf.logger.Warn().Err(err).Msg("Failed to drain NATS connection")
	}
}
