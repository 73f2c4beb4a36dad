package publish

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"bus-route-service/internal/ports"
)

// LogPublisher writes submitted payloads to the log. It is the default
// hand-off when no broker is configured.
type LogPublisher struct {
	logger *zap.Logger
}

var _ ports.PayloadPublisher = (*LogPublisher)(nil)

func NewLogPublisher(logger *zap.Logger) *LogPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogPublisher{logger: logger.With(zap.String("component", "publisher"))}
}

func (p *LogPublisher) Publish(ctx context.Context, key string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("log publish: marshal payload: %w", err)
	}
	p.logger.Info("line submitted",
		zap.String("key", key),
		zap.ByteString("payload", data),
	)
	return nil
}
