package events

import (
	"go.uber.org/zap"
)

// LoggingHandler writes every event it receives to a zap logger
type LoggingHandler struct {
	logger *zap.Logger
	types  map[string]bool
}

func NewLoggingHandler(logger *zap.Logger, eventTypes ...string) *LoggingHandler {
	h := &LoggingHandler{logger: logger, types: make(map[string]bool, len(eventTypes))}
	for _, t := range eventTypes {
		h.types[t] = true
	}
	return h
}

func (h *LoggingHandler) CanHandle(eventType string) bool {
	return len(h.types) == 0 || h.types[eventType]
}

func (h *LoggingHandler) Handle(event Event) error {
	h.logger.Info("domain event",
		zap.String("event_type", event.Type()),
		zap.String("stream_id", event.StreamID()),
		zap.Int("version", event.Version()),
		zap.Any("data", event.Data()))
	return nil
}
