package remote

import (
	"go.uber.org/zap"
)

// Operation names a remote call.
type Operation string

const (
	OpEmailTaken       Operation = "email_taken"
	OpPasswordStrength Operation = "password_strength"
	OpSignup           Operation = "signup"
)

// CallEvent records metadata about a single remote call.
type CallEvent struct {
	Op        Operation
	RequestID string
	Attempts  int
	LatencyMs int64
	Success   bool
	ErrorCode string
}

// Observer receives events about remote calls for logging and metrics.
type Observer interface {
	OnCallComplete(event CallEvent)
}

// LogObserver writes call events to a zap logger.
type LogObserver struct {
	log *zap.Logger
}

// NewLogObserver creates an Observer that logs events to log.
func NewLogObserver(log *zap.Logger) *LogObserver {
	return &LogObserver{log: log.Named("remote")}
}

func (o *LogObserver) OnCallComplete(event CallEvent) {
	fields := []zap.Field{
		zap.String("op", string(event.Op)),
		zap.String("request_id", event.RequestID),
		zap.Int("attempts", event.Attempts),
		zap.Int64("latency_ms", event.LatencyMs),
	}
	if event.Success {
		o.log.Info("remote call", fields...)
		return
	}
	o.log.Warn("remote call failed", append(fields, zap.String("error_code", event.ErrorCode))...)
}

// NoopObserver discards all events. Useful for tests.
type NoopObserver struct{}

func (NoopObserver) OnCallComplete(CallEvent) {}
