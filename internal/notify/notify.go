// Package notify delivers completed scan reports. Backends implement the
// Notifier interface; delivery failures are reported to the caller but are
// never fatal to a scan.
package notify

import (
	"context"

	"go.uber.org/zap"
)

// Notifier is the interface for delivering scan reports.
type Notifier interface {
	Send(ctx context.Context, report *Report) error
}

// Config selects and configures the notification backends.
type Config struct {
	Email EmailConfig
	Ntfy  NtfyConfig
}

// NoopNotifier is used when no backend is enabled.
type NoopNotifier struct{}

// Send is a no-op.
func (n *NoopNotifier) Send(_ context.Context, _ *Report) error { return nil }

// MultiNotifier fans a report out to several backends, returning the first
// error after attempting all of them.
type MultiNotifier struct {
	notifiers []Notifier
}

func (m *MultiNotifier) Send(ctx context.Context, report *Report) error {
	var firstErr error
	for _, n := range m.notifiers {
		if err := n.Send(ctx, report); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// New creates the appropriate notifier based on config.
func New(cfg *Config, logger *zap.Logger) Notifier {
	var backends []Notifier
	if cfg.Email.Enabled {
		backends = append(backends, NewEmailNotifier(&cfg.Email, logger))
	}
	if cfg.Ntfy.Enabled {
		backends = append(backends, NewNtfyClient(&cfg.Ntfy, logger))
	}

	switch len(backends) {
	case 0:
		return &NoopNotifier{}
	case 1:
		return backends[0]
	default:
		return &MultiNotifier{notifiers: backends}
	}
}
