package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// NtfyConfig holds ntfy push notification settings.
type NtfyConfig struct {
	Enabled  bool
	Server   string // ntfy server URL (default: https://ntfy.sh)
	Topic    string // Topic name (required if enabled)
	Priority string // Message priority: min, low, default, high, urgent
	Token    string // Optional access token for private topics
}

// Validate checks configuration is valid when enabled.
func (c *NtfyConfig) Validate() error {
	if !c.Enabled {
		return nil
	}

	if c.Topic == "" {
		return fmt.Errorf("ntfy topic is required when ntfy notification is enabled")
	}

	validPriorities := map[string]bool{
		"": true, "min": true, "low": true, "default": true, "high": true, "urgent": true,
	}
	if !validPriorities[c.Priority] {
		return fmt.Errorf("invalid ntfy priority: %s (valid: min, low, default, high, urgent)", c.Priority)
	}

	return nil
}

// NtfyClient pushes a plain-text scan summary to an ntfy topic.
type NtfyClient struct {
	httpClient *http.Client
	config     *NtfyConfig
	logger     *zap.Logger
}

func NewNtfyClient(cfg *NtfyConfig, logger *zap.Logger) *NtfyClient {
	return &NtfyClient{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		config: cfg,
		logger: logger,
	}
}

// Send pushes the report summary.
func (c *NtfyClient) Send(ctx context.Context, report *Report) error {
	url := fmt.Sprintf("%s/%s", strings.TrimSuffix(c.config.Server, "/"), c.config.Topic)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(report.Summary()))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Title", report.Subject())
	if c.config.Priority != "" {
		req.Header.Set("Priority", c.config.Priority)
	}
	tags := "chart_with_upwards_trend"
	if len(report.Signals) == 0 {
		tags = "zzz"
	}
	req.Header.Set("Tags", tags)

	if c.config.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.config.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("failed to send notification", zap.Error(err))
		return fmt.Errorf("sending notification: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Drain response body to allow connection reuse
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("notification failed",
			zap.Int("status", resp.StatusCode),
			zap.String("url", url),
		)
		return fmt.Errorf("notification failed with status: %d", resp.StatusCode)
	}

	c.logger.Debug("notification sent", zap.String("title", report.Subject()))
	return nil
}
