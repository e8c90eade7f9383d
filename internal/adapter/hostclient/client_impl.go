package hostclient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/user/page-sentinel/internal/entity"
)

// ErrHostRejected is returned when the host answers with success=false or a non-2xx status.
var ErrHostRejected = errors.New("host rejected request")

// Client sends outbound requests to the host process over HTTP.
// There is no retry: a failed request is reported once and the user re-triggers it.
type Client struct {
	http    *resty.Client
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a host client. A zero timeout leaves calls bounded only by ctx.
func New(baseURL string, timeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetHeader("Content-Type", "application/json").
			SetRetryCount(0),
		timeout: timeout,
		logger:  logger,
	}
}

// Send posts req to {baseURL}/message and decodes the {success, ...} reply.
func (c *Client) Send(ctx context.Context, req entity.HostRequest) (*entity.HostResponse, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	var result, failure entity.HostResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&failure).
		Post("/message")
	if err != nil {
		return nil, fmt.Errorf("failed to send %s to host: %w", req.Action, err)
	}

	if resp.IsError() {
		c.logger.Warn("host returned error status",
			zap.String("action", req.Action),
			zap.Int("status", resp.StatusCode()),
			zap.String("error", failure.Error),
		)
		return &failure, fmt.Errorf("%w: %s returned status %d", ErrHostRejected, req.Action, resp.StatusCode())
	}
	if !result.Success {
		reason := result.Error
		if reason == "" {
			reason = "success=false"
		}
		return &result, fmt.Errorf("%w: %s: %s", ErrHostRejected, req.Action, reason)
	}
	return &result, nil
}
