package repository

import (
	"context"

	"github.com/user/page-sentinel/internal/entity"
)

// HostRepository defines the outbound half of the message channel to the host process.
type HostRepository interface {
	// Send delivers a request and waits for the host's reply. A reply with
	// success=false is returned as an error.
	Send(ctx context.Context, req entity.HostRequest) (*entity.HostResponse, error)
}
