package repository

import (
	"context"
	"errors"

	"github.com/user/page-sentinel/internal/entity"
)

var ErrSnapshotNotFound = errors.New("no context menu snapshot stored")

// SnapshotRepository is the side channel the host reads context-menu snapshots from.
type SnapshotRepository interface {
	// Save overwrites the snapshot stored for the snapshot's page.
	Save(ctx context.Context, snapshot *entity.ContextMenuSnapshot) error
	// Latest returns the snapshot stored for a page URL, or ErrSnapshotNotFound.
	Latest(ctx context.Context, pageURL string) (*entity.ContextMenuSnapshot, error)
}
