package repository

import (
	"context"
	"errors"

	"github.com/user/page-sentinel/internal/entity"
)

var (
	ErrPageLoadTimeout  = errors.New("page load timed out")
	ErrNavigationFailed = errors.New("navigation failed")
)

// PageLoader defines the contract for obtaining the DOM of the page the agent attaches to.
type PageLoader interface {
	// Load fetches the page and returns its serialized DOM.
	Load(ctx context.Context, url string) (*entity.RawPage, error)
}
