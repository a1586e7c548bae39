package handler

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=handler

import (
	"context"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
)

type Monitor interface {
	Health(id fid.Fid) (health.Status, bool)
	States() []health.HAState
	SetHealth(ctx context.Context, states ...health.HAState) error
}
