package service

//go:generate mockgen -source=facilities.go -destination=facilities_mock_test.go -package=service

import (
	"context"

	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/process"
)

type Monitor interface {
	HandleProcessEvent(ctx context.Context, r process.Report) (health.HAState, error)
}
