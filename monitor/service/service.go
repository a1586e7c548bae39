// Package service exposes the monitor over gRPC.
package service

import (
	"context"
	"errors"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/halink"
	"github.com/maxpoletaev/hax/monitor"
	"github.com/maxpoletaev/hax/process"
	"github.com/maxpoletaev/hax/wire"
)

var _ wire.MonitorServer = (*HAMonitorService)(nil)

type HAMonitorService struct {
	monitor Monitor
	logger  log.Logger
}

func NewHAMonitorService(m Monitor, logger log.Logger) *HAMonitorService {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &HAMonitorService{
		monitor: m,
		logger:  logger,
	}
}

func (s *HAMonitorService) ReportProcessEvent(ctx context.Context, req *wire.ProcessEventRequest) (*wire.ProcessEventResponse, error) {
	event, err := process.EventFromCode(req.Event)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	typ, err := process.TypeFromCode(req.Type)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	report := process.Report{
		Fid:   fid.New(req.Container, req.Key),
		Event: event,
		Type:  typ,
		PID:   req.Pid,
	}

	state, err := s.monitor.HandleProcessEvent(ctx, report)
	if err != nil {
		return nil, s.toStatus(report, err)
	}

	return &wire.ProcessEventResponse{
		State: uint32(state.Note().State),
	}, nil
}

func (s *HAMonitorService) toStatus(r process.Report, err error) error {
	switch {
	case errors.Is(err, monitor.ErrNullFid):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, halink.ErrNotDelivered):
		level.Warn(s.logger).Log("msg", "process event not delivered", "report", r, "err", err)
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		level.Error(s.logger).Log("msg", "failed to handle process event", "report", r, "err", err)
		return status.Error(codes.Internal, err.Error())
	}
}
