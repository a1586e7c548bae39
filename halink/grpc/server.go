package grpc

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/wire"
)

// Receiver consumes notes arriving over the link.
type Receiver interface {
	ReceiveNotes(ctx context.Context, notes []health.Note) error
}

// Server is the receiving end of the link. A request is acknowledged only
// after the receiver has accepted its notes.
type Server struct {
	receiver Receiver
	logger   log.Logger
}

var _ wire.LinkServer = (*Server)(nil)

func NewServer(receiver Receiver, logger log.Logger) *Server {
	if logger == nil {
		logger = log.NewNopLogger()
	}

	return &Server{
		receiver: receiver,
		logger:   logger,
	}
}

func (s *Server) Notify(ctx context.Context, req *wire.NotifyRequest) (*wire.NotifyResponse, error) {
	notes := wire.ToNotes(req.Notes)

	if err := s.receiver.ReceiveNotes(ctx, notes); err != nil {
		level.Error(s.logger).Log("msg", "failed to receive notes", "tag", req.Tag, "err", err)
		return nil, status.Error(codes.Internal, err.Error())
	}

	level.Debug(s.logger).Log("msg", "notes received", "tag", req.Tag, "count", len(notes))

	return &wire.NotifyResponse{Tag: req.Tag}, nil
}
