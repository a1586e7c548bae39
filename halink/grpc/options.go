package grpc

import (
	"time"

	"github.com/go-kit/log"
	"google.golang.org/grpc"
)

type Options struct {
	// SendTimeout bounds a single Notify call. A message that is not
	// acknowledged in time is considered lost.
	SendTimeout time.Duration

	// DialOptions are appended to the default insecure transport credentials.
	DialOptions []grpc.DialOption

	Logger log.Logger
}

func DefaultOptions() *Options {
	return &Options{
		SendTimeout: 5 * time.Second,
		Logger:      log.NewNopLogger(),
	}
}
