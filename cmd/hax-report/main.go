// Command hax-report reports a process lifecycle event to the HA monitor and
// prints the note state the monitor has published for it.
package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/health"
	"github.com/maxpoletaev/hax/process"
	"github.com/maxpoletaev/hax/wire"
)

const namePrefix = "M0_CONF_HA_PROCESS_"

var opts struct {
	Addr    string        `long:"addr" description:"HA monitor grpc address" env:"ADDR" default:"127.0.0.1:3000"`
	Timeout time.Duration `long:"timeout" description:"time to wait for the event to be published" env:"TIMEOUT" default:"15s"`
	Type    string        `long:"type" description:"process type (m0d, m0mkfs, kernel, other)" env:"TYPE" default:"m0d"`
	PID     uint64        `long:"pid" description:"process id" env:"PID"`

	Args struct {
		Fid   string `positional-arg-name:"fid" description:"process fid"`
		Event string `positional-arg-name:"event" description:"process event (starting, started, stopping, stopped)"`
	} `positional-args:"yes" required:"yes"`
}

// fullName accepts both short ("started") and full M0_CONF_HA_PROCESS_*
// names.
func fullName(name string) string {
	name = strings.ToUpper(name)
	if strings.HasPrefix(name, namePrefix) {
		return name
	}

	return namePrefix + name
}

func buildRequest() (*wire.ProcessEventRequest, error) {
	id, err := fid.Parse(opts.Args.Fid)
	if err != nil {
		return nil, err
	}

	event, err := process.ParseEvent(fullName(opts.Args.Event))
	if err != nil {
		return nil, err
	}

	typ, err := process.ParseType(fullName(opts.Type))
	if err != nil {
		return nil, err
	}

	return &wire.ProcessEventRequest{
		Container: id.Container,
		Key:       id.Key,
		Event:     uint32(event),
		Type:      uint32(typ),
		Pid:       opts.PID,
	}, nil
}

func report(ctx context.Context, req *wire.ProcessEventRequest) (health.NoteState, error) {
	conn, err := grpc.DialContext(ctx, opts.Addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return 0, fmt.Errorf("grpc dial failed: %w", err)
	}

	defer conn.Close()

	resp, err := wire.NewMonitorClient(conn).ReportProcessEvent(ctx, req)
	if err != nil {
		return 0, err
	}

	return health.NoteState(resp.State), nil
}

func main() {
	p := flags.NewParser(&opts, flags.Default)
	p.EnvNamespace = "HAX"

	if _, err := p.Parse(); err != nil {
		if err.(*flags.Error).Type != flags.ErrHelp {
			fmt.Println("cli error:", err)
		}

		os.Exit(2)
	}

	req, err := buildRequest()
	if err != nil {
		fmt.Println("invalid arguments:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithTimeout(context.Background(), opts.Timeout)
	defer cancel()

	state, err := report(ctx, req)
	if err != nil {
		fmt.Println("report failed:", err)
		os.Exit(1)
	}

	fmt.Println(fid.New(req.Container, req.Key), state)
}
