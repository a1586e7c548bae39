package main

import (
	"strings"
	"time"

	"github.com/maxpoletaev/hax/config"
	"github.com/maxpoletaev/hax/fid"
)

var opts struct {
	Config string `long:"config" description:"path to the YAML configuration file" env:"CONFIG"`

	GRPC struct {
		BindAddr string `long:"bind-addr" description:"address to bind grpc server" env:"BIND_ADDR"`
	} `group:"grpc" namespace:"grpc" env-namespace:"GRPC"`

	API struct {
		BindAddr string `long:"bind-addr" description:"address to bind REST API server" env:"BIND_ADDR"`
		Disable  bool   `long:"disable" description:"do not start REST API server" env:"DISABLE"`
	} `group:"api" namespace:"api" env-namespace:"API"`

	Link struct {
		Peers           string        `long:"peers" description:"comma-separated list of HA link receivers" env:"PEERS"`
		DeliveryTimeout time.Duration `long:"delivery-timeout" description:"time to wait for all links to acknowledge a broadcast" env:"DELIVERY_TIMEOUT"`
	} `group:"link" namespace:"link" env-namespace:"LINK"`

	Gossip struct {
		Enable   bool   `long:"enable" description:"derive node health from gossip membership" env:"ENABLE"`
		NodeName string `long:"node-name" description:"unique member name" env:"NODE_NAME"`
		NodeFid  string `long:"node-fid" description:"NODE fid advertised by this member" env:"NODE_FID"`
		BindPort int    `long:"bind-port" description:"gossip port" env:"BIND_PORT"`
		Seeds    string `long:"seeds" description:"comma-separated list of members to join" env:"SEEDS"`
	} `group:"gossip" namespace:"gossip" env-namespace:"GOSSIP"`

	Verbose bool `long:"verbose" description:"verbose mode" env:"VERBOSE"`
}

func parseAddrs(addrs string) []string {
	sl := strings.Split(addrs, ",")
	res := make([]string, 0, len(sl))

	for _, addr := range sl {
		trimmed := strings.TrimSpace(addr)
		if trimmed != "" {
			res = append(res, trimmed)
		}
	}

	return res
}

// loadConfig reads the configuration file, if any, and applies the flags on
// top of it. Only the flags that were given override file settings.
func loadConfig() (*config.Config, error) {
	conf := config.Default()

	if opts.Config != "" {
		loaded, err := config.Load(opts.Config)
		if err != nil {
			return nil, err
		}

		conf = loaded
	}

	if err := applyFlags(conf); err != nil {
		return nil, err
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

func applyFlags(conf *config.Config) error {
	if opts.GRPC.BindAddr != "" {
		conf.GRPC.BindAddr = opts.GRPC.BindAddr
	}

	if opts.API.BindAddr != "" {
		conf.API.BindAddr = opts.API.BindAddr
	}

	if opts.API.Disable {
		conf.API.Enabled = false
	}

	if peers := parseAddrs(opts.Link.Peers); len(peers) > 0 {
		conf.Link.Peers = peers
	}

	if opts.Link.DeliveryTimeout != 0 {
		conf.Link.DeliveryTimeout = opts.Link.DeliveryTimeout
	}

	if opts.Gossip.Enable {
		conf.Gossip.Enabled = true
	}

	if opts.Gossip.NodeName != "" {
		conf.Gossip.NodeName = opts.Gossip.NodeName
	}

	if opts.Gossip.NodeFid != "" {
		id, err := fid.Parse(opts.Gossip.NodeFid)
		if err != nil {
			return err
		}

		conf.Gossip.NodeFid = id
	}

	if opts.Gossip.BindPort != 0 {
		conf.Gossip.BindPort = opts.Gossip.BindPort
	}

	if seeds := parseAddrs(opts.Gossip.Seeds); len(seeds) > 0 {
		conf.Gossip.Seeds = seeds
	}

	return nil
}
