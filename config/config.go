// Package config loads the daemon configuration from a YAML file.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"golang.org/x/exp/slices"
	"gopkg.in/yaml.v3"

	"github.com/maxpoletaev/hax/fid"
	"github.com/maxpoletaev/hax/internal/multierror"
)

var (
	ErrInvalidConfig = errors.New("invalid configuration")

	errEmpty          = errors.New("must not be empty")
	errNotPositive    = errors.New("must be positive")
	errDuplicate      = errors.New("contains duplicates")
	errNotNodeFid     = errors.New("must be a NODE fid")
	errPortOutOfRange = errors.New("must be within 0..65535")
)

type GRPCConfig struct {
	BindAddr string `yaml:"bind_addr"`
}

type APIConfig struct {
	Enabled  bool   `yaml:"enabled"`
	BindAddr string `yaml:"bind_addr"`
}

type LinkConfig struct {
	// Peers are gRPC addresses of the HA link receivers.
	Peers           []string      `yaml:"peers"`
	DeliveryTimeout time.Duration `yaml:"delivery_timeout"`
	SendTimeout     time.Duration `yaml:"send_timeout"`
}

type GossipConfig struct {
	Enabled      bool          `yaml:"enabled"`
	NodeName     string        `yaml:"node_name"`
	NodeFid      fid.Fid       `yaml:"node_fid"`
	BindAddr     string        `yaml:"bind_addr"`
	BindPort     int           `yaml:"bind_port"`
	Seeds        []string      `yaml:"seeds"`
	QueueSize    int           `yaml:"queue_size"`
	LeaveTimeout time.Duration `yaml:"leave_timeout"`
}

type MonitorConfig struct {
	Shards int `yaml:"shards"`
}

type Config struct {
	GRPC    GRPCConfig    `yaml:"grpc"`
	API     APIConfig     `yaml:"api"`
	Link    LinkConfig    `yaml:"link"`
	Gossip  GossipConfig  `yaml:"gossip"`
	Monitor MonitorConfig `yaml:"monitor"`
}

func Default() *Config {
	hostname, _ := os.Hostname()

	return &Config{
		GRPC: GRPCConfig{
			BindAddr: "0.0.0.0:3000",
		},
		API: APIConfig{
			Enabled:  true,
			BindAddr: "0.0.0.0:8000",
		},
		Link: LinkConfig{
			DeliveryTimeout: 10 * time.Second,
			SendTimeout:     5 * time.Second,
		},
		Gossip: GossipConfig{
			NodeName:     hostname,
			BindAddr:     "0.0.0.0",
			BindPort:     7946,
			QueueSize:    256,
			LeaveTimeout: 5 * time.Second,
		},
		Monitor: MonitorConfig{
			Shards: 16,
		},
	}
}

// Parse decodes YAML over the default configuration and validates the result.
func Parse(data []byte) (*Config, error) {
	conf := Default()

	if err := yaml.Unmarshal(data, conf); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := conf.Validate(); err != nil {
		return nil, err
	}

	return conf, nil
}

// Load reads the configuration file. Settings missing from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

func hasDuplicates(values []string) bool {
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	return len(slices.Compact(sorted)) != len(values)
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	errs := multierror.New[string]()

	if c.GRPC.BindAddr == "" {
		errs.Add("grpc.bind_addr", errEmpty)
	}

	if c.API.Enabled && c.API.BindAddr == "" {
		errs.Add("api.bind_addr", errEmpty)
	}

	if c.Link.DeliveryTimeout <= 0 {
		errs.Add("link.delivery_timeout", errNotPositive)
	}

	if c.Link.SendTimeout <= 0 {
		errs.Add("link.send_timeout", errNotPositive)
	}

	if slices.Contains(c.Link.Peers, "") {
		errs.Add("link.peers", errEmpty)
	} else if hasDuplicates(c.Link.Peers) {
		errs.Add("link.peers", errDuplicate)
	}

	if c.Monitor.Shards <= 0 {
		errs.Add("monitor.shards", errNotPositive)
	}

	if c.Gossip.Enabled {
		if c.Gossip.NodeName == "" {
			errs.Add("gossip.node_name", errEmpty)
		}

		if typ, ok := c.Gossip.NodeFid.Type(); !ok || typ != fid.ObjNode {
			errs.Add("gossip.node_fid", errNotNodeFid)
		}

		if c.Gossip.BindPort < 0 || c.Gossip.BindPort > 65535 {
			errs.Add("gossip.bind_port", errPortOutOfRange)
		}

		if c.Gossip.QueueSize <= 0 {
			errs.Add("gossip.queue_size", errNotPositive)
		}
	}

	if err := errs.Combined(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}
