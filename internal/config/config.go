package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/jmurph/blockadectl/internal/protocol"
)

// ContainerConfig declares one container in the client TOML. Ports maps
// published port (string key, TOML tables cannot key on integers) to
// container port.
type ContainerConfig struct {
	Image    string            `toml:"image"`
	Hostname string            `toml:"hostname"`
	Command  string            `toml:"command"`
	Volumes  map[string]string `toml:"volumes"`
	Expose   []uint16          `toml:"expose"`
	Ports    map[string]uint16 `toml:"ports"`
	Links    map[string]string `toml:"links"`
}

// NetworkConfig overrides the default link emulation profiles.
type NetworkConfig struct {
	Flaky  string `toml:"flaky"`
	Slow   string `toml:"slow"`
	Driver string `toml:"driver"`
}

// ClientConfig is the blockadectl TOML document.
type ClientConfig struct {
	Host             string                     `toml:"host"`
	RequestTimeoutMS int                        `toml:"request_timeout_ms"`
	MetricsAddr      string                     `toml:"metrics_addr"`
	Network          NetworkConfig              `toml:"network"`
	Containers       map[string]ContainerConfig `toml:"containers"`
}

// DefaultClientConfig is the configuration used when no TOML file is present.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Host:             "http://127.0.0.1:5000",
		RequestTimeoutMS: 10000,
		Network: NetworkConfig{
			Flaky:  protocol.DefaultFlaky,
			Slow:   protocol.DefaultSlow,
			Driver: protocol.DefaultDriver,
		},
	}
}

func LoadClientConfig(path string) (ClientConfig, error) {
	var cfg ClientConfig
	if err := loadToml(path, &cfg); err != nil {
		return ClientConfig{}, err
	}
	defaults := DefaultClientConfig()
	if cfg.Host == "" {
		cfg.Host = defaults.Host
	}
	if cfg.RequestTimeoutMS == 0 {
		cfg.RequestTimeoutMS = defaults.RequestTimeoutMS
	}
	if cfg.Network.Flaky == "" {
		cfg.Network.Flaky = defaults.Network.Flaky
	}
	if cfg.Network.Slow == "" {
		cfg.Network.Slow = defaults.Network.Slow
	}
	if cfg.Network.Driver == "" {
		cfg.Network.Driver = defaults.Network.Driver
	}
	if err := ValidateClientConfig(cfg); err != nil {
		return ClientConfig{}, err
	}
	return cfg, nil
}

func loadToml(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if err := toml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	return nil
}

func ValidateClientConfig(cfg ClientConfig) error {
	if strings.TrimSpace(cfg.Host) == "" {
		return fmt.Errorf("client config missing host")
	}
	if cfg.RequestTimeoutMS < 0 {
		return fmt.Errorf("request_timeout_ms must be non-negative")
	}
	for name, container := range cfg.Containers {
		if strings.TrimSpace(name) == "" {
			return fmt.Errorf("container name is required")
		}
		if strings.TrimSpace(container.Image) == "" {
			return fmt.Errorf("container %q missing image", name)
		}
		for published := range container.Ports {
			if _, err := strconv.ParseUint(published, 10, 16); err != nil {
				return fmt.Errorf("container %q has invalid published port %q", name, published)
			}
		}
	}
	return nil
}

// RequestTimeout converts the configured timeout to a duration.
func (c ClientConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutMS) * time.Millisecond
}

// BlockadeConfig converts the TOML topology into the wire config sent at
// blockade creation.
func (c ClientConfig) BlockadeConfig() protocol.Config {
	out := protocol.NewConfig()
	out.Network = protocol.NetworkConfig{
		Flaky:  c.Network.Flaky,
		Slow:   c.Network.Slow,
		Driver: c.Network.Driver,
	}
	for name, container := range c.Containers {
		spec := protocol.NewContainerSpec(container.Image)
		if container.Hostname != "" {
			spec.Hostname = container.Hostname
		}
		if container.Command != "" {
			command := container.Command
			spec.Command = &command
		}
		for host, mount := range container.Volumes {
			spec.Volumes[host] = mount
		}
		spec.Expose = append(spec.Expose, container.Expose...)
		for published, target := range container.Ports {
			// Validated by ValidateClientConfig.
			port, _ := strconv.ParseUint(published, 10, 16)
			spec.Ports[uint16(port)] = target
		}
		for alias, target := range container.Links {
			spec.Links[alias] = target
		}
		out.Containers[name] = spec
	}
	return out
}
