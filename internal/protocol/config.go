package protocol

// Default link emulation parameters, matching the service's stock profiles.
const (
	DefaultFlaky  = "10%"
	DefaultSlow   = "75ms 100ms distribution normal"
	DefaultDriver = "udn"
)

// ContainerSpec declares one container inside a blockade config.
type ContainerSpec struct {
	Image    string            `json:"image"`
	Hostname string            `json:"hostname"`
	Volumes  map[string]string `json:"volumes"`
	Expose   []uint16          `json:"expose"`
	Ports    map[uint16]uint16 `json:"ports"`
	Links    map[string]string `json:"links"`

	// Command overrides the image entrypoint; nil serializes as JSON null,
	// which the service reads as "no override".
	Command *string `json:"command"`
}

// NewContainerSpec returns a spec for image with empty topology maps, so
// callers can fill fields without nil-map checks.
func NewContainerSpec(image string) ContainerSpec {
	return ContainerSpec{
		Image:    image,
		Hostname: "c0",
		Volumes:  map[string]string{},
		Expose:   []uint16{},
		Ports:    map[uint16]uint16{},
		Links:    map[string]string{},
	}
}

// NetworkConfig holds the link emulation profiles a blockade is created with.
type NetworkConfig struct {
	Flaky  string `json:"flaky"`
	Slow   string `json:"slow"`
	Driver string `json:"driver"`
}

// DefaultNetworkConfig returns the stock emulation profiles.
func DefaultNetworkConfig() NetworkConfig {
	return NetworkConfig{
		Flaky:  DefaultFlaky,
		Slow:   DefaultSlow,
		Driver: DefaultDriver,
	}
}

// Config is the desired topology a blockade is created with. It is recorded
// client-side verbatim at creation and never re-derived from observed state.
type Config struct {
	Containers map[string]ContainerSpec `json:"containers"`
	Network    NetworkConfig            `json:"network"`
}

// NewConfig returns an empty config with default network emulation profiles.
func NewConfig() Config {
	return Config{
		Containers: map[string]ContainerSpec{},
		Network:    DefaultNetworkConfig(),
	}
}
