package protocol

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Command is one container lifecycle action the service can run.
type Command string

const (
	CommandStart   Command = "start"
	CommandStop    Command = "stop"
	CommandRestart Command = "restart"
	CommandKill    Command = "kill"
)

// ParseCommand maps a wire token to its Command, folding case.
func ParseCommand(raw string) (Command, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "start":
		return CommandStart, nil
	case "stop":
		return CommandStop, nil
	case "restart":
		return CommandRestart, nil
	case "kill":
		return CommandKill, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCommand, raw)
	}
}

func (c Command) String() string { return string(c) }

// MarshalJSON always emits the canonical lowercase token.
func (c Command) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(c))
}

func (c *Command) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownCommand, data)
	}
	parsed, err := ParseCommand(raw)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// NetworkStatus is a link-quality profile applied to containers.
type NetworkStatus string

const (
	NetFast      NetworkStatus = "fast"
	NetSlow      NetworkStatus = "slow"
	NetDuplicate NetworkStatus = "duplicate"
	NetFlaky     NetworkStatus = "flaky"
	NetUnknown   NetworkStatus = "unknown"
)

// ParseNetworkStatus maps a wire token to its NetworkStatus, folding case.
// "normal" is a legacy server alias for fast.
func ParseNetworkStatus(raw string) (NetworkStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "normal", "fast":
		return NetFast, nil
	case "slow":
		return NetSlow, nil
	case "duplicate":
		return NetDuplicate, nil
	case "flaky":
		return NetFlaky, nil
	case "unknown":
		return NetUnknown, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownNetworkStatus, raw)
	}
}

func (n NetworkStatus) String() string { return string(n) }

// MarshalJSON always emits the canonical lowercase token.
func (n NetworkStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(n))
}

func (n *NetworkStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownNetworkStatus, data)
	}
	parsed, err := ParseNetworkStatus(raw)
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}

// ContainerStatus is the server-observed runtime state of one container.
type ContainerStatus string

const (
	ContainerUp      ContainerStatus = "up"
	ContainerDown    ContainerStatus = "down"
	ContainerMissing ContainerStatus = "missing"
)

// ParseContainerStatus maps a wire token to its ContainerStatus, folding case.
func ParseContainerStatus(raw string) (ContainerStatus, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "up":
		return ContainerUp, nil
	case "down":
		return ContainerDown, nil
	case "missing":
		return ContainerMissing, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownContainerStatus, raw)
	}
}

func (s ContainerStatus) String() string { return string(s) }

// MarshalJSON always emits the canonical lowercase token.
func (s ContainerStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

func (s *ContainerStatus) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", ErrUnknownContainerStatus, data)
	}
	parsed, err := ParseContainerStatus(raw)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
