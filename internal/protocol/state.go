package protocol

import (
	"encoding/json"
	"fmt"
	"net/netip"
)

// ContainerState is the server-reported view of one container. Decode
// normalizes the field shapes observed across server versions: device absent
// or null becomes "", ip_address absent or null becomes 0.0.0.0, partition
// absent or null becomes 0 (the default no-partition group).
type ContainerState struct {
	ContainerID  string
	Device       string
	IPAddress    netip.Addr
	Name         string
	NetworkState NetworkStatus
	Partition    int
	Status       ContainerStatus
}

// containerStateDoc is the raw document shape; pointer fields distinguish
// absent/null from a typed value. Only device, ip_address, and partition get
// defaults when missing; the enums must be present and in-set.
type containerStateDoc struct {
	ContainerID  string  `json:"container_id"`
	Device       *string `json:"device"`
	IPAddress    *string `json:"ip_address"`
	Name         string  `json:"name"`
	NetworkState *string `json:"network_state"`
	Partition    *int    `json:"partition"`
	Status       *string `json:"status"`
}

func (s *ContainerState) UnmarshalJSON(data []byte) error {
	var doc containerStateDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	if doc.NetworkState == nil {
		return fmt.Errorf("%w: network_state missing", ErrUnknownNetworkStatus)
	}
	networkState, err := ParseNetworkStatus(*doc.NetworkState)
	if err != nil {
		return err
	}
	if doc.Status == nil {
		return fmt.Errorf("%w: status missing", ErrUnknownContainerStatus)
	}
	status, err := ParseContainerStatus(*doc.Status)
	if err != nil {
		return err
	}
	out := ContainerState{
		ContainerID:  doc.ContainerID,
		Name:         doc.Name,
		NetworkState: networkState,
		Status:       status,
		IPAddress:    netip.IPv4Unspecified(),
	}
	if doc.Device != nil {
		out.Device = *doc.Device
	}
	if doc.IPAddress != nil {
		addr, err := netip.ParseAddr(*doc.IPAddress)
		if err != nil {
			return fmt.Errorf("%w: %q", ErrBadAddress, *doc.IPAddress)
		}
		out.IPAddress = addr
	}
	if doc.Partition != nil {
		if *doc.Partition < 0 {
			return fmt.Errorf("%w: %d", ErrNegativePartition, *doc.Partition)
		}
		out.Partition = *doc.Partition
	}
	*s = out
	return nil
}

// MarshalJSON emits the fully materialized shape: no field is ever absent or
// null on encode.
func (s ContainerState) MarshalJSON() ([]byte, error) {
	addr := s.IPAddress
	if !addr.IsValid() {
		addr = netip.IPv4Unspecified()
	}
	device := s.Device
	ip := addr.String()
	partition := s.Partition
	networkState := string(s.NetworkState)
	status := string(s.Status)
	return json.Marshal(containerStateDoc{
		ContainerID:  s.ContainerID,
		Device:       &device,
		IPAddress:    &ip,
		Name:         s.Name,
		NetworkState: &networkState,
		Partition:    &partition,
		Status:       &status,
	})
}

// State is the server-reported view of one blockade.
type State struct {
	Containers map[string]ContainerState `json:"containers"`
}
