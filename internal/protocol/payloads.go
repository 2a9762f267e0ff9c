package protocol

// CommandArgs is the POST body for the per-blockade action endpoint.
type CommandArgs struct {
	Command        Command  `json:"command"`
	ContainerNames []string `json:"container_names"`
}

// NetArgs is the POST body for the per-blockade network_state endpoint.
type NetArgs struct {
	NetworkState   NetworkStatus `json:"network_state"`
	ContainerNames []string      `json:"container_names"`
}

// PartitionArgs is the POST body for the per-blockade partitions endpoint.
// Each inner group becomes one partition; containers not listed stay in the
// default group.
type PartitionArgs struct {
	Partitions [][]string `json:"partitions"`
}

// ListResponse is the collection endpoint envelope. The blockades key may be
// absent entirely, which decodes to a nil slice.
type ListResponse struct {
	Blockades []string `json:"blockades"`
}
