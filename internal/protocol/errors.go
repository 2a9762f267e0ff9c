package protocol

import "errors"

var (
	ErrUnknownCommand         = errors.New("protocol: unknown command token")
	ErrUnknownNetworkStatus   = errors.New("protocol: unknown network status token")
	ErrUnknownContainerStatus = errors.New("protocol: unknown container status token")
	ErrBadAddress             = errors.New("protocol: bad ip_address")
	ErrNegativePartition      = errors.New("protocol: negative partition id")
)
