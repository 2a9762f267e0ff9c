package blockade

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jmurph/blockadectl/internal/client"
	"github.com/jmurph/blockadectl/internal/protocol"
	"github.com/jmurph/blockadectl/internal/shadow"
)

var (
	ErrBlockadeNotFound = errors.New("blockade: blockade not found")
	ErrNoContainers     = errors.New("blockade: no containers to choose from")
)

// HandlerConfig carries construction settings for a Handler.
type HandlerConfig struct {
	// Host is the blockade service base, e.g. "http://127.0.0.1:5000".
	Host string

	// HTTPClient overrides the transport collaborator.
	HTTPClient client.Doer

	Timeout time.Duration

	// Rand is the randomness source for target selection; tests inject a
	// seeded source for deterministic picks. Defaults to a time-seeded one.
	Rand *rand.Rand
}

// Handler drives one blockade service and keeps a local shadow of what the
// service last reported.
type Handler struct {
	client *client.Client
	shadow *shadow.Shadow
	rng    *rand.Rand
}

// New constructs a handler and opportunistically pre-warms the shadow with
// whatever the service reports. A service that is unreachable or confused at
// construction time leaves the shadow empty; later calls surface real errors.
func New(cfg HandlerConfig) (*Handler, error) {
	cl, err := client.New(client.Config{
		Host:       cfg.Host,
		HTTPClient: cfg.HTTPClient,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, err
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	h := &Handler{
		client: cl,
		shadow: shadow.New(cl),
		rng:    rng,
	}
	if err := h.shadow.RefreshAll(context.Background()); err != nil {
		log.Debug().Err(err).Str("host", cl.Host()).Msg("shadow pre-warm skipped")
	}
	return h, nil
}

// StartBlockade creates name from cfg. On a name conflict with allowRestart
// set, it destroys the existing blockade and retries the create exactly
// once; a second conflict propagates. Without allowRestart every create
// error propagates unchanged.
func (h *Handler) StartBlockade(ctx context.Context, name string, cfg protocol.Config, allowRestart bool) error {
	h.shadow.RecordConfig(name, cfg)
	if err := h.client.Create(ctx, name, cfg); err != nil {
		if !allowRestart || !client.IsNameConflict(err) {
			return err
		}
		log.Info().Str("blockade", name).Msg("name conflict, recreating")
		if err := h.DestroyBlockade(ctx, name); err != nil {
			return err
		}
		if err := h.client.Create(ctx, name, cfg); err != nil {
			return err
		}
	}
	return h.shadow.Refresh(ctx, name)
}

// StartContainer starts one container by blockade and container name.
func (h *Handler) StartContainer(ctx context.Context, name, containerName string) error {
	return h.command(ctx, name, protocol.CommandStart, containerName)
}

// StopContainer stops one container by blockade and container name.
func (h *Handler) StopContainer(ctx context.Context, name, containerName string) error {
	return h.command(ctx, name, protocol.CommandStop, containerName)
}

// RestartContainer restarts one container by blockade and container name.
func (h *Handler) RestartContainer(ctx context.Context, name, containerName string) error {
	return h.command(ctx, name, protocol.CommandRestart, containerName)
}

// KillContainer kills one container by blockade and container name.
func (h *Handler) KillContainer(ctx context.Context, name, containerName string) error {
	return h.command(ctx, name, protocol.CommandKill, containerName)
}

func (h *Handler) command(ctx context.Context, name string, cmd protocol.Command, containerName string) error {
	if err := h.client.Command(ctx, name, cmd, []string{containerName}); err != nil {
		return err
	}
	return h.shadow.Refresh(ctx, name)
}

// ChooseRandomContainer picks uniformly from the shadow's cached container
// set for name. It never fetches, so the pick can be stale; callers accept
// that in exchange for no extra round trip.
func (h *Handler) ChooseRandomContainer(name string) (string, error) {
	state, ok := h.shadow.State(name)
	if !ok {
		return "", ErrBlockadeNotFound
	}
	if len(state.Containers) == 0 {
		return "", ErrNoContainers
	}
	names := h.shadow.ContainerNames(name)
	return names[h.rng.Intn(len(names))], nil
}

// KillOne kills a randomly chosen container and returns its name.
func (h *Handler) KillOne(ctx context.Context, name string) (string, error) {
	containerName, err := h.ChooseRandomContainer(name)
	if err != nil {
		return "", err
	}
	if err := h.KillContainer(ctx, name, containerName); err != nil {
		return "", err
	}
	return containerName, nil
}

// RestartOne restarts a randomly chosen container and returns its name.
func (h *Handler) RestartOne(ctx context.Context, name string) (string, error) {
	containerName, err := h.ChooseRandomContainer(name)
	if err != nil {
		return "", err
	}
	if err := h.RestartContainer(ctx, name, containerName); err != nil {
		return "", err
	}
	return containerName, nil
}

// AllContainers refreshes name and returns its container names in ascending
// lexicographic order.
func (h *Handler) AllContainers(ctx context.Context, name string) ([]string, error) {
	if err := h.shadow.Refresh(ctx, name); err != nil {
		return nil, err
	}
	return h.shadow.ContainerNames(name), nil
}

// MakePartitions applies the given container groupings verbatim. Containers
// not listed in any group stay in the default partition.
func (h *Handler) MakePartitions(ctx context.Context, name string, groups [][]string) error {
	if err := h.client.Partition(ctx, name, groups); err != nil {
		return err
	}
	return h.shadow.Refresh(ctx, name)
}

// HealPartitions merges all containers back into one partition and resets
// link-quality overrides to defaults. It is the sole way to clear partitions.
func (h *Handler) HealPartitions(ctx context.Context, name string) error {
	if err := h.client.RestoreNetwork(ctx, name); err != nil {
		return err
	}
	return h.shadow.Refresh(ctx, name)
}

// MakeNetUnreliable applies the flaky profile to every container in name
// with a single request.
func (h *Handler) MakeNetUnreliable(ctx context.Context, name string) error {
	return h.shapeNetwork(ctx, name, protocol.NetFlaky)
}

// MakeNetFast applies the fast profile to every container in name with a
// single request.
func (h *Handler) MakeNetFast(ctx context.Context, name string) error {
	return h.shapeNetwork(ctx, name, protocol.NetFast)
}

func (h *Handler) shapeNetwork(ctx context.Context, name string, status protocol.NetworkStatus) error {
	containers, err := h.AllContainers(ctx, name)
	if err != nil {
		return err
	}
	if err := h.client.SetNetworkState(ctx, name, status, containers); err != nil {
		return err
	}
	return h.shadow.Refresh(ctx, name)
}

// DestroyBlockade refreshes name, tears it down on the service side, then
// drops it from the shadow.
func (h *Handler) DestroyBlockade(ctx context.Context, name string) error {
	if err := h.shadow.Refresh(ctx, name); err != nil {
		return err
	}
	if err := h.client.Delete(ctx, name); err != nil {
		return err
	}
	h.shadow.Forget(name)
	return nil
}

// FetchState refreshes the shadow for every blockade the service lists,
// failing fast on the first error.
func (h *Handler) FetchState(ctx context.Context) error {
	return h.shadow.RefreshAll(ctx)
}

// Blockades returns the cached blockade names, sorted.
func (h *Handler) Blockades() []string {
	return h.shadow.Names()
}

// State returns the cached state for name.
func (h *Handler) State(name string) (protocol.State, bool) {
	return h.shadow.State(name)
}

// Config returns the config name was created with, if this handler created it.
func (h *Handler) Config(name string) (protocol.Config, bool) {
	return h.shadow.Config(name)
}
