package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jmurph/blockadectl/internal/blockade"
	"github.com/jmurph/blockadectl/internal/config"
	"github.com/jmurph/blockadectl/internal/logging"
	"github.com/jmurph/blockadectl/internal/observability"
	"github.com/jmurph/blockadectl/internal/protocol"
)

const usageText = `usage: blockadectl [flags] <command> [args]

commands:
  status                      list blockades and their containers
  up <name>                   create <name> from the configured topology
  destroy <name>              tear <name> down
  partition <name> <groups>   partition containers, groups like "a,b/c"
  heal <name>                 merge partitions and restore link quality
  kill-one <name>             kill a random container, print its name
  restart-one <name>          restart a random container, print its name
  flaky <name>                make the whole network unreliable
  fast <name>                 restore the whole network to full speed
`

func main() {
	logging.ConfigureRuntime()

	cfgPath := flag.String("config", "blockade.toml", "client config path")
	host := flag.String("host", "", "service host override, e.g. http://127.0.0.1:5000")
	metricsAddr := flag.String("metrics-addr", "", "serve prometheus metrics on this address")
	allowRestart := flag.Bool("restart", false, "on up: recreate the blockade if the name exists")
	flag.Usage = func() {
		fmt.Fprint(os.Stderr, usageText)
		flag.PrintDefaults()
	}
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.LoadClientConfig(*cfgPath)
	if err != nil {
		if *host == "" {
			log.Fatal().Err(err).Msg("load config")
		}
		log.Warn().Err(err).Msg("config unavailable, using defaults")
		cfg = config.DefaultClientConfig()
	}
	if *host != "" {
		cfg.Host = *host
	}
	if *metricsAddr != "" {
		cfg.MetricsAddr = *metricsAddr
	}
	if cfg.MetricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(cfg.MetricsAddr, observability.MetricsHandler()); err != nil {
				log.Warn().Err(err).Msg("metrics listener stopped")
			}
		}()
	}

	handler, err := blockade.New(blockade.HandlerConfig{
		Host:    cfg.Host,
		Timeout: cfg.RequestTimeout(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("construct handler")
	}

	if err := run(context.Background(), handler, cfg, *allowRestart, args); err != nil {
		fmt.Fprintf(os.Stderr, "blockadectl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, handler *blockade.Handler, cfg config.ClientConfig, allowRestart bool, args []string) error {
	command := args[0]
	rest := args[1:]

	switch command {
	case "status", "up", "destroy", "partition", "heal", "kill-one", "restart-one", "flaky", "fast":
	default:
		return fmt.Errorf("unknown command %q", command)
	}

	name := ""
	if len(rest) > 0 {
		name = rest[0]
	}
	if command != "status" && name == "" {
		return fmt.Errorf("%s requires a blockade name", command)
	}

	switch command {
	case "status":
		return printStatus(ctx, handler)
	case "up":
		if err := handler.StartBlockade(ctx, name, cfg.BlockadeConfig(), allowRestart); err != nil {
			return err
		}
		fmt.Printf("blockade %s up\n", name)
		return nil
	case "destroy":
		if err := handler.DestroyBlockade(ctx, name); err != nil {
			return err
		}
		fmt.Printf("blockade %s destroyed\n", name)
		return nil
	case "partition":
		if len(rest) < 2 {
			return fmt.Errorf("partition requires a group spec like \"a,b/c\"")
		}
		groups, err := parseGroups(rest[1])
		if err != nil {
			return err
		}
		return handler.MakePartitions(ctx, name, groups)
	case "heal":
		return handler.HealPartitions(ctx, name)
	case "kill-one":
		killed, err := handler.KillOne(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("killed %s\n", killed)
		return nil
	case "restart-one":
		restarted, err := handler.RestartOne(ctx, name)
		if err != nil {
			return err
		}
		fmt.Printf("restarted %s\n", restarted)
		return nil
	case "flaky":
		return handler.MakeNetUnreliable(ctx, name)
	case "fast":
		return handler.MakeNetFast(ctx, name)
	default:
		return fmt.Errorf("unknown command %q", command)
	}
}

func printStatus(ctx context.Context, handler *blockade.Handler) error {
	if err := handler.FetchState(ctx); err != nil {
		return err
	}
	names := handler.Blockades()
	if len(names) == 0 {
		fmt.Println("no blockades")
		return nil
	}
	for _, name := range names {
		fmt.Printf("%s:\n", name)
		state, _ := handler.State(name)
		for _, containerName := range containerNames(state.Containers) {
			c := state.Containers[containerName]
			fmt.Printf("  %-16s %-8s net=%-10s partition=%d ip=%s\n",
				containerName, c.Status, c.NetworkState, c.Partition, c.IPAddress)
		}
	}
	return nil
}

func containerNames(containers map[string]protocol.ContainerState) []string {
	names := make([]string, 0, len(containers))
	for name := range containers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// parseGroups splits "a,b/c" into [["a","b"],["c"]].
func parseGroups(raw string) ([][]string, error) {
	var groups [][]string
	for _, part := range strings.Split(raw, "/") {
		var group []string
		for _, member := range strings.Split(part, ",") {
			member = strings.TrimSpace(member)
			if member != "" {
				group = append(group, member)
			}
		}
		if len(group) == 0 {
			return nil, fmt.Errorf("empty partition group in %q", raw)
		}
		groups = append(groups, group)
	}
	if len(groups) == 0 {
		return nil, fmt.Errorf("no partition groups in %q", raw)
	}
	return groups, nil
}
