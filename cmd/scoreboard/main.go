// Command scoreboard is the orchestrator binary (spec.md §6): it wires
// the layered configuration provider, league clients, asset cache, and
// display sink together and runs the tick loop until a shutdown signal
// arrives. Grounded on cmd/api/main.go's signal.NotifyContext +
// graceful-shutdown composition-root shape, generalized from an HTTP
// server's listener to the orchestrator's tick loop.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ledmatrix/scoreboard/external/cloudstore"
	"github.com/ledmatrix/scoreboard/external/remotecmd"
	"github.com/ledmatrix/scoreboard/internal/assets"
	"github.com/ledmatrix/scoreboard/internal/config"
	"github.com/ledmatrix/scoreboard/internal/display"
	"github.com/ledmatrix/scoreboard/internal/domain/league"
	"github.com/ledmatrix/scoreboard/internal/domain/team"
	"github.com/ledmatrix/scoreboard/internal/leagues"
	"github.com/ledmatrix/scoreboard/internal/observability"
	"github.com/ledmatrix/scoreboard/internal/orchestrator"
	"github.com/ledmatrix/scoreboard/internal/platform/logging"
	"github.com/ledmatrix/scoreboard/internal/platform/metrics"
	"github.com/ledmatrix/scoreboard/internal/scene"

	"github.com/prometheus/client_golang/prometheus"
)

// exit codes, spec.md §6: "0 success ... 1 fatal error during setup or
// loop; 2 invalid arguments."
const (
	exitSuccess     = 0
	exitFatal       = 1
	exitInvalidArgs = 2
)

// stringList collects a repeatable flag (--demo-league) into a slice,
// the stdlib flag.Value pattern the example pack has no third-party CLI
// framework to replace (no cobra/pflag/urfave-cli/kingpin appears
// anywhere in the corpus).
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }
func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

type cliArgs struct {
	configPath   string
	forceSim     bool
	once         bool
	demo         bool
	demoLeagues  []string
	demoRotation time.Duration
	debugAddr    string
}

func parseArgs(args []string) (cliArgs, error) {
	fs := flag.NewFlagSet("scoreboard", flag.ContinueOnError)
	configPath := fs.String("config", "config/favorites.json", "path to the favorites/config file")
	forceSim := fs.Bool("sim", false, "force the simulator sink")
	once := fs.Bool("once", false, "execute one tick and exit")
	demo := fs.Bool("demo", false, "synthesize games locally instead of fetching")
	var demoLeagues stringList
	fs.Var(&demoLeagues, "demo-league", "restrict demo mode to this league code (may repeat)")
	demoRotationSec := fs.Int("demo-rotation", 60, "rotation period in demo mode, in seconds")
	debugAddr := fs.String("debug-addr", "", "if set, serve pprof and /metrics on this address")

	if err := fs.Parse(args); err != nil {
		return cliArgs{}, err
	}
	if *demoRotationSec <= 0 {
		return cliArgs{}, fmt.Errorf("--demo-rotation must be positive, got %d", *demoRotationSec)
	}

	return cliArgs{
		configPath:   *configPath,
		forceSim:     *forceSim,
		once:         *once,
		demo:         *demo,
		demoLeagues:  demoLeagues,
		demoRotation: time.Duration(*demoRotationSec) * time.Second,
		debugAddr:    *debugAddr,
	}, nil
}

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(rawArgs []string) int {
	args, err := parseArgs(rawArgs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "scoreboard:", err)
		return exitInvalidArgs
	}

	logger := logging.Default()
	metricsRegistry := metrics.New()
	metricsRegistry.MustRegister(prometheus.DefaultRegisterer)

	if !args.demo {
		if missing := missingCloudEnv(); len(missing) > 0 {
			fmt.Fprintf(os.Stderr, "scoreboard: missing required environment variables for non-demo mode: %s\n", strings.Join(missing, ", "))
			return exitInvalidArgs
		}
	}

	provider, err := buildProvider(args, logger)
	if err != nil {
		logger.Error("scoreboard: failed to build configuration provider", "error", err)
		return exitFatal
	}

	registry, err := team.NewFileRegistry(map[string]string{
		"nba":  "assets/teams.json",
		"wnba": "assets/teams.json",
		"nhl":  "assets/nhl_teams.json",
	})
	if err != nil {
		logger.Error("scoreboard: failed to load team registries", "error", err)
		return exitFatal
	}

	assetCache, err := assets.New("assets", registry, logger)
	if err != nil {
		logger.Error("scoreboard: failed to build asset cache", "error", err)
		return exitFatal
	}
	prefetcher, err := assets.NewPrefetcher(assetCache, 4)
	if err != nil {
		logger.Error("scoreboard: failed to build asset prefetch pool", "error", err)
		return exitFatal
	}
	defer prefetcher.Release()

	clients := buildLeagueClients(args, provider.Current(), registry, logger, metricsRegistry)

	fonts := scene.DefaultFonts()
	defer fonts.Close()

	sinkFactory := func(geom config.MatrixGeometry) (display.Sink, error) {
		if args.forceSim || args.demo {
			return display.NewSimulator("out", geom.Width, geom.Height, logger)
		}
		return newHardwareSink(geom)
	}

	opts := orchestrator.Options{
		Provider:    provider,
		Leagues:     clients,
		Logos:       assetCache,
		Fonts:       fonts,
		SinkFactory: sinkFactory,
		Logger:      logger,
		PluginDir:   "plugins",
		Metrics:     metricsRegistry,
	}

	var store *cloudstore.Store
	if !args.demo {
		store, err = buildCloudStore(logger)
		if err != nil {
			logger.Error("scoreboard: failed to build cloud store client", "error", err)
			return exitFatal
		}
		opts.Heartbeat = store
	}

	var orch *orchestrator.Orchestrator
	if !args.demo {
		listener := &remotecmd.Listener{
			SocketPath: "scoreboard.sock",
			Logger:     logger,
			Handlers: remotecmd.Handlers{
				ApplyConfig: func(payload json.RawMessage) error {
					if err := remotecmd.WriteConfigAtomic(args.configPath, payload); err != nil {
						return err
					}
					orch.RequestReload()
					return nil
				},
				FetchAssets: func(ctx context.Context) error {
					return prefetcher.Warm(ctx, "nba", allAbbrs(registry, "nba"), []int{10, 20, 48})
				},
			},
		}
		opts.Commands = listener
	}

	orch, err = orchestrator.New(opts)
	if err != nil {
		logger.Error("scoreboard: failed to build orchestrator", "error", err)
		return exitFatal
	}

	pprofSrv, err := observability.StartPprofServer(args.debugAddr != "", args.debugAddr, logger)
	if err != nil {
		logger.Error("scoreboard: failed to start debug server", "error", err)
		return exitFatal
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 2*time.Second); err != nil {
			logger.Warn("scoreboard: error stopping debug server", "error", err)
		}
	}()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()
	stopReloadWatch := orchestrator.WatchReloadSignals(ctx, orch)
	defer stopReloadWatch()

	if err := orch.Run(ctx, args.once); err != nil {
		logger.Error("scoreboard: orchestrator run failed", "error", err)
		return exitFatal
	}
	return exitSuccess
}

// missingCloudEnv reports which of the non-demo-mode required
// environment variables (spec.md §6: "cloud base URL, service
// credential, device id") are unset.
func missingCloudEnv() []string {
	var missing []string
	for _, name := range []string{"CLOUD_BASE_URL", "CLOUD_TOKEN", "DEVICE_ID"} {
		if os.Getenv(name) == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

func buildProvider(args cliArgs, logger *logging.Logger) (*config.Provider, error) {
	fileSource, err := config.FileSource(args.configPath)
	if err != nil {
		return nil, err
	}
	sources := []config.Source{
		fileSource,
		config.EnvSource(config.StandardEnvKeys()),
		config.DefaultsSource(nil),
	}
	if !args.demo {
		store, err := buildCloudStore(logger)
		if err != nil {
			return nil, err
		}
		sources = append(sources, store)
	}
	return config.NewProvider(sources, 60*time.Second)
}

func buildCloudStore(logger *logging.Logger) (*cloudstore.Store, error) {
	return cloudstore.New(cloudstore.ClientConfig{
		BaseURL:  os.Getenv("CLOUD_BASE_URL"),
		Token:    os.Getenv("CLOUD_TOKEN"),
		DeviceID: os.Getenv("DEVICE_ID"),
		Logger:   logger,
		CacheDir: "cache/cloudstore",
	})
}

func buildLeagueClients(args cliArgs, cfg config.DeviceConfig, registry *team.FileRegistry, logger *logging.Logger, metricsRegistry *metrics.Registry) map[string]leagues.Client {
	enabled := cfg.EnabledLeagues
	if args.demo && len(args.demoLeagues) > 0 {
		enabled = args.demoLeagues
	}

	if args.demo {
		clients := make(map[string]leagues.Client, len(enabled))
		start := time.Now()
		for _, code := range enabled {
			lg, ok := league.Known[code]
			if !ok {
				continue
			}
			favorites := registry.All(code)
			clients[code] = leagues.NewDemoClient(lg, start, args.demoRotation, favorites, nil)
		}
		return clients
	}

	live := leagues.NewRegistry(leagues.BuildOptions{
		Logger:   logger,
		CacheDir: "cache",
		Metrics:  metricsRegistry,
	})
	rosters := make(map[string][]team.Record, len(live))
	for code := range live {
		rosters[code] = registry.All(code)
	}
	fallback := leagues.WithStaticFallback(live, rosters)
	out := make(map[string]leagues.Client, len(fallback))
	for code, client := range fallback {
		out[code] = client
	}
	return out
}

func allAbbrs(registry *team.FileRegistry, leagueCode string) []string {
	records := registry.All(leagueCode)
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.Abbr)
	}
	return out
}
