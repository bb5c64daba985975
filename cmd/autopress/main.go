// Package main is the CLI entry point for autopress.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/eliteGoblin/focusd/autopress/internal/daemon"
	"github.com/eliteGoblin/focusd/autopress/internal/domain"
	"github.com/eliteGoblin/focusd/autopress/internal/infra"
	"github.com/eliteGoblin/focusd/autopress/internal/policy"
	"github.com/eliteGoblin/focusd/autopress/internal/uitree"
	"github.com/eliteGoblin/focusd/autopress/internal/usecase"
)

var (
	// Version info (set via ldflags)
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autopress",
	Short: "Presses through installer and onboarding dialogs",
	Long: `autopress watches a target application's accessibility tree and presses
the buttons it is configured to press (Continue, Next, I Agree, ...).
Window chrome and third-party sign-in buttons are never pressed, and any
button it has not been told about is ignored.`,
	Version:      Version,
	SilenceUsage: true,
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the scan loop until cancelled",
	Long: `Attaches to the target application and scans it repeatedly, pressing
configured buttons. Stops on Ctrl-C, q or Esc, when the terminal button is
pressed, after too many idle cycles, or when the target goes away.`,
	RunE: runRun,
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Run a single scan cycle",
	Long:  `Runs exactly one snapshot-filter-resolve-act cycle and prints what happened.`,
	RunE:  runScan,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List button actions",
	Long:  `Shows the effective button registry: protected seeds plus configured buttons.`,
	RunE:  runList,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state of the last run",
	Long:  `Reads the heartbeat published by a running (or finished) scan loop.`,
	RunE:  runStatus,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Long:  `Prints version, commit, and build time. Use --json for machine-readable output.`,
	Run:   runVersion,
}

var (
	configPath  string
	logFile     string
	logLevel    string
	fixturePath string
	processName string
	useEvents   bool
	detach      bool
	jsonOutput  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: autopress.yaml in ., ~/.autopress, /etc/autopress)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Write JSON logs to this file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	for _, cmd := range []*cobra.Command{runCmd, scanCmd} {
		cmd.Flags().StringVar(&fixturePath, "fixture", "", "Drive a scripted yaml fixture instead of a live application")
		cmd.Flags().StringVar(&processName, "process", "", "Target process name (overrides target.process)")
	}
	runCmd.Flags().BoolVar(&useEvents, "event", false, "Wake on UI change notifications as well as the cooldown")
	runCmd.Flags().BoolVar(&detach, "detach", false, "Run the loop in the background")
	versionCmd.Flags().BoolVar(&jsonOutput, "json", false, "Output version info as JSON")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*infra.Config, error) {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logFile != "" {
		cfg.Log.File = logFile
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if processName != "" {
		cfg.Target.Process = processName
	}
	return cfg, nil
}

func newRegistry(cfg *infra.Config) (*policy.ActionRegistry, error) {
	actions, err := cfg.ButtonActions()
	if err != nil {
		return nil, err
	}
	return policy.NewActionRegistry(actions, policy.RegistryOptions{
		AllowSeedOverride: cfg.Registry.AllowSeedOverride,
	}), nil
}

func loopPolicy(cfg *infra.Config) daemon.LoopPolicy {
	return daemon.LoopPolicy{
		BaseDelay:          cfg.Loop.BaseDelay,
		MaxDelay:           cfg.Loop.MaxDelay,
		MissThreshold:      cfg.Loop.MissThreshold,
		TerminalButtonName: cfg.Loop.TerminalButton,
	}
}

// buildProvider returns the snapshot provider and scan root: the fixture
// backend when --fixture is set, otherwise the native backend attached to
// the target process.
func buildProvider(ctx context.Context, cfg *infra.Config, logger *zap.Logger) (domain.SnapshotProvider, uitree.Target, error) {
	if fixturePath != "" {
		f, err := infra.LoadFixture(fixturePath)
		if err != nil {
			return nil, uitree.Target{}, err
		}
		logger.Info("using fixture backend", zap.String("fixture", fixturePath), zap.String("app", f.App))
		return uitree.NewTreeProvider(infra.NewFixtureSource(f)), uitree.Target{App: f.App}, nil
	}

	source, err := uitree.NewSource()
	if err != nil {
		return nil, uitree.Target{}, err
	}
	if cfg.Target.Process == "" {
		return nil, uitree.Target{}, fmt.Errorf("no target: set target.process or pass --process")
	}

	pm := infra.NewProcessManager()
	logger.Info("waiting for target process",
		zap.String("process", cfg.Target.Process),
		zap.Duration("timeout", cfg.Target.WaitTimeout))
	pid, err := infra.WaitForProcess(ctx, pm, cfg.Target.Process, cfg.Target.PollInterval, cfg.Target.WaitTimeout)
	if err != nil {
		return nil, uitree.Target{}, err
	}
	logger.Info("attached to target", zap.String("process", cfg.Target.Process), zap.Int("pid", pid))

	target := uitree.Target{App: cfg.Target.Process, PID: pid}
	return infra.NewGuardedProvider(uitree.NewTreeProvider(source), pm, pid), target, nil
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if detach {
		childArgs := os.Args[1:]
		if cfg.Log.File == "" {
			childArgs = append(childArgs, "--log-file", filepath.Join(os.TempDir(), "autopress.log"))
		}
		pid, err := daemon.StartDetached(childArgs)
		if err != nil {
			return fmt.Errorf("failed to start background loop: %w", err)
		}
		fmt.Printf("autopress running in background (pid %d)\n", pid)
		fmt.Println("Run 'autopress status' to check on it.")
		return nil
	}

	interactive := cfg.Log.File == "" && infra.IsTerminal(os.Stdin)
	logger, err := infra.NewLogger(cfg.Log.File, cfg.Log.Level, interactive)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	// Set up graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("received shutdown signal")
		cancel()
	}()

	restore := infra.ListenForQuit(os.Stdin, cancel, logger)
	defer restore()

	provider, target, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	lp := loopPolicy(cfg)
	if err := lp.Validate(); err != nil {
		return err
	}

	var trigger domain.Trigger
	if useEvents {
		if n, ok := provider.(domain.ChangeNotifier); ok && n.Changes() != nil {
			trigger = daemon.NewEventTrigger(n.Changes())
		} else {
			logger.Warn("backend has no change notifications, polling instead")
		}
	}

	scanner := usecase.NewScanner(provider, registry, target, logger)
	loop := daemon.NewLoop(lp, scanner, trigger, logger).
		WithStatus(infra.NewStatusFile(), target.App).
		WithObserver(daemon.ObserverFunc(func(cycle int, outcome domain.ScanOutcome, sleep time.Duration) {
			if outcome.Kind == domain.OutcomeButtonsHandled {
				logger.Info("cycle handled buttons",
					zap.Int("cycle", cycle),
					zap.Int("invoked", outcome.Invoked),
					zap.Int("failed", outcome.Failed),
					zap.Strings("learned", outcome.Learned))
			}
		}))

	report, runErr := loop.Run(ctx)

	restore()
	infra.NewPrinter(os.Stdout).PrintReport(report)
	return runErr
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := infra.NewLogger(cfg.Log.File, cfg.Log.Level, false)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()
	provider, target, err := buildProvider(ctx, cfg, logger)
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	fmt.Println("\n=== Running Scan ===")
	scanner := usecase.NewScanner(provider, registry, target, logger)
	outcome, err := scanner.Scan(ctx)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	infra.NewPrinter(os.Stdout).PrintOutcome(outcome)
	fmt.Println("====================")
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	registry, err := newRegistry(cfg)
	if err != nil {
		return err
	}

	if cfg.File != "" {
		fmt.Printf("Config: %s\n", cfg.File)
	}
	infra.NewPrinter(os.Stdout).PrintEntries(registry.Entries())
	return nil
}

func runStatus(cmd *cobra.Command, args []string) error {
	store := infra.NewStatusFile()
	status, err := store.Read()
	if err != nil {
		return err
	}

	alive := infra.IsAlive(status, infra.NewProcessManager())
	infra.NewPrinter(os.Stdout).PrintStatus(status, alive)
	if status == nil {
		fmt.Println("\nRun 'autopress run' to start.")
	}
	return nil
}

func runVersion(cmd *cobra.Command, args []string) {
	if jsonOutput {
		fmt.Printf(`{"version":"%s","commit":"%s","build_time":"%s"}`+"\n",
			Version, Commit, BuildTime)
	} else {
		fmt.Printf("autopress %s (commit: %s, built: %s)\n",
			Version, Commit, BuildTime)
	}
}
