package upgrader

import (
	"context"
	"fmt"

	"github.com/oshokin/cribl-upgrade/internal/config"
	"github.com/oshokin/cribl-upgrade/internal/executor"
	"github.com/oshokin/cribl-upgrade/internal/installation"
	"github.com/oshokin/cribl-upgrade/internal/logger"
	"github.com/oshokin/cribl-upgrade/internal/platform"
	"github.com/oshokin/cribl-upgrade/internal/service/archive"
	"github.com/oshokin/cribl-upgrade/internal/service/controller"
	"github.com/oshokin/cribl-upgrade/internal/version"
)

// Options are inputs accepted by the upgrader entry point.
type Options struct {
	// SettingsPath is the KEY=VALUE settings file; empty means config.DefaultSettingsFilename.
	SettingsPath string
	// Executor runs external commands; nil means real child processes.
	Executor executor.Executor
	// DetectFamily reports the platform family; nil means platform.Detect.
	DetectFamily func(ctx context.Context) platform.Family
	// ProcessLister overrides the go-ps listing used to confirm a stop; nil keeps go-ps.
	ProcessLister controller.ProcessLister
}

// runner holds the collaborators and progress of a single upgrade.
// It is intentionally unexported; call Run(ctx, Options) from callers.
type runner struct {
	cfg        config.Config
	controller *controller.Controller
	archiver   *archive.Archiver
	unpacker   *archive.Unpacker
	state      State
	failedIn   State
}

// Run loads the settings and performs the upgrade.
// Every failure is logged at error level before it is returned.
// Cancellation of ctx is ignored: once started, the steps run to completion
// so the installation is never left half-extracted.
func Run(ctx context.Context, opts *Options) error {
	// Set context with logger name for tracking.
	ctx = logger.WithName(context.WithoutCancel(ctx), "cribl-upgrade")

	if opts == nil {
		opts = new(Options)
	}

	logger.DebugKV(ctx, "Loading settings", "path", opts.SettingsPath, "build", version.Full())

	cfg, err := config.Load(opts.SettingsPath)
	if err != nil {
		logger.Errorf(ctx, "Failed to load settings: %v", err)
		return fmt.Errorf("load settings: %w", err)
	}

	up := newRunner(ctx, cfg, opts)

	if err = up.Run(ctx); err != nil {
		logger.DebugKV(ctx, "Run aborted", "failed_in", up.failedIn.String())
		logger.Errorf(ctx, "Cribl update failed: %v", err)
		return err
	}

	return nil
}

// newRunner wires the collaborators for cfg.
func newRunner(ctx context.Context, cfg config.Config, opts *Options) *runner {
	exec := opts.Executor
	if exec == nil {
		exec = executor.NewOSExecutor()
	}

	detect := opts.DetectFamily
	if detect == nil {
		detect = platform.Detect
	}

	controllerOptions := []controller.Option{controller.WithInstallation(cfg.Home)}
	if opts.ProcessLister != nil {
		controllerOptions = append(controllerOptions, controller.WithProcessLister(opts.ProcessLister))
	}

	family := detect(ctx)
	strategy := controller.StrategyFor(cfg, family)

	logger.DebugKV(ctx, "Upgrade plan",
		"home", cfg.Home,
		"tar_file", cfg.TarFile,
		"backup", cfg.ArchiveLocation,
		"family", family.String(),
		"strategy", strategy.Name())

	return &runner{
		cfg:        cfg,
		controller: controller.New(strategy, exec, controllerOptions...),
		archiver:   archive.NewArchiver(cfg.Home, cfg.ArchiveLocation, exec),
		unpacker:   archive.NewUnpacker(cfg.Home, cfg.TarFile, exec),
		state:      StateInit,
	}
}

// Run executes the pipeline for this runner instance:
// 1) Validate the installation and the new archive.
// 2) Stop the application.
// 3) Back up the installation when a destination is configured.
// 4) Extract the new version.
// 5) Start the application.
// The first failing step aborts the rest and leaves the runner in StateFailed.
func (u *runner) Run(ctx context.Context) error {
	if err := u.validate(ctx); err != nil {
		return u.fail(err)
	}

	if err := u.stop(ctx); err != nil {
		return u.fail(err)
	}

	if err := u.archive(ctx); err != nil {
		return u.fail(err)
	}

	if err := u.extract(ctx); err != nil {
		return u.fail(err)
	}

	if err := u.start(ctx); err != nil {
		return u.fail(err)
	}

	u.transition(ctx, StateDone)
	logger.Info(ctx, "Cribl update completed successfully")

	return nil
}

func (u *runner) validate(ctx context.Context) error {
	if err := installation.Validate(u.cfg.Home); err != nil {
		logger.Errorf(ctx, "Cribl installation not found at CRIBL_HOME: %v", err)
		return fmt.Errorf("validate installation: %w", err)
	}

	if err := installation.ValidatePackage(u.cfg.TarFile); err != nil {
		logger.Errorf(ctx, "New Cribl version is not available: %v", err)
		return fmt.Errorf("validate new version: %w", err)
	}

	u.transition(ctx, StateValidated)
	logger.Info(ctx, "Cribl installation validated")

	return nil
}

func (u *runner) stop(ctx context.Context) error {
	if err := u.controller.Stop(ctx); err != nil {
		logger.Errorf(ctx, "Failed to stop Cribl: %v", err)
		return fmt.Errorf("stop cribl: %w", err)
	}

	u.transition(ctx, StateStopped)
	logger.Info(ctx, "Cribl stopped successfully")

	return nil
}

func (u *runner) archive(ctx context.Context) error {
	if !u.cfg.BackupEnabled() {
		logger.Debug(ctx, "Backup not requested, proceeding to extraction")
		return nil
	}

	backup, err := u.archiver.Archive(ctx)
	if err != nil {
		logger.Errorf(ctx, "Failed to archive Cribl: %v", err)
		return fmt.Errorf("archive cribl: %w", err)
	}

	u.transition(ctx, StateArchived)
	logger.Infof(ctx, "Cribl archived successfully to %s", backup)

	return nil
}

func (u *runner) extract(ctx context.Context) error {
	if err := u.unpacker.Extract(ctx); err != nil {
		logger.Errorf(ctx, "Failed to untar Cribl: %v", err)
		return fmt.Errorf("extract new version: %w", err)
	}

	u.transition(ctx, StateExtracted)
	logger.Info(ctx, "Cribl untarred successfully")

	return nil
}

func (u *runner) start(ctx context.Context) error {
	if err := u.controller.Start(ctx); err != nil {
		logger.Errorf(ctx, "Failed to start Cribl: %v", err)
		return fmt.Errorf("start cribl: %w", err)
	}

	u.transition(ctx, StateStarted)
	logger.Info(ctx, "Cribl started successfully")

	return nil
}

// transition moves the runner to next and records it at debug level.
func (u *runner) transition(ctx context.Context, next State) {
	logger.DebugKV(ctx, "State transition", "from", u.state.String(), "to", next.String())
	u.state = next
}

// fail records the state the run broke in and moves to StateFailed.
func (u *runner) fail(err error) error {
	u.failedIn = u.state
	u.state = StateFailed

	return err
}
