// Package cli implements the nbtools command line.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/GriffinCanCode/nbtools/internal/config"
	nberrors "github.com/GriffinCanCode/nbtools/internal/errors"
	"github.com/GriffinCanCode/nbtools/internal/export"
	"github.com/GriffinCanCode/nbtools/internal/frontend"
	"github.com/GriffinCanCode/nbtools/internal/jupyter"
	"github.com/GriffinCanCode/nbtools/internal/logging"
	"github.com/GriffinCanCode/nbtools/internal/notebook"
	"github.com/GriffinCanCode/nbtools/internal/session"
	"github.com/spf13/cobra"
)

// Flags overriding the environment configuration.
type globalFlags struct {
	connectionFile string
	runtimeDir     string
	logLevel       string
	dev            bool
	grace          time.Duration
}

// App holds the collaborators built from configuration for one invocation.
type App struct {
	Config    *config.Config
	Logger    *logging.Logger
	Directory *jupyter.Directory
	Client    *jupyter.Client
	Frontend  *frontend.Frontend
	Exporter  *export.Exporter
	Out       io.Writer
}

var errNoConnectionFile = nberrors.New("no connection file: set NB_CONNECTION_FILE or --connection-file")

// Resolver returns a resolver for the configured connection file.
func (a *App) Resolver() (*session.Resolver, error) {
	if a.Config.Kernel.ConnectionFile == "" {
		return nil, errNoConnectionFile
	}
	return session.NewResolverFromConnectionFile(a.Directory, a.Config.Kernel.ConnectionFile, a.Logger.Named("session"))
}

// Service returns the notebook service, resolving lazily through the connection file.
func (a *App) Service() (*notebook.Service, error) {
	resolver, err := a.Resolver()
	if err != nil {
		return nil, err
	}
	wait := notebook.WaitConfig{
		GracePeriod:  a.Config.Save.GracePeriod,
		PollInterval: a.Config.Save.PollInterval,
	}
	return notebook.New(resolver, a.Frontend, a.Exporter, wait, a.Logger.Named("notebook")), nil
}

func newApp(flags *globalFlags, out io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if flags.connectionFile != "" {
		cfg.Kernel.ConnectionFile = flags.connectionFile
	}
	if flags.runtimeDir != "" {
		cfg.Jupyter.RuntimeDir = flags.runtimeDir
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	if flags.dev {
		cfg.Logging.Development = true
	}
	if flags.grace >= 0 {
		cfg.Save.GracePeriod = flags.grace
	}

	logger, err := logging.New(logging.Config{
		Level:       cfg.Logging.Level,
		Development: cfg.Logging.Development,
		OutputPaths: []string{"stderr"},
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	runtimeDir, err := jupyter.RuntimeDir(cfg.Jupyter.RuntimeDir, cfg.Jupyter.DataDir)
	if err != nil {
		return nil, err
	}

	client := jupyter.NewClient(jupyter.ClientConfig{
		Timeout:   cfg.HTTP.Timeout,
		UserAgent: cfg.HTTP.UserAgent,
		Logger:    logger.Named("http"),
	})

	return &App{
		Config:    cfg,
		Logger:    logger,
		Directory: jupyter.NewDirectory(jupyter.NewRuntimeDirectory(runtimeDir, cfg.Jupyter.Token, logger.Named("runtime")), client),
		Client:    client,
		Frontend:  frontend.New(frontend.NewWriterChannel(out), logger.Named("frontend")),
		Exporter:  export.NewExporter(logger.Named("export")),
		Out:       out,
	}, nil
}

// NewRootCmd builds the command tree writing results to out.
func NewRootCmd(out io.Writer) *cobra.Command {
	flags := &globalFlags{}
	var app *App

	root := &cobra.Command{
		Use:   "nbtools",
		Short: "Helpers for the notebook attached to the current kernel",
		Long: `nbtools locates the notebook driving a kernel, triggers saves and
restarts through the notebook front-end, and exports notebooks to
standalone HTML reports.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			app, err = newApp(flags, out)
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if app != nil {
				_ = app.Logger.Sync()
			}
		},
	}
	root.SetOut(out)

	pf := root.PersistentFlags()
	pf.StringVar(&flags.connectionFile, "connection-file", "", "kernel connection file (default $NB_CONNECTION_FILE)")
	pf.StringVar(&flags.runtimeDir, "runtime-dir", "", "Jupyter runtime directory (default $JUPYTER_RUNTIME_DIR)")
	pf.StringVar(&flags.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.BoolVar(&flags.dev, "dev", false, "human-readable log output")
	pf.DurationVar(&flags.grace, "grace", -1, "how long to wait for a save to land (default $SAVE_GRACE_PERIOD)")

	getApp := func() *App { return app }
	root.AddCommand(
		newPathCmd(getApp),
		newKernelCmd(getApp),
		newServersCmd(getApp),
		newSaveCmd(getApp),
		newRestartCmd(getApp),
		newExportCmd(getApp),
		newSaveHTMLCmd(getApp),
	)
	return root
}

// Execute runs the CLI against the process stdout until done or interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return NewRootCmd(os.Stdout).ExecuteContext(ctx)
}
