package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/app"
	"github.com/marketops/console/internal/form"
	"github.com/marketops/console/internal/notify"
	"github.com/marketops/console/internal/pagestate"
	"github.com/marketops/console/internal/shared"
)

// Streams are the terminal the CLI talks to.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

// runtime is the state shared by every subcommand of one invocation.
type runtime struct {
	streams Streams
	params  app.ConsoleParams
	prompt  *prompter

	output  string
	yes     bool
	apiURL  string
	console *app.Console
	logger  *slog.Logger
	metrics *http.Server

	lastBanner string
}

// Execute runs the CLI against the real terminal.
func Execute() error {
	return Run(context.Background(), os.Args[1:], Streams{In: os.Stdin, Out: os.Stdout, Err: os.Stderr}, app.ConsoleParams{})
}

// Run executes one CLI invocation with args. params overrides console
// dependencies; the zero value builds them from the environment.
func Run(ctx context.Context, args []string, streams Streams, params app.ConsoleParams) error {
	rt := &runtime{streams: streams, params: params, prompt: newPrompter(streams.In, streams.Err)}
	root := rt.rootCmd()
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.Err)

	err := root.ExecuteContext(ctx)
	rt.close()
	if err != nil {
		rt.reportError(err)
	}
	return err
}

func (rt *runtime) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "marketops",
		Short:         "Marketing operations console",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch rt.output {
			case outputTable, outputJSON, outputYAML:
			default:
				return fmt.Errorf("unknown output format %q (table, json, yaml)", rt.output)
			}
			return rt.open(cmd.Context())
		},
	}

	root.PersistentFlags().StringVarP(&rt.output, "output", "o", outputTable, "output format: table, json or yaml")
	root.PersistentFlags().BoolVarP(&rt.yes, "yes", "y", false, "answer yes to every confirmation")
	root.PersistentFlags().StringVar(&rt.apiURL, "api", "", "backend base URL (overrides API_BASE_URL)")

	root.AddCommand(
		rt.loginCmd(),
		rt.logoutCmd(),
		rt.registerCmd(),
		rt.whoamiCmd(),
		rt.usersCmd(),
		rt.campaignsCmd(),
		rt.contentCmd(),
		rt.approvalsCmd(),
		rt.publicationsCmd(),
		rt.calendarCmd(),
		rt.socialCmd(),
		rt.aiCmd(),
		rt.dashboardCmd(),
		rt.metricsCmd(),
		rt.healthCmd(),
	)
	return root
}

// open builds the console and restores any stored session.
func (rt *runtime) open(ctx context.Context) error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if rt.apiURL != "" {
		cfg.APIBaseURL = rt.apiURL
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	rt.logger = app.NewLoggerTo(rt.streams.Err, cfg.LogFormat, cfg.LogLevel)

	console, err := app.NewConsole(ctx, cfg, rt.logger, rt.params)
	if err != nil {
		return err
	}
	rt.console = console
	console.Notifier.Subscribe(rt.printBanner)

	if cfg.MetricsAddr != "" {
		rt.serveMetrics(cfg.MetricsAddr)
	}

	console.Session.Init(ctx)
	return nil
}

func (rt *runtime) serveMetrics(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", rt.console.Metrics.Handler())
	rt.metrics = &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := rt.metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			rt.logger.Warn("metrics server", slog.Any("error", err))
		}
	}()
}

func (rt *runtime) close() {
	if rt.metrics != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		_ = rt.metrics.Shutdown(ctx)
		cancel()
	}
	if rt.console != nil {
		rt.console.Notifier.Close()
		rt.console.Close()
	}
}

var (
	successColor = color.New(color.FgGreen)
	errorColor   = color.New(color.FgRed)
	infoColor    = color.New(color.FgCyan)
	mutedColor   = color.New(color.FgHiBlack)
)

func (rt *runtime) printBanner(b *notify.Banner) {
	if b == nil {
		return
	}
	rt.lastBanner = b.Message
	switch b.Kind {
	case notify.KindSuccess:
		successColor.Fprintf(rt.streams.Err, "✓ %s\n", b.Message)
	case notify.KindError:
		errorColor.Fprintf(rt.streams.Err, "✗ %s\n", b.Message)
	default:
		infoColor.Fprintf(rt.streams.Err, "• %s\n", b.Message)
	}
}

// reportError prints err unless a banner already showed the same text.
// Field errors are always listed.
func (rt *runtime) reportError(err error) {
	msg := err.Error()
	var um shared.UserMessager
	switch {
	case errors.Is(err, pagestate.ErrNotConfirmed):
		msg = "Operación cancelada"
	case errors.As(err, &um):
		msg = shared.ErrorMessage(err)
	}
	if msg != rt.lastBanner {
		errorColor.Fprintf(rt.streams.Err, "✗ %s\n", msg)
	}
	var vErr *form.ValidationError
	if errors.As(err, &vErr) {
		printFieldErrors(rt.streams.Err, vErr.Fields)
	}
}

// requireLogin fails fast when no session is active.
func (rt *runtime) requireLogin() error {
	return rt.console.Session.Require()
}
