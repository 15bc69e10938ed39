// Package commands implements the gitcal command line.
package commands

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"
	"unicode/utf8"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/Sumatoshi-tech/gitcal/pkg/calendar"
	"github.com/Sumatoshi-tech/gitcal/pkg/config"
	"github.com/Sumatoshi-tech/gitcal/pkg/gitlib"
	"github.com/Sumatoshi-tech/gitcal/pkg/observability"
	"github.com/Sumatoshi-tech/gitcal/pkg/render"
	"github.com/Sumatoshi-tech/gitcal/pkg/version"
)

// Errors that abort a run before anything is printed.
var (
	ErrConfigRead             = errors.New("read configuration")
	ErrRepositoryOpen         = errors.New("open repository")
	ErrEmailNotConfigured     = errors.New("no email given and user.email is not set")
	ErrEmptyEmail             = errors.New(`--email must not be empty, use "*" for all authors`)
	ErrInvalidConfiguredEmail = errors.New("configured email is not valid UTF-8")
	ErrWalkHistory            = errors.New("walk history")
	ErrWriteOutput            = errors.New("write output")
)

const (
	spanCalendar    = "gitcal.calendar"
	allAuthorsTag   = "all authors"
	heatmapFileMode = 0o644
)

type (
	clockFunc         func() time.Time
	observabilityInit func(context.Context, observability.Config) (observability.Providers, error)
)

// CalendarCommand holds the flags and collaborators of one calendar run.
type CalendarCommand struct {
	email      string
	repo       string
	configPath string
	format     string
	colorMode  string
	html       string
	summary    bool
	verbose    bool
	quiet      bool

	now     clockFunc
	initObs observabilityInit
}

// NewCalendarCommand creates the root gitcal command, which draws the
// calendar for the repository around the working directory.
func NewCalendarCommand() *cobra.Command {
	return newCalendarCommandWithDeps(time.Now, observability.Init)
}

func newCalendarCommandWithDeps(now clockFunc, initObs observabilityInit) *cobra.Command {
	cc := &CalendarCommand{now: now, initObs: initObs}

	cmd := &cobra.Command{
		Use:   "gitcal",
		Short: "Visualize the past year of git history",
		Long: `gitcal draws a GitHub-style contribution calendar for the last year of
commits in the current repository, one column per week and one row per weekday.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          cc.run,
	}

	cmd.Flags().StringVarP(&cc.email, "email", "e", "",
		`Author's email address, or "*" for all commits (default: git's user.email)`)
	cmd.Flags().StringVarP(&cc.repo, "repo", "r", config.DefaultRepository, "Directory to discover the repository from")
	cmd.Flags().StringVar(&cc.configPath, "config", "", "Config file (default: .gitcal.yaml in ., $HOME or $XDG_CONFIG_HOME/gitcal)")
	cmd.Flags().StringVarP(&cc.format, "format", "f", config.FormatText, "Output format: text, json, yaml")
	cmd.Flags().StringVar(&cc.colorMode, "color", config.ColorAuto, "Colorize glyphs: auto, always, never")
	cmd.Flags().StringVar(&cc.html, "html", "", "Also write an HTML heatmap to this file (flag only, never read from config)")
	cmd.Flags().BoolVarP(&cc.summary, "summary", "s", false, "Print a summary table after the calendar")
	cmd.PersistentFlags().BoolVarP(&cc.verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().BoolVarP(&cc.quiet, "quiet", "q", false, "suppress output")

	cmd.AddCommand(newVersionCommand())

	return cmd
}

func (cc *CalendarCommand) run(cmd *cobra.Command, _ []string) error {
	cfg, err := cc.loadConfig(cmd)
	if err != nil {
		return err
	}

	providers, err := cc.initObs(contextOf(cmd), cc.observabilityConfig(cmd, cfg))
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
	}

	defer func() {
		if shutdownErr := providers.Shutdown(context.Background()); shutdownErr != nil {
			providers.Logger.Warn("telemetry shutdown failed", "error", shutdownErr)
		}
	}()

	ctx, span := providers.Tracer.Start(contextOf(cmd), spanCalendar)
	defer span.End()

	res, err := cc.draw(ctx, cmd, cfg, providers)
	if err == nil {
		err = cc.publish(ctx, cmd, res, providers.Logger)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return err
	}

	return nil
}

// drawing is the fully rendered outcome of a run, not yet written anywhere.
type drawing struct {
	stdout  []byte
	heatmap []byte
}

// publish writes stdout first and the heatmap file, when --html asked for
// one, only after stdout succeeded.
func (cc *CalendarCommand) publish(ctx context.Context, cmd *cobra.Command, res drawing, logger *slog.Logger) error {
	if _, err := cmd.OutOrStdout().Write(res.stdout); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	if cc.html == "" {
		return nil
	}

	if err := os.WriteFile(cc.html, res.heatmap, heatmapFileMode); err != nil {
		return fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	logger.InfoContext(ctx, "heatmap written", "path", cc.html)

	return nil
}

// draw performs one run and renders the bytes destined for stdout.
func (cc *CalendarCommand) draw(
	ctx context.Context, cmd *cobra.Command, cfg *config.Config, providers observability.Providers,
) (drawing, error) {
	logger := providers.Logger

	repo, err := gitlib.Discover(cfg.Calendar.Repository)
	if err != nil {
		return drawing{}, fmt.Errorf("%w: %w", ErrRepositoryOpen, err)
	}
	defer repo.Free()

	logger.DebugContext(ctx, "repository opened", "path", repo.Path())

	email, err := resolveEmail(cfg.Calendar.Email, repo)
	if err != nil {
		return drawing{}, err
	}

	iter, err := repo.Log()
	if err != nil {
		return drawing{}, fmt.Errorf("%w: %w", ErrWalkHistory, err)
	}

	src := gitlib.NewCommitSource(iter)
	defer src.Close()

	window := calendar.FromToday(cc.now())
	filter := calendar.EmailFilter(email)

	started := time.Now()

	grid, stats, err := calendar.Tally(ctx, window, filter, src)
	if err != nil {
		return drawing{}, err
	}

	recordTally(ctx, providers, filter, stats, time.Since(started))
	trace.SpanFromContext(ctx).SetAttributes(tallyAttributes(filter, stats)...)

	logger.DebugContext(ctx, "history tallied",
		slog.String("email", email),
		slog.String("start", window.Start.Format(time.DateOnly)),
		slog.String("end", window.End.Format(time.DateOnly)),
		slog.Int("scanned", stats.Scanned),
		slog.Int("counted", stats.Counted),
		slog.Int("future", stats.Future),
	)

	if stats.Future > 0 {
		logger.WarnContext(ctx, "commits dated after today were skipped", "count", stats.Future)
	}

	var buf bytes.Buffer

	colored := render.ColorEnabled(cfg.Output.Color, fileOf(cmd.OutOrStdout()))

	if err = writeCalendar(&buf, cfg.Output, window, grid, email, colored); err != nil {
		return drawing{}, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	res := drawing{stdout: buf.Bytes()}

	if cc.html != "" {
		if res.heatmap, err = renderHeatmap(window, grid, email); err != nil {
			return drawing{}, err
		}
	}

	return res, nil
}

func recordTally(
	ctx context.Context, providers observability.Providers, filter calendar.EmailFilter,
	stats calendar.TallyStats, elapsed time.Duration,
) {
	filtered := filter != calendar.AllAuthors

	metrics, err := observability.NewCalendarMetrics(providers.Meter)
	if err != nil {
		providers.Logger.WarnContext(ctx, "calendar metrics unavailable", "error", err)
	} else {
		metrics.RecordTally(ctx, stats.Scanned, stats.Counted, filtered, elapsed)
	}
}

// loadConfig reads the config file and environment, then lets explicitly
// set flags win.
func (cc *CalendarCommand) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.LoadConfig(cc.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConfigRead, err)
	}

	flags := cmd.Flags()

	if flags.Changed("email") {
		if cc.email == "" {
			return nil, ErrEmptyEmail
		}

		cfg.Calendar.Email = cc.email
	}

	if flags.Changed("repo") {
		cfg.Calendar.Repository = cc.repo
	}

	if flags.Changed("format") {
		cfg.Output.Format = cc.format
	}

	if flags.Changed("color") {
		cfg.Output.Color = cc.colorMode
	}

	if flags.Changed("summary") {
		cfg.Output.Summary = cc.summary
	}

	if err = cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (cc *CalendarCommand) observabilityConfig(cmd *cobra.Command, cfg *config.Config) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Environment = cfg.Telemetry.Environment
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogOutput = cmd.ErrOrStderr()

	// Validate already accepted the level.
	obsCfg.LogLevel, _ = config.ParseLogLevel(cfg.Logging.Level)

	switch {
	case cc.quiet:
		obsCfg.LogLevel = slog.LevelError
	case cc.verbose:
		obsCfg.LogLevel = slog.LevelDebug
	}

	return obsCfg
}

// resolveEmail picks the configured email or falls back to user.email.
func resolveEmail(configured string, repo *gitlib.Repository) (string, error) {
	if configured != "" {
		if !utf8.ValidString(configured) {
			return "", ErrInvalidConfiguredEmail
		}

		return configured, nil
	}

	email, err := repo.UserEmail()

	switch {
	case errors.Is(err, gitlib.ErrConfigKeyNotFound):
		return "", ErrEmailNotConfigured
	case errors.Is(err, gitlib.ErrInvalidConfigString):
		return "", fmt.Errorf("%w: %w", ErrInvalidConfiguredEmail, err)
	case err != nil:
		return "", fmt.Errorf("%w: %w", ErrConfigRead, err)
	}

	return email, nil
}

func writeCalendar(
	w io.Writer, out config.OutputConfig, window calendar.Window, grid calendar.Grid, email string, colored bool,
) error {
	switch out.Format {
	case config.FormatJSON:
		return render.WriteJSON(w, render.NewDocument(window, grid, email))
	case config.FormatYAML:
		return render.WriteYAML(w, render.NewDocument(window, grid, email))
	}

	if err := render.NewTerminal(w, colored).Render(window, grid); err != nil {
		return err
	}

	if !out.Summary {
		return nil
	}

	return render.WriteSummary(w, window, calendar.Summarize(window, grid))
}

func renderHeatmap(window calendar.Window, grid calendar.Grid, email string) ([]byte, error) {
	title := email
	if email == calendar.AllAuthors {
		title = allAuthorsTag
	}

	var buf bytes.Buffer

	if err := render.WriteHeatmap(&buf, window, grid, title); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWriteOutput, err)
	}

	return buf.Bytes(), nil
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}

	return context.Background()
}

func fileOf(w io.Writer) *os.File {
	f, _ := w.(*os.File)

	return f
}

// tallyAttributes describes a finished tally on the calendar span.
func tallyAttributes(filter calendar.EmailFilter, stats calendar.TallyStats) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool("gitcal.filtered", filter != calendar.AllAuthors),
		attribute.Int("gitcal.commits.scanned", stats.Scanned),
		attribute.Int("gitcal.commits.counted", stats.Counted),
		attribute.Int("gitcal.commits.future", stats.Future),
		attribute.Bool("gitcal.walk.stopped", stats.Stopped),
	}
}
