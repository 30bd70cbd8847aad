package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/csrent/csrent-cli/internal/api"
	"github.com/csrent/csrent-cli/internal/configstore"
	"github.com/csrent/csrent-cli/internal/format"
	"github.com/csrent/csrent-cli/internal/log"
	"github.com/csrent/csrent-cli/internal/tui"
)

const envPrefix = "CSRENT"

// annotationNoSetup marks commands that must keep working when the stored
// configuration is unusable (so it can be repaired).
const annotationNoSetup = "csrent/no-setup"

type App struct {
	ConfigPath string
	APIURL     string
	LogLevel   string
	LogFile    string
	NoticeTTL  time.Duration
	Output     string
	Pretty     bool
	Tab        string

	Logger *slog.Logger
	// HTTP is the transport under the logging client. Nil uses a plain
	// *http.Client.
	HTTP api.Doer
	// IsTerminal reports whether the TUI can take over the terminal.
	IsTerminal func() bool

	logCloser io.Closer
}

func NewRootCmd() *cobra.Command {
	return newRootCmd(&App{})
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "csrent",
		Short:         "Admin client for the csrent spaces and users API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return app.setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			app.close()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand => interactive TUI.
			if len(args) > 0 {
				return cmd.Help()
			}
			return runTUI(cmd, app)
		},
	}

	defaultConfig, _ := configstore.DefaultPath()
	pf := cmd.PersistentFlags()
	pf.StringVar(&app.ConfigPath, "config", envOr(envPrefix+"_CONFIG", defaultConfig), "Path to the config file")
	pf.String("api-url", api.DefaultBaseURL, "API base URL")
	pf.String("log-level", "info", "Log level (trace|debug|info|warn|error)")
	pf.String("log-file", "", "Log file (default <config dir>/logs/csrent.log)")
	pf.Duration("notice-ttl", tui.DefaultNoticeTTL, "How long success notices stay visible in the TUI")
	pf.StringP("output", "o", format.Text, "Output format ("+strings.Join(format.Formats, "|")+")")
	pf.BoolVar(&app.Pretty, "pretty", false, "Pretty-print JSON output")
	cmd.Flags().StringVar(&app.Tab, "tab", "spaces", "Initial TUI tab (spaces|users)")

	cmd.AddCommand(newSpacesCmd(app))
	cmd.AddCommand(newUsersCmd(app))
	cmd.AddCommand(newConfigCmd(app))
	cmd.AddCommand(newDevCmd(app))
	cmd.AddCommand(newVersionCmd(app))

	return cmd
}

// Execute runs the root command and returns the process exit code. Errors
// already reported through writeFailure are not printed twice.
func Execute(ctx context.Context) int {
	cmd := NewRootCmd()
	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var reported *reportedError
	if !errors.As(err, &reported) {
		fmt.Fprintln(cmd.ErrOrStderr(), "Error:", err.Error())
	}
	return 1
}

// setup resolves settings (flag > env > config file > default) and opens
// the logger.
func (app *App) setup(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("load .env: %w", err)
	}
	// .env may set CSRENT_CONFIG; an explicit --config still wins.
	if f := cmd.Flag("config"); f != nil && !f.Changed {
		app.ConfigPath = envOr(envPrefix+"_CONFIG", app.ConfigPath)
	}

	v, err := newViper(app.ConfigPath)
	if err != nil && !skipSetup(cmd) {
		return err
	}
	if err := bindSettings(v, cmd.Flags()); err != nil {
		return err
	}

	app.APIURL = strings.TrimSpace(v.GetString("api-url"))
	app.LogLevel = strings.TrimSpace(v.GetString("log-level"))
	app.LogFile = strings.TrimSpace(v.GetString("log-file"))
	app.NoticeTTL = v.GetDuration("notice-ttl")
	app.Output = strings.ToLower(strings.TrimSpace(v.GetString("output")))

	if skipSetup(cmd) {
		app.Logger = log.Discard()
		return nil
	}
	if err := format.Validate(app.Output); err != nil {
		return err
	}
	if app.Logger == nil {
		if err := app.openLogger(cmd); err != nil {
			return err
		}
	}
	app.Logger.Debug("starting", slog.String("command", cmd.CommandPath()), slog.String("api_url", app.APIURL))
	return nil
}

func newViper(path string) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	path = strings.TrimSpace(path)
	if path == "" {
		return v, nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return v, nil
		}
		return v, err
	}
	v.SetConfigFile(path)
	v.SetConfigType("json")
	if err := v.ReadInConfig(); err != nil {
		return v, fmt.Errorf("read config %s: %w", path, err)
	}
	return v, nil
}

// bindSettings lets flags set on the command line override the config
// file and environment for every stored key.
func bindSettings(v *viper.Viper, flags *pflag.FlagSet) error {
	for _, key := range configstore.Keys() {
		f := flags.Lookup(key)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return fmt.Errorf("bind --%s: %w", key, err)
		}
	}
	return nil
}

func (app *App) openLogger(cmd *cobra.Command) error {
	file := app.LogFile
	if file == "" && app.ConfigPath != "" {
		file = filepath.Join(filepath.Dir(app.ConfigPath), "logs", "csrent.log")
	}
	lvl, err := log.ParseLevel(app.LogLevel)
	if err != nil {
		return err
	}
	app.LogLevel = log.LevelName(lvl)

	opts := log.Options{Level: app.LogLevel, File: file}
	// Errors reach stderr only when the user asked for verbose logs;
	// commands report failures through their own output otherwise.
	if lvl <= slog.LevelDebug {
		opts.Stderr = cmd.ErrOrStderr()
	}
	logger, closer, err := log.New(opts)
	if err != nil {
		return err
	}
	app.Logger = logger
	app.logCloser = closer
	return nil
}

func (app *App) close() {
	if app.logCloser != nil {
		_ = app.logCloser.Close()
		app.logCloser = nil
	}
}

func skipSetup(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations[annotationNoSetup] == "true" {
			return true
		}
	}
	return false
}

func (app *App) client() api.Client {
	return api.Client{
		BaseURL: app.APIURL,
		HTTP:    api.NewLoggingClient(app.HTTP, app.Logger),
	}
}

func runTUI(cmd *cobra.Command, app *App) error {
	isTerminal := app.IsTerminal
	if isTerminal == nil {
		isTerminal = stdoutIsTerminal
	}
	if !isTerminal() {
		return writeFailure(cmd, app, "not_a_terminal",
			errors.New("the interactive admin needs a terminal"),
			"Use `csrent spaces list` or `csrent users list` for scripted access.", nil)
	}

	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	return tui.Run(cmd.Context(), tui.Config{
		Client:    app.client(),
		Logger:    app.Logger,
		NoticeTTL: app.NoticeTTL,
		Start:     app.Tab,
	})
}

func envOr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func writeOut(cmd *cobra.Command, app *App, v any) error {
	return format.Write(cmd.OutOrStdout(), v, app.Output, app.Pretty)
}
