package cli

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/configstore"
	"github.com/csrent/csrent-cli/internal/format"
	"github.com/csrent/csrent-cli/internal/log"
)

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "config",
		Short:       "Show or change stored settings",
		Annotations: map[string]string{annotationNoSetup: "true"},
	}
	cmd.AddCommand(newConfigPathCmd(app))
	cmd.AddCommand(newConfigGetCmd(app))
	cmd.AddCommand(newConfigSetCmd(app))
	cmd.AddCommand(newConfigUnsetCmd(app))
	return cmd
}

func newConfigPathCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configOutput(app) == format.Text {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), app.ConfigPath)
				return err
			}
			return writeConfigData(cmd, app, nil, map[string]any{"path": app.ConfigPath})
		},
	}
}

func newConfigGetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Print stored settings",
		Long:  "Print stored settings. Known keys: " + strings.Join(configstore.Keys(), ", ") + ".",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := configstore.LoadOrEmpty(app.ConfigPath)
			if err != nil {
				return writeConfigFailure(cmd, app, "config_unreadable", err)
			}
			keys := configstore.Keys()
			if len(args) == 1 {
				key := strings.TrimSpace(args[0])
				if !isConfigKey(key) {
					return writeConfigFailure(cmd, app, "unknown_key", unknownKeyError(key))
				}
				keys = []string{key}
			}

			values := make(map[string]any, len(keys))
			for _, k := range keys {
				values[k] = st.Get(k)
			}
			if configOutput(app) != format.Text {
				return writeConfigData(cmd, app, map[string]any{"path": app.ConfigPath}, values)
			}
			w := cmd.OutOrStdout()
			if len(args) == 1 {
				_, err := fmt.Fprintln(w, st.Get(keys[0]))
				return err
			}
			for _, k := range keys {
				fmt.Fprintf(w, "%s = %s\n", k, st.Get(k))
			}
			return nil
		},
	}
}

func newConfigSetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Store a setting",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.TrimSpace(args[0])
			value := strings.TrimSpace(args[1])
			if err := checkConfigValue(key, value); err != nil {
				return writeConfigFailure(cmd, app, "invalid_value", err)
			}
			return updateConfig(cmd, app, key, value)
		},
	}
}

func newConfigUnsetCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a stored setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return updateConfig(cmd, app, strings.TrimSpace(args[0]), "")
		},
	}
}

func updateConfig(cmd *cobra.Command, app *App, key, value string) error {
	st, err := configstore.LoadOrEmpty(app.ConfigPath)
	if err != nil {
		return writeConfigFailure(cmd, app, "config_unreadable", err)
	}
	if err := st.Set(key, value); err != nil {
		return writeConfigFailure(cmd, app, "unknown_key", err)
	}
	if err := configstore.SaveAtomic(app.ConfigPath, st); err != nil {
		return writeConfigFailure(cmd, app, "config_unwritable", err)
	}
	msg := fmt.Sprintf("%s set to %q", key, value)
	if value == "" {
		msg = key + " unset"
	}
	out := *app
	out.Output = configOutput(app)
	return writeDone(cmd, &out, msg, map[string]any{"key": key, "value": value, "path": app.ConfigPath})
}

// checkConfigValue rejects values that would break every later command.
func checkConfigValue(key, value string) error {
	if !isConfigKey(key) {
		return unknownKeyError(key)
	}
	if value == "" {
		return nil
	}
	switch key {
	case "api-url":
		u, err := url.Parse(value)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("api-url must be an http(s) URL, got %q", value)
		}
	case "log-level":
		if _, err := log.ParseLevel(value); err != nil {
			return err
		}
	case "notice-ttl":
		d, err := time.ParseDuration(value)
		if err != nil || d <= 0 {
			return fmt.Errorf("notice-ttl must be a positive duration such as 3s, got %q", value)
		}
	case "output":
		return format.Validate(value)
	}
	return nil
}

func isConfigKey(key string) bool {
	for _, k := range configstore.Keys() {
		if k == key {
			return true
		}
	}
	return false
}

func unknownKeyError(key string) error {
	return fmt.Errorf("unknown config key %q (known: %s)", key, strings.Join(configstore.Keys(), ", "))
}

// configOutput falls back to text when the stored output setting is the
// thing being repaired.
func configOutput(app *App) string {
	if format.Validate(app.Output) != nil {
		return format.Text
	}
	return app.Output
}

func writeConfigData(cmd *cobra.Command, app *App, meta map[string]any, data any) error {
	out := *app
	out.Output = configOutput(app)
	return writeData(cmd, &out, meta, data)
}

func writeConfigFailure(cmd *cobra.Command, app *App, code string, err error) error {
	out := *app
	out.Output = configOutput(app)
	return writeFailure(cmd, &out, code, err, "Known keys: "+strings.Join(configstore.Keys(), ", "), nil)
}
