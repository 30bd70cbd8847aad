package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/csrent/csrent-cli/internal/buildinfo"
	"github.com/csrent/csrent-cli/internal/format"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:         "version",
		Short:       "Print build information",
		Args:        cobra.NoArgs,
		Annotations: map[string]string{annotationNoSetup: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			info := buildinfo.Current()
			if configOutput(app) == format.Text {
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "csrent %s (commit %s, built %s)\n", info.Version, info.Commit, info.Date)
				return err
			}
			return writeConfigData(cmd, app, nil, info)
		},
	}
}
