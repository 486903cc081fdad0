package cmd

import (
	"fmt"
	"io"
	"runtime"

	"github.com/huangsam/gitstreak/internal/contract"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// versionCmd prints build details and the endpoints a refresh would use.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of gitstreak.",
	Long: `Display build information and the resolved GitHub and store settings.

The API root and backends reflect flags, GITSTREAK_* variables and the
config file, so this is a quick way to check where a refresh will go.`,
	Run: func(cmd *cobra.Command, _ []string) {
		if err := loadConfigFile(); err != nil {
			contract.LogWarn("Ignoring config file", err)
		}
		printVersion(cmd.OutOrStdout())
	},
}

// printVersion writes the build and resolved settings report.
func printVersion(w io.Writer) {
	historyBackend := viper.GetString("history-backend")
	if historyBackend == "" {
		historyBackend = "disabled"
	}
	tokenState := "missing"
	if viper.GetString("token") != "" {
		tokenState = "set"
	}

	fmt.Fprintf(w, "gitstreak %s (%s, built %s, %s)\n", version, commit, date, runtime.Version())
	fmt.Fprintf(w, "  User agent: gitstreak/%s\n", version)
	fmt.Fprintf(w, "  API root:   %s\n", viper.GetString("api-url"))
	fmt.Fprintf(w, "  Token:      %s\n", tokenState)
	fmt.Fprintf(w, "  Log store:  %s\n", viper.GetString("cache-backend"))
	fmt.Fprintf(w, "  History:    %s\n", historyBackend)
}
