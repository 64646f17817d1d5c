package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/fhuszti/medias-conversion-ms/internal/config"
	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	verbose bool

	// loadSettings is swapped in tests.
	loadSettings = config.Load
)

var rootCmd = &cobra.Command{
	Use:   "convertctl",
	Short: "Inspect and submit media conversion graphs",
	Long: `convertctl builds the task graphs the conversion service sends to the
remote engine. Graphs are printed as the exact create-job payload, and can be
submitted directly for debugging.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"convertctl %s (%s/%s, %s)\n",
		version, runtime.GOOS, runtime.GOARCH, runtime.Version(),
	))
}

// logVerbose prints a message only when --verbose is set.
func logVerbose(format string, args ...any) {
	if verbose {
		fmt.Fprintf(os.Stderr, "[convertctl] "+format+"\n", args...)
	}
}
