// Command rspace populates an RSpace electronic lab notebook from the
// command line: it ingests experiment directories into summary documents,
// creates single documents from local files, and lists or exports existing
// documents.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/emichr/RSpace-NTNU-workshop/eln"
)

const apiKeyEnv = "RSPACE_API_KEY"

var (
	version = "0.3.0"

	flagURL       string
	flagAPIKey    string
	flagConfig    string
	flagVerbosity int
)

func main() {
	root := &cobra.Command{
		Use:     "rspace",
		Short:   "Populate an RSpace ELN with experiment data",
		Version: version,
	}

	root.PersistentFlags().StringVar(&flagURL, "url", "", "RSpace instance URL (default from config file, else https://rspace.ntnu.no/)")
	root.PersistentFlags().StringVar(&flagAPIKey, "api-key", "", "user API key; prefer the "+apiKeyEnv+" environment variable, the key is as sensitive as your password")
	root.PersistentFlags().StringVarP(&flagConfig, "config", "c", "", "path to a YAML config file")
	root.PersistentFlags().CountVarP(&flagVerbosity, "verbose", "v", "increase verbosity (-v info, -vv debug)")

	root.AddCommand(experimentCmd())
	root.AddCommand(createCmd())
	root.AddCommand(listCmd())
	root.AddCommand(exportCmd())
	root.AddCommand(historyCmd())
	root.AddCommand(mcpCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

// newLogger maps the -v count to a slog level: warnings by default, info at
// -v, debug at -vv and beyond.
func newLogger() *slog.Logger {
	var lvl slog.Level
	switch flagVerbosity {
	case 0:
		lvl = slog.LevelWarn
	case 1:
		lvl = slog.LevelInfo
	default:
		lvl = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newClient builds the ELN client from flags, environment, and config file.
func newClient(cfg *fileConfig, logger *slog.Logger) (*eln.Client, error) {
	url := cfg.URL
	if flagURL != "" {
		url = flagURL
	}

	key := flagAPIKey
	if key == "" {
		key = os.Getenv(apiKeyEnv)
	}
	if key == "" {
		return nil, errors.New("no API key: set " + apiKeyEnv + " or pass --api-key")
	}

	return eln.New(url, key, eln.WithLogger(logger)), nil
}

// fatal prints a terminal failure and returns it so cobra sets the exit code.
func fatal(cmd *cobra.Command, err error) error {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true
	return err
}
