package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/earshot-audio/earshot/pkg/cli"
)

var (
	// Global flags
	cfgFile     string
	contextName string
	outputFile  string
	outputJSON  bool

	// Global configuration
	globalConfig *cli.Config
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "earshot",
	Short: "Song recognition CLI tool",
	Long: `Earshot CLI - identify songs from recorded audio.

The tool streams PCM audio from a WAV file to a recognition service
and prints the identified track, if any.

Configuration is stored in ~/.earshot/ and supports multiple contexts,
similar to kubectl's context management.

Examples:
  # Set up a new context
  earshot config add-context myctx --endpoint wss://match.example.com/v1/stream --api-key YOUR_KEY

  # Recognize a recording
  earshot -c myctx listen recording.wav

  # Pipe the verdict to another command
  earshot -c myctx listen recording.wav --json | jq '.track.title'
`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.earshot/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&contextName, "context", "c", "", "context name to use")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "output", "o", "", "output file (default: stdout)")
	rootCmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "output as JSON (for piping)")

	// Add subcommands
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(listenCmd)
}

func initConfig() {
	var err error
	globalConfig, err = cli.LoadConfigWithPath(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing config: %v\n", err)
		os.Exit(1)
	}
}

// getConfig returns the global configuration
func getConfig() *cli.Config {
	return globalConfig
}

// getContext returns the context configuration to use
func getContext() (*cli.Context, error) {
	cfg := getConfig()
	if cfg == nil {
		return nil, fmt.Errorf("configuration not initialized")
	}

	ctx, err := cfg.ResolveContext(contextName)
	if err != nil {
		if contextName == "" {
			return nil, fmt.Errorf("no context specified. Use -c flag or set a default context with 'earshot config use-context'")
		}
		return nil, err
	}

	return ctx, nil
}

// outputResult outputs the result using cli package
func outputResult(result any) error {
	format := cli.FormatYAML
	if outputJSON {
		format = cli.FormatJSON
	}
	return cli.Output(result, cli.OutputOptions{
		Format: format,
		File:   outputFile,
	})
}
