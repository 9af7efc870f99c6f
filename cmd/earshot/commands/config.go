package commands

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/earshot-audio/earshot/pkg/cli"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage CLI configuration",
	Long: `Manage CLI configuration and contexts.

Contexts allow you to manage multiple service configurations,
similar to kubectl's context management.

Configuration is stored in ~/.earshot/config.yaml`,
}

var configAddContextCmd = &cobra.Command{
	Use:   "add-context <name>",
	Short: "Add a new context",
	Long: `Add a new context with the specified name.

A context needs:
  - Endpoint: WebSocket URL of the recognition service (ws:// or wss://)
  - API Key: For authentication (optional, sent as X-Api-Key)

Example:
  earshot config add-context prod \
    --endpoint wss://match.example.com/v1/stream \
    --api-key YOUR_KEY --timeout 14`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		endpoint, err := cmd.Flags().GetString("endpoint")
		if err != nil {
			return fmt.Errorf("failed to read 'endpoint' flag: %w", err)
		}
		if endpoint == "" {
			return fmt.Errorf("--endpoint is required")
		}

		apiKey, err := cmd.Flags().GetString("api-key")
		if err != nil {
			return fmt.Errorf("failed to read 'api-key' flag: %w", err)
		}

		timeout, err := cmd.Flags().GetInt("timeout")
		if err != nil {
			return fmt.Errorf("failed to read 'timeout' flag: %w", err)
		}

		cfg := getConfig()
		err = cfg.AddContext(name, &cli.Context{
			Endpoint:       endpoint,
			APIKey:         apiKey,
			TimeoutSeconds: timeout,
		})
		if err != nil {
			return fmt.Errorf("failed to add context: %w", err)
		}

		fmt.Printf("Context %q added.\n", name)
		if cfg.CurrentContext == "" {
			if err := cfg.UseContext(name); err != nil {
				return err
			}
			fmt.Printf("Context %q set as current.\n", name)
		}
		return nil
	},
}

var configUseContextCmd = &cobra.Command{
	Use:   "use-context <name>",
	Short: "Set the current context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := getConfig().UseContext(name); err != nil {
			return err
		}
		fmt.Printf("Switched to context %q.\n", name)
		return nil
	},
}

var configListContextsCmd = &cobra.Command{
	Use:   "list-contexts",
	Short: "List all contexts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfig()
		names := cfg.ListContexts()
		if len(names) == 0 {
			fmt.Println("No contexts configured. Use 'earshot config add-context' to add one.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "CURRENT\tNAME\tENDPOINT\tAPI KEY")
		for _, name := range names {
			ctx := cfg.Contexts[name]
			current := ""
			if name == cfg.CurrentContext {
				current = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				current, name, ctx.Endpoint, cli.MaskAPIKey(ctx.APIKey))
		}
		return w.Flush()
	},
}

var configRemoveContextCmd = &cobra.Command{
	Use:   "remove-context <name>",
	Short: "Remove a context",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]
		if err := getConfig().DeleteContext(name); err != nil {
			return err
		}
		fmt.Printf("Context %q removed.\n", name)
		return nil
	},
}

var configCurrentContextCmd = &cobra.Command{
	Use:   "current-context",
	Short: "Show the current context",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, err := getConfig().GetCurrentContext()
		if err != nil {
			return err
		}
		return outputResult(map[string]any{
			"name":            ctx.Name,
			"endpoint":        ctx.Endpoint,
			"api_key":         cli.MaskAPIKey(ctx.APIKey),
			"timeout_seconds": ctx.TimeoutSeconds,
		})
	},
}

func init() {
	configAddContextCmd.Flags().String("endpoint", "", "WebSocket URL of the recognition service")
	configAddContextCmd.Flags().String("api-key", "", "API key for authentication")
	configAddContextCmd.Flags().Int("timeout", 0, "attempt timeout in seconds (0 = default)")

	configCmd.AddCommand(configAddContextCmd)
	configCmd.AddCommand(configUseContextCmd)
	configCmd.AddCommand(configListContextsCmd)
	configCmd.AddCommand(configRemoveContextCmd)
	configCmd.AddCommand(configCurrentContextCmd)
}
