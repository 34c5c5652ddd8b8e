package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/imgajeed76/dfview/internal/config"
	"github.com/imgajeed76/dfview/internal/ui/styles"
	"github.com/spf13/cobra"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Get and set viewer options",
		Long: `Get and set global dfview options.

Settings are stored in ` + config.GlobalConfigPath() + `
(set DFVIEW_CONFIG to use another file). Command line flags always win
over stored settings.

` + config.GenerateHelpText(),
	}

	cmd.AddCommand(
		newConfigGetCmd(),
		newConfigSetCmd(),
		newConfigUnsetCmd(),
		newConfigListCmd(),
		newConfigPathCmd(),
	)

	return cmd
}

func newConfigGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <key>",
		Short: "Print one setting",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key := strings.ToLower(args[0])
			value, ok := cfg.GetValue(key)
			if !ok {
				return fmt.Errorf("unknown or unset config key: %s", key)
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one setting",
		Example: `  dfview config set viewer.visible_rows 25
  dfview config set widths.description 40
  dfview config set theme.terminal.row_hover "#0E7490"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key := strings.ToLower(args[0])
			if err := cfg.SetValue(key, args[1]); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			logger.Debug("config updated", "key", key, "value", args[1])
			fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessMsg(fmt.Sprintf("%s = %s", key, args[1])))
			return nil
		},
	}
}

func newConfigUnsetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unset <key>",
		Short: "Remove a width or theme override",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			key := strings.ToLower(args[0])
			if err := cfg.UnsetValue(key); err != nil {
				return err
			}
			if err := cfg.Save(); err != nil {
				return fmt.Errorf("failed to save config: %w", err)
			}
			fmt.Fprintln(cmd.ErrOrStderr(), styles.SuccessMsg("Removed "+key))
			return nil
		},
	}
}

func newConfigListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List all settings",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			for _, line := range configLines(cfg) {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), config.GlobalConfigPath())
		},
	}
}

// configLines renders every setting as key=value, overrides last.
func configLines(cfg *config.GlobalConfig) []string {
	var lines []string
	for _, key := range config.ListKeys() {
		value, _ := cfg.GetValue(key)
		lines = append(lines, key+"="+value)
	}
	for _, col := range slices.Sorted(maps.Keys(cfg.Widths)) {
		lines = append(lines, fmt.Sprintf("widths.%s=%d", col, cfg.Widths[col]))
	}
	for _, key := range slices.Sorted(maps.Keys(cfg.Theme)) {
		lines = append(lines, fmt.Sprintf("theme.%s=%s", key, cfg.Theme[key]))
	}
	return lines
}
