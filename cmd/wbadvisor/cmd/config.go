package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/Aman-CERP/wbadvisor/configs"
	"github.com/Aman-CERP/wbadvisor/internal/aircraft"
	"github.com/Aman-CERP/wbadvisor/internal/config"
	"github.com/Aman-CERP/wbadvisor/internal/output"
)

const configSources = "merged, user, project, defaults"

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the aircraft, unit and profile settings",
		Long: `Settings are layered: defaults, then the user file, then
` + config.ProjectConfigName + ` in the working directory, then WBADVISOR_* variables.`,
	}

	cmd.AddCommand(newConfigInitCmd())
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigPathCmd())

	return cmd
}

func newConfigInitCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the user settings file",
		Long:  "With --force an existing file is backed up and missing settings are added.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := output.New(cmd.OutOrStdout())
			path := config.GetUserConfigPath()
			if !config.UserConfigExists() {
				return writeConfigTemplate(out, path)
			}
			if !force {
				out.Warningf("User configuration already exists at %s", path)
				out.Status("💡", "Use --force to add new settings; your aircraft and units are kept")
				return nil
			}
			return upgradeUserConfig(out, path)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Back up and upgrade an existing file")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		jsonOutput bool
		source     string
	)

	cmd := &cobra.Command{
		Use:     "show",
		Short:   "Show the settings in effect",
		Example: "  wbadvisor config show --source user --json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, jsonOutput, source)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.Flags().StringVar(&source, "source", "merged", "Config source: "+configSources)

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the user settings file path",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), config.GetUserConfigPath())
			return err
		},
	}
}

func writeConfigTemplate(out *output.Writer, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(configs.UserConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	out.Success("Created user configuration")
	out.Statusf("📁", "Location: %s", path)
	out.Statusf("✈", "Aircraft presets: %s (default %s)", strings.Join(aircraft.Presets(), ", "), config.DefaultPreset)
	out.Status("", "Set aircraft.file to use your own weighing data instead")
	return nil
}

// upgradeUserConfig backs up the user file and fills in settings added
// since it was written.
func upgradeUserConfig(out *output.Writer, path string) error {
	backup, err := config.BackupUserConfig()
	if err != nil {
		return fmt.Errorf("failed to backup config: %w", err)
	}
	existing, err := config.LoadUserConfig()
	if err != nil {
		return err
	}
	if existing == nil {
		return fmt.Errorf("config file disappeared during upgrade")
	}

	added := existing.MergeNewDefaults()
	if err := existing.WriteYAML(path); err != nil {
		return err
	}

	out.Success("Configuration upgraded")
	out.Statusf("💾", "Backup: %s", backup)
	if len(added) == 0 {
		out.Status("✓", "No new settings")
		return nil
	}
	out.Statusf("✨", "Added: %s", strings.Join(added, ", "))
	return nil
}

func runConfigShow(cmd *cobra.Command, jsonOutput bool, source string) error {
	out := output.New(cmd.OutOrStdout())

	var (
		cfg  *config.Config
		desc string
		err  error
	)

	switch source {
	case "merged":
		cfg, err = loadConfig()
		desc = "merged (defaults + user + project + env)"
	case "user":
		desc = config.GetUserConfigPath()
		if cfg, err = config.LoadUserConfig(); err == nil && cfg == nil {
			out.Warning("No user configuration file found")
			out.Status("💡", "Run 'wbadvisor config init' to create one at "+desc)
			return nil
		}
		desc = "user (" + desc + ")"
	case "project":
		var cwd string
		if cwd, err = os.Getwd(); err != nil {
			return fmt.Errorf("failed to get current directory: %w", err)
		}
		if cfg, desc, err = config.LoadProjectConfig(cwd); err == nil && cfg == nil {
			out.Warningf("No %s in %s", config.ProjectConfigName, cwd)
			return nil
		}
		desc = "project (" + desc + ")"
	case "defaults":
		cfg = config.NewConfig()
		desc = "defaults (hardcoded)"
	default:
		return fmt.Errorf("invalid source: %s (use: %s)", source, configSources)
	}
	if err != nil {
		return err
	}

	if jsonOutput {
		return out.JSON(cfg)
	}

	out.Statusf("📋", "Configuration source: %s", desc)
	if source == "merged" || source == "defaults" {
		showEffectiveSettings(out, cfg)
	}
	out.Newline()
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	out.Text(string(data))
	return nil
}

// showEffectiveSettings summarises what compute, sheet and serve will use.
func showEffectiveSettings(out *output.Writer, cfg *config.Config) {
	if file := cfg.Aircraft.AircraftFile(); file != "" {
		out.Statusf("✈", "Aircraft: file %s", file)
	} else {
		out.Statusf("✈", "Aircraft: preset %s", cfg.Aircraft.Preset)
	}
	out.Statusf("⚖", "Units: %s entries, %s fuel", cfg.Units.Input, cfg.Units.Fuel)
	out.Statusf("💾", "Profiles: %s at %s", cfg.Profiles.Backend, cfg.Profiles.ProfilePath())
}
