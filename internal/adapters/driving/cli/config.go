package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View and change client settings",
	Long: `View and change the settings stored in ~/.storefront/config.toml.

Unset keys fall back to defaults. STOREFRONT_* environment variables (or a
.env file in the working directory) override stored values at run time;
'config show' lists the values in use and marks overridden keys with "env".`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Change a setting",
	Long: `Change a single setting.

List values (api.allowed_hosts) are comma separated. Durations are given in
seconds. Run 'storefront config show' to list the supported keys.`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}
	values := settingValues(settings)
	var effective map[string]string
	if effectiveSettings != nil {
		effective = settingValues(effectiveSettings)
	}

	table := tablewriter.NewWriter(cmd.OutOrStdout())
	table.SetHeader([]string{"Key", "Value", "Source"})
	for _, key := range settingsService.Keys() {
		value, source := values[key], "config"
		if v, ok := effective[key]; ok && v != value {
			value, source = v, "env"
		}
		table.Append([]string{key, value, source})
	}
	table.Render()

	if servicesErr != nil {
		cmd.Printf("Warning: %v\n", servicesErr)
	}
	return nil
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return notConfigured("settings service")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	cmd.Printf("Set %s\n", args[0])
	return nil
}

// settingValues renders settings by config key.
func settingValues(s *domain.ClientSettings) map[string]string {
	dataDir := s.Storage.DataDir
	if dataDir == "" {
		dataDir = "(default)"
	}
	return map[string]string{
		"api.base_url":           s.API.BaseURL,
		"api.token_exchange_url": s.API.TokenExchangeURL,
		"api.allowed_hosts":      strings.Join(s.API.AllowedHosts, ","),
		"api.token_field":        s.API.TokenField,
		"api.allow_insecure":     strconv.FormatBool(s.API.AllowInsecure),
		"http.timeout_seconds":   strconv.Itoa(int(s.HTTP.Timeout.Seconds())),
		"http.rate_limit":        strconv.FormatFloat(s.HTTP.RateLimit, 'f', -1, 64),
		"http.burst":             strconv.Itoa(s.HTTP.Burst),
		"storage.backend":        s.Storage.Backend.String(),
		"storage.scope":          s.Storage.Scope,
		"storage.data_dir":       dataDir,
	}
}
