package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/assetops/entitlements/config"
	"github.com/assetops/entitlements/dell"
	logger "github.com/assetops/entitlements/logging"
	"github.com/assetops/entitlements/normalize"
	"github.com/assetops/entitlements/service"
)

var rootCmd = &cobra.Command{
	Use:   "entitlements",
	Short: "Warranty and entitlement lookups by service tag",
	Long: `Queries the asset-entitlement service for warranty information by
hardware service tag. Supports checking a single tag or processing a CSV
inventory export in bulk. Credentials come from the DELL_API_CLIENT_ID and
DELL_API_CLIENT_SECRET environment variables (a .env file is honored).`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := config.InitConfig(); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		logger.InitLogger(config.GetString("log.dir"))
		return nil
	},
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildService wires the entitlement client and normalizer from the loaded
// configuration.
func buildService() (service.IEntitlementService, error) {
	client, err := dell.NewClient(dell.Config{
		AuthURL:      config.GetString("dell.authURL"),
		APIURL:       config.GetString("dell.apiURL"),
		ClientID:     config.GetString("dell.clientID"),
		ClientSecret: config.GetString("dell.clientSecret"),
		CacheTTL:     config.GetDuration("cache.ttl"),
		Timeout:      config.GetDuration("http.timeout"),
		Logger:       logger.Log,
	})
	if err != nil {
		return nil, err
	}
	return service.NewEntitlementService(client, normalize.New(logger.Log)), nil
}
