package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/assetops/entitlements/csvio"
	"github.com/assetops/entitlements/model"
)

var checkExportFile string

var checkCmd = &cobra.Command{
	Use:   "check <service-tag>",
	Short: "Check entitlement information for a service tag",
	Long:  "Look up the warranty and entitlement information for a single service tag and display it as a table.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := args[0]

		svc, err := buildService()
		if err != nil {
			return err
		}
		ctx := context.Background()

		summary, err := svc.CheckServiceTag(ctx, tag)
		if err != nil {
			return fmt.Errorf("failed to check entitlement: %w", err)
		}

		renderSummary(summary)

		if checkExportFile != "" {
			records, err := svc.EntitlementRecords(ctx, tag)
			if err != nil {
				return fmt.Errorf("failed to export entitlement data: %w", err)
			}
			if len(records) == 0 {
				// Still produce a file with headers and one empty row.
				records = []model.Record{{}}
			}
			if err := csvio.WriteRecordsFile(checkExportFile, records, model.ExportColumns(false, false)); err != nil {
				return err
			}
			fmt.Printf("Data exported to %s\n", checkExportFile)
		}
		return nil
	},
}

func renderSummary(summary model.WarrantySummary) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Field", "Value"})
	table.Append([]string{"Service Tag", summary.ServiceTag})
	table.Append([]string{"Product Line", summary.ProductLineDescription})
	table.Append([]string{"Service Level", summary.ServiceLevelDescription})
	table.Append([]string{"Country", summary.CountryCode})
	table.Append([]string{"Start Date", summary.StartDate})
	table.Append([]string{"End Date", summary.EndDate})
	table.Append([]string{"Ship Date", summary.ShipDate})
	table.Render()
}

func init() {
	checkCmd.Flags().StringVarP(&checkExportFile, "export", "e", "", "Export the results to a CSV file")
	rootCmd.AddCommand(checkCmd)
}
