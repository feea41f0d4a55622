package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/assetops/entitlements/csvio"
	"github.com/assetops/entitlements/model"
)

var (
	processOutputFile  string
	processConcurrency int
)

var processCmd = &cobra.Command{
	Use:   "process <input.csv>",
	Short: "Process a CSV of assets and export their entitlement information",
	Long: `Read an asset list (required columns: Name and Asset Tag; optional:
Warranty, Acquisition Date, Warranty Expiry Date), look up entitlements for
each asset, and write the flattened results to a CSV file. Assets that fail
to resolve are logged and skipped.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		inputFile := args[0]

		assets, err := csvio.ReadAssetListFile(inputFile)
		if err != nil {
			return err
		}
		if len(assets) == 0 {
			fmt.Println("No assets found in the input file.")
			return nil
		}

		svc, err := buildService()
		if err != nil {
			return err
		}

		records := svc.ProcessAssets(context.Background(), assets, processConcurrency)

		if err := csvio.WriteRecordsFile(processOutputFile, records, model.ExportColumns(true, true)); err != nil {
			return err
		}

		fmt.Printf("Successfully processed %d assets and exported %d records to %s\n",
			len(assets), len(records), processOutputFile)
		return nil
	},
}

func init() {
	processCmd.Flags().StringVarP(&processOutputFile, "output", "o", "entitlements.csv", "Output CSV file")
	processCmd.Flags().IntVar(&processConcurrency, "concurrency", 4, "Number of assets processed in parallel")
	rootCmd.AddCommand(processCmd)
}
