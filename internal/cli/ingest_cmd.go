package cli

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/revint/internal/cli/formatter"
)

func newIngestCmd(app *App) *cobra.Command {
	var patientsPath, billingPath string

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Upload patient and billing records for anomaly detection",
		RunE: func(cmd *cobra.Command, args []string) error {
			patients, err := readRecords(patientsPath, "patients")
			if err != nil {
				return err
			}
			var billing []map[string]any
			if billingPath != "" {
				if billing, err = readRecords(billingPath, "billing"); err != nil {
					return err
				}
			}

			ctx := cmd.Context()
			ctrl := app.controller(app.Options)
			if err := app.requireSession(ctx, ctrl); err != nil {
				return err
			}

			stop := app.spinner(cmd, "Uploading records...")
			v, err := ctrl.Ingest(ctx, patients, billing)
			stop()
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatIngest(v))
			return nil
		},
	}

	cmd.Flags().StringVar(&patientsPath, "patients", "", "JSON file with patient records")
	cmd.Flags().StringVar(&billingPath, "billing", "", "JSON file with billing records")
	_ = cmd.MarkFlagRequired("patients")

	return cmd
}

// readRecords loads a JSON array of objects, or an object holding that
// array under key.
func readRecords(path, key string) ([]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}

	var records []map[string]any
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("parsing %s file %s: %w", key, path, err)
	}
	raw, ok := wrapped[key]
	if !ok {
		return nil, fmt.Errorf("parsing %s file %s: expected an array or an object with %q", key, path, key)
	}
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("parsing %s file %s: %w", key, path, err)
	}
	return records, nil
}
