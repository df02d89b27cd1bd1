// =============================================================================
// Sales Sync - Outlets Command
// =============================================================================
//
// This file defines the outlet reconciliation commands. Ingestion only ever
// inserts outlets; linking an outlet to its legal entity, outlet identity and
// territory happens here.
//
// COMMAND USAGE:
//   salesync outlets unmapped             List outlets without an outlet id
//   salesync outlets import --file path   Apply links from a CSV file
//
// IMPORT FILE COLUMNS:
//   Outlet Code, comid, Outid, MRID
//
//   Every referenced comid, Outid and MRID must already exist in the outlet
//   registry. If any does not, nothing is updated.
//
// =============================================================================

package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/salesync/internal/outlet"
)

var outletsImportFile string

var outletsCmd = &cobra.Command{
	Use:   "outlets",
	Short: "Reconcile registered outlets",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

var outletsUnmappedCmd = &cobra.Command{
	Use:   "unmapped",
	Short: "List outlets that have no outlet id yet",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		st, err := openStore(cmd.Context(), rt.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		outlets, err := st.UnmappedOutlets(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "CODE\tDISTRIBUTOR\tOUTLET\tCITY\tMRID\tMR")
		for _, o := range outlets {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				o.Code, o.Distributor, o.Name, o.City, deref(o.MRID), deref(o.MRName))
		}
		if err := w.Flush(); err != nil {
			return err
		}

		fmt.Printf("\n%d unmapped outlet(s)\n", len(outlets))
		return nil
	},
}

var outletsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Apply outlet links from a CSV file",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := loadRuntime()
		if err != nil {
			return err
		}
		defer rt.close()

		st, err := openStore(cmd.Context(), rt.logger)
		if err != nil {
			return err
		}
		defer st.Close()

		updated, err := outlet.ImportLinks(cmd.Context(), st, outletsImportFile)
		if err != nil {
			return err
		}

		rt.logger.WithField("file", outletsImportFile).Infof("Updated %d outlets.", updated)
		fmt.Printf("Updated %d outlet(s)\n", updated)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(outletsCmd)
	outletsCmd.AddCommand(outletsUnmappedCmd)
	outletsCmd.AddCommand(outletsImportCmd)

	outletsImportCmd.Flags().StringVar(&outletsImportFile, "file", "", "CSV file with Outlet Code, comid, Outid and MRID columns")
	outletsImportCmd.MarkFlagRequired("file")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
