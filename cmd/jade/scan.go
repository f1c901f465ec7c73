package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jade/jadeos/internal/scanner"
	"github.com/jade/jadeos/internal/service"
)

var scanFlags = service.DefaultScanForm()
var scanOut string

var scanCmd = &cobra.Command{
	Use:   "scan <keyword>",
	Short: "Run one product scan and export the filtered set as CSV",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := setup(nil)
		if err != nil {
			return err
		}
		defer rt.close()

		form := scanFlags
		form.Keyword = strings.Join(args, " ")
		out := rt.svc.Scan(cmd.Context(), form)
		fmt.Fprintln(cmd.OutOrStdout(), out.Notice.Message)
		if out.Notice.Failed() {
			return out.Notice.Err()
		}

		w := cmd.OutOrStdout()
		for _, p := range out.Products {
			row := scanner.Row(p)
			fmt.Fprintf(w, "%-40.40s %10s %7s %s\n", row[0], row[1]+" "+p.Currency, row[2], p.Region)
		}
		fmt.Fprintf(w, "total %d  avg price %.2f  total sold %d\n", out.Summary.Total, out.Summary.AvgPrice, out.Summary.TotalSold)

		_, n := rt.svc.Export(scanOut, out)
		fmt.Fprintln(w, n.Message)
		if n.Failed() {
			return n.Err()
		}
		return nil
	},
}

func init() {
	f := scanCmd.Flags()
	f.StringSliceVar(&scanFlags.Regions, "regions", scanFlags.Regions, "region codes to scan (BR,SG,MY,TH,VN,PH,ID)")
	f.IntVar(&scanFlags.Limit, "limit", scanFlags.Limit, "max products per region")
	f.IntVar(&scanFlags.MinSold, "min-sold", scanFlags.MinSold, "drop products with fewer sales")
	f.StringVar(&scanOut, "out", ".", "directory for the CSV export")
}
