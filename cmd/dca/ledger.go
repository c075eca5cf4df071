// cmd/dca/ledger.go
package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func ledgerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Lihat, ekspor, dan kelola ledger reserves",
	}
	cmd.AddCommand(ledgerListCmd())
	cmd.AddCommand(ledgerExportCmd())
	cmd.AddCommand(ledgerRemoveCmd())
	return cmd
}

func ledgerListCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "Ranking sumur berdasarkan reserves (terbesar dulu)",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd.Context())
			defer a.Close()

			rows := a.Reserves.Ledger.Export()
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), rows)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "WELL\tMODEL\tB\tRESERVES\tEUR\tCUTOFF\tSTATUS")
			for _, r := range rows {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
					r.WellID, r.Model, r.B, r.Reserves, r.EUR, r.CutoffDate, r.Status)
			}
			if len(rows) == 0 {
				fmt.Fprintln(tw, "(ledger kosong)")
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "jumlah baris maksimum (0 = semua)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "output JSON")
	return cmd
}

func ledgerExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Ekspor ledger sebagai CSV ke stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd.Context())
			defer a.Close()
			return a.Reserves.Ledger.WriteCSV(cmd.OutOrStdout())
		},
	}
}

func ledgerRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <well_id>",
		Short: "Hapus satu sumur dari ledger",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := newApp(cmd.Context())
			defer a.Close()

			id := strings.TrimSpace(args[0])
			ok, err := a.Reserves.Remove(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("well %s not in ledger", id)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "removed", id)
			return nil
		},
	}
}

func wellsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "wells",
		Short: "Daftar well_id yang punya histori produksi",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := newApp(cmd.Context())
			defer a.Close()
			if a.Reserves.Rates == nil {
				return fmt.Errorf("database not configured (DB_DSN or MYSQL_HOST)")
			}
			wells, err := a.Reserves.Rates.ListWells(cmd.Context())
			if err != nil {
				return err
			}
			for _, w := range wells {
				fmt.Fprintln(cmd.OutOrStdout(), w)
			}
			return nil
		},
	}
}
