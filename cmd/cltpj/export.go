package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cltpj/cltpj/internal/cli"
	"github.com/cltpj/cltpj/internal/export"
	"github.com/cltpj/cltpj/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the last simulation to a file",
		Long: `Writes the most recent simulation of this machine to a PDF or XLSX
file. The result is cached locally after every successful 'cltpj simulate',
so exporting does not need the network or a signed-in session.`,
	}
	cmd.AddCommand(exportPDFCmd())
	cmd.AddCommand(exportXLSXCmd())
	return cmd
}

func exportPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <file>",
		Short: "Write the last simulation as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cached, err := loadLastResult(ctx, store)
			if err != nil {
				return err
			}

			rows := report.FieldRows(cached.Result)
			if err := export.WritePDF(args[0], "Comparativo CLT x PJ", rows); err != nil {
				return fmt.Errorf("failed to write PDF: %w", err)
			}
			fmt.Println(cli.FormatSuccess("PDF written to " + args[0]))
			return nil
		},
	}
}

func exportXLSXCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "xlsx <file>",
		Short: "Write the last simulation as a spreadsheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			cached, err := loadLastResult(ctx, store)
			if err != nil {
				return err
			}

			rows := report.FieldRows(cached.Result)
			if err := export.WriteXLSX(args[0], rows); err != nil {
				return fmt.Errorf("failed to write spreadsheet: %w", err)
			}
			fmt.Println(cli.FormatSuccess("Spreadsheet written to " + args[0]))
			return nil
		},
	}
}
