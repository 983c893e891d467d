package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cltpj/cltpj/internal/cli"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/history"
	"github.com/cltpj/cltpj/internal/money"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List simulations saved to your account",
	}
	cmd.AddCommand(historyListCmd())
	return cmd
}

func historyListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show saved simulations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := newSessionStore(ctx, store)
			if err != nil {
				return err
			}

			if sessions.Current() == nil {
				fmt.Println(cli.FormatWarning("Not signed in. History lives on your account; run 'cltpj auth login' first."))
				return nil
			}

			simClient, err := gateway.NewSimulationClient(apiConfig())
			if err != nil {
				return err
			}

			bridge := history.NewBridge(simClient, store, slog.Default())
			records := bridge.FetchHistory(ctx, sessions.Current())
			if len(records) == 0 {
				fmt.Println(cli.FormatWarning("No saved simulations yet. Run 'cltpj simulate --save' to keep one."))
				return nil
			}

			fmt.Println(cli.FormatTitle("Histórico de simulações"))
			for _, rec := range records {
				fmt.Printf("  %s  CLT %s  PJ %s  %s\n",
					rec.CreatedAt.Local().Format("02/01/2006 15:04"),
					money.FormatDecimal(rec.NetPayCLT),
					money.FormatDecimal(rec.NetPayPJ),
					rec.Verdict)
			}
			return nil
		},
	}
}
