package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cltpj/cltpj/internal/benefits"
	"github.com/cltpj/cltpj/internal/cli"
	"github.com/cltpj/cltpj/internal/common"
	"github.com/cltpj/cltpj/internal/engine"
	"github.com/cltpj/cltpj/internal/export"
	"github.com/cltpj/cltpj/internal/gateway"
	"github.com/cltpj/cltpj/internal/history"
	"github.com/cltpj/cltpj/internal/model"
	"github.com/cltpj/cltpj/internal/money"
	"github.com/cltpj/cltpj/internal/report"
)

type simulateFlags struct {
	salaryCLT   string
	salaryPJ    string
	taxRegime   string
	reservePct  int
	benefitsCLT []string
	benefitsPJ  []string
	save        bool
	pdfPath     string
	xlsxPath    string
}

func simulateCmd() *cobra.Command {
	var flags simulateFlags

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Run a CLT vs PJ comparison",
		Long: `Sends your numbers to the simulation service and prints the
side-by-side comparison. Amounts are typed the Brazilian way, digits fill
cents from the right: 500000 means 5.000,00.

Benefits are repeatable "Nome=valor" pairs:

  cltpj simulate --salario-clt 500000 --salario-pj 650000 \
    --beneficio-clt "Vale Refeição=80000" --beneficio-clt "Plano de Saúde=45000"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSimulate(cmd.Context(), flags)
		},
	}

	cmd.Flags().StringVar(&flags.salaryCLT, "salario-clt", "", "gross CLT salary (digits, cents fill from the right)")
	cmd.Flags().StringVar(&flags.salaryPJ, "salario-pj", "", "gross PJ billing (digits, cents fill from the right)")
	cmd.Flags().StringVar(&flags.taxRegime, "regime", model.RegimeSimplesNacional, "PJ tax regime")
	cmd.Flags().IntVar(&flags.reservePct, "reserva", 10, "emergency reserve percentage (0-100)")
	cmd.Flags().StringArrayVar(&flags.benefitsCLT, "beneficio-clt", nil, "CLT benefit as Nome=valor (repeatable)")
	cmd.Flags().StringArrayVar(&flags.benefitsPJ, "beneficio-pj", nil, "PJ benefit as Nome=valor (repeatable)")
	cmd.Flags().BoolVar(&flags.save, "save", false, "save the result to the account history (requires sign-in)")
	cmd.Flags().StringVar(&flags.pdfPath, "pdf", "", "also write the result to a PDF file")
	cmd.Flags().StringVar(&flags.xlsxPath, "xlsx", "", "also write the result to an XLSX spreadsheet")

	return cmd
}

func runSimulate(ctx context.Context, flags simulateFlags) error {
	benefitsCLT, err := parseBenefitPairs(flags.benefitsCLT)
	if err != nil {
		return err
	}
	benefitsPJ, err := parseBenefitPairs(flags.benefitsPJ)
	if err != nil {
		return err
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	sessions, err := newSessionStore(ctx, store)
	if err != nil {
		return err
	}

	simClient, err := gateway.NewSimulationClient(apiConfig())
	if err != nil {
		return err
	}

	coord := engine.NewCoordinator(simClient, sessions, slog.Default())
	coord.SetSalaryCLT(flags.salaryCLT)
	coord.SetSalaryPJ(flags.salaryPJ)
	coord.SetTaxRegime(flags.taxRegime)
	coord.SetReservePct(flags.reservePct)
	coord.SetBenefitsCLT(benefitsCLT)
	coord.SetBenefitsPJ(benefitsPJ)

	if err := coord.Validate(); err != nil {
		var vErr *common.ValidationError
		if errors.As(err, &vErr) {
			fmt.Println(cli.FormatError(vErr.Error()))
		}
		return err
	}

	spinnerDone := startSpinner("Consultando o servidor...")
	result, err := coord.Submit(ctx)
	spinnerDone()
	if err != nil {
		switch {
		case errors.Is(err, common.ErrInvalidResponse):
			fmt.Println(cli.FormatError("The server answered but the response was not usable. Try again later."))
		case errors.Is(err, common.ErrRequestFailed):
			fmt.Println(cli.FormatError("Could not reach the simulation service."))
		}
		return err
	}

	printResult(result)
	draft := coord.Draft()
	cacheLastResult(ctx, store, result, &draft)

	if flags.save {
		bridge := history.NewBridge(simClient, store, slog.Default())
		if err := bridge.Save(ctx, result, &draft, sessions.Current()); err != nil {
			if errors.Is(err, common.ErrUnauthenticated) {
				fmt.Println(cli.FormatWarning("Not signed in, so the result was not saved. Run 'cltpj auth login' first."))
			} else {
				fmt.Println(cli.FormatWarning("The result could not be saved to your history."))
			}
		} else {
			fmt.Println(cli.FormatSuccess("Saved to your history."))
		}
	}

	rows := report.FieldRows(result)
	if flags.pdfPath != "" {
		if err := export.WritePDF(flags.pdfPath, "Comparativo CLT x PJ", rows); err != nil {
			return fmt.Errorf("failed to write PDF: %w", err)
		}
		fmt.Println(cli.FormatSuccess("PDF written to " + flags.pdfPath))
	}
	if flags.xlsxPath != "" {
		if err := export.WriteXLSX(flags.xlsxPath, rows); err != nil {
			return fmt.Errorf("failed to write spreadsheet: %w", err)
		}
		fmt.Println(cli.FormatSuccess("Spreadsheet written to " + flags.xlsxPath))
	}

	return nil
}

// parseBenefitPairs turns repeated "Nome=valor" flags into a benefit
// collection, rejecting malformed pairs before anything hits the network.
func parseBenefitPairs(pairs []string) (model.BenefitCollection, error) {
	var col model.BenefitCollection
	for _, pair := range pairs {
		name, raw, found := strings.Cut(pair, "=")
		name = strings.TrimSpace(name)
		if !found || name == "" {
			return col, common.NewValidationError("beneficio", fmt.Sprintf("%q is not in the Nome=valor form", pair))
		}
		if name == benefits.CustomIndicator {
			return col, common.NewValidationError("beneficio", fmt.Sprintf("%q is a selection label, give the benefit a real name", name))
		}
		if !money.IsPositive(raw) {
			return col, common.NewValidationError("beneficio", fmt.Sprintf("%q needs a positive value", name))
		}
		col = benefits.AddCustom(col, name, raw)
	}
	return col, nil
}

func printResult(result *model.SimulationResult) {
	fmt.Println(cli.RenderFieldTable("Comparativo CLT x PJ", report.FieldRows(result)))

	verdict := history.Verdict(result.NetCLT(), result.NetPayPJ)
	fmt.Println(cli.FormatTitle(verdict))

	for _, s := range report.ChartSeries(result) {
		fmt.Printf("  %-4s líquido %s · benefícios %s · reserva %s\n",
			s.Regime,
			money.FormatDecimal(s.NetPay),
			money.FormatDecimal(s.Benefits),
			money.FormatDecimal(s.Reserve))
	}
}

// startSpinner shows an indefinite spinner until the returned stop
// function is called.
func startSpinner(description string) func() {
	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetDescription("[cyan]"+description+"[reset]"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				_ = bar.Finish()
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	return func() {
		close(done)
		<-finished
	}
}
