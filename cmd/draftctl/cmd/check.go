package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/SscSPs/journal_draft_app/internal/core/domain"
	"github.com/SscSPs/journal_draft_app/internal/utils/accounting"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var tolerance string

// errNotSubmittable makes the command exit non-zero without repeating the report.
var errNotSubmittable = errors.New("draft cannot be submitted")

// draftFile is the on-disk form of a draft together with the reference data
// needed to derive it.
type draftFile struct {
	BaseCurrency string              `json:"baseCurrency" yaml:"baseCurrency"`
	Accounts     []domain.Account    `json:"accounts" yaml:"accounts"`
	Draft        domain.JournalDraft `json:"draft" yaml:"draft"`
}

// checkCmd represents the check command.
var checkCmd = &cobra.Command{
	Use:   "check <file>",
	Short: "Check that a draft balances and can be submitted",
	Long: `Reads a draft from a JSON or YAML file, prints per-line derived values and
the debit/credit totals, and fails if the draft cannot be submitted.

Example:
  draftctl check entry.yaml --tolerance 0.01`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	checkCmd.Flags().StringVar(&tolerance, "tolerance", accounting.DefaultBalanceTolerance.String(), "maximum debit/credit difference accepted as balanced")
}

func runCheck(cmd *cobra.Command, args []string) error {
	tol, err := decimal.NewFromString(tolerance)
	if err != nil {
		return fmt.Errorf("invalid --tolerance %q: %w", tolerance, err)
	}

	file, err := loadDraftFile(args[0])
	if err != nil {
		return err
	}
	slog.Debug("Loaded draft file", "path", args[0], "lines", len(file.Draft.Lines))

	if ok := writeReport(cmd.OutOrStdout(), file, tol); !ok {
		return errNotSubmittable
	}
	return nil
}

func loadDraftFile(path string) (draftFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return draftFile{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var file draftFile
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(raw, &file)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(raw, &file)
	default:
		return draftFile{}, fmt.Errorf("unsupported draft file type %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
	if err != nil {
		return draftFile{}, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	if file.BaseCurrency == "" {
		return draftFile{}, fmt.Errorf("%s: baseCurrency is required", path)
	}
	return file, nil
}

// writeReport prints the derived view of the draft and reports whether it
// passes the submission checks.
func writeReport(w io.Writer, file draftFile, tol decimal.Decimal) bool {
	refs := accounting.NewReferences(file.BaseCurrency, file.Accounts)
	view := accounting.Project(file.Draft, refs, tol)

	fmt.Fprintf(w, "%-3s %-8s %-12s %14s %-4s %10s %10s\n", "#", "SIDE", "ACCOUNT", "AMOUNT", "CCY", "QTY", "UNIT PRICE")
	for i, line := range file.Draft.Lines {
		amount, _ := accounting.ParseAmount(line.Amount)
		qty := "-"
		if view.Lines[i].QuantityEnabled && line.MaterialQuantity != "" {
			qty = line.MaterialQuantity + " " + line.UnitOfMeasure
		}
		price := view.Lines[i].UnitPrice
		if price == "" {
			price = "-"
		}
		fmt.Fprintf(w, "%-3d %-8s %-12s %14s %-4s %10s %10s\n",
			i+1, line.Side, line.AccountID, amount.StringFixed(2), line.CurrencyCode, qty, price)
	}

	b := view.Balance
	fmt.Fprintf(w, "\nDebit:  %s\nCredit: %s\n", b.TotalDebit.StringFixed(2), b.TotalCredit.StringFixed(2))

	_, _, err := accounting.PrepareSubmission(file.Draft.Lines, refs, tol)
	if err != nil {
		fmt.Fprintf(w, "NOT READY: %v\n", err)
		return false
	}
	fmt.Fprintln(w, "READY: draft balances and every line has an account")
	return true
}
