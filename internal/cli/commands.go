package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/entity"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/words"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/escpos"
	infrapdf "github.com/jhoicas/invoice-gst-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/printer"
	"github.com/jhoicas/invoice-gst-engine/pkg/money"
)

// ─── words ──────────────────────────────────────────────────────────────────

func newWordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "words AMOUNT",
		Short:   "Print an amount in Indian English words",
		Example: "  invoicectl words 1234.50",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := decimal.NewFromString(args[0])
			if err != nil {
				return fmt.Errorf("%w: monto %q", domain.ErrInvalidInput, args[0])
			}
			fmt.Fprintln(cmd.OutOrStdout(), words.ToWords(amount))
			return nil
		},
	}
}

// ─── compute ────────────────────────────────────────────────────────────────

func newComputeCmd(opts *options) *cobra.Command {
	var (
		file   string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute GST totals for an invoice file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.compose(cmd, file)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(inv)
			}
			return printSummary(cmd, inv)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Invoice TOML file")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the computed invoice as JSON")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func printSummary(cmd *cobra.Command, inv *entity.Invoice) error {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Invoice: %s\nDate:    %s\nMethod:  %s\n\n", inv.Number, inv.Date.Format("02/01/2006"), inv.GSTMethod)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "#\tItem\tQty\tRate\tTaxable\tGST %\tGST\t")
	for i, it := range inv.Items {
		lc := inv.Lines[i].Rounded()
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\t%s\t%s\t%s\t\n",
			i+1, it.Name, it.Quantity, money.Format(it.UnitPrice),
			money.Format(lc.TaxableValue), money.Percent(it.GSTRate), money.Format(lc.GSTAmount))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	t := inv.Totals
	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range [][2]string{
		{"Taxable value", money.Rupees(t.TaxableValue)},
		{"CGST", money.Rupees(t.CGST)},
		{"SGST", money.Rupees(t.SGST)},
		{"GST", money.Rupees(t.GSTAmount)},
		{"Grand total", money.Rupees(t.GrandTotal)},
	} {
		fmt.Fprintf(tw, "%s:\t%s\t\n", row[0], row[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	fmt.Fprintln(out, inv.AmountInWords)
	return nil
}

// ─── pdf ────────────────────────────────────────────────────────────────────

func newPDFCmd(opts *options) *cobra.Command {
	var file, output string
	cmd := &cobra.Command{
		Use:   "pdf",
		Short: "Render an invoice file as an A4 PDF",
		RunE: func(cmd *cobra.Command, _ []string) error {
			inv, err := opts.compose(cmd, file)
			if err != nil {
				return err
			}
			doc, err := billing.NewPDFUseCase(infrapdf.NewMarotoPDFGenerator("invoicectl")).Render(cmd.Context(), inv)
			if err != nil {
				return err
			}
			if output == "" {
				output = doc.FileName
			}
			if err := os.WriteFile(output, doc.Content, 0o644); err != nil {
				return fmt.Errorf("escribir %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", output, len(doc.Content))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "Invoice TOML file")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Output path (default Invoice_<number>.pdf)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// ─── receipt ────────────────────────────────────────────────────────────────

func newReceiptCmd(opts *options) *cobra.Command {
	var (
		file, output, address string
		chunkSize, delayMS    int
	)
	cmd := &cobra.Command{
		Use:   "receipt",
		Short: "Render an invoice file as an ESC/POS receipt",
		Long: `Render an invoice file as a 32-column ESC/POS receipt. The bytes are written
to --out, or streamed to a network printer (--printer host:9100) in paced chunks.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if output == "" && address == "" {
				return fmt.Errorf("%w: indique --out o --printer", domain.ErrInvalidInput)
			}
			loc, err := time.LoadLocation(opts.timezone)
			if err != nil {
				return fmt.Errorf("%w: zona horaria %q", domain.ErrInvalidInput, opts.timezone)
			}
			inv, err := opts.compose(cmd, file)
			if err != nil {
				return err
			}
			renderer := escpos.NewReceiptRenderer(loc)

			if output != "" {
				if err := billing.ValidateInvoice(inv); err != nil {
					return err
				}
				data := renderer.FormatReceipt(inv)
				if err := os.WriteFile(output, data, 0o644); err != nil {
					return fmt.Errorf("escribir %s: %w", output, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%d bytes)\n", output, len(data))
				return nil
			}

			registry := printer.NewRegistry()
			defer registry.Close()
			if _, err := registry.Connect(cmd.Context(), address, printer.KindNetwork, address); err != nil {
				return err
			}
			uc := billing.NewPrintUseCase(renderer, registry, billing.PrintConfig{
				ChunkSize:  chunkSize,
				ChunkDelay: time.Duration(delayMS) * time.Millisecond,
			})
			if err := uc.Print(cmd.Context(), inv, address); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "printed %s on %s\n", inv.Number, address)
			return nil
		},
	}
	def := billing.DefaultPrintConfig()
	cmd.Flags().StringVarP(&file, "file", "f", "", "Invoice TOML file")
	cmd.Flags().StringVarP(&output, "out", "o", "", "Write the ESC/POS bytes to this file")
	cmd.Flags().StringVar(&address, "printer", "", "Network printer address (host:port)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", def.ChunkSize, "Bytes per write")
	cmd.Flags().IntVar(&delayMS, "chunk-delay-ms", int(def.ChunkDelay/time.Millisecond), "Pause between writes")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// compose lee el archivo y calcula la factura.
func (o *options) compose(cmd *cobra.Command, path string) (*entity.Invoice, error) {
	f, err := LoadInvoiceFile(path)
	if err != nil {
		return nil, err
	}
	req, err := f.Request()
	if err != nil {
		return nil, err
	}
	uc, closer, err := o.useCase(cmd.Context())
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return uc.Compose(cmd.Context(), req)
}
