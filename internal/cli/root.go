// Package cli comandos de invoicectl: montos en letras, cálculo y renders de
// facturas descritas en TOML, sin servidor.
package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/jhoicas/invoice-gst-engine/internal/application/billing"
	"github.com/jhoicas/invoice-gst-engine/internal/domain/tax"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/sequence"
	"github.com/jhoicas/invoice-gst-engine/internal/infrastructure/sqlite"
	"github.com/jhoicas/invoice-gst-engine/pkg/logger"
)

// options banderas globales.
type options struct {
	logLevel    string
	counterPath string
	sequenceURL string
	timezone    string
}

// NewRootCommand arma el árbol de comandos. Cada llamada devuelve un árbol nuevo.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "invoicectl",
		Short: "GST invoice engine: amounts in words, totals, PDF and ESC/POS receipts",
		Long: `invoicectl computes Indian GST invoices described in TOML files and renders
them as an A4 PDF or as a 58mm ESC/POS thermal receipt.

Invoice numbers are allocated from the remote sequence service (--sequence-url)
or from a local counter (--counter) when the file does not carry one.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			logger.New(logger.Config{Env: "development", Level: opts.logLevel, Out: cmd.ErrOrStderr()})
		},
	}

	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.counterPath, "counter", "", "SQLite file for the local invoice counter")
	root.PersistentFlags().StringVar(&opts.sequenceURL, "sequence-url", "", "Base URL of the remote sequence service")
	root.PersistentFlags().StringVar(&opts.timezone, "tz", "Asia/Kolkata", "Time zone for receipt timestamps")

	root.AddCommand(
		newWordsCmd(),
		newComputeCmd(opts),
		newPDFCmd(opts),
		newReceiptCmd(opts),
	)
	return root
}

// Execute punto de entrada de cmd/invoicectl.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

// useCase arma el caso de uso con los niveles de numeración configurados.
// El cierre devuelto libera el contador local.
func (o *options) useCase(ctx context.Context) (*billing.CreateInvoiceUseCase, io.Closer, error) {
	var remote billing.SequenceAllocator
	if o.sequenceURL != "" {
		remote = sequence.NewClient(o.sequenceURL, 0)
	}

	var (
		local  billing.CounterStore
		closer io.Closer = nopCloser{}
	)
	if o.counterPath != "" {
		store, err := sqlite.Open(ctx, o.counterPath)
		if err != nil {
			return nil, nil, err
		}
		local, closer = store, store
	}

	var allocator *billing.NumberAllocator
	if remote != nil || local != nil {
		allocator = billing.NewNumberAllocator(remote, local)
	}
	return billing.NewCreateInvoiceUseCase(tax.NewEngine(), allocator, nil), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
