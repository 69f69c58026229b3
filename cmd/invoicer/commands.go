package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/analytics"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/export"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/core/search"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/assistant"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/models"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/modules/invoicing/services"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/config"
	"github.com/MuhamadAgungGumelar/invoicer-ai-be/internal/shared/ierr"
)

func commands(cfg *config.Config) []*cli.Command {
	return []*cli.Command{
		{
			Name:  "export",
			Usage: "export invoice history (csv, xlsx, pdf) or a full JSON backup",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "json", Usage: "json, csv, xlsx or pdf"},
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file (defaults to a dated name)"},
			},
			Action: exportAction,
		},
		{
			Name:      "import",
			Usage:     "restore a JSON backup",
			ArgsUsage: "<backup.json>",
			Action:    importAction,
		},
		{
			Name:      "pdf",
			Usage:     "render an invoice as PDF (the active invoice when no id is given)",
			ArgsUsage: "[invoice-id]",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file"},
			},
			Action: pdfAction,
		},
		{
			Name:      "ask",
			Usage:     "send a command to the AI assistant",
			ArgsUsage: "<message>",
			Action:    askAction,
		},
		{
			Name:  "report",
			Usage: "print revenue for a period or date range",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "period", Aliases: []string{"p"}, Value: "this_month"},
				&cli.StringFlag{Name: "start", Usage: "YYYY-MM-DD"},
				&cli.StringFlag{Name: "end", Usage: "YYYY-MM-DD"},
			},
			Action: reportAction,
		},
		{
			Name:  "list",
			Usage: "list invoices",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "status", Aliases: []string{"s"}, Usage: "draft or saved"},
				&cli.StringFlag{Name: "search", Aliases: []string{"q"}, Usage: "fuzzy search text"},
				&cli.StringFlag{Name: "fields", Value: "id,client.name,status,date", Usage: "comma separated fields to search"},
			},
			Action: func(c *cli.Context) error { return listAction(c, cfg) },
		},
		{
			Name:  "backup",
			Usage: "write a dated backup file into the backup folder",
			Action: func(c *cli.Context) error {
				path, err := moduleFrom(c).Store.WriteBackup(cfg.BackupDir)
				if err != nil {
					return cli.Exit(ierr.UserMessage(err), 1)
				}
				fmt.Fprintln(c.App.Writer, path)
				return nil
			},
		},
	}
}

func exportAction(c *cli.Context) error {
	store := moduleFrom(c).Store
	now := store.Now()
	format := strings.ToLower(c.String("format"))

	var (
		data []byte
		name string
		err  error
	)
	if format == "json" {
		name = services.BackupFileName(now)
		data, err = json.MarshalIndent(store.ExportBackup(), "", "  ")
	} else {
		exp, ok := export.ParseFormat(format)
		if !ok {
			return cli.Exit(fmt.Sprintf("unsupported format %q", format), 2)
		}
		exports := moduleFrom(c).Exports
		name = fmt.Sprintf("invoice_history_%s%s", now.Format("2006-01-02"), exports.GetFileExtension(exp))
		data, _, err = exports.ExportTable("Invoice History", store.HistoryTable(), exp, now)
	}
	if err != nil {
		return err
	}
	return writeOutput(c, c.String("out"), name, data)
}

func importAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("usage: invoicer import <backup.json>", 2)
	}
	data, err := os.ReadFile(c.Args().First())
	if err != nil {
		return err
	}

	result, err := moduleFrom(c).Store.ImportBackup(c.Context, data)
	fmt.Fprintf(c.App.Writer, "imported %d clients, %d products, %d invoices (%d failed)\n",
		result.Clients, result.Products, result.Invoices, result.Failed)
	if err != nil {
		return cli.Exit(ierr.UserMessage(err), 1)
	}
	return nil
}

func pdfAction(c *cli.Context) error {
	m := moduleFrom(c)
	pdf, name, err := m.Store.RenderInvoicePDF(c.Context, m.Exports, c.Args().First())
	if err != nil {
		return cli.Exit(ierr.UserMessage(err), 1)
	}
	return writeOutput(c, c.String("out"), name, pdf)
}

func askAction(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")
	session := assistant.NewSession(moduleFrom(c).Dispatcher, nil)

	out, err := session.Send(c.Context, text, assistant.ModeChat)
	if err != nil {
		return cli.Exit("Error: "+ierr.UserMessage(err), 1)
	}
	fmt.Fprintln(c.App.Writer, out.Response)
	if out.Navigation != nil {
		fmt.Fprintf(c.App.Writer, "-> %s\n", out.Navigation.Screen)
	}
	return nil
}

func reportAction(c *cli.Context) error {
	store := moduleFrom(c).Store

	var r *analytics.DateRange
	if c.IsSet("start") || c.IsSet("end") {
		var err error
		if r, err = analytics.ParseDateRange(c.String("start"), c.String("end")); err != nil {
			return cli.Exit(err.Error(), 2)
		}
	} else {
		r = analytics.GetDateRange(c.String("period"), store.Now())
	}

	report := store.Report(r)
	w := c.App.Writer
	fmt.Fprintf(w, "Total revenue: %s (%d invoices)\n", store.FormatCurrency(report.TotalRevenue), report.InvoiceCount)
	printBuckets(w, "Top clients", report.TopClients, store.FormatCurrency)
	printBuckets(w, "Top categories", report.TopCategories, store.FormatCurrency)
	return nil
}

func printBuckets(w io.Writer, title string, buckets []analytics.Bucket, money analytics.Formatter) {
	if len(buckets) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, b := range buckets {
		fmt.Fprintf(tw, "  %s\t%s\t%d\n", b.Key, money(b.Total), b.Count)
	}
	tw.Flush()
}

func listAction(c *cli.Context, cfg *config.Config) error {
	store := moduleFrom(c).Store

	var invoices []models.Invoice
	switch c.String("status") {
	case "":
		invoices = store.Invoices()
	case string(models.StatusDraft):
		invoices = store.Drafts()
	case string(models.StatusSaved):
		invoices = store.History()
	default:
		return cli.Exit("status must be draft or saved", 2)
	}

	searcher := search.NewSearcher(invoices, search.ParseFields(c.String("fields")),
		search.WithDelay[models.Invoice](cfg.SearchDebounce))
	defer searcher.Close()
	searcher.SetQuery(c.String("search"))
	searcher.Flush()

	settings := store.CompanySettings()
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tCLIENT\tSTATUS\tTOTAL")
	for _, inv := range searcher.Results() {
		t := services.ComputeTotals(inv, settings)
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", inv.ID, inv.DateOnly(), inv.Client.Name, inv.Status,
			services.FormatCurrency(t.Total, inv.Currency, store.Locale()))
	}
	return tw.Flush()
}

func writeOutput(c *cli.Context, out, name string, data []byte) error {
	if out == "-" {
		_, err := c.App.Writer.Write(data)
		return err
	}
	if out == "" {
		out = name
	}
	if err := os.WriteFile(out, data, 0o644); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}
