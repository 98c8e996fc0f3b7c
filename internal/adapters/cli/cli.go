package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"fieldops/internal/app"
	"fieldops/internal/core"
)

const usage = "Available: availability [date], utilization <member> [week], overdue, invoices [status], draft \"<description>\", flags"

// Run executes a one-shot CLI command, writing its report to out.
// args is os.Args[1:]; the first element is the subcommand name.
func Run(ctx context.Context, svc app.ApplicationService, args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("missing command\n%s", usage)
	}

	switch args[0] {
	case "availability", "avail", "a":
		date := ""
		if len(args) > 1 {
			date = args[1]
		}
		result, err := svc.Availability(ctx, date)
		if err != nil {
			return fmt.Errorf("availability: %w", err)
		}
		printAvailability(out, result)

	case "utilization", "util", "u":
		if len(args) < 2 {
			return fmt.Errorf("usage: app utilization <member-id> [YYYY-MM-DD]")
		}
		week := ""
		if len(args) > 2 {
			week = args[2]
		}
		result, err := svc.Utilization(ctx, args[1], week)
		if err != nil {
			return fmt.Errorf("utilization: %w", err)
		}
		r := result.Report
		fmt.Fprintf(out, "%s  %s → %s  %.1fh of %.0fh  %.1f%%\n",
			r.MemberID, r.WeekStart.Format("2006-01-02"), r.WeekEnd.Format("2006-01-02"),
			r.BookedHours, r.CapacityHours, r.Percent)

	case "overdue":
		result, err := svc.ListInvoices(ctx, app.ListRequest{Status: string(core.InvoiceOverdue)})
		if err != nil {
			return fmt.Errorf("overdue invoices: %w", err)
		}
		printInvoices(out, "OVERDUE INVOICES", result)

	case "invoices", "inv":
		req := app.ListRequest{}
		if len(args) > 1 {
			req.Status = args[1]
		}
		result, err := svc.ListInvoices(ctx, req)
		if err != nil {
			return fmt.Errorf("invoices: %w", err)
		}
		printInvoices(out, "INVOICES", result)

	case "draft":
		if len(args) < 2 {
			return fmt.Errorf("usage: app draft \"<job description>\"")
		}
		result, err := svc.DraftQuote(ctx, app.DraftQuoteRequest{Description: args[1]})
		if err != nil {
			return fmt.Errorf("draft: %w", err)
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)

	case "flags":
		for _, f := range svc.Flags() {
			fmt.Fprintf(out, "%-28s %v\n", f.Key, f.Enabled)
		}

	default:
		return fmt.Errorf("unknown command: %s\n%s", args[0], usage)
	}
	return nil
}

func printAvailability(out io.Writer, result *app.AvailabilityResult) {
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  TEAM AVAILABILITY  %s\n", result.Date)
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-20s %-10s %s\n", "MEMBER", "AVAILABLE", "CONFLICTS")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 58))
	for _, row := range result.Members {
		ids := make([]string, len(row.Conflicts))
		for i, j := range row.Conflicts {
			ids[i] = j.ID
		}
		avail := "no"
		if row.Available {
			avail = "yes"
		}
		fmt.Fprintf(out, "  %-20s %-10s %s\n", row.Member.Name, avail, strings.Join(ids, ", "))
	}
}

func printInvoices(out io.Writer, title string, result *app.InvoiceListResult) {
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %s\n", title)
	fmt.Fprintln(out, strings.Repeat("=", 62))
	fmt.Fprintf(out, "  %-16s %-14s %-10s %15s\n", "NUMBER", "STATUS", "DUE", "BALANCE")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 58))
	for _, r := range result.Invoices {
		fmt.Fprintf(out, "  %-16s %-14s %-10s %15s\n",
			r.Invoice.InvoiceNumber, r.EffectiveStatus, r.Invoice.DueDate.Format("2006-01-02"), r.Invoice.Balance.StringFixed(2))
	}
	fmt.Fprintf(out, "  %d invoice(s)\n", len(result.Invoices))
}
