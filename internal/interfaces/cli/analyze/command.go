// Package analyze scores an offline ticket export without touching the network.
package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/dto"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/application/assist/usecases"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/classify"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/risk"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/insight/rules"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/domain/ticket"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/infrastructure/zendesk"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/biztime"
	"github.com/ymjiot-spec/zendesk-yoyaku/internal/shared/i18n"
)

const (
	FormatJSON = "json"
	FormatText = "text"
)

type options struct {
	file      string
	rulesFile string
	locale    string
	format    string
	minLength int
	timezone  string
}

// Report is the analysis result for one export.
type Report struct {
	Customer dto.CustomerRiskView `json:"customer"`
	Tickets  []TicketReport       `json:"tickets"`
	Skipped  int                  `json:"skipped"`
}

type TicketReport struct {
	Ticket  dto.TicketView  `json:"ticket"`
	Summary dto.SummaryView `json:"summary"`
}

func NewCommand() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Score an offline ticket export",
		Long: `Run keyword risk scoring, the customer aggregate and heuristic summaries over a
JSON ticket export ({"tickets": [...]}). No support desk or model calls are made.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.OutOrStdout(), opts, time.Now())
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Ticket export JSON file")
	cmd.Flags().StringVar(&opts.rulesFile, "rules", "", "Rule set YAML file (built-in rules when empty)")
	cmd.Flags().StringVar(&opts.locale, "locale", "ja", "Output locale (ja, en)")
	cmd.Flags().StringVar(&opts.format, "format", FormatJSON, "Output format (json, text)")
	cmd.Flags().IntVar(&opts.minLength, "min-length", classify.DefaultMinLength, "Minimum comment length kept in summaries")
	cmd.Flags().StringVar(&opts.timezone, "timezone", biztime.DefaultTimezone, "Timezone used for displayed dates")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func run(out io.Writer, opts *options, now time.Time) error {
	if opts.format != FormatJSON && opts.format != FormatText {
		return fmt.Errorf("unsupported format %q", opts.format)
	}
	if err := biztime.Init(opts.timezone); err != nil {
		return err
	}

	rs, err := rules.Load(opts.rulesFile)
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	f, err := os.Open(opts.file)
	if err != nil {
		return fmt.Errorf("failed to open export: %w", err)
	}
	defer f.Close()

	tickets, skipped, err := zendesk.DecodeExport(f)
	if err != nil {
		return err
	}

	report := Analyze(tickets, usecases.NewInsight(rs, opts.minLength), i18n.New(opts.locale), now)
	report.Skipped = skipped

	if opts.format == FormatText {
		return writeText(out, report)
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(report)
}

// Analyze scores every ticket, builds its heuristic digest and aggregates the customer.
// Tickets are reported newest first.
func Analyze(tickets []*ticket.Ticket, insight *usecases.Insight, loc *i18n.Localizer, now time.Time) Report {
	scorer := insight.Scorer(loc)
	assembler := insight.Assembler(loc)

	ticket.SortByCreatedDesc(tickets)

	report := Report{Tickets: make([]TicketReport, 0, len(tickets))}
	for _, t := range tickets {
		t.SetRiskAnalysis(scorer.Score(t))
		summary := assembler.Assemble(t)
		report.Tickets = append(report.Tickets, TicketReport{
			Ticket:  dto.ToTicketView(t, loc),
			Summary: dto.ToSummaryView(t.ID(), summary, t.RiskAnalysis(), loc),
		})
	}
	report.Customer = dto.ToCustomerRiskView(risk.Aggregate(tickets, now, loc))
	return report
}

func writeText(out io.Writer, report Report) error {
	var sb strings.Builder
	c := report.Customer
	fmt.Fprintf(&sb, "%s (%d) %s\n", c.LevelText, c.Score, c.Details)
	for _, tr := range report.Tickets {
		tv, sv := tr.Ticket, tr.Summary
		fmt.Fprintf(&sb, "\n#%s %s [%s] %s\n", tv.ID, tv.Subject, tv.StatusLabel, tv.CreatedAt)
		fmt.Fprintf(&sb, "  %s %s %d (%s)\n", tv.Risk.Icon, tv.Risk.LevelText, tv.Risk.Score, tv.Risk.Reason)
		fmt.Fprintf(&sb, "  %s\n  %s\n  %s\n", sv.Brief, sv.Trend, sv.Action)
		if sv.PrivateMemo != "" {
			fmt.Fprintf(&sb, "  %s\n", sv.PrivateMemo)
		}
	}
	if report.Skipped > 0 {
		fmt.Fprintf(&sb, "\nskipped: %d\n", report.Skipped)
	}
	_, err := io.WriteString(out, sb.String())
	return err
}
