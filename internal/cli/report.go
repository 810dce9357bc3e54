package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/driveline-ed/contentpipe/internal/platform/database"
	"github.com/driveline-ed/contentpipe/internal/report"
)

type reportOptions struct {
	root   *RootOptions
	jCode  string
	course string
	from   string
	to     string
	outDir string
}

// NewReportCommand creates the report command: generate a signed regulatory
// report bundle for one course over a date range.
func NewReportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &reportOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a signed regulatory report bundle",
		Long: `Generate the regulatory report bundle for one jurisdiction and course over
a closed date range: one CSV per view, an XLSX workbook, and a manifest
signed with the configured key. Artifacts land in a timestamped directory
under the report output root.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.Context(), opts)
		},
	}

	cfg := rootOpts.Config
	cmd.Flags().StringVar(&opts.jCode, "j", cfg.Content.JCode, "jurisdiction code")
	cmd.Flags().StringVar(&opts.course, "course", cfg.Content.CourseCode, "course code")
	cmd.Flags().StringVar(&opts.from, "from", "", "range start, YYYY-MM-DD (required)")
	cmd.Flags().StringVar(&opts.to, "to", "", "range end, YYYY-MM-DD, inclusive (required)")
	cmd.Flags().StringVar(&opts.outDir, "out", cfg.Report.OutputDir, "report output root directory")

	return cmd
}

func runReport(ctx context.Context, opts *reportOptions) error {
	cfg := opts.root.Config

	from, err := parseDay(opts.from, "--from")
	if err != nil {
		return err
	}
	to, err := parseDay(opts.to, "--to")
	if err != nil {
		return err
	}
	if to.Before(from) {
		return NewExitError(ExitCommandError, "--to must not be before --from")
	}
	if cfg.Report.SigningKey == "" {
		return NewExitError(ExitCommandError, "SEED_REPORT_SIGNING_KEY is required for report generation")
	}

	db, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return WrapExitError(ExitCommandError, "connecting to database", err)
	}
	defer db.Close()

	source, err := report.NewPostgresSource(db.Pool)
	if err != nil {
		return WrapExitError(ExitCommandError, "creating report source", err)
	}

	runDir := filepath.Join(opts.outDir, time.Now().UTC().Format("2006-01-02T15-04-05"))
	store, err := report.NewFSStore(runDir)
	if err != nil {
		return WrapExitError(ExitCommandError, "creating report output directory", err)
	}

	gen, err := report.NewGenerator(source, store, []byte(cfg.Report.SigningKey), nil, slog.Default())
	if err != nil {
		return WrapExitError(ExitCommandError, "creating report generator", err)
	}

	q := report.Query{
		JCode:      opts.jCode,
		CourseCode: opts.course,
		From:       from,
		To:         to,
	}

	res, err := gen.Run(ctx, q)
	if err != nil {
		return WrapExitError(ExitFailure, "report generation", err)
	}

	for _, name := range res.Artifacts {
		fmt.Println(filepath.Join(runDir, name))
	}
	fmt.Printf("status=%s artifacts=%d\n", res.Status, len(res.Artifacts))
	return nil
}

func parseDay(value, flag string) (time.Time, error) {
	if value == "" {
		return time.Time{}, NewExitError(ExitCommandError, flag+" is required")
	}
	t, err := time.ParseInLocation("2006-01-02", value, time.UTC)
	if err != nil {
		return time.Time{}, NewExitError(ExitCommandError, fmt.Sprintf("invalid %s %q: expected YYYY-MM-DD", flag, value))
	}
	return t, nil
}
