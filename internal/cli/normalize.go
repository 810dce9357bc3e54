package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pmezard/go-difflib/difflib"
	"github.com/spf13/cobra"

	"github.com/driveline-ed/contentpipe/internal/backup"
	"github.com/driveline-ed/contentpipe/internal/canonical"
	"github.com/driveline-ed/contentpipe/internal/normalize"
)

type normalizeOptions struct {
	root   *RootOptions
	write  bool
	mode   string
	tree   string
	jCode  string
	course string
}

// NewNormalizeCommand creates the normalize command: walk the content tree,
// fold every legacy file into canonical form, and report or write changes.
func NewNormalizeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &normalizeOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "normalize",
		Short: "Normalize legacy curriculum/question JSON into the canonical schema",
		Long: `Walk the content tree, convert every JSON file into canonical form, and
compare the result byte-for-byte against the file on disk.

Dry-run by default: changed files are reported but not written. With --write,
each changed file is first copied into a timestamped backup directory and
then overwritten. A file that fails to normalize is logged and counted, and
the batch continues; the exit code is non-zero iff any file errored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runNormalize(cmd, opts)
		},
	}

	cfg := rootOpts.Config
	cmd.Flags().BoolVar(&opts.write, "write", false, "write normalized output (default: dry run)")
	cmd.Flags().StringVar(&opts.mode, "mode", "all", "what to normalize: curriculum|questions|all")
	cmd.Flags().StringVar(&opts.tree, "root", cfg.Content.Root, "content tree root")
	cmd.Flags().StringVar(&opts.jCode, "j", cfg.Content.JCode, "jurisdiction code")
	cmd.Flags().StringVar(&opts.course, "course", cfg.Content.CourseCode, "course code")

	return cmd
}

type batchSummary struct {
	checked int
	changed int
	errors  int
}

func runNormalize(cmd *cobra.Command, opts *normalizeOptions) error {
	if opts.mode != "curriculum" && opts.mode != "questions" && opts.mode != "all" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --mode %q: must be curriculum|questions|all", opts.mode))
	}

	var bak *backup.Dir
	if opts.write {
		bak = backup.New(opts.root.Config.Content.BackupDir, time.Now())
	}

	var sum batchSummary
	if opts.mode == "curriculum" || opts.mode == "all" {
		if err := normalizeDir(opts, curriculumDir(opts.tree, opts.jCode, opts.course), "curriculum", bak, &sum); err != nil {
			return err
		}
	}
	if opts.mode == "questions" || opts.mode == "all" {
		if err := normalizeDir(opts, questionsDir(opts.tree, opts.jCode, opts.course), "questions", bak, &sum); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "checked=%d changed=%d errors=%d write=%t\n",
		sum.checked, sum.changed, sum.errors, opts.write)

	if sum.errors > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed to normalize", sum.errors))
	}
	return nil
}

func normalizeDir(opts *normalizeOptions, dir, kind string, bak *backup.Dir, sum *batchSummary) error {
	files, err := listJSONFiles(dir)
	if err != nil {
		return WrapExitError(ExitCommandError, fmt.Sprintf("scanning %s", dir), err)
	}

	for _, path := range files {
		sum.checked++
		changed, err := normalizeFile(opts, path, kind, bak)
		if err != nil {
			// A single malformed file must not block the rest of the batch.
			sum.errors++
			slog.Error("normalize failed", "file", path, "error", err)
			continue
		}
		if changed {
			sum.changed++
		}
	}
	return nil
}

func normalizeFile(opts *normalizeOptions, path, kind string, bak *backup.Dir) (changed bool, err error) {
	current, err := os.ReadFile(path)
	if err != nil {
		return false, err
	}

	var raw map[string]any
	if err := json.Unmarshal(current, &raw); err != nil {
		return false, fmt.Errorf("parsing JSON: %w", err)
	}

	var out []byte
	switch kind {
	case "curriculum":
		unit, err := normalize.Curriculum(raw)
		if err != nil {
			return false, err
		}
		out, err = canonical.Encode(unit)
		if err != nil {
			return false, err
		}
	case "questions":
		fctx := normalize.FileContext{JCode: opts.jCode, CourseCode: opts.course}
		if unit, lang, ok := parseUnitFileName(filepath.Base(path)); ok {
			fctx.Unit = unit
			fctx.Lang = lang
		}
		file, err := normalize.Questions(raw, fctx)
		if err != nil {
			return false, err
		}
		out, err = canonical.Encode(file)
		if err != nil {
			return false, err
		}
	}

	if bytes.Equal(current, out) {
		slog.Info("already canonical", "file", path)
		return false, nil
	}

	if !opts.write {
		slog.Info("would change", "file", path)
		if opts.root.Verbose {
			printDiff(path, current, out)
		}
		return true, nil
	}

	rel, err := filepath.Rel(opts.tree, path)
	if err != nil {
		return false, err
	}
	saved, err := bak.Save(opts.tree, rel)
	if err != nil {
		return false, err
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return false, fmt.Errorf("writing normalized file: %w", err)
	}
	slog.Info("normalized", "file", path, "backup", saved)
	return true, nil
}

func printDiff(path string, current, out []byte) {
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(current)),
		B:        difflib.SplitLines(string(out)),
		FromFile: path,
		ToFile:   path + " (canonical)",
		Context:  3,
	})
	if err == nil && diff != "" {
		fmt.Fprint(os.Stderr, diff)
	}
}
