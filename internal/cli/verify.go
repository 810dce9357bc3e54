package cli

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/driveline-ed/contentpipe/internal/canonical"
)

type verifyOptions struct {
	root   *RootOptions
	mode   string
	tree   string
	jCode  string
	course string
}

// NewVerifyCommand creates the verify command: re-validate every on-disk
// file against the canonical schema without touching anything.
func NewVerifyCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &verifyOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Validate on-disk files against the canonical schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runVerify(cmd, opts)
		},
	}

	cfg := rootOpts.Config
	cmd.Flags().StringVar(&opts.mode, "mode", "all", "what to verify: curriculum|questions|all")
	cmd.Flags().StringVar(&opts.tree, "root", cfg.Content.Root, "content tree root")
	cmd.Flags().StringVar(&opts.jCode, "j", cfg.Content.JCode, "jurisdiction code")
	cmd.Flags().StringVar(&opts.course, "course", cfg.Content.CourseCode, "course code")

	return cmd
}

func runVerify(cmd *cobra.Command, opts *verifyOptions) error {
	if opts.mode != "curriculum" && opts.mode != "questions" && opts.mode != "all" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --mode %q: must be curriculum|questions|all", opts.mode))
	}

	passed, failed := 0, 0
	verify := func(dir string, validate func([]byte) error) error {
		files, err := listJSONFiles(dir)
		if err != nil {
			return WrapExitError(ExitCommandError, fmt.Sprintf("scanning %s", dir), err)
		}
		for _, path := range files {
			data, err := os.ReadFile(path)
			if err == nil {
				err = validate(data)
			}
			if err != nil {
				failed++
				slog.Error("invalid", "file", path, "error", err)
				continue
			}
			passed++
			if opts.root.Verbose {
				slog.Info("valid", "file", path)
			}
		}
		return nil
	}

	if opts.mode == "curriculum" || opts.mode == "all" {
		if err := verify(curriculumDir(opts.tree, opts.jCode, opts.course), canonical.ValidateCurriculum); err != nil {
			return err
		}
	}
	if opts.mode == "questions" || opts.mode == "all" {
		if err := verify(questionsDir(opts.tree, opts.jCode, opts.course), canonical.ValidateQuestions); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "passed=%d failed=%d\n", passed, failed)
	if failed > 0 {
		return NewExitError(ExitFailure, fmt.Sprintf("%d file(s) failed validation", failed))
	}
	return nil
}
