package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/driveline-ed/contentpipe/internal/canonical"
	"github.com/driveline-ed/contentpipe/internal/normalize"
	"github.com/driveline-ed/contentpipe/internal/platform/cache"
	"github.com/driveline-ed/contentpipe/internal/platform/database"
	"github.com/driveline-ed/contentpipe/internal/seed"
)

type seedOptions struct {
	root   *RootOptions
	unit   int
	langs  string
	jCode  string
	course string
	mode   string
	update bool
}

// NewSeedCommand creates the seed command: upsert one unit's curriculum and
// question files into the relational store.
func NewSeedCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &seedOptions{root: rootOpts}

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Upsert one unit's canonical files into the store",
		Long: `Read one unit's curriculum and/or questions files by convention path and
upsert them into the store, keyed on natural business keys. Re-seeding
unchanged content inserts nothing. Parent rows (jurisdiction, program,
course) must already exist; they are never auto-created.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeed(cmd.Context(), opts)
		},
	}

	cfg := rootOpts.Config
	cmd.Flags().IntVar(&opts.unit, "unit", 0, "unit number (required)")
	cmd.Flags().StringVar(&opts.langs, "lang", "en", "comma-separated languages, e.g. en,es")
	cmd.Flags().StringVar(&opts.jCode, "j", cfg.Content.JCode, "jurisdiction code")
	cmd.Flags().StringVar(&opts.course, "course", cfg.Content.CourseCode, "course code")
	cmd.Flags().StringVar(&opts.mode, "mode", "all", "what to seed: curriculum|questions|all")
	cmd.Flags().BoolVar(&opts.update, "update-existing", cfg.Seed.UpdateExisting,
		"overwrite existing question rows from source instead of insert-only")

	return cmd
}

func runSeed(ctx context.Context, opts *seedOptions) error {
	if opts.unit <= 0 {
		return NewExitError(ExitCommandError, "--unit is required and must be positive")
	}
	if opts.mode != "curriculum" && opts.mode != "questions" && opts.mode != "all" {
		return NewExitError(ExitCommandError, fmt.Sprintf("invalid --mode %q: must be curriculum|questions|all", opts.mode))
	}

	cfg := opts.root.Config

	db, err := database.Connect(ctx, cfg.Database.URL, cfg.Database.MaxConns, cfg.Database.MinConns)
	if err != nil {
		return WrapExitError(ExitCommandError, "connecting to database", err)
	}
	defer db.Close()

	store, err := seed.NewPostgresStore(db.Pool)
	if err != nil {
		return WrapExitError(ExitCommandError, "creating store", err)
	}

	var lookupCache *cache.Cache
	if cfg.Cache.URL != "" {
		lookupCache, err = cache.New(ctx, cfg.Cache.URL)
		if err != nil {
			// The cache is an accelerator, not a dependency.
			slog.Warn("lookup cache unavailable, continuing without it", "error", err)
		} else {
			defer lookupCache.Close()
		}
	}

	catalog := seed.NewCatalog(store, lookupCache)
	seeder := seed.NewSeeder(store, catalog, seed.Options{UpdateExisting: opts.update}, slog.Default())

	for _, lang := range strings.Split(opts.langs, ",") {
		lang = strings.TrimSpace(lang)
		if lang == "" {
			continue
		}
		if err := seedUnitLang(ctx, opts, seeder, lang); err != nil {
			return WrapExitError(ExitFailure, fmt.Sprintf("seeding unit %d (%s)", opts.unit, lang), err)
		}
	}
	return nil
}

func seedUnitLang(ctx context.Context, opts *seedOptions, seeder *seed.Seeder, lang string) error {
	cfg := opts.root.Config

	if opts.mode == "curriculum" || opts.mode == "all" {
		path := filepath.Join(curriculumDir(cfg.Content.Root, opts.jCode, opts.course), unitFileName(opts.unit, lang))
		unit, err := loadCurriculum(path)
		if err != nil {
			return err
		}
		if _, err := seeder.SeedCurriculum(ctx, unit); err != nil {
			return err
		}
	}

	if opts.mode == "questions" || opts.mode == "all" {
		path := filepath.Join(questionsDir(cfg.Content.Root, opts.jCode, opts.course), unitFileName(opts.unit, lang))
		file, err := loadQuestions(path, normalize.FileContext{
			JCode:      opts.jCode,
			CourseCode: opts.course,
			Unit:       opts.unit,
			Lang:       lang,
		})
		if err != nil {
			return err
		}
		if _, err := seeder.SeedQuestions(ctx, file); err != nil {
			return err
		}
	}
	return nil
}

// loadCurriculum reads a unit file and runs it through normalization, so a
// stale legacy file still seeds correctly and an invalid one fails before
// any row is written.
func loadCurriculum(path string) (*canonical.CurriculumUnit, error) {
	raw, err := readJSONObject(path)
	if err != nil {
		return nil, err
	}
	return normalize.Curriculum(raw)
}

func loadQuestions(path string, fctx normalize.FileContext) (*canonical.QuestionsFile, error) {
	raw, err := readJSONObject(path)
	if err != nil {
		return nil, err
	}
	return normalize.Questions(raw, fctx)
}

func readJSONObject(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return raw, nil
}
