package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/driveline-ed/contentpipe/internal/canonical"
)

// Options controls seeding policy.
type Options struct {
	// UpdateExisting switches question seeding from insert-only (the
	// default, which protects manually corrected rows from stale source
	// files) to a sync that overwrites existing rows.
	UpdateExisting bool
}

// CurriculumStats summarizes one curriculum seed run.
type CurriculumStats struct {
	UnitID         string
	ChunksInserted int
	ChunksExisting int
	LinksInserted  int
}

// QuestionStats summarizes one question seed run.
type QuestionStats struct {
	Inserted int
	Existing int
}

// Seeder upserts canonical documents through a Store. It never creates
// parent rows: a missing jurisdiction, program, or course is an operator
// error surfaced as ErrMissingParent.
type Seeder struct {
	store   Store
	catalog *Catalog
	opts    Options
	log     *slog.Logger
}

// NewSeeder creates a seeder. catalog may be nil, in which case parent
// lookups hit the store every time.
func NewSeeder(store Store, catalog *Catalog, opts Options, log *slog.Logger) *Seeder {
	if log == nil {
		log = slog.Default()
	}
	if catalog == nil {
		catalog = NewCatalog(store, nil)
	}
	return &Seeder{store: store, catalog: catalog, opts: opts, log: log}
}

// ProgramCode derives the program a course belongs to from its code: the
// segment before the first dash ("DE-ONLINE" -> "DE").
func ProgramCode(courseCode string) string {
	if i := strings.IndexByte(courseCode, '-'); i > 0 {
		return courseCode[:i]
	}
	return courseCode
}

// SeedCurriculum ensures the unit row, its content chunks, and the
// unit-to-chunk ordering rows exist for one canonical unit. Chunks are keyed
// by a course-scoped section_ref so re-seeding inserts nothing new.
func (s *Seeder) SeedCurriculum(ctx context.Context, unit *canonical.CurriculumUnit) (CurriculumStats, error) {
	var stats CurriculumStats

	parents, err := s.catalog.Resolve(ctx, unit.JCode, ProgramCode(unit.CourseCode), unit.CourseCode)
	if err != nil {
		return stats, err
	}

	unitID, err := s.store.UpsertUnit(ctx, UnitRow{
		CourseID:        parents.CourseID,
		UnitNo:          unit.Unit,
		Title:           unit.Title,
		MinutesRequired: unit.MinutesRequired,
		Objectives:      unit.Objectives,
	})
	if err != nil {
		return stats, err
	}
	stats.UnitID = unitID

	ordinal := 0
	for si, sec := range unit.Sections {
		for li, les := range sec.Lessons {
			for pi, para := range les.Paragraphs {
				ordinal++
				ref := SectionRef(unit.CourseCode, unit.Unit, si+1, li+1, pi+1)

				chunkID, inserted, err := s.store.EnsureChunk(ctx, ChunkRow{
					JurisdictionID: parents.JurisdictionID,
					Lang:           unit.Lang,
					SectionRef:     ref,
					Body:           para.Text,
				})
				if err != nil {
					return stats, err
				}
				if inserted {
					stats.ChunksInserted++
				} else {
					stats.ChunksExisting++
				}

				linked, err := s.store.EnsureUnitChunk(ctx, UnitChunkRow{
					UnitID:  unitID,
					Ordinal: ordinal,
					ChunkID: chunkID,
				})
				if err != nil {
					return stats, err
				}
				if linked {
					stats.LinksInserted++
				}
			}
		}
	}

	s.log.Info("curriculum seeded",
		"unit", unit.Unit, "lang", unit.Lang,
		"chunks_inserted", stats.ChunksInserted,
		"chunks_existing", stats.ChunksExisting)
	return stats, nil
}

// SeedQuestions ensures a question_bank row exists per question, keyed on
// the content-derived qid.
func (s *Seeder) SeedQuestions(ctx context.Context, file *canonical.QuestionsFile) (QuestionStats, error) {
	var stats QuestionStats

	parents, err := s.catalog.Resolve(ctx, file.JCode, ProgramCode(file.CourseCode), file.CourseCode)
	if err != nil {
		return stats, err
	}

	for _, q := range file.Questions {
		choices, err := json.Marshal(q.Choices)
		if err != nil {
			return stats, fmt.Errorf("marshal choices for %s: %w", q.QID, err)
		}

		inserted, err := s.store.EnsureQuestion(ctx, QuestionRow{
			CourseID:    parents.CourseID,
			SourceRef:   q.QID,
			UnitNo:      file.Unit,
			Lang:        file.Lang,
			Stem:        q.Stem,
			ChoicesJSON: choices,
			Answer:      q.Answer,
			Explanation: q.Explanation,
			Skill:       q.Skill,
			Difficulty:  q.Difficulty,
			Tags:        q.Tags,
		}, s.opts.UpdateExisting)
		if err != nil {
			return stats, err
		}
		if inserted {
			stats.Inserted++
		} else {
			stats.Existing++
		}
	}

	s.log.Info("questions seeded",
		"unit", file.Unit, "lang", file.Lang,
		"inserted", stats.Inserted, "existing", stats.Existing)
	return stats, nil
}

// SectionRef builds the course-scoped natural key for one paragraph of
// content: {course}-u{NN}-s{NN}:l{NN}:{ordinal-within-lesson}. Chunks are
// unique per (jurisdiction, lang, section_ref), so the course segment keeps
// courses with the same unit layout from sharing rows.
func SectionRef(course string, unit, section, lesson, ordinal int) string {
	return fmt.Sprintf("%s-u%02d-s%02d:l%02d:%d", course, unit, section, lesson, ordinal)
}
