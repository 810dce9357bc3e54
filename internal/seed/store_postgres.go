package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const dbTimeout = 10 * time.Second

// PostgresStore is the pgx-backed Store. Idempotency comes from unique
// constraints on the natural keys plus INSERT ... ON CONFLICT, so concurrent
// seed runs cannot race a check-then-insert into duplicates.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore wraps a connection pool.
func NewPostgresStore(pool *pgxpool.Pool) (*PostgresStore, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}
	return &PostgresStore{pool: pool}, nil
}

// EnsureSchema applies the reference schema. Used by integration tests;
// production databases are migrated out of band.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("applying schema: %w", err)
	}
	return nil
}

// AddParents provisions a jurisdiction/program/course chain. Intended for
// tests and bootstrap tooling; the seeder itself never creates parents.
func (s *PostgresStore) AddParents(ctx context.Context, jCode, programCode, courseCode string) (Parents, error) {
	var p Parents
	err := s.pool.QueryRow(ctx,
		`INSERT INTO jurisdictions (code) VALUES ($1)
		 ON CONFLICT (code) DO UPDATE SET code = EXCLUDED.code
		 RETURNING id::text`,
		jCode,
	).Scan(&p.JurisdictionID)
	if err != nil {
		return Parents{}, fmt.Errorf("insert jurisdiction: %w", err)
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO programs (jurisdiction_id, code) VALUES ($1::uuid, $2)
		 ON CONFLICT (jurisdiction_id, code) DO UPDATE SET code = EXCLUDED.code
		 RETURNING id::text`,
		p.JurisdictionID, programCode,
	).Scan(&p.ProgramID)
	if err != nil {
		return Parents{}, fmt.Errorf("insert program: %w", err)
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO courses (program_id, code) VALUES ($1::uuid, $2)
		 ON CONFLICT (program_id, code) DO UPDATE SET code = EXCLUDED.code
		 RETURNING id::text`,
		p.ProgramID, courseCode,
	).Scan(&p.CourseID)
	if err != nil {
		return Parents{}, fmt.Errorf("insert course: %w", err)
	}
	return p, nil
}

func (s *PostgresStore) ResolveParents(ctx context.Context, jCode, programCode, courseCode string) (Parents, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var p Parents
	err := s.pool.QueryRow(ctx,
		`SELECT id::text FROM jurisdictions WHERE code = $1 LIMIT 1`,
		jCode,
	).Scan(&p.JurisdictionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Parents{}, fmt.Errorf("%w: jurisdiction %q", ErrMissingParent, jCode)
	}
	if err != nil {
		return Parents{}, fmt.Errorf("lookup jurisdiction: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT id::text FROM programs WHERE jurisdiction_id = $1::uuid AND code = $2 LIMIT 1`,
		p.JurisdictionID, programCode,
	).Scan(&p.ProgramID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Parents{}, fmt.Errorf("%w: program %q in jurisdiction %q", ErrMissingParent, programCode, jCode)
	}
	if err != nil {
		return Parents{}, fmt.Errorf("lookup program: %w", err)
	}

	err = s.pool.QueryRow(ctx,
		`SELECT id::text FROM courses WHERE program_id = $1::uuid AND code = $2 LIMIT 1`,
		p.ProgramID, courseCode,
	).Scan(&p.CourseID)
	if errors.Is(err, pgx.ErrNoRows) {
		return Parents{}, fmt.Errorf("%w: course %q in program %q", ErrMissingParent, courseCode, programCode)
	}
	if err != nil {
		return Parents{}, fmt.Errorf("lookup course: %w", err)
	}

	return p, nil
}

func (s *PostgresStore) UpsertUnit(ctx context.Context, row UnitRow) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO course_units (course_id, unit_no, title, minutes_required, objectives)
		 VALUES ($1::uuid, $2, $3, $4, $5)
		 ON CONFLICT (course_id, unit_no) DO UPDATE
		 SET title = EXCLUDED.title,
		     minutes_required = EXCLUDED.minutes_required,
		     objectives = EXCLUDED.objectives
		 RETURNING id::text`,
		row.CourseID, row.UnitNo, row.Title, row.MinutesRequired, row.Objectives,
	).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("upsert unit %d: %w", row.UnitNo, err)
	}
	return id, nil
}

func (s *PostgresStore) EnsureChunk(ctx context.Context, row ChunkRow) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	var id string
	err := s.pool.QueryRow(ctx,
		`INSERT INTO content_chunks (jurisdiction_id, lang, section_ref, body)
		 VALUES ($1::uuid, $2, $3, $4)
		 ON CONFLICT (jurisdiction_id, lang, section_ref) DO NOTHING
		 RETURNING id::text`,
		row.JurisdictionID, row.Lang, row.SectionRef, row.Body,
	).Scan(&id)
	if err == nil {
		return id, true, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", false, fmt.Errorf("insert chunk %s: %w", row.SectionRef, err)
	}

	// Conflict: the chunk already exists; fetch its ID.
	err = s.pool.QueryRow(ctx,
		`SELECT id::text FROM content_chunks
		 WHERE jurisdiction_id = $1::uuid AND lang = $2 AND section_ref = $3`,
		row.JurisdictionID, row.Lang, row.SectionRef,
	).Scan(&id)
	if err != nil {
		return "", false, fmt.Errorf("lookup chunk %s: %w", row.SectionRef, err)
	}
	return id, false, nil
}

func (s *PostgresStore) EnsureUnitChunk(ctx context.Context, row UnitChunkRow) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	cmd, err := s.pool.Exec(ctx,
		`INSERT INTO unit_chunks (unit_id, ordinal, chunk_id)
		 VALUES ($1::uuid, $2, $3::uuid)
		 ON CONFLICT (unit_id, ordinal) DO NOTHING`,
		row.UnitID, row.Ordinal, row.ChunkID,
	)
	if err != nil {
		return false, fmt.Errorf("insert unit chunk %d: %w", row.Ordinal, err)
	}
	return cmd.RowsAffected() == 1, nil
}

func (s *PostgresStore) EnsureQuestion(ctx context.Context, row QuestionRow, updateExisting bool) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	args := []any{
		row.CourseID, row.SourceRef, row.UnitNo, row.Lang, row.Stem,
		row.ChoicesJSON, row.Answer, row.Explanation, row.Skill, row.Difficulty, row.Tags,
	}

	if updateExisting {
		// xmax = 0 distinguishes a fresh insert from a conflict update.
		var inserted bool
		err := s.pool.QueryRow(ctx,
			`INSERT INTO question_bank
			   (course_id, source_ref, unit_no, lang, stem, choices, answer, explanation, skill, difficulty, tags)
			 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 ON CONFLICT (course_id, source_ref) DO UPDATE
			 SET unit_no = EXCLUDED.unit_no,
			     lang = EXCLUDED.lang,
			     stem = EXCLUDED.stem,
			     choices = EXCLUDED.choices,
			     answer = EXCLUDED.answer,
			     explanation = EXCLUDED.explanation,
			     skill = EXCLUDED.skill,
			     difficulty = EXCLUDED.difficulty,
			     tags = EXCLUDED.tags
			 RETURNING (xmax = 0)`,
			args...,
		).Scan(&inserted)
		if err != nil {
			return false, fmt.Errorf("upsert question %s: %w", row.SourceRef, err)
		}
		return inserted, nil
	}

	cmd, err := s.pool.Exec(ctx,
		`INSERT INTO question_bank
		   (course_id, source_ref, unit_no, lang, stem, choices, answer, explanation, skill, difficulty, tags)
		 VALUES ($1::uuid, $2::uuid, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 ON CONFLICT (course_id, source_ref) DO NOTHING`,
		args...,
	)
	if err != nil {
		return false, fmt.Errorf("insert question %s: %w", row.SourceRef, err)
	}
	return cmd.RowsAffected() == 1, nil
}

// Counts returns row counts per entity for idempotency assertions.
func (s *PostgresStore) Counts(ctx context.Context) (units, chunks, unitChunks, questions int, err error) {
	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	err = s.pool.QueryRow(ctx,
		`SELECT
		   (SELECT count(*) FROM course_units),
		   (SELECT count(*) FROM content_chunks),
		   (SELECT count(*) FROM unit_chunks),
		   (SELECT count(*) FROM question_bank)`,
	).Scan(&units, &chunks, &unitChunks, &questions)
	if err != nil {
		err = fmt.Errorf("count rows: %w", err)
	}
	return units, chunks, unitChunks, questions, err
}
