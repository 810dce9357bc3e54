// Package seed materializes canonical curriculum and question documents into
// the relational store. All writes are upserts keyed on natural business
// keys, never on surrogate row IDs, so re-seeding unchanged content is a
// no-op rather than a duplicate.
package seed

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
)

// ErrMissingParent reports a jurisdiction, program, or course that must be
// provisioned by an operator before any unit can be seeded. Parents are
// never auto-created.
var ErrMissingParent = errors.New("parent row not found")

// Parents holds the resolved row IDs a unit hangs off.
type Parents struct {
	JurisdictionID string
	ProgramID      string
	CourseID       string
}

// UnitRow is the course_units upsert payload, keyed (course_id, unit_no).
type UnitRow struct {
	CourseID        string
	UnitNo          int
	Title           string
	MinutesRequired int
	Objectives      []string
}

// ChunkRow is one paragraph of unit content, keyed
// (jurisdiction_id, lang, section_ref).
type ChunkRow struct {
	JurisdictionID string
	Lang           string
	SectionRef     string
	Body           string
}

// UnitChunkRow orders a chunk within a unit, keyed (unit_id, ordinal).
type UnitChunkRow struct {
	UnitID  string
	Ordinal int
	ChunkID string
}

// QuestionRow is the question_bank payload, keyed (course_id, source_ref)
// where source_ref is the question's content-derived qid.
type QuestionRow struct {
	CourseID    string
	SourceRef   string
	UnitNo      int
	Lang        string
	Stem        string
	ChoicesJSON []byte
	Answer      string
	Explanation string
	Skill       string
	Difficulty  int
	Tags        []string
}

// Store is the natural-key upsert surface the seeder drives. Implementations
// must make every Ensure* operation idempotent under repeated invocation.
type Store interface {
	ResolveParents(ctx context.Context, jCode, programCode, courseCode string) (Parents, error)
	UpsertUnit(ctx context.Context, row UnitRow) (unitID string, err error)
	EnsureChunk(ctx context.Context, row ChunkRow) (chunkID string, inserted bool, err error)
	EnsureUnitChunk(ctx context.Context, row UnitChunkRow) (inserted bool, err error)
	EnsureQuestion(ctx context.Context, row QuestionRow, updateExisting bool) (inserted bool, err error)
}

// MemoryStore is an in-memory Store for tests and dry runs.
type MemoryStore struct {
	mu sync.Mutex

	jurisdictions map[string]string            // code -> id
	programs      map[[2]string]string         // (jurisdictionID, code) -> id
	courses       map[[2]string]string         // (programID, code) -> id
	units         map[string]UnitRow           // id -> row
	unitIDs       map[[2]string]string         // (courseID, unitNo) -> id
	chunks        map[[3]string]string         // (jurisdictionID, lang, sectionRef) -> id
	chunkRows     map[string]ChunkRow          // id -> row
	unitChunks    map[[2]string]UnitChunkRow   // (unitID, ordinal) -> row
	questions     map[[2]string]QuestionRow    // (courseID, sourceRef) -> row

	nextID int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jurisdictions: make(map[string]string),
		programs:      make(map[[2]string]string),
		courses:       make(map[[2]string]string),
		units:         make(map[string]UnitRow),
		unitIDs:       make(map[[2]string]string),
		chunks:        make(map[[3]string]string),
		chunkRows:     make(map[string]ChunkRow),
		unitChunks:    make(map[[2]string]UnitChunkRow),
		questions:     make(map[[2]string]QuestionRow),
	}
}

// AddParents provisions a jurisdiction/program/course chain, the way an
// operator would before seeding.
func (s *MemoryStore) AddParents(jCode, programCode, courseCode string) Parents {
	s.mu.Lock()
	defer s.mu.Unlock()

	jID, ok := s.jurisdictions[jCode]
	if !ok {
		jID = s.id()
		s.jurisdictions[jCode] = jID
	}
	pKey := [2]string{jID, programCode}
	pID, ok := s.programs[pKey]
	if !ok {
		pID = s.id()
		s.programs[pKey] = pID
	}
	cKey := [2]string{pID, courseCode}
	cID, ok := s.courses[cKey]
	if !ok {
		cID = s.id()
		s.courses[cKey] = cID
	}
	return Parents{JurisdictionID: jID, ProgramID: pID, CourseID: cID}
}

func (s *MemoryStore) ResolveParents(_ context.Context, jCode, programCode, courseCode string) (Parents, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	jID, ok := s.jurisdictions[jCode]
	if !ok {
		return Parents{}, fmt.Errorf("%w: jurisdiction %q", ErrMissingParent, jCode)
	}
	pID, ok := s.programs[[2]string{jID, programCode}]
	if !ok {
		return Parents{}, fmt.Errorf("%w: program %q in jurisdiction %q", ErrMissingParent, programCode, jCode)
	}
	cID, ok := s.courses[[2]string{pID, courseCode}]
	if !ok {
		return Parents{}, fmt.Errorf("%w: course %q in program %q", ErrMissingParent, courseCode, programCode)
	}
	return Parents{JurisdictionID: jID, ProgramID: pID, CourseID: cID}, nil
}

func (s *MemoryStore) UpsertUnit(_ context.Context, row UnitRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{row.CourseID, strconv.Itoa(row.UnitNo)}
	id, ok := s.unitIDs[key]
	if !ok {
		id = s.id()
		s.unitIDs[key] = id
	}
	s.units[id] = row
	return id, nil
}

func (s *MemoryStore) EnsureChunk(_ context.Context, row ChunkRow) (string, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [3]string{row.JurisdictionID, row.Lang, row.SectionRef}
	if id, ok := s.chunks[key]; ok {
		return id, false, nil
	}
	id := s.id()
	s.chunks[key] = id
	s.chunkRows[id] = row
	return id, true, nil
}

func (s *MemoryStore) EnsureUnitChunk(_ context.Context, row UnitChunkRow) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{row.UnitID, strconv.Itoa(row.Ordinal)}
	if _, ok := s.unitChunks[key]; ok {
		return false, nil
	}
	s.unitChunks[key] = row
	return true, nil
}

func (s *MemoryStore) EnsureQuestion(_ context.Context, row QuestionRow, updateExisting bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]string{row.CourseID, row.SourceRef}
	if _, ok := s.questions[key]; ok {
		if updateExisting {
			s.questions[key] = row
		}
		return false, nil
	}
	s.questions[key] = row
	return true, nil
}

// Counts returns row counts per entity for idempotency assertions.
func (s *MemoryStore) Counts() (units, chunks, unitChunks, questions int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.unitIDs), len(s.chunks), len(s.unitChunks), len(s.questions)
}

// QuestionByRef returns a stored question row by (courseID, sourceRef).
func (s *MemoryStore) QuestionByRef(courseID, sourceRef string) (QuestionRow, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.questions[[2]string{courseID, sourceRef}]
	return row, ok
}

func (s *MemoryStore) id() string {
	s.nextID++
	return strconv.Itoa(s.nextID)
}
