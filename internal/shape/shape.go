// Package shape classifies raw parsed JSON documents into the fixed set of
// known historical layouts. Detection is total: every non-nil document maps
// to exactly one variant and detection never fails, falling through to the
// legacy catch-all when no specific heuristic matches.
package shape

// CurriculumShape identifies the historical layout of a curriculum document.
type CurriculumShape int

const (
	// CurriculumFlatLegacy is the catch-all for early flat layouts.
	CurriculumFlatLegacy CurriculumShape = iota
	// CurriculumCanonical is the current on-disk shape; normalizing it is a
	// no-op.
	CurriculumCanonical
	// CurriculumMetaWrapped carries identity fields under a meta object.
	CurriculumMetaWrapped
	// CurriculumNested splits identity across course and unit sub-objects.
	CurriculumNested
)

func (s CurriculumShape) String() string {
	switch s {
	case CurriculumCanonical:
		return "canonical"
	case CurriculumMetaWrapped:
		return "meta-wrapped"
	case CurriculumNested:
		return "nested"
	default:
		return "flat-legacy"
	}
}

// QuestionShape identifies the historical layout of a questions document.
type QuestionShape int

const (
	// QuestionsLegacy is the catch-all: prompt/options/answerIndex variants,
	// string-array choices, nested wrappers.
	QuestionsLegacy QuestionShape = iota
	// QuestionsCanonical is the current on-disk shape.
	QuestionsCanonical
	// QuestionsWithTranslations carries per-language question lists under a
	// translations array instead of a root questions list.
	QuestionsWithTranslations
)

func (s QuestionShape) String() string {
	switch s {
	case QuestionsCanonical:
		return "canonical"
	case QuestionsWithTranslations:
		return "with-translations"
	default:
		return "legacy"
	}
}
