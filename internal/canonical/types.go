// Package canonical defines the canonical curriculum and question-bank
// document shapes that every legacy variant is normalized into, along with
// schema validation and deterministic question identity.
package canonical

// Paragraph is one block of lesson text.
type Paragraph struct {
	Type         string   `json:"type"`
	Text         string   `json:"text"`
	HandbookRefs []string `json:"handbook_refs,omitempty"`
}

// Lesson is an ordered list of paragraphs under a title.
type Lesson struct {
	Title      string      `json:"title"`
	Paragraphs []Paragraph `json:"paragraphs"`
}

// Section groups lessons within a unit.
type Section struct {
	Title   string   `json:"title"`
	Lessons []Lesson `json:"lessons"`
}

// CurriculumUnit is one instructional unit of a course, identified by
// (j_code, course_code, unit, lang).
type CurriculumUnit struct {
	Unit            int       `json:"unit"`
	JCode           string    `json:"j_code"`
	CourseCode      string    `json:"course_code"`
	Lang            string    `json:"lang"`
	Title           string    `json:"title"`
	MinutesRequired int       `json:"minutes_required"`
	Objectives      []string  `json:"objectives"`
	Sections        []Section `json:"sections"`
}

// Choice is one of exactly four answer options, keyed A through D.
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a single four-choice question. QID is content-derived and
// stable across re-normalization runs.
type Question struct {
	Stem        string   `json:"stem"`
	Choices     []Choice `json:"choices"`
	Answer      string   `json:"answer"`
	Explanation string   `json:"explanation"`
	Skill       string   `json:"skill"`
	Difficulty  int      `json:"difficulty"`
	Tags        []string `json:"tags"`
	QID         string   `json:"qid"`
}

// QuestionsFile is the question bank for one unit/course/language.
type QuestionsFile struct {
	Unit       int        `json:"unit"`
	JCode      string     `json:"j_code"`
	CourseCode string     `json:"course_code"`
	Lang       string     `json:"lang"`
	Questions  []Question `json:"questions"`
}
