package shape

import (
	"encoding/json"
	"testing"
)

func decode(t *testing.T, src string) map[string]any {
	t.Helper()
	var doc map[string]any
	if err := json.Unmarshal([]byte(src), &doc); err != nil {
		t.Fatalf("bad fixture: %v", err)
	}
	return doc
}

func TestDetectCurriculum(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want CurriculumShape
	}{
		{
			name: "canonical",
			doc: `{"unit": 1, "j_code": "CA", "course_code": "DE-ONLINE", "lang": "en",
			       "title": "T", "minutes_required": 30, "objectives": ["o"],
			       "sections": [{"title": "S", "lessons": [{"title": "L",
			         "paragraphs": [{"type": "p", "text": "hello"}]}]}]}`,
			want: CurriculumCanonical,
		},
		{
			name: "meta wrapped",
			doc: `{"meta": {"unit": 5, "language": "en-US"},
			       "title": "T", "sections": [{"title": "S", "lessons": []}]}`,
			want: CurriculumMetaWrapped,
		},
		{
			name: "nested course and unit objects",
			doc: `{"course": {"code": "DE-ONLINE", "state": "CA"},
			       "unit": {"unit_no": 3, "name": "T", "sections": []}}`,
			want: CurriculumNested,
		},
		{
			name: "flat legacy",
			doc:  `{"unitId": "unit-07", "title": "T", "sections": []}`,
			want: CurriculumFlatLegacy,
		},
		{
			name: "string paragraphs are not canonical",
			doc: `{"unit": 1, "lang": "en", "minutes_required": 30, "title": "T",
			       "sections": [{"title": "S", "lessons": [{"title": "L",
			         "paragraphs": ["plain string"]}]}]}`,
			want: CurriculumFlatLegacy,
		},
		{
			name: "missing minutes is not canonical",
			doc: `{"unit": 1, "lang": "en", "title": "T",
			       "sections": [{"title": "S", "lessons": [{"title": "L",
			         "paragraphs": [{"type": "p", "text": "hello"}]}]}]}`,
			want: CurriculumFlatLegacy,
		},
		{
			name: "canonical with empty sections",
			doc:  `{"unit": 1, "lang": "en", "minutes_required": 30, "title": "T", "sections": []}`,
			want: CurriculumCanonical,
		},
		{name: "empty document", doc: `{}`, want: CurriculumFlatLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectCurriculum(decode(t, tt.doc))
			if got != tt.want {
				t.Errorf("DetectCurriculum() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDetectQuestions(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		want QuestionShape
	}{
		{
			name: "canonical",
			doc: `{"unit": 1, "j_code": "CA", "course_code": "DE-ONLINE", "lang": "en",
			       "questions": [{"stem": "s",
			         "choices": [{"key": "A", "text": "a"}]}]}`,
			want: QuestionsCanonical,
		},
		{
			name: "canonical with empty questions",
			doc:  `{"unit": 1, "j_code": "CA", "course_code": "DE-ONLINE", "lang": "en", "questions": []}`,
			want: QuestionsCanonical,
		},
		{
			name: "with translations",
			doc: `{"unit": 1,
			       "translations": [{"lang": "en", "questions": []}, {"lang": "es", "questions": []}]}`,
			want: QuestionsWithTranslations,
		},
		{
			name: "legacy options array",
			doc: `{"unit": 1,
			       "questions": [{"prompt": "s", "options": ["a", "b", "c", "d"], "answerIndex": 2}]}`,
			want: QuestionsLegacy,
		},
		{
			name: "legacy missing course identity",
			doc: `{"unit": 1, "lang": "en",
			       "questions": [{"stem": "s", "choices": [{"key": "A", "text": "a"}]}]}`,
			want: QuestionsLegacy,
		},
		{name: "empty document", doc: `{}`, want: QuestionsLegacy},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectQuestions(decode(t, tt.doc))
			if got != tt.want {
				t.Errorf("DetectQuestions() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShapeStrings(t *testing.T) {
	curr := []CurriculumShape{CurriculumCanonical, CurriculumMetaWrapped, CurriculumNested, CurriculumFlatLegacy}
	seen := map[string]bool{}
	for _, s := range curr {
		name := s.String()
		if name == "" || seen[name] {
			t.Errorf("curriculum shape %d has bad or duplicate name %q", s, name)
		}
		seen[name] = true
	}

	qs := []QuestionShape{QuestionsCanonical, QuestionsWithTranslations, QuestionsLegacy}
	seen = map[string]bool{}
	for _, s := range qs {
		name := s.String()
		if name == "" || seen[name] {
			t.Errorf("question shape %d has bad or duplicate name %q", s, name)
		}
		seen[name] = true
	}
}
