package normalize

import (
	"errors"
	"fmt"

	"github.com/driveline-ed/contentpipe/internal/canonical"
	"github.com/driveline-ed/contentpipe/internal/shape"
)

// ErrAnswerUnmatched reports a textual answer that matches none of the
// question's choices. The legacy pipeline silently mapped this case to "A";
// that was a bug, not a contract, so conversion fails loudly instead.
var ErrAnswerUnmatched = errors.New("answer text matches no choice")

const choiceCount = 4

// FileContext supplies identity fields resolved from the file's
// convention-based path, used when the document itself omits them.
type FileContext struct {
	JCode      string
	CourseCode string
	Unit       int
	Lang       string
}

// Questions converts a raw questions document of any known shape into a
// validated canonical file. Question IDs are always recomputed from content,
// so converting unchanged input yields byte-identical qids.
func Questions(raw map[string]any, fctx FileContext) (*canonical.QuestionsFile, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	maps := []map[string]any{raw, asMap(raw["meta"])}

	file := &canonical.QuestionsFile{
		JCode:      fctx.JCode,
		CourseCode: fctx.CourseCode,
		Lang:       fctx.Lang,
		Unit:       fctx.Unit,
	}
	if j, ok := firstString(maps, "j_code", "jCode", "jurisdiction", "state"); ok {
		file.JCode = j
	}
	if file.JCode == "" {
		file.JCode = DefaultJCode
	}
	if c, ok := firstString(maps, "course_code", "courseCode", "course"); ok {
		file.CourseCode = c
	}
	if file.CourseCode == "" {
		file.CourseCode = DefaultCourseCode
	}
	if _, ok := firstString(maps, "lang", "language", "locale"); ok {
		file.Lang = resolveLang(maps)
	}
	if file.Lang == "" {
		file.Lang = DefaultLang
	}
	if u, ok := firstInt(maps, "unit", "unit_no", "unitNumber"); ok {
		file.Unit = u
	}
	if file.Unit == 0 {
		if id, ok := firstString(maps, "unitId", "unit_id"); ok {
			if n, ok := digitsIn(id); ok {
				file.Unit = n
			}
		}
	}
	if file.Unit == 0 {
		return nil, errors.New("questions: no unit number in document or file context")
	}

	rawQuestions, err := questionList(raw, file.Lang)
	if err != nil {
		return nil, fmt.Errorf("questions unit %d: %w", file.Unit, err)
	}

	file.Questions = make([]canonical.Question, 0, len(rawQuestions))
	for i, rq := range rawQuestions {
		q, err := normalizeQuestion(asMap(rq), file)
		if err != nil {
			return nil, fmt.Errorf("questions unit %d, question %d: %w", file.Unit, i+1, err)
		}
		file.Questions = append(file.Questions, q)
	}

	encoded, err := canonical.Encode(file)
	if err != nil {
		return nil, err
	}
	if err := canonical.ValidateQuestions(encoded); err != nil {
		return nil, fmt.Errorf("questions unit %d: %w", file.Unit, err)
	}
	return file, nil
}

// questionList locates the raw question entries for the document's shape.
func questionList(raw map[string]any, lang string) ([]any, error) {
	switch sh := shape.DetectQuestions(raw); sh {
	case shape.QuestionsCanonical:
		return asSlice(raw["questions"]), nil

	case shape.QuestionsWithTranslations:
		translations := asSlice(raw["translations"])
		var fallback []any
		for _, t := range translations {
			entry := asMap(t)
			qs := asSlice(firstRaw([]map[string]any{entry}, "questions", "items"))
			if qs == nil {
				continue
			}
			if fallback == nil {
				fallback = qs
			}
			if _, ok := asString(entry["lang"]); ok && resolveLang([]map[string]any{entry}) == lang {
				return qs, nil
			}
		}
		if fallback == nil {
			return nil, errors.New("translations carry no question lists")
		}
		return fallback, nil

	case shape.QuestionsLegacy:
		if qs := asSlice(firstRaw([]map[string]any{raw, asMap(raw["data"]), asMap(raw["bank"])}, "questions", "items")); qs != nil {
			return qs, nil
		}
		return nil, errors.New("no question list under any known alias")

	default:
		return nil, fmt.Errorf("unhandled questions shape %v", sh)
	}
}

func normalizeQuestion(rq map[string]any, file *canonical.QuestionsFile) (canonical.Question, error) {
	if rq == nil {
		return canonical.Question{}, errors.New("question entry is not an object")
	}

	stem, ok := firstString([]map[string]any{rq}, "stem", "prompt", "question", "text")
	if !ok {
		return canonical.Question{}, errors.New("no stem under any known alias")
	}

	texts := choiceTexts(rq)
	answer, err := resolveAnswer(rq, texts)
	if err != nil {
		return canonical.Question{}, err
	}

	// Pad or truncate to the canonical four slots. The answer index was
	// resolved against the raw list, so an answer beyond slot D is an
	// authoring defect that must not be masked.
	if answer >= choiceCount {
		return canonical.Question{}, fmt.Errorf("answer index %d beyond choice slot D", answer)
	}
	choices := make([]canonical.Choice, choiceCount)
	for i := 0; i < choiceCount; i++ {
		choices[i] = canonical.Choice{Key: string(rune('A' + i))}
		if i < len(texts) {
			choices[i].Text = cleanText(texts[i])
		}
	}

	q := canonical.Question{
		Stem:    cleanText(stem),
		Choices: choices,
		Answer:  string(rune('A' + answer)),
	}
	q.Explanation, _ = firstString([]map[string]any{rq}, "explanation", "rationale", "why")
	q.Explanation = cleanText(q.Explanation)
	q.Skill, _ = firstString([]map[string]any{rq}, "skill", "topic", "category")

	q.Difficulty = 3
	if d, ok := firstInt([]map[string]any{rq}, "difficulty", "level"); ok {
		switch {
		case d < 1:
			q.Difficulty = 1
		case d > 5:
			q.Difficulty = 5
		default:
			q.Difficulty = d
		}
	}

	q.Tags = stringList(rq["tags"])
	if q.Tags == nil {
		q.Tags = []string{}
	}

	q.QID = canonical.QuestionID(file.JCode, file.CourseCode, file.Unit, q.Stem, q.Choices)
	return q, nil
}

// choiceTexts extracts the ordered raw choice texts from either the
// object-shaped choices list or a legacy options array.
func choiceTexts(rq map[string]any) []string {
	items := asSlice(rq["choices"])
	if items == nil {
		items = asSlice(firstRaw([]map[string]any{rq}, "options", "answers"))
	}

	var texts []string
	for _, item := range items {
		switch v := item.(type) {
		case string:
			texts = append(texts, v)
		case map[string]any:
			if t, ok := firstString([]map[string]any{v}, "text", "label", "value"); ok {
				texts = append(texts, t)
			} else {
				texts = append(texts, stringifyJSON(v))
			}
		default:
			texts = append(texts, stringifyJSON(v))
		}
	}
	return texts
}

// resolveAnswer reconstructs the zero-based answer index from the shapes the
// corpus uses: a letter, a numeric index, or the answer's literal text.
func resolveAnswer(rq map[string]any, texts []string) (int, error) {
	if idx, ok := firstInt([]map[string]any{rq}, "answerIndex", "correctIndex", "correct_index"); ok {
		if idx < 0 || idx >= len(texts) {
			return 0, fmt.Errorf("answer index %d out of range for %d choices", idx, len(texts))
		}
		return idx, nil
	}

	raw, ok := firstString([]map[string]any{rq}, "answer", "correct", "correct_answer", "correctAnswer")
	if !ok {
		if idx, ok := firstInt([]map[string]any{rq}, "answer", "correct"); ok {
			if idx < 0 || idx >= len(texts) {
				return 0, fmt.Errorf("answer index %d out of range for %d choices", idx, len(texts))
			}
			return idx, nil
		}
		return 0, errors.New("no answer under any known alias")
	}

	if len(raw) == 1 {
		switch c := raw[0]; {
		case c >= 'A' && c <= 'D':
			return int(c - 'A'), nil
		case c >= 'a' && c <= 'd':
			return int(c - 'a'), nil
		}
	}

	for i, t := range texts {
		if cleanText(t) == cleanText(raw) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrAnswerUnmatched, raw)
}
