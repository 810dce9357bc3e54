package shape

import "encoding/json"

// DetectCurriculum classifies a raw curriculum document. Heuristics run
// most-specific first; the canonical tag is returned only when every
// canonical marker is present, so a document that is merely close to
// canonical still takes a legacy normalization path instead of being
// mis-normalized as a no-op.
func DetectCurriculum(doc map[string]any) CurriculumShape {
	if isCanonicalCurriculum(doc) {
		return CurriculumCanonical
	}
	_, hasMeta := doc["meta"].(map[string]any)
	_, hasSections := doc["sections"].([]any)
	if hasMeta && hasSections {
		return CurriculumMetaWrapped
	}
	_, hasCourse := doc["course"].(map[string]any)
	_, hasUnitObj := doc["unit"].(map[string]any)
	if hasCourse && hasUnitObj {
		return CurriculumNested
	}
	return CurriculumFlatLegacy
}

func isCanonicalCurriculum(doc map[string]any) bool {
	if !isNumber(doc["unit"]) {
		return false
	}
	if _, ok := doc["lang"].(string); !ok {
		return false
	}
	if !isNumber(doc["minutes_required"]) {
		return false
	}
	sections, ok := doc["sections"].([]any)
	if !ok {
		return false
	}
	// The first lesson's first paragraph must already be object-shaped.
	// Empty sections still count: there is nothing left to convert.
	for _, s := range sections {
		sec, ok := s.(map[string]any)
		if !ok {
			return false
		}
		lessons, ok := sec["lessons"].([]any)
		if !ok {
			return false
		}
		for _, l := range lessons {
			les, ok := l.(map[string]any)
			if !ok {
				return false
			}
			paras, ok := les["paragraphs"].([]any)
			if !ok || len(paras) == 0 {
				return false
			}
			first, ok := paras[0].(map[string]any)
			if !ok {
				return false
			}
			_, hasType := first["type"].(string)
			_, hasText := first["text"].(string)
			return hasType && hasText
		}
	}
	return true
}

// DetectQuestions classifies a raw questions document.
func DetectQuestions(doc map[string]any) QuestionShape {
	if isCanonicalQuestions(doc) {
		return QuestionsCanonical
	}
	if _, ok := doc["translations"].([]any); ok {
		if _, hasQuestions := doc["questions"]; !hasQuestions {
			return QuestionsWithTranslations
		}
	}
	return QuestionsLegacy
}

func isCanonicalQuestions(doc map[string]any) bool {
	if !isNumber(doc["unit"]) {
		return false
	}
	if _, ok := doc["lang"].(string); !ok {
		return false
	}
	if _, ok := doc["j_code"].(string); !ok {
		return false
	}
	if _, ok := doc["course_code"].(string); !ok {
		return false
	}
	questions, ok := doc["questions"].([]any)
	if !ok {
		return false
	}
	if len(questions) == 0 {
		return true
	}
	q, ok := questions[0].(map[string]any)
	if !ok {
		return false
	}
	choices, ok := q["choices"].([]any)
	if !ok || len(choices) == 0 {
		return false
	}
	_, objectShaped := choices[0].(map[string]any)
	return objectShaped
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, int, int64, json.Number:
		return true
	}
	return false
}
