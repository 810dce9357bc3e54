package normalize

import (
	"errors"

	"github.com/driveline-ed/contentpipe/internal/canonical"
)

// normalizeSections folds every lesson content representation into one
// ordered paragraph-object list per lesson: paragraphs[] (strings or
// objects), content[] (tagged items), and body[] (plain strings).
// Unrecognized item shapes become stringified-JSON paragraphs so no authored
// content is silently dropped.
func normalizeSections(src curriculumSource) ([]canonical.Section, error) {
	rawSections := asSlice(src.root["sections"])
	if rawSections == nil && src.unitObj != nil {
		rawSections = asSlice(src.unitObj["sections"])
	}
	if rawSections == nil {
		return nil, errors.New("no sections under any known alias")
	}

	sections := make([]canonical.Section, 0, len(rawSections))
	for _, rs := range rawSections {
		sec := asMap(rs)
		title, _ := firstString([]map[string]any{sec}, "title", "name", "heading")

		var lessons []canonical.Lesson
		for _, rl := range asSlice(firstRaw([]map[string]any{sec}, "lessons", "items")) {
			lessons = append(lessons, normalizeLesson(asMap(rl)))
		}

		sections = append(sections, canonical.Section{
			Title:   cleanText(title),
			Lessons: lessons,
		})
	}
	return sections, nil
}

func normalizeLesson(les map[string]any) canonical.Lesson {
	title, _ := firstString([]map[string]any{les}, "title", "name", "heading")
	lesson := canonical.Lesson{Title: cleanText(title)}

	switch {
	case les["paragraphs"] != nil:
		lesson.Paragraphs = foldParagraphs(asSlice(les["paragraphs"]))
	case les["content"] != nil:
		lesson.Paragraphs = foldContent(asSlice(les["content"]))
	case les["body"] != nil:
		lesson.Paragraphs = foldParagraphs(asSlice(les["body"]))
	}
	return lesson
}

// foldParagraphs handles the paragraphs[] and body[] representations:
// entries are either plain strings or {type, text, handbook_refs?} objects.
func foldParagraphs(items []any) []canonical.Paragraph {
	var out []canonical.Paragraph
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if text := cleanText(v); text != "" {
				out = append(out, canonical.Paragraph{Type: "p", Text: text})
			}
		case map[string]any:
			if p, ok := paragraphFromObject(v); ok {
				out = append(out, p)
				continue
			}
			out = appendStringified(out, v)
		default:
			out = appendStringified(out, item)
		}
	}
	return out
}

// foldContent handles the content[] representation of tagged items:
// paragraph text entries plus list variants whose items each flatten into
// one paragraph.
func foldContent(items []any) []canonical.Paragraph {
	var out []canonical.Paragraph
	for _, item := range items {
		switch v := item.(type) {
		case string:
			if text := cleanText(v); text != "" {
				out = append(out, canonical.Paragraph{Type: "p", Text: text})
			}
		case map[string]any:
			tag, _ := asString(v["type"])
			switch tag {
			case "paragraph", "p", "text", "":
				if p, ok := paragraphFromObject(v); ok {
					out = append(out, p)
					continue
				}
				out = appendStringified(out, v)
			case "bulleted-list", "list", "bullets", "numbered-list":
				for _, li := range asSlice(firstRaw([]map[string]any{v}, "items", "bullets", "entries")) {
					if s, ok := asString(li); ok {
						out = append(out, canonical.Paragraph{Type: "p", Text: cleanText(s)})
						continue
					}
					if m := asMap(li); m != nil {
						if p, ok := paragraphFromObject(m); ok {
							out = append(out, p)
							continue
						}
					}
					out = appendStringified(out, li)
				}
			default:
				out = appendStringified(out, v)
			}
		default:
			out = appendStringified(out, item)
		}
	}
	return out
}

func paragraphFromObject(m map[string]any) (canonical.Paragraph, bool) {
	text, ok := firstString([]map[string]any{m}, "text", "value", "body")
	if !ok {
		return canonical.Paragraph{}, false
	}
	p := canonical.Paragraph{Type: "p", Text: cleanText(text)}
	if t, ok := asString(m["type"]); ok && t != "paragraph" && t != "text" {
		p.Type = t
	}
	if refs := stringList(m["handbook_refs"]); len(refs) > 0 {
		p.HandbookRefs = refs
	}
	return p, true
}

func appendStringified(out []canonical.Paragraph, v any) []canonical.Paragraph {
	if s := stringifyJSON(v); s != "" {
		out = append(out, canonical.Paragraph{Type: "p", Text: s})
	}
	return out
}
