// Package normalize converts every known legacy curriculum and question
// layout into the canonical schema. Conversion is total over the shapes the
// corpus contains; it fails only when a required identifying field is absent
// across all known aliases, and a failure is fatal for that document so it
// can be inspected rather than silently mangled.
package normalize

import (
	"errors"
	"fmt"

	"github.com/driveline-ed/contentpipe/internal/canonical"
	"github.com/driveline-ed/contentpipe/internal/shape"
)

// Defaults applied when a legacy document omits identity fields.
const (
	DefaultJCode      = "CA"
	DefaultCourseCode = "DE-ONLINE"
	DefaultLang       = "en"

	fallbackObjective = "Understand and apply the rules and concepts presented in this unit."
)

// ErrEmptyDocument reports a nil or empty input document.
var ErrEmptyDocument = errors.New("document is nil or empty")

// curriculumSource carries the maps a given shape stores identity fields in,
// in lookup priority order (root first, then wrappers).
type curriculumSource struct {
	root    map[string]any
	meta    map[string]any
	unitObj map[string]any
	course  map[string]any
}

func (s curriculumSource) lookup() []map[string]any {
	return []map[string]any{s.root, s.unitObj, s.meta, s.course}
}

// Curriculum converts a raw curriculum document of any known shape into a
// validated canonical unit. Already-canonical input is a fixed point:
// converting it yields a unit that re-encodes to the same bytes.
func Curriculum(raw map[string]any) (*canonical.CurriculumUnit, error) {
	if len(raw) == 0 {
		return nil, ErrEmptyDocument
	}

	var src curriculumSource
	switch sh := shape.DetectCurriculum(raw); sh {
	case shape.CurriculumCanonical:
		src = curriculumSource{root: raw}
	case shape.CurriculumMetaWrapped:
		src = curriculumSource{root: raw, meta: asMap(raw["meta"])}
	case shape.CurriculumNested:
		src = curriculumSource{root: raw, unitObj: asMap(raw["unit"]), course: asMap(raw["course"])}
	case shape.CurriculumFlatLegacy:
		src = curriculumSource{
			root:    raw,
			meta:    asMap(raw["meta"]),
			unitObj: asMap(raw["unit"]),
			course:  asMap(raw["course"]),
		}
	default:
		return nil, fmt.Errorf("unhandled curriculum shape %v", sh)
	}

	unitNo, err := resolveUnitNo(src)
	if err != nil {
		return nil, err
	}

	title, ok := firstString(src.lookup(), "title", "name", "unit_title", "unitTitle")
	if !ok {
		return nil, fmt.Errorf("curriculum unit %d: no title under any known alias", unitNo)
	}

	unit := &canonical.CurriculumUnit{
		Unit:       unitNo,
		JCode:      resolveJCode(src.lookup()),
		CourseCode: resolveCourseCode(src.lookup()),
		Lang:       resolveLang(src.lookup()),
		Title:      cleanText(title),
	}

	unit.Objectives = stringList(firstRaw(src.lookup(), "objectives", "learning_objectives", "learningObjectives"))
	if len(unit.Objectives) == 0 {
		unit.Objectives = []string{fallbackObjective}
	}

	sections, err := normalizeSections(src)
	if err != nil {
		return nil, fmt.Errorf("curriculum unit %d: %w", unitNo, err)
	}
	unit.Sections = sections

	if m, ok := firstInt(src.lookup(), "minutes_required", "minutes", "estimatedTimeMinutes", "estimated_minutes"); ok {
		unit.MinutesRequired = m
	} else {
		unit.MinutesRequired = deriveMinutes(sections)
	}

	encoded, err := canonical.Encode(unit)
	if err != nil {
		return nil, err
	}
	if err := canonical.ValidateCurriculum(encoded); err != nil {
		return nil, fmt.Errorf("curriculum unit %d: %w", unitNo, err)
	}
	return unit, nil
}

func resolveUnitNo(src curriculumSource) (int, error) {
	if n, ok := firstInt([]map[string]any{src.root}, "unit", "unit_no", "unitNumber"); ok {
		return n, nil
	}
	if n, ok := firstInt([]map[string]any{src.unitObj}, "unit_no", "unitNumber", "unit", "id"); ok {
		return n, nil
	}
	if id, ok := firstString([]map[string]any{src.root, src.unitObj}, "unitId", "unit_id"); ok {
		if n, ok := digitsIn(id); ok {
			return n, nil
		}
	}
	if n, ok := firstInt([]map[string]any{src.meta}, "unit", "unit_no", "unitNumber"); ok {
		return n, nil
	}
	return 0, errors.New("curriculum: no unit number under any known alias")
}

func resolveJCode(maps []map[string]any) string {
	if j, ok := firstString(maps, "j_code", "jCode", "jurisdiction", "state"); ok {
		return j
	}
	return DefaultJCode
}

func resolveCourseCode(maps []map[string]any) string {
	if c, ok := firstString(maps, "course_code", "courseCode", "code", "course_id", "courseId"); ok {
		return c
	}
	return DefaultCourseCode
}

func resolveLang(maps []map[string]any) string {
	l, ok := firstString(maps, "lang", "language", "locale")
	if !ok {
		return DefaultLang
	}
	switch {
	case len(l) >= 2 && (l[:2] == "es" || l[:2] == "ES"):
		return "es"
	default:
		return "en"
	}
}

// firstRaw returns the first present value for any key, without coercion.
func firstRaw(maps []map[string]any, keys ...string) any {
	for _, m := range maps {
		if m == nil {
			continue
		}
		for _, k := range keys {
			if v, ok := m[k]; ok {
				return v
			}
		}
	}
	return nil
}
