package canonical

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schemas/curriculum.schema.json
var curriculumSchemaJSON string

//go:embed schemas/questions.schema.json
var questionsSchemaJSON string

var (
	curriculumSchema = mustCompile(curriculumSchemaJSON)
	questionsSchema  = mustCompile(questionsSchemaJSON)
)

func mustCompile(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compiling embedded schema: %v", err))
	}
	return s
}

// ValidationError reports every field constraint a document violates.
type ValidationError struct {
	Doc      string
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s failed canonical validation: %s", e.Doc, strings.Join(e.Problems, "; "))
}

// ValidateCurriculum checks an encoded curriculum document against the
// canonical schema. The input is the JSON byte form, not the Go struct, so
// validation sees exactly what would land on disk.
func ValidateCurriculum(doc []byte) error {
	return validate("curriculum", curriculumSchema, doc)
}

// ValidateQuestions checks an encoded questions document against the
// canonical schema.
func ValidateQuestions(doc []byte) error {
	return validate("questions", questionsSchema, doc)
}

func validate(name string, schema *gojsonschema.Schema, doc []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validating %s document: %w", name, err)
	}
	if result.Valid() {
		return nil
	}

	problems := make([]string, 0, len(result.Errors()))
	for _, re := range result.Errors() {
		problems = append(problems, fmt.Sprintf("%s: %s", re.Field(), re.Description()))
	}
	sort.Strings(problems)
	return &ValidationError{Doc: name, Problems: problems}
}
