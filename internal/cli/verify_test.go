package cli

import (
	"strings"
	"testing"
)

const canonicalCurriculumDoc = `{
  "unit": 5,
  "j_code": "CA",
  "course_code": "DE-ONLINE",
  "lang": "en",
  "title": "Sharing the Road",
  "minutes_required": 45,
  "objectives": ["Recognize vulnerable road users"],
  "sections": [
    {"title": "Bicycles", "lessons": [
      {"title": "Passing", "paragraphs": [{"type": "p", "text": "Allow three feet."}]}
    ]}
  ]
}`

func TestVerifyAllValid(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg, "curriculum", "unit05.en.json", canonicalCurriculumDoc)

	out, err := runCommand(t, cfg, "verify", "--mode=curriculum")
	if err != nil {
		t.Fatalf("verify error = %v", err)
	}
	if !strings.Contains(out, "passed=1 failed=0") {
		t.Errorf("summary = %q", out)
	}
}

func TestVerifyFailure(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg, "curriculum", "unit05.en.json", canonicalCurriculumDoc)
	// Legacy layout fails schema validation until normalized.
	writeFixture(t, cfg, "curriculum", "unit06.en.json", legacyCurriculum)

	out, err := runCommand(t, cfg, "verify", "--mode=curriculum")
	if GetExitCode(err) != ExitFailure {
		t.Fatalf("exit code = %d, want %d (err = %v)", GetExitCode(err), ExitFailure, err)
	}
	if !strings.Contains(out, "passed=1 failed=1") {
		t.Errorf("summary = %q", out)
	}
}

func TestVerifyEmptyTree(t *testing.T) {
	cfg := testConfig(t)
	out, err := runCommand(t, cfg, "verify")
	if err != nil {
		t.Fatalf("verify over empty tree error = %v", err)
	}
	if !strings.Contains(out, "passed=0 failed=0") {
		t.Errorf("summary = %q", out)
	}
}
