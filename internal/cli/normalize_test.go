package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/driveline-ed/contentpipe/internal/platform/config"
)

const legacyCurriculum = `{
	"unitId": "unit-05",
	"title": "Sharing the Road",
	"sections": [
		{"title": "Bicycles", "lessons": [
			{"title": "Passing", "paragraphs": ["Allow at least three feet when passing."]}
		]}
	]
}`

const legacyQuestions = `{
	"questions": [
		{
			"prompt": "Minimum passing distance for a bicycle?",
			"options": ["One foot", "Two feet", "Three feet", "Five feet"],
			"answerIndex": 2
		}
	]
}`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		Content: config.ContentConfig{
			Root:       root,
			BackupDir:  filepath.Join(root, ".backups"),
			JCode:      "CA",
			CourseCode: "DE-ONLINE",
		},
		Log: config.LogConfig{Level: "info", Format: "text"},
	}
}

func writeFixture(t *testing.T, cfg *config.Config, kind, name, content string) string {
	t.Helper()
	dir := filepath.Join(cfg.Content.Root, kind, "CA", "DE-ONLINE", "units")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCommand(t *testing.T, cfg *config.Config, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand(cfg)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestNormalizeDryRun(t *testing.T) {
	cfg := testConfig(t)
	currPath := writeFixture(t, cfg, "curriculum", "unit05.en.json", legacyCurriculum)
	qPath := writeFixture(t, cfg, "questions", "unit05.en.json", legacyQuestions)

	out, err := runCommand(t, cfg, "normalize")
	if err != nil {
		t.Fatalf("normalize error = %v", err)
	}
	if !strings.Contains(out, "checked=2 changed=2 errors=0 write=false") {
		t.Errorf("summary = %q", out)
	}

	// Dry run must not touch the files.
	for _, tc := range []struct{ path, want string }{
		{currPath, legacyCurriculum},
		{qPath, legacyQuestions},
	} {
		got, err := os.ReadFile(tc.path)
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != tc.want {
			t.Errorf("dry run modified %s", tc.path)
		}
	}

	entries, err := os.ReadDir(cfg.Content.BackupDir)
	if err == nil && len(entries) > 0 {
		t.Error("dry run created backups")
	}
}

func TestNormalizeWriteAndConverge(t *testing.T) {
	cfg := testConfig(t)
	currPath := writeFixture(t, cfg, "curriculum", "unit05.en.json", legacyCurriculum)
	writeFixture(t, cfg, "questions", "unit05.en.json", legacyQuestions)

	out, err := runCommand(t, cfg, "normalize", "--write")
	if err != nil {
		t.Fatalf("normalize --write error = %v", err)
	}
	if !strings.Contains(out, "checked=2 changed=2 errors=0 write=true") {
		t.Errorf("first summary = %q", out)
	}

	got, err := os.ReadFile(currPath)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(got), `"unit": 5`) || !strings.Contains(string(got), `"minutes_required"`) {
		t.Errorf("file not rewritten in canonical form:\n%s", got)
	}

	// One backup run directory, mirroring the changed files' relative paths.
	runs, err := os.ReadDir(cfg.Content.BackupDir)
	if err != nil || len(runs) != 1 {
		t.Fatalf("backup runs = %v, err = %v", runs, err)
	}
	backed := filepath.Join(cfg.Content.BackupDir, runs[0].Name(),
		"curriculum", "CA", "DE-ONLINE", "units", "unit05.en.json")
	original, err := os.ReadFile(backed)
	if err != nil {
		t.Fatalf("backup copy missing: %v", err)
	}
	if string(original) != legacyCurriculum {
		t.Error("backup copy does not hold the original bytes")
	}

	// A second run over the rewritten tree converges.
	out, err = runCommand(t, cfg, "normalize", "--write")
	if err != nil {
		t.Fatalf("second normalize error = %v", err)
	}
	if !strings.Contains(out, "checked=2 changed=0 errors=0 write=true") {
		t.Errorf("second summary = %q", out)
	}
}

func TestNormalizeErrorIsolation(t *testing.T) {
	cfg := testConfig(t)
	writeFixture(t, cfg, "curriculum", "unit05.en.json", legacyCurriculum)
	writeFixture(t, cfg, "curriculum", "unit06.en.json", `{"title": "No unit number anywhere"}`)

	out, err := runCommand(t, cfg, "normalize", "--mode=curriculum")
	if GetExitCode(err) != ExitFailure {
		t.Fatalf("exit code = %d, want %d (err = %v)", GetExitCode(err), ExitFailure, err)
	}
	if !strings.Contains(out, "checked=2 changed=1 errors=1 write=false") {
		t.Errorf("summary = %q", out)
	}
}

func TestNormalizeInvalidMode(t *testing.T) {
	cfg := testConfig(t)
	_, err := runCommand(t, cfg, "normalize", "--mode=everything")
	if GetExitCode(err) != ExitCommandError {
		t.Fatalf("exit code = %d, want %d", GetExitCode(err), ExitCommandError)
	}
}

func TestNormalizeEmptyTree(t *testing.T) {
	cfg := testConfig(t)
	out, err := runCommand(t, cfg, "normalize")
	if err != nil {
		t.Fatalf("normalize over empty tree error = %v", err)
	}
	if !strings.Contains(out, "checked=0 changed=0 errors=0") {
		t.Errorf("summary = %q", out)
	}
}
