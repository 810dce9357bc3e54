package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Content tree layout conventions. Unit files live at
// {root}/{curriculum|questions}/{j}/{course}/units/unit{NN}.{lang}.json
// with a zero-padded unit number.

func curriculumDir(root, jCode, courseCode string) string {
	return filepath.Join(root, "curriculum", jCode, courseCode, "units")
}

func questionsDir(root, jCode, courseCode string) string {
	return filepath.Join(root, "questions", jCode, courseCode, "units")
}

func unitFileName(unit int, lang string) string {
	return fmt.Sprintf("unit%02d.%s.json", unit, lang)
}

var unitFileRE = regexp.MustCompile(`^unit(\d+)\.([a-z]{2})\.json$`)

// parseUnitFileName extracts the unit number and language from a
// convention-named file.
func parseUnitFileName(name string) (unit int, lang string, ok bool) {
	m := unitFileRE.FindStringSubmatch(name)
	if m == nil {
		return 0, "", false
	}
	unit, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, "", false
	}
	return unit, m[2], true
}

// listJSONFiles returns the sorted paths of every .json file under dir. A
// missing directory yields an empty list, not an error; an operator may
// legitimately run one mode against a tree that only has the other.
func listJSONFiles(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return filepath.SkipAll
			}
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".json") {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}
