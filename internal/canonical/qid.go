package canonical

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// qidNamespace is the fixed namespace for question identity. Changing it
// would re-key every question in every downstream store, so it never changes.
var qidNamespace = uuid.MustParse("7b5f9a4e-2c83-4d1a-9f60-8e1d4a6b2c35")

// QuestionID derives the stable content-addressed identifier for a question.
// Identical inputs always produce the same UUID; changing any character of
// the stem or a choice changes it. The payload is pipe-delimited, with
// choices serialized as key:text pairs, and every text field NFC-normalized
// first so visually identical strings hash identically.
func QuestionID(jCode, courseCode string, unit int, stem string, choices []Choice) string {
	parts := make([]string, 0, 4+len(choices))
	parts = append(parts,
		norm.NFC.String(jCode),
		norm.NFC.String(courseCode),
		strconv.Itoa(unit),
		norm.NFC.String(stem),
	)
	for _, c := range choices {
		parts = append(parts, c.Key+":"+norm.NFC.String(c.Text))
	}

	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	name := hex.EncodeToString(sum[:])
	return uuid.NewSHA1(qidNamespace, []byte(name)).String()
}
