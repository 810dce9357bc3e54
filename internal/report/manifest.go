package report

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"
)

// ArtifactDigest records one artifact's name, size, and content hash.
type ArtifactDigest struct {
	Name   string `json:"name"`
	Bytes  int    `json:"bytes"`
	SHA256 string `json:"sha256"`
}

// Manifest is the tamper-evidence record for one report run. Signature is
// an HMAC-SHA256 over the manifest's canonical JSON with the signature
// field empty, so any edit to the manifest or (via the digests) to an
// artifact invalidates it.
type Manifest struct {
	Jurisdiction string           `json:"jurisdiction"`
	Course       string           `json:"course"`
	PeriodFrom   string           `json:"period_from"`
	PeriodTo     string           `json:"period_to"`
	GeneratedAt  string           `json:"generated_at"`
	Artifacts    []ArtifactDigest `json:"artifacts"`
	Signature    string           `json:"signature,omitempty"`
}

func newManifest(q Query, generatedAt time.Time) *Manifest {
	return &Manifest{
		Jurisdiction: q.JCode,
		Course:       q.CourseCode,
		PeriodFrom:   q.From.UTC().Format("2006-01-02"),
		PeriodTo:     q.To.UTC().Format("2006-01-02"),
		GeneratedAt:  generatedAt.UTC().Format(time.RFC3339),
	}
}

func (m *Manifest) add(name string, content []byte) {
	sum := sha256.Sum256(content)
	m.Artifacts = append(m.Artifacts, ArtifactDigest{
		Name:   name,
		Bytes:  len(content),
		SHA256: hex.EncodeToString(sum[:]),
	})
}

// Sign computes and stores the manifest signature.
func (m *Manifest) Sign(key []byte) error {
	sig, err := m.signature(key)
	if err != nil {
		return err
	}
	m.Signature = sig
	return nil
}

// Verify recomputes the signature and compares it in constant time.
func (m *Manifest) Verify(key []byte) (bool, error) {
	want, err := m.signature(key)
	if err != nil {
		return false, err
	}
	return hmac.Equal([]byte(want), []byte(m.Signature)), nil
}

func (m *Manifest) signature(key []byte) (string, error) {
	unsigned := *m
	unsigned.Signature = ""
	payload, err := json.Marshal(&unsigned)
	if err != nil {
		return "", fmt.Errorf("marshaling manifest for signing: %w", err)
	}
	mac := hmac.New(sha256.New, key)
	mac.Write(payload)
	return hex.EncodeToString(mac.Sum(nil)), nil
}

// Encode renders the manifest artifact bytes.
func (m *Manifest) Encode() ([]byte, error) {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding manifest: %w", err)
	}
	return append(b, '\n'), nil
}
