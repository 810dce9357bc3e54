package report

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Run statuses. A failed run is never retried; the operator invokes a fresh
// one.
const (
	StatusRunning   = "running"
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

// Result summarizes one report run.
type Result struct {
	Status    string
	Artifacts []string
	Manifest  *Manifest
}

// Generator produces one report bundle per invocation: a CSV per view, the
// XLSX workbook, and the signed manifest.
type Generator struct {
	source     Source
	store      ArtifactStore
	signingKey []byte
	now        func() time.Time
	log        *slog.Logger
}

// NewGenerator wires a generator. now may be nil (defaults to time.Now);
// signingKey must be non-empty, an unsigned manifest defeats the point.
func NewGenerator(source Source, store ArtifactStore, signingKey []byte, now func() time.Time, log *slog.Logger) (*Generator, error) {
	if len(signingKey) == 0 {
		return nil, fmt.Errorf("report signing key is empty")
	}
	if now == nil {
		now = time.Now
	}
	if log == nil {
		log = slog.Default()
	}
	return &Generator{source: source, store: store, signingKey: signingKey, now: now, log: log}, nil
}

// Run executes one report generation. Any failure marks the run failed and
// returns the error; partial artifacts may exist in the store.
func (g *Generator) Run(ctx context.Context, q Query) (*Result, error) {
	res := &Result{Status: StatusRunning}
	g.log.Info("report run started", "jurisdiction", q.JCode, "course", q.CourseCode,
		"from", q.From.Format("2006-01-02"), "to", q.To.Format("2006-01-02"))

	out, err := g.run(ctx, q)
	if err != nil {
		res.Status = StatusFailed
		g.log.Error("report run failed", "error", err)
		return res, err
	}

	out.Status = StatusSucceeded
	g.log.Info("report run succeeded", "artifacts", len(out.Artifacts))
	return out, nil
}

func (g *Generator) run(ctx context.Context, q Query) (*Result, error) {
	schemas, err := Schemas()
	if err != nil {
		return nil, err
	}

	manifest := newManifest(q, g.now())
	res := &Result{Manifest: manifest}
	data := make(map[string][]Row, len(schemas))

	for _, vs := range schemas {
		rows, err := g.source.Fetch(ctx, vs.Name, q)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", vs.Name, err)
		}
		data[vs.Name] = rows

		content, err := renderCSV(vs, rows)
		if err != nil {
			return nil, err
		}
		if err := g.store.Put(vs.Filename, content); err != nil {
			return nil, err
		}
		manifest.add(vs.Filename, content)
		res.Artifacts = append(res.Artifacts, vs.Filename)
	}

	workbook, err := renderWorkbook(q, schemas, data)
	if err != nil {
		return nil, err
	}
	const workbookName = "report.xlsx"
	if err := g.store.Put(workbookName, workbook); err != nil {
		return nil, err
	}
	manifest.add(workbookName, workbook)
	res.Artifacts = append(res.Artifacts, workbookName)

	if err := manifest.Sign(g.signingKey); err != nil {
		return nil, err
	}
	encoded, err := manifest.Encode()
	if err != nil {
		return nil, err
	}
	const manifestName = "manifest.json"
	if err := g.store.Put(manifestName, encoded); err != nil {
		return nil, err
	}
	res.Artifacts = append(res.Artifacts, manifestName)

	return res, nil
}
