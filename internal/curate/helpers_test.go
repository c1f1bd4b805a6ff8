package curate

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/generation"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/vocab"
)

// writeLevel writes items as a level file and returns the data dir.
func writeLevel(t *testing.T, level vocab.Level, content string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, level.FileName()), []byte(content), 0o644))
	return dir
}

func readLevel(t *testing.T, dir string, level vocab.Level) []vocab.Item {
	t.Helper()
	s, err := vocab.Load(dir, level)
	require.NoError(t, err)
	return s.Items
}

func rawLevel(t *testing.T, dir string, level vocab.Level) []byte {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, level.FileName()))
	require.NoError(t, err)
	return b
}

// scriptedSource answers each Distractors call with the next scripted
// reply and records every payload.
type scriptedSource struct {
	mu      sync.Mutex
	replies []scriptedReply
	calls   [][]generation.RepairInput
}

type scriptedReply struct {
	corrections []generation.Correction
	err         error
}

func (s *scriptedSource) Distractors(_ context.Context, items []generation.RepairInput) ([]generation.Correction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, items)
	if len(s.replies) == 0 {
		return nil, generation.ErrEmptyResult
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.corrections, r.err
}

// echoSource answers every call by copying the given list for each input.
type echoSource struct {
	list []string
}

func (e echoSource) Distractors(_ context.Context, items []generation.RepairInput) ([]generation.Correction, error) {
	out := make([]generation.Correction, len(items))
	for i, it := range items {
		out[i] = generation.Correction{Kanji: it.Kanji, Distractors: e.list}
	}
	return out, nil
}

type recorder struct {
	findings []report.Finding
}

func (r *recorder) Record(f report.Finding) { r.findings = append(r.findings, f) }

func (r *recorder) kinds() map[report.Kind]int {
	out := make(map[report.Kind]int)
	for _, f := range r.findings {
		out[f.Kind]++
	}
	return out
}

func mustJSON(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}
