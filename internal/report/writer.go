package report

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/vocab"
)

// Kind classifies a finding recorded by a curation pass.
type Kind string

const (
	KindFixed            Kind = "FIXED"
	KindForced           Kind = "FORCED"
	KindMatchFail        Kind = "MATCH-FAIL"
	KindBatchError       Kind = "BATCH-ERROR"
	KindUnresolved       Kind = "UNRESOLVED"
	KindFilled           Kind = "FILLED"
	KindOverride         Kind = "OVERRIDE"
	KindOverrideRejected Kind = "OVERRIDE-REJECTED"
)

// Finding is a single line of pass output.
type Finding struct {
	Level  vocab.Level
	Kind   Kind
	Kanji  string
	Detail string
}

// Recorder receives findings from curation passes.
type Recorder interface {
	Record(f Finding)
}

type discard struct{}

func (discard) Record(Finding) {}

// Discard drops every finding.
var Discard Recorder = discard{}

// Writer appends sections and findings to a text file. Write failures are
// logged and otherwise ignored.
type Writer struct {
	mu    sync.Mutex
	path  string
	runID string
	log   *logger.Logger
	now   func() time.Time
}

// NewWriter returns a Writer appending to path under runID.
func NewWriter(path, runID string, log *logger.Logger) *Writer {
	if log == nil {
		log = logger.Nop()
	}
	return &Writer{path: path, runID: runID, log: log, now: time.Now}
}

// RunID returns the run identifier stamped on every section.
func (w *Writer) RunID() string {
	return w.runID
}

// Check classifies a level and writes its check section.
func (w *Writer) Check(level vocab.Level, items []vocab.Item) CheckSummary {
	sum := Summarize(level, items)

	var b strings.Builder
	w.header(&b, "check", level)
	fmt.Fprintf(&b, "items: %d  invalid: %d\n", sum.Items, sum.Invalid)
	for _, r := range rules.Default {
		if n := sum.ByRule[r.ID()]; n > 0 {
			fmt.Fprintf(&b, "rule %s: %d\n", r.ID(), n)
		}
	}
	for _, d := range rules.AllDiagnostics {
		if n := sum.ByDiagnostic[d]; n > 0 {
			fmt.Fprintf(&b, "diagnostic %s: %d\n", d, n)
		}
	}
	for _, is := range sum.Issues {
		fmt.Fprintf(&b, "[ISSUE] %s (%s) %s - %s\n", is.Kanji, is.Reading, is.Distractors, joinIDs(is))
	}
	b.WriteString("\n")

	w.append(b.String())
	return sum
}

// Begin writes a section header for a pass over a level. An empty level
// marks a pass that spans every level.
func (w *Writer) Begin(pass string, level vocab.Level) {
	var b strings.Builder
	w.header(&b, pass, level)
	w.append(b.String())
}

// Record appends one finding line: the kind, the level when set, the
// item key and the detail.
func (w *Writer) Record(f Finding) {
	line := "[" + string(f.Kind) + "]"
	if f.Level != "" {
		line += " " + string(f.Level)
	}
	line += " " + f.Kanji
	if f.Detail != "" {
		line += " " + f.Detail
	}
	w.append(line + "\n")
}

func (w *Writer) header(b *strings.Builder, pass string, level vocab.Level) {
	scope := pass
	if level != "" {
		scope += " " + string(level)
	}
	fmt.Fprintf(b, "=== %s run %s at %s ===\n", scope, w.runID, w.now().UTC().Format(time.RFC3339))
}

func (w *Writer) append(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		w.log.Warn("open report", "path", w.path, "error", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(s); err != nil {
		w.log.Warn("write report", "path", w.path, "error", err)
	}
}

func joinIDs(is Issue) string {
	ids := make([]string, 0, len(is.Reasons)+len(is.Diagnostics))
	for _, r := range is.Reasons {
		ids = append(ids, string(r))
	}
	for _, d := range is.Diagnostics {
		ids = append(ids, string(d))
	}
	return strings.Join(ids, ", ")
}
