package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/vocab"
)

func item(display, reading string, distractors ...string) vocab.Item {
	var it vocab.Item
	it.DisplayForm = display
	it.Reading = reading
	it.SetDistractors(distractors)
	return it
}

func fixedWriter(t *testing.T) (*Writer, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.txt")
	w := NewWriter(path, "run-1", logger.Nop())
	w.now = func() time.Time { return time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC) }
	return w, path
}

func read(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(b)
}

func TestSummarize(t *testing.T) {
	items := []vocab.Item{
		item("猫", "ねこ", "ぬこ", "ねろ", "わこ"),
		item("重力", "じゅうりょく", "じゅうりょう", "ちょうりょく", "重力"),
		item("ジーンズ", "ジーンズ", "jeans", "ジャーンズ", "ジーヌス"),
	}

	sum := Summarize(vocab.LevelN3, items)
	assert.Equal(t, 3, sum.Items)
	assert.Equal(t, 1, sum.Invalid)
	assert.Equal(t, 1, sum.ByRule[rules.RuleDuplicateReading])
	assert.Equal(t, 1, sum.ByRule[rules.RuleScriptViolation])
	assert.Equal(t, 1, sum.ByDiagnostic[rules.DiagLatinCharacters])
	require.Len(t, sum.Issues, 2)
	assert.Equal(t, 1, sum.Issues[0].Index)
	assert.Equal(t, 2, sum.Issues[1].Index)
	assert.Empty(t, sum.Issues[1].Reasons)
}

func TestWriter_CheckSection(t *testing.T) {
	w, path := fixedWriter(t)
	w.Check(vocab.LevelN3, []vocab.Item{
		item("猫", "ねこ", "ぬこ", "ねろ", "わこ"),
		item("重力", "じゅうりょく", "じゅうりょう", "ちょうりょく", "重力"),
	})

	want := "=== check N3 run run-1 at 2026-10-14T09:00:00Z ===\n" +
		"items: 2  invalid: 1\n" +
		"rule duplicate-reading: 1\n" +
		"rule script-violation: 1\n" +
		`[ISSUE] 重力 (じゅうりょく) ["じゅうりょう","ちょうりょく","重力"] - duplicate-reading, script-violation` + "\n\n"
	assert.Equal(t, want, read(t, path))
}

func TestWriter_AppendsAcrossWriters(t *testing.T) {
	w, path := fixedWriter(t)
	w.Begin("repair", vocab.LevelN1)
	w.Record(Finding{Level: vocab.LevelN1, Kind: KindFixed, Kanji: "重力", Detail: `-> ["じゅうろく"]`})

	again := NewWriter(path, "run-2", nil)
	again.Record(Finding{Kind: KindMatchFail, Kanji: "幽霊"})

	lines := strings.Split(strings.TrimSpace(read(t, path)), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[0], "=== repair N1 run run-1"))
	assert.Equal(t, `[FIXED] N1 重力 -> ["じゅうろく"]`, lines[1])
	assert.Equal(t, "[MATCH-FAIL] 幽霊", lines[2])
}

func TestWriter_BeginWithoutLevel(t *testing.T) {
	w, path := fixedWriter(t)
	w.Begin("overrides", "")
	assert.Equal(t, "=== overrides run run-1 at 2026-10-14T09:00:00Z ===\n", read(t, path))
}

func TestWriter_CrossLevelFindingsNameTheirLevel(t *testing.T) {
	w, path := fixedWriter(t)
	w.Begin("overrides", "")
	w.Record(Finding{Level: vocab.LevelN3, Kind: KindOverride, Kanji: "重力", Detail: `["a"] -> ["じゅうろく"]`})
	w.Record(Finding{Level: vocab.LevelN2, Kind: KindOverrideRejected, Kanji: "幽霊", Detail: "placeholder"})

	lines := strings.Split(strings.TrimSpace(read(t, path)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, `[OVERRIDE] N3 重力 ["a"] -> ["じゅうろく"]`, lines[1])
	assert.Equal(t, "[OVERRIDE-REJECTED] N2 幽霊 placeholder", lines[2])
}

func TestWriter_UnwritablePathDoesNotPanic(t *testing.T) {
	w := NewWriter(filepath.Join(t.TempDir(), "missing", "dir", "r.txt"), "run", nil)
	w.Record(Finding{Kind: KindFixed, Kanji: "猫"})
	assert.Equal(t, "run", w.RunID())
}

func TestDiscard(t *testing.T) {
	Discard.Record(Finding{Kind: KindFixed})
}

func TestNewRunID(t *testing.T) {
	a, b := NewRunID(), NewRunID()
	assert.Len(t, a, 36)
	assert.NotEqual(t, a, b)
}
