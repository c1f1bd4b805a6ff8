package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/vocab"
)

func item(display, reading string, distractors ...string) *vocab.Item {
	it := &vocab.Item{DisplayForm: display, Reading: reading}
	it.SetDistractors(distractors)
	return it
}

func TestClassify_ValidItem(t *testing.T) {
	v := Classify(item("猫", "ねこ", "ぬこ", "ねろ", "わこ"))
	assert.True(t, v.Valid())
	assert.Empty(t, v.Reasons)
}

func TestClassify_Rules(t *testing.T) {
	tests := []struct {
		name string
		it   *vocab.Item
		want []RuleID
	}{
		{
			name: "display form echoed as kanji distractor",
			it:   item("重力", "じゅうりょく", "じゅうりょう", "ちょうりょく", "重力"),
			want: []RuleID{RuleDuplicateReading, RuleScriptViolation},
		},
		{
			name: "reading echoed back",
			it:   item("重力", "じゅうりょく", "じゅうりょう", "じゅうりょく", "ちょうりょく"),
			want: []RuleID{RuleDuplicateReading},
		},
		{
			name: "reading compare ignores whitespace",
			it:   item("猫", "ねこ", " ねこ ", "ねろ", "わこ"),
			want: []RuleID{RuleDuplicateReading},
		},
		{
			name: "half-width katakana equals full-width reading",
			it:   item("インク", "インク", "ｲﾝｸ", "インキ", "インクー"),
			want: []RuleID{RuleDuplicateReading},
		},
		{
			name: "internal duplicate",
			it:   item("愛", "あい", "あ", "あ", "い"),
			want: []RuleID{RuleInternalDuplicate},
		},
		{
			name: "insufficient",
			it:   item("猫", "ねこ", "ぬこ", "ねろ"),
			want: []RuleID{RuleInsufficient},
		},
		{
			name: "placeholder case insensitive",
			it:   item("猫", "ねこ", "Incorrect1", "ねろ", "わこ"),
			want: []RuleID{RulePlaceholder},
		},
		{
			name: "ingestion error token",
			it:   item("猫", "ねこ", "err1", "err2", "err3"),
			want: []RuleID{RulePlaceholder},
		},
		{
			name: "failed repair marker and too few",
			it:   item("猫", "ねこ", "fix_me"),
			want: []RuleID{RulePlaceholder, RuleInsufficient},
		},
		{
			name: "blank entry",
			it:   item("犬", "いぬ", "", "いね", "うぬ"),
			want: []RuleID{RulePlaceholder},
		},
		{
			name: "whitespace-only entry",
			it:   item("犬", "いぬ", "いね", "　 ", "うぬ"),
			want: []RuleID{RulePlaceholder},
		},
		{
			name: "several at once",
			it:   item("重力", "じゅうりょく", "重力", "重力"),
			want: []RuleID{RuleDuplicateReading, RuleInsufficient, RuleInternalDuplicate, RuleScriptViolation},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := Classify(tt.it)
			assert.False(t, v.Valid())
			assert.Equal(t, tt.want, v.Reasons)
		})
	}
}

func TestClassify_MissingStructureShortCircuits(t *testing.T) {
	var it vocab.Item
	require.NoError(t, json.Unmarshal([]byte(`{"kanji":"犬","reading":"いぬ","distractors":"いね"}`), &it))

	v := Classify(&it)
	assert.Equal(t, []RuleID{RuleMissingStructure}, v.Reasons)

	require.NoError(t, json.Unmarshal([]byte(`{"kanji":"猫","reading":"ねこ","distractors":["ぬこ",null,"わこ"]}`), &it))
	assert.Equal(t, []RuleID{RuleMissingStructure}, Classify(&it).Reasons)
}

func TestInvalid(t *testing.T) {
	items := []vocab.Item{
		*item("猫", "ねこ", "ぬこ", "ねろ", "わこ"),
		*item("犬", "いぬ", "いぬ", "いね", "うぬ"),
		*item("鳥", "とり", "とる", "とら", "とろ"),
		*item("魚", "さかな", "invalid"),
	}

	idx, verdicts := Invalid(items)
	assert.Equal(t, []int{1, 3}, idx)
	assert.Len(t, verdicts, 2)
	assert.Contains(t, verdicts[1].Reasons, RuleDuplicateReading)
	assert.Contains(t, verdicts[3].Reasons, RulePlaceholder)
}

func TestDiagnose(t *testing.T) {
	tests := []struct {
		name string
		it   *vocab.Item
		want []DiagnosticID
	}{
		{"clean", item("猫", "ねこ", "ぬこ", "ねろ", "わこ"), nil},
		{"latin", item("猫", "ねこ", "neko", "ねろ", "わこ"), []DiagnosticID{DiagLatinCharacters}},
		{"explicit", item("猫", "ねこ", "Option A", "ねろ", "わこ"), []DiagnosticID{DiagLatinCharacters, DiagExplicitInvalidText}},
		{"explicit is case sensitive", item("猫", "ねこ", "INVALID", "ねろ", "わこ"), []DiagnosticID{DiagLatinCharacters}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Diagnose(tt.it))
		})
	}
}

func TestDiagnosticsDoNotGateRepair(t *testing.T) {
	// Latin text is a diagnostic only.
	it := item("ジーンズ", "ジーンズ", "jeans", "ジャーンズ", "ジーヌス")
	assert.True(t, Classify(it).Valid())
	assert.NotEmpty(t, Diagnose(it))
}

func TestHelpers(t *testing.T) {
	assert.True(t, ContainsHan("重力"))
	assert.True(t, ContainsHan("じゅう力"))
	assert.False(t, ContainsHan("じゅうりょく"))
	assert.False(t, ContainsHan("ジーンズ"))

	assert.True(t, IsPlaceholder("Undefined"))
	assert.True(t, IsPlaceholder("選項1"))
	assert.True(t, IsPlaceholder(" err12 "))
	assert.True(t, IsPlaceholder("  "))
	assert.False(t, IsPlaceholder("えっと"))
	assert.False(t, IsPlaceholder("terror"))

	assert.Equal(t, "インク", Normalize(" ｲﾝｸ "))
}
