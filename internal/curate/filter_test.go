package curate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/kotoba/internal/vocab"
)

func TestFilter_Eligibility(t *testing.T) {
	dir := writeLevel(t, vocab.LevelN3, `[
  {"kanji":"ジーンズ","reading":"ジーンズ","distractors":["ジャーンズ","ジェーンズ","ジーヌス"]},
  {"kanji":"猫","reading":"ねこ","distractors":["ぬこ","ねろ","わこ"]},
  {"kanji":"犬","reading":"いぬ","distractors":["いね","うぬ","えぬ"],"game_enabled":true}
]`)

	changed, err := Filter(dir, vocab.LevelN3)
	require.NoError(t, err)
	assert.Equal(t, 2, changed)

	items := readLevel(t, dir, vocab.LevelN3)
	require.NotNil(t, items[0].GameEnabled)
	assert.False(t, *items[0].GameEnabled)
	require.NotNil(t, items[1].GameEnabled)
	assert.True(t, *items[1].GameEnabled)
	assert.True(t, *items[2].GameEnabled)
}

func TestFilter_NoChangeNoWrite(t *testing.T) {
	dir := writeLevel(t, vocab.LevelN3, `[{"kanji":"猫","reading":"ねこ","distractors":["ぬこ","ねろ","わこ"],"game_enabled":true}]`)
	before := rawLevel(t, dir, vocab.LevelN3)

	changed, err := Filter(dir, vocab.LevelN3)
	require.NoError(t, err)
	assert.Zero(t, changed)
	assert.Equal(t, before, rawLevel(t, dir, vocab.LevelN3))
}

func TestFilter_CorrectsStaleFlag(t *testing.T) {
	s := &vocab.Store{Level: vocab.LevelN2, Items: []vocab.Item{
		{DisplayForm: "の", Reading: "の", GameEnabled: boolPtr(true)},
	}}
	assert.Equal(t, 1, Recompute(s))
	assert.False(t, *s.Items[0].GameEnabled)
	assert.Zero(t, Recompute(s))
}

func TestFilter_MissingLevel(t *testing.T) {
	_, err := Filter(t.TempDir(), vocab.LevelN1)
	assert.ErrorIs(t, err, vocab.ErrNotFound)
}

func boolPtr(b bool) *bool { return &b }
