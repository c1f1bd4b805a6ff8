package generation

import "fmt"

const repairSystemPrompt = `You are a Japanese language teacher correcting a vocabulary quiz database.
Each input item has a display form ("kanji"), its correct reading, and a list of wrong-answer
choices ("distractors") that is broken: it may contain placeholders, the correct reading itself,
duplicates, or kanji.

For every input item, write 5 new distractor readings.

Rules:
- Each distractor must look or sound similar to the correct reading.
- No distractor may equal the correct reading.
- The distractors for one item must all be different from each other.
- Write distractors in hiragana or katakana only. Never use kanji.
- Never use placeholder text such as "option", "invalid" or "null".
- Reply with a single JSON object of the form {"items": [...]}, one entry per input item,
  each with the fields "kanji", "reading" and "distractors". Copy "kanji" exactly as given.

Example input:
[{"kanji": "重力", "reading": "じゅうりょく", "distractors": ["じゅうりょう", "ちょうりょく", "重力"]}]
Example output:
{"items": [{"kanji": "重力", "reading": "じゅうりょく", "distractors": ["じゅうりょう", "ちょうりょく", "じゅうろく", "じゅうりき", "ちょうりゅう"]}]}`

const glossSystemPromptFormat = `You translate Japanese vocabulary into %s.

For every input item, give its meaning in %s.

Rules:
- Each meaning must be concise: at most 10 characters.
- Reply with a single JSON object of the form {"items": [{"kanji": "...", "meaning_zh": "..."}]}.
- Copy "kanji" exactly as given so each meaning can be matched back to its item.`

func glossSystemPrompt(language string) string {
	return fmt.Sprintf(glossSystemPromptFormat, language, language)
}
