package vocab

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"
	"sort"
)

// Wire keys used by the quiz frontend.
const (
	keyDisplayForm = "kanji"
	keyReading     = "reading"
	keyMeaning     = "meaning_zh"
	keyDistractors = "distractors"
	keyLevel       = "level"
	keyGameEnabled = "game_enabled"
)

// itemWire fixes the key order of known fields in the written file.
type itemWire struct {
	DisplayForm string          `json:"kanji"`
	Reading     string          `json:"reading"`
	Meaning     string          `json:"meaning_zh,omitempty"`
	Distractors json.RawMessage `json:"distractors,omitempty"`
	Level       Level           `json:"level,omitempty"`
	GameEnabled *bool           `json:"game_enabled,omitempty"`
}

// UnmarshalJSON decodes an item, tolerating a missing or mistyped
// distractors value and retaining unknown keys.
func (it *Item) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*it = Item{}
	for key, raw := range fields {
		var err error
		switch key {
		case keyDisplayForm:
			err = decodeString(raw, &it.DisplayForm)
		case keyReading:
			err = decodeString(raw, &it.Reading)
		case keyMeaning:
			err = decodeString(raw, &it.Meaning)
		case keyLevel:
			var s string
			err = decodeString(raw, &s)
			it.Level = Level(s)
		case keyGameEnabled:
			err = json.Unmarshal(raw, &it.GameEnabled)
		case keyDistractors:
			it.decodeDistractors(raw)
		default:
			if it.extra == nil {
				it.extra = make(map[string][]byte)
			}
			it.extra[key] = slices.Clone([]byte(raw))
		}
		if err != nil {
			return fmt.Errorf("field %q: %w", key, err)
		}
	}

	if _, ok := fields[keyDistractors]; !ok {
		it.malformed = true
	}
	return nil
}

// decodeDistractors accepts only an array of JSON strings. Anything else,
// including a null element, marks the item malformed and keeps the raw
// value so it is written back untouched.
func (it *Item) decodeDistractors(raw json.RawMessage) {
	list, ok := stringList(raw)
	if !ok {
		it.malformed = true
		if !bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
			it.rawDistractors = slices.Clone([]byte(raw))
		}
		return
	}
	it.Distractors = list
}

func stringList(raw json.RawMessage) ([]string, bool) {
	var elems []json.RawMessage
	if err := json.Unmarshal(raw, &elems); err != nil || elems == nil {
		return nil, false
	}
	list := make([]string, len(elems))
	for i, e := range elems {
		e = bytes.TrimSpace(e)
		if len(e) == 0 || e[0] != '"' {
			return nil, false
		}
		if err := json.Unmarshal(e, &list[i]); err != nil {
			return nil, false
		}
	}
	return list, true
}

// MarshalJSON writes known fields in a stable order followed by any
// retained unknown keys in sorted order.
func (it Item) MarshalJSON() ([]byte, error) {
	w := itemWire{
		DisplayForm: it.DisplayForm,
		Reading:     it.Reading,
		Meaning:     it.Meaning,
		Level:       it.Level,
		GameEnabled: it.GameEnabled,
	}
	switch {
	case it.malformed:
		w.Distractors = it.rawDistractors
	default:
		list := it.Distractors
		if list == nil {
			list = []string{}
		}
		b, err := marshalNoEscape(list)
		if err != nil {
			return nil, err
		}
		w.Distractors = b
	}

	out, err := marshalNoEscape(w)
	if err != nil {
		return nil, err
	}
	if len(it.extra) == 0 {
		return out, nil
	}

	keys := make([]string, 0, len(it.extra))
	for k := range it.extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var buf bytes.Buffer
	buf.Write(out[:len(out)-1])
	for _, k := range keys {
		kb, err := marshalNoEscape(k)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(kb)
		buf.WriteByte(':')
		buf.Write(it.extra[k])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func decodeString(raw json.RawMessage, dst *string) error {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		*dst = ""
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// marshalNoEscape encodes v without HTML escaping, so kana and symbols in
// distractors stay readable in the written file.
func marshalNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// DistractorsJSON renders the distractors the way they are stored, for
// logs and reports. A missing value renders as "null".
func (it *Item) DistractorsJSON() string {
	if it.malformed {
		if len(it.rawDistractors) == 0 {
			return "null"
		}
		return string(it.rawDistractors)
	}
	list := it.Distractors
	if list == nil {
		list = []string{}
	}
	b, err := marshalNoEscape(list)
	if err != nil {
		return "?"
	}
	return string(b)
}
