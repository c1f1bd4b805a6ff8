package curate

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/kotoba/internal/logger"
	"github.com/abhisek/kotoba/internal/report"
	"github.com/abhisek/kotoba/internal/rules"
	"github.com/abhisek/kotoba/internal/vocab"
)

// Override is a hand-written distractor list for one item.
type Override struct {
	Kanji       string      `yaml:"kanji"`
	Reading     string      `yaml:"reading,omitempty"` // narrows the match when set
	Level       vocab.Level `yaml:"level,omitempty"`   // narrows the match when set
	Distractors []string    `yaml:"distractors"`
}

type overrideFile struct {
	Overrides []Override `yaml:"overrides"`
}

// LoadOverrides reads an overrides YAML file.
func LoadOverrides(path string) ([]Override, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}
	var f overrideFile
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("parse overrides %s: %w", path, err)
	}
	for i, o := range f.Overrides {
		if strings.TrimSpace(o.Kanji) == "" {
			return nil, fmt.Errorf("override %d: kanji is required", i+1)
		}
		if o.Level != "" {
			lvl, err := vocab.ParseLevel(string(o.Level))
			if err != nil {
				return nil, fmt.Errorf("override %d (%s): %w", i+1, o.Kanji, err)
			}
			f.Overrides[i].Level = lvl
		}
	}
	return f.Overrides, nil
}

// OverrideSummary counts what an override run did across levels.
type OverrideSummary struct {
	Applied       int
	Unchanged     int // matched, but the item already had that list
	Rejected      int // the list would leave the item invalid
	MatchFailures int // matched no item in any level
}

// ApplyOverrides applies overrides to s. matched is indexed like overrides
// and marks every override that found its item.
func ApplyOverrides(s *vocab.Store, overrides []Override, matched []bool, rec report.Recorder) OverrideSummary {
	if rec == nil {
		rec = report.Discard
	}
	var sum OverrideSummary
	for i, o := range overrides {
		if matched[i] || (o.Level != "" && o.Level != s.Level) {
			continue
		}
		idx := slices.IndexFunc(s.Items, func(it vocab.Item) bool {
			return it.DisplayForm == o.Kanji && (o.Reading == "" || it.Reading == o.Reading)
		})
		if idx < 0 {
			continue
		}
		matched[i] = true

		it := &s.Items[idx]
		candidate := it.Clone()
		candidate.SetDistractors(o.Distractors)
		if v := rules.Classify(&candidate); !v.Valid() {
			sum.Rejected++
			rec.Record(report.Finding{
				Level:  s.Level,
				Kind:   report.KindOverrideRejected,
				Kanji:  o.Kanji,
				Detail: joinRules(v.Reasons),
			})
			continue
		}
		if !it.DistractorsMalformed() && slices.Equal(it.Distractors, o.Distractors) {
			sum.Unchanged++
			continue
		}

		before := it.DistractorsJSON()
		it.SetDistractors(o.Distractors)
		sum.Applied++
		rec.Record(report.Finding{
			Level:  s.Level,
			Kind:   report.KindOverride,
			Kanji:  o.Kanji,
			Detail: fmt.Sprintf("%s -> %s", before, it.DistractorsJSON()),
		})
	}
	return sum
}

// Overrider applies an overrides list to every level file.
type Overrider struct {
	dataDir string
	rec     report.Recorder
	log     *logger.Logger
}

// NewOverrider creates an Overrider over level files in dataDir.
func NewOverrider(dataDir string, rec report.Recorder, log *logger.Logger) *Overrider {
	if rec == nil {
		rec = report.Discard
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Overrider{dataDir: dataDir, rec: rec, log: log}
}

// Apply runs overrides against levels in order. Each override is used at
// most once, on the first matching item. A missing level file is skipped;
// other load or save failures are collected and returned together.
func (o *Overrider) Apply(levels []vocab.Level, overrides []Override) (OverrideSummary, error) {
	var (
		total   OverrideSummary
		errs    []error
		matched = make([]bool, len(overrides))
	)
	for _, level := range levels {
		s, err := vocab.Load(o.dataDir, level)
		if errors.Is(err, vocab.ErrNotFound) {
			o.log.Warn("level file not found, skipping", "level", level, "error", err)
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		sum := ApplyOverrides(s, overrides, matched, o.rec)
		total.Applied += sum.Applied
		total.Unchanged += sum.Unchanged
		total.Rejected += sum.Rejected
		if sum.Applied > 0 {
			if err := s.Save(); err != nil {
				errs = append(errs, err)
				continue
			}
		}
		o.log.Info("overrides applied", "level", level, "applied", sum.Applied,
			"unchanged", sum.Unchanged, "rejected", sum.Rejected)
	}

	for i, ok := range matched {
		if !ok {
			total.MatchFailures++
			o.rec.Record(report.Finding{Kind: report.KindMatchFail, Kanji: overrides[i].Kanji})
		}
	}
	return total, errors.Join(errs...)
}
