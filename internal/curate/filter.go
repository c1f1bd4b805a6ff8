package curate

import "github.com/abhisek/kotoba/internal/vocab"

// Recompute sets GameEnabled on every item from its display form and
// reading, and returns how many values changed. An unset value counts as
// changed.
func Recompute(s *vocab.Store) int {
	changed := 0
	for i := range s.Items {
		it := &s.Items[i]
		want := it.GameEligible()
		if it.GameEnabled != nil && *it.GameEnabled == want {
			continue
		}
		it.GameEnabled = &want
		changed++
	}
	return changed
}

// Filter recomputes game eligibility for a level and rewrites the file
// only when something changed.
func Filter(dataDir string, level vocab.Level) (int, error) {
	s, err := vocab.Load(dataDir, level)
	if err != nil {
		return 0, err
	}
	changed := Recompute(s)
	if changed == 0 {
		return 0, nil
	}
	return changed, s.Save()
}
