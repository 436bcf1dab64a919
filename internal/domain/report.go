package domain

import "encoding/json"

// StringList accepts either a single JSON string or a list of strings.
// The generator backend has shipped both shapes for report fields.
type StringList []string

func (s *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		if single == "" {
			*s = nil
		} else {
			*s = StringList{single}
		}
		return nil
	}

	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return err
	}
	*s = StringList(many)
	return nil
}

// TeamReport is the aggregate synergy/warning narrative for a
// multi-participant result set.
type TeamReport struct {
	Synergy StringList `json:"synergy"`
	Warning StringList `json:"warning"`
}

// ResultSet is what one resolved acquisition attempt hands to the
// presentation layer, and the exact payload persisted to the cache.
type ResultSet struct {
	Cards      []Card      `json:"cards"`
	TeamReport *TeamReport `json:"teamReport"`
}

// DiscardSoloReport drops the team report when the set holds at most one
// card. A single participant never carries a team report, regardless of
// what the generator or the cache supplied.
func (r *ResultSet) DiscardSoloReport() {
	if len(r.Cards) <= 1 {
		r.TeamReport = nil
	}
}
