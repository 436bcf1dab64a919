package domain

import (
	"encoding/json"
	"testing"
)

func TestStringListAcceptsSingleString(t *testing.T) {
	var report TeamReport
	payload := `{"synergy": "합이 잘 맞아요", "warning": ["야행성 충돌", "소통 주의"]}`

	if err := json.Unmarshal([]byte(payload), &report); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	if len(report.Synergy) != 1 || report.Synergy[0] != "합이 잘 맞아요" {
		t.Fatalf("expected single-string synergy to become a one-element list, got %v", report.Synergy)
	}
	if len(report.Warning) != 2 {
		t.Fatalf("expected two warnings, got %v", report.Warning)
	}
}

func TestStringListRejectsNonStringShapes(t *testing.T) {
	var list StringList
	if err := json.Unmarshal([]byte(`{"oops": 1}`), &list); err == nil {
		t.Fatalf("expected error for object payload")
	}
}

func TestDiscardSoloReport(t *testing.T) {
	report := &TeamReport{Synergy: StringList{"좋음"}}

	solo := &ResultSet{
		Cards:      []Card{{Name: "alice"}},
		TeamReport: report,
	}
	solo.DiscardSoloReport()
	if solo.TeamReport != nil {
		t.Fatalf("single-card set must not carry a team report")
	}

	empty := &ResultSet{TeamReport: report}
	empty.DiscardSoloReport()
	if empty.TeamReport != nil {
		t.Fatalf("empty set must not carry a team report")
	}

	team := &ResultSet{
		Cards:      []Card{{Name: "alice"}, {Name: "bob"}},
		TeamReport: report,
	}
	team.DiscardSoloReport()
	if team.TeamReport == nil {
		t.Fatalf("multi-card set must keep its team report")
	}
}
