// Package result validates raw generator records and maps them into
// canonical cards. The generator response shape has drifted across
// backend revisions; every logical attribute therefore carries an
// explicit, ordered list of accepted field paths, resolved front to
// back over the raw JSON record.
package result

import (
	"github.com/tidwall/gjson"
)

// Accepted field paths per logical attribute, newest shape first. The
// trailing entries cover the legacy flat shape (JobType/GeneratedImg/
// GeneratedPrompt/Stats.*) that early generator builds returned.
var (
	nameFields = []string{"username", "user", "name"}

	roleLabelFields = []string{"role.role", "role.role_en", "JobType"}
	roleLocalFields = []string{"role.role_kr", "role.roleKr", "role.role", "role.role_en"}
	roleTypeFields  = []string{"role.type"}
	roleDescFields  = []string{"role.description", "GeneratedPrompt"}

	imageURLFields     = []string{"image.url", "GeneratedImg"}
	imageCaptionFields = []string{"image.caption", "image.description"}

	statFields = map[string][]string{
		"dayVsNight":       {"stats.dayVsNight", "Stats.DayTime"},
		"steadyVsBurst":    {"stats.steadyVsBurst", "Stats.Active"},
		"indieVsCrew":      {"stats.indieVsCrew", "Stats.Language"},
		"specialVsGeneral": {"stats.specialVsGeneral", "Stats.Explain"},
	}
)

// firstString resolves the first path that yields a non-empty string.
func firstString(rec gjson.Result, paths []string) (string, bool) {
	for _, path := range paths {
		if v := rec.Get(path); v.Exists() && v.Type == gjson.String && v.Str != "" {
			return v.Str, true
		}
	}
	return "", false
}

// firstNumber resolves the first path that yields a non-null number.
func firstNumber(rec gjson.Result, paths []string) (float64, bool) {
	for _, path := range paths {
		if v := rec.Get(path); v.Exists() && v.Type == gjson.Number {
			return v.Num, true
		}
	}
	return 0, false
}
