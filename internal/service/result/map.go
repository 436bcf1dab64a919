package result

import (
	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/tidwall/gjson"
)

// Map converts a validated raw record into exactly one canonical card.
// Pure transform: label fallbacks bottom out at the resolved display
// name so no label is ever empty, and stat values pass through unchanged
// (range integrity is the validator's concern, not the mapper's).
func Map(rec gjson.Result, identity domain.Identity, index int) domain.Card {
	name := ResolveName(rec, identity, index)

	label, ok := firstString(rec, roleLabelFields)
	if !ok {
		label = name
	}
	localized, ok := firstString(rec, roleLocalFields)
	if !ok {
		localized = name
	}

	roleType, _ := firstString(rec, roleTypeFields)
	description, _ := firstString(rec, roleDescFields)

	imageURL, _ := firstString(rec, imageURLFields)
	caption, _ := firstString(rec, imageCaptionFields)

	return domain.Card{
		ID:   name,
		Name: name,
		Role: domain.RoleInfo{
			Label:          label,
			LocalizedLabel: localized,
			Type:           roleType,
			Description:    description,
		},
		Image: domain.ImageInfo{
			URL:     imageURL,
			Caption: caption,
		},
		Stats: domain.Stats{
			DayVsNight:       statValue(rec, "dayVsNight"),
			SteadyVsBurst:    statValue(rec, "steadyVsBurst"),
			IndieVsCrew:      statValue(rec, "indieVsCrew"),
			SpecialVsGeneral: statValue(rec, "specialVsGeneral"),
		},
	}
}

func statValue(rec gjson.Result, attr string) int {
	v, _ := firstNumber(rec, statFields[attr])
	return int(v)
}
