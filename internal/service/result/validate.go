package result

import (
	"fmt"
	"strings"

	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/pkg/errors"
	"github.com/tidwall/gjson"
)

// Facet names carried by validation failures.
const (
	FacetName  = "name"
	FacetRole  = "role"
	FacetImage = "image"
	FacetStats = "stats"
)

// ResolveName returns the display name for one record: the record's own
// declared identity if present, else the supplied identity, else a
// positional user-<n> fallback. Never empty.
func ResolveName(rec gjson.Result, identity domain.Identity, index int) string {
	if name, ok := firstString(rec, nameFields); ok {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			return trimmed
		}
	}
	if trimmed := strings.TrimSpace(identity.String()); trimmed != "" {
		return trimmed
	}
	return fmt.Sprintf("user-%d", index+1)
}

// Validate asserts that one raw generator record carries everything a
// display-ready card needs. It is a pure predicate: no side effects, and
// it must run before Map, never after. A failure names the offending
// identity and the missing facet.
func Validate(rec gjson.Result, identity domain.Identity) *errors.ValidationError {
	who := identity.String()

	if !rec.IsObject() {
		return errors.NewValidationError(
			fmt.Sprintf("(%s) 결과 형식이 올바르지 않습니다.", who), who, FacetName)
	}

	if _, ok := firstString(rec, roleLabelFields); !ok {
		return errors.NewValidationError(
			fmt.Sprintf("(%s) 역할 정보가 누락되었습니다.", who), who, FacetRole)
	}
	if _, ok := firstString(rec, roleDescFields); !ok {
		return errors.NewValidationError(
			fmt.Sprintf("(%s) 역할 정보가 누락되었습니다.", who), who, FacetRole)
	}

	if _, ok := firstString(rec, imageURLFields); !ok {
		return errors.NewValidationError(
			fmt.Sprintf("(%s) 이미지 정보가 누락되었습니다.", who), who, FacetImage)
	}

	for _, paths := range statFields {
		if _, ok := firstNumber(rec, paths); !ok {
			return errors.NewValidationError(
				fmt.Sprintf("(%s) 스탯 정보가 누락되었습니다.", who), who, FacetStats)
		}
	}

	return nil
}
