package adapter

import (
	"fmt"
	"strings"

	"github.com/haneul/card-quest-go/internal/domain"
	"github.com/haneul/card-quest-go/internal/util"
)

const maxNameRunes = 40

// ResponseFormatter renders resolved outcomes as shareable plain text
// for chat-oriented consumers.
type ResponseFormatter struct{}

func NewResponseFormatter() *ResponseFormatter {
	return &ResponseFormatter{}
}

// FormatOutcome formats one resolved outcome into a text summary.
func (f *ResponseFormatter) FormatOutcome(out domain.Outcome) string {
	if out.Status == domain.StatusError {
		return f.FormatTerminalError(out.Error)
	}

	if len(out.Cards) == 0 {
		return "🃏 아직 생성된 카드가 없습니다."
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("🃏 캐릭터 덱 (%d장)\n", len(out.Cards)))
	if out.Source == domain.SourceCache {
		sb.WriteString("   (이전 결과로 복구됨)\n")
	} else if out.Source == domain.SourceSynthetic {
		sb.WriteString("   (오프라인 대체 카드)\n")
	}
	sb.WriteString("\n")

	for i, card := range out.Cards {
		if i > 0 {
			sb.WriteString("\n")
		}

		name := util.TruncateString(card.Name, maxNameRunes)
		sb.WriteString(fmt.Sprintf("🎮 %s\n", name))
		sb.WriteString(fmt.Sprintf("   %s (%s)\n", card.Role.Label, card.Role.LocalizedLabel))
		sb.WriteString(fmt.Sprintf("   %s\n", card.Role.Description))
		sb.WriteString(fmt.Sprintf("   🌙 %d | ⚡ %d | 👥 %d | 🎯 %d",
			card.Stats.DayVsNight,
			card.Stats.SteadyVsBurst,
			card.Stats.IndieVsCrew,
			card.Stats.SpecialVsGeneral,
		))

		if i < len(out.Cards)-1 {
			sb.WriteString("\n")
		}
	}

	if out.TeamReport != nil {
		sb.WriteString("\n\n")
		sb.WriteString(f.formatTeamReport(out.TeamReport))
	}

	return sb.String()
}

// FormatTerminalError wraps the terminal message for display.
func (f *ResponseFormatter) FormatTerminalError(message string) string {
	return "⚠️ " + util.FirstNonEmpty(message, "결과를 불러오지 못했습니다.")
}

func (f *ResponseFormatter) formatTeamReport(report *domain.TeamReport) string {
	var sb strings.Builder
	sb.WriteString("🤝 협업 리포트\n")

	for _, line := range report.Synergy {
		sb.WriteString(fmt.Sprintf("   ✨ %s\n", line))
	}
	for _, line := range report.Warning {
		sb.WriteString(fmt.Sprintf("   ⚠️ %s\n", line))
	}

	return strings.TrimRight(sb.String(), "\n")
}
