// Package synthetic builds locally-generated decks for the last rung of
// the recovery chain before a terminal error: deterministic role/image
// pools with randomized stats, optionally enriched with real avatars.
package synthetic

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/haneul/card-quest-go/internal/domain"
	"go.uber.org/zap"
)

var roleLabels = []string{
	"NIGHT CODER",
	"CODE WARRIOR",
	"TECH WIZARD",
	"TEAM BUILDER",
	"SPECIALIST",
	"FULL STACKER",
}

var roleTypes = []string{
	"INTP",
	"ENFP",
}

var roleLocalLabels = []string{
	"나이트 코더",
	"코드 전투",
	"테크 마법사",
	"팀빌더",
	"스페셜리스트",
	"풀스태커",
}

var roleDescriptions = []string{
	"달빛 아래 코드를 짜는 밤의 개발자",
	"빠르고 강력한 코드 전투의 달인",
	"마법같은 기술로 문제를 해결하는 마법사",
	"협업의 힘으로 팀을 이끄는 리더",
	"한 분야에 깊이 파고드는 전문가",
	"모든 영역을 넘나드는 만능 개발자",
}

var stockImages = []string{
	"https://images.unsplash.com/photo-1558702834-68c6ea72e28b?w=400",
	"https://images.unsplash.com/photo-1746802423700-d85a98012dec?w=400",
	"https://images.unsplash.com/photo-1614732414444-096e5f1122d5?w=400",
	"https://images.unsplash.com/photo-1515378960530-7c0da6231fb1?w=400",
	"https://images.unsplash.com/photo-1542831371-29b0f74f9713?w=400",
	"https://images.unsplash.com/photo-1484417894907-623942c8ee29?w=400",
}

var imageCaptions = []string{
	"고요한 밤, 키보드 소리만이 울려퍼지는 작업실",
	"빠른 타이핑과 민첩한 사고로 코드를 완성하다",
	"복잡한 알고리즘을 우아하게 풀어내는 능력자",
	"함께 만들어가는 프로젝트, 시너지의 힘",
	"한 분야의 깊이를 파고들어 최고가 되다",
	"프론트엔드부터 백엔드까지 모두 섭렵한 개발자",
}

// Service generates the synthetic fallback deck. The scraper is
// optional; without it every card uses the stock image pool.
type Service struct {
	scraper *AvatarScraper
	logger  *zap.Logger
}

func NewService(scraper *AvatarScraper, logger *zap.Logger) *Service {
	return &Service{
		scraper: scraper,
		logger:  logger,
	}
}

// BuildDeck produces one synthetic card per identity. Stats are uniform
// in [20,80] so bars never render empty or maxed. No team report is
// ever attached to a synthetic deck.
func (s *Service) BuildDeck(ctx context.Context, identities []domain.Identity) []domain.Card {
	cards := make([]domain.Card, len(identities))

	for i, identity := range identities {
		name := identity.String()

		imageURL := stockImages[i%len(stockImages)]
		if s.scraper != nil {
			if avatar := s.scraper.FetchAvatar(ctx, identity); avatar != "" {
				imageURL = avatar
			}
		}

		cards[i] = domain.Card{
			ID:   fmt.Sprintf("%s-%d", name, i+1),
			Name: name,
			Role: domain.RoleInfo{
				Label:          roleLabels[i%len(roleLabels)],
				LocalizedLabel: roleLocalLabels[i%len(roleLocalLabels)],
				Type:           roleTypes[i%len(roleTypes)],
				Description:    roleDescriptions[i%len(roleDescriptions)],
			},
			Image: domain.ImageInfo{
				URL:     imageURL,
				Caption: imageCaptions[i%len(imageCaptions)],
			},
			Stats: domain.Stats{
				DayVsNight:       s.statValue(),
				SteadyVsBurst:    s.statValue(),
				IndieVsCrew:      s.statValue(),
				SpecialVsGeneral: s.statValue(),
			},
		}
	}

	s.logger.Info("Synthetic deck built (FALLBACK MODE)",
		zap.Int("cards", len(cards)),
	)

	return cards
}

func (s *Service) statValue() int {
	return rand.Intn(61) + 20
}
