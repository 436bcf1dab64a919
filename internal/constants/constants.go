package constants

import "time"

var CacheKeys = struct {
	LastResult string
}{
	LastResult: "cardquest:last_result", // 마지막 성공 결과 (고정 키, 통째로 덮어씀)
}

var CacheTTL = struct {
	LastResult    time.Duration
	ScrapedAvatar time.Duration
}{
	LastResult:    0,                // 만료 없음 - 다음 성공 시 덮어씀
	ScrapedAvatar: 30 * time.Minute, // GitHub 아바타 스크랩 결과
}

var APIConfig = struct {
	GeneratorTimeout time.Duration
	ScraperTimeout   time.Duration
}{
	GeneratorTimeout: 60 * time.Second, // 카드 생성 백엔드는 느리다 (1분)
	ScraperTimeout:   15 * time.Second,
}

var ProgressConfig = struct {
	MinDuration    time.Duration
	MaxDuration    time.Duration
	MaxPlayersEst  int
	ElapsedCeiling float64
	WobbleBand     float64
	TickInterval   time.Duration
	StepInterval   time.Duration
}{
	MinDuration:    15 * time.Second, // 1명 기준 약 15초
	MaxDuration:    40 * time.Second, // 6명 기준 약 40초
	MaxPlayersEst:  6,
	ElapsedCeiling: 85, // 경과 시간 모델의 상한 (%)
	WobbleBand:     3,  // 상한 도달 후 흔들림 폭 (%)
	TickInterval:   300 * time.Millisecond,
	StepInterval:   2 * time.Second,
}

var PlayerConfig = struct {
	MaxPlayers int
}{
	MaxPlayers: 6,
}

var GatewayConfig = struct {
	ShutdownTimeout  time.Duration
	WriteWait        time.Duration
	BroadcastWorkers int
}{
	ShutdownTimeout:  10 * time.Second,
	WriteWait:        2 * time.Second,
	BroadcastWorkers: 15,
}

var CircuitBreakerConfig = struct {
	FailureThreshold int
	ResetTimeout     time.Duration
}{
	FailureThreshold: 3,                // 3회 연속 실패 시 Circuit OPEN
	ResetTimeout:     30 * time.Second, // 재시도 대기 시간
}
