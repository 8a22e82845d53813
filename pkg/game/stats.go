package game

import "github.com/decker502/towers/pkg/config"

// RunStats is tracked incrementally while a level runs and feeds bonus
// missions, personal bests and profile totals.
type RunStats struct {
	Kills           int
	BossKills       int
	Leaks           int
	TowersBuilt     int
	TowersLost      int
	TowersStanding  int
	MaxTowers       int
	DeployablesUsed int
	WavesCleared    int
	GemsCollected   int
	GoldEarned      int
	TowerTypes      map[string]bool
}

// NewRunStats creates empty stats.
func NewRunStats() *RunStats {
	return &RunStats{TowerTypes: make(map[string]bool)}
}

// TowerBuilt records a new tower.
func (s *RunStats) TowerBuilt(typeID string) {
	s.TowersBuilt++
	s.TowersStanding++
	if s.TowersStanding > s.MaxTowers {
		s.MaxTowers = s.TowersStanding
	}
	s.TowerTypes[typeID] = true
}

// TowerRemoved records a tower leaving the board. lost is true when enemies
// destroyed it rather than the player selling it.
func (s *RunStats) TowerRemoved(lost bool) {
	if s.TowersStanding > 0 {
		s.TowersStanding--
	}
	if lost {
		s.TowersLost++
	}
}

// MissionResult is the outcome of one bonus mission.
type MissionResult struct {
	ID         string `yaml:"id" json:"id"`
	Completed  bool   `yaml:"completed" json:"completed"`
	RewardGems int    `yaml:"rewardGems" json:"rewardGems"`
}

// EvaluateMissions checks the level's missions once at level end. Missions
// only complete on a won level.
func EvaluateMissions(missions []config.MissionConfig, stats *RunStats, peakGold int, won bool) []MissionResult {
	results := make([]MissionResult, 0, len(missions))
	for _, m := range missions {
		done := false
		if won {
			switch m.Type {
			case config.MissionGoldReached:
				done = peakGold >= m.Threshold
			case config.MissionNoDeployables:
				done = stats.DeployablesUsed == 0
			case config.MissionUniqueTowers:
				done = len(stats.TowerTypes) >= m.Threshold
			case config.MissionNoTowerLost:
				done = stats.TowersLost == 0
			case config.MissionNoLeaks:
				done = stats.Leaks == 0
			case config.MissionMaxTowers:
				done = stats.MaxTowers <= m.Threshold
			}
		}
		results = append(results, MissionResult{ID: m.ID, Completed: done, RewardGems: m.RewardGems})
	}
	return results
}

// StarsFor rates a won level by the fraction of lives kept.
func StarsFor(lives, maxLives int, t config.StarTuning) int {
	if maxLives <= 0 {
		return 1
	}
	ratio := float64(lives) / float64(maxLives)
	switch {
	case ratio >= t.ThreeStarRatio:
		return 3
	case ratio >= t.TwoStarRatio:
		return 2
	default:
		return 1
	}
}
