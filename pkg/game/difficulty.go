package game

import (
	"math"

	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/entities"
)

// Difficulty names.
const (
	DifficultyEasy      = "easy"
	DifficultyNormal    = "normal"
	DifficultyHard      = "hard"
	DifficultyNightmare = "nightmare"
)

// StartingGold applies the preset and the shop bonus to a level's gold.
func StartingGold(level *config.LevelConfig, preset config.DifficultyPreset, boosts Boosts) int {
	return int(math.Round(float64(level.StartingGold)*preset.GoldMult)) + boosts.StartGold
}

// StartingLives applies the preset and the shop bonus to a level's lives.
// A run always starts with at least one life.
func StartingLives(level *config.LevelConfig, preset config.DifficultyPreset, boosts Boosts) int {
	lives := int(math.Round(float64(level.StartingLives)*preset.LivesMult)) + boosts.BaseHealth
	if lives < 1 {
		lives = 1
	}
	return lives
}

// EndlessScaling returns the stat multipliers of procedurally generated wave
// n. HP grows without bound, speed is capped.
func EndlessScaling(n int, t config.EndlessTuning) entities.EnemyScaling {
	fn := float64(n)
	speed := 1 + fn*t.SpeedPerWave
	if t.SpeedCap > 0 && speed > t.SpeedCap {
		speed = t.SpeedCap
	}
	return entities.EnemyScaling{
		HP:     1 + fn*t.HPPerWave,
		Speed:  speed,
		Reward: 1 + fn*t.RewardPerWave,
	}
}

// ScaleForSpawn combines the difficulty preset with a wave's scaling.
func ScaleForSpawn(preset config.DifficultyPreset, wave entities.EnemyScaling) entities.EnemyScaling {
	return entities.EnemyScaling{
		HP:     preset.EnemyHPMult * wave.HP,
		Speed:  preset.EnemySpeedMult * wave.Speed,
		Reward: wave.Reward,
	}
}
