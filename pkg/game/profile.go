package game

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/decker502/towers/pkg/config"
)

// Shop errors.
var (
	ErrUnknownUpgrade   = errors.New("unknown upgrade")
	ErrUpgradeMaxed     = errors.New("upgrade is at max level")
	ErrInsufficientGems = errors.New("insufficient gems")
)

// DefaultStartingGems is the gem balance of a new profile.
const DefaultStartingGems = 100

// Settings are the player's presentation preferences.
type Settings struct {
	MusicVolume       float64 `yaml:"musicVolume" json:"musicVolume"`
	SfxVolume         float64 `yaml:"sfxVolume" json:"sfxVolume"`
	ShowDamageNumbers bool    `yaml:"showDamageNumbers" json:"showDamageNumbers"`
	ShowTutorials     bool    `yaml:"showTutorials" json:"showTutorials"`
}

// DefaultSettings returns the settings of a new profile.
func DefaultSettings() Settings {
	return Settings{MusicVolume: 0.3, SfxVolume: 0.5, ShowDamageNumbers: true, ShowTutorials: true}
}

// PersonalBest is the best run recorded for one level and difficulty.
type PersonalBest struct {
	Stars     int `yaml:"stars" json:"stars"`
	LivesLeft int `yaml:"livesLeft" json:"livesLeft"`
	Kills     int `yaml:"kills" json:"kills"`
	Waves     int `yaml:"waves" json:"waves"`
}

// Totals are lifetime counters across every run.
type Totals struct {
	Kills        int `yaml:"kills" json:"kills"`
	BossKills    int `yaml:"bossKills" json:"bossKills"`
	GemsEarned   int `yaml:"gemsEarned" json:"gemsEarned"`
	WavesCleared int `yaml:"wavesCleared" json:"wavesCleared"`
	LevelsWon    int `yaml:"levelsWon" json:"levelsWon"`
	LevelsLost   int `yaml:"levelsLost" json:"levelsLost"`
}

// Profile is the persisted player progression.
type Profile struct {
	Gems           int                     `yaml:"gems" json:"gems"`
	LevelsUnlocked int                     `yaml:"levelsUnlocked" json:"levelsUnlocked"`
	LevelStars     map[string]int          `yaml:"levelStars" json:"levelStars"` // "<i>" and "<i>_<difficulty>"
	Upgrades       map[string]int          `yaml:"upgrades" json:"upgrades"`
	Settings       Settings                `yaml:"settings" json:"settings"`
	BonusMissions  map[string]bool         `yaml:"bonusMissions" json:"bonusMissions"` // "<i>_<missionID>"
	PersonalBests  map[string]PersonalBest `yaml:"personalBests" json:"personalBests"`
	TutorialsSeen  map[string]bool         `yaml:"tutorialsSeen" json:"tutorialsSeen"`
	Totals         Totals                  `yaml:"totals" json:"totals"`
}

// DefaultProfile returns a fresh profile with the first level unlocked.
func DefaultProfile() *Profile {
	p := &Profile{
		Gems:           DefaultStartingGems,
		LevelsUnlocked: 1,
		Settings:       DefaultSettings(),
	}
	p.normalize()
	return p
}

// normalize fills nil maps and clamps values after decoding.
func (p *Profile) normalize() {
	if p.LevelStars == nil {
		p.LevelStars = make(map[string]int)
	}
	if p.Upgrades == nil {
		p.Upgrades = make(map[string]int)
	}
	if p.BonusMissions == nil {
		p.BonusMissions = make(map[string]bool)
	}
	if p.PersonalBests == nil {
		p.PersonalBests = make(map[string]PersonalBest)
	}
	if p.TutorialsSeen == nil {
		p.TutorialsSeen = make(map[string]bool)
	}
	if p.LevelsUnlocked < 1 {
		p.LevelsUnlocked = 1
	}
	if p.Gems < 0 {
		p.Gems = 0
	}
	p.Settings.MusicVolume = clampVolume(p.Settings.MusicVolume)
	p.Settings.SfxVolume = clampVolume(p.Settings.SfxVolume)
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	c.LevelStars = copyMap(p.LevelStars)
	c.Upgrades = copyMap(p.Upgrades)
	c.BonusMissions = copyMap(p.BonusMissions)
	c.PersonalBests = copyMap(p.PersonalBests)
	c.TutorialsSeen = copyMap(p.TutorialsSeen)
	return &c
}

func copyMap[K comparable, V any](m map[K]V) map[K]V {
	out := make(map[K]V, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// LevelKey returns the key of a level in LevelStars.
func LevelKey(index int) string { return strconv.Itoa(index) }

// LevelDifficultyKey returns the per-difficulty key used by LevelStars and
// PersonalBests.
func LevelDifficultyKey(index int, difficulty string) string {
	return fmt.Sprintf("%d_%s", index, difficulty)
}

// MissionKey returns the key of a mission in BonusMissions.
func MissionKey(index int, missionID string) string {
	return fmt.Sprintf("%d_%s", index, missionID)
}

// IsUnlocked reports whether a level can be played.
func (p *Profile) IsUnlocked(index int) bool {
	return index >= 0 && index < p.LevelsUnlocked
}

// BuyUpgrade spends gems on the next level of a shop upgrade and returns the
// price paid.
func (p *Profile) BuyUpgrade(shop *config.UpgradesConfig, id string) (int, error) {
	u, ok := shop.Get(id)
	if !ok {
		return 0, fmt.Errorf("%s: %w", id, ErrUnknownUpgrade)
	}
	lvl := p.Upgrades[id]
	if lvl >= u.MaxLevel {
		return 0, ErrUpgradeMaxed
	}
	cost := u.Cost(lvl)
	if p.Gems < cost {
		return 0, ErrInsufficientGems
	}
	p.Gems -= cost
	p.Upgrades[id] = lvl + 1
	return cost, nil
}

// LevelResult is the outcome of one finished run.
type LevelResult struct {
	LevelIndex    int             `json:"levelIndex"`
	Difficulty    string          `json:"difficulty"`
	Won           bool            `json:"won"`
	Stars         int             `json:"stars"`
	LivesLeft     int             `json:"livesLeft"`
	GemsCollected int             `json:"gemsCollected"`
	Stats         RunStats        `json:"stats"`
	Missions      []MissionResult `json:"missions"`
}

// Commit merges a level result into the profile and returns the number of
// gems credited. Stars only ever increase, missions pay out once.
func (p *Profile) Commit(r LevelResult) int {
	gained := r.GemsCollected
	for _, m := range r.Missions {
		key := MissionKey(r.LevelIndex, m.ID)
		if !m.Completed || p.BonusMissions[key] {
			continue
		}
		p.BonusMissions[key] = true
		gained += m.RewardGems
	}
	p.Gems += gained

	p.Totals.Kills += r.Stats.Kills
	p.Totals.BossKills += r.Stats.BossKills
	p.Totals.GemsEarned += gained
	p.Totals.WavesCleared += r.Stats.WavesCleared

	if !r.Won {
		p.Totals.LevelsLost++
		return gained
	}
	p.Totals.LevelsWon++

	for _, key := range []string{LevelKey(r.LevelIndex), LevelDifficultyKey(r.LevelIndex, r.Difficulty)} {
		if r.Stars > p.LevelStars[key] {
			p.LevelStars[key] = r.Stars
		}
	}
	if next := r.LevelIndex + 2; next > p.LevelsUnlocked {
		p.LevelsUnlocked = next
	}

	bestKey := LevelDifficultyKey(r.LevelIndex, r.Difficulty)
	best := p.PersonalBests[bestKey]
	if r.Stars > best.Stars || (r.Stars == best.Stars && r.LivesLeft > best.LivesLeft) {
		best.Stars = r.Stars
		best.LivesLeft = r.LivesLeft
	}
	if r.Stats.Kills > best.Kills {
		best.Kills = r.Stats.Kills
	}
	if r.Stats.WavesCleared > best.Waves {
		best.Waves = r.Stats.WavesCleared
	}
	p.PersonalBests[bestKey] = best
	return gained
}

// clampVolume limits a volume to 0.0 ~ 1.0.
func clampVolume(volume float64) float64 {
	if volume < 0.0 {
		return 0.0
	}
	if volume > 1.0 {
		return 1.0
	}
	return volume
}
