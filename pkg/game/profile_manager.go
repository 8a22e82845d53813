package game

import (
	"fmt"
	"log"

	"github.com/decker502/towers/pkg/config"
	"github.com/quasilyte/gdata/v2"
	"gopkg.in/yaml.v3"
)

// Storage keys inside the gdata app directory.
const (
	profileObject   = "profile"
	profileProperty = "player"
)

// ProfileManager loads and saves the player profile.
//
// The gdata manager may be nil: the profile then lives in memory only and
// Save is a no-op, so the game keeps running without persistent storage.
type ProfileManager struct {
	gdataManager *gdata.Manager
	profile      *Profile
}

// OpenStorage opens the gdata store for an app name. Failures are logged and
// return nil, which ProfileManager treats as in-memory mode.
func OpenStorage(appName string) *gdata.Manager {
	m, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		log.Printf("[ProfileManager] Warning: gdata unavailable: %v (profile kept in memory)", err)
		return nil
	}
	return m
}

// NewProfileManager creates a manager and loads the stored profile. A load
// failure is logged and leaves the default profile in place.
func NewProfileManager(gdataManager *gdata.Manager) *ProfileManager {
	pm := &ProfileManager{gdataManager: gdataManager, profile: DefaultProfile()}
	if err := pm.Load(); err != nil {
		log.Printf("[ProfileManager] Warning: Failed to load profile: %v (using defaults)", err)
	}
	return pm
}

// Load reads the profile from storage.
func (pm *ProfileManager) Load() error {
	if pm.gdataManager == nil || !pm.gdataManager.ObjectPropExists(profileObject, profileProperty) {
		pm.profile = DefaultProfile()
		return nil
	}
	data, err := pm.gdataManager.LoadObjectProp(profileObject, profileProperty)
	if err != nil {
		pm.profile = DefaultProfile()
		return fmt.Errorf("failed to load profile: %w", err)
	}
	loaded := DefaultProfile()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		pm.profile = DefaultProfile()
		return fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	loaded.normalize()
	pm.profile = loaded
	log.Printf("[ProfileManager] Profile loaded: %d gems, %d levels unlocked", loaded.Gems, loaded.LevelsUnlocked)
	return nil
}

// Save writes the profile to storage.
func (pm *ProfileManager) Save() error {
	if pm.gdataManager == nil {
		return nil
	}
	data, err := yaml.Marshal(pm.profile)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := pm.gdataManager.SaveObjectProp(profileObject, profileProperty, data); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

// Profile returns a copy of the current profile.
func (pm *ProfileManager) Profile() *Profile {
	return pm.profile.Clone()
}

// Upgrades returns a copy of the shop levels, read at level start.
func (pm *ProfileManager) Upgrades() map[string]int {
	return copyMap(pm.profile.Upgrades)
}

// BuyUpgrade purchases one shop level and persists the profile.
func (pm *ProfileManager) BuyUpgrade(shop *config.UpgradesConfig, id string) (int, error) {
	cost, err := pm.profile.BuyUpgrade(shop, id)
	if err != nil {
		return 0, err
	}
	log.Printf("[ProfileManager] Bought %s level %d for %d gems", id, pm.profile.Upgrades[id], cost)
	return cost, pm.Save()
}

// CommitLevelResult merges a finished run into the profile and persists it.
func (pm *ProfileManager) CommitLevelResult(r LevelResult) (int, error) {
	gained := pm.profile.Commit(r)
	log.Printf("[ProfileManager] Level %d (%s) committed: won=%v stars=%d gems=+%d",
		r.LevelIndex, r.Difficulty, r.Won, r.Stars, gained)
	return gained, pm.Save()
}

// MarkTutorialSeen records a shown tutorial.
func (pm *ProfileManager) MarkTutorialSeen(id string) error {
	if pm.profile.TutorialsSeen[id] {
		return nil
	}
	pm.profile.TutorialsSeen[id] = true
	return pm.Save()
}

// SetMusicVolume sets the music volume, clamped to 0.0 ~ 1.0.
// Call Save to persist.
func (pm *ProfileManager) SetMusicVolume(volume float64) {
	pm.profile.Settings.MusicVolume = clampVolume(volume)
}

// SetSfxVolume sets the effects volume, clamped to 0.0 ~ 1.0.
// Call Save to persist.
func (pm *ProfileManager) SetSfxVolume(volume float64) {
	pm.profile.Settings.SfxVolume = clampVolume(volume)
}

// SetShowDamageNumbers toggles floating damage numbers.
func (pm *ProfileManager) SetShowDamageNumbers(show bool) {
	pm.profile.Settings.ShowDamageNumbers = show
}

// SetShowTutorials toggles tutorial popups.
func (pm *ProfileManager) SetShowTutorials(show bool) {
	pm.profile.Settings.ShowTutorials = show
}
