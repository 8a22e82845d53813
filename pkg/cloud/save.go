// Package cloud keeps save slots for a player: on the remote save service
// when signed in, in local gdata storage otherwise or when the service
// fails.
package cloud

import (
	"time"

	"github.com/decker502/towers/pkg/engine"
)

// SaveState is the resumable part of a run.
type SaveState struct {
	CurrentLevel   int `json:"currentLevel" yaml:"currentLevel"`
	Gold           int `json:"gold" yaml:"gold"`
	Lives          int `json:"lives" yaml:"lives"`
	Wave           int `json:"wave" yaml:"wave"`
	LevelsUnlocked int `json:"levelsUnlocked" yaml:"levelsUnlocked"`
}

// Save is one named slot.
type Save struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Data      SaveState `json:"data" yaml:"data"`
	CreatedAt time.Time `json:"created_at" yaml:"createdAt"`
	UpdatedAt time.Time `json:"updated_at,omitempty" yaml:"updatedAt,omitempty"`
	Local     bool      `json:"local,omitempty" yaml:"local"`
}

// StateFromSnapshot captures the resumable fields of a running level.
func StateFromSnapshot(snap engine.Snapshot, levelsUnlocked int) SaveState {
	return SaveState{
		CurrentLevel:   snap.Level,
		Gold:           snap.Gold,
		Lives:          snap.Lives,
		Wave:           snap.Wave,
		LevelsUnlocked: levelsUnlocked,
	}
}

// DefaultSaveName names a slot after its creation time.
func DefaultSaveName(t time.Time) string {
	return "Save " + t.Format("2006-01-02 15:04:05")
}
