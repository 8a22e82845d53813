// Package feed streams simulation snapshots to remote viewers over websocket
// and relays their commands back as intents. Frames are msgpack encoded.
package feed

import (
	"errors"
	"fmt"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/engine"
	"github.com/decker502/towers/pkg/event"
	"github.com/decker502/towers/pkg/grid"
	"github.com/vmihailenco/msgpack/v5"
)

// Frame kinds.
const (
	FrameMap      = "map"
	FrameSnapshot = "snap"
)

// Frame is one server to viewer message. A map frame is sent once on
// connect; snapshot frames follow every published tick.
type Frame struct {
	Kind     string           `msgpack:"k"`
	Seq      uint64           `msgpack:"seq"`
	Map      *engine.MapView  `msgpack:"map,omitempty"`
	Snapshot *engine.Snapshot `msgpack:"snap,omitempty"`
	Events   []event.Event    `msgpack:"ev,omitempty"`
}

// Command is one viewer to server message naming an intent by its wire name.
type Command struct {
	Intent    string  `msgpack:"intent"`
	TowerType string  `msgpack:"tower,omitempty"`
	Row       int     `msgpack:"row,omitempty"`
	Col       int     `msgpack:"col,omitempty"`
	ID        uint64  `msgpack:"id,omitempty"`
	Target    uint64  `msgpack:"target,omitempty"`
	Mode      string  `msgpack:"mode,omitempty"`
	Weapon    string  `msgpack:"weapon,omitempty"`
	X         float64 `msgpack:"x,omitempty"`
	Y         float64 `msgpack:"y,omitempty"`
	Speed     int     `msgpack:"speed,omitempty"`
}

// ErrBadCommand is returned for commands that name no known intent or carry
// an unknown mode or weapon.
var ErrBadCommand = errors.New("bad command")

// Intent converts a command to an engine intent.
func (c Command) Intent() (engine.Intent, error) {
	kind, ok := engine.ParseIntentKind(c.Intent)
	if !ok {
		return engine.Intent{}, fmt.Errorf("intent %q: %w", c.Intent, ErrBadCommand)
	}
	in := engine.Intent{
		Kind:      kind,
		TowerType: c.TowerType,
		Cell:      grid.Cell{Row: c.Row, Col: c.Col},
		Tower:     ecs.EntityID(c.ID),
		Target:    ecs.EntityID(c.Target),
		X:         c.X,
		Y:         c.Y,
		Speed:     c.Speed,
	}
	if c.Mode != "" {
		if in.Mode, ok = components.ParseTargetMode(c.Mode); !ok {
			return engine.Intent{}, fmt.Errorf("mode %q: %w", c.Mode, ErrBadCommand)
		}
	}
	if c.Weapon != "" {
		if in.Weapon, ok = components.ParseDeployableKind(c.Weapon); !ok {
			return engine.Intent{}, fmt.Errorf("weapon %q: %w", c.Weapon, ErrBadCommand)
		}
	}
	return in, nil
}

// CommandFor converts an intent to its wire command.
func CommandFor(in engine.Intent) Command {
	c := Command{
		Intent:    in.Kind.String(),
		TowerType: in.TowerType,
		Row:       in.Cell.Row,
		Col:       in.Cell.Col,
		ID:        uint64(in.Tower),
		Target:    uint64(in.Target),
		X:         in.X,
		Y:         in.Y,
		Speed:     in.Speed,
	}
	switch in.Kind {
	case engine.IntentSetTargetMode:
		c.Mode = in.Mode.String()
	case engine.IntentDeployWeapon:
		c.Weapon = in.Weapon.String()
	}
	return c
}

// EncodeFrame serialises a frame.
func EncodeFrame(f *Frame) ([]byte, error) {
	data, err := msgpack.Marshal(f)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s frame: %w", f.Kind, err)
	}
	return data, nil
}

// DecodeFrame parses a frame received by a viewer.
func DecodeFrame(data []byte) (*Frame, error) {
	var f Frame
	if err := msgpack.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode frame: %w", err)
	}
	return &f, nil
}

// EncodeCommand serialises a viewer command.
func EncodeCommand(c Command) ([]byte, error) {
	return msgpack.Marshal(&c)
}
