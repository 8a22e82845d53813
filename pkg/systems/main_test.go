package systems

import (
	"math"
	"os"
	"testing"

	"github.com/decker502/towers/pkg/components"
	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/ecs"
	"github.com/decker502/towers/pkg/embedded"
	"github.com/decker502/towers/pkg/entities"
	"github.com/decker502/towers/pkg/game"
)

var testCatalog *config.Catalog

func TestMain(m *testing.M) {
	embedded.Init(os.DirFS("../.."))
	c, err := config.LoadCatalog()
	if err != nil {
		panic(err)
	}
	testCatalog = c
	os.Exit(m.Run())
}

func newTestContext(t *testing.T, levelIndex int) *game.Context {
	t.Helper()
	level, ok := testCatalog.Level(levelIndex)
	if !ok {
		t.Fatalf("level %d not found", levelIndex)
	}
	ctx, err := game.NewContext(testCatalog, level, game.Options{Seed: 7})
	if err != nil {
		t.Fatalf("NewContext() error: %v", err)
	}
	return ctx
}

// spawnAt places an enemy of a custom definition at a pixel position.
func spawnAt(t *testing.T, ctx *game.Context, def *config.EnemyDef, x, y float64) ecs.EntityID {
	t.Helper()
	id, err := entities.NewEnemy(ctx.EM, "test", def, entities.NoScaling, entities.SpawnPoint{X: x, Y: y, WaypointIndex: 1})
	if err != nil {
		t.Fatalf("NewEnemy() error: %v", err)
	}
	return id
}

func hpOf(ctx *game.Context, id ecs.EntityID) float64 {
	hp, ok := ecs.GetComponent[*components.HealthComponent](ctx.EM, id)
	if !ok {
		return math.NaN()
	}
	return hp.HP
}

func enemyOf(ctx *game.Context, id ecs.EntityID) *components.EnemyComponent {
	e, _ := ecs.GetComponent[*components.EnemyComponent](ctx.EM, id)
	return e
}

func approx(a, b float64) bool { return math.Abs(a-b) < 1e-9 }
