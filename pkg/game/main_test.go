package game

import (
	"os"
	"testing"

	"github.com/decker502/towers/pkg/config"
	"github.com/decker502/towers/pkg/embedded"
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

// newTestContext creates a run on an authored level at normal difficulty.
func newTestContext(t *testing.T, levelIndex int) *Context {
	t.Helper()
	level, ok := testCatalog.Level(levelIndex)
	if !ok {
		t.Fatalf("level %d not found", levelIndex)
	}
	ctx, err := NewContext(testCatalog, level, Options{Seed: 1})
	if err != nil {
		t.Fatalf("NewContext() error: %v", err)
	}
	return ctx
}
