package config

import (
	"os"
	"testing"

	"github.com/decker502/towers/pkg/embedded"
)

func TestMain(m *testing.M) {
	// the module root holds data/
	embedded.Init(os.DirFS("../.."))
	os.Exit(m.Run())
}
