// Package towers carries the embedded level and stat data.
// The go:embed directive only reaches files under the declaring package, so
// the data/ tree is declared here at the module root and handed to
// pkg/embedded by the binaries.
package towers

import "embed"

//go:embed data/levels data/towers.yaml data/enemies.yaml data/tuning.yaml data/upgrades.yaml
var DataFS embed.FS
