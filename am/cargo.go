package am

import (
	"slices"

	"github.com/BurntSushi/toml"

	"github.com/teranos/tlgen/errors"
)

// Cargo feature names that map to generator switches
const (
	FeatureBotsOnlyAPI  = "bots-only-api"
	FeatureImplDebug    = "impl-debug"
	FeatureImplFromEnum = "impl-from-enum"
	FeatureImplFromType = "impl-from-type"
)

type cargoManifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Features map[string][]string `toml:"features"`
}

// LoadCargoFeatures returns the default features of the Cargo manifest at
// path, expanding features that enable other features.
func LoadCargoFeatures(path string) ([]string, error) {
	var manifest cargoManifest
	if _, err := toml.DecodeFile(path, &manifest); err != nil {
		return nil, errors.Wrapf(err, "failed to read Cargo manifest %s", path)
	}

	var enabled []string
	queue := slices.Clone(manifest.Features["default"])
	for len(queue) > 0 {
		feature := queue[0]
		queue = queue[1:]
		if slices.Contains(enabled, feature) {
			continue
		}
		enabled = append(enabled, feature)
		queue = append(queue, manifest.Features[feature]...)
	}

	slices.Sort(enabled)
	return enabled, nil
}

// ApplyFeatures sets the generator switches named by Cargo features. The
// switches are replaced, not merged, since the manifest is authoritative.
func (g *GeneratorConfig) ApplyFeatures(features []string) {
	g.BotsOnlyAPI = slices.Contains(features, FeatureBotsOnlyAPI)
	g.ImplDebug = slices.Contains(features, FeatureImplDebug)
	g.ImplFromEnum = slices.Contains(features, FeatureImplFromEnum)
	g.ImplFromType = slices.Contains(features, FeatureImplFromType)
}
