// Package config loads the pipeline's JSON configuration (§6.1) through a
// layered koanf stack: defaults, then the config file, then environment
// variables, then command-line flags, each overriding the last. Grounded
// on the teacher repo's pkg/config/config.go, adapted from its TOML
// config file and flat CLI-tool fields to the pipeline's nested JSON
// schema.
package config

import (
	"fmt"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// BaseTargets names the cquery seed set and the excluded-targets prefix
// list that bounds the collector's walk (§6.1).
type BaseTargets struct {
	Target          string   `koanf:"target"`
	ExcludedTargets []string `koanf:"excluded_targets"`
	BazelConfig     string   `koanf:"bazel_config"`
}

// DebugTargetGraph names where to write a Graphviz rendering and which
// roots to render it from.
type DebugTargetGraph struct {
	Path    string   `koanf:"path"`
	Targets []string `koanf:"targets"`
}

// MergedTargets configures the cc_library/cc_shared_library deep merge
// pass (§4.8.D): the prefix for synthesized targets and the list of root
// labels to fold.
type MergedTargets struct {
	NewTargetsPrefix string   `koanf:"new_targets_prefix"`
	Targets          []string `koanf:"targets"`
}

// ArtifactTargets names the roots the unreachable-removal pass keeps
// alive, and whether that pass runs at all.
type ArtifactTargets struct {
	Targets          []string `koanf:"targets"`
	PruneUnreachable bool     `koanf:"prune_unreachable"`
}

// Config is the top-level JSON configuration object (§6.1). Unknown keys
// are ignored by koanf's unmarshal; missing nested objects decode as
// their zero value, matching "treated as empty".
type Config struct {
	BaseTargets      BaseTargets      `koanf:"base_targets"`
	PrefixPath       string           `koanf:"prefix_path"`
	OutputBuildPath  string           `koanf:"output_build_path"`
	BuildFileName    string           `koanf:"build_file_name"`
	DebugBuild       bool             `koanf:"debug_build"`
	DebugTree        bool             `koanf:"debug_tree"`
	DebugTargetGraph DebugTargetGraph `koanf:"debug_target_graph"`
	MergedTargets    MergedTargets    `koanf:"merged_targets"`
	ArtifactTargets  ArtifactTargets  `koanf:"artifact_targets"`
	Watch            bool             `koanf:"watch"`
	ConfigPath       string           `koanf:"config"`
}

// Load loads configuration from defaults, the JSON config file, environment
// variables, and flags, in that priority order: Flags > Env > File >
// Defaults.
func Load(f *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	defaults := map[string]interface{}{
		"build_file_name":                   "BUILD",
		"debug_build":                       false,
		"debug_tree":                        false,
		"watch":                              false,
		"artifact_targets.prune_unreachable": true,
		"config":                             "buildgraph.json",
	}
	if err := k.Load(makeMapProvider(defaults), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load defaults: %w", err)
	}

	configPath := "buildgraph.json"
	if f != nil {
		if p, err := f.GetString("config"); err == nil && p != "" {
			configPath = p
		}
	}
	// Config file is optional; a missing file is not an error.
	_ = k.Load(file.Provider(configPath), json.Parser())

	if err := k.Load(env.Provider("BUILDGRAPH_", ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(
			strings.TrimPrefix(s, "BUILDGRAPH_")), "_", ".")
	}), nil); err != nil {
		return nil, fmt.Errorf("config: failed to load env vars: %w", err)
	}

	if f != nil {
		if err := k.Load(posflag.Provider(f, ".", k), nil); err != nil {
			return nil, fmt.Errorf("config: failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("config: failed to unmarshal: %w", err)
	}

	return &cfg, nil
}

type mapProvider struct {
	m map[string]interface{}
}

func makeMapProvider(m map[string]interface{}) *mapProvider {
	return &mapProvider{m: m}
}

func (p *mapProvider) Read() (map[string]interface{}, error) {
	return p.m, nil
}

func (p *mapProvider) ReadBytes() ([]byte, error) {
	return nil, fmt.Errorf("config: ReadBytes not implemented")
}
