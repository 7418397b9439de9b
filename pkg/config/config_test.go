package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
)

func TestLoadAppliesDefaultsWithoutFileOrFlags(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BuildFileName != "BUILD" {
		t.Errorf("expected default build_file_name BUILD, got %q", cfg.BuildFileName)
	}
	if !cfg.ArtifactTargets.PruneUnreachable {
		t.Error("expected default artifact_targets.prune_unreachable to be true")
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	doc := map[string]interface{}{
		"build_file_name": "BUILD.bazel",
		"base_targets": map[string]interface{}{
			"target":           "//foo:bar",
			"excluded_targets": []string{"//vendor"},
		},
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "buildgraph.json"), raw, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BuildFileName != "BUILD.bazel" {
		t.Errorf("expected file override BUILD.bazel, got %q", cfg.BuildFileName)
	}
	if cfg.BaseTargets.Target != "//foo:bar" {
		t.Errorf("expected base_targets.target //foo:bar, got %q", cfg.BaseTargets.Target)
	}
}

func TestLoadFlagsOverrideFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	doc := map[string]interface{}{"watch": false}
	raw, _ := json.Marshal(doc)
	if err := os.WriteFile(filepath.Join(dir, "buildgraph.json"), raw, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Bool("watch", true, "")
	if err := fs.Parse([]string{"--watch=true"}); err != nil {
		t.Fatalf("parse flags: %v", err)
	}

	cfg, err := Load(fs)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Watch {
		t.Error("expected flag to override file/default watch=false")
	}
}
