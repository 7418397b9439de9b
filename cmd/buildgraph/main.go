// Command buildgraph collects a build graph from a workspace via cquery,
// runs the graph-rewriting transform chain over it, and emits BUILD
// files (plus optional debug dumps) for the merged result. Replaces the
// teacher repo's cmd/deps-analyzer and cmd/analyzer, which drove the
// same kind of cquery-based collection toward a web dashboard instead of
// a rewritten build tree.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/ritzau/buildgraph/pkg/bazelrunner"
	"github.com/ritzau/buildgraph/pkg/catalog"
	"github.com/ritzau/buildgraph/pkg/collector"
	"github.com/ritzau/buildgraph/pkg/config"
	"github.com/ritzau/buildgraph/pkg/dag"
	"github.com/ritzau/buildgraph/pkg/emit"
	"github.com/ritzau/buildgraph/pkg/logging"
	"github.com/ritzau/buildgraph/pkg/model"
	"github.com/ritzau/buildgraph/pkg/report"
	"github.com/ritzau/buildgraph/pkg/tree"
	"github.com/ritzau/buildgraph/pkg/transform"
	"github.com/ritzau/buildgraph/pkg/watcher"
)

// Exit codes per §6.5.
const (
	exitOK                = 0
	exitConfigError       = 1
	exitUnresolvedOrCycle = 2
)

func main() {
	fs := pflag.NewFlagSet("buildgraph", pflag.ContinueOnError)
	fs.String("config", "buildgraph.json", "path to the JSON config file")
	workspace := fs.String("workspace", ".", "path to the Bazel workspace root")
	verbose := fs.Bool("verbose", false, "enable debug-level logging")
	fs.Bool("watch", false, "re-run the pipeline whenever a BUILD file changes")
	fs.String("base_targets.target", "", "seed target(s) to start collection from")
	fs.String("output_build_path", "", "directory to write rewritten BUILD files into")
	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(exitConfigError)
	}

	if *verbose {
		logging.SetLevel(slog.LevelDebug)
	}

	cfg, err := config.Load(fs)
	if err != nil {
		logging.Error("failed to load configuration", "error", err)
		os.Exit(exitConfigError)
	}
	if cfg.BaseTargets.Target == "" {
		logging.Error("base_targets.target is required")
		os.Exit(exitConfigError)
	}

	ctx := logging.WithRunID(context.Background(), uuid.NewString())

	if cfg.Watch {
		runWatchLoop(ctx, *workspace, cfg)
		return
	}

	os.Exit(runOnce(ctx, *workspace, cfg))
}

// runOnce executes one collect-transform-emit cycle and returns the
// process exit code it earned, per §6.5: 0 clean, 1 configuration error,
// 2 unresolved target or cycle.
func runOnce(ctx context.Context, workspace string, cfg *config.Config) int {
	cat := catalog.Builtin()

	runner := bazelrunner.New(workspace, bazelrunner.Config{Config: cfg.BaseTargets.BazelConfig})
	col := &collector.Collector{Runner: runner, Catalog: cat, PrefixPath: cfg.PrefixPath}

	logging.InfoContext(ctx, "collecting targets", "seed", cfg.BaseTargets.Target)
	nodes, err := col.Collect(ctx, []string{cfg.BaseTargets.Target}, cfg.BaseTargets.ExcludedTargets, cfg.BaseTargets.BazelConfig)
	if err != nil {
		logging.ErrorContext(ctx, "collection failed", "error", err)
		if _, ok := err.(*collector.UnresolvedTargetsError); ok {
			return exitUnresolvedOrCycle
		}
		return exitConfigError
	}

	forest, err := tree.Build(nodes)
	if err != nil {
		logging.ErrorContext(ctx, "failed to build package tree", "error", err)
		return exitConfigError
	}

	chain := buildChain(cfg)
	if err := chain.Run(forest); err != nil {
		logging.ErrorContext(ctx, "transform chain failed", "error", err)
		if isCycleError(err) {
			report.PrintRunSummary(report.RunSummary{
				Workspace:   workspace,
				SeedTargets: []string{cfg.BaseTargets.Target},
				CycleError:  err,
			})
			return exitUnresolvedOrCycle
		}
		return exitConfigError
	}

	emitted, err := emitBuildFiles(forest, cat, cfg, workspace)
	if err != nil {
		logging.ErrorContext(ctx, "failed to emit BUILD files", "error", err)
		return exitConfigError
	}

	if cfg.DebugTree {
		fmt.Println(emit.DebugTree(forest, emit.TreeOptions{ShowFiles: true, ShowTargets: true}))
	}
	if cfg.DebugTargetGraph.Path != "" {
		if err := emitDebugGraph(ctx, forest, cfg); err != nil {
			logging.WarnContext(ctx, "failed to emit debug target graph", "error", err)
		}
	}

	report.PrintRunSummary(report.RunSummary{
		Workspace:        workspace,
		SeedTargets:      []string{cfg.BaseTargets.Target},
		TargetsCollected: len(nodes),
		PackagesEmitted:  emitted,
	})
	return exitOK
}

// buildChain assembles the §4.8 transform chain in its significant
// order, configuring the merge and prune passes from cfg.
func buildChain(cfg *config.Config) transform.Chain {
	chain := transform.Chain{
		transform.AliasElision,
		transform.MacroCollapse,
		transform.HeaderOnlyMerge,
	}

	if len(cfg.MergedTargets.Targets) > 0 {
		var forest *model.Forest
		specs := make([]transform.MergeSpec, len(cfg.MergedTargets.Targets))
		for i, t := range cfg.MergedTargets.Targets {
			specs[i] = transform.MergeSpec{RootLabel: t, NewTargetsPrefix: cfg.MergedTargets.NewTargetsPrefix}
		}
		// resolveLabel is rebound to the forest passed into the chain at
		// run time by wrapping CcLibraryDeepMerge's own Transformer.
		merge := transform.CcLibraryDeepMerge(specs, func(lbl string) model.Node {
			if forest == nil {
				return nil
			}
			return forest.Lookup(lbl)
		})
		chain = append(chain, func(f *model.Forest) error {
			forest = f
			return merge(f)
		})
	}

	chain = append(chain, transform.ExportSynthesis)

	if cfg.ArtifactTargets.PruneUnreachable && len(cfg.ArtifactTargets.Targets) > 0 {
		chain = append(chain, transform.UnreachableRemoval(cfg.ArtifactTargets.Targets, dag.DefaultRemovable()))
	}

	return chain
}

func isCycleError(err error) bool {
	_, ok := err.(*dag.CycleError)
	return ok
}

// emitBuildFiles writes one rewritten BUILD file per non-empty internal
// package, rooted at cfg.OutputBuildPath, and returns how many it wrote.
// An empty OutputBuildPath writes nothing (DebugBuild still prints).
func emitBuildFiles(forest *model.Forest, cat *catalog.Catalog, cfg *config.Config, workspace string) (int, error) {
	outRoot := cfg.OutputBuildPath
	fileName := cfg.BuildFileName
	if fileName == "" {
		fileName = "BUILD"
	}

	written := 0
	for _, repo := range forest.Internal.Repositories {
		for _, pkg := range repo.Packages {
			content := emit.BuildFile(pkg, cat)
			if content == "" {
				continue
			}
			if cfg.DebugBuild {
				fmt.Printf("# %s\n%s\n", pkg.Label, content)
			}
			if outRoot == "" {
				continue
			}
			dir := filepath.Join(outRoot, pkg.Path)
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return written, fmt.Errorf("main: failed to create %s: %w", dir, err)
			}
			path := filepath.Join(dir, fileName)
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				return written, fmt.Errorf("main: failed to write %s: %w", path, err)
			}
			written++
		}
	}
	return written, nil
}

// emitDebugGraph renders the DAG rooted at cfg.DebugTargetGraph.Targets
// to Graphviz dot, lays it out via twopi, and writes the SVG.
func emitDebugGraph(ctx context.Context, forest *model.Forest, cfg *config.Config) error {
	d, err := dag.Build(forest)
	if err != nil {
		return err
	}
	dotText := emit.Dot(d, cfg.DebugTargetGraph.Targets)
	svg, err := emit.RenderSVG(ctx, emit.DefaultLayoutExecutor{}, dotText)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(cfg.DebugTargetGraph.Path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(cfg.DebugTargetGraph.Path, svg, 0o644)
}

// runWatchLoop runs one pipeline pass immediately, then again every time
// a batch of BUILD-file changes is debounced in, until the process is
// interrupted.
func runWatchLoop(ctx context.Context, workspace string, cfg *config.Config) {
	logging.InfoContext(ctx, "running initial pipeline pass")
	runOnce(ctx, workspace, cfg)

	fw, err := watcher.NewFileWatcher(workspace)
	if err != nil {
		logging.FatalContext(ctx, "failed to start file watcher", "error", err)
	}
	if err := fw.Start(ctx); err != nil {
		logging.FatalContext(ctx, "failed to start file watcher", "error", err)
	}

	debouncer := watcher.NewDebouncer(fw.Events(), 500*time.Millisecond, 5*time.Second)
	debouncer.Start(ctx)

	for range debouncer.Output() {
		logging.InfoContext(ctx, "BUILD file change detected, re-running pipeline")
		runOnce(ctx, workspace, cfg)
	}
}
