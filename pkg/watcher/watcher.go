// Package watcher implements the pipeline's --watch mode: re-run the
// pipeline whenever a BUILD file changes. Narrowed from the teacher's
// pkg/watcher, which also tracked .d/.o artifact churn under bazel-out for
// a live web dashboard; this pipeline has no artifact-staleness UI, so
// only BUILD-file events are tracked.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ritzau/buildgraph/pkg/logging"
)

// ChangeEvent is a batch of BUILD files that changed together.
type ChangeEvent struct {
	Paths     []string
	Timestamp time.Time
}

// FileWatcher watches a checkout for BUILD/BUILD.bazel file changes.
type FileWatcher struct {
	watcher   *fsnotify.Watcher
	workspace string
	events    chan ChangeEvent
	done      chan struct{}
	closeOnce sync.Once
}

// NewFileWatcher creates a watcher rooted at workspace.
func NewFileWatcher(workspace string) (*FileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watcher: failed to create fsnotify watcher: %w", err)
	}
	return &FileWatcher{
		watcher:   w,
		workspace: workspace,
		events:    make(chan ChangeEvent, 100),
		done:      make(chan struct{}),
	}, nil
}

// Start begins watching every directory that currently holds a BUILD
// file, then processes events until ctx is canceled.
func (fw *FileWatcher) Start(ctx context.Context) error {
	if err := fw.watchBuildFiles(); err != nil {
		logging.Warn("failed to watch BUILD files", "error", err)
	}
	logging.Info("started watching workspace for BUILD file changes", "path", fw.workspace)
	go fw.processEvents(ctx)
	return nil
}

func (fw *FileWatcher) watchBuildFiles() error {
	buildDirs := make(map[string]bool)

	err := filepath.Walk(fw.workspace, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return nil
		}
		if info.IsDir() && strings.HasPrefix(info.Name(), "bazel-") {
			return filepath.SkipDir
		}
		if !info.IsDir() && (info.Name() == "BUILD" || info.Name() == "BUILD.bazel") {
			buildDirs[filepath.Dir(path)] = true
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watcher: failed to walk workspace: %w", err)
	}

	for dir := range buildDirs {
		if err := fw.watcher.Add(dir); err != nil {
			logging.Warn("failed to watch directory", "path", dir, "error", err)
		}
	}
	logging.Info("monitoring directories for BUILD files", "count", len(buildDirs))
	return nil
}

func (fw *FileWatcher) processEvents(ctx context.Context) {
	var buildFiles []string

	flushTimer := time.NewTimer(100 * time.Millisecond)
	flushTimer.Stop()

	flush := func() {
		if len(buildFiles) == 0 {
			return
		}
		fw.events <- ChangeEvent{Paths: buildFiles, Timestamp: time.Now()}
		buildFiles = nil
	}

	for {
		select {
		case <-ctx.Done():
			if err := fw.close(); err != nil {
				logging.Warn("failed to close fsnotify watcher", "error", err)
			}
			return

		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			name := filepath.Base(event.Name)
			if name == "BUILD" || name == "BUILD.bazel" {
				buildFiles = append(buildFiles, event.Name)
				flushTimer.Reset(100 * time.Millisecond)
			}

		case <-flushTimer.C:
			flush()

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			logging.Error("watcher error", "error", err)
		}
	}
}

// Events returns the channel of BUILD-file change batches.
func (fw *FileWatcher) Events() <-chan ChangeEvent {
	return fw.events
}

// Stop closes the underlying fsnotify watcher.
func (fw *FileWatcher) Stop() error {
	return fw.close()
}

// close tears down the events/done channels and the fsnotify watcher
// exactly once, whichever of processEvents' ctx.Done() branch or Stop()
// reaches it first.
func (fw *FileWatcher) close() error {
	var err error
	fw.closeOnce.Do(func() {
		err = fw.watcher.Close()
		close(fw.events)
		close(fw.done)
	})
	return err
}
