package watcher

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tristendillon/dllbundle/core/logger"
	"github.com/tristendillon/dllbundle/core/models"
)

type FileWatcherImpl struct {
	FileWatcher *models.FileWatcher
}

func NewFileWatcher(files []string) (*FileWatcherImpl, error) {
	if len(files) == 0 {
		return nil, goerr.New("nothing to watch: dependency lists read from stdin cannot be watched")
	}

	fw, err := models.NewFileWatcher(files)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create file watcher")
	}
	return &FileWatcherImpl{
		FileWatcher: fw,
	}, nil
}

// Watch blocks until ctx is done, running OnChange whenever one of the
// dependency lists is written, created or replaced.
func (fw *FileWatcherImpl) Watch(ctx context.Context) error {
	if err := fw.addWatchers(); err != nil {
		return goerr.Wrap(err, "failed to add watchers")
	}

	if err := fw.FileWatcher.OnStart(); err != nil {
		logger.Error("Watcher.OnStart failed: %v", err)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.FileWatcher.Watcher.Events:
			if !ok {
				return goerr.New("watcher events channel closed")
			}

			if !fw.isWatchedFile(event.Name) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}

			logger.Debug("File event: %s %s", event.Op, event.Name)
			fw.debounceChange()

		case err, ok := <-fw.FileWatcher.Watcher.Errors:
			if !ok {
				return goerr.New("watcher errors channel closed")
			}
			logger.Error("Watcher error: %v", err)
		}
	}
}

func (fw *FileWatcherImpl) debounceChange() {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	fw.FileWatcher.DebounceTimer = time.AfterFunc(fw.FileWatcher.Debounce, func() {
		logger.Info("Dependency list changed, rebundling...")
		if err := fw.FileWatcher.OnChange(); err != nil {
			logger.Error("Watcher.OnChange failed: %v", err)
		}
	})
}

func (fw *FileWatcherImpl) Close() error {
	fw.FileWatcher.Mutex.Lock()
	defer fw.FileWatcher.Mutex.Unlock()

	if fw.FileWatcher.DebounceTimer != nil {
		fw.FileWatcher.DebounceTimer.Stop()
	}

	if err := fw.FileWatcher.OnClose(); err != nil {
		logger.Error("Watcher.OnClose failed: %v", err)
	}

	return fw.FileWatcher.Watcher.Close()
}

func (fw *FileWatcherImpl) isWatchedFile(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return fw.FileWatcher.Files[filepath.Clean(abs)]
}

// addWatchers watches the parent directory of every list so that editors
// which save by replacing the file are still noticed.
func (fw *FileWatcherImpl) addWatchers() error {
	dirs := make(map[string]bool)
	for file := range fw.FileWatcher.Files {
		dirs[filepath.Dir(file)] = true
	}

	for dir := range dirs {
		logger.Debug("Adding watcher for: %s", dir)
		if err := fw.FileWatcher.Watcher.Add(dir); err != nil {
			return goerr.Wrap(err, "failed to add watcher", goerr.V("dir", dir))
		}
	}
	return nil
}
