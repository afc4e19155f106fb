package models

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/m-mizutani/goerr/v2"
)

type FileWatcher struct {
	Watcher       *fsnotify.Watcher
	Files         map[string]bool // absolute paths of the watched dependency lists
	Debounce      time.Duration
	DebounceTimer *time.Timer
	Mutex         sync.Mutex
	OnStart       func() error
	OnChange      func() error
	OnClose       func() error
}

func NewFileWatcher(files []string) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create file watcher")
	}

	fw := &FileWatcher{
		Watcher:  watcher,
		Files:    make(map[string]bool, len(files)),
		Debounce: 500 * time.Millisecond,
		OnStart:  func() error { return nil },
		OnChange: func() error { return goerr.New("OnChange not set") },
		OnClose:  func() error { return nil },
	}

	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			watcher.Close()
			return nil, goerr.Wrap(err, "failed to resolve watched file", goerr.V("path", f))
		}
		fw.Files[abs] = true
	}

	return fw, nil
}

func (fw *FileWatcher) AddOnStartFunc(onStart func() error) {
	fw.OnStart = onStart
}

func (fw *FileWatcher) AddOnChangeFunc(onChange func() error) {
	fw.OnChange = onChange
}

func (fw *FileWatcher) AddOnCloseFunc(onClose func() error) {
	fw.OnClose = onClose
}
