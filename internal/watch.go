package internal

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	tt "github.com/ecmalabs/espatch/internal/types"
)

// AddWatchDir registers a directory whose AST documents are re-transformed
// whenever they change. Takes effect on the next StartWatching call.
func (e *Engine) AddWatchDir(dir string) {
	e.watchDirs = append(e.watchDirs, dir)
}

func (e *Engine) StartWatching() error {
	if e.isWatching {
		return fmt.Errorf("already watching")
	}

	if e.watcher == nil {
		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return fmt.Errorf("error creating watcher: %w", err)
		}
		e.watcher = watcher
	}

	for _, dir := range e.watchDirs {
		err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() {
				return e.watcher.Add(path)
			}
			return nil
		})
		if err != nil {
			return fmt.Errorf("error adding directory to watcher: %w", err)
		}
	}

	e.isWatching = true
	go e.watchLoop()
	return nil
}

func (e *Engine) StopWatching() error {
	if !e.isWatching {
		log.Println("not watching")
	}

	e.isWatching = false
	if e.watcher == nil {
		return nil
	}
	return e.watcher.Close()
}

func (e *Engine) watchLoop() {
	for e.isWatching {
		select {
		case event, ok := <-e.watcher.Events:
			if !ok {
				return
			}
			e.handleFileEvent(event)
		case err, ok := <-e.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("error: %v", err)
		}
	}
}

func (e *Engine) handleFileEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Write == fsnotify.Write {
		if strings.HasSuffix(event.Name, ".json") {
			// wait for a while after file change to consider multiple changes as one
			time.Sleep(100 * time.Millisecond)
			changes, output, err := e.Run(event.Name)
			if err != nil {
				log.Printf("error: %v", err)
				return
			}
			if len(changes) > 0 {
				if err := os.WriteFile(event.Name, output, 0o644); err != nil {
					log.Printf("error: %v", err)
					return
				}
			}
			e.reportChanges(event.Name, changes)
		}
	}
}

func (e *Engine) reportChanges(filename string, changes []tt.Change) {
	if len(changes) == 0 {
		log.Printf("no matching sites in %s", filename)
		return
	}

	for _, change := range changes {
		log.Printf("%s: %s rewrote %d site(s)", filename, change.Transform, change.Sites)
	}
}
