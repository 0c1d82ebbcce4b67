package webserver

import (
	"html/template"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// templateSet holds the parsed page templates and swaps them atomically
// when hot reload is active.
type templateSet struct {
	mu        sync.RWMutex
	templates *template.Template
}

func (ts *templateSet) current() *template.Template {
	ts.mu.RLock()
	defer ts.mu.RUnlock()
	return ts.templates
}

func (ts *templateSet) replace(t *template.Template) {
	ts.mu.Lock()
	ts.templates = t
	ts.mu.Unlock()
}

// watchTemplates reparses the on-disk template directory whenever a
// .html file changes. Used in development only; production serves the
// embedded set.
func (s *Server) watchTemplates(dir string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return err
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}
				if !strings.HasSuffix(event.Name, ".html") {
					continue
				}
				parsed, err := template.ParseGlob(filepath.Join(dir, "*.html"))
				if err != nil {
					s.logger.Error("template reload failed",
						zap.String("file", event.Name), zap.Error(err))
					continue
				}
				s.templates.replace(parsed)
				s.logger.Info("templates reloaded", zap.String("file", event.Name))
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				s.logger.Error("template watcher error", zap.Error(err))
			}
		}
	}()

	s.logger.Info("template hot reload enabled", zap.String("dir", dir))
	return nil
}
