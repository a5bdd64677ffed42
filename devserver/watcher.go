package devserver

import (
	"context"
	"log"
	"net/http"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"
)

// Serve runs the websocket/HTTP server on addr until ctx is canceled
// or either the server or the scenario-list watcher fails. If
// scenarioConfigPath is non-empty, a second goroutine watches that
// file for changes via fsnotify and reloads its scenario descriptions
// into the package-level BuiltinScenarios without restarting anything;
// an empty path skips
// the watcher entirely.
func Serve(ctx context.Context, addr, scenarioConfigPath string, srv *Server) error {
	mux := http.NewServeMux()
	mux.HandleFunc("/trace", srv.HandleWebSocket)
	mux.HandleFunc("/run/", func(w http.ResponseWriter, r *http.Request) {
		name := filepath.Base(r.URL.Path)
		if err := srv.RunScenario(name); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	httpSrv := &http.Server{Addr: addr, Handler: mux}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("[devserver] listening on %s", addr)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		return httpSrv.Close()
	})

	if scenarioConfigPath != "" {
		g.Go(func() error {
			return watchScenarioConfig(ctx, scenarioConfigPath)
		})
	}

	return g.Wait()
}

// watchScenarioConfig reloads the scenario list from path every time
// fsnotify reports it changed, until ctx is canceled.
func watchScenarioConfig(ctx context.Context, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return err
	}

	target := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Printf("[devserver] watcher error: %v", err)

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			list, err := LoadScenarioList(path)
			if err != nil {
				log.Printf("[devserver] reload scenario list: %v", err)
				continue
			}
			ApplyScenarioList(list)
			log.Printf("[devserver] reloaded scenario list from %s", path)
		}
	}
}
