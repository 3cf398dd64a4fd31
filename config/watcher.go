// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"code.vegaprotocol.io/chanex/logging"

	"github.com/fsnotify/fsnotify"
)

const (
	namedLogger    = "cfgwatcher"
	reloadDebounce = 100 * time.Millisecond
)

// Watcher is looking for updates in the configurations files.
type Watcher struct {
	log  *logging.Logger
	cfg  Config
	home string

	cfgUpdateListeners []func(Config)
	mu                 sync.Mutex
}

// NewFromFile instantiate a new watcher from the config file of the home directory.
func NewFromFile(ctx context.Context, log *logging.Logger, home string) (*Watcher, error) {
	watcherlog := log.Named(namedLogger)
	// set this logger to debug level as we want to be notified for any configuration changes at any time
	watcherlog.SetLevel(logging.DebugLevel)

	cfg, err := Read(home)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		log:                watcherlog,
		cfg:                *cfg,
		home:               home,
		cfgUpdateListeners: []func(Config){},
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// the directory is watched, editors replace the file rather than write it
	if err := watcher.Add(filepath.Dir(Path(home))); err != nil {
		_ = watcher.Close()
		return nil, err
	}

	w.log.Info("config watcher started successfully",
		logging.String("config", Path(home)))

	go w.watch(ctx, watcher)

	return w, nil
}

// Get return the last update of the configuration.
func (w *Watcher) Get() Config {
	w.mu.Lock()
	conf := w.cfg
	w.mu.Unlock()
	return conf
}

// OnConfigUpdate register a function to be called when the configuration is getting updated.
func (w *Watcher) OnConfigUpdate(fns ...func(Config)) {
	w.mu.Lock()
	w.cfgUpdateListeners = append(w.cfgUpdateListeners, fns...)
	w.mu.Unlock()
}

func (w *Watcher) load() error {
	cfg, err := Read(w.home)
	if err != nil {
		return err
	}
	w.mu.Lock()
	w.cfg = *cfg
	listeners := append([]func(Config){}, w.cfgUpdateListeners...)
	w.mu.Unlock()

	for _, f := range listeners {
		f(*cfg)
	}
	return nil
}

func (w *Watcher) watch(ctx context.Context, watcher *fsnotify.Watcher) {
	defer watcher.Close()
	path := filepath.Clean(Path(w.home))
	// a rewrite is a burst of events, the file is loaded once it went quiet
	var reload <-chan time.Time
	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				reload = time.After(reloadDebounce)
			}
		case <-reload:
			reload = nil
			w.log.Info("configuration updated", logging.String("config", path))
			if err := w.load(); err != nil {
				w.log.Error("unable to load configuration", logging.Error(err))
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			w.log.Error("config watcher received error event", logging.Error(err))
		case <-ctx.Done():
			w.log.Debug("config watcher stopped")
			return
		}
	}
}
