package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/fsnotify/fsnotify"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const envFileName = ".env"

// EnvWatcher re-reads configuration when $LEADCORE_DATA_DIR/.env changes so
// long-running commands can pick up new settings without a restart.
type EnvWatcher struct {
	envPath  string
	onChange func(*Config)

	debounce     time.Duration
	pollInterval time.Duration

	mu          sync.Mutex
	lastModTime time.Time
}

// NewEnvWatcher returns a watcher that calls onChange with every valid
// reloaded Config. It returns nil when cfg has no data dir.
func NewEnvWatcher(cfg *Config, onChange func(*Config)) *EnvWatcher {
	if cfg == nil || strings.TrimSpace(cfg.DataDir) == "" {
		return nil
	}
	w := &EnvWatcher{
		envPath:      filepath.Join(strings.TrimSpace(cfg.DataDir), envFileName),
		onChange:     onChange,
		debounce:     100 * time.Millisecond,
		pollInterval: 5 * time.Second,
	}
	if stat, err := os.Stat(w.envPath); err == nil {
		w.lastModTime = stat.ModTime()
	}
	return w
}

// EnvPath returns the watched file.
func (w *EnvWatcher) EnvPath() string {
	if w == nil {
		return ""
	}
	return w.envPath
}

// Run watches the .env file until ctx is done. It falls back to polling when
// the directory cannot be watched.
func (w *EnvWatcher) Run(ctx context.Context) error {
	if w == nil {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		log.Warn().Err(err).Msg("Failed to create config watcher; falling back to polling")
		return w.poll(ctx)
	}
	defer watcher.Close()

	dir := filepath.Dir(w.envPath)
	if err := watcher.Add(dir); err != nil {
		log.Warn().Err(err).Str("path", dir).Msg("Failed to watch config directory; falling back to polling")
		return w.poll(ctx)
	}
	log.Debug().Str("env_path", w.envPath).Msg("Watching .env for changes")

	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != envFileName || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			// Wait for the write to settle before reading.
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			pending = timer.C

		case <-pending:
			pending = nil
			log.Info().Str("env_path", w.envPath).Msg("Detected .env file change")
			w.apply()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("Config watcher error")
		}
	}
}

func (w *EnvWatcher) poll(ctx context.Context) error {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			stat, err := os.Stat(w.envPath)
			if err != nil {
				continue
			}
			w.mu.Lock()
			changed := stat.ModTime().After(w.lastModTime)
			if changed {
				w.lastModTime = stat.ModTime()
			}
			w.mu.Unlock()
			if changed {
				log.Info().Str("env_path", w.envPath).Msg("Detected .env file change via polling")
				w.apply()
			}
		}
	}
}

func (w *EnvWatcher) apply() {
	cfg, err := w.Reload()
	if err != nil {
		log.Warn().Err(err).Str("env_path", w.envPath).Msg("Ignoring invalid .env change; keeping current settings")
		return
	}
	if w.onChange != nil {
		w.onChange(cfg)
	}
}

// Reload parses the process environment overlaid with the current .env file.
// Unlike Load, values in the file win so that edits take effect even for keys
// the first load already exported.
func (w *EnvWatcher) Reload() (*Config, error) {
	if w == nil {
		return nil, fmt.Errorf("no .env file to reload")
	}

	fileEnv, err := godotenv.Read(w.envPath)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", w.envPath, err)
		}
		fileEnv = map[string]string{}
	}

	environment := make(map[string]string, len(fileEnv))
	for _, kv := range os.Environ() {
		if key, value, ok := strings.Cut(kv, "="); ok {
			environment[key] = value
		}
	}
	for key, value := range fileEnv {
		environment[key] = value
	}

	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, env.Options{Environment: environment}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
