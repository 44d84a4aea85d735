package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var defaultConfig []byte

const confName = "config.yaml"

type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type ChainConfig struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

type SolveConfig struct {
	Part string `yaml:"part"`
}

type ViewConfig struct {
	Enabled bool `yaml:"enabled"`
}

type Settings struct {
	Log   LogConfig   `yaml:"log"`
	Chain ChainConfig `yaml:"chain"`
	Solve SolveConfig `yaml:"solve"`
	View  ViewConfig  `yaml:"view"`
}

// Default is the embedded config.yaml.
func Default() Settings {
	var s Settings
	if err := yaml.Unmarshal(defaultConfig, &s); err != nil {
		panic(fmt.Sprintf("embedded config: %v", err))
	}
	return s
}

type Config struct {
	log     *zap.Logger
	dir     string
	watcher *fsnotify.Watcher
	done    chan struct{}

	mu       sync.RWMutex
	settings Settings
}

// NewConfig keeps its file in dir. An empty dir means $XDG_CONFIG_HOME/almanac,
// or ~/.almanac without XDG.
func NewConfig(log *zap.Logger, dir string) *Config {
	if log == nil {
		log = zap.NewNop()
	}
	if dir == "" {
		dir = defaultDir()
	}
	return &Config{log: log, dir: dir, settings: Default()}
}

// SetLogger replaces the logger given to NewConfig. The logger usually
// depends on the settings themselves, so it only exists after Init.
// Call it before Watch.
func (cfg *Config) SetLogger(log *zap.Logger) {
	if log == nil {
		log = zap.NewNop()
	}
	cfg.log = log
}

func defaultDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "almanac")
	}
	return filepath.Join(os.Getenv("HOME"), ".almanac")
}

func (cfg *Config) File() string {
	return filepath.Join(cfg.dir, confName)
}

// Init writes the default config if there is none yet and reads it.
func (cfg *Config) Init() error {
	if err := cfg.writeConfigIfMissing(); err != nil {
		return err
	}
	return cfg.readConfigIntoMemory()
}

func (cfg *Config) Settings() Settings {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()
	return cfg.settings
}

func (cfg *Config) writeConfigIfMissing() error {
	_, err := os.Stat(cfg.File())
	if err == nil {
		return nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("stat config: %w", err)
	}

	if err := os.MkdirAll(cfg.dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(cfg.File(), defaultConfig, 0664); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	cfg.log.Info("wrote default config", zap.String("file", cfg.File()))
	return nil
}

func (cfg *Config) readConfigIntoMemory() error {
	content, err := os.ReadFile(cfg.File())
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	settings := Default()
	if err := yaml.Unmarshal(content, &settings); err != nil {
		return fmt.Errorf("parse %s: %w", cfg.File(), err)
	}

	cfg.mu.Lock()
	cfg.settings = settings
	cfg.mu.Unlock()
	return nil
}

// Watch rereads the config whenever its file is written and calls onChange
// with the new settings. A file that fails to parse keeps the old settings.
func (cfg *Config) Watch(onChange func(Settings)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := watcher.Add(cfg.dir); err != nil {
		watcher.Close()
		return fmt.Errorf("watch config directory: %w", err)
	}
	cfg.watcher = watcher
	cfg.done = make(chan struct{})

	go cfg.rereadConfigOnFileChange(onChange)
	return nil
}

func (cfg *Config) rereadConfigOnFileChange(onChange func(Settings)) {
	defer close(cfg.done)
	for {
		select {
		case event, ok := <-cfg.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(cfg.File()) || !event.Has(fsnotify.Write) {
				continue
			}
			if err := cfg.readConfigIntoMemory(); err != nil {
				cfg.log.Warn("keeping old config", zap.Error(err))
				continue
			}
			cfg.log.Info("config reloaded", zap.String("file", cfg.File()))
			if onChange != nil {
				onChange(cfg.Settings())
			}
		case err, ok := <-cfg.watcher.Errors:
			if !ok {
				return
			}
			cfg.log.Warn("config watcher", zap.Error(err))
		}
	}
}

// Cleanup stops Watch. It is safe to call without Watch.
func (cfg *Config) Cleanup() {
	if cfg.watcher == nil {
		return
	}
	cfg.watcher.Close()
	<-cfg.done
	cfg.watcher = nil
}
