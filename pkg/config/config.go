// pkg/config/config.go
package config

import (
	"errors"
	"fmt"

	"github.com/andrej220/modexec/pkg/config/configstore"
	"github.com/andrej220/modexec/pkg/config/filestore"
	"github.com/go-playground/validator/v10"
)

type StoreType int

const (
	FileStore StoreType = iota
)

var (
	ErrInvalidStoreType = errors.New("invalid store type")
)

type FileConfig struct {
	Path string `yaml:"path" json:"path"`
}

func NewStore(storeType StoreType, cfg any) (configstore.ConfigStore, error) {
	switch storeType {
	case FileStore:
		fileCfg, ok := cfg.(*FileConfig)
		if !ok {
			return nil, fmt.Errorf("invalid config type for file store, expected *FileConfig")
		}
		return filestore.New(fileCfg.Path), nil
	default:
		return nil, ErrInvalidStoreType
	}
}

// LogConfig controls the runners' own diagnostics, written to stderr.
type LogConfig struct {
	Debug  bool   `yaml:"debug" json:"debug"`
	Format string `yaml:"format" json:"format" validate:"oneof=json console"`
}

// Settings configures both runners.
type Settings struct {
	// Interpreter runs Ansible modules and, for the import locator, finds them.
	Interpreter string `yaml:"interpreter" json:"interpreter" validate:"required"`
	// InterpreterFlags are extra flags; the isolation flag -I is always passed.
	InterpreterFlags []string `yaml:"interpreter_flags" json:"interpreter_flags"`
	// ModuleRoots are searched in order for <root>/<name>.py.
	ModuleRoots []string `yaml:"module_roots" json:"module_roots" validate:"dive,required"`
	// Modules pins module names to files and takes precedence over ModuleRoots.
	Modules map[string]string `yaml:"modules" json:"modules" validate:"dive,keys,required,endkeys,required"`
	// CleanupOnError removes the scratch workspace even when a module handler fails.
	CleanupOnError bool      `yaml:"cleanup_on_error" json:"cleanup_on_error"`
	TmpDir         string    `yaml:"tmp_dir" json:"tmp_dir"`
	Log            LogConfig `yaml:"log" json:"log"`
}

func Default() *Settings {
	return &Settings{
		Interpreter: "python3",
		Log:         LogConfig{Format: "json"},
	}
}

var validate = validator.New()

func (s *Settings) Validate() error {
	if err := validate.Struct(s); err != nil {
		return fmt.Errorf("invalid settings: %w", err)
	}
	return nil
}

// Load returns the defaults overlaid with the YAML file at path, if any.
func Load(path string) (*Settings, error) {
	settings := Default()
	if path != "" {
		store, err := NewStore(FileStore, &FileConfig{Path: path})
		if err != nil {
			return nil, err
		}
		if err := store.Load(settings); err != nil {
			return nil, err
		}
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}
