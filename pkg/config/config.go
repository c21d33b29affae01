// Package config loads hanzitree settings.
//
// Values are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or $XDG_CONFIG_HOME/hanzitree/config.toml)
//  3. HANZITREE_* environment variables
//  4. command-line flags, applied by the caller
//
// A minimal file:
//
//	[storage]
//	backend = "sqlite"
//	path = "~/hanzitree.db"
//
//	[layout]
//	width = 1600
//	style = "simple"
//
// Environment variables follow the section and key names, so
// layout.width is HANZITREE_LAYOUT_WIDTH and storage.mongo_uri is
// HANZITREE_STORAGE_MONGO_URI. Lists such as layout.capacities are
// comma-separated in the environment.
package config

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"

	"github.com/matzehuels/hanzitree/pkg/errors"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
)

// EnvPrefix prefixes every environment variable the loader reads.
const EnvPrefix = "HANZITREE_"

// Storage, notes and cache backends.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendMongo  = "mongo"
	BackendFile   = "file"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

var (
	storageBackends = []string{BackendMemory, BackendSQLite, BackendMongo}
	notesBackends   = []string{BackendMemory, BackendFile, BackendRedis}
	cacheBackends   = []string{BackendFile, BackendRedis, BackendNone}
)

// Config is the full set of settings.
type Config struct {
	Server     Server     `toml:"server" envPrefix:"SERVER_"`
	Storage    Storage    `toml:"storage" envPrefix:"STORAGE_"`
	Notes      Notes      `toml:"notes" envPrefix:"NOTES_"`
	Cache      Cache      `toml:"cache" envPrefix:"CACHE_"`
	Layout     Layout     `toml:"layout" envPrefix:"LAYOUT_"`
	Dictionary Dictionary `toml:"dictionary" envPrefix:"DICTIONARY_"`
	Client     Client     `toml:"client" envPrefix:"CLIENT_"`
}

// Server configures `hanzitree serve`.
type Server struct {
	Addr string `toml:"addr" env:"ADDR"`
}

// Storage selects the character repository.
type Storage struct {
	Backend       string `toml:"backend" env:"BACKEND"`
	Path          string `toml:"path" env:"PATH"` // sqlite database file
	MongoURI      string `toml:"mongo_uri" env:"MONGO_URI"`
	MongoDatabase string `toml:"mongo_database" env:"MONGO_DATABASE"`
}

// Redis holds connection settings shared by the notes and cache backends.
type Redis struct {
	Addr     string `toml:"redis_addr" env:"REDIS_ADDR"`
	Password string `toml:"redis_password" env:"REDIS_PASSWORD"`
	DB       int    `toml:"redis_db" env:"REDIS_DB"`
	Prefix   string `toml:"redis_prefix" env:"REDIS_PREFIX"`
}

// Notes selects the per-character notes store.
type Notes struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Path    string `toml:"path" env:"PATH"` // file backend document
	Redis
}

// Cache selects the artifact cache.
type Cache struct {
	Backend string `toml:"backend" env:"BACKEND"`
	Dir     string `toml:"dir" env:"DIR"`
	Redis
}

// Layout holds tree and render defaults.
type Layout struct {
	Width      float64 `toml:"width" env:"WIDTH"`
	Capacities []int   `toml:"capacities" env:"CAPACITIES" envSeparator:","`
	Overflow   int     `toml:"overflow" env:"OVERFLOW"`
	Style      string  `toml:"style" env:"STYLE"`
	ShowPinyin bool    `toml:"show_pinyin" env:"SHOW_PINYIN"`
	FontPath   string  `toml:"font_path" env:"FONT_PATH"`
}

// Dictionary points at a word list replacing the embedded one.
type Dictionary struct {
	Path string `toml:"path" env:"PATH"`
}

// Client configures the commands that talk to a running server.
type Client struct {
	Server string `toml:"server" env:"SERVER"`
}

// Default returns the built-in settings: a sqlite database and notes file
// under the user data directory, and a file cache.
func Default() Config {
	data := DataDir()
	return Config{
		Server:  Server{Addr: ":8000"},
		Storage: Storage{Backend: BackendSQLite, Path: filepath.Join(data, "hanzitree.db"), MongoDatabase: "hanzitree"},
		Notes:   Notes{Backend: BackendFile, Path: filepath.Join(data, "notes.json")},
		Cache:   Cache{Backend: BackendFile},
		Layout: Layout{
			Width: pipeline.DefaultWidth,
			Style: pipeline.DefaultStyle,
		},
		Client: Client{Server: "http://localhost:8000"},
	}
}

// DataDir returns $XDG_DATA_HOME/hanzitree, falling back to
// ~/.local/share/hanzitree.
func DataDir() string {
	if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
		return filepath.Join(dir, "hanzitree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "hanzitree"
	}
	return filepath.Join(home, ".local", "share", "hanzitree")
}

// DefaultPath returns $XDG_CONFIG_HOME/hanzitree/config.toml, falling back
// to the platform config directory.
func DefaultPath() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		var err error
		if dir, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(dir, "hanzitree", "config.toml")
}

// Load layers the file at path and the process environment over the
// defaults. An empty path reads DefaultPath when it exists; an explicit
// path must exist.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// LoadEnv is Load with an explicit environment instead of the process one.
func LoadEnv(path string, environ map[string]string) (Config, error) {
	if environ == nil {
		environ = map[string]string{}
	}
	return load(path, environ)
}

func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := cfg.decodeFile(path); err != nil {
			if explicit || !stderrors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	opts := env.Options{Prefix: EnvPrefix, Environment: environ}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return Config{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse environment")
	}

	cfg.expandPaths()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	meta, err := toml.DecodeFile(path, c)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "config file not found: %s", path)
		}
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse config %s", path)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidInput, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

func (c *Config) expandPaths() {
	for _, p := range []*string{&c.Storage.Path, &c.Notes.Path, &c.Cache.Dir, &c.Dictionary.Path, &c.Layout.FontPath} {
		*p = expandHome(*p)
	}
}

func expandHome(p string) string {
	if p != "~" && !strings.HasPrefix(p, "~/") {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	return filepath.Join(home, strings.TrimPrefix(p, "~"))
}

// Validate checks backend names and the settings each backend needs.
func (c Config) Validate() error {
	if err := oneOf("storage.backend", c.Storage.Backend, storageBackends); err != nil {
		return err
	}
	if err := oneOf("notes.backend", c.Notes.Backend, notesBackends); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, cacheBackends); err != nil {
		return err
	}

	switch {
	case c.Storage.Backend == BackendSQLite && c.Storage.Path == "":
		return errors.New(errors.ErrCodeInvalidInput, "storage.path is required for the sqlite backend")
	case c.Storage.Backend == BackendMongo && c.Storage.MongoURI == "":
		return errors.New(errors.ErrCodeInvalidInput, "storage.mongo_uri is required for the mongo backend")
	case c.Notes.Backend == BackendRedis && c.Notes.Addr == "":
		return errors.New(errors.ErrCodeInvalidInput, "notes.redis_addr is required for the redis backend")
	case c.Cache.Backend == BackendRedis && c.Cache.Addr == "":
		return errors.New(errors.ErrCodeInvalidInput, "cache.redis_addr is required for the redis backend")
	}

	if c.Client.Server != "" {
		if err := errors.ValidateURL(c.Client.Server); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidInput, err, "client.server")
		}
	}
	opts := c.Render()
	return opts.Validate()
}

// Render returns pipeline options carrying the layout defaults.
func (c Config) Render() pipeline.Options {
	return pipeline.Options{
		Width:      c.Layout.Width,
		Capacities: slices.Clone(c.Layout.Capacities),
		Overflow:   c.Layout.Overflow,
		Style:      c.Layout.Style,
		ShowPinyin: c.Layout.ShowPinyin,
		FontPath:   c.Layout.FontPath,
	}
}

func oneOf(key, v string, allowed []string) error {
	if slices.Contains(allowed, v) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "%s: %q is not one of %s", key, v, strings.Join(allowed, ", "))
}

// String renders the configuration as TOML, with secrets masked.
func (c Config) String() string {
	masked := c
	for _, p := range []*string{&masked.Notes.Password, &masked.Cache.Password} {
		if *p != "" {
			*p = "****"
		}
	}
	var b strings.Builder
	if err := toml.NewEncoder(&b).Encode(masked); err != nil {
		return fmt.Sprintf("%+v", masked)
	}
	return b.String()
}
