package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/hanzitree/pkg/cache"
	"github.com/matzehuels/hanzitree/pkg/client"
	"github.com/matzehuels/hanzitree/pkg/config"
	"github.com/matzehuels/hanzitree/pkg/dictionary"
	"github.com/matzehuels/hanzitree/pkg/notes"
	notesredis "github.com/matzehuels/hanzitree/pkg/notes/redis"
	"github.com/matzehuels/hanzitree/pkg/observability"
	"github.com/matzehuels/hanzitree/pkg/pipeline"
	"github.com/matzehuels/hanzitree/pkg/store"
	"github.com/matzehuels/hanzitree/pkg/store/memory"
	"github.com/matzehuels/hanzitree/pkg/store/mongo"
	"github.com/matzehuels/hanzitree/pkg/store/sqlite"
)

// openRepository opens the character repository the config selects.
func openRepository(ctx context.Context, cfg config.Storage) (store.Repository, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return memory.New(), nil
	case config.BackendSQLite:
		if err := ensureParent(cfg.Path); err != nil {
			return nil, err
		}
		return sqlite.Open(ctx, cfg.Path)
	case config.BackendMongo:
		return mongo.Open(ctx, mongo.Config{URI: cfg.MongoURI, Database: cfg.MongoDatabase})
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// openNotes opens the notes store the config selects.
func openNotes(ctx context.Context, cfg config.Notes) (notes.Store, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		return notes.NewMemoryStore(), nil
	case config.BackendFile:
		return notes.NewFileStore(cfg.Path)
	case config.BackendRedis:
		return notesredis.NewStore(ctx, notesredis.Config{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown notes backend %q", cfg.Backend)
	}
}

// openCache opens the render cache the config selects.
func openCache(ctx context.Context, cfg config.Cache) (cache.Cache, error) {
	switch cfg.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendFile:
		return cache.NewFileCache(cfg.Dir)
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Addr,
			Password: cfg.Password,
			DB:       cfg.DB,
			Prefix:   cfg.Prefix,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// openDictionary loads the configured word list, or the embedded one.
func openDictionary(cfg config.Dictionary) (*dictionary.Dictionary, error) {
	if cfg.Path == "" {
		return dictionary.Default(), nil
	}
	return dictionary.LoadFile(cfg.Path)
}

// newRunner creates a pipeline runner over the configured cache. A cache
// that fails to open degrades to no caching.
func (c *CLI) newRunner(ctx context.Context) *pipeline.Runner {
	ch, err := openCache(ctx, c.cfg.Cache)
	if err != nil {
		c.Logger.Warn("cache unavailable, rendering without it", "backend", c.cfg.Cache.Backend, "err", err)
		ch = cache.NewNullCache()
	}
	return pipeline.NewRunner(ch, nil, c.Logger)
}

// newClient creates an API client for the configured server. At debug
// level every request is logged.
func (c *CLI) newClient() (*client.Client, error) {
	if c.Logger.GetLevel() <= log.DebugLevel {
		observability.SetHTTPHooks(observability.NewLogHooks(c.Logger))
	}
	return client.New(c.cfg.Client.Server)
}

// localData bundles the stores opened for commands that bypass the server.
type localData struct {
	repo  store.Repository
	notes notes.Store
}

func (c *CLI) openLocal(ctx context.Context) (*localData, error) {
	repo, err := openRepository(ctx, c.cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	ns, err := openNotes(ctx, c.cfg.Notes)
	if err != nil {
		repo.Close()
		return nil, fmt.Errorf("open notes: %w", err)
	}
	c.Logger.Debug("opened local data", "storage", c.cfg.Storage.Backend, "notes", c.cfg.Notes.Backend)
	return &localData{repo: repo, notes: ns}, nil
}

func (d *localData) Close() error {
	nerr := d.notes.Close()
	if err := d.repo.Close(); err != nil {
		return err
	}
	return nerr
}

func ensureParent(path string) error {
	if path == "" || path == ":memory:" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}
	return nil
}
