// Package cli implements the hanzitree command-line interface.
//
// Commands fall into three groups:
//   - serve: run the HTTP API over the configured storage
//   - known, add, remove, suggest, search, note: talk to a running server
//   - render, layout, visualize, import, browse, cache: work on local data or files
//
// Settings come from [config.Load]; --config, --server and --no-cache
// override them per invocation. All commands support --verbose (-v) for
// debug-level logging.
package cli

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/hanzitree/pkg/buildinfo"
	"github.com/matzehuels/hanzitree/pkg/config"
)

// appName is the application name used for directories and display.
const appName = "hanzitree"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	serverURL  string
	noCache    bool

	cfg config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		cfg:    config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// Config returns the settings loaded for the running command.
func (c *CLI) Config() config.Config {
	return c.cfg
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Hanzitree tracks the Chinese characters you know and grows them into a tree",
		Long: `Hanzitree keeps a list of known Chinese characters, suggests new ones from a
built-in dictionary, and renders everything you have learned as a tree of
flashcards: a few cards at the bottom, wider tiers above.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return c.loadConfig() },
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/hanzitree/config.toml)")
	flags.StringVar(&c.serverURL, "server", "", "server URL for client commands (overrides client.server)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the render cache")

	root.AddGroup(
		&cobra.Group{ID: "client", Title: "Server commands:"},
		&cobra.Group{ID: "local", Title: "Local commands:"},
	)

	for _, cmd := range []*cobra.Command{
		c.knownCommand(),
		c.addCommand(),
		c.removeCommand(),
		c.suggestCommand(),
		c.searchCommand(),
		c.noteCommand(),
	} {
		cmd.GroupID = "client"
		root.AddCommand(cmd)
	}
	for _, cmd := range []*cobra.Command{
		c.serveCommand(),
		c.renderCommand(),
		c.layoutCommand(),
		c.visualizeCommand(),
		c.importCommand(),
		c.browseCommand(),
	} {
		cmd.GroupID = "local"
		root.AddCommand(cmd)
	}
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig layers the config file and environment, then the
// persistent flags.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	if c.serverURL != "" {
		cfg.Client.Server = c.serverURL
	}
	if c.noCache {
		cfg.Cache.Backend = config.BackendNone
	}
	c.cfg = cfg
	c.Logger.Debug("loaded config", "storage", cfg.Storage.Backend, "notes", cfg.Notes.Backend, "cache", cfg.Cache.Backend)
	return nil
}
