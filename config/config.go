// Package config loads dndflow settings from a TOML file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"dndflow/diagram"
)

// Config holds dndflow configuration.
type Config struct {
	IDs     IDsConfig     `toml:"ids"`
	Editor  EditorConfig  `toml:"editor"`
	Palette PaletteConfig `toml:"palette"`
	Server  ServerConfig  `toml:"server"`
	Log     LogConfig     `toml:"log"`
}

// IDsConfig controls ids handed out to dropped nodes.
type IDsConfig struct {
	Prefix string `toml:"prefix"`
	Seed   uint64 `toml:"seed"`
}

// EditorConfig controls the editor core.
type EditorConfig struct {
	NudgeStep    float64      `toml:"nudge_step"`
	DragFormat   string       `toml:"drag_format"`
	InitialNodes []NodeConfig `toml:"initial_nodes"`
}

// NodeConfig describes a node present when the editor starts.
type NodeConfig struct {
	ID    string  `toml:"id"`
	Type  string  `toml:"type"`
	Label string  `toml:"label"`
	X     float64 `toml:"x"`
	Y     float64 `toml:"y"`
}

// PaletteConfig lists the node types offered for dragging.
type PaletteConfig struct {
	Types []string `toml:"types"`
}

// ServerConfig controls the socket.io server.
type ServerConfig struct {
	Addr       string `toml:"addr"`
	Path       string `toml:"path"`
	CORSOrigin string `toml:"cors_origin"`
}

// LogConfig controls logging.
type LogConfig struct {
	Level  string `toml:"level"`  // "debug", "info", "warn", "error"
	Format string `toml:"format"` // "text", "json"
	File   string `toml:"file"`   // Empty: stderr for serve, discarded for the terminal editor
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		IDs: IDsConfig{Prefix: diagram.DefaultIDPrefix, Seed: 0},
		Editor: EditorConfig{
			NudgeStep:  10,
			DragFormat: "application/reactflow",
			InitialNodes: []NodeConfig{
				{ID: "1", Type: diagram.TypeInput, Label: "input node", X: 250, Y: 5},
			},
		},
		Palette: PaletteConfig{Types: []string{diagram.TypeInput, diagram.TypeDefault, diagram.TypeOutput}},
		Server:  ServerConfig{Addr: ":3000", Path: "/socket.io/", CORSOrigin: "*"},
		Log:     LogConfig{Level: "info", Format: "text"},
	}
}

// ConfigDir returns the dndflow config directory path.
func ConfigDir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "dndflow")
}

// DefaultPath returns the path of the config file used when none is given.
func DefaultPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load reads the config file at path on top of the defaults. A missing file
// is not an error. An empty path selects DefaultPath.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Decode parses TOML data into cfg and validates the result.
// Lists given in data replace the ones in cfg rather than merging into them.
func Decode(data string, cfg *Config) error {
	nodes, types := cfg.Editor.InitialNodes, cfg.Palette.Types
	cfg.Editor.InitialNodes, cfg.Palette.Types = nil, nil

	md, err := toml.Decode(data, cfg)
	if err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if !md.IsDefined("editor", "initial_nodes") {
		cfg.Editor.InitialNodes = nodes
	}
	if !md.IsDefined("palette", "types") {
		cfg.Palette.Types = types
	}
	return cfg.Validate()
}

// Save writes the config to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// Validate checks values that would otherwise fail later at runtime.
func (c *Config) Validate() error {
	if c.Editor.NudgeStep <= 0 {
		return fmt.Errorf("editor.nudge_step must be positive, got %v", c.Editor.NudgeStep)
	}
	if c.Editor.DragFormat == "" {
		return errors.New("editor.drag_format must not be empty")
	}
	seen := make(map[string]bool)
	for i, n := range c.Editor.InitialNodes {
		if n.ID == "" {
			return fmt.Errorf("editor.initial_nodes[%d]: id is empty", i)
		}
		if seen[n.ID] {
			return fmt.Errorf("editor.initial_nodes[%d]: duplicate id %q", i, n.ID)
		}
		seen[n.ID] = true
		if c.generates(n.ID) {
			return fmt.Errorf("editor.initial_nodes[%d]: id %q collides with ids.prefix %q from seed %d", i, n.ID, c.IDs.Prefix, c.IDs.Seed)
		}
	}
	return nil
}

// generates reports whether the id generator would eventually hand out id.
func (c *Config) generates(id string) bool {
	rest, ok := strings.CutPrefix(id, c.IDs.Prefix)
	if !ok {
		return false
	}
	n, err := strconv.ParseUint(rest, 10, 64)
	if err != nil || strconv.FormatUint(n, 10) != rest {
		return false
	}
	return n >= c.IDs.Seed
}

// InitialGraph builds the graph the store is seeded with.
func (c *Config) InitialGraph() diagram.Graph {
	g := diagram.Graph{Nodes: make([]diagram.Node, 0, len(c.Editor.InitialNodes))}
	for _, n := range c.Editor.InitialNodes {
		typ := n.Type
		if typ == "" {
			typ = diagram.TypeDefault
		}
		label := n.Label
		if label == "" {
			label = typ + " node"
		}
		g.Nodes = append(g.Nodes, diagram.Node{
			ID:       n.ID,
			Type:     typ,
			Position: diagram.Point{X: n.X, Y: n.Y},
			Data:     diagram.NodeData{Label: label},
		})
	}
	return g
}
