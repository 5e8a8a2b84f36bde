package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

type SourceKind string

const (
	SourceDefault SourceKind = "default"
	SourceFile    SourceKind = "file"
)

// Source records where an effective value came from.
type Source struct {
	Kind   SourceKind
	Name   string // for default
	File   string
	Line   int
	Column int
}

type LoadResult struct {
	Config  *Config
	Sources map[string]Source // YAML path -> file position of the last writer
	Files   []string          // files that existed and were read, base first
}

// DefaultConfigPath returns the config file location. PANELSNAP_CONFIG wins,
// then $XDG_CONFIG_HOME/panelsnap/config.yaml, then ~/.config.
func DefaultConfigPath() (string, error) {
	if p := os.Getenv("PANELSNAP_CONFIG"); p != "" {
		return p, nil
	}
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "panelsnap", "config.yaml"), nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config", "panelsnap", "config.yaml"), nil
}

// LocalOverlayPath returns the machine-local file layered over path:
// config.yaml -> config.local.yaml.
func LocalOverlayPath(path string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + ".local" + ext
}

// Load reads the configuration from the standard location.
func Load() (*Config, error) {
	res, err := LoadWithSources()
	if err != nil {
		return nil, err
	}
	return res.Config, nil
}

// LoadWithSources is Load plus per-key sources for config explain.
func LoadWithSources() (*LoadResult, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return LoadFromPath(path)
}

// LoadFromPath reads path and its local overlay over the defaults. Either
// file may be missing; with neither present the result is DefaultConfig.
func LoadFromPath(path string) (*LoadResult, error) {
	var (
		raw     RawConfig
		files   []string
		sources = map[string]Source{}
	)

	for _, p := range []string{path, LocalOverlayPath(path)} {
		layer, layerSources, ok, err := readLayer(p)
		if err != nil {
			return nil, err
		}
		if !ok {
			continue
		}
		raw = raw.merge(layer)
		for k, src := range layerSources {
			sources[k] = src
		}
		files = append(files, p)
	}

	cfg := BuildEffectiveConfig(raw)
	if err := cfg.Validate(); err != nil {
		return nil, withSource(err, sources)
	}

	return &LoadResult{
		Config:  cfg,
		Sources: sources,
		Files:   files,
	}, nil
}

// readLayer decodes one file strictly. ok is false when the file does not
// exist.
func readLayer(path string) (raw RawConfig, sources map[string]Source, ok bool, err error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return RawConfig{}, nil, false, nil
	}
	if err != nil {
		return RawConfig{}, nil, false, fmt.Errorf("%s: failed to read: %w", path, err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return RawConfig{}, nil, false, fmt.Errorf("%s: failed to parse yaml: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil && err != io.EOF {
		return RawConfig{}, nil, false, fmt.Errorf("%s: %w", path, err)
	}

	sources = make(map[string]Source)
	root := &doc
	if root.Kind == yaml.DocumentNode && len(root.Content) > 0 {
		root = root.Content[0]
	}
	walkSources(root, path, "", sources)
	return raw, sources, true, nil
}

// walkSources records the position of every mapping value under prefix.
func walkSources(node *yaml.Node, file, prefix string, out map[string]Source) {
	if node == nil || node.Kind != yaml.MappingNode {
		return
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i].Value, node.Content[i+1]
		if prefix != "" {
			key = prefix + "." + key
		}
		out[key] = Source{Kind: SourceFile, File: file, Line: val.Line, Column: val.Column}
		walkSources(val, file, key, out)
	}
}

// withSource points a ValidationError at the file line that set the bad key.
func withSource(err error, sources map[string]Source) error {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Path == "" {
		return err
	}
	if src, ok := sources[verr.Path]; ok {
		verr.Source = src
	}
	return verr
}
