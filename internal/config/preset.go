package config

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Preset is a named account profile, stored as <id>.yaml.
type Preset struct {
	ID         string           `yaml:"-"`
	File       string           `yaml:"-"`
	Name       string           `yaml:"name"`
	Simulation SimulationConfig `yaml:"simulation"`
}

// LoadPreset reads one preset. Keys missing from the file take the defaults.
func LoadPreset(path string) (Preset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Preset{}, err
	}
	p := Preset{Simulation: DefaultSimulation()}
	if err := yaml.Unmarshal(raw, &p); err != nil {
		return Preset{}, fmt.Errorf("parse preset %s: %w", path, err)
	}
	p.Simulation.WinRate = NormalizeWinRate(p.Simulation.WinRate)
	p.File = path
	p.ID = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	if p.Name == "" {
		p.Name = p.ID
	}
	return p, nil
}

// PresetPath resolves a preset ID (file name without extension) inside dir.
// IDs containing path separators are rejected.
func PresetPath(dir, id string) (string, error) {
	if id == "" || strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid preset id %q", id)
	}
	return filepath.Join(dir, id+".yaml"), nil
}

// ListPresets loads every *.yaml preset in dir, sorted by ID. Invalid files are
// returned in skipped rather than failing the listing.
func ListPresets(dir string) (presets []Preset, skipped map[string]error, err error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, nil, err
	}
	skipped = map[string]error{}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		p, err := LoadPreset(filepath.Join(dir, e.Name()))
		if err != nil {
			skipped[e.Name()] = err
			continue
		}
		presets = append(presets, p)
	}
	sort.Slice(presets, func(i, j int) bool { return presets[i].ID < presets[j].ID })
	return presets, skipped, nil
}
