// Package library loads robot presets from disk: JSON definitions validated
// against an embedded schema and assembled into robot models.
package library

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/openrobotcore/OpenRobotCore/internal/types"
)

type PresetLoader struct {
	cache       sync.Map
	validator   *Validator
	searchPaths []string
}

func NewPresetLoader(searchPaths []string) (*PresetLoader, error) {
	validator, err := NewValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to create validator: %w", err)
	}

	return &PresetLoader{
		validator:   validator,
		searchPaths: searchPaths,
	}, nil
}

func (l *PresetLoader) Load(presetPath string) (*types.RobotPresetDefinition, error) {
	// Cache check
	if cached, ok := l.cache.Load(presetPath); ok {
		return cached.(*types.RobotPresetDefinition), nil
	}

	var data []byte
	var err error
	var foundPath string

	for _, searchPath := range l.searchPaths {
		fullPath := filepath.Join(searchPath, presetPath+".json")
		data, err = os.ReadFile(fullPath)
		if err == nil {
			foundPath = fullPath
			break
		}
	}

	if data == nil {
		return nil, fmt.Errorf("preset not found: %s (searched in: %v)", presetPath, l.searchPaths)
	}

	if err := l.validator.ValidatePreset(data); err != nil {
		return nil, fmt.Errorf("validation failed for %s: %w", foundPath, err)
	}

	var preset types.RobotPresetDefinition
	if err := json.Unmarshal(data, &preset); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preset: %w", err)
	}

	l.cache.Store(presetPath, &preset)

	return &preset, nil
}

func (l *PresetLoader) ClearCache() {
	l.cache.Range(func(key, value interface{}) bool {
		l.cache.Delete(key)
		return true
	})
}
