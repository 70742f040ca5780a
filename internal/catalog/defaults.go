package catalog

import (
	"embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/rotnitxe/yourprime/internal/models"
)

//go:embed defaults/exercises.yaml defaults/hierarchy.yaml
var defaultsFS embed.FS

// DefaultExercises returns the bundled exercise catalog.
func DefaultExercises() ([]models.ExerciseMuscleInfo, error) {
	data, err := defaultsFS.ReadFile("defaults/exercises.yaml")
	if err != nil {
		return nil, fmt.Errorf("reading bundled catalog: %w", err)
	}
	var entries []models.ExerciseMuscleInfo
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parsing bundled catalog: %w", err)
	}
	return entries, nil
}

// DefaultHierarchy returns the bundled muscle taxonomy.
func DefaultHierarchy() (models.MuscleHierarchy, error) {
	data, err := defaultsFS.ReadFile("defaults/hierarchy.yaml")
	if err != nil {
		return models.MuscleHierarchy{}, fmt.Errorf("reading bundled hierarchy: %w", err)
	}
	var h models.MuscleHierarchy
	if err := yaml.Unmarshal(data, &h); err != nil {
		return models.MuscleHierarchy{}, fmt.Errorf("parsing bundled hierarchy: %w", err)
	}
	return h, nil
}

// Merge combines the bundled catalog with custom entries. Custom entries
// override bundled ones that share an id or name, since NewIndex lets later
// entries win.
func Merge(defaults, custom []models.ExerciseMuscleInfo) []models.ExerciseMuscleInfo {
	merged := make([]models.ExerciseMuscleInfo, 0, len(defaults)+len(custom))
	merged = append(merged, defaults...)
	merged = append(merged, custom...)
	return merged
}
