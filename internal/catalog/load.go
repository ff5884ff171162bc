package catalog

import (
	"fmt"
	"os"
	"path/filepath"

	"ecoscore-go/internal/models"

	"go.uber.org/zap"
	"gopkg.in/yaml.v2"
)

type catalogFile struct {
	Actions []models.Action `yaml:"actions"`
	Goals   []models.Goal   `yaml:"goals"`
}

// Load reads a catalog yaml file. Without an actions section the built-in
// actions are used; categories the goals section leaves out keep their
// built-in goal. An empty path returns Default().
func Load(catalogPath string) (*Catalog, error) {
	if catalogPath == "" {
		return Default(), nil
	}

	path := catalogPath
	if !filepath.IsAbs(path) {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, catalogPath)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", catalogPath, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", catalogPath, err)
	}

	actions := file.Actions
	if len(actions) == 0 {
		actions = defaultActions()
	}
	goals := file.Goals
	for _, def := range defaultGoals() {
		if !hasGoal(goals, def.Category) {
			goals = append(goals, def)
		}
	}

	c, err := New(actions, goals)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog %s: %w", catalogPath, err)
	}

	zap.L().Info("Catalog loaded",
		zap.String("file", catalogPath),
		zap.Int("actions", len(c.actions)))
	return c, nil
}

func hasGoal(goals []models.Goal, cat models.Category) bool {
	for _, g := range goals {
		if g.Category == cat {
			return true
		}
	}
	return false
}
