package tasks

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadFromFile reads a YAML file, unmarshals the task and validates it.
func LoadFromFile(path string) (*Task, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read task file %s: %w", path, err)
	}

	task := &Task{}
	if err := yaml.Unmarshal(data, task); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task YAML: %w", err)
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}
