// Package tasks loads run definitions from YAML files so a prepared batch
// can be replayed without retyping flags.
package tasks

import (
	"fmt"

	"github.com/unshleepd/que/internal/puppets"
)

// Task kinds.
const (
	KindProcess = "process"
	KindEndorse = "endorse"
	KindVote    = "vote"
)

// Task is one saved run definition.
type Task struct {
	Name string `yaml:"name"`
	Kind string `yaml:"kind"`

	// process
	NationsFile    string `yaml:"nations_file,omitempty"`
	ChangeSettings *bool  `yaml:"change_settings,omitempty"`
	ChangeFlag     *bool  `yaml:"change_flag,omitempty"`
	MoveRegion     *bool  `yaml:"move_region,omitempty"`
	PlaceBids      *bool  `yaml:"place_bids,omitempty"`

	// endorse
	Endorser    string `yaml:"endorser,omitempty"`
	TargetsFile string `yaml:"targets_file,omitempty"`

	// vote
	Nation  string `yaml:"nation,omitempty"`
	Council string `yaml:"council,omitempty"`
	Choice  string `yaml:"choice,omitempty"`
}

// Validate checks the task is complete for its kind.
func (t *Task) Validate() error {
	switch t.Kind {
	case KindProcess:
		if t.NationsFile == "" {
			return fmt.Errorf("task %q: process tasks require nations_file", t.Name)
		}
	case KindEndorse:
		if t.Endorser == "" {
			return fmt.Errorf("task %q: endorse tasks require endorser", t.Name)
		}
		if t.TargetsFile == "" {
			return fmt.Errorf("task %q: endorse tasks require targets_file", t.Name)
		}
	case KindVote:
		if t.Nation == "" {
			return fmt.Errorf("task %q: vote tasks require nation", t.Name)
		}
		if t.Council != "ga" && t.Council != "sc" {
			return fmt.Errorf("task %q: council must be ga or sc, got %q", t.Name, t.Council)
		}
		if t.Choice != "for" && t.Choice != "against" {
			return fmt.Errorf("task %q: choice must be for or against, got %q", t.Name, t.Choice)
		}
	default:
		return fmt.Errorf("task %q: unknown kind %q", t.Name, t.Kind)
	}
	return nil
}

// Switches resolves the four toggles against defaults for any the task
// leaves unset.
func (t *Task) Switches(defaults puppets.Switches) puppets.Switches {
	switches := defaults
	if t.ChangeSettings != nil {
		switches.ChangeSettings = *t.ChangeSettings
	}
	if t.ChangeFlag != nil {
		switches.ChangeFlag = *t.ChangeFlag
	}
	if t.MoveRegion != nil {
		switches.MoveRegion = *t.MoveRegion
	}
	if t.PlaceBids != nil {
		switches.PlaceBids = *t.PlaceBids
	}
	return switches
}
