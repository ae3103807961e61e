package tasks

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/unshleepd/que/internal/puppets"
)

func writeTaskFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "task.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write task file: %v", err)
	}
	return path
}

func TestLoadProcessTask(t *testing.T) {
	path := writeTaskFile(t, `
name: weekly refresh
kind: process
nations_file: nations.txt
place_bids: false
`)

	task, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if task.Kind != KindProcess {
		t.Errorf("Expected kind process, got %q", task.Kind)
	}
	if task.NationsFile != "nations.txt" {
		t.Errorf("Expected nations file nations.txt, got %q", task.NationsFile)
	}
	if task.PlaceBids == nil || *task.PlaceBids {
		t.Error("Expected place_bids override to false")
	}
	if task.ChangeFlag != nil {
		t.Error("Expected unset toggles to stay nil")
	}
}

func TestLoadEndorseTask(t *testing.T) {
	path := writeTaskFile(t, `
name: endo run
kind: endorse
endorser: main_nation
targets_file: targets.txt
`)

	task, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if task.Endorser != "main_nation" || task.TargetsFile != "targets.txt" {
		t.Errorf("Unexpected endorse task: %+v", task)
	}
}

func TestLoadVoteTask(t *testing.T) {
	path := writeTaskFile(t, `
name: sc vote
kind: vote
nation: main_nation
council: sc
choice: against
`)

	task, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if task.Council != "sc" || task.Choice != "against" {
		t.Errorf("Unexpected vote task: %+v", task)
	}
}

func TestValidateRejectsIncompleteTasks(t *testing.T) {
	cases := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			"unknown kind",
			"name: x\nkind: banish\n",
			"unknown kind",
		},
		{
			"process without nations file",
			"name: x\nkind: process\n",
			"require nations_file",
		},
		{
			"endorse without endorser",
			"name: x\nkind: endorse\ntargets_file: t.txt\n",
			"require endorser",
		},
		{
			"endorse without targets",
			"name: x\nkind: endorse\nendorser: main\n",
			"require targets_file",
		},
		{
			"vote without nation",
			"name: x\nkind: vote\ncouncil: ga\nchoice: for\n",
			"require nation",
		},
		{
			"vote with bad council",
			"name: x\nkind: vote\nnation: main\ncouncil: un\nchoice: for\n",
			"council must be",
		},
		{
			"vote with bad choice",
			"name: x\nkind: vote\nnation: main\ncouncil: ga\nchoice: abstain\n",
			"choice must be",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := LoadFromFile(writeTaskFile(t, tc.content))
			if err == nil {
				t.Fatal("Expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("Expected error containing %q, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "no-such-task.yaml"))
	if err == nil {
		t.Error("Expected error for missing task file")
	}
}

func TestSwitchesOverrides(t *testing.T) {
	no := false
	task := &Task{
		Kind:       KindProcess,
		ChangeFlag: &no,
	}

	defaults := puppets.Switches{
		ChangeSettings: true,
		ChangeFlag:     true,
		MoveRegion:     true,
		PlaceBids:      false,
	}

	resolved := task.Switches(defaults)
	if resolved.ChangeFlag {
		t.Error("Expected task to override change_flag to false")
	}
	if !resolved.ChangeSettings || !resolved.MoveRegion {
		t.Error("Expected unset toggles to keep defaults")
	}
	if resolved.PlaceBids {
		t.Error("Expected place_bids default false to survive")
	}
}
