package database

import (
	"time"
)

// Puppet represents one tracked account in the registry.
type Puppet struct {
	ID   int    `db:"id"`
	Name string `db:"name"`

	Region   *string `db:"region"`
	WAMember bool    `db:"wa_member"`

	CreatedAt    time.Time  `db:"created_at"`
	FoundedByUs  bool       `db:"founded_by_us"`
	LastSeenAt   *time.Time `db:"last_seen_at"`
	LastActionAt *time.Time `db:"last_action_at"`

	Notes *string `db:"notes"`
}

// ActionLog records one automated action attempted against a puppet.
type ActionLog struct {
	ID              int        `db:"id"`
	PuppetID        int        `db:"puppet_id"`
	ActionType      string     `db:"action_type"`
	StartedAt       time.Time  `db:"started_at"`
	CompletedAt     *time.Time `db:"completed_at"`
	DurationSeconds *int       `db:"duration_seconds"`
	Status          string     `db:"status"`
	ErrorMessage    *string    `db:"error_message"`
	ToolVersion     *string    `db:"tool_version"`
}

// Action types recorded in the action log.
const (
	ActionCreate   = "create"
	ActionLogin    = "login"
	ActionSettings = "settings"
	ActionFlag     = "flag"
	ActionMove     = "move"
	ActionBid      = "bid"
	ActionEndorse  = "endorse"
	ActionVote     = "vote"
)

// Action log statuses.
const (
	StatusRunning   = "running"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
)
