// Package puppets orchestrates batch account-management actions against the
// game site: processing puppet lists, bulk endorsements and World Assembly
// votes. Every external call is isolated so one account's failure never
// aborts the rest of a batch.
package puppets

import (
	"github.com/unshleepd/que/internal/config"
	"github.com/unshleepd/que/internal/logging"
)

// The pretitle field may only be changed once a nation's population reaches
// this threshold (in millions).
const pretitlePopulationThreshold = 250

// Session is the authenticated client surface the batches need. It is
// satisfied by *nsapi.Session.
type Session interface {
	Login(nation, password string) error
	CanBeFounded(nation string) (bool, error)
	CreateNation(nation, password, email, currency, animal, slogan string) error
	ChangeSettings(settings map[string]string) error
	ChangeFlag(flagPath string) error
	MoveToRegion(region, password string) error
	PlaceBid(price, cardID, season string) error
	Endorse(target string) error
	CastVote(council, choice string) error
	Population(nation string) (int, error)
}

// Switches are the four per-run toggles controlling which actions are
// applied to each logged-in puppet.
type Switches struct {
	ChangeSettings bool
	ChangeFlag     bool
	MoveRegion     bool
	PlaceBids      bool
}

// ProgressFunc receives the integer percentage after each processed item.
type ProgressFunc func(percent int)

// ConfirmFunc asks whether a not-yet-existing nation should be founded.
// A nil ConfirmFunc means never found (non-interactive mode).
type ConfirmFunc func(nation string) bool

// Recorder receives the outcome of every side-effecting action so a registry
// can keep history. Recording must never affect batch behavior.
type Recorder interface {
	Record(nation, actionType string, err error)
}

// Processor runs batches against a session using a loaded puppet profile.
type Processor struct {
	session  Session
	profile  *config.Profile
	logger   *logging.Logger
	progress ProgressFunc
	confirm  ConfirmFunc
	recorder Recorder
}

// NewProcessor creates a processor. logger must not be nil.
func NewProcessor(session Session, profile *config.Profile, logger *logging.Logger) *Processor {
	return &Processor{
		session: session,
		profile: profile,
		logger:  logger,
	}
}

// WithProgress sets the progress callback.
func (p *Processor) WithProgress(fn ProgressFunc) *Processor {
	p.progress = fn
	return p
}

// WithConfirm sets the founding confirmation callback (interactive mode).
func (p *Processor) WithConfirm(fn ConfirmFunc) *Processor {
	p.confirm = fn
	return p
}

// WithRecorder sets the action history recorder.
func (p *Processor) WithRecorder(recorder Recorder) *Processor {
	p.recorder = recorder
	return p
}

func (p *Processor) record(nation, actionType string, err error) {
	if p.recorder != nil {
		p.recorder.Record(nation, actionType, err)
	}
}

func (p *Processor) reportProgress(index, total int) {
	if p.progress == nil || total == 0 {
		return
	}
	p.progress((index + 1) * 100 / total)
}
