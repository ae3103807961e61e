package runner

import (
	"github.com/unshleepd/que/internal/database"
	"github.com/unshleepd/que/internal/events"
	"github.com/unshleepd/que/internal/logging"
	"github.com/unshleepd/que/internal/puppets"
)

// DBRecorder writes action outcomes to the puppet registry. Registry errors
// are logged at debug level and otherwise swallowed; history keeping must
// never disturb a batch.
type DBRecorder struct {
	db      *database.DB
	logger  *logging.Logger
	version string

	// TargetRegion, when set, is stored on puppets after a successful move.
	TargetRegion string
}

// NewDBRecorder creates a recorder writing to the given registry.
func NewDBRecorder(db *database.DB, logger *logging.Logger, version string) *DBRecorder {
	return &DBRecorder{
		db:      db,
		logger:  logger,
		version: version,
	}
}

// Record implements puppets.Recorder.
func (r *DBRecorder) Record(nation, actionType string, actionErr error) {
	puppet, err := r.db.GetOrCreatePuppet(nation)
	if err != nil {
		r.logger.Debugf("registry: could not resolve puppet %s: %v", nation, err)
		return
	}

	actionID, err := r.db.StartAction(puppet.ID, actionType, r.version)
	if err != nil {
		r.logger.Debugf("registry: could not record %s for %s: %v", actionType, nation, err)
		return
	}

	if actionErr != nil {
		err = r.db.FailAction(actionID, actionErr.Error())
	} else {
		err = r.db.CompleteAction(actionID)
	}
	if err != nil {
		r.logger.Debugf("registry: could not finish %s for %s: %v", actionType, nation, err)
	}

	if actionErr == nil && actionType == "login" {
		if err := r.db.TouchPuppet(puppet.ID); err != nil {
			r.logger.Debugf("registry: could not touch puppet %s: %v", nation, err)
		}
	}
	if actionErr == nil && actionType == "move" && r.TargetRegion != "" {
		if err := r.db.UpdatePuppetRegion(puppet.ID, r.TargetRegion); err != nil {
			r.logger.Debugf("registry: could not update region for %s: %v", nation, err)
		}
	}
}

// BusRecorder publishes per-nation outcomes to the event bus. Login gates a
// process run's nation; endorse and vote are the whole outcome for theirs.
type BusRecorder struct {
	bus events.EventBus
}

// NewBusRecorder creates a recorder publishing to the given bus.
func NewBusRecorder(bus events.EventBus) *BusRecorder {
	return &BusRecorder{bus: bus}
}

// Record implements puppets.Recorder.
func (r *BusRecorder) Record(nation, actionType string, actionErr error) {
	switch actionType {
	case database.ActionLogin, database.ActionEndorse, database.ActionVote:
		r.bus.Publish(events.NewNationProcessedEvent(nation, actionErr == nil))
	}
}

// MultiRecorder fans one outcome out to several recorders.
type MultiRecorder []puppets.Recorder

// Record implements puppets.Recorder.
func (m MultiRecorder) Record(nation, actionType string, err error) {
	for _, recorder := range m {
		recorder.Record(nation, actionType, err)
	}
}
