package puppets

import (
	"errors"
	"io"
	"testing"

	"github.com/unshleepd/que/internal/config"
	"github.com/unshleepd/que/internal/logging"
)

// fakeSession records every call and answers from configurable tables.
type fakeSession struct {
	freeNations map[string]bool
	existsErr   error
	loginErr    map[string]error
	population  map[string]int
	popErr      error
	createErr   error
	settingsErr error
	flagErr     error
	moveErr     error
	bidErr      error
	endorseErr  map[string]error
	voteErr     error

	logins   []string
	created  []string
	settings []map[string]string
	flags    []string
	moves    []string
	bids     [][3]string
	endorsed []string
	votes    [][2]string
}

func (f *fakeSession) Login(nation, password string) error {
	f.logins = append(f.logins, nation)
	return f.loginErr[nation]
}

func (f *fakeSession) CanBeFounded(nation string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	return f.freeNations[nation], nil
}

func (f *fakeSession) CreateNation(nation, password, email, currency, animal, slogan string) error {
	f.created = append(f.created, nation)
	return f.createErr
}

func (f *fakeSession) ChangeSettings(settings map[string]string) error {
	f.settings = append(f.settings, settings)
	return f.settingsErr
}

func (f *fakeSession) ChangeFlag(flagPath string) error {
	f.flags = append(f.flags, flagPath)
	return f.flagErr
}

func (f *fakeSession) MoveToRegion(region, password string) error {
	f.moves = append(f.moves, region)
	return f.moveErr
}

func (f *fakeSession) PlaceBid(price, cardID, season string) error {
	f.bids = append(f.bids, [3]string{price, cardID, season})
	return f.bidErr
}

func (f *fakeSession) Endorse(target string) error {
	f.endorsed = append(f.endorsed, target)
	return f.endorseErr[target]
}

func (f *fakeSession) CastVote(council, choice string) error {
	f.votes = append(f.votes, [2]string{council, choice})
	return f.voteErr
}

func (f *fakeSession) Population(nation string) (int, error) {
	if f.popErr != nil {
		return 0, f.popErr
	}
	return f.population[nation], nil
}

// recorded is one action outcome seen by the fake recorder.
type recorded struct {
	nation string
	action string
	failed bool
}

type fakeRecorder struct {
	records []recorded
}

func (r *fakeRecorder) Record(nation, actionType string, err error) {
	r.records = append(r.records, recorded{nation, actionType, err != nil})
}

func testProfile() *config.Profile {
	return &config.Profile{
		UserAgent:            "Tester",
		Password:             "hunter2",
		Email:                "tester@example.com",
		Pretitle:             "The Grand Duchy of",
		Slogan:               "Forward",
		Currency:             "coin",
		Animal:               "owl",
		DemonymNoun:          "Testlander",
		DemonymAdjective:     "Testlandish",
		DemonymPlural:        "Testlanders",
		TargetRegion:         "the_testing_grounds",
		TargetRegionPassword: "sesame",
		Flag:                 "flag.png",
	}
}

func testLogger() *logging.Logger {
	return logging.NewLogger("test").SetOutputs(io.Discard)
}

func allSwitches() Switches {
	return Switches{ChangeSettings: true, ChangeFlag: true, MoveRegion: true, PlaceBids: true}
}

func TestProcessNationsProgress(t *testing.T) {
	session := &fakeSession{}
	processor := NewProcessor(session, testProfile(), testLogger())

	var reports []int
	processor.WithProgress(func(percent int) {
		reports = append(reports, percent)
	})

	processor.ProcessNations([]string{"alpha", "bravo", "charlie"}, Switches{})

	if len(reports) != 3 {
		t.Fatalf("Expected 3 progress reports, got %d", len(reports))
	}
	for i := 1; i < len(reports); i++ {
		if reports[i] < reports[i-1] {
			t.Errorf("Progress decreased: %v", reports)
		}
	}
	if reports[len(reports)-1] != 100 {
		t.Errorf("Expected final progress 100, got %d", reports[len(reports)-1])
	}
}

func TestProcessNationsProgressCoversFailures(t *testing.T) {
	session := &fakeSession{
		loginErr: map[string]error{"bravo": errors.New("bad password")},
	}
	processor := NewProcessor(session, testProfile(), testLogger())

	var reports []int
	processor.WithProgress(func(percent int) {
		reports = append(reports, percent)
	})

	processor.ProcessNations([]string{"alpha", "bravo", "charlie"}, Switches{})

	if len(reports) != 3 || reports[2] != 100 {
		t.Errorf("Expected progress to cover failed accounts too, got %v", reports)
	}
}

func TestProcessNationsLoginFailureIsolated(t *testing.T) {
	session := &fakeSession{
		loginErr: map[string]error{"bravo": errors.New("bad password")},
	}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"alpha", "bravo", "charlie"}, allSwitches())

	if len(session.logins) != 3 {
		t.Fatalf("Expected all 3 login attempts, got %v", session.logins)
	}
	// Actions ran for the two nations that logged in, not for bravo.
	if len(session.flags) != 2 {
		t.Errorf("Expected 2 flag changes, got %d", len(session.flags))
	}
	if len(session.moves) != 2 {
		t.Errorf("Expected 2 region moves, got %d", len(session.moves))
	}
}

func TestProcessNationsSkipsBlankNames(t *testing.T) {
	session := &fakeSession{}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"alpha", "   ", ""}, Switches{})

	if len(session.logins) != 1 || session.logins[0] != "alpha" {
		t.Errorf("Expected only alpha to be processed, got %v", session.logins)
	}
}

func TestProcessNationFreeNationSkippedWithoutConfirm(t *testing.T) {
	session := &fakeSession{freeNations: map[string]bool{"ghost": true}}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"ghost"}, allSwitches())

	if len(session.created) != 0 {
		t.Errorf("Expected no creation without a confirm callback, got %v", session.created)
	}
	if len(session.logins) != 0 {
		t.Errorf("Expected no login attempt for a skipped nation, got %v", session.logins)
	}
}

func TestProcessNationFreeNationDeclined(t *testing.T) {
	session := &fakeSession{freeNations: map[string]bool{"ghost": true}}
	processor := NewProcessor(session, testProfile(), testLogger())
	processor.WithConfirm(func(nation string) bool { return false })

	processor.ProcessNations([]string{"ghost"}, allSwitches())

	if len(session.created) != 0 || len(session.logins) != 0 {
		t.Errorf("Expected declined nation to be skipped entirely, created=%v logins=%v",
			session.created, session.logins)
	}
}

func TestProcessNationFreeNationFounded(t *testing.T) {
	session := &fakeSession{freeNations: map[string]bool{"ghost": true}}
	processor := NewProcessor(session, testProfile(), testLogger())
	processor.WithConfirm(func(nation string) bool { return true })

	processor.ProcessNations([]string{"ghost"}, Switches{})

	if len(session.created) != 1 || session.created[0] != "ghost" {
		t.Fatalf("Expected ghost to be founded, got %v", session.created)
	}
	if len(session.logins) != 1 {
		t.Errorf("Expected login after founding, got %v", session.logins)
	}
}

func TestProcessNationExistenceErrorFallsThroughToLogin(t *testing.T) {
	session := &fakeSession{existsErr: errors.New("api unavailable")}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"alpha"}, Switches{})

	if len(session.logins) != 1 {
		t.Errorf("Expected login attempt despite failed existence probe, got %v", session.logins)
	}
	if len(session.created) != 0 {
		t.Errorf("Expected no founding on a failed probe, got %v", session.created)
	}
}

func TestChangeSettingsPretitleThreshold(t *testing.T) {
	cases := []struct {
		name       string
		population int
		pretitle   bool
	}{
		{"below threshold", 249, false},
		{"at threshold", 250, true},
		{"above threshold", 900, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session := &fakeSession{population: map[string]int{"alpha": tc.population}}
			processor := NewProcessor(session, testProfile(), testLogger())

			processor.ProcessNations([]string{"alpha"}, Switches{ChangeSettings: true})

			if len(session.settings) != 1 {
				t.Fatalf("Expected one settings update, got %d", len(session.settings))
			}
			_, hasPretitle := session.settings[0]["pretitle"]
			if hasPretitle != tc.pretitle {
				t.Errorf("Population %d: pretitle included = %v, want %v",
					tc.population, hasPretitle, tc.pretitle)
			}
			if session.settings[0]["demonym_noun"] != "Testlander" {
				t.Errorf("Expected demonym_noun in settings, got %v", session.settings[0])
			}
		})
	}
}

func TestChangeSettingsPopulationErrorSkipsUpdate(t *testing.T) {
	session := &fakeSession{popErr: errors.New("api unavailable")}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"alpha"}, Switches{ChangeSettings: true, ChangeFlag: true})

	if len(session.settings) != 0 {
		t.Errorf("Expected settings update skipped on population error, got %d", len(session.settings))
	}
	// Remaining actions still run.
	if len(session.flags) != 1 {
		t.Errorf("Expected flag change to proceed, got %d", len(session.flags))
	}
}

func TestPlaceBidsSkippedWhenUnconfigured(t *testing.T) {
	session := &fakeSession{}
	processor := NewProcessor(session, testProfile(), testLogger())

	processor.ProcessNations([]string{"alpha"}, Switches{PlaceBids: true})

	if len(session.bids) != 0 {
		t.Errorf("Expected no bids without card parameters, got %v", session.bids)
	}
}

func TestPlaceBidsContinuesPastErrors(t *testing.T) {
	profile := testProfile()
	profile.Bids = []config.CardBid{
		{CardID: "101", Season: "1", Price: "0.50"},
		{CardID: "202", Season: "2", Price: "1.00"},
	}
	session := &fakeSession{bidErr: errors.New("outbid")}
	processor := NewProcessor(session, profile, testLogger())

	processor.ProcessNations([]string{"alpha"}, Switches{PlaceBids: true})

	if len(session.bids) != 2 {
		t.Errorf("Expected both bids attempted despite errors, got %d", len(session.bids))
	}
}

func TestSwitchesOffRunNothing(t *testing.T) {
	profile := testProfile()
	profile.Bids = []config.CardBid{{CardID: "101", Season: "1", Price: "0.50"}}
	session := &fakeSession{population: map[string]int{"alpha": 500}}
	processor := NewProcessor(session, profile, testLogger())

	processor.ProcessNations([]string{"alpha"}, Switches{})

	if len(session.settings)+len(session.flags)+len(session.moves)+len(session.bids) != 0 {
		t.Error("Expected no actions with all switches off")
	}
	if len(session.logins) != 1 {
		t.Errorf("Expected login to still happen, got %v", session.logins)
	}
}

func TestProcessNationsRecordsOutcomes(t *testing.T) {
	session := &fakeSession{
		loginErr: map[string]error{"bravo": errors.New("bad password")},
	}
	recorder := &fakeRecorder{}
	processor := NewProcessor(session, testProfile(), testLogger()).WithRecorder(recorder)

	processor.ProcessNations([]string{"alpha", "bravo"}, Switches{MoveRegion: true})

	want := []recorded{
		{"alpha", "login", false},
		{"alpha", "move", false},
		{"bravo", "login", true},
	}
	if len(recorder.records) != len(want) {
		t.Fatalf("Expected %d records, got %v", len(want), recorder.records)
	}
	for i, w := range want {
		if recorder.records[i] != w {
			t.Errorf("Record %d: got %+v, want %+v", i, recorder.records[i], w)
		}
	}
}
