package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeEnvFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write env file: %v", err)
	}
	return path
}

const completeProfile = `UA=Tester
PASSWORD=hunter2
EMAIL=tester@example.com
PRETITLE=The Grand Duchy of
SLOGAN=Forward
CURRENCY=coin
ANIMAL=owl
DEMONYM_NOUN=Testlander
DEMONYM_ADJECTIVE=Testlandish
DEMONYM_PLURAL=Testlanders
TARGET_REGION=the_testing_grounds
TARGET_REGION_PASSWORD=sesame
FLAG=flag.png
`

func TestLoadProfileComplete(t *testing.T) {
	path := writeEnvFile(t, "config.env", completeProfile)

	profile, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}

	if profile.UserAgent != "Tester" {
		t.Errorf("Expected user agent Tester, got %q", profile.UserAgent)
	}
	if profile.Password != "hunter2" {
		t.Errorf("Expected password hunter2, got %q", profile.Password)
	}
	if profile.TargetRegion != "the_testing_grounds" {
		t.Errorf("Expected target region the_testing_grounds, got %q", profile.TargetRegion)
	}
	if profile.HasBids() {
		t.Error("Expected no bids when card keys are absent")
	}
}

func TestLoadProfileMissingKeys(t *testing.T) {
	content := `UA=Tester
EMAIL=tester@example.com
`
	path := writeEnvFile(t, "config.env", content)

	_, err := LoadProfile(path)
	if err == nil {
		t.Fatal("Expected error for incomplete profile")
	}

	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingKeysError, got %T: %v", err, err)
	}

	// Every absent required key must be named; present ones must not be.
	got := strings.Join(missing.Keys, ",")
	for _, key := range []string{"PASSWORD", "PRETITLE", "FLAG", "TARGET_REGION"} {
		if !strings.Contains(got, key) {
			t.Errorf("Expected missing keys to include %s, got %s", key, got)
		}
	}
	for _, key := range []string{"UA", "EMAIL"} {
		if strings.Contains(got, key) {
			t.Errorf("Did not expect %s in missing keys %s", key, got)
		}
	}
}

func TestLoadProfileBlankValueIsMissing(t *testing.T) {
	content := strings.Replace(completeProfile, "PASSWORD=hunter2", "PASSWORD=   ", 1)
	path := writeEnvFile(t, "config.env", content)

	_, err := LoadProfile(path)
	var missing *MissingKeysError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingKeysError for blank value, got %v", err)
	}
	if len(missing.Keys) != 1 || missing.Keys[0] != "PASSWORD" {
		t.Errorf("Expected exactly PASSWORD missing, got %v", missing.Keys)
	}
}

func TestLoadProfileMissingFileSkipped(t *testing.T) {
	path := writeEnvFile(t, "config.env", completeProfile)

	profile, err := LoadProfile(path, filepath.Join(t.TempDir(), "no-such-cards.env"))
	if err != nil {
		t.Fatalf("Missing optional file should not fail the load: %v", err)
	}
	if profile.HasBids() {
		t.Error("Expected no bids without a cards file")
	}
}

func TestLoadProfileLaterFileOverrides(t *testing.T) {
	first := writeEnvFile(t, "config.env", completeProfile)
	second := writeEnvFile(t, "override.env", "ANIMAL=ferret\n")

	profile, err := LoadProfile(first, second)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}
	if profile.Animal != "ferret" {
		t.Errorf("Expected later file to override, got animal %q", profile.Animal)
	}
}

func TestLoadProfileCardBids(t *testing.T) {
	cards := `CARD_IDS=101, 202,303
SEASONS=1,2, 3
PRICES=0.50,1.00,2.25
`
	config := writeEnvFile(t, "config.env", completeProfile)
	cardsPath := writeEnvFile(t, "cards.env", cards)

	profile, err := LoadProfile(config, cardsPath)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}

	if len(profile.Bids) != 3 {
		t.Fatalf("Expected 3 bids, got %d", len(profile.Bids))
	}
	want := CardBid{CardID: "202", Season: "2", Price: "1.00"}
	if profile.Bids[1] != want {
		t.Errorf("Expected bid %+v, got %+v", want, profile.Bids[1])
	}
}

func TestLoadProfileUnequalBidLists(t *testing.T) {
	cards := `CARD_IDS=101,202
SEASONS=1,2,3
PRICES=0.50,1.00
`
	config := writeEnvFile(t, "config.env", completeProfile)
	cardsPath := writeEnvFile(t, "cards.env", cards)

	_, err := LoadProfile(config, cardsPath)
	if err == nil {
		t.Fatal("Expected error for unequal bid lists")
	}
	if !strings.Contains(err.Error(), "same length") {
		t.Errorf("Expected length mismatch error, got %v", err)
	}
}

func TestParseBidsAbsentList(t *testing.T) {
	bids, err := parseBids("101,202", "", "0.50,1.00")
	if err != nil {
		t.Fatalf("Absent list should not be an error: %v", err)
	}
	if bids != nil {
		t.Errorf("Expected nil bids when any list is absent, got %v", bids)
	}
}
