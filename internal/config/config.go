package config

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// Required profile keys. CARD_IDS, SEASONS and PRICES are optional; card
// bidding is skipped at run time when they are absent.
var requiredKeys = []string{
	"UA",
	"PASSWORD",
	"EMAIL",
	"PRETITLE",
	"SLOGAN",
	"CURRENCY",
	"ANIMAL",
	"DEMONYM_NOUN",
	"DEMONYM_ADJECTIVE",
	"DEMONYM_PLURAL",
	"TARGET_REGION",
	"TARGET_REGION_PASSWORD",
	"FLAG",
}

// MissingKeysError reports exactly which required keys are absent from the
// loaded configuration files.
type MissingKeysError struct {
	Keys []string
}

func (e *MissingKeysError) Error() string {
	return fmt.Sprintf("missing configuration keys: %s", strings.Join(e.Keys, ", "))
}

// CardBid is one bid triple: a card identified by id and season, and the
// price offered for it.
type CardBid struct {
	CardID string
	Season string
	Price  string
}

// Profile holds the puppet profile applied to every nation in a batch.
type Profile struct {
	UserAgent            string
	Password             string
	Email                string
	Pretitle             string
	Slogan               string
	Currency             string
	Animal               string
	DemonymNoun          string
	DemonymAdjective     string
	DemonymPlural        string
	TargetRegion         string
	TargetRegionPassword string
	Flag                 string

	Bids []CardBid
}

// HasBids reports whether card bid parameters were configured.
func (p *Profile) HasBids() bool {
	return len(p.Bids) > 0
}

// LoadProfile reads KEY=value files (typically config.env and cards.env) into
// a flat mapping, validates required keys, and builds the profile. A missing
// file is not an error on its own; missing keys are.
func LoadProfile(paths ...string) (*Profile, error) {
	vars := make(map[string]string)
	for _, path := range paths {
		loaded, err := godotenv.Read(path)
		if err != nil {
			continue
		}
		for k, v := range loaded {
			vars[k] = v
		}
	}

	return profileFromMap(vars)
}

func profileFromMap(vars map[string]string) (*Profile, error) {
	missing := []string{}
	for _, key := range requiredKeys {
		if strings.TrimSpace(vars[key]) == "" {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingKeysError{Keys: missing}
	}

	bids, err := parseBids(vars["CARD_IDS"], vars["SEASONS"], vars["PRICES"])
	if err != nil {
		return nil, err
	}

	return &Profile{
		UserAgent:            vars["UA"],
		Password:             vars["PASSWORD"],
		Email:                vars["EMAIL"],
		Pretitle:             vars["PRETITLE"],
		Slogan:               vars["SLOGAN"],
		Currency:             vars["CURRENCY"],
		Animal:               vars["ANIMAL"],
		DemonymNoun:          vars["DEMONYM_NOUN"],
		DemonymAdjective:     vars["DEMONYM_ADJECTIVE"],
		DemonymPlural:        vars["DEMONYM_PLURAL"],
		TargetRegion:         vars["TARGET_REGION"],
		TargetRegionPassword: vars["TARGET_REGION_PASSWORD"],
		Flag:                 vars["FLAG"],
		Bids:                 bids,
	}, nil
}

// parseBids zips the three comma-separated lists into bid triples. If any
// list is absent no bids are configured. Unequal list lengths are a
// configuration error rather than silent truncation.
func parseBids(cardIDs, seasons, prices string) ([]CardBid, error) {
	if cardIDs == "" || seasons == "" || prices == "" {
		return nil, nil
	}

	ids := splitList(cardIDs)
	ssn := splitList(seasons)
	prc := splitList(prices)

	if len(ids) != len(ssn) || len(ids) != len(prc) {
		return nil, fmt.Errorf("card bid lists must be the same length: %d ids, %d seasons, %d prices",
			len(ids), len(ssn), len(prc))
	}

	bids := make([]CardBid, len(ids))
	for i := range ids {
		bids[i] = CardBid{CardID: ids[i], Season: ssn[i], Price: prc[i]}
	}
	return bids, nil
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = strings.TrimSpace(p)
	}
	return out
}
