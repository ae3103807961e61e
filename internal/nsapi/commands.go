package nsapi

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

// World Assembly chambers accepted by CastVote.
const (
	CouncilGeneralAssembly = "ga"
	CouncilSecurityCouncil = "sc"
)

// Vote choices accepted by CastVote.
const (
	VoteFor     = "for"
	VoteAgainst = "against"
)

// CanBeFounded reports whether a nation name is free, i.e. the nation does
// not currently exist. The public API returns 404 for unknown nations.
func (s *Session) CanBeFounded(nation string) (bool, error) {
	query := url.Values{"nation": {canonical(nation)}, "q": {"name"}}
	_, status, err := s.get(s.baseURL + "/cgi-bin/api.cgi?" + query.Encode())
	if err != nil {
		return false, fmt.Errorf("existence probe for %s: %w", nation, err)
	}

	switch status {
	case http.StatusNotFound:
		return true, nil
	case http.StatusOK:
		return false, nil
	default:
		return false, fmt.Errorf("existence probe for %s: unexpected status %d", nation, status)
	}
}

// CreateNation founds a new nation. The session does not become logged in
// as the new nation; call Login afterwards.
func (s *Session) CreateNation(nation, password, email, currency, animal, slogan string) error {
	form := url.Values{
		"foundnation":      {"1"},
		"name":             {nation},
		"password":         {password},
		"confirm_password": {password},
		"email":            {email},
		"currency":         {currency},
		"animal":           {animal},
		"slogan":           {slogan},
		"legal":            {"1"},
	}

	body, err := s.postPage("founding", form)
	if err != nil {
		return fmt.Errorf("founding %s: %w", nation, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("founding %s was rejected by the site", nation)
	}
	return nil
}

// ChangeSettings updates nation settings from a flat field mapping. Field
// names follow the settings form: email, slogan, currency, animal,
// demonym_noun, demonym_adjective, demonym_plural and optionally pretitle.
func (s *Session) ChangeSettings(settings map[string]string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	form := url.Values{
		"update": {" Update "},
		"chk":    {s.chk},
	}
	for field, value := range settings {
		form.Set(field, value)
	}

	body, err := s.postPage("settings", form)
	if err != nil {
		return fmt.Errorf("updating settings for %s: %w", s.nation, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("settings update for %s was rejected by the site", s.nation)
	}
	return nil
}

// ChangeFlag uploads a local image file and sets it as the nation's flag.
func (s *Session) ChangeFlag(flagPath string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	data, err := os.ReadFile(flagPath)
	if err != nil {
		return fmt.Errorf("reading flag file: %w", err)
	}

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	writer.WriteField("chk", s.chk)
	writer.WriteField("nation", canonical(s.nation))
	part, err := writer.CreateFormFile("file", filepath.Base(flagPath))
	if err != nil {
		return err
	}
	part.Write(data)
	if err := writer.Close(); err != nil {
		return err
	}

	target := s.baseURL + "/cgi-bin/upload.cgi"
	body, err := s.do(http.MethodPost, target, &buf, writer.FormDataContentType())
	if err != nil {
		return fmt.Errorf("uploading flag for %s: %w", s.nation, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("flag upload for %s was rejected by the site", s.nation)
	}
	return nil
}

// MoveToRegion relocates the logged-in nation. The password may be empty
// for regions without one.
func (s *Session) MoveToRegion(region, password string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	form := url.Values{
		"region_name": {region},
		"move_region": {"1"},
		"chk":         {s.chk},
	}
	if password != "" {
		form.Set("password", password)
	}

	body, err := s.postPage("change_region", form)
	if err != nil {
		return fmt.Errorf("moving %s to %s: %w", s.nation, region, err)
	}
	if !strings.Contains(body, "Success") {
		return fmt.Errorf("move of %s to %s was rejected by the site", s.nation, region)
	}
	return nil
}

// PlaceBid offers a price for a card identified by id and season.
func (s *Session) PlaceBid(price, cardID, season string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	form := url.Values{
		"auction_bid": {" Make Bid "},
		"bid":         {price},
		"cardid":      {cardID},
		"season":      {season},
		"chk":         {s.chk},
	}

	body, err := s.postPage("deck", form)
	if err != nil {
		return fmt.Errorf("bidding on card %s season %s: %w", cardID, season, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("bid on card %s season %s was rejected by the site", cardID, season)
	}
	return nil
}

// Endorse endorses a target nation as the logged-in World Assembly member.
func (s *Session) Endorse(target string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	form := url.Values{
		"nation": {canonical(target)},
		"action": {"endorse"},
		"chk":    {s.chk},
	}

	body, err := s.postForm("/cgi-bin/endorse.cgi", form)
	if err != nil {
		return fmt.Errorf("endorsing %s: %w", target, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("endorsement of %s was rejected by the site", target)
	}
	return nil
}

// CastVote casts a single for/against vote on the resolution at vote in the
// given chamber ("ga" or "sc").
func (s *Session) CastVote(council, choice string) error {
	if err := s.requireLogin(); err != nil {
		return err
	}

	if council != CouncilGeneralAssembly && council != CouncilSecurityCouncil {
		return fmt.Errorf("unknown council %q", council)
	}

	var label string
	switch choice {
	case VoteFor:
		label = "Vote For"
	case VoteAgainst:
		label = "Vote Against"
	default:
		return fmt.Errorf("unknown vote choice %q", choice)
	}

	form := url.Values{
		"vote": {label},
		"chk":  {s.chk},
	}

	body, err := s.postPage(council, form)
	if err != nil {
		return fmt.Errorf("casting %s vote in %s: %w", choice, council, err)
	}
	if strings.Contains(body, "class=\"error\"") {
		return fmt.Errorf("%s vote in %s was rejected by the site", choice, council)
	}
	return nil
}

// canonical converts a display name to the site's lowercase underscore form.
func canonical(nation string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(nation), " ", "_"))
}
