package puppets

import (
	"strings"
)

// ProcessNations runs the full action sequence over a list of puppet names,
// in order. Per-account failures are logged and never abort the batch;
// progress is reported after every account regardless of outcome.
func (p *Processor) ProcessNations(nations []string, switches Switches) {
	total := len(nations)
	for i, nation := range nations {
		nation = strings.TrimSpace(nation)
		if nation != "" {
			p.processNation(nation, switches)
		}
		p.reportProgress(i, total)
	}
}

// processNation performs existence probe, conditional founding, login and
// the switched actions for a single puppet.
func (p *Processor) processNation(nation string, switches Switches) {
	free, err := p.session.CanBeFounded(nation)
	if err != nil {
		p.logger.Error("Existence check failed for "+nation, err)
		// Fall through to the login attempt; the nation may well exist.
		free = false
	}

	if free {
		if p.confirm == nil || !p.confirm(nation) {
			p.logger.Warnf("Nation %s does not exist; skipping", nation)
			return
		}
		p.createNation(nation)
	}

	if err := p.session.Login(nation, p.profile.Password); err != nil {
		p.logger.Warnf("Could not log in as %s: %v", nation, err)
		p.record(nation, "login", err)
		return
	}
	p.logger.Infof("Logged in as %s", nation)
	p.record(nation, "login", nil)

	if switches.ChangeSettings {
		p.changeSettings(nation)
	}
	if switches.ChangeFlag {
		p.changeFlag(nation)
	}
	if switches.MoveRegion {
		p.moveToRegion(nation)
	}
	if switches.PlaceBids {
		p.placeBids(nation)
	}
}

func (p *Processor) createNation(nation string) {
	err := p.session.CreateNation(
		nation,
		p.profile.Password,
		p.profile.Email,
		p.profile.Currency,
		p.profile.Animal,
		p.profile.Slogan,
	)
	p.record(nation, "create", err)
	if err != nil {
		p.logger.Error("Error creating nation "+nation, err)
		return
	}
	p.logger.Infof("Successfully created nation %s", nation)
}

// changeSettings applies the profile settings. The pretitle field is only
// included once the nation's population has reached the threshold.
func (p *Processor) changeSettings(nation string) {
	settings := map[string]string{
		"email":             p.profile.Email,
		"slogan":            p.profile.Slogan,
		"currency":          p.profile.Currency,
		"animal":            p.profile.Animal,
		"demonym_noun":      p.profile.DemonymNoun,
		"demonym_adjective": p.profile.DemonymAdjective,
		"demonym_plural":    p.profile.DemonymPlural,
	}

	population, err := p.session.Population(nation)
	if err != nil {
		p.logger.Error("Error changing settings for nation "+nation, err)
		return
	}

	if population >= pretitlePopulationThreshold {
		settings["pretitle"] = p.profile.Pretitle
	} else {
		p.logger.Infof("Population of %s is below %d million; pretitle left unchanged",
			nation, pretitlePopulationThreshold)
	}

	err = p.session.ChangeSettings(settings)
	p.record(nation, "settings", err)
	if err != nil {
		p.logger.Error("Error changing settings for nation "+nation, err)
		return
	}
	p.logger.Infof("Successfully changed settings for nation %s", nation)
}

func (p *Processor) changeFlag(nation string) {
	err := p.session.ChangeFlag(p.profile.Flag)
	p.record(nation, "flag", err)
	if err != nil {
		p.logger.Error("Error changing flag for nation "+nation, err)
		return
	}
	p.logger.Infof("Successfully changed flag for nation %s", nation)
}

func (p *Processor) moveToRegion(nation string) {
	err := p.session.MoveToRegion(p.profile.TargetRegion, p.profile.TargetRegionPassword)
	p.record(nation, "move", err)
	if err != nil {
		p.logger.Error("Error moving nation "+nation+" to target region", err)
		return
	}
	p.logger.Infof("Successfully moved nation %s to target region", nation)
}

// placeBids attempts every configured card bid. Absent bid parameters are a
// warning, not an error.
func (p *Processor) placeBids(nation string) {
	if !p.profile.HasBids() {
		p.logger.Warn("Card bid parameters not configured; skipping bids")
		return
	}

	for _, bid := range p.profile.Bids {
		err := p.session.PlaceBid(bid.Price, bid.CardID, bid.Season)
		p.record(nation, "bid", err)
		if err != nil {
			p.logger.Errorf("Error placing bid for card %s in season %s with price %s: %v",
				bid.CardID, bid.Season, bid.Price, err)
			continue
		}
		p.logger.Infof("Successfully placed bid for card %s in season %s with price %s",
			bid.CardID, bid.Season, bid.Price)
	}
}
