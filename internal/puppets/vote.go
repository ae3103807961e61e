package puppets

// CastVote logs in as the named nation and casts a single for/against vote
// on the resolution at vote in the given World Assembly chamber. Returns
// whether the vote was cast.
func (p *Processor) CastVote(nation, password, council, choice string) bool {
	if err := p.session.Login(nation, password); err != nil {
		p.logger.Warnf("Could not log in as %s: %v", nation, err)
		return false
	}

	err := p.session.CastVote(council, choice)
	p.record(nation, "vote", err)
	if err != nil {
		p.logger.Errorf("Error casting %s vote in %s as %s: %v", choice, council, nation, err)
		return false
	}

	p.logger.Infof("Successfully cast %s vote in %s as %s", choice, council, nation)
	return true
}
