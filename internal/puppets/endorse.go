package puppets

import "strings"

// EndorseNations logs in once as the endorsing nation and endorses every
// target in order. A login failure returns false immediately with no
// endorsements attempted. The return value reflects that the loop ran, not
// that every endorsement succeeded.
func (p *Processor) EndorseNations(endorser, password string, targets []string) bool {
	if err := p.session.Login(endorser, password); err != nil {
		p.logger.Warnf("Could not log in as endorser %s: %v", endorser, err)
		return false
	}
	p.logger.Infof("Logged in as %s; endorsing %d nations", endorser, len(targets))

	total := len(targets)
	for i, target := range targets {
		target = strings.TrimSpace(target)
		if target != "" {
			err := p.session.Endorse(target)
			p.record(target, "endorse", err)
			if err != nil {
				p.logger.Errorf("Error endorsing %s: %v", target, err)
			} else {
				p.logger.Infof("Successfully endorsed %s", target)
			}
		}
		p.reportProgress(i, total)
	}

	return true
}
