package nsapi

import (
	"encoding/xml"
	"fmt"
	"net/http"
	"net/url"
)

// NationData is the subset of nation API shards the batch tools read.
type NationData struct {
	XMLName    xml.Name `xml:"NATION"`
	Name       string   `xml:"NAME"`
	Population int      `xml:"POPULATION"`
	Region     string   `xml:"REGION"`
	WAStatus   string   `xml:"UNSTATUS"`
}

// QueryNation performs a public API query for a nation and the requested
// shards. This is the generic data query; authenticated shards are not
// supported.
func (s *Session) QueryNation(nation string, shards ...string) (*NationData, error) {
	query := url.Values{"nation": {canonical(nation)}}
	if len(shards) > 0 {
		q := ""
		for i, shard := range shards {
			if i > 0 {
				q += "+"
			}
			q += shard
		}
		query.Set("q", q)
	}

	body, status, err := s.get(s.baseURL + "/cgi-bin/api.cgi?" + query.Encode())
	if err != nil {
		return nil, fmt.Errorf("nation query for %s: %w", nation, err)
	}
	if status != http.StatusOK {
		return nil, fmt.Errorf("nation query for %s: unexpected status %d", nation, status)
	}

	data := &NationData{}
	if err := xml.Unmarshal([]byte(body), data); err != nil {
		return nil, fmt.Errorf("parsing nation data for %s: %w", nation, err)
	}
	return data, nil
}

// Population returns the nation's population in millions.
func (s *Session) Population(nation string) (int, error) {
	data, err := s.QueryNation(nation, "population")
	if err != nil {
		return 0, err
	}
	return data.Population, nil
}
