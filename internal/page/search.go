package page

import "strings"

// Region is one searchable block of page text.
type Region struct {
	ID   string
	Text string
}

// Match is one highlighted occurrence inside a region. Matches are ordered
// by region registration order, then by offset.
type Match struct {
	RegionID string
	Start    int
	End      int
}

// Searcher performs the in-page text search over registered regions.
type Searcher struct {
	regions []Region
}

func NewSearcher(regions ...Region) *Searcher {
	return &Searcher{regions: regions}
}

// AddRegion registers one more searchable block.
func (s *Searcher) AddRegion(region Region) {
	s.regions = append(s.regions, region)
}

// Search returns every case-insensitive occurrence of query. An empty query
// matches nothing.
func (s *Searcher) Search(query string) []Match {
	trimmed := strings.TrimSpace(query)
	if s == nil || trimmed == "" {
		return nil
	}

	needle := strings.ToLower(trimmed)
	var matches []Match
	for _, region := range s.regions {
		haystack := strings.ToLower(region.Text)
		offset := 0
		for {
			idx := strings.Index(haystack[offset:], needle)
			if idx < 0 {
				break
			}
			start := offset + idx
			end := start + len(needle)
			matches = append(matches, Match{RegionID: region.ID, Start: start, End: end})
			offset = end
		}
	}
	return matches
}
