package crawler

import (
	"strings"

	"plateanet-crawler/internal/scrapers/plateanet"
	"plateanet-crawler/pkg/htmlutil"

	"github.com/antzucaro/matchr"
)

const DefaultMatchThreshold = 0.85

// Filter decides whether a production is crawled.
type Filter func(production plateanet.Production) bool

func normalizeName(name string) string {
	return strings.ToLower(htmlutil.NormalizeText(name))
}

// MatchName keeps the productions whose name contains `query` or is similar
// enough to it (Jaro-Winkler similarity >= threshold), case is ignored.
func MatchName(query string, threshold float64) Filter {
	query = normalizeName(query)
	return func(production plateanet.Production) bool {
		if query == "" {
			return true
		}
		name := normalizeName(production.Name)
		if strings.Contains(name, query) {
			return true
		}
		return matchr.JaroWinkler(name, query, false) >= threshold
	}
}
