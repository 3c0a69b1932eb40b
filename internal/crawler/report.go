package crawler

import (
	"cmp"
	"slices"
	"strconv"
	"strings"

	"plateanet-crawler/internal/scrapers/plateanet"
)

type PromotionReport struct {
	Name    string   `json:"name"`
	Sectors []string `json:"sectors"`
}

type PerformanceReport struct {
	Id         string            `json:"id"`
	Name       string            `json:"name"`
	Promotions []PromotionReport `json:"promotions"`
}

// ProductionReport is everything that was found for a single production.
type ProductionReport struct {
	// ProductionId is the catalog id, InternalId is the id the services use.
	ProductionId string              `json:"production_id"`
	InternalId   string              `json:"internal_id"`
	VenueId      string              `json:"venue_id"`
	Name         string              `json:"name"`
	Performances []PerformanceReport `json:"performances"`
}

// PromotionCount is the number of (performance, promotion) pairs in the report.
func (r ProductionReport) PromotionCount() int {
	count := 0
	for _, p := range r.Performances {
		count += len(p.Promotions)
	}
	return count
}

// Result is the outcome of crawling one production, exactly one of Report
// and Err is set.
type Result struct {
	Production plateanet.Production
	Report     *ProductionReport
	Err        error
}

func (r Result) Failed() bool {
	return r.Err != nil
}

// compareIds puts numeric ids first, ordered by value, and everything else
// after them in lexical order.
func compareIds(a, b string) int {
	an, aerr := strconv.Atoi(a)
	bn, berr := strconv.Atoi(b)
	switch {
	case aerr == nil && berr == nil:
		return cmp.Compare(an, bn)
	case aerr == nil:
		return -1
	case berr == nil:
		return 1
	}
	return strings.Compare(a, b)
}

// SortedIds returns the keys of `m` with numeric ids first, in numeric order.
func SortedIds[T any](m map[string]T) []string {
	ids := make([]string, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	slices.SortFunc(ids, compareIds)
	return ids
}

func promotionReports(promotions map[string][]string) []PromotionReport {
	names := make([]string, 0, len(promotions))
	for name := range promotions {
		names = append(names, name)
	}
	slices.Sort(names)

	reports := make([]PromotionReport, len(names))
	for i, name := range names {
		reports[i] = PromotionReport{
			Name:    name,
			Sectors: promotions[name],
		}
	}
	return reports
}

// SortResults orders results by production id.
func SortResults(results []Result) {
	slices.SortFunc(results, func(a, b Result) int {
		return compareIds(a.Production.Id, b.Production.Id)
	})
}

// SortReports orders reports by production id.
func SortReports(reports []ProductionReport) {
	slices.SortFunc(reports, func(a, b ProductionReport) int {
		return compareIds(a.ProductionId, b.ProductionId)
	})
}
