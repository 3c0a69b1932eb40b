package plateanet

import (
	"context"
	"fmt"

	"plateanet-crawler/pkg/htmlutil"

	"github.com/PuerkitoBio/goquery"
)

const report_client_productions = "client.productions"

// the production picker on the landing page
const catalogOptionSelector = "select#obras option"

// Productions lists every production in the landing page's production picker,
// keyed by production id.
//
// Options without a value are placeholders and are skipped. When two options
// share an id the later one wins.
func (c *Client) Productions(ctx context.Context) (map[string]Production, error) {
	doc, err := c.getPage(ctx, "catalog", endpoint_catalog)
	if err != nil {
		c.tel.ReportBroken(report_client_productions, fmt.Errorf("fetch: %w", err))
		return nil, err
	}
	productions := parseCatalog(doc)
	c.tel.ReportCount(report_client_productions, int64(len(productions)))
	return productions, nil
}

func parseCatalog(doc *goquery.Document) map[string]Production {
	productions := map[string]Production{}
	doc.Find(catalogOptionSelector).Each(func(_ int, option *goquery.Selection) {
		ref, ok := option.Attr("value")
		if !ok || ref == "" {
			return
		}
		id := ProductionIdFromRef(ref)
		if id == "" {
			return
		}
		productions[id] = Production{
			Id:        id,
			Name:      htmlutil.VisibleText(option),
			SourceRef: ref,
		}
	})
	return productions
}
