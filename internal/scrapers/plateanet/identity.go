package plateanet

import (
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

const report_client_identity = "client.identity"

// the detail page carries the internal ids as attributes of an info element,
// attribute names are lowercased by the html parser.
const (
	identityContainerSelector = "[idobra], [idteatro]"
	identityProductionAttr    = "idobra"
	identityVenueAttr         = "idteatro"
)

// Identity resolves the internal venue and production ids of a production
// from its detail page.
func (c *Client) Identity(ctx context.Context, productionId string) (Identity, error) {
	if productionId == "" {
		return Identity{}, parseError("identity", "empty production id")
	}

	endpoint := endpoint_production + url.PathEscape(productionId)
	doc, err := c.getPage(ctx, "identity", endpoint)
	if err != nil {
		c.tel.ReportBroken(report_client_identity, fmt.Errorf("fetch: %w", err), productionId)
		return Identity{}, err
	}

	identity, err := parseIdentity(doc)
	if err != nil {
		c.tel.ReportBroken(report_client_identity, err, productionId)
		return Identity{}, err
	}
	return identity, nil
}

func parseIdentity(doc *goquery.Document) (Identity, error) {
	container := doc.Find(identityContainerSelector).First()
	if container.Length() == 0 {
		return Identity{}, parseError("identity", "could not find info container")
	}

	venueId := container.AttrOr(identityVenueAttr, "")
	if venueId == "" {
		return Identity{}, parseError("identity", "info container has no %s", identityVenueAttr)
	}
	productionId := container.AttrOr(identityProductionAttr, "")
	if productionId == "" {
		return Identity{}, parseError("identity", "info container has no %s", identityProductionAttr)
	}

	return Identity{
		VenueId:      venueId,
		ProductionId: productionId,
	}, nil
}
