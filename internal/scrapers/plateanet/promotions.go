package plateanet

import (
	"context"
	"fmt"
)

const report_client_promotions = "client.promotions"

// NoDiscount is the promo name the site uses for full price seats.
const NoDiscount = "S/D"

type promoRecord struct {
	Name  jsonField `json:"Nombre"`
	Sold  jsonField `json:"Vendidas"`
	Quota jsonField `json:"Quote"`
}

type sectorRecord struct {
	Sector    jsonField     `json:"Sector"`
	Total     jsonField     `json:"Totales"`
	Available jsonField     `json:"Disponible"`
	Price     jsonText      `json:"Precio"`
	Promos    []promoRecord `json:"Promos"`
}

// Promotions returns, for a performance, every promotion that can currently be
// bought mapped to the sectors it can be bought in.
func (c *Client) Promotions(ctx context.Context, performanceId string) (map[string][]string, error) {
	var records []sectorRecord
	err := postService(
		ctx, c, "promotions", endpoint_promotions,
		map[string]string{"nIdFuncion": performanceId},
		&records,
	)
	if err != nil {
		c.tel.ReportBroken(report_client_promotions, fmt.Errorf("fetch: %w", err), performanceId)
		return nil, err
	}

	offers, err := decodeSectors(records)
	if err != nil {
		c.tel.ReportBroken(report_client_promotions, err, performanceId)
		return nil, err
	}
	return AvailablePromotions(offers), nil
}

// decodeSectors validates the required fields of every sector, promos named
// NoDiscount are dropped before their numbers are looked at.
func decodeSectors(records []sectorRecord) ([]SectorOffer, error) {
	offers := make([]SectorOffer, 0, len(records))
	for i, r := range records {
		sector, err := r.Sector.Text("Sector")
		if err != nil {
			return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: %w", i, err)}
		}
		total, err := r.Total.Int("Totales")
		if err != nil {
			return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: %w", i, err)}
		}
		available, err := r.Available.Int("Disponible")
		if err != nil {
			return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: %w", i, err)}
		}

		offer := SectorOffer{
			Sector:    sector,
			Total:     total,
			Available: available,
			Price:     string(r.Price),
		}
		for j, p := range r.Promos {
			name, err := p.Name.Text("Nombre")
			if err != nil {
				return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: promo %d: %w", i, j, err)}
			}
			if name == NoDiscount {
				continue
			}
			sold, err := p.Sold.Int("Vendidas")
			if err != nil {
				return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: promo %q: %w", i, name, err)}
			}
			quota, err := p.Quota.Int("Quote")
			if err != nil {
				return nil, &ParseError{Step: "promotions", Err: fmt.Errorf("sector %d: promo %q: %w", i, name, err)}
			}
			offer.Promos = append(offer.Promos, PromoOffer{
				Name:  name,
				Sold:  sold,
				Quota: quota,
			})
		}
		offers = append(offers, offer)
	}
	return offers, nil
}

// EffectiveAvailable is how many seats of a promotion can still be sold in a
// sector: the promo's own remaining quota capped by the sector's free seats.
// It is never negative, even when the sector reports negative availability.
func EffectiveAvailable(quota, sold, sectorAvailable int) int {
	return max(0, min(max(0, quota-sold), sectorAvailable))
}

// AvailablePromotions maps every promotion with seats left to the sectors
// those seats are in. Sectors keep the order of `offers`, duplicates included.
func AvailablePromotions(offers []SectorOffer) map[string][]string {
	promotions := map[string][]string{}
	for _, offer := range offers {
		for _, promo := range offer.Promos {
			if promo.Name == NoDiscount {
				continue
			}
			if EffectiveAvailable(promo.Quota, promo.Sold, offer.Available) <= 0 {
				continue
			}
			promotions[promo.Name] = append(promotions[promo.Name], offer.Sector)
		}
	}
	return promotions
}
