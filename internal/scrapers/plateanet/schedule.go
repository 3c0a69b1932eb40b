package plateanet

import (
	"context"
	"fmt"
)

const report_client_performances = "client.performances"

type performanceRecord struct {
	Id   jsonField `json:"idFuncion"`
	Name jsonField `json:"Nombre"`
}

type performancesResponse struct {
	Performances []performanceRecord `json:"Funciones"`
}

// Performances lists the scheduled performances of a production, keyed by
// performance id. A production without performances yields an empty map.
func (c *Client) Performances(ctx context.Context, identity Identity) (map[string]string, error) {
	var res performancesResponse
	err := postService(
		ctx, c, "schedule", endpoint_performances,
		map[string]string{
			"nIdTeatro":   identity.VenueId,
			"nIdInfoObra": identity.ProductionId,
		},
		&res,
	)
	if err != nil {
		c.tel.ReportBroken(
			report_client_performances,
			fmt.Errorf("fetch: %w", err),
			identity.VenueId,
			identity.ProductionId,
		)
		return nil, err
	}

	performances, err := decodePerformances(res.Performances)
	if err != nil {
		c.tel.ReportBroken(report_client_performances, err, identity.VenueId, identity.ProductionId)
		return nil, err
	}
	return performances, nil
}

func decodePerformances(records []performanceRecord) (map[string]string, error) {
	performances := make(map[string]string, len(records))
	for i, r := range records {
		id, err := r.Id.Text("idFuncion")
		if err != nil {
			return nil, &ParseError{Step: "schedule", Err: fmt.Errorf("performance %d: %w", i, err)}
		}
		name, err := r.Name.Text("Nombre")
		if err != nil {
			return nil, &ParseError{Step: "schedule", Err: fmt.Errorf("performance %s: %w", id, err)}
		}
		performances[id] = name
	}
	return performances, nil
}
