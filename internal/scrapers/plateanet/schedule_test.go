package plateanet

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPerformances(t *testing.T) {
	var received map[string]string
	client, _ := newTestSite(t, map[string]http.HandlerFunc{
		"POST /Services/getFuncionesPorTeatroyObra": serveForm(t, func(form map[string]string) string {
			received = form
			return `{"objeto": {"Funciones": [
				{"idFuncion": 90211, "Nombre": "Viernes 20:00"},
				{"idFuncion": "90212", "Nombre": "Sábado 21:30"}
			]}}`
		}),
	})

	performances, err := client.Performances(context.Background(), Identity{VenueId: "12", ProductionId: "7741"})
	require.NoError(t, err)
	require.Equal(t, map[string]string{
		"90211": "Viernes 20:00",
		"90212": "Sábado 21:30",
	}, performances)

	require.Equal(t, map[string]string{
		"token":       testToken,
		"nIdTeatro":   "12",
		"nIdInfoObra": "7741",
	}, received)
}

func TestPerformancesEmpty(t *testing.T) {
	table := []struct {
		name     string
		response string
	}{
		{name: "empty list", response: `{"objeto": {"Funciones": []}}`},
		{name: "null list", response: `{"objeto": {"Funciones": null}}`},
		{name: "no list", response: `{"objeto": {}}`},
		{name: "no objeto", response: `{}`},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			client, _ := newTestSite(t, map[string]http.HandlerFunc{
				"POST /Services/getFuncionesPorTeatroyObra": serveForm(t, func(map[string]string) string {
					return row.response
				}),
			})

			performances, err := client.Performances(context.Background(), Identity{VenueId: "1", ProductionId: "2"})
			require.NoError(t, err)
			require.NotNil(t, performances)
			require.Empty(t, performances)
		})
	}
}

func TestPerformancesMissingFields(t *testing.T) {
	table := []struct {
		name     string
		response string
	}{
		{name: "id", response: `{"objeto": {"Funciones": [{"Nombre": "Sin id"}, {"idFuncion": 5, "Nombre": "Domingo"}]}}`},
		{name: "null id", response: `{"objeto": {"Funciones": [{"idFuncion": null, "Nombre": "Sin id"}]}}`},
		{name: "name", response: `{"objeto": {"Funciones": [{"idFuncion": 5}]}}`},
		{name: "blank name", response: `{"objeto": {"Funciones": [{"idFuncion": "5", "Nombre": ""}]}}`},
	}

	for _, row := range table {
		t.Run(row.name, func(t *testing.T) {
			client, rec := newTestSite(t, map[string]http.HandlerFunc{
				"POST /Services/getFuncionesPorTeatroyObra": serveForm(t, func(map[string]string) string {
					return row.response
				}),
			})

			performances, err := client.Performances(context.Background(), Identity{VenueId: "1", ProductionId: "2"})
			require.Nil(t, performances)

			var parseErr *ParseError
			require.True(t, errors.As(err, &parseErr))
			require.Equal(t, "schedule", parseErr.Step)
			require.ErrorContains(t, err, "missing value")
			require.NotEmpty(t, rec.Broken(report_client_performances))
		})
	}
}

func TestPerformancesMalformed(t *testing.T) {
	client, rec := newTestSite(t, map[string]http.HandlerFunc{
		"POST /Services/getFuncionesPorTeatroyObra": serveForm(t, func(map[string]string) string {
			return `<html>error</html>`
		}),
	})

	_, err := client.Performances(context.Background(), Identity{VenueId: "1", ProductionId: "2"})

	var parseErr *ParseError
	require.True(t, errors.As(err, &parseErr))
	require.Equal(t, "schedule", parseErr.Step)
	require.NotEmpty(t, rec.Broken(report_client_performances))
}

func TestPerformancesUnauthorized(t *testing.T) {
	client, _ := newTestSite(t, map[string]http.HandlerFunc{
		"POST /Services/getFuncionesPorTeatroyObra": serveStatus(http.StatusForbidden),
	})

	_, err := client.Performances(context.Background(), Identity{VenueId: "1", ProductionId: "2"})

	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	require.Equal(t, "POST", fetchErr.Method)
	require.Equal(t, http.StatusForbidden, fetchErr.StatusCode)
}
