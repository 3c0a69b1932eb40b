package commands

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"plateanet-crawler/internal/crawler"
	"plateanet-crawler/internal/scrapers/plateanet"

	"github.com/stretchr/testify/require"
)

var testResults = []crawler.Result{
	{
		Production: plateanet.Production{Id: "HAM", Name: "Hamlet"},
		Report: &crawler.ProductionReport{
			ProductionId: "HAM",
			Name:         "Hamlet",
			Performances: []crawler.PerformanceReport{{
				Id:   "901",
				Name: "Viernes 20:00",
				Promotions: []crawler.PromotionReport{
					{Name: "2x1", Sectors: []string{"Platea", "Pullman"}},
				},
			}},
		},
	},
	{
		Production: plateanet.Production{Id: "BER", Name: "Bernarda Alba"},
		Err:        fmt.Errorf("resolve identity of BER: boom"),
	},
}

func TestTableSink(t *testing.T) {
	sink := &tableSink{}
	counter := &failureCounter{inner: sink}
	for _, r := range testResults {
		counter.Consume(r)
	}
	require.Equal(t, 2, counter.total)
	require.Equal(t, 1, counter.failed)

	var out bytes.Buffer
	sink.Render(&out)
	rendered := out.String()
	require.Contains(t, rendered, "Platea, Pullman")
	require.Contains(t, rendered, "error: resolve identity of BER: boom")
	require.Less(t, strings.Index(rendered, "BER"), strings.Index(rendered, "HAM"))
}

func TestJsonSink(t *testing.T) {
	var out bytes.Buffer
	sink := newJsonSink(&out)
	for _, r := range testResults {
		sink.Consume(r)
	}
	require.NoError(t, sink.failed)

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 2)

	var first jsonResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	require.Equal(t, "HAM", first.ProductionId)
	require.Empty(t, first.Error)
	require.Equal(t, 1, first.Report.PromotionCount())

	var second jsonResult
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &second))
	require.Nil(t, second.Report)
	require.Equal(t, "resolve identity of BER: boom", second.Error)
}
