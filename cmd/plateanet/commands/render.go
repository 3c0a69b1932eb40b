package commands

import (
	"encoding/json"
	"io"
	"strings"

	"plateanet-crawler/internal/crawler"

	"github.com/jedib0t/go-pretty/v6/table"
)

// tableSink collects results and renders them as a single table once the
// crawl is over, go-pretty needs every row before it can size the columns.
type tableSink struct {
	results []crawler.Result
}

func (s *tableSink) Consume(result crawler.Result) {
	s.results = append(s.results, result)
}

func (s *tableSink) Render(out io.Writer) {
	crawler.SortResults(s.results)

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.AppendHeader(table.Row{"Id", "Production", "Performance", "Promotion", "Sectors"})
	for _, result := range s.results {
		if result.Failed() {
			t.AppendRow(table.Row{result.Production.Id, result.Production.Name, "", "", "error: " + result.Err.Error()})
			continue
		}
		for _, performance := range result.Report.Performances {
			for _, promotion := range performance.Promotions {
				t.AppendRow(table.Row{
					result.Report.ProductionId,
					result.Report.Name,
					performance.Name,
					promotion.Name,
					strings.Join(promotion.Sectors, ", "),
				})
			}
		}
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

type jsonResult struct {
	ProductionId string                    `json:"production_id"`
	Name         string                    `json:"name"`
	Report       *crawler.ProductionReport `json:"report,omitempty"`
	Error        string                    `json:"error,omitempty"`
}

// jsonSink writes one json object per line as soon as each production is done.
type jsonSink struct {
	encoder *json.Encoder
	failed  error
}

func newJsonSink(out io.Writer) *jsonSink {
	return &jsonSink{encoder: json.NewEncoder(out)}
}

func (s *jsonSink) Consume(result crawler.Result) {
	line := jsonResult{
		ProductionId: result.Production.Id,
		Name:         result.Production.Name,
		Report:       result.Report,
	}
	if result.Failed() {
		line.Error = result.Err.Error()
	}
	err := s.encoder.Encode(line)
	if err != nil && s.failed == nil {
		s.failed = err
	}
}

// failureCounter wraps a sink and counts the productions that failed.
type failureCounter struct {
	inner  crawler.Sink
	failed int
	total  int
}

func (c *failureCounter) Consume(result crawler.Result) {
	c.total++
	if result.Failed() {
		c.failed++
	}
	c.inner.Consume(result)
}
