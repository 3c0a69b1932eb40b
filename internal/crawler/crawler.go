// Package crawler walks the whole catalog: for every production it resolves the
// internal ids, the performances and the promotions available for each of them.
package crawler

import (
	"context"
	"fmt"
	"sync"

	"plateanet-crawler/internal/components/assert"
	"plateanet-crawler/internal/components/telemetry"
	"plateanet-crawler/internal/scrapers/plateanet"

	"github.com/mazen160/go-random"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const (
	report_crawler_run        = "crawler.run"
	report_crawler_production = "crawler.production"
)

const DefaultConcurrency = 4

var tracer = otel.Tracer("plateanet/crawler")
var meter = otel.Meter("plateanet/crawler")
var productionCounter, _ = meter.Int64Counter("productions_crawled")
var promotionCounter, _ = meter.Int64Counter("promotions_found")

// Scraper is the part of plateanet.Client the crawler depends on.
//
// note: fault injection point
type Scraper interface {
	Productions(ctx context.Context) (map[string]plateanet.Production, error)
	Identity(ctx context.Context, productionId string) (plateanet.Identity, error)
	Performances(ctx context.Context, identity plateanet.Identity) (map[string]string, error)
	Promotions(ctx context.Context, performanceId string) (map[string][]string, error)
}

// Sink receives results as productions finish, calls are never concurrent.
type Sink interface {
	Consume(result Result)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(result Result)

func (f SinkFunc) Consume(result Result) {
	f(result)
}

type Options struct {
	// Concurrency is the maximum number of productions crawled at once.
	Concurrency int
	// Filter restricts the productions that are crawled, nil crawls all of them.
	Filter Filter
}

type Crawler struct {
	scraper     Scraper
	concurrency int
	filter      Filter
	tel         telemetry.API
}

func NewCrawler(scraper Scraper, opts Options, tel telemetry.API) Crawler {
	assert.NotNil(scraper)
	assert.NotNil(tel)

	if opts.Concurrency == 0 {
		opts.Concurrency = DefaultConcurrency
	}
	assert.Positive(opts.Concurrency)

	return Crawler{
		scraper:     scraper,
		concurrency: opts.Concurrency,
		filter:      opts.Filter,
		tel:         telemetry.NewScopedAPI("crawler", tel),
	}
}

func newRunId() string {
	id, err := random.String(8)
	if err != nil {
		return "unknown"
	}
	return id
}

// Run lists the catalog once and crawls every production that passes the
// filter, handing each result to `sink` as soon as it is ready.
//
// A production that fails is delivered with its error and does not stop the
// others. Run itself only fails when the catalog cannot be listed or when ctx
// is cancelled, in which case no new production is started.
func (c Crawler) Run(ctx context.Context, sink Sink) error {
	runId := newRunId()
	tel := telemetry.NewScopedAPI(runId, c.tel)

	ctx, span := tracer.Start(ctx, "crawler:Run", trace.WithAttributes(
		attribute.String("run_id", runId),
	))
	defer span.End()

	productions, err := c.scraper.Productions(ctx)
	if err != nil {
		tel.ReportBroken(report_crawler_run, fmt.Errorf("list productions: %w", err))
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to list productions")
		return fmt.Errorf("list productions: %w", err)
	}

	var ids []string
	for _, id := range SortedIds(productions) {
		if c.filter != nil && !c.filter(productions[id]) {
			continue
		}
		ids = append(ids, id)
	}
	tel.ReportCount(report_crawler_run, int64(len(ids)))

	var sinkLock sync.Mutex
	var group errgroup.Group
	group.SetLimit(c.concurrency)

	for _, id := range ids {
		if ctx.Err() != nil {
			break
		}
		production := productions[id]
		group.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}

			result := Result{Production: production}
			report, err := c.Production(ctx, production)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				tel.ReportBroken(report_crawler_production, err, production.Id)
				result.Err = err
			} else {
				result.Report = &report
			}

			sinkLock.Lock()
			defer sinkLock.Unlock()
			sink.Consume(result)
			return nil
		})
	}

	// chains never return errors, failures travel inside their Result
	group.Wait()

	return ctx.Err()
}

// Collect runs the crawl and returns every result ordered by production id.
func (c Crawler) Collect(ctx context.Context) ([]Result, error) {
	var results []Result
	err := c.Run(ctx, SinkFunc(func(result Result) {
		results = append(results, result)
	}))
	if err != nil {
		return nil, err
	}
	SortResults(results)
	return results, nil
}

// Production crawls a single production: identity, then performances, then
// the promotions of each performance in order.
func (c Crawler) Production(ctx context.Context, production plateanet.Production) (ProductionReport, error) {
	ctx, span := tracer.Start(ctx, "crawler:Production", trace.WithAttributes(
		attribute.String("production_id", production.Id),
	))
	defer span.End()

	fail := func(err error, msg string) (ProductionReport, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, msg)
		productionCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("failed", true)))
		return ProductionReport{}, err
	}

	identity, err := c.scraper.Identity(ctx, production.Id)
	if err != nil {
		return fail(fmt.Errorf("resolve identity of %s: %w", production.Id, err), "identity")
	}

	performances, err := c.scraper.Performances(ctx, identity)
	if err != nil {
		return fail(fmt.Errorf("list performances of %s: %w", production.Id, err), "performances")
	}

	report := ProductionReport{
		ProductionId: production.Id,
		InternalId:   identity.ProductionId,
		VenueId:      identity.VenueId,
		Name:         production.Name,
		Performances: make([]PerformanceReport, 0, len(performances)),
	}
	for _, performanceId := range SortedIds(performances) {
		promotions, err := c.scraper.Promotions(ctx, performanceId)
		if err != nil {
			return fail(fmt.Errorf("resolve promotions of %s/%s: %w", production.Id, performanceId, err), "promotions")
		}
		report.Performances = append(report.Performances, PerformanceReport{
			Id:         performanceId,
			Name:       performances[performanceId],
			Promotions: promotionReports(promotions),
		})
	}

	productionCounter.Add(ctx, 1, metric.WithAttributes(attribute.Bool("failed", false)))
	promotionCounter.Add(ctx, int64(report.PromotionCount()))

	return report, nil
}
