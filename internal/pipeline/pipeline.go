// Package pipeline orchestrates the one-shot fetch, transform, and write of
// the shelter data set.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tilfluktsrom/sweden-shelter-etl/internal/domain"
	"github.com/tilfluktsrom/sweden-shelter-etl/internal/observability"
)

// ErrNoShelters is returned when the fetch stage completed without a single
// record. This is the run's only fatal data condition.
var ErrNoShelters = errors.New("no shelter records fetched")

// PageExtractor fetches one page of raw features at the given offset.
type PageExtractor interface {
	ExtractPage(ctx context.Context, offset, count int) ([]domain.RawShelter, error)
}

// Loader writes the finished collection to its destination.
type Loader interface {
	Load(ctx context.Context, col domain.ShelterCollection) error
}

// Publisher optionally forwards the collection to a secondary sink.
type Publisher interface {
	Publish(ctx context.Context, col domain.ShelterCollection) error
}

// Result summarizes one run.
type Result struct {
	PagesFetched      int
	RecordsFetched    int
	FeaturesEmitted   int
	SkippedNoGeometry int
	SwedishAddresses  int

	// Partial is true when fetching stopped on an error and the output was
	// built from whatever had been accumulated.
	Partial bool
}

// Pipeline runs the extract-transform-load sequence exactly once.
type Pipeline struct {
	extractor PageExtractor
	loader    Loader
	publisher Publisher // nil disables publishing
	logger    *slog.Logger
	metrics   *observability.Metrics
	pageSize  int
}

// New creates a Pipeline. Pass a nil publisher when no secondary sink is
// configured.
func New(e PageExtractor, l Loader, p Publisher, logger *slog.Logger, metrics *observability.Metrics, pageSize int) *Pipeline {
	return &Pipeline{
		extractor: e,
		loader:    l,
		publisher: p,
		logger:    logger,
		metrics:   metrics,
		pageSize:  pageSize,
	}
}

// Run executes the full pipeline: paginated fetch, normalization, and write.
// Fetch errors are not fatal as long as at least one record was accumulated;
// zero records yields ErrNoShelters.
func (p *Pipeline) Run(ctx context.Context) (Result, error) {
	var result Result

	raw := p.fetchAll(ctx, &result)
	if err := ctx.Err(); err != nil {
		return result, err
	}
	if len(raw) == 0 {
		return result, ErrNoShelters
	}

	collection := p.transform(raw, &result)

	if err := p.loader.Load(ctx, collection); err != nil {
		return result, err
	}

	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, collection); err != nil {
			return result, err
		}
	}

	return result, nil
}

// fetchAll pages through the feature service until exhausted. Termination,
// checked per page in order: service-reported error, empty page, short page
// (accepted, then stop), otherwise advance the offset by the page size.
// Transport and parse failures stop the loop the same way service errors do;
// whatever was accumulated is kept.
func (p *Pipeline) fetchAll(ctx context.Context, result *Result) []domain.RawShelter {
	var all []domain.RawShelter
	offset := 0

	for {
		p.logger.Info("fetching records", "from", offset, "to", offset+p.pageSize)

		start := time.Now()
		page, err := p.extractor.ExtractPage(ctx, offset, p.pageSize)
		if err != nil {
			var svcErr *domain.ServiceError
			if errors.As(err, &svcErr) {
				p.logger.Error("feature service rejected the query", "error", svcErr)
			} else {
				p.logger.Error("page fetch failed", "error", err, "offset", offset)
			}
			p.metrics.FetchErrors.Inc()
			result.Partial = true
			return all
		}
		p.metrics.PageFetchDuration.Observe(time.Since(start).Seconds())

		if len(page) == 0 {
			return all
		}

		all = append(all, page...)
		result.PagesFetched++
		result.RecordsFetched = len(all)
		p.metrics.PagesFetched.Inc()
		p.metrics.RecordsFetched.Add(float64(len(page)))
		p.logger.Info("got shelters", "count", len(page), "total", len(all))

		// A short page is the last page the service has.
		if len(page) < p.pageSize {
			return all
		}

		offset += p.pageSize
	}
}

// transform normalizes the raw records in order. Records without geometry
// are skipped and do not consume an output index; romnr is always the
// position in the emitted sequence.
func (p *Pipeline) transform(raw []domain.RawShelter, result *Result) domain.ShelterCollection {
	extractedOn := domain.ExtractionDate()
	features := make([]domain.ShelterFeature, 0, len(raw))

	for i, rec := range raw {
		feature, err := domain.NormalizeShelter(rec, len(features), extractedOn)
		if err != nil {
			p.logger.Warn("skipping shelter without geometry", "position", i)
			p.metrics.SkippedRecords.Inc()
			result.SkippedNoGeometry++
			continue
		}

		if domain.HasSwedishChars(feature.Properties.Address) {
			p.metrics.SwedishAddrs.Inc()
			result.SwedishAddresses++
		}

		features = append(features, feature)
	}

	result.FeaturesEmitted = len(features)
	p.metrics.FeaturesEmitted.Add(float64(len(features)))
	p.logger.Info("converted shelters",
		"emitted", len(features),
		"skipped", result.SkippedNoGeometry,
		"with_swedish_chars", result.SwedishAddresses,
	)

	return domain.NewShelterCollection(features)
}
