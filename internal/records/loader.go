package records

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/drug-landscape/internal/logger"
	"github.com/joelkehle/drug-landscape/internal/telemetry"
)

// Source names where one dataset lives: a filesystem path or an http(s) URL.
type Source struct {
	Dataset  Dataset
	Location string
}

type LoaderConfig struct {
	HTTPClient  *http.Client
	Timeout     time.Duration
	Concurrency int
}

type Loader struct {
	client      *http.Client
	timeout     time.Duration
	concurrency int
	log         *logger.Logger
}

func NewLoader(cfg LoaderConfig, log *logger.Logger) *Loader {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = len(AllDatasets)
	}
	return &Loader{
		client:      client,
		timeout:     cfg.Timeout,
		concurrency: concurrency,
		log:         logger.OrNop(log),
	}
}

// LoadAll fetches and parses every dataset concurrently. It returns a store only
// when all five loaded; the first failure cancels the rest and is returned.
func (l *Loader) LoadAll(ctx context.Context, sources []Source) (*Store, error) {
	byDataset := map[Dataset]Source{}
	for _, src := range sources {
		if !src.Dataset.Valid() {
			return nil, fmt.Errorf("unknown dataset %q", src.Dataset)
		}
		if strings.TrimSpace(src.Location) == "" {
			return nil, fmt.Errorf("dataset %s: empty location", src.Dataset)
		}
		byDataset[src.Dataset] = src
	}
	for _, ds := range AllDatasets {
		if _, ok := byDataset[ds]; !ok {
			return nil, fmt.Errorf("dataset %s: no source configured", ds)
		}
	}

	if l.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.timeout)
		defer cancel()
	}

	results := make([][]Row, len(AllDatasets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(l.concurrency)
	for i, ds := range AllDatasets {
		src := byDataset[ds]
		g.Go(func() error {
			rows, err := l.loadOne(gctx, src)
			if err != nil {
				return fmt.Errorf("load %s: %w", src.Dataset, err)
			}
			results[i] = rows
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	data := make(map[Dataset][]Row, len(AllDatasets))
	for i, ds := range AllDatasets {
		data[ds] = results[i]
	}
	return NewStore(data), nil
}

func (l *Loader) loadOne(ctx context.Context, src Source) ([]Row, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "records.load")
	defer span.End()
	span.SetAttributes(
		attribute.String("dataset", string(src.Dataset)),
		attribute.String("location", src.Location),
	)

	start := time.Now()
	rc, err := l.open(ctx, src.Location)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rc.Close()

	rows, err := ReadDataset(rc)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("rows", len(rows)))
	l.log.Info("dataset loaded",
		"dataset", string(src.Dataset),
		"location", src.Location,
		"rows", len(rows),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return rows, nil
}

func (l *Loader) open(ctx context.Context, location string) (io.ReadCloser, error) {
	if isRemote(location) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return nil, err
		}
		resp, err := l.client.Do(req)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			resp.Body.Close()
			return nil, fmt.Errorf("GET %s: status %d", location, resp.StatusCode)
		}
		return resp.Body, nil
	}
	f, err := os.Open(location)
	if err != nil {
		return nil, err
	}
	return f, nil
}

func isRemote(location string) bool {
	lower := strings.ToLower(location)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
