// Package pipeline orchestrates worksheet production: identity encoding,
// cache lookup, canonical expansion, sentence generation, reconciliation,
// and cache publication. One call, one finished document.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/singleflight"

	"github.com/cindysoftware/hero/internal/cache"
	"github.com/cindysoftware/hero/internal/catalog"
	"github.com/cindysoftware/hero/internal/dataset"
	"github.com/cindysoftware/hero/internal/generate"
	"github.com/cindysoftware/hero/internal/worksheet"
)

// Service produces worksheets. Callers in the same process requesting
// the same fingerprint share one build; cross-process exclusion comes
// from the cache store's build locks.
type Service struct {
	catalogs *catalog.Set
	codec    *worksheet.Codec
	datasets *dataset.Loader
	cache    *cache.Store
	adapter  generate.Adapter
	logger   *slog.Logger

	group singleflight.Group
}

// Config collects the service's collaborators.
type Config struct {
	Catalogs *catalog.Set
	Datasets *dataset.Loader
	Cache    *cache.Store
	Adapter  generate.Adapter
	Logger   *slog.Logger
}

// New creates a Service.
func New(cfg Config) *Service {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		catalogs: cfg.Catalogs,
		codec:    worksheet.NewCodec(cfg.Catalogs),
		datasets: cfg.Datasets,
		cache:    cfg.Cache,
		adapter:  cfg.Adapter,
		logger:   logger,
	}
}

// Result is a produced worksheet. Cached reports whether it was served
// from the cache rather than built on this call.
type Result struct {
	Document    *worksheet.Document
	WorksheetID string
	Cached      bool
}

// Generate returns the finished document for a request, building and
// caching it on first demand. When pres is non-nil its template strings
// are interpolated against the document and attached to the returned
// copy; presentation never affects what is generated or cached.
func (s *Service) Generate(ctx context.Context, req worksheet.Request, pres *worksheet.Presentation) (*Result, error) {
	id, err := s.codec.Encode(req)
	if err != nil {
		return nil, err
	}
	fp := req.Fingerprint()

	v, err, shared := s.group.Do(fp.Key(), func() (any, error) {
		return s.build(ctx, req, id, fp)
	})
	if err != nil {
		return nil, err
	}

	built := v.(*Result)
	res := &Result{
		Document:    built.Document,
		WorksheetID: built.WorksheetID,
		// A caller that joined an in-flight build did not pay for it
		// either, which is what Cached reports.
		Cached: built.Cached || shared,
	}

	if pres != nil {
		doc := res.Document.Clone()
		vars := worksheet.DocumentVariables(doc, s.catalogs)
		interpolated := worksheet.InterpolatePresentation(*pres, vars)
		if interpolated.Section == 0 {
			interpolated.Section = doc.Section
		}
		doc.Presentation = &interpolated
		res.Document = doc
	}
	return res, nil
}

func (s *Service) build(ctx context.Context, req worksheet.Request, id string, fp worksheet.Fingerprint) (*Result, error) {
	if doc, ok, err := s.cache.Lookup(fp); err != nil {
		return nil, err
	} else if ok {
		s.logger.Debug("cache hit", "worksheet_id", id)
		return &Result{Document: doc, WorksheetID: id, Cached: true}, nil
	}

	unlock, err := s.cache.LockBuild(ctx, fp)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := unlock(); err != nil {
			s.logger.Warn("failed to release build lock", "worksheet_id", id, "error", err)
		}
	}()

	// Another process may have finished the build while we waited.
	if doc, ok, err := s.cache.Lookup(fp); err != nil {
		return nil, err
	} else if ok {
		s.logger.Debug("cache hit after lock wait", "worksheet_id", id)
		return &Result{Document: doc, WorksheetID: id, Cached: true}, nil
	}

	s.logger.Info("building worksheet",
		"worksheet_id", id,
		"source_dataset", req.SourceDataset,
		"section", req.Section,
		"model", req.Model)

	section, err := s.datasets.LoadSection(req.SourceDataset, req.Section)
	if err != nil {
		return nil, fmt.Errorf("loading section %d of %s: %w", req.Section, req.SourceDataset, err)
	}

	doc, err := worksheet.Expand(req, id, section.Entries)
	if err != nil {
		return nil, err
	}

	result, err := s.adapter.Generate(ctx, doc)
	if err != nil {
		return nil, err
	}
	if err := worksheet.Reconcile(doc, result); err != nil {
		return nil, fmt.Errorf("reconciling generation response for %s: %w", id, err)
	}

	if err := s.cache.Store(fp, doc); err != nil {
		return nil, err
	}
	s.logger.Info("worksheet cached", "worksheet_id", id, "path", s.cache.Path(fp))

	return &Result{Document: doc, WorksheetID: id, Cached: false}, nil
}

// Resolve decodes a worksheet id back into the request it encodes.
func (s *Service) Resolve(id string) (worksheet.Request, error) {
	decoded, err := s.codec.Decode(id)
	if err != nil {
		return worksheet.Request{}, err
	}
	return decoded.Request(), nil
}

// Lookup fetches a cached document by worksheet id without building.
func (s *Service) Lookup(id string) (*worksheet.Document, bool, error) {
	decoded, err := s.codec.Decode(id)
	if err != nil {
		return nil, false, err
	}
	return s.cache.Lookup(decoded.Request().Fingerprint())
}

// EncodeID returns the worksheet id for a request without building.
func (s *Service) EncodeID(req worksheet.Request) (string, error) {
	return s.codec.Encode(req)
}
