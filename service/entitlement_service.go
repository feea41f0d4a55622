// service/entitlement_service.go
package service

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	logger "github.com/assetops/entitlements/logging"
	"github.com/assetops/entitlements/model"
	"github.com/assetops/entitlements/normalize"
)

// Fetcher is the narrow client surface the service depends on; the dell
// client satisfies it, tests stub it.
type Fetcher interface {
	Fetch(ctx context.Context, tag string) (json.RawMessage, error)
}

// IEntitlementService is the fetch+normalize pipeline exposed to the HTTP
// and CLI front ends.
type IEntitlementService interface {
	CheckServiceTag(ctx context.Context, tag string) (model.WarrantySummary, error)
	EntitlementRecords(ctx context.Context, tag string) ([]model.Record, error)
	RawEntitlements(ctx context.Context, tag string) (json.RawMessage, error)
	ProcessAssets(ctx context.Context, assets []model.Asset, concurrency int) []model.Record
}

// EntitlementService composes the entitlement client with the normalizer.
type EntitlementService struct {
	fetcher    Fetcher
	normalizer *normalize.Normalizer
}

// NewEntitlementService creates a new instance of EntitlementService
func NewEntitlementService(fetcher Fetcher, normalizer *normalize.Normalizer) *EntitlementService {
	return &EntitlementService{
		fetcher:    fetcher,
		normalizer: normalizer,
	}
}

// RawEntitlements returns the upstream payload for a tag, unmodified.
func (s *EntitlementService) RawEntitlements(ctx context.Context, tag string) (json.RawMessage, error) {
	return s.fetcher.Fetch(ctx, tag)
}

// EntitlementRecords fetches and flattens the entitlement data for a tag.
func (s *EntitlementService) EntitlementRecords(ctx context.Context, tag string) ([]model.Record, error) {
	raw, err := s.fetcher.Fetch(ctx, tag)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Extract(raw), nil
}

// CheckServiceTag returns the condensed warranty view for a tag. When
// upstream data carries no service tag the requested one is back-filled.
func (s *EntitlementService) CheckServiceTag(ctx context.Context, tag string) (model.WarrantySummary, error) {
	records, err := s.EntitlementRecords(ctx, tag)
	if err != nil {
		return model.WarrantySummary{}, err
	}
	if len(records) == 0 {
		return model.WarrantySummary{ServiceTag: tag}, nil
	}
	return model.SummaryFromRecord(records[0], tag), nil
}

// ProcessAssets fetches and flattens entitlements for a list of assets with
// bounded concurrency, attaching each asset's name and warranty metadata to
// its records. Output order follows input order. A failing asset is logged
// and skipped; the batch continues.
func (s *EntitlementService) ProcessAssets(ctx context.Context, assets []model.Asset, concurrency int) []model.Record {
	if concurrency < 1 {
		concurrency = 1
	}

	perAsset := make([][]model.Record, len(assets))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, asset := range assets {
		i, asset := i, asset
		g.Go(func() error {
			records, err := s.EntitlementRecords(gctx, asset.ServiceTag)
			if err != nil {
				logger.Error("Failed to process asset",
					zap.String("name", asset.Name),
					zap.String("serviceTag", asset.ServiceTag),
					zap.Error(err))
				return nil // per-asset failures do not abort the batch
			}
			for _, rec := range records {
				rec["name"] = asset.Name
				rec["warranty"] = asset.Warranty
				rec["acquisition_date"] = asset.AcquisitionDate
				rec["warranty_expiry_date"] = asset.WarrantyExpiryDate
			}
			mu.Lock()
			perAsset[i] = records
			mu.Unlock()

			logger.Debug("Processed asset",
				zap.String("name", asset.Name),
				zap.String("serviceTag", asset.ServiceTag),
				zap.Int("records", len(records)))
			return nil
		})
	}
	_ = g.Wait()

	var all []model.Record
	for _, records := range perAsset {
		all = append(all, records...)
	}
	return all
}
