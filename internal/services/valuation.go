package services

import (
	"context"
	"errors"

	"cartera/internal/core"
	"cartera/internal/storage"
)

// ValuationService resolves asset and liability value snapshots. Two modes:
// an explicit as-of date selects the snapshot for exactly that date (no
// nearest-prior fallback), while a zero date selects the latest known value.
type ValuationService struct {
	storage *storage.SQLiteRepository
}

func NewValuationService(storage *storage.SQLiteRepository) *ValuationService {
	return &ValuationService{storage: storage}
}

// ResolveAssetValue returns the applicable snapshot for an asset.
// core.ErrNotFound means the asset has no snapshot for that date and should
// be omitted from point-in-time reports.
func (s *ValuationService) ResolveAssetValue(ctx context.Context, assetID int64, asOf core.Date) (core.AssetValue, error) {
	if asOf.IsZero() {
		return s.storage.GetLatestAssetValue(ctx, assetID)
	}
	return s.storage.GetAssetValueAt(ctx, assetID, asOf)
}

// ResolveLiabilityValue mirrors ResolveAssetValue for liabilities.
func (s *ValuationService) ResolveLiabilityValue(ctx context.Context, liabilityID int64, asOf core.Date) (core.LiabilityValue, error) {
	if asOf.IsZero() {
		return s.storage.GetLatestLiabilityValue(ctx, liabilityID)
	}
	return s.storage.GetLiabilityValueAt(ctx, liabilityID, asOf)
}

// ResolveLiabilityRate finds the interest rate sharing the liability's start
// date. The second return value is false when no rate is recorded; that is
// an ordinary condition, not an error.
func (s *ValuationService) ResolveLiabilityRate(ctx context.Context, l core.Liability) (core.Interest, bool, error) {
	if l.StartDate.IsZero() {
		return core.Interest{}, false, nil
	}
	i, err := s.storage.GetInterestByStartDate(ctx, l.ID, l.StartDate)
	if errors.Is(err, core.ErrNotFound) {
		return core.Interest{}, false, nil
	}
	if err != nil {
		return core.Interest{}, false, err
	}
	return i, true, nil
}
