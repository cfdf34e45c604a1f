package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dinhchung2102/iuh-facility-management/internal/application/port"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/entity"
	"github.com/dinhchung2102/iuh-facility-management/internal/domain/location"
)

// SuggestionService produces the candidate staff list shown to an approver
type SuggestionService interface {
	SuggestStaffFor(ctx context.Context, reportID int64) (*SuggestionResult, error)
}

// StaffCandidate is one entry of the suggestion list. Tier is empty in
// fallback mode.
type StaffCandidate struct {
	Staff *entity.Staff `json:"staff"`
	Tier  string        `json:"tier,omitempty"`
}

// SuggestionResult is the tagged outcome of a suggestion query: either ranked
// location-owner candidates, or the unfiltered all-active-staff fallback. The
// flag keeps the two cases impossible to confuse.
type SuggestionResult struct {
	Fallback   bool             `json:"fallback"`
	Candidates []StaffCandidate `json:"candidates"`
}

type suggestionServiceImpl struct {
	reportRepo   port.ReportRepository
	assetRepo    port.AssetRepository
	staffRepo    port.StaffRepository
	locationRepo port.LocationRepository
	logger       Logger
}

// NewSuggestionService creates a new SuggestionService
func NewSuggestionService(
	reportRepo port.ReportRepository,
	assetRepo port.AssetRepository,
	staffRepo port.StaffRepository,
	locationRepo port.LocationRepository,
	logger Logger,
) SuggestionService {
	return &suggestionServiceImpl{
		reportRepo:   reportRepo,
		assetRepo:    assetRepo,
		staffRepo:    staffRepo,
		locationRepo: locationRepo,
		logger:       logger,
	}
}

// SuggestStaffFor resolves the report's location chain and runs the tiered
// suggestion engine over the staff-location relation. An undetermined
// location or an empty match both degrade to the all-active-staff fallback;
// an audit is never blocked merely because no location owner exists.
func (s *suggestionServiceImpl) SuggestStaffFor(ctx context.Context, reportID int64) (*SuggestionResult, error) {
	report, err := s.reportRepo.GetByID(ctx, reportID)
	if err != nil {
		return nil, fmt.Errorf("get report: %w", err)
	}
	if report == nil {
		return nil, fmt.Errorf("%w: report %d", ErrNotFound, reportID)
	}

	asset, err := s.assetRepo.GetByID(ctx, report.AssetID)
	if err != nil {
		return nil, fmt.Errorf("get asset: %w", err)
	}
	if asset == nil {
		return nil, fmt.Errorf("%w: asset %d", ErrNotFound, report.AssetID)
	}

	chain, err := s.resolveChain(ctx, asset)
	if err != nil {
		if errors.Is(err, location.ErrLocationUndetermined) {
			s.logger.Info("Location undetermined, falling back to all active staff",
				"report_id", reportID, "asset_id", asset.ID)
			return s.fallback(ctx)
		}
		return nil, err
	}

	assignments, err := s.staffRepo.ListAssignments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list assignments: %w", err)
	}

	suggestions := location.Suggest(chain, assignments)
	if suggestions.Fallback {
		s.logger.Info("No location owner matched, falling back to all active staff", "report_id", reportID)
		return s.fallback(ctx)
	}

	candidates := make([]StaffCandidate, 0, len(suggestions.Ranked))
	for _, c := range suggestions.Ranked {
		staff, err := s.staffRepo.GetByID(ctx, c.StaffID)
		if err != nil {
			return nil, fmt.Errorf("get staff: %w", err)
		}
		if staff == nil || !staff.Active {
			// Stale assignment row; skip rather than suggest a dead account
			continue
		}
		candidates = append(candidates, StaffCandidate{Staff: staff, Tier: c.Tier})
	}

	if len(candidates) == 0 {
		return s.fallback(ctx)
	}

	return &SuggestionResult{Candidates: candidates}, nil
}

// resolveChain fetches the location nodes the pure resolver needs
func (s *suggestionServiceImpl) resolveChain(ctx context.Context, asset *entity.Asset) (location.Chain, error) {
	var (
		zone     *entity.Zone
		building *entity.Building
		area     *entity.Area
		err      error
	)

	if asset.ZoneID != nil {
		zone, err = s.locationRepo.GetZone(ctx, *asset.ZoneID)
		if err != nil {
			return nil, fmt.Errorf("get zone: %w", err)
		}
		if zone != nil {
			building, err = s.locationRepo.GetBuilding(ctx, zone.BuildingID)
			if err != nil {
				return nil, fmt.Errorf("get building: %w", err)
			}
		}
	}
	if asset.AreaID != nil {
		area, err = s.locationRepo.GetArea(ctx, *asset.AreaID)
		if err != nil {
			return nil, fmt.Errorf("get area: %w", err)
		}
	}

	return location.ResolveChain(asset, zone, building, area)
}

func (s *suggestionServiceImpl) fallback(ctx context.Context) (*SuggestionResult, error) {
	staffs, err := s.staffRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list active staff: %w", err)
	}

	candidates := make([]StaffCandidate, 0, len(staffs))
	for _, st := range staffs {
		candidates = append(candidates, StaffCandidate{Staff: st})
	}
	return &SuggestionResult{Fallback: true, Candidates: candidates}, nil
}
