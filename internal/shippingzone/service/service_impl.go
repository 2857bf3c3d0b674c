package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/smallbiznis/storefront/internal/clock"
	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
	"github.com/smallbiznis/storefront/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Repository zonedomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  zonedomain.Repository
}

func NewService(p ServiceParam) zonedomain.Service {
	return &service{
		log:   p.Log,
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repository,
	}
}

func (s *service) Create(ctx context.Context, req zonedomain.CreateRequest) (*zonedomain.Response, error) {
	countries, err := normalizeCountries(req.Countries)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	zone := &zonedomain.ShippingZone{
		ID:           s.genID.Generate(),
		Name:         strings.TrimSpace(req.Name),
		Slug:         slug.Make(req.Name),
		Countries:    datatypes.NewJSONType(countries),
		ShippingCost: req.ShippingCost,
		IsDefault:    req.IsDefault,
		IsActive:     true,
		Priority:     req.Priority,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	if err := zone.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, zone, zone.IsDefault); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, zonedomain.ErrDuplicateSlug
		}
		return nil, err
	}

	s.log.Info("shipping zone created",
		zap.String("zone_id", zone.ID.String()),
		zap.String("slug", zone.Slug),
		zap.Bool("is_default", zone.IsDefault),
	)
	return toResponse(zone), nil
}

func (s *service) Get(ctx context.Context, id string) (*zonedomain.Response, error) {
	zoneID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, zonedomain.ErrInvalidID
	}

	zone, err := s.repo.FindByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, zonedomain.ErrNotFound
	}
	return toResponse(zone), nil
}

func (s *service) List(ctx context.Context, req zonedomain.ListRequest) ([]zonedomain.Response, error) {
	zones, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]zonedomain.Response, 0, len(zones))
	for i := range zones {
		out = append(out, *toResponse(&zones[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, req zonedomain.UpdateRequest) (*zonedomain.Response, error) {
	zoneID, err := snowflake.ParseString(req.ID)
	if err != nil {
		return nil, zonedomain.ErrInvalidID
	}

	zone, err := s.repo.FindByID(ctx, zoneID)
	if err != nil {
		return nil, err
	}
	if zone == nil {
		return nil, zonedomain.ErrNotFound
	}

	if req.Name != nil {
		zone.Name = strings.TrimSpace(*req.Name)
		zone.Slug = slug.Make(zone.Name)
	}
	if req.Countries != nil {
		countries, err := normalizeCountries(*req.Countries)
		if err != nil {
			return nil, err
		}
		zone.Countries = datatypes.NewJSONType(countries)
	}
	if req.ShippingCost != nil {
		zone.ShippingCost = *req.ShippingCost
	}
	if req.IsDefault != nil {
		zone.IsDefault = *req.IsDefault
	}
	if req.IsActive != nil {
		zone.IsActive = *req.IsActive
	}
	if req.Priority != nil {
		zone.Priority = *req.Priority
	}
	zone.UpdatedAt = s.clock.Now()

	if err := zone.Validate(); err != nil {
		return nil, err
	}

	becameDefault := req.IsDefault != nil && *req.IsDefault
	if err := s.repo.Update(ctx, zone, becameDefault); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, zonedomain.ErrDuplicateSlug
		}
		return nil, err
	}
	return toResponse(zone), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	zoneID, err := snowflake.ParseString(id)
	if err != nil {
		return zonedomain.ErrInvalidID
	}

	zone, err := s.repo.FindByID(ctx, zoneID)
	if err != nil {
		return err
	}
	if zone == nil {
		return zonedomain.ErrNotFound
	}

	if err := s.repo.Delete(ctx, zoneID); err != nil {
		return err
	}
	s.log.Info("shipping zone deleted", zap.String("zone_id", id))
	return nil
}

// normalizeCountries resolves mixed code and display-name input to
// alpha-2 codes, rejecting entries it cannot map.
func normalizeCountries(raw []string) ([]string, error) {
	out := make([]string, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for _, entry := range raw {
		if strings.TrimSpace(entry) == "" {
			continue
		}
		code, ok := zonedomain.NormalizeCountry(entry)
		if !ok {
			return nil, zonedomain.ErrInvalidCountry
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out, nil
}

func toResponse(zone *zonedomain.ShippingZone) *zonedomain.Response {
	return &zonedomain.Response{
		ID:           zone.ID.String(),
		Name:         zone.Name,
		Slug:         zone.Slug,
		Countries:    zone.CountryCodes(),
		ShippingCost: zone.ShippingCost,
		IsDefault:    zone.IsDefault,
		IsActive:     zone.IsActive,
		Priority:     zone.Priority,
		CreatedAt:    zone.CreatedAt,
		UpdatedAt:    zone.UpdatedAt,
	}
}
