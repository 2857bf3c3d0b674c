package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/storefront/internal/clock"
	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
	pricingdomain "github.com/smallbiznis/storefront/internal/pricing/domain"
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
	Repository coupondomain.Repository
}

type service struct {
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  coupondomain.Repository
}

func NewService(p ServiceParam) coupondomain.Service {
	return &service{
		log:   p.Log,
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repository,
	}
}

func (s *service) Create(ctx context.Context, req coupondomain.CreateRequest) (*coupondomain.Response, error) {
	kind, err := parseKind(req.Kind)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	coupon := &coupondomain.Coupon{
		ID:                 s.genID.Generate(),
		Code:               strings.TrimSpace(req.Code),
		Kind:               kind,
		Amount:             req.Amount,
		Label:              strings.TrimSpace(req.Label),
		Description:        req.Description,
		MinSpend:           req.MinSpend,
		ApplicableProducts: datatypes.NewJSONType(req.ApplicableProducts),
		ExpiryDate:         req.ExpiryDate,
		IsActive:           true,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	if err := coupon.Validate(); err != nil {
		return nil, err
	}

	// Uniqueness is case-insensitive even though the column keeps the
	// merchant's casing.
	existing, err := s.repo.FindByCode(ctx, coupon.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, coupondomain.ErrDuplicateCode
	}

	if err := s.repo.Create(ctx, coupon); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, coupondomain.ErrDuplicateCode
		}
		return nil, err
	}

	s.log.Info("coupon created",
		zap.String("coupon_id", coupon.ID.String()),
		zap.String("code", coupon.Code),
		zap.String("kind", string(coupon.Kind)),
	)
	return toResponse(coupon), nil
}

func (s *service) Get(ctx context.Context, id string) (*coupondomain.Response, error) {
	couponID, err := snowflake.ParseString(id)
	if err != nil {
		return nil, coupondomain.ErrInvalidID
	}

	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, coupondomain.ErrNotFound
	}
	return toResponse(coupon), nil
}

func (s *service) List(ctx context.Context, req coupondomain.ListRequest) ([]coupondomain.Response, error) {
	coupons, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, err
	}

	out := make([]coupondomain.Response, 0, len(coupons))
	for i := range coupons {
		out = append(out, *toResponse(&coupons[i]))
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, req coupondomain.UpdateRequest) (*coupondomain.Response, error) {
	couponID, err := snowflake.ParseString(req.ID)
	if err != nil {
		return nil, coupondomain.ErrInvalidID
	}

	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		return nil, err
	}
	if coupon == nil {
		return nil, coupondomain.ErrNotFound
	}

	if req.Amount != nil {
		coupon.Amount = *req.Amount
	}
	if req.Label != nil {
		coupon.Label = strings.TrimSpace(*req.Label)
	}
	if req.Description != nil {
		coupon.Description = req.Description
	}
	if req.MinSpend != nil {
		coupon.MinSpend = *req.MinSpend
	}
	if req.ApplicableProducts != nil {
		coupon.ApplicableProducts = datatypes.NewJSONType(*req.ApplicableProducts)
	}
	if req.ClearExpiry {
		coupon.ExpiryDate = nil
	} else if req.ExpiryDate != nil {
		coupon.ExpiryDate = req.ExpiryDate
	}
	if req.IsActive != nil {
		coupon.IsActive = *req.IsActive
	}
	coupon.UpdatedAt = s.clock.Now()

	if err := coupon.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, coupon); err != nil {
		return nil, err
	}
	return toResponse(coupon), nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	couponID, err := snowflake.ParseString(id)
	if err != nil {
		return coupondomain.ErrInvalidID
	}

	coupon, err := s.repo.FindByID(ctx, couponID)
	if err != nil {
		return err
	}
	if coupon == nil {
		return coupondomain.ErrNotFound
	}
	return s.repo.Delete(ctx, couponID)
}

func (s *service) ActiveCatalog(ctx context.Context) ([]pricingdomain.Coupon, error) {
	coupons, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]pricingdomain.Coupon, 0, len(coupons))
	for i := range coupons {
		out = append(out, coupons[i].ToResolverCoupon())
	}
	return out, nil
}

func parseKind(raw string) (pricingdomain.CouponKind, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case string(pricingdomain.CouponPercentage):
		return pricingdomain.CouponPercentage, nil
	case string(pricingdomain.CouponFixed):
		return pricingdomain.CouponFixed, nil
	default:
		return "", coupondomain.ErrInvalidKind
	}
}

func toResponse(coupon *coupondomain.Coupon) *coupondomain.Response {
	return &coupondomain.Response{
		ID:                 coupon.ID.String(),
		Code:               coupon.Code,
		Kind:               string(coupon.Kind),
		Amount:             coupon.Amount,
		Label:              coupon.Label,
		Description:        coupon.Description,
		MinSpend:           coupon.MinSpend,
		ApplicableProducts: coupon.ApplicableProducts.Data(),
		ExpiryDate:         coupon.ExpiryDate,
		IsActive:           coupon.IsActive,
		CreatedAt:          coupon.CreatedAt,
		UpdatedAt:          coupon.UpdatedAt,
	}
}
