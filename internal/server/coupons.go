package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	coupondomain "github.com/smallbiznis/storefront/internal/coupon/domain"
)

type createCouponRequest struct {
	Code               string     `json:"code"`
	Kind               string     `json:"kind"`
	Amount             float64    `json:"amount"`
	Label              string     `json:"label"`
	Description        *string    `json:"description"`
	MinSpend           float64    `json:"min_spend"`
	ApplicableProducts []string   `json:"applicable_products"`
	ExpiryDate         *time.Time `json:"expiry_date"`
	IsActive           *bool      `json:"is_active"`
}

func (s *Server) CreateCoupon(c *gin.Context) {
	var req createCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.couponSvc.Create(c.Request.Context(), coupondomain.CreateRequest{
		Code:               strings.TrimSpace(req.Code),
		Kind:               strings.TrimSpace(req.Kind),
		Amount:             req.Amount,
		Label:              strings.TrimSpace(req.Label),
		Description:        req.Description,
		MinSpend:           req.MinSpend,
		ApplicableProducts: req.ApplicableProducts,
		ExpiryDate:         req.ExpiryDate,
		IsActive:           req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetCoupon(c *gin.Context) {
	resp, err := s.couponSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListCoupons(c *gin.Context) {
	var req coupondomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.couponSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateCouponRequest struct {
	Amount             *float64   `json:"amount,omitempty"`
	Label              *string    `json:"label,omitempty"`
	Description        *string    `json:"description,omitempty"`
	MinSpend           *float64   `json:"min_spend,omitempty"`
	ApplicableProducts *[]string  `json:"applicable_products,omitempty"`
	ExpiryDate         *time.Time `json:"expiry_date,omitempty"`
	ClearExpiry        bool       `json:"clear_expiry,omitempty"`
	IsActive           *bool      `json:"is_active,omitempty"`
}

func (s *Server) UpdateCoupon(c *gin.Context) {
	var req updateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.couponSvc.Update(c.Request.Context(), coupondomain.UpdateRequest{
		ID:                 c.Param("id"),
		Amount:             req.Amount,
		Label:              req.Label,
		Description:        req.Description,
		MinSpend:           req.MinSpend,
		ApplicableProducts: req.ApplicableProducts,
		ExpiryDate:         req.ExpiryDate,
		ClearExpiry:        req.ClearExpiry,
		IsActive:           req.IsActive,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteCoupon(c *gin.Context) {
	if err := s.couponSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
