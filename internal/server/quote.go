package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	quotedomain "github.com/smallbiznis/storefront/internal/quote/domain"
)

type cartItemRequest struct {
	ProductID        string   `json:"product_id"`
	Quantity         int      `json:"quantity"`
	UnitPrice        float64  `json:"unit_price"`
	ShippingOverride *float64 `json:"shipping_override"`
}

type estimateShippingRequest struct {
	CountryCode string            `json:"country_code"`
	Items       []cartItemRequest `json:"items"`
}

func (s *Server) EstimateShipping(c *gin.Context) {
	var req estimateShippingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.EstimateShipping(c.Request.Context(), quotedomain.EstimateRequest{
		CountryCode: strings.TrimSpace(req.CountryCode),
		Items:       toCartItems(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type quoteRequest struct {
	CountryCode string            `json:"country_code"`
	CouponCode  string            `json:"coupon_code"`
	Items       []cartItemRequest `json:"items"`
}

func (s *Server) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.quoteSvc.Quote(c.Request.Context(), quotedomain.QuoteRequest{
		CountryCode: strings.TrimSpace(req.CountryCode),
		CouponCode:  strings.TrimSpace(req.CouponCode),
		Items:       toCartItems(req.Items),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func toCartItems(items []cartItemRequest) []quotedomain.CartItem {
	out := make([]quotedomain.CartItem, 0, len(items))
	for _, it := range items {
		out = append(out, quotedomain.CartItem{
			ProductID:        strings.TrimSpace(it.ProductID),
			Quantity:         it.Quantity,
			UnitPrice:        it.UnitPrice,
			ShippingOverride: it.ShippingOverride,
		})
	}
	return out
}
