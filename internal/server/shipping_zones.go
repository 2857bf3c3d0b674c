package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	zonedomain "github.com/smallbiznis/storefront/internal/shippingzone/domain"
)

type createShippingZoneRequest struct {
	Name         string   `json:"name"`
	Countries    []string `json:"countries"`
	ShippingCost float64  `json:"shipping_cost"`
	IsDefault    bool     `json:"is_default"`
	IsActive     *bool    `json:"is_active"`
	Priority     int      `json:"priority"`
}

func (s *Server) CreateShippingZone(c *gin.Context) {
	var req createShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.zoneSvc.Create(c.Request.Context(), zonedomain.CreateRequest{
		Name:         strings.TrimSpace(req.Name),
		Countries:    req.Countries,
		ShippingCost: req.ShippingCost,
		IsDefault:    req.IsDefault,
		IsActive:     req.IsActive,
		Priority:     req.Priority,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetShippingZone(c *gin.Context) {
	resp, err := s.zoneSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListShippingZones(c *gin.Context) {
	var req zonedomain.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.zoneSvc.List(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateShippingZoneRequest struct {
	Name         *string   `json:"name,omitempty"`
	Countries    *[]string `json:"countries,omitempty"`
	ShippingCost *float64  `json:"shipping_cost,omitempty"`
	IsDefault    *bool     `json:"is_default,omitempty"`
	IsActive     *bool     `json:"is_active,omitempty"`
	Priority     *int      `json:"priority,omitempty"`
}

func (s *Server) UpdateShippingZone(c *gin.Context) {
	var req updateShippingZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.zoneSvc.Update(c.Request.Context(), zonedomain.UpdateRequest{
		ID:           c.Param("id"),
		Name:         req.Name,
		Countries:    req.Countries,
		ShippingCost: req.ShippingCost,
		IsDefault:    req.IsDefault,
		IsActive:     req.IsActive,
		Priority:     req.Priority,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteShippingZone(c *gin.Context) {
	if err := s.zoneSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}
