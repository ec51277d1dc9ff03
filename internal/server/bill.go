package server

import (
	"encoding/json"
	"net/http"
	"strings"

	billdomain "github.com/agrihub/fieldbill/internal/bill/domain"
	"github.com/gin-gonic/gin"
)

type startBillRequest struct {
	OwnerID       string       `json:"ownerId"`
	ResourceName  string       `json:"resourceName"`
	PricePerCount *json.Number `json:"pricePerCount"`
}

type stopBillRequest struct {
	BillID string       `json:"billId"`
	Count  *int64       `json:"count"`
	Cost   *json.Number `json:"cost"`
}

type editBillRequest struct {
	BillID        string       `json:"billId"`
	ElapsedTime   *string      `json:"elapsedTime"`
	Cost          *json.Number `json:"cost"`
	Count         *int64       `json:"count"`
	PricePerCount *json.Number `json:"pricePerCount"`
}

type payBillRequest struct {
	BillID        string `json:"billId"`
	PaymentMethod string `json:"paymentMethod"`
}

type updateCostRequest struct {
	BillID string       `json:"billId"`
	Cost   *json.Number `json:"cost"`
}

func (s *Server) ListBills(c *gin.Context) {
	resp, err := s.billSvc.List(c.Request.Context(), billdomain.ListRequest{
		OwnerID:      strings.TrimSpace(c.Query("owner")),
		ResourceName: strings.TrimSpace(c.Query("resource")),
		Month:        strings.TrimSpace(c.Query("month")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) StartBill(c *gin.Context) {
	var req startBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Start(c.Request.Context(), billdomain.StartRequest{
		OwnerID:       strings.TrimSpace(req.OwnerID),
		ResourceName:  strings.TrimSpace(req.ResourceName),
		PricePerCount: numberPtr(req.PricePerCount),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"billId":        resp.BillID,
		"startTime":     resp.StartTime,
		"isCountBilled": resp.IsCountBilled,
		"pricePerCount": resp.PricePerCount,
	})
}

func (s *Server) StopBill(c *gin.Context) {
	var req stopBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.billSvc.Stop(c.Request.Context(), billdomain.StopRequest{
		BillID:       strings.TrimSpace(req.BillID),
		Count:        req.Count,
		CostOverride: numberPtr(req.Cost),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	out := gin.H{
		"success": true,
		"cost":    resp.Cost,
	}
	if resp.ElapsedTime != nil {
		out["elapsedTime"] = *resp.ElapsedTime
	}
	if resp.Count != nil {
		out["count"] = *resp.Count
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) EditBill(c *gin.Context) {
	var req editBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.billSvc.Edit(c.Request.Context(), billdomain.EditRequest{
		BillID:        strings.TrimSpace(req.BillID),
		ElapsedTime:   req.ElapsedTime,
		Cost:          numberPtr(req.Cost),
		Count:         req.Count,
		PricePerCount: numberPtr(req.PricePerCount),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) PayBill(c *gin.Context) {
	var req payBillRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if err := s.billSvc.Pay(c.Request.Context(), strings.TrimSpace(req.BillID), strings.TrimSpace(req.PaymentMethod)); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) UpdateBillCost(c *gin.Context) {
	var req updateCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if req.Cost == nil {
		AbortWithError(c, billdomain.ErrInvalidCost)
		return
	}

	if err := s.billSvc.UpdateCost(c.Request.Context(), strings.TrimSpace(req.BillID), req.Cost.String()); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) DeleteBillsForOwner(c *gin.Context) {
	ownerID := strings.TrimSpace(c.Param("ownerId"))

	if err := s.billSvc.DeleteAllForOwner(c.Request.Context(), ownerID); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func numberPtr(n *json.Number) *string {
	if n == nil {
		return nil
	}
	v := n.String()
	return &v
}
