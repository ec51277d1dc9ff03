package server

import (
	"encoding/json"
	"net/http"
	"strings"

	resourcedomain "github.com/agrihub/fieldbill/internal/resource/domain"
	"github.com/gin-gonic/gin"
)

type createResourceRequest struct {
	Name       string       `json:"name"`
	HourlyRate *json.Number `json:"hourlyRate"`
}

func (s *Server) ListResources(c *gin.Context) {
	resp, err := s.resourceSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) CreateResource(c *gin.Context) {
	var req createResourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	createReq := resourcedomain.CreateRequest{
		Name: strings.TrimSpace(req.Name),
	}
	if req.HourlyRate != nil {
		createReq.HourlyRate = req.HourlyRate.String()
	}

	resp, err := s.resourceSvc.Create(c.Request.Context(), createReq)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"resourceId": resp.ID,
	})
}

func (s *Server) DeleteResource(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	if err := s.resourceSvc.Delete(c.Request.Context(), id); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
