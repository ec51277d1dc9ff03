package server

import (
	"net/http"
	"strings"

	signaldomain "github.com/agrihub/fieldbill/internal/signal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type sendSignalRequest struct {
	BillID string `json:"billId"`
	Action string `json:"action"`
}

// SendSignal queues a signal intent for the relay worker. The endpoint is
// rate limited per client when a limiter is configured; limiter outages
// fail open so hardware control never depends on Redis availability.
func (s *Server) SendSignal(c *gin.Context) {
	var req sendSignalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	if s.limiter.Enabled() {
		allowed, err := s.limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			s.log.Warn("signal rate limiter unavailable, allowing request",
				zap.String("client_ip", c.ClientIP()),
				zap.Error(err),
			)
		} else if !allowed {
			AbortWithError(c, errRateLimited)
			return
		}
	}

	resp, err := s.signalSvc.Enqueue(c.Request.Context(), signaldomain.EnqueueRequest{
		BillID: strings.TrimSpace(req.BillID),
		Action: strings.TrimSpace(req.Action),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"billId":  resp.BillID,
		"action":  resp.Action,
	})
}
