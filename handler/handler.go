package handler

import (
	"net/http"
	"time"

	"cloud.google.com/go/civil"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"youtube-snapshot/service"
)

type ServiceDependencies struct {
	Pipeline service.Service
}

// SnapshotHandler runs the daily pipeline for today's date. Only
// catalog-stage failures produce a 5xx; analytics errors ride along in
// the 200 summary.
func SnapshotHandler(deps ServiceDependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		snapshotDate := civil.DateOf(time.Now().UTC())

		summary, err := deps.Pipeline.Run(ctx, snapshotDate)
		if err != nil {
			zerolog.Ctx(ctx).Error().Err(err).Msg("pipeline run failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, summary)
	}
}
