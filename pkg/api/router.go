// Package api wires pkg/tracker into an HTTP surface: a gin router with
// the v1 routes for ingesting commits and querying intersections.
package api

import (
	v1 "github.com/benchhq/hunkdep/pkg/api/v1"
	"github.com/benchhq/hunkdep/pkg/logger"
	"github.com/benchhq/hunkdep/pkg/tracker"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter returns a gin.Engine with the full hunkdepd v1 API mounted
// over t.
func NewRouter(t *tracker.Tracker) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger())

	h := &v1.Handlers{Tracker: t}

	g := r.Group("/v1")
	{
		g.POST("/stacks/:stackID/paths/*path", withSuffix(h.AddCommit, "/commits"))
		g.GET("/stacks/:stackID/paths/*path", withSuffix(h.Intersection, "/intersection"))
	}

	return r
}

// withSuffix lets one :stackID/paths/*path prefix serve several distinct
// operations, distinguished by a fixed trailing segment (/commits,
// /intersection) on the wildcard, since gin can't register two wildcard
// routes differing only past the wildcard on the same method+prefix.
func withSuffix(next gin.HandlerFunc, suffix string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := c.Param("path")
		if len(p) < len(suffix) || p[len(p)-len(suffix):] != suffix {
			c.Status(404)
			return
		}
		for i := range c.Params {
			if c.Params[i].Key == "path" {
				c.Params[i].Value = p[:len(p)-len(suffix)]
			}
		}
		next(c)
	}
}

func requestLogger() gin.HandlerFunc {
	log := logger.Named("api")
	return func(c *gin.Context) {
		c.Next()
		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
		)
	}
}
