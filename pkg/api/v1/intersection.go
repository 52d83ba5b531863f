package v1

import (
	"net/http"
	"strconv"

	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/gin-gonic/gin"
)

// IntersectionResponse mirrors the hunkdep.HunkRange values overlapping a
// queried line range, in path order.
type IntersectionResponse struct {
	Ranges []hunkdep.HunkRange `json:"ranges"`
}

// Intersection handles GET /v1/stacks/:stackID/paths/*path/intersection,
// with ?start= and ?lines= query parameters. lines defaults to 0, a point
// query at start.
func (h *Handlers) Intersection(c *gin.Context) {
	stackID, err := ids.ParseStackID(c.Param("stackID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path := trimPathParam(c.Param("path"))

	start, err := parseUint32Query(c, "start", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	lines, err := parseUint32Query(c, "lines", 0)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ranges, err := h.Tracker.Intersection(c.Request.Context(), stackID, path, start, lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, IntersectionResponse{Ranges: ranges})
}

func parseUint32Query(c *gin.Context, key string, def uint32) (uint32, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint32(v), nil
}
