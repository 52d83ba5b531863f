// Package v1 holds the hunkdepd HTTP API's v1 handlers: ingest a commit's
// diffs for a path, and query which commits a line range currently
// belongs to.
package v1

import (
	"errors"
	"net/http"

	"github.com/benchhq/hunkdep/pkg/diffparse"
	"github.com/benchhq/hunkdep/pkg/hunkdep"
	"github.com/benchhq/hunkdep/pkg/ids"
	"github.com/benchhq/hunkdep/pkg/tracker"
	"github.com/gin-gonic/gin"
)

// Handlers bundles the tracker every v1 route dispatches into.
type Handlers struct {
	Tracker *tracker.Tracker
}

// AddCommitRequest carries one commit's diff for a single path, either as
// already-parsed hunk headers or as a raw unified diff patch. Patch takes
// precedence when both are set.
type AddCommitRequest struct {
	CommitID string   `json:"commit_id"`
	Headers  []string `json:"hunk_headers,omitempty"`
	Patch    string   `json:"patch,omitempty"`
}

// AddCommit handles POST /v1/stacks/:stackID/paths/*path/commits.
func (h *Handlers) AddCommit(c *gin.Context) {
	stackID, err := ids.ParseStackID(c.Param("stackID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	path := trimPathParam(c.Param("path"))

	var req AddCommitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	commitID, err := ids.ParseCommitID(req.CommitID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	diffs, err := parseDiffs(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.Tracker.Add(c.Request.Context(), stackID, commitID, path, diffs); err != nil {
		status := http.StatusInternalServerError
		switch {
		case errors.Is(err, hunkdep.ErrDuplicateCommit):
			status = http.StatusConflict
		case errors.Is(err, hunkdep.ErrInvalidDiff):
			status = http.StatusUnprocessableEntity
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

func parseDiffs(req AddCommitRequest) ([]hunkdep.InputDiff, error) {
	if req.Patch != "" {
		return diffparse.ParseFileDiff([]byte(req.Patch))
	}

	diffs := make([]hunkdep.InputDiff, 0, len(req.Headers))
	for _, header := range req.Headers {
		d, err := diffparse.ParseHunkHeader(header)
		if err != nil {
			return nil, err
		}
		diffs = append(diffs, d)
	}
	return diffs, nil
}

func trimPathParam(p string) string {
	if len(p) > 0 && p[0] == '/' {
		return p[1:]
	}
	return p
}
