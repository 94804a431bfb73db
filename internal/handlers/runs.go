package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"geothermal_cycles/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	errFromInvalid = "invalid 'from' time; use RFC3339 or YYYY-MM-DD"
	errToInvalid   = "invalid 'to' time; use RFC3339 or YYYY-MM-DD"
	errListRuns    = "failed to load runs"
	errGetRun      = "failed to load run"
	errGetSummary  = "failed to load summary"

	layoutDateTime = "2006-01-02 15:04:05"
	layoutDate     = "2006-01-02"
)

// isDateOnly reports whether the query string represents a date without time component.
func isDateOnly(s string) bool {
	return !strings.ContainsAny(s, "T ")
}

// @Summary      List solve runs
// @Description  Filter runs by date (RFC3339, 'YYYY-MM-DD HH:MM:SS', or 'YYYY-MM-DD') and status. A date-only 'to' covers the whole day. Profiles are omitted; fetch a single run for its profile.
// @Tags         runs
// @Produce      json
// @Param        from    query     string  false  "Start of range"  example(2026-08-01)
// @Param        to      query     string  false  "End of range. Date-only treated as end of day."  example(2026-08-31)
// @Param        status  query     string  false  "Run status"  Enums(ok,failed)
// @Success      200     {object}  map[string]interface{}  "count, runs"
// @Failure      400     {object}  map[string]string
// @Failure      401     {object}  map[string]string
// @Failure      500     {object}  map[string]string
// @Router       /api/v1/runs [get]
// @Security     BearerAuth
func (h *Handler) listRuns(c *gin.Context) {
	var (
		from   time.Time
		to     time.Time
		status = strings.ToLower(strings.TrimSpace(c.Query("status")))
		err    error
	)
	if qs := c.Query("from"); qs != "" {
		from, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errFromInvalid})
			return
		}
	}
	if qs := c.Query("to"); qs != "" {
		to, err = parseQueryTime(qs)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": errToInvalid})
			return
		}
		if isDateOnly(qs) {
			to = to.Add(24*time.Hour - time.Nanosecond).UTC()
		}
	}
	if !from.IsZero() && !to.IsZero() && from.After(to) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'from' must be <= 'to'"})
		return
	}
	switch status {
	case "", "ok", "failed":
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "'status' must be ok or failed"})
		return
	}

	runs, err := h.services.RunLog.ListRuns(c.Request.Context(), service.RunFilter{
		From:   from,
		To:     to,
		Status: status,
	})
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errListRuns, "runs_list_failed", err,
			"from", from, "to", to, "status", status)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"count": len(runs),
		"runs":  runs,
	})
}

// @Summary      Get one solve run
// @Tags         runs
// @Produce      json
// @Param        id   path      string  true  "Run id"
// @Success      200  {object}  models.SolveRecord
// @Failure      401  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/{id} [get]
// @Security     BearerAuth
func (h *Handler) getRun(c *gin.Context) {
	id := c.Param("id")
	rec, err := h.services.RunLog.GetRun(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		h.logAndJSONError(c, http.StatusInternalServerError, errGetRun, "runs_get_failed", err, "id", id)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// @Summary      Solve statistics
// @Tags         runs
// @Produce      json
// @Success      200  {object}  models.RunSummary
// @Failure      401  {object}  map[string]string
// @Failure      500  {object}  map[string]string
// @Router       /api/v1/runs/summary [get]
// @Security     BearerAuth
func (h *Handler) getSummary(c *gin.Context) {
	sum, err := h.services.Summary.GetSummary(c.Request.Context())
	if err != nil {
		h.logAndJSONError(c, http.StatusInternalServerError, errGetSummary, "runs_summary_failed", err)
		return
	}
	c.JSON(http.StatusOK, sum)
}

func parseQueryTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, layoutDateTime, layoutDate} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf(
		"invalid time format %q, expected one of: "+
			"RFC3339 (e.g. 2026-08-27T15:04:05Z), "+
			"'YYYY-MM-DD HH:MM:SS', "+
			"'YYYY-MM-DD'",
		s,
	)
}
