package handlers

import (
	"errors"
	"net/http"

	"geothermal_cycles/internal/exchanger"
	"geothermal_cycles/internal/service"

	"github.com/gin-gonic/gin"
)

const (
	statusOK = "ok"

	errSolve           = "failed to solve exchanger"
	errInvalidBodyPref = "invalid body: "
)

// Centralized error logging and response.
func (h *Handler) logAndJSONError(c *gin.Context, httpCode int, userMsg, logKey string, err error, kv ...interface{}) {
	if err != nil {
		fields := append([]interface{}{"err", err}, kv...)
		h.log.Errorw(logKey, fields...)
	}
	c.JSON(httpCode, gin.H{"error": userMsg})
}

// solveStatus maps a failure kind to an HTTP status: malformed boundary sets
// are the caller's fault, physically impossible ones are unprocessable.
func solveStatus(kind string) int {
	switch kind {
	case "insufficient_boundary_conditions",
		"overspecified_boundary_conditions",
		"invalid_boundary",
		"unsupported_calculation_mode":
		return http.StatusBadRequest
	case "temperature_crossing",
		"pinch_infeasible",
		"pinch_violation",
		"no_convergence",
		"infeasible_state":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// @Summary      Health check
// @Tags         system
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /health [get]
func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": statusOK,
	})
}

// @Summary      Solve a heat exchanger
// @Description  Omitted terminals and an omitted mass_ratio are solved for. Two to four of the five must be given.
// @Description  Boundary errors return 400, physically infeasible problems 422; both still store a failed run.
// @Tags         exchanger
// @Accept       json
// @Produce      json
// @Param        body  body      service.SolveRequest  true  "Boundary conditions"
// @Success      200   {object}  models.SolveRecord
// @Failure      400   {object}  map[string]interface{}
// @Failure      401   {object}  map[string]string
// @Failure      422   {object}  map[string]interface{}
// @Failure      500   {object}  map[string]string
// @Router       /api/v1/exchanger/solve [post]
// @Security     BearerAuth
func (h *Handler) solve(c *gin.Context) {
	var req service.SolveRequest
	if ok := h.bindJSONOrBadRequest(c, &req); !ok {
		return
	}

	rec, err := h.services.Exchanger.Solve(c.Request.Context(), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, rec)
	case errors.Is(err, service.ErrInvalidRequest):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case rec.ID != "":
		kind := exchanger.Kind(err)
		c.JSON(solveStatus(kind), gin.H{
			"error": err.Error(),
			"kind":  kind,
			"run":   rec,
		})
	default:
		h.logAndJSONError(c, http.StatusInternalServerError, errSolve, "exchanger_solve_failed", err)
	}
}

// @Summary      List reference fluids
// @Tags         exchanger
// @Produce      json
// @Success      200  {object}  map[string]interface{}  "count, fluids"
// @Failure      401  {object}  map[string]string
// @Router       /api/v1/fluids [get]
// @Security     BearerAuth
func (h *Handler) listFluids(c *gin.Context) {
	fluids := h.services.Fluids.ListFluids()
	c.JSON(http.StatusOK, gin.H{
		"count":  len(fluids),
		"fluids": fluids,
	})
}
