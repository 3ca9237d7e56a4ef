// Package handlers adapts the herd container to HTTP. Handlers are thin:
// decode, delegate, encode. Failures come back as
// {"success": false, "error": ...} and no side effect should be assumed
// beyond what the operation states.
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mherrera/rodeo/internal/service/assignment"
	"github.com/mherrera/rodeo/internal/service/herd"
)

const dateLayout = "2006-01-02"

// API holds the handler dependencies.
type API struct {
	herd   *herd.Container
	logger *zap.Logger
}

// NewAPI constructs the HTTP handler adapter.
func NewAPI(container *herd.Container, logger *zap.Logger) *API {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &API{herd: container, logger: logger}
}

func (a *API) fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, herd.ErrValidation),
		errors.Is(err, assignment.ErrNoAnimals),
		errors.Is(err, assignment.ErrMissingLot):
		status = http.StatusBadRequest
	case errors.Is(err, herd.ErrNotFound), errors.Is(err, assignment.ErrLotNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		a.logger.Error("request failed", zap.String("path", c.Request.URL.Path), zap.Error(err))
	}
	c.JSON(status, gin.H{"success": false, "error": err.Error()})
}

func (a *API) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
}

// queryDate parses an optional yyyy-mm-dd (or RFC3339) query parameter.
func queryDate(c *gin.Context, name string) *time.Time {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	if t, err := time.Parse(dateLayout, raw); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t
	}
	return nil
}

// queryFloat parses an optional numeric query parameter.
func queryFloat(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
