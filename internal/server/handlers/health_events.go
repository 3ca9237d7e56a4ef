package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/service/query"
)

// AddHealthEvent appends an entry to an animal's health log.
func (a *API) AddHealthEvent(c *gin.Context) {
	var event models.HealthEvent
	if err := c.ShouldBindJSON(&event); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.AddHealthEvent(c.Request.Context(), event)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// HealthEvents lists health events matching the query-parameter criteria.
func (a *API) HealthEvents(c *gin.Context) {
	criteria := query.HealthCriteria{
		AnimalID: c.Query("animal"),
		Type:     models.HealthEventType(c.Query("type")),
		Search:   c.Query("search"),
		From:     queryDate(c, "from"),
		To:       queryDate(c, "to"),
	}

	events, err := a.herd.HealthEvents(c.Request.Context(), criteria)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}
