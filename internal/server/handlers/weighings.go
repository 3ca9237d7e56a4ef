package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/service/query"
)

// AddWeighing records a weight measurement.
func (a *API) AddWeighing(c *gin.Context) {
	var weighing models.Weighing
	if err := c.ShouldBindJSON(&weighing); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.AddWeighing(c.Request.Context(), weighing)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// Weighings lists weighings matching the query-parameter criteria.
func (a *API) Weighings(c *gin.Context) {
	criteria := query.WeighingCriteria{
		AnimalID:  c.Query("animal"),
		From:      queryDate(c, "from"),
		To:        queryDate(c, "to"),
		WeightMin: queryFloat(c, "weight_min"),
		WeightMax: queryFloat(c, "weight_max"),
	}

	weighings, err := a.herd.Weighings(c.Request.Context(), criteria)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weighings": weighings, "count": len(weighings)})
}

// WeighingHistory returns an animal's weighings annotated with gain and
// gain/day.
func (a *API) WeighingHistory(c *gin.Context) {
	entries, err := a.herd.WeighingHistory(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"weighings": entries, "count": len(entries)})
}
