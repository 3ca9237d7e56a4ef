package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
	"github.com/mherrera/rodeo/internal/service/query"
)

func stockCriteria(c *gin.Context) query.StockCriteria {
	return query.StockCriteria{
		Search:     c.Query("search"),
		Category:   c.Query("category"),
		Condition:  models.ConditionGrade(c.Query("condition")),
		LotID:      c.Query("lot"),
		SupplierID: c.Query("supplier"),
		CarrierID:  c.Query("carrier"),
		EntryFrom:  queryDate(c, "entry_from"),
		EntryTo:    queryDate(c, "entry_to"),
		WeightMin:  queryFloat(c, "weight_min"),
		WeightMax:  queryFloat(c, "weight_max"),
	}
}

// Stock returns the filtered stock view of the in-field herd.
func (a *API) Stock(c *gin.Context) {
	views, err := a.herd.Stock(c.Request.Context(), stockCriteria(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stock": views, "count": len(views)})
}

// Unassigned returns the in-field animals available to assign to a lot.
func (a *API) Unassigned(c *gin.Context) {
	animals, err := a.herd.Unassigned(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"animals": animals, "count": len(animals)})
}

// Summary returns the population weight summary for the filtered herd.
func (a *API) Summary(c *gin.Context) {
	summary, err := a.herd.Summary(c.Request.Context(), stockCriteria(c))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}
