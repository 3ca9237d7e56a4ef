package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
)

// CreateAnimal registers a newly acquired animal.
func (a *API) CreateAnimal(c *gin.Context) {
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.CreateAnimal(c.Request.Context(), animal)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetAnimal fetches one animal by id.
func (a *API) GetAnimal(c *gin.Context) {
	animal, err := a.herd.GetAnimal(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, animal)
}

// UpdateAnimal edits an animal's identity fields.
func (a *API) UpdateAnimal(c *gin.Context) {
	var animal models.Animal
	if err := c.ShouldBindJSON(&animal); err != nil {
		a.badRequest(c, err)
		return
	}

	updated, err := a.herd.UpdateAnimal(c.Request.Context(), c.Param("id"), animal)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// SellAnimal transitions an animal to sold.
func (a *API) SellAnimal(c *gin.Context) {
	if err := a.herd.SellAnimal(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// CurrentLot resolves the lot an animal currently sits in.
func (a *API) CurrentLot(c *gin.Context) {
	lot, err := a.herd.CurrentLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	if lot == nil {
		c.JSON(http.StatusOK, gin.H{"lot": nil, "assigned": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"lot": lot, "assigned": true})
}
