package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
)

type assignRequest struct {
	AnimalIDs []string `json:"animal_ids" binding:"required"`
}

// Lots lists every lot.
func (a *API) Lots(c *gin.Context) {
	lots, err := a.herd.Lots(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"lots": lots, "count": len(lots)})
}

// CreateLot adds a new empty lot.
func (a *API) CreateLot(c *gin.Context) {
	var lot models.Lot
	if err := c.ShouldBindJSON(&lot); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.CreateLot(c.Request.Context(), lot)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// UpdateLot edits a lot's descriptive fields.
func (a *API) UpdateLot(c *gin.Context) {
	var lot models.Lot
	if err := c.ShouldBindJSON(&lot); err != nil {
		a.badRequest(c, err)
		return
	}

	updated, err := a.herd.UpdateLot(c.Request.Context(), c.Param("id"), lot)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, updated)
}

// DeleteLot cascades a lot deletion: animals are released first, then the
// historical assignment rows and the lot itself are removed.
func (a *API) DeleteLot(c *gin.Context) {
	released, err := a.herd.DeleteLot(c.Request.Context(), c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "released_animals": released})
}

// AssignToLot moves a batch of animals into the lot.
func (a *API) AssignToLot(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}

	moved, err := a.herd.Assign(c.Request.Context(), req.AnimalIDs, c.Param("id"))
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "moved": moved})
}

// Release drops a batch of animals out of their current lots.
func (a *API) Release(c *gin.Context) {
	var req assignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		a.badRequest(c, err)
		return
	}

	released, err := a.herd.Release(c.Request.Context(), req.AnimalIDs)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "released": released})
}
