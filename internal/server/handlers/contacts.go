package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mherrera/rodeo/internal/domain/models"
)

// Suppliers lists every supplier.
func (a *API) Suppliers(c *gin.Context) {
	suppliers, err := a.herd.Suppliers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"suppliers": suppliers, "count": len(suppliers)})
}

// CreateSupplier registers a supplier.
func (a *API) CreateSupplier(c *gin.Context) {
	var supplier models.Supplier
	if err := c.ShouldBindJSON(&supplier); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.CreateSupplier(c.Request.Context(), supplier)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteSupplier removes a supplier record.
func (a *API) DeleteSupplier(c *gin.Context) {
	if err := a.herd.DeleteSupplier(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// Carriers lists every carrier.
func (a *API) Carriers(c *gin.Context) {
	carriers, err := a.herd.Carriers(c.Request.Context())
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"carriers": carriers, "count": len(carriers)})
}

// CreateCarrier registers a carrier.
func (a *API) CreateCarrier(c *gin.Context) {
	var carrier models.Carrier
	if err := c.ShouldBindJSON(&carrier); err != nil {
		a.badRequest(c, err)
		return
	}

	created, err := a.herd.CreateCarrier(c.Request.Context(), carrier)
	if err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

// DeleteCarrier removes a carrier record.
func (a *API) DeleteCarrier(c *gin.Context) {
	if err := a.herd.DeleteCarrier(c.Request.Context(), c.Param("id")); err != nil {
		a.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
