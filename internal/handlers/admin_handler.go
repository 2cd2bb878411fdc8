package handlers

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixlyhq/fixly-api/internal/store"
)

// ListClients returns all client accounts for the admin dashboard.
func (h *Handler) ListClients(c *gin.Context) {
	clients, err := h.Clients.List(c.Request.Context())
	if err != nil {
		log.Printf("ListClients: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve clients"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(clients), "clients": clients})
}

// ListProviders returns all provider accounts for the admin dashboard.
func (h *Handler) ListProviders(c *gin.Context) {
	providers, err := h.Providers.List(c.Request.Context())
	if err != nil {
		log.Printf("ListProviders: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve providers"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"results": len(providers), "providers": providers})
}

var providerStatuses = map[string]bool{
	"pending":   true,
	"approved":  true,
	"suspended": true,
}

// UpdateProviderStatus moves a provider between pending, approved and
// suspended.
func (h *Handler) UpdateProviderStatus(c *gin.Context) {
	providerID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid provider ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !providerStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	if err := h.Providers.UpdateStatus(c.Request.Context(), providerID, req.Status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		log.Printf("UpdateProviderStatus: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update provider status"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Provider status updated successfully"})
}
