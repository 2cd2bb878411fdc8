package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

// Every query below is scoped to the authenticated provider, so one
// provider can never read or mutate another's listings.

type serviceRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Price       float64 `json:"price" binding:"required,gte=0"`
	DurationMin int     `json:"durationMin"`
	Active      *bool   `json:"active"`
}

// ListServices returns all of the provider's listings.
func (h *Handler) ListServices(c *gin.Context) {
	providerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	coll := h.DB.Collection(store.CollServices)
	cursor, err := coll.Find(c.Request.Context(), bson.M{"provider": providerID},
		options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve services"})
		return
	}
	defer cursor.Close(c.Request.Context())

	services := make([]models.Service, 0)
	if err := cursor.All(c.Request.Context(), &services); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode services"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": len(services), "services": services})
}

// GetService returns one of the provider's listings.
func (h *Handler) GetService(c *gin.Context) {
	providerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var service models.Service
	coll := h.DB.Collection(store.CollServices)
	err = coll.FindOne(c.Request.Context(), bson.M{"_id": serviceID, "provider": providerID}).Decode(&service)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

// CreateService adds a listing for the provider.
func (h *Handler) CreateService(c *gin.Context) {
	providerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	var req serviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}
	service := models.Service{
		ID:          primitive.NewObjectID(),
		Provider:    providerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		Price:       req.Price,
		DurationMin: req.DurationMin,
		Active:      active,
		CreatedAt:   time.Now().UTC(),
	}

	coll := h.DB.Collection(store.CollServices)
	if _, err := coll.InsertOne(c.Request.Context(), service); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create service"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"service": service})
}

// UpdateService updates one of the provider's listings.
func (h *Handler) UpdateService(c *gin.Context) {
	providerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	var req struct {
		Name        *string  `json:"name,omitempty"`
		Description *string  `json:"description,omitempty"`
		Category    *string  `json:"category,omitempty"`
		Price       *float64 `json:"price,omitempty"`
		DurationMin *int     `json:"durationMin,omitempty"`
		Active      *bool    `json:"active,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	updateFields := bson.M{}
	if req.Name != nil {
		updateFields["name"] = *req.Name
	}
	if req.Description != nil {
		updateFields["description"] = *req.Description
	}
	if req.Category != nil {
		updateFields["category"] = *req.Category
	}
	if req.Price != nil {
		if *req.Price < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must not be negative"})
			return
		}
		updateFields["price"] = *req.Price
	}
	if req.DurationMin != nil {
		updateFields["durationMin"] = *req.DurationMin
	}
	if req.Active != nil {
		updateFields["active"] = *req.Active
	}
	if len(updateFields) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No fields to update"})
		return
	}

	var service models.Service
	coll := h.DB.Collection(store.CollServices)
	err = coll.FindOneAndUpdate(c.Request.Context(),
		bson.M{"_id": serviceID, "provider": providerID},
		bson.M{"$set": updateFields},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&service)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update service"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"service": service})
}

// DeleteService removes one of the provider's listings.
func (h *Handler) DeleteService(c *gin.Context) {
	providerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	serviceID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
		return
	}

	coll := h.DB.Collection(store.CollServices)
	res, err := coll.DeleteOne(c.Request.Context(), bson.M{"_id": serviceID, "provider": providerID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete service"})
		return
	}
	if res.DeletedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
		return
	}

	c.Status(http.StatusNoContent)
}
