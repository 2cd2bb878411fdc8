package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixlyhq/fixly-api/internal/middleware"
)

// profileView is the provider profile without credentials or vetting
// documents.
type profileView struct {
	FirstName    string   `json:"firstName"`
	LastName     string   `json:"lastName"`
	Email        string   `json:"email"`
	Phone        string   `json:"phone"`
	Bio          string   `json:"bio"`
	Services     []string `json:"services"`
	ServiceAreas []string `json:"serviceAreas"`
	Experience   string   `json:"experience"`
	ProfilePhoto string   `json:"profilePhoto"`
	Address      string   `json:"address"`
	City         string   `json:"city"`
	Zip          string   `json:"zip"`
	Country      string   `json:"country"`
	DOB          string   `json:"dob"`
}

func (h *Handler) accountIDFromContext(c *gin.Context) (primitive.ObjectID, bool) {
	idHex, exists := c.Get(middleware.CtxUserID)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idHex.(string))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Invalid user ID in token"})
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetProfile returns the authenticated provider's profile.
func (h *Handler) GetProfile(c *gin.Context) {
	id, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	provider, err := h.Providers.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	c.JSON(http.StatusOK, profileView{
		FirstName:    provider.FirstName,
		LastName:     provider.LastName,
		Email:        provider.Email,
		Phone:        provider.Phone,
		Bio:          provider.Bio,
		Services:     provider.Services,
		ServiceAreas: provider.ServiceAreas,
		Experience:   provider.Experience,
		ProfilePhoto: provider.ProfilePhoto,
		Address:      provider.Address,
		City:         provider.City,
		Zip:          provider.Zip,
		Country:      provider.Country,
		DOB:          provider.DOB,
	})
}

// UpdateProfile merges the provided fields into the provider's profile.
// Empty fields keep their stored values.
func (h *Handler) UpdateProfile(c *gin.Context) {
	id, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	var req struct {
		FirstName    string   `json:"firstName"`
		LastName     string   `json:"lastName"`
		Phone        string   `json:"phone"`
		Bio          string   `json:"bio"`
		Services     []string `json:"services"`
		ServiceAreas []string `json:"serviceAreas"`
		Experience   string   `json:"experience"`
		ProfilePhoto string   `json:"profilePhoto"`
		Address      string   `json:"address"`
		City         string   `json:"city"`
		Zip          string   `json:"zip"`
		Country      string   `json:"country"`
		DOB          string   `json:"dob"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	provider, err := h.Providers.FindByID(c.Request.Context(), id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	setString := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	setString(&provider.FirstName, req.FirstName)
	setString(&provider.LastName, req.LastName)
	setString(&provider.Phone, req.Phone)
	setString(&provider.Bio, req.Bio)
	setString(&provider.Experience, req.Experience)
	setString(&provider.ProfilePhoto, req.ProfilePhoto)
	setString(&provider.Address, req.Address)
	setString(&provider.City, req.City)
	setString(&provider.Zip, req.Zip)
	setString(&provider.Country, req.Country)
	setString(&provider.DOB, req.DOB)
	if req.Services != nil {
		provider.Services = req.Services
	}
	if req.ServiceAreas != nil {
		areas, err := validateServiceAreas(req.ServiceAreas)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		provider.ServiceAreas = areas
	}

	if err := h.saveProviderProfile(c, id, provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile"})
		return
	}

	c.JSON(http.StatusOK, profileView{
		FirstName:    provider.FirstName,
		LastName:     provider.LastName,
		Email:        provider.Email,
		Phone:        provider.Phone,
		Bio:          provider.Bio,
		Services:     provider.Services,
		ServiceAreas: provider.ServiceAreas,
		Experience:   provider.Experience,
		ProfilePhoto: provider.ProfilePhoto,
		Address:      provider.Address,
		City:         provider.City,
		Zip:          provider.Zip,
		Country:      provider.Country,
		DOB:          provider.DOB,
	})
}
