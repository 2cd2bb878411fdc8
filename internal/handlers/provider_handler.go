package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

type ProviderSignupRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Phone     string `json:"phone"`
	DOB       string `json:"dob"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Zip       string `json:"zip"`

	Services     []string `json:"services"`
	Experience   string   `json:"experience"`
	Availability string   `json:"availability"`
	ServiceAreas []string `json:"serviceAreas"`
	Bio          string   `json:"bio"`
	Terms        bool     `json:"terms"`

	// Photo URLs; upload and resizing are handled by a separate service.
	ProfilePhoto string `json:"profilePhoto"`
	IDPhoto      string `json:"idPhoto"`
	SelfiePhoto  string `json:"selfiePhoto"`
}

// missingFields reports which required registration fields were omitted so
// the frontend can highlight them.
func (r *ProviderSignupRequest) missingFields() []string {
	var missing []string
	check := func(name, val string) {
		if val == "" {
			missing = append(missing, name)
		}
	}
	check("firstName", r.FirstName)
	check("lastName", r.LastName)
	check("email", r.Email)
	check("password", r.Password)
	check("phone", r.Phone)
	check("dob", r.DOB)
	check("address", r.Address)
	check("city", r.City)
	check("zip", r.Zip)
	check("experience", r.Experience)
	check("availability", r.Availability)
	check("bio", r.Bio)
	if len(r.Services) == 0 {
		missing = append(missing, "services")
	}
	if len(r.ServiceAreas) == 0 {
		missing = append(missing, "serviceAreas")
	}
	if !r.Terms {
		missing = append(missing, "terms")
	}
	return missing
}

// ProviderSignup is the richer registration flow: full vetting fields, a
// 24-hour verification token, and a pending status until an admin approves
// the account.
func (h *Handler) ProviderSignup(c *gin.Context) {
	var req ProviderSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Invalid request body"})
		return
	}

	if missing := req.missingFields(); len(missing) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"message": "Missing required fields",
			"missing": missing,
		})
		return
	}
	if len(req.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Password must be at least 8 characters"})
		return
	}

	hashed, err := h.Passwords.Hash(req.Password)
	if err != nil {
		log.Printf("ProviderSignup: hashing failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Provider registration failed"})
		return
	}

	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		log.Printf("ProviderSignup: token generation failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Provider registration failed"})
		return
	}

	provider := &models.Provider{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Email:        req.Email,
		Phone:        req.Phone,
		Password:     hashed,
		DOB:          req.DOB,
		Address:      req.Address,
		City:         req.City,
		Zip:          req.Zip,
		Bio:          req.Bio,
		Experience:   req.Experience,
		Services:     req.Services,
		ServiceAreas: req.ServiceAreas,
		ProfilePhoto: req.ProfilePhoto,
		IDPhoto:      req.IDPhoto,
		SelfiePhoto:  req.SelfiePhoto,
		Notifications: models.NotificationPrefs{
			Email:           true,
			BookingAlerts:   true,
			PromotionAlerts: true,
		},
		WorkHours:                models.DefaultWorkHours(),
		Status:                   "pending",
		VerificationToken:        hex.EncodeToString(buf),
		VerificationTokenExpires: time.Now().Add(24 * time.Hour).UnixMilli(),
	}

	if err := h.Providers.Insert(c.Request.Context(), provider); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			c.JSON(http.StatusConflict, gin.H{"success": false, "message": "Email already registered"})
			return
		}
		log.Printf("ProviderSignup: insert failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Provider registration failed"})
		return
	}

	token, err := h.Tokens.Issue(provider.ID.Hex(), provider.Email, models.RoleProvider)
	if err != nil {
		log.Printf("ProviderSignup: token issue failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Provider registration failed"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"token":   token,
		"provider": gin.H{
			"id":           provider.ID.Hex(),
			"fullName":     provider.FullName(),
			"email":        provider.Email,
			"status":       provider.Status,
			"profilePhoto": provider.ProfilePhoto,
		},
	})
}
