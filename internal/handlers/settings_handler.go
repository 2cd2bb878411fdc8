package handlers

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

var weekdays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}

// timeRe matches 24-hour HH:MM.
var timeRe = regexp.MustCompile(`^([01]?[0-9]|2[0-3]):[0-5][0-9]$`)

// validateServiceAreas trims each area and rejects empty entries.
func validateServiceAreas(areas []string) ([]string, error) {
	out := make([]string, 0, len(areas))
	for _, a := range areas {
		a = strings.TrimSpace(a)
		if a == "" {
			return nil, errors.New("Invalid service area format")
		}
		out = append(out, a)
	}
	return out, nil
}

// validateWorkHours normalizes a submitted grid: every weekday present,
// available days carry valid HH:MM windows, unavailable days have their
// times cleared.
func validateWorkHours(in models.WorkHours) (models.WorkHours, error) {
	out := make(models.WorkHours, len(weekdays))
	for _, day := range weekdays {
		hours, ok := in[day]
		if !ok {
			out[day] = models.DayHours{Available: false}
			continue
		}
		if !hours.Available {
			out[day] = models.DayHours{Available: false}
			continue
		}
		if !timeRe.MatchString(hours.Start) || !timeRe.MatchString(hours.End) {
			return nil, fmt.Errorf("Invalid time format for %s", day)
		}
		out[day] = models.DayHours{Available: true, Start: hours.Start, End: hours.End}
	}
	return out, nil
}

// settingsView matches the settings page shape.
type settingsView struct {
	ProfileImage       string           `json:"profileImage"`
	FirstName          string           `json:"firstName"`
	LastName           string           `json:"lastName"`
	NickName           string           `json:"nickName"`
	Country            string           `json:"country"`
	Phone              string           `json:"phone"`
	Email              string           `json:"email"`
	Description        string           `json:"description"`
	AdditionalEmails   []string         `json:"additionalEmails"`
	ServiceAreas       []string         `json:"serviceAreas"`
	EmailNotifications bool             `json:"emailNotifications"`
	SMSNotifications   bool             `json:"smsNotifications"`
	BookingAlerts      bool             `json:"bookingAlerts"`
	PromotionAlerts    bool             `json:"promotionAlerts"`
	WorkHours          models.WorkHours `json:"workHours"`
}

// GetSettings returns the authenticated provider's settings with defaults
// filled in.
func (h *Handler) GetSettings(c *gin.Context) {
	id, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	provider, err := h.Providers.FindByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
			return
		}
		log.Printf("GetSettings: lookup failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Server error while fetching settings"})
		return
	}

	country := provider.Country
	if country == "" {
		country = "United States"
	}
	workHours := provider.WorkHours
	if workHours == nil {
		workHours = models.DefaultWorkHours()
	}
	additionalEmails := provider.AdditionalEmails
	if additionalEmails == nil {
		additionalEmails = []string{}
	}
	serviceAreas := provider.ServiceAreas
	if serviceAreas == nil {
		serviceAreas = []string{}
	}

	c.JSON(http.StatusOK, settingsView{
		ProfileImage:       provider.ProfilePhoto,
		FirstName:          provider.FirstName,
		LastName:           provider.LastName,
		NickName:           provider.NickName,
		Country:            country,
		Phone:              provider.Phone,
		Email:              provider.Email,
		Description:        provider.Bio,
		AdditionalEmails:   additionalEmails,
		ServiceAreas:       serviceAreas,
		EmailNotifications: provider.Notifications.Email,
		SMSNotifications:   provider.Notifications.SMS,
		BookingAlerts:      provider.Notifications.BookingAlerts,
		PromotionAlerts:    provider.Notifications.PromotionAlerts,
		WorkHours:          workHours,
	})
}

type updateSettingsRequest struct {
	ProfileImage     string           `json:"profileImage"`
	FirstName        string           `json:"firstName"`
	LastName         string           `json:"lastName"`
	NickName         string           `json:"nickName"`
	Country          string           `json:"country"`
	Phone            string           `json:"phone"`
	Description      string           `json:"description"`
	AdditionalEmails []string         `json:"additionalEmails"`
	ServiceAreas     []string         `json:"serviceAreas"`
	WorkHours        models.WorkHours `json:"workHours"`

	EmailNotifications bool `json:"emailNotifications"`
	SMSNotifications   bool `json:"smsNotifications"`
	BookingAlerts      bool `json:"bookingAlerts"`
	PromotionAlerts    bool `json:"promotionAlerts"`

	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// UpdateSettings validates and persists the provider's settings, including
// an optional password change that requires the current password.
func (h *Handler) UpdateSettings(c *gin.Context) {
	id, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	var req updateSettingsRequest
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
	setString(&provider.ProfilePhoto, req.ProfileImage)
	setString(&provider.FirstName, req.FirstName)
	setString(&provider.LastName, req.LastName)
	setString(&provider.NickName, req.NickName)
	setString(&provider.Country, req.Country)
	setString(&provider.Phone, req.Phone)
	setString(&provider.Bio, req.Description)
	if req.AdditionalEmails != nil {
		provider.AdditionalEmails = req.AdditionalEmails
	}

	if req.ServiceAreas != nil {
		areas, err := validateServiceAreas(req.ServiceAreas)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		provider.ServiceAreas = areas
	}

	if req.WorkHours != nil {
		hours, err := validateWorkHours(req.WorkHours)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		provider.WorkHours = hours
	}

	provider.Notifications = models.NotificationPrefs{
		Email:           req.EmailNotifications,
		SMS:             req.SMSNotifications,
		BookingAlerts:   req.BookingAlerts,
		PromotionAlerts: req.PromotionAlerts,
	}

	// Optional password change: all three fields or none.
	if req.CurrentPassword != "" || req.NewPassword != "" || req.ConfirmPassword != "" {
		if req.CurrentPassword == "" || req.NewPassword == "" || req.ConfirmPassword == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "All password fields are required to change the password."})
			return
		}
		if !h.Passwords.Verify(req.CurrentPassword, provider.Password) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Current password is incorrect."})
			return
		}
		if req.NewPassword != req.ConfirmPassword {
			c.JSON(http.StatusBadRequest, gin.H{"error": "New password and confirm password do not match."})
			return
		}
		hashed, err := h.Passwords.Hash(req.NewPassword)
		if err != nil {
			log.Printf("UpdateSettings: hashing failed: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
			return
		}
		provider.Password = hashed
	}

	if err := h.saveProviderProfile(c, id, provider); err != nil {
		log.Printf("UpdateSettings: save failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update settings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Settings updated successfully"})
}

func (h *Handler) saveProviderProfile(c *gin.Context, id primitive.ObjectID, provider *models.Provider) error {
	coll := h.DB.Collection(store.CollProviders)
	_, err := coll.ReplaceOne(c.Request.Context(), bson.M{"_id": id}, provider)
	return err
}
