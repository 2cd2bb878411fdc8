package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fixlyhq/fixly-api/internal/middleware"
	"github.com/fixlyhq/fixly-api/internal/models"
	"github.com/fixlyhq/fixly-api/internal/store"
)

func callerRole(c *gin.Context) models.Role {
	val, _ := c.Get(middleware.CtxUserRole)
	role, _ := val.(models.Role)
	return role
}

// CreateBooking books a provider service for the authenticated client. The
// confirmation email goes out in the background so it never blocks the
// response.
func (h *Handler) CreateBooking(c *gin.Context) {
	if callerRole(c) != models.RoleClient {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only clients can create bookings."})
		return
	}

	var req struct {
		ProviderID string `json:"providerId" binding:"required"`
		ServiceID  string `json:"serviceId"`
		Service    string `json:"service"`
		StartTime  string `json:"startTime" binding:"required"`
		EndTime    string `json:"endTime" binding:"required"`
		Address    string `json:"address"`
		Notes      string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	startTime, err1 := time.Parse(time.RFC3339, req.StartTime)
	endTime, err2 := time.Parse(time.RFC3339, req.EndTime)
	if err1 != nil || err2 != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid time format, use RFC3339"})
		return
	}
	if !endTime.After(startTime) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "endTime must be after startTime"})
		return
	}

	clientID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}
	providerID, err := primitive.ObjectIDFromHex(req.ProviderID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid provider ID"})
		return
	}

	client, err := h.Clients.FindByID(c.Request.Context(), clientID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not find user details"})
		return
	}

	provider, err := h.Providers.FindByID(c.Request.Context(), providerID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Provider not found"})
		return
	}

	booking := models.Booking{
		ID:         primitive.NewObjectID(),
		ClientID:   clientID,
		ClientName: client.FullName,
		ProviderID: providerID,
		Service:    req.Service,
		Address:    req.Address,
		StartTime:  startTime,
		EndTime:    endTime,
		Notes:      req.Notes,
		Status:     models.BookingPending,
		CreatedAt:  time.Now().UTC(),
	}

	// When a service listing is referenced, resolve it and take its name.
	if req.ServiceID != "" {
		serviceID, err := primitive.ObjectIDFromHex(req.ServiceID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid service ID"})
			return
		}
		var service models.Service
		err = h.DB.Collection(store.CollServices).
			FindOne(c.Request.Context(), bson.M{"_id": serviceID, "provider": providerID}).Decode(&service)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Service not found"})
			return
		}
		booking.ServiceID = service.ID
		booking.Service = service.Name
	}
	if booking.Service == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either serviceId or service is required"})
		return
	}

	coll := h.DB.Collection(store.CollBookings)
	if _, err := coll.InsertOne(c.Request.Context(), booking); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create booking"})
		return
	}

	go h.sendBookingMail(client, provider, &booking, "Booking Confirmed")

	c.JSON(http.StatusCreated, booking)
}

// ListBookings returns bookings visible to the caller: clients see their
// own, providers see bookings against them, admins see everything.
// Supports ?startDate=YYYY-MM-DD&endDate=YYYY-MM-DD&status= filters.
func (h *Handler) ListBookings(c *gin.Context) {
	callerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}

	filter := bson.M{}
	switch callerRole(c) {
	case models.RoleClient:
		filter["clientId"] = callerID
	case models.RoleProvider:
		filter["providerId"] = callerID
	case models.RoleAdmin:
		// no scoping
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	if startDateStr := c.Query("startDate"); startDateStr != "" {
		if startDate, err := time.Parse("2006-01-02", startDateStr); err == nil {
			filter["startTime"] = bson.M{"$gte": startDate}
		}
	}
	if endDateStr := c.Query("endDate"); endDateStr != "" {
		if endDate, err := time.Parse("2006-01-02", endDateStr); err == nil {
			// include the entire end day
			endDate = endDate.Add(23*time.Hour + 59*time.Minute)
			if f, ok := filter["startTime"].(bson.M); ok {
				f["$lte"] = endDate
			} else {
				filter["startTime"] = bson.M{"$lte": endDate}
			}
		}
	}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}

	findOptions := options.Find().SetSort(bson.D{{Key: "startTime", Value: -1}})
	coll := h.DB.Collection(store.CollBookings)
	cursor, err := coll.Find(c.Request.Context(), filter, findOptions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve bookings"})
		return
	}
	defer cursor.Close(c.Request.Context())

	bookings := make([]models.Booking, 0)
	if err := cursor.All(c.Request.Context(), &bookings); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to decode bookings"})
		return
	}

	c.JSON(http.StatusOK, bookings)
}

var bookingStatuses = map[string]bool{
	models.BookingPending:   true,
	models.BookingConfirmed: true,
	models.BookingCompleted: true,
	models.BookingCancelled: true,
}

// UpdateBookingStatus lets the booked provider or an admin move a booking
// through its lifecycle.
func (h *Handler) UpdateBookingStatus(c *gin.Context) {
	role := callerRole(c)
	if role != models.RoleProvider && role != models.RoleAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	callerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || !bookingStatuses[req.Status] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status"})
		return
	}

	filter := bson.M{"_id": bookingID}
	if role == models.RoleProvider {
		filter["providerId"] = callerID
	}

	coll := h.DB.Collection(store.CollBookings)
	res, err := coll.UpdateOne(c.Request.Context(), filter, bson.M{"$set": bson.M{"status": req.Status}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update booking"})
		return
	}
	if res.MatchedCount == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking updated successfully"})
}

// CancelBooking cancels a booking. Clients can cancel their own; providers
// can cancel bookings against them; admins can cancel any.
func (h *Handler) CancelBooking(c *gin.Context) {
	callerID, ok := h.accountIDFromContext(c)
	if !ok {
		return
	}
	bookingID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid booking ID"})
		return
	}

	filter := bson.M{"_id": bookingID}
	switch callerRole(c) {
	case models.RoleClient:
		filter["clientId"] = callerID
	case models.RoleProvider:
		filter["providerId"] = callerID
	case models.RoleAdmin:
	default:
		c.JSON(http.StatusForbidden, gin.H{"error": "Permission denied."})
		return
	}

	coll := h.DB.Collection(store.CollBookings)

	var booking models.Booking
	if err := coll.FindOne(c.Request.Context(), filter).Decode(&booking); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Booking not found"})
		return
	}

	_, err = coll.UpdateOne(c.Request.Context(), bson.M{"_id": bookingID},
		bson.M{"$set": bson.M{"status": models.BookingCancelled}})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to cancel booking"})
		return
	}

	// Notify the client about the cancellation, best effort.
	if client, err := h.Clients.FindByID(c.Request.Context(), booking.ClientID); err == nil {
		if provider, err := h.Providers.FindByID(c.Request.Context(), booking.ProviderID); err == nil {
			booking.Status = models.BookingCancelled
			go h.sendBookingMail(client, provider, &booking, "Booking Cancelled")
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "Booking cancelled successfully"})
}

func (h *Handler) sendBookingMail(client *models.Client, provider *models.Provider, booking *models.Booking, subject string) {
	if !provider.Notifications.BookingAlerts && booking.Status != models.BookingCancelled {
		return
	}
	body := fmt.Sprintf(`<h3>Hello %s,</h3>
<p>%s: <strong>%s</strong> with %s on %s.</p>
<p>Status: %s</p>`,
		client.FullName, subject, booking.Service, provider.FullName(),
		booking.StartTime.Format("Jan 2 at 3:04 PM"), booking.Status)

	if err := h.Mailer.Send(client.Email, subject, body); err != nil {
		log.Printf("booking mail to %s failed: %v", client.Email, err)
	}
}
