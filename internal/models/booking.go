package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Booking statuses.
const (
	BookingPending   = "Pending"
	BookingConfirmed = "Confirmed"
	BookingCompleted = "Completed"
	BookingCancelled = "Cancelled"
)

// Booking is a client's appointment with a provider for one of the
// provider's listed services.
type Booking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID   primitive.ObjectID `bson:"clientId" json:"clientId"`
	ClientName string             `bson:"clientName" json:"clientName"`
	ProviderID primitive.ObjectID `bson:"providerId" json:"providerId"`
	ServiceID  primitive.ObjectID `bson:"serviceId,omitempty" json:"serviceId,omitempty"`
	Service    string             `bson:"service" json:"service"`
	Address    string             `bson:"address,omitempty" json:"address,omitempty"`
	StartTime  time.Time          `bson:"startTime" json:"startTime"`
	EndTime    time.Time          `bson:"endTime" json:"endTime"`
	Notes      string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}
