package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Service is an offering listed by a provider. Every query on the services
// collection is scoped to the owning provider.
type Service struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Provider    primitive.ObjectID `bson:"provider" json:"provider"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Category    string             `bson:"category,omitempty" json:"category,omitempty"`
	Price       float64            `bson:"price" json:"price"`
	DurationMin int                `bson:"durationMin,omitempty" json:"durationMin,omitempty"`
	Active      bool               `bson:"active" json:"active"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
