package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role identifies which account collection a record lives in. The role is
// fixed at signup and carried explicitly on lookup results; it is never
// inferred from the record shape after the fact.
type Role string

const (
	RoleClient   Role = "client"
	RoleProvider Role = "provider"
	RoleAdmin    Role = "admin"
)

// Client is a customer account in the "users" collection.
type Client struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName    string             `bson:"fullName" json:"fullName"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber" json:"phoneNumber"`
	Password    string             `bson:"password" json:"-"` // bcrypt hash, never the plaintext

	// Recovery fields: either both set or both unset. The expiry is stored
	// as epoch milliseconds so the consume query can compare with $gt.
	ResetPasswordToken  string `bson:"resetPasswordToken,omitempty" json:"-"`
	ResetPasswordExpire int64  `bson:"resetPasswordExpire,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// Provider is a service-provider account in the "providers" collection.
// Providers go through the richer registration flow and start out pending
// until an admin approves them.
type Provider struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FirstName string             `bson:"firstName" json:"firstName"`
	LastName  string             `bson:"lastName" json:"lastName"`
	NickName  string             `bson:"nickName,omitempty" json:"nickName,omitempty"`
	Email     string             `bson:"email" json:"email"`
	Phone     string             `bson:"phone" json:"phone"`
	Password  string             `bson:"password" json:"-"`

	DOB     string `bson:"dob,omitempty" json:"dob,omitempty"`
	Address string `bson:"address,omitempty" json:"address,omitempty"`
	City    string `bson:"city,omitempty" json:"city,omitempty"`
	Zip     string `bson:"zip,omitempty" json:"zip,omitempty"`
	Country string `bson:"country,omitempty" json:"country,omitempty"`

	Bio          string   `bson:"bio,omitempty" json:"bio,omitempty"`
	Experience   string   `bson:"experience,omitempty" json:"experience,omitempty"`
	Services     []string `bson:"services,omitempty" json:"services,omitempty"`
	ServiceAreas []string `bson:"serviceAreas,omitempty" json:"serviceAreas,omitempty"`

	ProfilePhoto string `bson:"profilePhoto,omitempty" json:"profilePhoto,omitempty"`
	IDPhoto      string `bson:"idPhoto,omitempty" json:"-"`
	SelfiePhoto  string `bson:"selfiePhoto,omitempty" json:"-"`

	AdditionalEmails []string          `bson:"additionalEmails,omitempty" json:"additionalEmails,omitempty"`
	Notifications    NotificationPrefs `bson:"notifications" json:"notifications"`
	WorkHours        WorkHours         `bson:"workHours,omitempty" json:"workHours,omitempty"`

	// pending | approved | suspended
	Status string `bson:"status" json:"status"`

	VerificationToken        string `bson:"verificationToken,omitempty" json:"-"`
	VerificationTokenExpires int64  `bson:"verificationTokenExpires,omitempty" json:"-"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

// FullName joins the provider's first and last name for display and for the
// shared account summary shape.
func (p *Provider) FullName() string {
	if p.FirstName == "" {
		return p.LastName
	}
	if p.LastName == "" {
		return p.FirstName
	}
	return p.FirstName + " " + p.LastName
}

// Admin is an operator account in the "admins" collection.
type Admin struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	FullName    string             `bson:"fullName" json:"fullName"`
	Email       string             `bson:"email" json:"email"`
	PhoneNumber string             `bson:"phoneNumber,omitempty" json:"phoneNumber,omitempty"`
	Password    string             `bson:"password" json:"-"`
	IsVerified  bool               `bson:"isVerified" json:"isVerified"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}

// NotificationPrefs mirrors the settings page toggles.
type NotificationPrefs struct {
	Email           bool `bson:"email" json:"email"`
	SMS             bool `bson:"sms" json:"sms"`
	BookingAlerts   bool `bson:"bookingAlerts" json:"bookingAlerts"`
	PromotionAlerts bool `bson:"promotionAlerts" json:"promotionAlerts"`
}

// DayHours is one day's availability window. Start and End are "HH:MM"
// 24-hour strings and are empty when the day is unavailable.
type DayHours struct {
	Available bool   `bson:"available" json:"available"`
	Start     string `bson:"start" json:"start"`
	End       string `bson:"end" json:"end"`
}

// WorkHours is keyed by lowercase weekday name ("monday" .. "sunday").
type WorkHours map[string]DayHours

// DefaultWorkHours is the grid shown to a provider who has never saved
// settings.
func DefaultWorkHours() WorkHours {
	return WorkHours{
		"monday":    {Available: true, Start: "09:00", End: "17:00"},
		"tuesday":   {Available: true, Start: "09:00", End: "17:00"},
		"wednesday": {Available: true, Start: "09:00", End: "17:00"},
		"thursday":  {Available: true, Start: "09:00", End: "17:00"},
		"friday":    {Available: true, Start: "09:00", End: "17:00"},
		"saturday":  {Available: false, Start: "", End: ""},
		"sunday":    {Available: false, Start: "", End: ""},
	}
}

// AccountRef is the credential slice of whichever account matched an email
// lookup, tagged with the collection it came from.
type AccountRef struct {
	ID           primitive.ObjectID
	Email        string
	FullName     string
	PhoneNumber  string
	PasswordHash string
	Role         Role
}

// AccountSummary is the public shape returned alongside a session token.
// It never carries the credential.
type AccountSummary struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	FullName    string `json:"fullName"`
	Role        Role   `json:"role"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Summary builds the public view of an account ref.
func (a *AccountRef) Summary() AccountSummary {
	return AccountSummary{
		ID:          a.ID.Hex(),
		Email:       a.Email,
		FullName:    a.FullName,
		Role:        a.Role,
		PhoneNumber: a.PhoneNumber,
	}
}
