package users

import (
	"time"

	"github.com/dailygrind-app/dailygrind-backend/pkg/auth/encryption"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/oauth2"
)

// User is the model for a registered user
type User struct {
	ID             primitive.ObjectID `json:"id" bson:"_id"`
	Firstname      string             `json:"firstname" bson:"firstname" validate:"required"`
	Lastname       string             `json:"lastname" bson:"lastname" validate:"required"`
	Password       string             `json:"-" bson:"password" validate:"required"`
	Email          string             `json:"email" bson:"email" validate:"required,email"`
	CreatedAt      time.Time          `json:"createdAt" bson:"createdAt" validate:"isdefault"`
	LastModifiedAt time.Time          `json:"lastModifiedAt" bson:"lastModifiedAt" validate:"isdefault"`

	EmailVerified          bool   `json:"emailVerified" bson:"emailVerified"`
	EmailVerificationToken string `json:"-" bson:"emailVerificationToken,omitempty"`
	IsDeactivated          bool   `json:"-" bson:"isDeactivated"`

	DeviceTokens []DeviceToken `json:"-" bson:"deviceTokens,omitempty"`

	GoogleCalendarConnection GoogleCalendarConnection `json:"googleCalendarConnection" bson:"googleCalendarConnection,omitempty"`
}

// UserLogin is the payload for authenticating a user
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" bson:"password" validate:"required"`
}

// DeviceToken is a Firebase Cloud Messaging registration for one device
type DeviceToken struct {
	Token          string    `json:"token" bson:"token"`
	LastRegistered time.Time `json:"lastRegistered" bson:"lastRegistered"`
}

// GoogleCalendarConnection holds the OAuth state for a user's calendar.
// The token is stored encrypted, use EncryptToken/DecryptedToken.
type GoogleCalendarConnection struct {
	Token      oauth2.Token `json:"-" bson:"token,omitempty"`
	StateToken string       `json:"-" bson:"stateToken,omitempty"`
	IsActive   bool         `json:"isActive" bson:"isActive"`
}

// EncryptToken encrypts the token secrets before they go into the database
func (c *GoogleCalendarConnection) EncryptToken() {
	if c.Token.AccessToken != "" {
		c.Token.AccessToken = encryption.Encrypt(c.Token.AccessToken)
	}
	if c.Token.RefreshToken != "" {
		c.Token.RefreshToken = encryption.Encrypt(c.Token.RefreshToken)
	}
}

// DecryptedToken returns a usable copy of the stored token
func (c *GoogleCalendarConnection) DecryptedToken() oauth2.Token {
	token := c.Token
	if token.AccessToken != "" {
		token.AccessToken = encryption.Decrypt(token.AccessToken)
	}
	if token.RefreshToken != "" {
		token.RefreshToken = encryption.Decrypt(token.RefreshToken)
	}

	return token
}
