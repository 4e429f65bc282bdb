package users

import (
	"testing"
	"time"

	"golang.org/x/oauth2"
)

func TestGoogleCalendarConnection_TokenRoundTrip(t *testing.T) {
	connection := GoogleCalendarConnection{
		Token: oauth2.Token{
			AccessToken:  "access-123",
			RefreshToken: "refresh-456",
			Expiry:       time.Now().Add(time.Hour),
		},
	}

	connection.EncryptToken()

	if connection.Token.AccessToken == "access-123" || connection.Token.RefreshToken == "refresh-456" {
		t.Fatal("tokens must not be stored in plain text")
	}

	decrypted := connection.DecryptedToken()
	if decrypted.AccessToken != "access-123" || decrypted.RefreshToken != "refresh-456" {
		t.Errorf("decryption must restore the original tokens, got %q / %q",
			decrypted.AccessToken, decrypted.RefreshToken)
	}

	if connection.Token.AccessToken == "access-123" {
		t.Error("decryption must not mutate the stored connection")
	}
}
