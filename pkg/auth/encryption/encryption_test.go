package encryption

import (
	"testing"
)

var data = "test"

func Test_Encrypt(t *testing.T) {
	encrypted := Encrypt(data)

	if encrypted == data {
		t.Fatalf("encrypted string equals plaintext")
	}

	decrypted := Decrypt(encrypted)
	if decrypted != data {
		t.Fatalf("decrypted string does not match data")
	}
}

func Test_Encrypt_FreshNonce(t *testing.T) {
	first := Encrypt(data)
	second := Encrypt(data)

	if first == second {
		t.Fatalf("two encryptions of the same value produced the same ciphertext")
	}
}
