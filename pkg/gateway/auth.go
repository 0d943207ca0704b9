package gateway

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
)

// maxAuthAttempts is the number of signature failures tolerated before a
// client is blocked and its connection closed.
const maxAuthAttempts = 3

const challengeBytes = 32

// AuthHandler implements the challenge-response handshake that gates every
// WebSocket client before it may call tools. The client must return an
// HMAC-SHA256 of the challenge keyed with the shared secret.
type AuthHandler struct {
	sharedSecret string
}

func NewAuthHandler(sharedSecret string) *AuthHandler {
	return &AuthHandler{sharedSecret: sharedSecret}
}

// GenerateChallenge returns a fresh random challenge, hex encoded.
func (a *AuthHandler) GenerateChallenge() (string, error) {
	challenge := make([]byte, challengeBytes)
	if _, err := rand.Read(challenge); err != nil {
		return "", fmt.Errorf("failed to generate challenge: %w", err)
	}
	return hex.EncodeToString(challenge), nil
}

// VerifySignature checks the client's HMAC-SHA256 signature over the
// challenge in constant time.
func (a *AuthHandler) VerifySignature(challenge, signature string) bool {
	mac := hmac.New(sha256.New, []byte(a.sharedSecret))
	mac.Write([]byte(challenge))
	expected := hex.EncodeToString(mac.Sum(nil))

	return subtle.ConstantTimeCompare([]byte(expected), []byte(signature)) == 1
}

// HandleAuthResponse evaluates a client's answer to its pending challenge
// and updates the client's authentication state accordingly.
func (a *AuthHandler) HandleAuthResponse(client *Client, signature string) AuthResult {
	if client.Challenge == "" {
		return authFailure("No challenge found")
	}

	if !a.VerifySignature(client.Challenge, signature) {
		client.AuthAttempts++
		if client.AuthAttempts >= maxAuthAttempts {
			return authFailure("Too many failed attempts")
		}
		return authFailure("Invalid signature")
	}

	client.Authenticated = true
	client.State = StateAuthenticated
	client.AuthAttempts = 0
	client.Challenge = "" // single use

	return AuthResult{
		Event:   "auth.success",
		Success: true,
	}
}

func authFailure(message string) AuthResult {
	return AuthResult{
		Event:   "auth.failure",
		Success: false,
		Message: message,
	}
}
