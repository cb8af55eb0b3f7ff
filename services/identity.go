package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"

	"opsboard/model"
)

const identityToolkitURL = "https://identitytoolkit.googleapis.com/v1/accounts:signInWithPassword"

// IdentityClient verifies email/password credentials against the Identity
// Toolkit REST API. The admin SDK has no password check, so sign-in and the
// re-authentication step of the password flow go through here.
type IdentityClient struct {
	apiKey     string
	endpoint   string
	httpClient *http.Client
}

func NewIdentityClient() (*IdentityClient, error) {
	apiKey := os.Getenv("FIREBASE_WEB_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("environment variable FIREBASE_WEB_API_KEY is not set")
	}
	return &IdentityClient{
		apiKey:     apiKey,
		endpoint:   identityToolkitURL,
		httpClient: http.DefaultClient,
	}, nil
}

type signInRequest struct {
	Email             string `json:"email"`
	Password          string `json:"password"`
	ReturnSecureToken bool   `json:"returnSecureToken"`
}

type signInResponse struct {
	LocalID string `json:"localId"`
	Error   *struct {
		Message string `json:"message"`
	} `json:"error"`
}

func (c *IdentityClient) VerifyPassword(ctx context.Context, email, password string) (string, error) {
	payload, err := json.Marshal(signInRequest{Email: email, Password: password, ReturnSecureToken: true})
	if err != nil {
		return "", &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("marshal credential: %v", err)}
	}

	url := fmt.Sprintf("%s?key=%s", c.endpoint, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("build request: %v", err)}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("identity request failed: %v", err)}
	}
	defer resp.Body.Close()

	var body signInResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("decode identity response: %v", err)}
	}

	if resp.StatusCode == http.StatusOK {
		return body.LocalID, nil
	}

	message := ""
	if body.Error != nil {
		message = body.Error.Message
	}
	return "", mapIdentityError(message)
}

// mapIdentityError translates provider error strings into the auth error
// taxonomy used by the controllers.
func mapIdentityError(message string) *model.AuthError {
	switch {
	case strings.HasPrefix(message, "INVALID_PASSWORD"),
		strings.HasPrefix(message, "INVALID_LOGIN_CREDENTIALS"),
		strings.HasPrefix(message, "EMAIL_NOT_FOUND"):
		return &model.AuthError{Code: model.AuthWrongPassword, Message: "wrong email or password"}
	case strings.HasPrefix(message, "TOO_MANY_ATTEMPTS_TRY_LATER"):
		return &model.AuthError{Code: model.AuthTooManyRequests, Message: "too many attempts, try again later"}
	case strings.HasPrefix(message, "WEAK_PASSWORD"):
		return &model.AuthError{Code: model.AuthWeakPassword, Message: "password is too weak"}
	default:
		return &model.AuthError{Code: model.AuthNetworkFailure, Message: fmt.Sprintf("identity provider error: %s", message)}
	}
}
