package social

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"contentflow/domain/model"
)

// EncodeState serializes the OAuth state for the authorization redirect.
func EncodeState(st *model.OAuthState) (string, error) {
	raw, err := json.Marshal(st)
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(raw), nil
}

// ValidateState decodes a state parameter received on the OAuth callback.
// It is a pure function: validating the same string twice yields the same
// result, nothing is consumed. The decoded structure must carry platform,
// userId and csrfToken or the state is rejected.
func ValidateState(stateParam string) (*model.OAuthState, error) {
	raw, err := base64.StdEncoding.DecodeString(stateParam)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidState, err)
	}
	var st model.OAuthState
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidState, err)
	}
	if st.Platform == "" || st.UserID == "" || st.CSRFToken == "" {
		return nil, fmt.Errorf("%w: missing required fields", model.ErrInvalidState)
	}
	return &st, nil
}

// newCSRFToken returns 256 bits of entropy, hex encoded.
func newCSRFToken() string {
	b := make([]byte, 32)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
