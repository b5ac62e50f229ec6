package social

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"contentflow/domain/model"
)

// Adapter is the per-platform integration surface. One implementation exists
// per supported platform; the registry owns the closed set. Adapters are
// stateless aside from the token they are handed per call.
type Adapter interface {
	Platform() model.Platform
	// FetchProfile maps the platform's profile response into the normalized shape.
	FetchProfile(ctx context.Context, accessToken string) (*model.SocialProfile, error)
	// Publish posts content and returns the platform-assigned post id. Any
	// non-2xx response is a hard failure carrying the raw body; no retries
	// happen at this layer.
	Publish(ctx context.Context, content, accessToken string, mediaURLs []string) (string, error)
}

// AdapterSet is the lookup the orchestrator dispatches through.
type AdapterSet interface {
	Adapter(platform model.Platform) Adapter
}

func bearerGet(ctx context.Context, client *http.Client, url, accessToken string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")
	return do(client, req)
}

func bearerPostJSON(ctx context.Context, client *http.Client, url, accessToken string, payload interface{}, extraHeaders map[string]string) (int, []byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return 0, nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(raw))
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}
	return do(client, req)
}

func do(client *http.Client, req *http.Request) (int, []byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, body, nil
}

func is2xx(status int) bool { return status >= 200 && status < 300 }
