package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ummet-social/censor/models"
)

// HTTPAdapter posts text to a moderation endpoint that answers with a
// verdict document (full or compact form).
type HTTPAdapter struct {
	transport
	url string
}

// HTTPOptions configures the adapter.
type HTTPOptions struct {
	URL       string
	APIKey    string
	Timeout   time.Duration
	RateLimit RateLimit
}

type httpRequest struct {
	Text string `json:"text"`
}

// NewHTTPAdapter creates adapter instance.
func NewHTTPAdapter(opt HTTPOptions) (*HTTPAdapter, error) {
	if strings.TrimSpace(opt.URL) == "" {
		return nil, errors.New("classifier: URL is required")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 5 * time.Second
	}
	client := resty.New().
		SetTimeout(opt.Timeout).
		SetHeader("Content-Type", "application/json")
	if strings.TrimSpace(opt.APIKey) != "" {
		client.SetAuthToken(opt.APIKey)
	}
	return &HTTPAdapter{
		transport: transport{name: "http", client: client, limiter: opt.RateLimit.limiter()},
		url:       opt.URL,
	}, nil
}

func (h *HTTPAdapter) Name() string { return "http" }

func (h *HTTPAdapter) Classify(ctx context.Context, text string) (models.Verdict, error) {
	body, err := h.post(ctx, h.url, httpRequest{Text: text})
	if err != nil {
		return models.Verdict{}, err
	}
	var v models.Verdict
	if err := json.Unmarshal(body, &v); err != nil {
		return models.Verdict{}, malformed("%v", err)
	}
	if err := v.Validate(); err != nil {
		return models.Verdict{}, malformed("%v", err)
	}
	return v, nil
}
