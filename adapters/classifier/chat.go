package classifier

import (
	"context"
	"encoding/json"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/ummet-social/censor/models"
)

const defaultSystemPrompt = `You are a content safety classifier for a Turkish-language Islamic social network (posts, comments, dua requests, events). Return strict JSON only.

Score each category from 0 to 1:
toxic, obscene, hate, threat, harassment, selfHarm, extremism.

Domain rules:
- Religious vocabulary, Quran verses, hadith and dua texts are not offensive by themselves.
- Criticism and disagreement are allowed; insults, slurs and profanity are not.
- Calls to violence, takfir against users and glorification of terrorist groups are extremism.
- Mentions of suicide or self-injury score selfHarm even when phrased as a dua.
- Judge intent and context, not isolated words.

overall is the highest severity that should drive moderation. flagged is true when the content should be blocked or reviewed.
List the offending words or short phrases (max 255 characters each) as terms.
Return compact format: {"s":[toxic,obscene,hate,threat,harassment,selfHarm,extremism],"o":overall,"f":flagged,"r":"reason","m":["terms"]}.`

// ChatAdapter classifies text with an OpenAI-compatible chat completions API.
type ChatAdapter struct {
	transport
	baseURL  string
	model    string
	prompt   string
	endpoint string
}

// ChatOptions configures the adapter.
type ChatOptions struct {
	APIKey       string
	BaseURL      string
	Model        string
	Timeout      time.Duration
	SystemPrompt string
	RateLimit    RateLimit
}

// NewChatAdapter creates adapter instance.
func NewChatAdapter(opt ChatOptions) (*ChatAdapter, error) {
	if strings.TrimSpace(opt.APIKey) == "" {
		return nil, errors.New("classifier: API key is required")
	}
	if strings.TrimSpace(opt.BaseURL) == "" {
		opt.BaseURL = "https://api.deepseek.com"
	}
	if strings.TrimSpace(opt.Model) == "" {
		opt.Model = "deepseek-chat"
	}
	if opt.Timeout <= 0 {
		opt.Timeout = 15 * time.Second
	}
	prompt := defaultSystemPrompt
	if strings.TrimSpace(opt.SystemPrompt) != "" {
		prompt = opt.SystemPrompt
	}
	base := strings.TrimRight(opt.BaseURL, "/")
	return &ChatAdapter{
		transport: transport{
			name: "chat",
			client: resty.New().
				SetTimeout(opt.Timeout).
				SetBaseURL(base).
				SetAuthToken(opt.APIKey).
				SetHeader("Content-Type", "application/json"),
			limiter: opt.RateLimit.limiter(),
		},
		baseURL:  base,
		model:    opt.Model,
		endpoint: buildChatCompletionsURL(base),
		prompt:   prompt,
	}, nil
}

func (d *ChatAdapter) Name() string { return "chat" }

func (d *ChatAdapter) Classify(ctx context.Context, text string) (models.Verdict, error) {
	body, err := d.post(ctx, d.endpoint, d.buildPayload(text))
	if err != nil {
		return models.Verdict{}, err
	}

	content, err := extractContent(body)
	if err != nil {
		return models.Verdict{}, malformed("%v", err)
	}
	v, err := parseVerdict(content)
	if err != nil {
		return models.Verdict{}, malformed("%v", err)
	}
	return v, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string         `json:"model"`
	Messages       []chatMessage  `json:"messages"`
	Temperature    float64        `json:"temperature"`
	Stream         bool           `json:"stream"`
	ResponseFormat responseFormat `json:"response_format"`
}

func (d *ChatAdapter) buildPayload(text string) chatRequest {
	return chatRequest{
		Model: d.model,
		Messages: []chatMessage{
			{Role: "system", Content: d.prompt},
			{Role: "user", Content: text},
		},
		Temperature:    0,
		Stream:         false,
		ResponseFormat: responseFormat{Type: "json_object"},
	}
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func extractContent(body []byte) (string, error) {
	var resp chatCompletionResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("choices is empty")
	}
	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.New("response content is empty")
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	return strings.TrimSpace(content), nil
}

// parseVerdict accepts a single verdict object or an array whose first
// element is used.
func parseVerdict(content string) (models.Verdict, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return models.Verdict{}, errors.New("empty result payload")
	}

	var v models.Verdict
	if strings.HasPrefix(content, "[") {
		var arr []models.Verdict
		if err := json.Unmarshal([]byte(content), &arr); err != nil {
			return models.Verdict{}, err
		}
		if len(arr) == 0 {
			return models.Verdict{}, errors.New("empty result array")
		}
		v = arr[0]
	} else if err := json.Unmarshal([]byte(content), &v); err != nil {
		return models.Verdict{}, err
	}

	if err := v.Validate(); err != nil {
		return models.Verdict{}, err
	}
	return v, nil
}

func buildChatCompletionsURL(base string) string {
	if base == "" {
		return "https://api.deepseek.com/chat/completions"
	}
	u, err := url.Parse(base)
	if err != nil {
		return strings.TrimRight(base, "/") + "/chat/completions"
	}
	u.Path = strings.TrimRight(u.Path, "/")
	switch u.Path {
	case "":
		u.Path = "/chat/completions"
	case "/v1":
		u.Path = "/v1/chat/completions"
	case "/chat/completions", "/v1/chat/completions":
		// keep as is
	default:
		u.Path = u.Path + "/chat/completions"
	}
	return u.String()
}
