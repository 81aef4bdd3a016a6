package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/azure"
	"github.com/openai/openai-go/option"
)

// Options selects the OpenAI-compatible endpoint shared by the chat and embeddings clients.
type Options struct {
	// BaseURL is used when AzureEndpoint is empty.
	BaseURL string
	APIKey  string

	// AzureEndpoint switches to Azure OpenAI; model names are then deployment names.
	AzureEndpoint   string
	AzureAPIVersion string

	// HTTPClient overrides the default transport. Optional.
	HTTPClient *http.Client
}

func (o Options) requestOptions() []option.RequestOption {
	var opts []option.RequestOption
	if o.AzureEndpoint != "" {
		opts = append(opts,
			azure.WithEndpoint(o.AzureEndpoint, o.AzureAPIVersion),
			azure.WithAPIKey(o.APIKey),
		)
	} else {
		baseURL := o.BaseURL
		if !strings.HasSuffix(baseURL, "/") {
			baseURL += "/"
		}
		opts = append(opts,
			option.WithBaseURL(baseURL),
			option.WithAPIKey(o.APIKey),
		)
	}
	if o.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(o.HTTPClient))
	}
	// Every stage is single shot; a failed call surfaces to the caller as is.
	opts = append(opts, option.WithMaxRetries(0))
	return opts
}

// Client is a chat completions client for OpenAI or Azure OpenAI.
type Client struct {
	Model string
	api   openai.Client
}

// NewClient creates a new LLM client that uses model unless a call overrides it.
func NewClient(opts Options, model string) *Client {
	return &Client{
		Model: model,
		api:   openai.NewClient(opts.requestOptions()...),
	}
}

// ChatWithMessages sends a chat completion request with the full message list
// and returns the content of the first choice.
func (c *Client) ChatWithMessages(ctx context.Context, messages []Message, params ChatParams) (string, error) {
	if len(messages) == 0 {
		return "", fmt.Errorf("no messages")
	}

	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case RoleUser:
			converted = append(converted, openai.UserMessage(msg.Content))
		case RoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			return "", fmt.Errorf("message %d has unsupported role %q", i, msg.Role)
		}
	}

	model := params.Model
	if model == "" {
		model = c.Model
	}

	req := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    converted,
		Temperature: openai.Float(params.Temperature),
	}
	if params.MaxTokens > 0 {
		req.MaxTokens = openai.Int(int64(params.MaxTokens))
	}

	resp, err := c.api.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return resp.Choices[0].Message.Content, nil
}
