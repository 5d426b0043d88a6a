package generation

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/cardiq/internal/common"
	"github.com/dmitrijs2005/cardiq/internal/config"
	"github.com/dmitrijs2005/cardiq/internal/logging"
	"github.com/sashabaranov/go-openai"
	"github.com/sethvargo/go-retry"
)

// Client completes a single instruction and returns the raw model reply.
type Client interface {
	Complete(ctx context.Context, instruction string) (string, error)
}

// retryBackoff is the pause between two attempts. Tests shorten it.
var retryBackoff = time.Second

// OpenAIClient is a Client backed by github.com/sashabaranov/go-openai.
type OpenAIClient struct {
	client     *openai.Client
	model      string
	timeout    time.Duration
	maxRetries int
	log        logging.Logger
}

var _ Client = (*OpenAIClient)(nil)

// NewOpenAIClient builds a client for the configured endpoint.
func NewOpenAIClient(cfg config.GenerationConfig, log logging.Logger) (*OpenAIClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("generation api key is not set: %w", common.ErrInvalidInput)
	}
	if cfg.Model == "" {
		return nil, fmt.Errorf("generation model is not set: %w", common.ErrInvalidInput)
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &OpenAIClient{
		client:     openai.NewClientWithConfig(clientConfig),
		model:      cfg.Model,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		log:        log,
	}, nil
}

// Complete sends instruction as a single user message. Transport errors,
// rate limiting and server errors are retried; anything else fails at once.
// Every failure is reported as common.ErrGenerationFailure.
func (c *OpenAIClient) Complete(ctx context.Context, instruction string) (string, error) {
	maxRetries := c.maxRetries
	if maxRetries < 0 {
		maxRetries = 0
	}
	backoff := retry.WithMaxRetries(uint64(maxRetries), retry.NewConstant(retryBackoff))

	attempt := 0
	out, err := retry.DoValue(ctx, backoff, func(ctx context.Context) (string, error) {
		attempt++
		reply, err := c.complete(ctx, instruction)
		if err != nil && isTransient(err) {
			c.log.Warn(ctx, "completion attempt failed", "attempt", attempt, "error", err)
			return "", retry.RetryableError(err)
		}
		return reply, err
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", common.ErrGenerationFailure, err)
	}

	c.log.Debug(ctx, "completion received", "model", c.model, "attempts", attempt, "bytes", len(out))
	return out, nil
}

func (c *OpenAIClient) complete(ctx context.Context, instruction string) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// isTransient reports whether another attempt may succeed.
func isTransient(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	// no HTTP status: the request never got an answer
	return true
}

func retryableStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= http.StatusInternalServerError
}
