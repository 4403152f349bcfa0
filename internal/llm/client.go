package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/google/uuid"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/bertughas123/NormVision/internal/common"
)

// Completer is the single-shot text completion surface the pipeline
// depends on. Tests plug in fakes here.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Gemini wraps the generative-ai client with rate limiting and
// structured request logging.
type Gemini struct {
	client  *genai.Client
	model   string
	timeout time.Duration
	limiter *Limiter
	log     *slog.Logger
}

func NewGemini(ctx context.Context, cfg common.LLMConfig, logger *slog.Logger) (*Gemini, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.APIKey == "" {
		return nil, common.NewAppError("CONFIG_ERROR", "GEMINI_API_KEY is required", common.ErrInvalidInput)
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}
	return &Gemini{
		client:  client,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		limiter: NewLimiter(cfg.MinInterval),
		log:     logger,
	}, nil
}

func (g *Gemini) Close() error {
	return g.client.Close()
}

// Complete sends one prompt and returns the concatenated text parts of
// the first candidate. HTTP 429 responses come back as RetryableError
// so the batch driver can back off and retry.
func (g *Gemini) Complete(ctx context.Context, prompt string) (string, error) {
	rid := uuid.New().String()
	start := time.Now()

	g.log.Info("llm.complete.start",
		"req_id", rid,
		"model", g.model,
		"prompt_len", len(prompt),
	)

	g.limiter.Wait()

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	model := g.client.GenerativeModel(g.model)
	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		g.log.Error("llm.complete.error",
			"req_id", rid, "error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		var apiErr *googleapi.Error
		if errors.As(err, &apiErr) && apiErr.Code == 429 {
			return "", &RetryableError{Err: err}
		}
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		g.log.Error("llm.complete.no_candidates",
			"req_id", rid,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return "", fmt.Errorf("no candidates in gemini response")
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			b.WriteString(string(text))
		}
	}
	out := strings.TrimSpace(b.String())

	g.log.Info("llm.complete.ok",
		"req_id", rid,
		"response_len", len(out),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return out, nil
}

var codeBlockRe = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*?)\\s*```$")

// StripFences removes a wrapping markdown code fence, if any.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if m := codeBlockRe.FindStringSubmatch(s); m != nil {
		return m[1]
	}
	return s
}
