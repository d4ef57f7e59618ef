// Package assistant produces chat replies for the productivity assistant,
// favoring a hosted model but always degrading to a local rule-based
// responder. GetResponse never fails: every failure path resolves to a
// usable string.
package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"verva-api/domain"
)

// Candidate models ordered most to least preferred.
var defaultModels = []string{
	"gemini-2.0-flash-lite",
	"gemini-1.5-flash-8b",
	"gemini-1.5-flash",
	"gemini-pro",
}

const emptyReply = "I'm sorry, I couldn't generate a response. Let's try that again."

// Client orchestrates model selection, bounded retries and the local
// fallback.
type Client struct {
	gen    generator
	models []string
	sleep  func(ctx context.Context, d time.Duration)
	logger *log.Logger
}

// NewClient creates a Client. An empty API key yields a client that skips
// the network entirely and always answers from the rule-based fallback.
func NewClient(apiKey string, logger *log.Logger) *Client {
	if logger == nil {
		logger = log.StandardLogger()
	}
	c := &Client{
		models: defaultModels,
		sleep:  sleepCtx,
		logger: logger,
	}
	if apiKey != "" {
		c.gen = newGeminiClient(apiKey)
	}
	return c
}

// GetResponse produces one assistant reply for the new message given the
// prior turns and the user's current tasks. It never returns an error:
// upstream failures are logged and absorbed into the fallback.
func (c *Client) GetResponse(ctx context.Context, message string, history []domain.ChatMessage, tasks []domain.Task) string {
	if c.gen == nil {
		c.logger.Debug("assistant credential not configured, using fallback")
		return fallbackResponse(message, tasks)
	}

	system := systemInstruction(tasks)
	contents := conversationTurns(history, message)

	for _, model := range c.models {
		for attempt := 0; attempt < attemptsPerCandidate; attempt++ {
			text, err := c.gen.Generate(ctx, model, system, contents)
			if err == nil {
				if strings.TrimSpace(text) == "" {
					return emptyReply
				}
				return text
			}

			class := classifyErr(err)
			c.logger.WithFields(log.Fields{
				"model":        model,
				"attempt":      attempt + 1,
				"rate_limited": class == failureRateLimited,
			}).Warnf("model call failed: %v", err)

			if decide(attempt, class) == actionRetrySame {
				c.sleep(ctx, parseRetryDelay(err.Error()))
				continue
			}
			break
		}
	}

	return fallbackResponse(message, tasks)
}

func classifyErr(err error) failureClass {
	var apiErr *apiError
	if errors.As(err, &apiErr) {
		return classify(apiErr.Status, apiErr.Message)
	}
	return classify(0, err.Error())
}

func sleepCtx(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
	}
}
