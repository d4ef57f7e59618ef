package assistant

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	attemptsPerCandidate = 2
	defaultRetryDelay    = 5 * time.Second
	maxRetryDelay        = 15 * time.Second
)

type failureClass int

const (
	failureOther failureClass = iota
	failureRateLimited
)

type action int

const (
	// actionRetrySame waits the suggested delay and retries the current
	// candidate model once more.
	actionRetrySame action = iota
	// actionNextCandidate abandons the current model and moves down the
	// candidate list.
	actionNextCandidate
)

// classify buckets an upstream failure. Quota exhaustion is the only class
// worth a wait-and-retry; everything else falls through to the next model.
func classify(status int, message string) failureClass {
	if status == http.StatusTooManyRequests {
		return failureRateLimited
	}
	if strings.Contains(message, "429") || strings.Contains(message, "RESOURCE_EXHAUSTED") {
		return failureRateLimited
	}
	return failureOther
}

// decide is the pure retry policy over (attempt, failure class). A rate
// limit on a candidate's first attempt earns one retry of the same model;
// any other outcome advances to the next candidate.
func decide(attempt int, class failureClass) action {
	if class == failureRateLimited && attempt == 0 {
		return actionRetrySame
	}
	return actionNextCandidate
}

var retryDelayPattern = regexp.MustCompile(`(?i)retry in (\d+\.?\d*)s`)

// parseRetryDelay extracts the server-suggested backoff from an error
// message, falling back to a fixed default and clamping to an upper bound.
func parseRetryDelay(message string) time.Duration {
	delay := defaultRetryDelay
	if m := retryDelayPattern.FindStringSubmatch(message); m != nil {
		if secs, err := strconv.ParseFloat(m[1], 64); err == nil {
			delay = time.Duration(secs * float64(time.Second))
		}
	}
	if delay > maxRetryDelay {
		delay = maxRetryDelay
	}
	return delay
}
