package remote

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"fieldlex-client/internal/config"
	"fieldlex-client/internal/logger"
	"fieldlex-client/internal/model"
	"fieldlex-client/internal/token"
	"fieldlex-client/pkg/errors"

	"github.com/rs/zerolog"
)

// Executor issues one remote call per Execute invocation: header injection,
// per-attempt timeout, linear-backoff retry on transport failures, and
// classification of every outcome into the closed error taxonomy.
type Executor struct {
	baseURL     string
	httpClient  *http.Client
	tokens      *token.Store
	timeout     time.Duration
	maxAttempts int
	retryDelay  time.Duration
	log         zerolog.Logger
}

func NewExecutor(cfg *config.Config, tokens *token.Store) *Executor {
	return &Executor{
		baseURL:     cfg.Remote.BaseURL,
		httpClient:  &http.Client{},
		tokens:      tokens,
		timeout:     cfg.Remote.Timeout,
		maxAttempts: cfg.Remote.RetryAttempts,
		retryDelay:  cfg.Remote.RetryDelay,
		log:         logger.Component("remote"),
	}
}

// Execute runs the described call. Transport failures (network, timeout)
// are retried with a linear backoff: the wait before attempt n+1 is
// retryDelay × n. Every other classification is surfaced after a single
// attempt; deciding whether to queue offline is the caller's job.
func (e *Executor) Execute(ctx context.Context, desc *Descriptor) (*Envelope, error) {
	timeout := desc.Timeout
	if timeout == 0 {
		timeout = e.timeout
	}
	maxAttempts := desc.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = e.maxAttempts
	}
	retryDelay := desc.RetryDelay
	if retryDelay == 0 {
		retryDelay = e.retryDelay
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if attempt > 1 {
			select {
			case <-ctx.Done():
				return nil, errors.NewRemoteError(errors.KindTimeout, 0,
					"request cancelled while waiting to retry", ctx.Err())
			case <-time.After(retryDelay * time.Duration(attempt-1)):
				// Linear backoff
			}
		}

		env, err := e.attempt(ctx, desc, timeout)
		if err == nil {
			return env, nil
		}

		if !errors.Retryable(err) {
			return nil, err
		}

		lastErr = err
		e.log.Warn().Err(err).
			Str("method", desc.Method).
			Str("path", desc.Path).
			Int("attempt", attempt).
			Msg("Request failed, will retry")
	}

	return nil, lastErr
}

func (e *Executor) attempt(ctx context.Context, desc *Descriptor, timeout time.Duration) (*Envelope, error) {
	body, contentType, err := desc.encodeBody()
	if err != nil {
		return nil, errors.NewRemoteError(errors.KindClientError, 0,
			"failed to encode request body", err)
	}

	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var reader io.Reader
	if body != nil {
		reader = body
	}

	req, err := http.NewRequestWithContext(attemptCtx, desc.Method, desc.url(e.baseURL), reader)
	if err != nil {
		return nil, errors.NewRemoteError(errors.KindClientError, 0,
			"failed to create request", err)
	}

	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if t, ok := e.tokens.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+t.AccessToken)
	}

	resp, err := e.httpClient.Do(req)
	if err != nil {
		// A deadline hit is a timeout; everything else at the transport
		// level is a network failure.
		if stderrors.Is(err, context.DeadlineExceeded) || attemptCtx.Err() != nil {
			return nil, errors.NewRemoteError(errors.KindTimeout, 0,
				fmt.Sprintf("no response within %s", timeout), err)
		}
		return nil, errors.NewRemoteError(errors.KindNetwork, 0,
			"request failed", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewRemoteError(errors.KindNetwork, resp.StatusCode,
			"failed to read response body", err)
	}

	e.log.Debug().
		Str("method", desc.Method).
		Str("path", desc.Path).
		Int("status", resp.StatusCode).
		Msg("Request completed")

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return &Envelope{Status: resp.StatusCode, Body: data}, nil
	}

	return nil, e.classify(resp.StatusCode, data)
}

// classify maps a non-2xx status to the error taxonomy, pulling a
// human-readable message out of the JSON error body when one is present.
func (e *Executor) classify(status int, body []byte) error {
	message := errorMessage(body)

	switch {
	case status == http.StatusUnauthorized:
		// The held credential is no longer valid; drop it so the UI
		// collaborator knows to re-authenticate.
		if err := e.tokens.Clear(); err != nil {
			e.log.Error().Err(err).Msg("Failed to clear token after 401")
		}
		return errors.NewRemoteError(errors.KindUnauthorized, status, message, nil)
	case status >= 400 && status < 500:
		return errors.NewRemoteError(errors.KindClientError, status, message, nil)
	default:
		return errors.NewRemoteError(errors.KindServerError, status, message, nil)
	}
}

func errorMessage(body []byte) string {
	var eb model.ErrorBody
	if err := json.Unmarshal(body, &eb); err == nil && eb.Text() != "" {
		return eb.Text()
	}
	return ""
}
