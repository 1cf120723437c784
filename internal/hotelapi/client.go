package hotelapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/nekogravitycat/hotel-booking-backend/internal/availability"
	"github.com/nekogravitycat/hotel-booking-backend/internal/booking"
	"github.com/nekogravitycat/hotel-booking-backend/internal/pkg/apperror"
)

const maxResponseBytes = 4 << 20

// Config holds the connection settings of the hotel REST API.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration

	// BreakerFailures consecutive network failures open the circuit for
	// BreakerCooldown.
	BreakerFailures uint32
	BreakerCooldown time.Duration
}

// Client talks to the hotel REST API. It implements availability.Searcher and
// booking.Submitter.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	cb         *gobreaker.CircuitBreaker
	logger     *zap.Logger
}

func NewClient(cfg Config, logger *zap.Logger) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.BreakerFailures == 0 {
		cfg.BreakerFailures = 5
	}
	if cfg.BreakerCooldown <= 0 {
		cfg.BreakerCooldown = 30 * time.Second
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "hotel-api",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerFailures
		},
		// Only an unreachable or failing service counts against the breaker;
		// rejected requests are a normal answer.
		IsSuccessful: func(err error) bool {
			return err == nil || !errors.Is(err, ErrNetwork)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		cb:         cb,
		logger:     logger,
	}
}

type envelope[T any] struct {
	Data T `json:"data"`
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// SearchAvailableRooms returns the rooms available for each requested slot.
func (c *Client) SearchAvailableRooms(ctx context.Context, q availability.Query) (availability.SlotGroup, error) {
	filter, err := q.Encode()
	if err != nil {
		return nil, err
	}

	var out envelope[availability.SlotGroup]
	query := url.Values{"filter": {filter}}
	if err := c.call(ctx, http.MethodGet, "/rooms/available", query, nil, &out); err != nil {
		return nil, err
	}
	return out.Data, nil
}

// SubmitBooking creates the booking and returns its id. A conflict means a
// chosen room was taken since the search and is reported as
// booking.ErrRoomUnavailable.
func (c *Client) SubmitBooking(ctx context.Context, s booking.Submission) (string, error) {
	var out envelope[struct {
		ID flexibleID `json:"id"`
	}]
	if err := c.call(ctx, http.MethodPost, "/bookings", nil, s, &out); err != nil {
		if errors.Is(err, ErrConflict) {
			return "", fmt.Errorf("%v: %w", err, booking.ErrRoomUnavailable)
		}
		return "", err
	}
	if out.Data.ID == "" {
		return "", fmt.Errorf("booking created without id: %w", ErrNetwork)
	}
	return string(out.Data.ID), nil
}

func (c *Client) call(ctx context.Context, method, path string, query url.Values, body, out any) error {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.do(ctx, method, path, query, body, out)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("hotel api %s %s: %v: %w", method, path, err, ErrNetwork)
	}
	return err
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode hotel api request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reqBody)
	if err != nil {
		return fmt.Errorf("build hotel api request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Requests abandoned by the caller do not count against the breaker.
		if ctxErr := ctx.Err(); ctxErr != nil {
			return fmt.Errorf("hotel api %s %s: %w", method, path, ctxErr)
		}
		c.logger.Warn("hotel api request failed", zap.String("path", path), zap.Error(err))
		return fmt.Errorf("hotel api %s %s: %v: %w", method, path, err, ErrNetwork)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("read hotel api response: %v: %w", err, ErrNetwork)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil {
			return nil
		}
		if err := json.Unmarshal(payload, out); err != nil {
			return fmt.Errorf("decode hotel api response: %v: %w", err, ErrNetwork)
		}
		return nil
	}

	msg := upstreamMessage(payload)
	switch resp.StatusCode {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		if msg == "" {
			msg = ErrValidation.Message
		}
		return apperror.Wrap(ErrValidation, http.StatusBadRequest, msg)
	case http.StatusConflict:
		if msg == "" {
			msg = ErrConflict.Message
		}
		return apperror.Wrap(ErrConflict, http.StatusConflict, msg)
	default:
		c.logger.Warn("hotel api returned an error",
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", msg),
		)
		return fmt.Errorf("hotel api %s %s returned %d: %w", method, path, resp.StatusCode, ErrNetwork)
	}
}

func upstreamMessage(payload []byte) string {
	var e errorBody
	if err := json.Unmarshal(payload, &e); err != nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Error
}

// flexibleID accepts ids sent either as JSON strings or numbers.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*id = flexibleID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("booking id must be a string or number: %w", err)
	}
	*id = flexibleID(n.String())
	return nil
}
