package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/m04kA/SMC-GroomingService/internal/domain"
)

// HTTPClient отправляет уведомления во внешний сервис сообщений по HTTP
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewHTTPClient создает новый экземпляр HTTP-отправителя
func NewHTTPClient(baseURL string, timeout time.Duration, log Logger) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// BookingCreated отправляет сообщение о новой записи
func (c *HTTPClient) BookingCreated(ctx context.Context, booking *domain.Booking) error {
	url := fmt.Sprintf("%s/internal/messages/booking-created", c.baseURL)

	body, err := json.Marshal(NewBookingCreatedMessage(booking))
	if err != nil {
		return fmt.Errorf("%w: failed to marshal message: %w", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %w", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: failed to execute request: %w", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated, http.StatusAccepted, http.StatusNoContent:
		c.log.Info("BookingCreated: message sent for booking id=%d", booking.ID)
		return nil
	default:
		raw, _ := io.ReadAll(resp.Body)
		var errResp ErrorResponse
		if json.Unmarshal(raw, &errResp) == nil && errResp.Message != "" {
			return fmt.Errorf("%w: status %d: %s", ErrInvalidResponse, resp.StatusCode, errResp.Message)
		}
		return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(raw))
	}
}
