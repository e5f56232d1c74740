package paymentservice

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Client клиент для работы с PaymentService
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента PaymentService
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// EmitReservationIntent отправляет в биллинг намерение списать оплату за бронирование
func (c *Client) EmitReservationIntent(ctx context.Context, intent *ReservationIntent) (*IntentResponse, error) {
	url := fmt.Sprintf("%s/internal/intents/reservations", c.baseURL)

	return c.post(ctx, url, intent, fmt.Sprintf("reservation_id=%d", intent.ReservationID))
}

// EmitCancellationCredit отправляет в биллинг намерение вернуть средства после отмены
func (c *Client) EmitCancellationCredit(ctx context.Context, credit *CancellationCredit) (*IntentResponse, error) {
	url := fmt.Sprintf("%s/internal/intents/cancellations", c.baseURL)

	return c.post(ctx, url, credit, fmt.Sprintf("reservation_id=%d", credit.ReservationID))
}

// post отправляет намерение и разбирает ответ биллинга
func (c *Client) post(ctx context.Context, url string, payload interface{}, logRef string) (*IntentResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal intent: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	// Обработка статус-кодов
	switch resp.StatusCode {
	case http.StatusOK, http.StatusCreated:
		// Продолжаем обработку
	case http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: %s", ErrIntentRejected, logRef)
	default:
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(respBody))
	}

	// Парсим ответ
	var result IntentResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Payment intent accepted: %s, intent_id=%s", logRef, result.IntentID)
	return &result, nil
}
