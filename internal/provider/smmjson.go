package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"smmdesk/internal/models"
	"smmdesk/internal/pkg/httpclient"
)

// JSONClient implements Client for providers exposing a JSON-body API with a
// success/message envelope around the payload.
type JSONClient struct {
	apiURL string
	apiKey string
	client *httpclient.Client
}

// NewJSONClient creates a new JSON-API provider client.
func NewJSONClient(apiURL, apiKey string, timeout time.Duration) *JSONClient {
	return &JSONClient{
		apiURL: apiURL,
		apiKey: apiKey,
		client: httpclient.New().WithTimeout(timeout),
	}
}

func (c *JSONClient) APIType() string {
	return models.ProviderAPIJSON
}

type jsonEnvelope struct {
	Success bool                   `json:"success"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func (c *JSONClient) call(ctx context.Context, action, providerOrderID string) (map[string]interface{}, error) {
	body := map[string]interface{}{
		"api_key": c.apiKey,
		"action":  action,
		"order":   providerOrderID,
	}

	resp, err := c.client.Request().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		Post(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode())
	}

	var envelope jsonEnvelope
	if err := json.Unmarshal(resp.Body(), &envelope); err != nil {
		return nil, fmt.Errorf("provider response parse error: %w", err)
	}
	if !envelope.Success {
		if envelope.Message == "" {
			envelope.Message = "unknown provider error"
		}
		return nil, fmt.Errorf("provider error: %s", envelope.Message)
	}
	return envelope.Data, nil
}

func (c *JSONClient) OrderStatus(ctx context.Context, providerOrderID string) (*OrderInfo, error) {
	data, err := c.call(ctx, "status", providerOrderID)
	if err != nil {
		return nil, err
	}

	return &OrderInfo{
		Status:          stringField(data, "status"),
		Charge:          stringField(data, "charge"),
		StartCount:      intField(data, "start_count"),
		Remains:         intField(data, "remains"),
		Currency:        stringField(data, "currency"),
		RefillAvailable: refillFlag(data),
	}, nil
}

func (c *JSONClient) Refill(ctx context.Context, providerOrderID string) (string, error) {
	data, err := c.call(ctx, "refill", providerOrderID)
	if err != nil {
		return "", err
	}

	refillID := stringField(data, "refill_id")
	if refillID == "" {
		refillID = stringField(data, "refill")
	}
	if refillID == "" {
		return "", fmt.Errorf("provider refill response missing refill id")
	}
	return refillID, nil
}

func (c *JSONClient) Cancel(ctx context.Context, providerOrderID string) error {
	_, err := c.call(ctx, "cancel", providerOrderID)
	return err
}
