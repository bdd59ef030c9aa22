package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"smmdesk/internal/models"
	"smmdesk/internal/pkg/httpclient"
)

// V1Client implements Client for the classic form-encoded SMM panel API:
// a single endpoint taking key/action/order fields, errors reported through
// an "error" string in an otherwise 200 response.
type V1Client struct {
	apiURL string
	apiKey string
	client *httpclient.Client
}

// NewV1Client creates a new form-API provider client.
func NewV1Client(apiURL, apiKey string, timeout time.Duration) *V1Client {
	return &V1Client{
		apiURL: apiURL,
		apiKey: apiKey,
		client: httpclient.New().WithTimeout(timeout),
	}
}

func (c *V1Client) APIType() string {
	return models.ProviderAPIv1
}

func (c *V1Client) call(ctx context.Context, params map[string]string) (map[string]interface{}, error) {
	form := map[string]string{"key": c.apiKey}
	for k, v := range params {
		form[k] = v
	}

	resp, err := c.client.Request().SetContext(ctx).SetFormData(form).Post(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("provider request failed: %w", err)
	}
	if !resp.IsSuccess() {
		return nil, fmt.Errorf("provider returned HTTP %d", resp.StatusCode())
	}

	var raw map[string]interface{}
	if err := json.Unmarshal(resp.Body(), &raw); err != nil {
		return nil, fmt.Errorf("provider response parse error: %w", err)
	}
	if msg := strings.TrimSpace(stringField(raw, "error")); msg != "" {
		return nil, fmt.Errorf("provider error: %s", msg)
	}
	return raw, nil
}

func (c *V1Client) OrderStatus(ctx context.Context, providerOrderID string) (*OrderInfo, error) {
	raw, err := c.call(ctx, map[string]string{
		"action": "status",
		"order":  providerOrderID,
	})
	if err != nil {
		return nil, err
	}

	return &OrderInfo{
		Status:          stringField(raw, "status"),
		Charge:          stringField(raw, "charge"),
		StartCount:      intField(raw, "start_count"),
		Remains:         intField(raw, "remains"),
		Currency:        stringField(raw, "currency"),
		RefillAvailable: refillFlag(raw),
	}, nil
}

func (c *V1Client) Refill(ctx context.Context, providerOrderID string) (string, error) {
	raw, err := c.call(ctx, map[string]string{
		"action": "refill",
		"order":  providerOrderID,
	})
	if err != nil {
		return "", err
	}

	refillID := stringField(raw, "refill")
	if refillID == "" {
		return "", fmt.Errorf("provider refill response missing refill id")
	}
	return refillID, nil
}

func (c *V1Client) Cancel(ctx context.Context, providerOrderID string) error {
	_, err := c.call(ctx, map[string]string{
		"action": "cancel",
		"order":  providerOrderID,
	})
	return err
}
