package yookassa

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	apppayment "github.com/clubgate/clubgate/internal/application/payment"
	sharedConfig "github.com/clubgate/clubgate/internal/shared/config"
	"github.com/clubgate/clubgate/internal/shared/logger"
	"github.com/clubgate/clubgate/internal/shared/retry"
)

// Client talks to the payment provider's REST API with basic auth and
// per-request idempotence keys.
type Client struct {
	shopID     string
	secretKey  string
	baseURL    string
	returnURL  string
	httpClient *http.Client
	retry      retry.Policy
	logger     logger.Interface
}

func NewClient(cfg sharedConfig.GatewayConfig) *Client {
	return &Client{
		shopID:    cfg.ShopID,
		secretKey: cfg.SecretKey,
		baseURL:   cfg.BaseURL,
		returnURL: cfg.ReturnURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry:  retry.DefaultPolicy,
		logger: logger.NewLogger().With("component", "gateway.yookassa"),
	}
}

// SetBaseURL overrides the API endpoint, used by tests.
func (c *Client) SetBaseURL(baseURL string) {
	c.baseURL = baseURL
}

func (c *Client) CreateCheckoutCharge(ctx context.Context, params apppayment.ChargeParams) (*apppayment.ChargeInfo, error) {
	req := createPaymentRequest{
		Amount: amountObject{
			Value:    formatAmount(params.AmountKopecks),
			Currency: params.Currency,
		},
		Capture: true,
		Confirmation: &confirmationObject{
			Type:      "redirect",
			ReturnURL: c.returnURL,
		},
		SavePaymentMethod: params.SaveInstrument,
		Description:       params.Description,
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(params.UserID, 10),
		},
	}
	if params.ReceiptEmail != "" {
		req.Receipt = buildReceipt(params.ReceiptEmail, params.Description, req.Amount)
	}

	obj, err := c.postPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return normalizePayment(obj), nil
}

func (c *Client) CreateAutoCharge(ctx context.Context, params apppayment.AutoChargeParams) (*apppayment.ChargeInfo, error) {
	req := createPaymentRequest{
		Amount: amountObject{
			Value:    formatAmount(params.AmountKopecks),
			Currency: params.Currency,
		},
		Capture:         true,
		PaymentMethodID: params.InstrumentRef,
		Description:     params.Description,
		Metadata: map[string]string{
			"user_id": strconv.FormatInt(params.UserID, 10),
		},
	}
	if params.ReceiptEmail != "" {
		req.Receipt = buildReceipt(params.ReceiptEmail, params.Description, req.Amount)
	}

	obj, err := c.postPayment(ctx, req)
	if err != nil {
		return nil, err
	}
	return normalizePayment(obj), nil
}

func (c *Client) GetCharge(ctx context.Context, providerID string) (*apppayment.ChargeInfo, error) {
	var obj paymentObject

	err := retry.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodGet, "/payments/"+providerID, nil, "", &obj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get payment %s: %w", providerID, err)
	}

	return normalizePayment(&obj), nil
}

func (c *Client) postPayment(ctx context.Context, req createPaymentRequest) (*paymentObject, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	// One idempotence key across retries keeps the provider from creating
	// duplicate charges.
	idempotenceKey := uuid.NewString()

	var obj paymentObject
	err = retry.Do(ctx, c.retry, func(ctx context.Context) error {
		return c.doRequest(ctx, http.MethodPost, "/payments", body, idempotenceKey, &obj)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return &obj, nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, body []byte, idempotenceKey string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return retry.Permanent(fmt.Errorf("failed to create request: %w", err))
	}
	req.SetBasicAuth(c.shopID, c.secretKey)
	req.Header.Set("Content-Type", "application/json")
	if idempotenceKey != "" {
		req.Header.Set("Idempotence-Key", idempotenceKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode >= 400 {
		var apiErr apiErrorResponse
		_ = json.Unmarshal(respBody, &apiErr)

		err := fmt.Errorf("provider error %d: %s %s", resp.StatusCode, apiErr.Code, apiErr.Description)
		// 4xx responses describe our request and will not improve on retry.
		if resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
			return retry.Permanent(err)
		}
		return err
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return retry.Permanent(fmt.Errorf("failed to decode response: %w", err))
		}
	}

	return nil
}

// normalizePayment is the single place provider wire status becomes engine
// status.
func normalizePayment(obj *paymentObject) *apppayment.ChargeInfo {
	info := &apppayment.ChargeInfo{
		ProviderID:    obj.ID,
		Paid:          obj.Paid,
		AmountKopecks: parseAmount(obj.Amount.Value),
		Currency:      obj.Amount.Currency,
	}

	switch obj.Status {
	case StatusSucceeded:
		info.Status = apppayment.ChargeStatusSucceeded
	case StatusCanceled:
		info.Status = apppayment.ChargeStatusCanceled
	default:
		info.Status = apppayment.ChargeStatusPending
	}

	if obj.Confirmation != nil {
		info.ConfirmationURL = obj.Confirmation.ConfirmationURL
	}
	if pm := obj.PaymentMethod; pm != nil {
		info.InstrumentRef = pm.ID
		info.InstrumentSaved = pm.Saved && pm.Type == methodTypeBankCard
	}
	if obj.CancellationDetails != nil {
		info.CancellationReason = obj.CancellationDetails.Reason
	}
	if raw, ok := obj.Metadata["user_id"]; ok {
		if userID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			info.UserID = userID
		}
	}

	return info
}

func formatAmount(kopecks int64) string {
	return fmt.Sprintf("%d.%02d", kopecks/100, kopecks%100)
}

// parseAmount reads the provider's "499.00" decimal string into kopecks.
// Malformed values come back as 0 and are rejected downstream.
func parseAmount(value string) int64 {
	whole, frac, _ := strings.Cut(value, ".")
	rubles, err := strconv.ParseInt(whole, 10, 64)
	if err != nil || rubles < 0 {
		return 0
	}
	kopecks := int64(0)
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		kopecks, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return 0
		}
	}
	return rubles*100 + kopecks
}

func buildReceipt(email, description string, amount amountObject) *receiptObject {
	if description == "" {
		description = "Channel subscription"
	}
	return &receiptObject{
		Customer: receiptCustomer{Email: email},
		Items: []receiptItem{
			{
				Description: description,
				Quantity:    "1",
				Amount:      amount,
				VATCode:     1,
			},
		},
	}
}
