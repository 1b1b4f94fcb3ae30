package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/prometria/authcore/internal/domain"
	"go.uber.org/zap"
)

// HTTPProvider implements PaymentProvider against the billing service's
// HTTP API. Setup is synchronous; the billing side owns its own retries.
type HTTPProvider struct {
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

// NewHTTPProvider creates a payment provider client for the given base URL
func NewHTTPProvider(baseURL string, logger *zap.Logger) *HTTPProvider {
	return &HTTPProvider{
		baseURL: baseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}
}

// Configured reports whether the subject already has payment set up
func (p *HTTPProvider) Configured(ctx context.Context, subject string) (bool, error) {
	endpoint := fmt.Sprintf("%s/v1/payment-methods/status?subject=%s", p.baseURL, url.QueryEscape(subject))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return false, err
	}

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("Payment status check failed", zap.String("subject", subject), zap.Error(err))
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("payment status check returned %d", resp.StatusCode)
	}

	var body struct {
		Configured bool `json:"configured"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}
	return body.Configured, nil
}

// Setup runs the synchronous payment-setup flow for the subject
func (p *HTTPProvider) Setup(ctx context.Context, subject string) error {
	payload, err := json.Marshal(map[string]string{"subject": subject})
	if err != nil {
		return err
	}

	endpoint := p.baseURL + "/v1/payment-methods/setup"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		p.logger.Error("Payment setup call failed", zap.String("subject", subject), zap.Error(err))
		return domain.ErrPaymentSetup
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		p.logger.Error("Payment setup rejected",
			zap.String("subject", subject),
			zap.Int("status", resp.StatusCode))
		return domain.ErrPaymentSetup
	}

	return nil
}
