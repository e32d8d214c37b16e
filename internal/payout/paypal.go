package payout

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

	"github.com/Evgen-Mutagen/tapcash/internal/core"
	"go.uber.org/zap"
)

const (
	SandboxBaseURL = "https://api-m.sandbox.paypal.com"
	LiveBaseURL    = "https://api-m.paypal.com"

	tokenPath  = "/v1/oauth2/token"
	payoutPath = "/v1/payments/payouts"

	// upstream bodies are logged, capped at this size
	maxLoggedBody = 4 << 10
)

var (
	ErrCredentialsMissing   = errors.New("paypal credentials not configured")
	ErrAuthenticationFailed = errors.New("paypal authentication failed")
	ErrPayoutFailed         = errors.New("paypal payout failed")
)

type PayPalConfig struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

// PayPalClient issues payouts through the PayPal Payouts REST API.
// Each call fetches a fresh client-credentials token; nothing is retried.
type PayPalClient struct {
	cfg    PayPalConfig
	http   *http.Client
	logger *zap.Logger
	now    func() time.Time
}

func NewPayPalClient(cfg PayPalConfig, httpClient *http.Client, logger *zap.Logger) *PayPalClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = SandboxBaseURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &PayPalClient{
		cfg:    cfg,
		http:   httpClient,
		logger: logger,
		now:    time.Now,
	}
}

func (c *PayPalClient) Configured() bool {
	return c.cfg.ClientID != "" && c.cfg.ClientSecret != ""
}

type payoutAmount struct {
	Value    string `json:"value"`
	Currency string `json:"currency"`
}

type payoutItem struct {
	RecipientType string       `json:"recipient_type"`
	Amount        payoutAmount `json:"amount"`
	Note          string       `json:"note"`
	SenderItemID  string       `json:"sender_item_id"`
	Receiver      string       `json:"receiver"`
}

type senderBatchHeader struct {
	SenderBatchID string `json:"sender_batch_id"`
	EmailSubject  string `json:"email_subject"`
	EmailMessage  string `json:"email_message"`
}

type payoutBatch struct {
	SenderBatchHeader senderBatchHeader `json:"sender_batch_header"`
	Items             []payoutItem      `json:"items"`
}

type payoutResponse struct {
	BatchHeader struct {
		PayoutBatchID string `json:"payout_batch_id"`
		BatchStatus   string `json:"batch_status"`
	} `json:"batch_header"`
}

func (c *PayPalClient) ExecuteCorrelatedPayout(ctx context.Context, req core.PayoutRequest) (*core.PayoutResult, error) {
	if !c.Configured() {
		return nil, ErrCredentialsMissing
	}

	token, err := c.accessToken(ctx)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(c.buildBatch(req))
	if err != nil {
		return nil, fmt.Errorf("failed to encode payout batch: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+payoutPath, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayoutFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("PayPal payout request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", readLimited(resp.Body)),
			zap.String("user_id", req.UserID))
		return nil, ErrPayoutFailed
	}

	var result payoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrPayoutFailed, err)
	}

	return &core.PayoutResult{
		BatchID: result.BatchHeader.PayoutBatchID,
		Status:  result.BatchHeader.BatchStatus,
	}, nil
}

func (c *PayPalClient) accessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+tokenPath, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.cfg.ClientID, c.cfg.ClientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Error("PayPal token request rejected",
			zap.Int("status", resp.StatusCode),
			zap.String("body", readLimited(resp.Body)))
		return "", ErrAuthenticationFailed
	}

	var token struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&token); err != nil {
		return "", fmt.Errorf("%w: decode token: %v", ErrAuthenticationFailed, err)
	}
	if token.AccessToken == "" {
		return "", fmt.Errorf("%w: empty access token", ErrAuthenticationFailed)
	}
	return token.AccessToken, nil
}

func (c *PayPalClient) buildBatch(req core.PayoutRequest) payoutBatch {
	batchID, itemID := req.CorrelationID, req.CorrelationID
	if batchID == "" {
		ms := c.now().UnixMilli()
		batchID = fmt.Sprintf("Payout_%d_%s", ms, req.UserID)
		itemID = fmt.Sprintf("Item_%d", ms)
	}

	return payoutBatch{
		SenderBatchHeader: senderBatchHeader{
			SenderBatchID: batchID,
			EmailSubject:  "You have a payout!",
			EmailMessage:  "You have received a payout from Tap to Earn! Thanks for playing!",
		},
		Items: []payoutItem{{
			RecipientType: "EMAIL",
			Amount: payoutAmount{
				Value:    req.Amount.StringFixed(2),
				Currency: "USD",
			},
			Note:         fmt.Sprintf("Redeemed %d coins from Tap to Earn", req.Coins),
			SenderItemID: itemID,
			Receiver:     req.Email,
		}},
	}
}

func readLimited(r io.Reader) string {
	b, _ := io.ReadAll(io.LimitReader(r, maxLoggedBody))
	return string(b)
}
