package hook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const notifyTimeout = 10 * time.Second

// OrderSummary 送往外部自動化流程(訂單確認pipeline)的摘要
type OrderSummary struct {
	Email       string          `json:"email"`
	FirstName   string          `json:"firstName"`
	OrderID     uint            `json:"orderId"`
	TotalAmount decimal.Decimal `json:"totalAmount"`
	Items       []OrderLine     `json:"items"`
}

type OrderLine struct {
	ProductID       uint            `json:"productId"`
	Quantity        int             `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
}

type INotifier interface {
	NotifyOrderCreated(ctx context.Context, summary *OrderSummary)
}

// Notifier 為best-effort: 失敗只記log, 絕不影響已commit的訂單交易
type Notifier struct {
	hookURL    string
	httpClient *http.Client
	logger     *zerolog.Logger
}

func NewNotifier(hookURL string, logger *zerolog.Logger) *Notifier {
	return &Notifier{
		hookURL: hookURL,
		httpClient: &http.Client{
			Timeout: notifyTimeout,
		},
		logger: logger,
	}
}

func (n *Notifier) NotifyOrderCreated(ctx context.Context, summary *OrderSummary) {
	if n.hookURL == "" {
		return
	}

	if err := n.post(ctx, summary); err != nil {
		n.logger.Warn().
			Uint("order_id", summary.OrderID).
			Err(err).
			Msg("order hook notification failed")
		return
	}

	n.logger.Info().
		Uint("order_id", summary.OrderID).
		Msg("order hook notification sent")
}

func (n *Notifier) post(ctx context.Context, summary *OrderSummary) error {
	body, err := json.Marshal(summary)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.hookURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("hook returned %d", resp.StatusCode)
	}
	return nil
}

var _ INotifier = (*Notifier)(nil)
