package mercadopago

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

	"github.com/shopspring/decimal"
)

const defaultTimeout = 15 * time.Second

// PreferenceItem is one payable line of a checkout preference. Prices are
// the server-side authoritative prices, never client-supplied.
type PreferenceItem struct {
	ID         string          `json:"id"`
	Title      string          `json:"title"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	CurrencyID string          `json:"currency_id"`
}

type BackURLs struct {
	Success string `json:"success"`
	Failure string `json:"failure"`
	Pending string `json:"pending"`
}

type PreferenceRequest struct {
	Items      []PreferenceItem `json:"items"`
	BackURLs   BackURLs         `json:"back_urls"`
	AutoReturn string           `json:"auto_return"`
	// correlation token echoed back on the payment, carries the buyer's user id
	ExternalReference string `json:"external_reference"`
}

type PreferenceResponse struct {
	ID        string `json:"id"`
	InitPoint string `json:"init_point"`
}

// FlexInt tolerates the gateway serializing integers as strings
// (additional_info items carry quantity as "2").
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}

type PaymentItem struct {
	ID        string          `json:"id"`
	Title     string          `json:"title"`
	Quantity  FlexInt         `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Payment struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	ExternalReference string          `json:"external_reference"`
	AdditionalInfo    struct {
		Items []PaymentItem `json:"items"`
	} `json:"additional_info"`
}

type IClient interface {
	CreatePreference(ctx context.Context, req *PreferenceRequest) (*PreferenceResponse, error)
	GetPayment(ctx context.Context, paymentID string) (*Payment, error)
}

// Client 由appcontext建構後注入, 不使用全域單例
type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string) *Client {
	return &Client{
		baseURL:     strings.TrimRight(baseURL, "/"),
		accessToken: accessToken,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

// CreatePreference 向gateway宣告一筆可付款購物車, 回傳hosted付款頁網址
func (c *Client) CreatePreference(ctx context.Context, req *PreferenceRequest) (*PreferenceResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/checkout/preferences", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)
	httpReq.Header.Set("Content-Type", "application/json")

	var pref PreferenceResponse
	if err := c.do(httpReq, &pref); err != nil {
		return nil, fmt.Errorf("create preference: %w", err)
	}
	return &pref, nil
}

// GetPayment 取得付款的權威狀態, webhook通知內容一律不信任, 只信這裡
func (c *Client) GetPayment(ctx context.Context, paymentID string) (*Payment, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+"/v1/payments/"+paymentID, nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.accessToken)

	var payment Payment
	if err := c.do(httpReq, &payment); err != nil {
		return nil, fmt.Errorf("get payment %s: %w", paymentID, err)
	}
	return &payment, nil
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("gateway returned %d: %s", resp.StatusCode, string(raw))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

var _ IClient = (*Client)(nil)
