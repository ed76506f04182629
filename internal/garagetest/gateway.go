package garagetest

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/garage-vn/storefront/pkg/config"
)

// Gateway builds signed sandbox checkout URLs in the format the payment
// provider expects: sorted query parameters, HMAC-SHA512 secure hash, amount
// expressed in hundredths of a dong.
type Gateway struct {
	cfg config.GatewayConfig
	now func() time.Time
}

// NewGateway returns a Gateway using the provided merchant configuration.
func NewGateway(cfg config.GatewayConfig) *Gateway {
	return &Gateway{cfg: cfg, now: time.Now}
}

// BuildCheckoutURL returns the redirect URL for a checkout of the given
// amount. txnRef identifies the order on the merchant side and orderInfo is
// the free-text description shown on the payment page.
func (g *Gateway) BuildCheckoutURL(amount decimal.Decimal, txnRef, orderInfo, clientIP string) string {
	if orderInfo == "" {
		orderInfo = "Thanh toan don hang"
	}

	params := map[string]string{
		"vnp_Version":    "2.1.0",
		"vnp_Command":    "pay",
		"vnp_TmnCode":    g.cfg.TmnCode,
		"vnp_Amount":     strconv.FormatInt(amount.Mul(decimal.NewFromInt(100)).IntPart(), 10),
		"vnp_CurrCode":   "VND",
		"vnp_TxnRef":     txnRef,
		"vnp_OrderInfo":  orderInfo,
		"vnp_OrderType":  "other",
		"vnp_Locale":     "vn",
		"vnp_ReturnUrl":  g.cfg.ReturnURL,
		"vnp_IpAddr":     clientIP,
		"vnp_CreateDate": g.now().Format("20060102150405"),
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+url.QueryEscape(params[k]))
	}
	hashData := strings.Join(pairs, "&")

	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(hashData))

	values := url.Values{}
	for k, v := range params {
		values.Set(k, v)
	}
	values.Set("vnp_SecureHash", hex.EncodeToString(mac.Sum(nil)))

	return g.cfg.PaymentURL + "?" + values.Encode()
}

// VerifySecureHash recomputes the signature over the given query values and
// reports whether it matches the embedded vnp_SecureHash. Used by the stub's
// payment-return handler.
func (g *Gateway) VerifySecureHash(values url.Values) bool {
	got := values.Get("vnp_SecureHash")
	if got == "" {
		return false
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "vnp_SecureHash" || !strings.HasPrefix(k, "vnp_") {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+url.QueryEscape(values.Get(k)))
	}

	mac := hmac.New(sha512.New, []byte(g.cfg.HashSecret))
	mac.Write([]byte(strings.Join(pairs, "&")))

	return hmac.Equal([]byte(got), []byte(hex.EncodeToString(mac.Sum(nil))))
}
