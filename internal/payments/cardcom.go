package payments

import (
	"crypto/md5"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dohelmoto/backend/pkg/config"
)

// The gateway takes the currency as its ISO code string and the coin id 1
// for shekels; both ride the request side by side.
const (
	CurrencyILS         = "ILS"
	coinIDILS           = "1"
	transactionPrefix   = "DOHEL"
	lowProfilePath      = "/LowProfile.aspx"
	transactionSuffixLn = 9
)

const suffixAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewTransactionID mints a gateway transaction reference. The millisecond
// timestamp keeps ids sortable; the random tail keeps same-millisecond
// requests distinct.
func NewTransactionID(now time.Time) string {
	return fmt.Sprintf("%s%d%s", transactionPrefix, now.UnixMilli(), randomSuffix(transactionSuffixLn))
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand never fails on supported platforms; fall back to a
		// constant tail rather than panicking in a payment path.
		return "000000000"
	}
	out := make([]byte, n)
	for i, b := range buf {
		out[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(out)
}

// SignLowProfile computes the MD5 request hash Cardcom expects. The field
// order is fixed by the gateway: terminal, username, amount, currency,
// transaction id, password. MD5 here is a gateway contract, not a security
// choice on our side.
func SignLowProfile(cfg config.CardcomConfig, amount decimal.Decimal, currency, transactionID string) string {
	payload := cfg.TerminalID + cfg.Username + amount.StringFixed(2) + currency + transactionID + cfg.Password
	sum := md5.Sum([]byte(payload))
	return hex.EncodeToString(sum[:])
}

// BuildPaymentURL assembles the hosted payment page redirect. The success
// and error redirects carry the order id so the storefront can show the
// outcome page for the right order.
func BuildPaymentURL(cfg config.CardcomConfig, urls config.URLConfig, amount decimal.Decimal, currency, transactionID, hash string, orderID uuid.UUID) string {
	query := url.Values{}
	query.Set("TerminalNumber", cfg.TerminalID)
	query.Set("UserName", cfg.Username)
	query.Set("SumToBill", amount.StringFixed(2))
	query.Set("Currency", currency)
	query.Set("TransactionId", transactionID)
	query.Set("SuccessRedirectUrl", urls.Frontend+"/payment/success?order_id="+url.QueryEscape(orderID.String()))
	query.Set("ErrorRedirectUrl", urls.Frontend+"/payment/error?order_id="+url.QueryEscape(orderID.String()))
	query.Set("CancelType", "0")
	query.Set("IndicatorUrl", urls.Backend+"/api/payments/callback")
	query.Set("Language", "he")
	query.Set("CoinId", coinIDILS)
	query.Set("Description", fmt.Sprintf("DohelMoto Order #%s", orderID))
	query.Set("LowProfileHash", hash)

	return cfg.APIURL + lowProfilePath + "?" + query.Encode()
}
