package payments

import (
	"crypto/md5"
	"encoding/hex"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dohelmoto/backend/pkg/config"
)

func gatewayConfig() config.CardcomConfig {
	return config.CardcomConfig{
		APIURL:     "https://secure.cardcom.solutions",
		TerminalID: "1000",
		Username:   "apiuser",
		Password:   "apipass",
	}
}

func TestNewTransactionIDFormat(t *testing.T) {
	now := time.UnixMilli(1700000000000)
	id := NewTransactionID(now)

	require.True(t, strings.HasPrefix(id, "DOHEL"))
	rest := strings.TrimPrefix(id, "DOHEL")
	require.Len(t, rest, len("1700000000000")+9)

	millis, err := strconv.ParseInt(rest[:13], 10, 64)
	require.NoError(t, err)
	assert.EqualValues(t, 1700000000000, millis)

	for _, c := range rest[13:] {
		assert.Contains(t, suffixAlphabet, string(c))
	}
}

func TestNewTransactionIDIsUnique(t *testing.T) {
	now := time.Now()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id := NewTransactionID(now)
		require.False(t, seen[id], "duplicate transaction id %s", id)
		seen[id] = true
	}
}

func TestSignLowProfileIsDeterministic(t *testing.T) {
	amount := decimal.RequireFromString("123.40")

	first := SignLowProfile(gatewayConfig(), amount, CurrencyILS, "DOHEL1trx")
	second := SignLowProfile(gatewayConfig(), amount, CurrencyILS, "DOHEL1trx")
	assert.Equal(t, first, second)
	assert.Len(t, first, 32)
}

func TestSignLowProfileMatchesGatewayConstruction(t *testing.T) {
	// The gateway recomputes md5 over the raw concatenation
	// terminal+username+amount+currency+txid+password; our hash must
	// reproduce it byte for byte, currency as its ISO code string.
	cfg := gatewayConfig()
	amount := decimal.RequireFromString("249.90")
	txid := "DOHEL1700000000000abcdefghi"

	sum := md5.Sum([]byte("1000" + "apiuser" + "249.90" + "ILS" + txid + "apipass"))
	assert.Equal(t, hex.EncodeToString(sum[:]), SignLowProfile(cfg, amount, CurrencyILS, txid))
}

func TestSignLowProfileCoversEveryField(t *testing.T) {
	amount := decimal.RequireFromString("10.00")
	base := SignLowProfile(gatewayConfig(), amount, CurrencyILS, "DOHEL1trx")

	terminal := gatewayConfig()
	terminal.TerminalID = "2000"
	assert.NotEqual(t, base, SignLowProfile(terminal, amount, CurrencyILS, "DOHEL1trx"))

	username := gatewayConfig()
	username.Username = "otheruser"
	assert.NotEqual(t, base, SignLowProfile(username, amount, CurrencyILS, "DOHEL1trx"))

	password := gatewayConfig()
	password.Password = "otherpass"
	assert.NotEqual(t, base, SignLowProfile(password, amount, CurrencyILS, "DOHEL1trx"))

	assert.NotEqual(t, base, SignLowProfile(gatewayConfig(), decimal.RequireFromString("10.01"), CurrencyILS, "DOHEL1trx"))
	assert.NotEqual(t, base, SignLowProfile(gatewayConfig(), amount, "USD", "DOHEL1trx"))
	assert.NotEqual(t, base, SignLowProfile(gatewayConfig(), amount, CurrencyILS, "DOHEL2trx"))
}

func TestSignLowProfileUsesTwoDecimalAmount(t *testing.T) {
	// "10" and "10.00" must hash identically; the gateway sees a fixed
	// two-decimal amount either way.
	whole := SignLowProfile(gatewayConfig(), decimal.RequireFromString("10"), CurrencyILS, "DOHEL1trx")
	cents := SignLowProfile(gatewayConfig(), decimal.RequireFromString("10.00"), CurrencyILS, "DOHEL1trx")
	assert.Equal(t, whole, cents)
}

func TestBuildPaymentURL(t *testing.T) {
	urls := config.URLConfig{Frontend: "https://shop.example", Backend: "https://api.example"}
	amount := decimal.RequireFromString("249.90")
	orderID := uuid.New()
	raw := BuildPaymentURL(gatewayConfig(), urls, amount, CurrencyILS, "DOHEL1trx", "abc123", orderID)

	parsed, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "secure.cardcom.solutions", parsed.Host)
	assert.Equal(t, "/LowProfile.aspx", parsed.Path)

	query := parsed.Query()
	assert.Equal(t, "1000", query.Get("TerminalNumber"))
	assert.Equal(t, "apiuser", query.Get("UserName"))
	assert.Equal(t, "249.90", query.Get("SumToBill"))
	assert.Equal(t, "ILS", query.Get("Currency"))
	assert.Equal(t, "1", query.Get("CoinId"))
	assert.Equal(t, "DOHEL1trx", query.Get("TransactionId"))
	assert.Equal(t, "abc123", query.Get("LowProfileHash"))
	assert.Equal(t, "he", query.Get("Language"))
	assert.Equal(t, "0", query.Get("CancelType"))
	assert.Equal(t, "https://api.example/api/payments/callback", query.Get("IndicatorUrl"))
	assert.Equal(t, "https://shop.example/payment/success?order_id="+orderID.String(), query.Get("SuccessRedirectUrl"))
	assert.Equal(t, "https://shop.example/payment/error?order_id="+orderID.String(), query.Get("ErrorRedirectUrl"))
	assert.Equal(t, "DohelMoto Order #"+orderID.String(), query.Get("Description"))

	// The password itself never appears in the redirect.
	assert.NotContains(t, raw, "apipass")
}
