package configs

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetduration(t *testing.T) {
	t.Setenv("STOREFRONT_TEST_DUR", "45s")
	assert.Equal(t, 45*time.Second, getduration("STOREFRONT_TEST_DUR", time.Second))

	t.Setenv("STOREFRONT_TEST_DUR", "12")
	assert.Equal(t, 12*time.Second, getduration("STOREFRONT_TEST_DUR", time.Second))

	t.Setenv("STOREFRONT_TEST_DUR", "soon")
	assert.Equal(t, time.Second, getduration("STOREFRONT_TEST_DUR", time.Second))
}

func TestDSN(t *testing.T) {
	env := ENV{DBUser: "shop", DBPassword: "secret", DBHost: "db", DBPort: "3306", DBName: "storefront"}
	dsn := env.DSN()
	assert.True(t, strings.HasPrefix(dsn, "shop:secret@tcp(db:3306)/storefront?"), dsn)
	assert.Contains(t, dsn, "parseTime=true")
	assert.Contains(t, dsn, "charset=utf8mb4")
}

func TestLoadPaymentWidget(t *testing.T) {
	_, err := LoadPaymentWidget(ENV{PaymentProvider: PaymentProviderStripe})
	assert.Error(t, err)

	w, err := LoadPaymentWidget(ENV{PaymentProvider: PaymentProviderStripe, StripePublishable: "pk_test_1"})
	require.NoError(t, err)
	assert.Equal(t, "pk_test_1", w.ClientKey)
	assert.Equal(t, stripeScriptURL, w.ScriptURL)

	w, err = LoadPaymentWidget(ENV{PaymentProvider: PaymentProviderMidtrans, MidtransClientKey: "SB-client", MidtransEnv: "sandbox"})
	require.NoError(t, err)
	assert.Contains(t, w.ScriptURL, "sandbox.midtrans.com")
	assert.Equal(t, "sandbox", w.Environment)
	assert.True(t, strings.HasSuffix(w.ScriptURL, "/v2/assets/js/midtrans-new-3ds.min.js"))

	_, err = LoadPaymentWidget(ENV{PaymentProvider: "paypal"})
	assert.Error(t, err)
}

func TestGenerateAndLoadSessionKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.new_keys")
	require.NoError(t, GenerateAndPrintSessionKeys(path))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	env := ENV{}
	for _, line := range strings.Split(strings.TrimSpace(string(raw)), "\n") {
		name, value, ok := strings.Cut(line, "=")
		require.True(t, ok)
		switch name {
		case "APP_AUTH_KEY":
			env.AppAuthKey = value
		case "APP_ENC_KEY":
			env.AppEncKey = value
		case "CSRF_KEY":
			env.CSRFKey = value
		}
	}

	keys, err := LoadSessionKeys(env)
	require.NoError(t, err)
	assert.Len(t, keys.AuthKey, 64)
	assert.Len(t, keys.EncKey, 32)
	assert.Len(t, keys.CSRFKey, 32)
}

func TestLoadSessionKeysRejectsShortEncKey(t *testing.T) {
	short := base64.URLEncoding.EncodeToString([]byte("too-short"))
	_, err := LoadSessionKeys(ENV{AppAuthKey: short, AppEncKey: short, CSRFKey: short})
	assert.Error(t, err)
}
