package configs

import (
	"fmt"

	"github.com/midtrans/midtrans-go"
)

const (
	PaymentProviderStripe   = "stripe"
	PaymentProviderMidtrans = "midtrans"

	stripeScriptURL = "https://js.stripe.com/v3/"
)

// PaymentWidget is what the checkout page needs to mount the provider's card
// input. Tokenization happens in the browser; only the resulting token is
// posted back to the storefront.
type PaymentWidget struct {
	Provider  string
	ClientKey string
	ScriptURL string

	// Environment is "sandbox" or "production" for providers that need it.
	Environment string
}

func (e ENV) midtransEnvironment() midtrans.EnvironmentType {
	if e.MidtransEnv == "production" {
		return midtrans.Production
	}
	return midtrans.Sandbox
}

func midtransEnvironmentName(e midtrans.EnvironmentType) string {
	if e == midtrans.Production {
		return "production"
	}
	return "sandbox"
}

func LoadPaymentWidget(env ENV) (PaymentWidget, error) {
	switch env.PaymentProvider {
	case PaymentProviderStripe:
		if env.StripePublishable == "" {
			return PaymentWidget{}, fmt.Errorf("STRIPE_PUBLISHABLE_KEY environment variable not set")
		}
		return PaymentWidget{
			Provider:  PaymentProviderStripe,
			ClientKey: env.StripePublishable,
			ScriptURL: stripeScriptURL,
		}, nil
	case PaymentProviderMidtrans:
		if env.MidtransClientKey == "" {
			return PaymentWidget{}, fmt.Errorf("MIDTRANS_CLIENT_KEY environment variable not set")
		}
		return PaymentWidget{
			Provider:    PaymentProviderMidtrans,
			ClientKey:   env.MidtransClientKey,
			ScriptURL:   env.midtransEnvironment().BaseUrl() + "/v2/assets/js/midtrans-new-3ds.min.js",
			Environment: midtransEnvironmentName(env.midtransEnvironment()),
		}, nil
	default:
		return PaymentWidget{}, fmt.Errorf("unknown PAYMENT_PROVIDER %q", env.PaymentProvider)
	}
}
