package payments

import (
	"strings"

	"github.com/schoolpay-labs/schoolpay/app/models"
	"github.com/schoolpay-labs/schoolpay/internal/pkg/env"
)

const defaultGatewayBaseURL = "https://dev-vanilla.edviron.com/erp"

// Config carries the gateway credentials and tenant identifiers used by
// the payment services. It is built once from the environment and
// injected; business logic never reads env directly.
type Config struct {
	// SchoolID and TrusteeID are opaque tenant identifiers assigned by
	// the gateway operator.
	SchoolID  string
	TrusteeID string

	// PGKey is the shared secret used to sign gateway requests; APIKey
	// is the bearer credential sent alongside.
	PGKey  string
	APIKey string

	GatewayBaseURL string
	// CallbackURL is where the gateway delivers webhooks for collect
	// requests created by this deployment.
	CallbackURL string
	GatewayName string

	// InternalAPIKey guards the payment/transaction routes. Empty means
	// open (dev); auth proper is handled upstream of this service.
	InternalAPIKey string
}

// LoadConfig reads the payment configuration from the environment.
func LoadConfig() Config {
	base := strings.TrimRight(env.GetEnv("BASE_URL", "http://localhost:4000"), "/")
	callback := strings.TrimSpace(env.GetEnv("CALLBACK_URL", ""))
	if callback == "" {
		callback = base + "/api/webhooks"
	}

	return Config{
		SchoolID:       strings.TrimSpace(env.GetEnv("SCHOOL_ID", "")),
		TrusteeID:      strings.TrimSpace(env.GetEnv("TRUSTEE_ID", "")),
		PGKey:          strings.TrimSpace(env.GetEnv("PG_KEY", "")),
		APIKey:         strings.TrimSpace(env.GetEnv("API_KEY", "")),
		GatewayBaseURL: strings.TrimRight(env.GetEnv("PAYMENT_API_URL", defaultGatewayBaseURL), "/"),
		CallbackURL:    callback,
		GatewayName:    env.GetEnv("GATEWAY_NAME", models.GatewayNameEdviron),
		InternalAPIKey: strings.TrimSpace(env.GetEnv("INTERNAL_API_KEY", "")),
	}
}
