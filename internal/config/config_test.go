package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("FIREBASE_PROJECT_ID", "test-project")
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "e30=")
	t.Setenv("STRIPE_SECRET_KEY", "sk_test_123")
	t.Setenv("STRIPE_WEBHOOK_SECRET", "whsec_payment")
	t.Setenv("STRIPE_SUBSCRIPTION_WEBHOOK_SECRET", "whsec_subscription")
	t.Setenv("PLACES_API_KEY", "places-key")
	t.Setenv("CLIENT_URL", "https://app.example.com")
}

func TestLoadConfig_DefaultsAndDerivedURLs(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "587", cfg.SMTPPort)
	assert.Equal(t, "https://app.example.com/subscription?status=success", cfg.CheckoutSuccessURL)
	assert.Equal(t, "https://app.example.com/subscription?status=canceled", cfg.CheckoutCancelURL)
}

func TestLoadConfig_ExplicitCheckoutURLs(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("CHECKOUT_SUCCESS_URL", "https://app.example.com/welcome")
	t.Setenv("CHECKOUT_CANCEL_URL", "https://app.example.com/pricing")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://app.example.com/welcome", cfg.CheckoutSuccessURL)
	assert.Equal(t, "https://app.example.com/pricing", cfg.CheckoutCancelURL)
}

func TestLoadConfig_DistinctWebhookSecretsRequired(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("STRIPE_SUBSCRIPTION_WEBHOOK_SECRET", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STRIPE_SUBSCRIPTION_WEBHOOK_SECRET")
}

func TestLoadConfig_RequiresCredentials(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("FIREBASE_SERVICE_ACCOUNT_JSON_BASE64", "")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_APPLICATION_CREDENTIALS")
}
