package config

import (
	"encoding/json"
	"os"
	"strconv"
)

// accountKeyJSON is the wallet key-file shape carried in the
// ACCOUNT_CREATOR_KEY and ACCOUNT_RECOVERY_KEY variables.
type accountKeyJSON struct {
	AccountID  string `json:"account_id"`
	PrivateKey string `json:"private_key"`
}

func setIfPresent(name string, target *string) {
	if v, ok := os.LookupEnv(name); ok {
		*target = v
	}
}

// parseEnv overlays configuration from environment variables. Malformed
// key JSON is a deployment error and panics rather than starting the
// helper with a half-configured identity.
func parseEnv(config *Config) {
	if v, ok := os.LookupEnv("ACCOUNT_CREATOR_KEY"); ok {
		var key accountKeyJSON
		if err := json.Unmarshal([]byte(v), &key); err != nil {
			panic(err)
		}
		config.CreatorAccountID = key.AccountID
		config.CreatorPrivateKey = key.PrivateKey
	}

	if v, ok := os.LookupEnv("ACCOUNT_RECOVERY_KEY"); ok {
		var key accountKeyJSON
		if err := json.Unmarshal([]byte(v), &key); err != nil {
			panic(err)
		}
		config.RecoveryAccountID = key.AccountID
		config.RecoveryPrivateKey = key.PrivateKey
	}

	setIfPresent("ADDRESS", &config.EndpointAddr)
	setIfPresent("DATABASE_DSN", &config.DatabaseDSN)
	setIfPresent("APP_ENV", &config.Environment)
	setIfPresent("NODE_URL", &config.NodeURL)
	setIfPresent("NEW_ACCOUNT_AMOUNT", &config.NewAccountAmount)
	setIfPresent("TWILIO_ACCOUNT_SID", &config.TwilioAccountSID)
	setIfPresent("TWILIO_AUTH_TOKEN", &config.TwilioAuthToken)
	setIfPresent("TWILIO_FROM_PHONE", &config.TwilioFromPhone)
	setIfPresent("MAIL_HOST", &config.MailHost)
	setIfPresent("MAIL_USER", &config.MailUser)
	setIfPresent("MAIL_PASSWORD", &config.MailPassword)
	setIfPresent("MAIL_SENDER", &config.MailSender)
	setIfPresent("WALLET_URL", &config.WalletURL)

	if v, ok := os.LookupEnv("MAIL_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			panic(err)
		}
		config.MailPort = port
	}
}
