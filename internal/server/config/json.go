package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accounthelper/internal/flagx"
)

// JsonConfig is the intermediate DTO for reading JSON configuration
// files. Fields left out of the file keep their current values.
type JsonConfig struct {
	EndpointAddr string `json:"endpoint_addr"`
	DatabaseDSN  string `json:"database_dsn"`
	Environment  string `json:"environment"`

	NodeURL            string `json:"node_url"`
	CreatorAccountID   string `json:"creator_account_id"`
	CreatorPrivateKey  string `json:"creator_private_key"`
	RecoveryAccountID  string `json:"recovery_account_id"`
	RecoveryPrivateKey string `json:"recovery_private_key"`
	NewAccountAmount   string `json:"new_account_amount"`

	TwilioAccountSID string `json:"twilio_account_sid"`
	TwilioAuthToken  string `json:"twilio_auth_token"`
	TwilioFromPhone  string `json:"twilio_from_phone"`

	MailHost     string `json:"mail_host"`
	MailPort     int    `json:"mail_port"`
	MailUser     string `json:"mail_user"`
	MailPassword string `json:"mail_password"`
	MailSender   string `json:"mail_sender"`

	WalletURL string `json:"wallet_url"`
}

// parseJson loads configuration values from the JSON file given via the
// -c or -config flags. If neither flag is set, no file is loaded. An
// unreadable or invalid file panics.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	overlay := func(target *string, v string) {
		if v != "" {
			*target = v
		}
	}

	overlay(&config.EndpointAddr, c.EndpointAddr)
	overlay(&config.DatabaseDSN, c.DatabaseDSN)
	overlay(&config.Environment, c.Environment)
	overlay(&config.NodeURL, c.NodeURL)
	overlay(&config.CreatorAccountID, c.CreatorAccountID)
	overlay(&config.CreatorPrivateKey, c.CreatorPrivateKey)
	overlay(&config.RecoveryAccountID, c.RecoveryAccountID)
	overlay(&config.RecoveryPrivateKey, c.RecoveryPrivateKey)
	overlay(&config.NewAccountAmount, c.NewAccountAmount)
	overlay(&config.TwilioAccountSID, c.TwilioAccountSID)
	overlay(&config.TwilioAuthToken, c.TwilioAuthToken)
	overlay(&config.TwilioFromPhone, c.TwilioFromPhone)
	overlay(&config.MailHost, c.MailHost)
	overlay(&config.MailUser, c.MailUser)
	overlay(&config.MailPassword, c.MailPassword)
	overlay(&config.MailSender, c.MailSender)
	overlay(&config.WalletURL, c.WalletURL)

	if c.MailPort != 0 {
		config.MailPort = c.MailPort
	}
}
