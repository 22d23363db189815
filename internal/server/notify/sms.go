package notify

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/twilio/twilio-go"
	api "github.com/twilio/twilio-go/rest/api/v2010"
)

// TwilioSender sends SMS through the Twilio REST API.
type TwilioSender struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioSender(accountSID, authToken, fromPhone string) *TwilioSender {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &TwilioSender{client: client, from: fromPhone}
}

func (s *TwilioSender) SendSMS(ctx context.Context, to, text string) error {
	params := &api.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(s.from)
	params.SetBody(text)

	if _, err := s.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("%w: sending sms: %v", common.ErrUpstream, err)
	}
	return nil
}
