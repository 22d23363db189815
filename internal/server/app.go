// Package server wires the account helper together: configuration,
// storage, the blockchain client, message transports and the HTTP
// endpoint, with graceful shutdown on OS signals.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"math/big"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/accounthelper/internal/common"
	"github.com/dmitrijs2005/accounthelper/internal/logging"
	"github.com/dmitrijs2005/accounthelper/internal/near"
	"github.com/dmitrijs2005/accounthelper/internal/server/config"
	"github.com/dmitrijs2005/accounthelper/internal/server/httpapi"
	"github.com/dmitrijs2005/accounthelper/internal/server/notify"
	"github.com/dmitrijs2005/accounthelper/internal/server/recovery"
	"github.com/dmitrijs2005/accounthelper/internal/server/shared/db"
)

type App struct {
	config          *config.Config
	logger          logging.Logger
	recoveryService *recovery.Service
}

func NewApp(c *config.Config) (*App, error) {

	slog := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(slog)

	m, err := db.NewPostgresRepositoryManager(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	creator, err := near.ParseKeyPair(c.CreatorPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("creator key: %w", err)
	}
	recoveryKey, err := near.ParseKeyPair(c.RecoveryPrivateKey)
	if err != nil {
		return nil, fmt.Errorf("recovery key: %w", err)
	}

	amount, ok := new(big.Int).SetString(c.NewAccountAmount, 10)
	if !ok {
		return nil, fmt.Errorf("%w: invalid new account amount %q", common.ErrValidation, c.NewAccountAmount)
	}

	client := near.NewClient(c.NodeURL, c.CreatorAccountID, creator, c.RecoveryAccountID, recoveryKey, logger)

	dispatcher := newDispatcher(c, logger)

	rs := recovery.NewService(m.Accounts(), client, dispatcher, client.RecoveryPublicKey(), amount, c.WalletURL, logger)

	return &App{config: c, logger: logger, recoveryService: rs}, nil
}

// newDispatcher selects real transports in production and the logging
// transport everywhere else, so development never sends SMS or email.
func newDispatcher(c *config.Config, logger logging.Logger) notify.Dispatcher {
	if c.IsProduction() {
		sms := notify.NewTwilioSender(c.TwilioAccountSID, c.TwilioAuthToken, c.TwilioFromPhone)
		mail := notify.NewSMTPSender(c.MailHost, c.MailPort, c.MailUser, c.MailPassword, c.MailSender)
		return notify.NewNotifier(sms, mail)
	}
	sender := notify.NewLogSender(logger)
	return notify.NewNotifier(sender, sender)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s, err := httpapi.NewServer(app.config.EndpointAddr, app.logger, app.recoveryService)

	if err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	} else {

		if err := s.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

}
