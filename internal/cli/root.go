// Package cli реализует витрину astroshop: корзину, вход, карусель услуг и проверку доступа к представлениям.
package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mmeshcher/astrostore/internal/apiclient"
	"github.com/mmeshcher/astrostore/internal/carousel"
	"github.com/mmeshcher/astrostore/internal/config"
	"github.com/mmeshcher/astrostore/internal/model"
	"github.com/mmeshcher/astrostore/internal/session"
	"github.com/mmeshcher/astrostore/internal/storage"
)

// API описывает обращения витрины к серверу магазина.
type API interface {
	carousel.Fetcher
	session.Authenticator
	Register(ctx context.Context, creds session.Credentials) (string, session.User, error)
	ListServices(ctx context.Context) ([]model.ServiceDescriptor, error)
	GetService(ctx context.Context, id string) (*model.ServiceDescriptor, error)
	Prices(ctx context.Context) (map[string]model.Money, error)
}

// RootOptions содержит общие флаги и зависимости всех команд.
type RootOptions struct {
	Config config.ClientConfig

	newAPI      func(addr string) API
	openStorage func(cfg config.ClientConfig) (storage.Storage, error)

	logger *zap.Logger
	api    API
}

// NewRootCommand создаёт корневую команду витрины.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{
		Config: config.DefaultClient(),
		newAPI: func(addr string) API {
			return apiclient.NewClient(addr)
		},
		openStorage: openStorage,
	})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "astroshop",
		Short: "Astrology, numerology and Vastu storefront",
		Long: `Storefront client for the astrostore API.

Cart and session are kept locally under one key and survive restarts.
Set REDIS_URL to share them between machines instead of the local state file.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.init()
		},
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&opts.Config.Verbose, "verbose", "v", false, "verbose output")
	flags.StringVar(&opts.Config.APIAddress, "api", opts.Config.APIAddress, "astrostore API address")
	flags.StringVar(&opts.Config.StateFile, "state", opts.Config.StateFile, "local state file")
	flags.StringVar(&opts.Config.RedisURL, "redis", "", "Redis URL for shared state (overrides --state)")
	flags.Float64Var(&opts.Config.TaxRate, "tax-rate", opts.Config.TaxRate, "tax rate applied to the cart subtotal")
	flags.DurationVar(&opts.Config.CarouselInterval, "interval", opts.Config.CarouselInterval, "carousel auto-advance interval")

	cmd.AddCommand(NewServicesCommand(opts))
	cmd.AddCommand(NewServiceCommand(opts))
	cmd.AddCommand(NewCartCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewViewCommand(opts))

	return cmd
}

// init применяет переменные окружения поверх флагов и готовит логгер и клиент API.
func (o *RootOptions) init() error {
	if err := o.Config.ApplyEnv(); err != nil {
		return err
	}

	if o.Config.Verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		o.logger = logger
	} else {
		o.logger = zap.NewNop()
	}

	o.api = o.newAPI(o.Config.APIAddress)
	return nil
}

// withState открывает хранилище, восстанавливает состояние и закрывает хранилище после fn.
func (o *RootOptions) withState(ctx context.Context, fn func(s *session.State) error) (err error) {
	st, err := o.openStorage(o.Config)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, st.Close())
	}()

	state := session.NewState(st, o.logger)
	if err := state.Load(ctx); err != nil {
		return err
	}
	return fn(state)
}

func openStorage(cfg config.ClientConfig) (storage.Storage, error) {
	if cfg.RedisURL != "" {
		return storage.NewRedisStorage(cfg.RedisURL, 0)
	}
	return storage.NewBoltStorage(cfg.StateFile)
}
