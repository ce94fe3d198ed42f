package main

import (
	"context"
	"fmt"

	"barkboard/internal/board"
	"barkboard/internal/config"
	"barkboard/internal/grants"
	"barkboard/internal/portal"
	"barkboard/internal/wallet"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose bool
	demo    bool
	version = "dev"
	commit  = "unknown"
)

// demoAccount signs every interaction in demo mode.
var demoAccount = common.HexToAddress("0x000000000000000000000000000000000000dEaD")

var rootCmd = &cobra.Command{
	Use:   "barkboard",
	Short: "Bark and meow at a message board contract",
	Long: `barkboard serves a one-page message board backed by a WavePortal contract.

Visitors connect a wallet, send "bark" or "meow" transactions with a message,
and see the running totals and every interaction recorded on chain.

Configuration comes from deployments.json and the environment (a .env file is
read when present). Without CHAIN_RPC_URL and CHAIN_PRIVATE_KEY the board runs
with no wallet provider; --demo swaps in an in-memory contract instead.`,
	Version:       fmt.Sprintf("%s (commit: %s)", version, commit),
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&demo, "demo", false, "Use an in-memory contract and an auto-approving wallet")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
	rootCmd.AddCommand(serveCmd, statusCmd)
}

func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// loadConfig reads .env (if any) before the environment is consulted.
func loadConfig(log *zap.Logger) (*config.AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file found, using environment variables")
	}
	return config.Load()
}

// stack is everything the board needs to reach the chain.
type stack struct {
	client   *board.Client
	provider wallet.Provider
	grants   grants.Store
	closers  []func() error
}

func (s *stack) Close(log *zap.Logger) {
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i](); err != nil {
			log.Warn("close", zap.Error(err))
		}
	}
}

func buildStack(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (*stack, error) {
	s := &stack{}

	switch {
	case demo:
		contract := portal.NewFakeContract(demoAccount)
		s.provider = wallet.NewFakeProvider(demoAccount, contract)
		log.Info("demo mode: in-memory contract", zap.String("account", demoAccount.Hex()))

	case cfg.WalletEnabled():
		store, closeStore, err := grants.Open(ctx, cfg.Grants.Kind, cfg.GrantLocation())
		if err != nil {
			return nil, errors.Wrap(err, "grant store")
		}
		s.grants = store
		s.closers = append(s.closers, closeStore)

		provider, err := wallet.NewEthProvider(ctx, wallet.EthProviderConfig{
			RPCURL:              cfg.Chain.RPCURL,
			PrivateKeyHex:       cfg.Chain.PrivateKey,
			ContractAddress:     cfg.Chain.ContractAddress,
			Origin:              cfg.WalletOrigin(),
			Grants:              store,
			ReceiptPollInterval: cfg.Chain.ReceiptPollInterval,
		})
		if err != nil {
			s.Close(log)
			return nil, errors.Wrap(err, "wallet provider")
		}
		s.provider = provider
		s.closers = append(s.closers, func() error { provider.Close(); return nil })
		log.Info("wallet provider ready",
			zap.String("account", provider.Account().Hex()),
			zap.String("contract", cfg.Chain.ContractAddress),
			zap.String("grants", cfg.Grants.Kind))

	default:
		log.Warn("no wallet provider configured; set CHAIN_RPC_URL and CHAIN_PRIVATE_KEY")
	}

	s.client = board.NewClient(s.provider, log.Named("board"), board.Config{
		RefreshOnConnect: cfg.Service.RefreshOnConnect,
	})
	return s, nil
}
