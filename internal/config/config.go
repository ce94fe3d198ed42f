package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/ethereum/go-ethereum/common"
	"gopkg.in/yaml.v3"
)

// DefaultContractAddress is the WavePortal deployment the board was built for.
const DefaultContractAddress = "0x9ed32145f3771164328eb33Cd78e975030a9357f"

// DeploymentConfig represents deployments.json. YAML is accepted too.
type DeploymentConfig struct {
	ChainID   int64  `yaml:"chainId"`
	Network   string `yaml:"network"`
	RPCURL    string `yaml:"rpcUrl"`
	Contracts struct {
		WavePortal string `yaml:"WavePortal"`
	} `yaml:"contracts"`
}

// AppConfig ties together deployment info and environment values.
type AppConfig struct {
	Deployment DeploymentConfig
	Service    ServiceConfig
	Chain      ChainConfig
	Grants     GrantsConfig
}

type ServiceConfig struct {
	HTTPPort         int
	PageTTL          time.Duration
	RefreshOnConnect bool
	ShutdownTimeout  time.Duration
}

type ChainConfig struct {
	RPCURL              string
	PrivateKey          string
	ContractAddress     string
	ReceiptPollInterval time.Duration
	// Origin identifies this site to the wallet when recording grants. Empty
	// means the local address the server listens on; see WalletOrigin.
	Origin string
}

type GrantsConfig struct {
	Kind string
	Path string
	DSN  string
}

const defaultDeploymentsPath = "deployments.json"

// Load aggregates configuration from disk and environment. A missing
// deployments file is not an error: the built-in contract address is used.
func Load() (*AppConfig, error) {
	deploymentsPath := envOr("DEPLOYMENTS_PATH", defaultDeploymentsPath)

	deployCfg, err := loadDeployments(deploymentsPath)
	if err != nil {
		return nil, errors.Wrap(err, "load deployments")
	}

	contract := deployCfg.Contracts.WavePortal
	if contract == "" {
		contract = DefaultContractAddress
	}

	port := envOrInt("API_HTTP_PORT", 3000)
	cfg := &AppConfig{
		Deployment: *deployCfg,
		Service: ServiceConfig{
			HTTPPort:         port,
			PageTTL:          envOrDuration("PAGE_TTL", 30*time.Minute),
			RefreshOnConnect: envOrBool("REFRESH_ON_CONNECT", false),
			ShutdownTimeout:  envOrDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Chain: ChainConfig{
			RPCURL:              envOr("CHAIN_RPC_URL", deployCfg.RPCURL),
			PrivateKey:          envOr("CHAIN_PRIVATE_KEY", ""),
			ContractAddress:     envOr("CONTRACT_ADDRESS", contract),
			ReceiptPollInterval: envOrDuration("RECEIPT_POLL_INTERVAL", 2*time.Second),
			Origin:              envOr("WALLET_ORIGIN", ""),
		},
		Grants: GrantsConfig{
			Kind: envOr("GRANT_STORE", "memory"),
			Path: envOr("GRANT_STORE_PATH", "./data/grants.db"),
			DSN:  envOr("GRANT_STORE_DSN", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail late.
func (c *AppConfig) Validate() error {
	if c.Service.HTTPPort < 0 {
		return errors.Newf("API_HTTP_PORT must be >= 0, got %d", c.Service.HTTPPort)
	}
	if c.Service.PageTTL <= 0 {
		return errors.New("PAGE_TTL must be > 0")
	}
	if c.Chain.ReceiptPollInterval <= 0 {
		return errors.New("RECEIPT_POLL_INTERVAL must be > 0")
	}
	if !common.IsHexAddress(c.Chain.ContractAddress) {
		return errors.Newf("invalid contract address %q", c.Chain.ContractAddress)
	}
	switch c.Grants.Kind {
	case "memory", "file", "sqlite":
	case "postgres":
		if c.Grants.DSN == "" {
			return errors.New("GRANT_STORE_DSN is required for the postgres grant store")
		}
	default:
		return errors.Newf("unknown GRANT_STORE %q", c.Grants.Kind)
	}
	return nil
}

// GrantLocation is the path or DSN the configured grant store opens.
func (c *AppConfig) GrantLocation() string {
	if c.Grants.Kind == "postgres" {
		return c.Grants.DSN
	}
	return c.Grants.Path
}

// WalletEnabled reports whether enough is configured to sign transactions.
// WalletOrigin is the origin grants are keyed by. It is derived from the
// final HTTP port, so call it after flags have been applied.
func (c *AppConfig) WalletOrigin() string {
	if c.Chain.Origin != "" {
		return c.Chain.Origin
	}
	return fmt.Sprintf("http://localhost:%d", c.Service.HTTPPort)
}

func (c *AppConfig) WalletEnabled() bool {
	return c.Chain.PrivateKey != "" && c.Chain.RPCURL != ""
}

func loadDeployments(path string) (*DeploymentConfig, error) {
	var cfg DeploymentConfig
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return &cfg, nil
}

func envOr(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		if parsed, err := time.ParseDuration(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
