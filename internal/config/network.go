package config

import (
	_ "embed"
	"errors"
	"fmt"
	"math/big"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"

	"github.com/osse101/lotto/internal/domain"
	"github.com/osse101/lotto/internal/validation"
)

const networksSchemaName = "networks.schema.json"

//go:embed networks.schema.json
var networksSchema []byte

var (
	schemaOnce      sync.Once
	schemaValidator validation.SchemaValidator
	schemaErr       error
)

func networksValidator() (validation.SchemaValidator, error) {
	schemaOnce.Do(func() {
		schemaValidator = validation.NewSchemaValidator()
		schemaErr = schemaValidator.AddSchema(networksSchemaName, networksSchema)
	})
	return schemaValidator, schemaErr
}

// NetworkProfile holds the pool parameters for one chain
type NetworkProfile struct {
	Name                   string `toml:"-"`
	ChainID                uint64 `toml:"chain_id" validate:"required"`
	Local                  bool   `toml:"local"`
	EntranceFee            string `toml:"entrance_fee" validate:"required,numeric"`
	GasLane                string `toml:"gas_lane" validate:"required,startswith=0x,len=66,hexadecimal"`
	KeepersUpdateInterval  uint64 `toml:"keepers_update_interval" validate:"required"`
	CallbackGasLimit       uint32 `toml:"callback_gas_limit" validate:"required"`
	RequestConfirmations   uint16 `toml:"request_confirmations" validate:"required"`
	NumWords               uint32 `toml:"num_words" validate:"required"`
	VRFCoordinator         string `toml:"vrf_coordinator" validate:"required_unless=Local true,omitempty,eth_addr"`
	SubscriptionID         uint64 `toml:"subscription_id"`
	SubscriptionFundAmount string `toml:"subscription_fund_amount" validate:"omitempty,numeric"`
}

type networksFile struct {
	Networks map[string]NetworkProfile `toml:"networks"`
}

// LoadNetworks reads every profile in path keyed by network name
func LoadNetworks(path string) (map[string]NetworkProfile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadNetworks, path, err)
	}

	// the schema catches unknown keys and shape errors the struct decode would ignore
	raw := map[string]interface{}{}
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadNetworks, path, err)
	}
	sv, err := networksValidator()
	if err != nil {
		return nil, err
	}
	if err := sv.Validate(networksSchemaName, raw); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgInvalidNetwork, path, err)
	}

	var file networksFile
	if _, err := toml.Decode(string(data), &file); err != nil {
		return nil, fmt.Errorf("%s %s: %w", ErrMsgReadNetworks, path, err)
	}

	v := validator.New()
	for name, p := range file.Networks {
		p.Name = name
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("%s %q: %w", ErrMsgInvalidNetwork, name, err)
		}
		file.Networks[name] = p
	}
	return file.Networks, nil
}

// LoadNetwork reads path and returns the profile called name
func LoadNetwork(path, name string) (*NetworkProfile, error) {
	networks, err := LoadNetworks(path)
	if err != nil {
		return nil, err
	}
	p, ok := networks[name]
	if !ok {
		names := make([]string, 0, len(networks))
		for n := range networks {
			names = append(names, n)
		}
		sort.Strings(names)
		return nil, fmt.Errorf("%s %q (known: %v)", ErrMsgUnknownNetwork, name, names)
	}
	return &p, nil
}

// LoadNetwork resolves the profile named by NETWORK
func (c *Config) LoadNetwork() (*NetworkProfile, error) {
	return LoadNetwork(c.NetworkConfigPath, c.Network)
}

// PoolConfig converts the profile into pool parameters. coordinator
// replaces the profile's coordinator on local networks where it is only
// known once the mock is deployed; subID likewise.
func (p *NetworkProfile) PoolConfig(coordinator common.Address, subID uint64) (domain.PoolConfig, error) {
	fee, ok := new(big.Int).SetString(p.EntranceFee, 10)
	if !ok || fee.Sign() < 0 {
		return domain.PoolConfig{}, errors.New(ErrMsgInvalidEntranceFee)
	}
	if !p.Local {
		coordinator = common.HexToAddress(p.VRFCoordinator)
		subID = p.SubscriptionID
	}
	return domain.PoolConfig{
		EntryFee:             fee,
		Interval:             time.Duration(p.KeepersUpdateInterval) * time.Second,
		Coordinator:          coordinator,
		KeyHash:              common.HexToHash(p.GasLane),
		SubscriptionID:       subID,
		RequestConfirmations: p.RequestConfirmations,
		CallbackGasLimit:     p.CallbackGasLimit,
		NumWords:             p.NumWords,
	}, nil
}

// FundAmount is the amount a freshly created local subscription is funded with
func (p *NetworkProfile) FundAmount() (*big.Int, error) {
	if p.SubscriptionFundAmount == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(p.SubscriptionFundAmount, 10)
	if !ok || v.Sign() < 0 {
		return nil, errors.New(ErrMsgInvalidFundAmount)
	}
	return v, nil
}
