/* ledger.go
 * Contains the client used to write a quiz result to the result contract on an EVM chain. The contract exposes
 * saveResult(string) and emits ResultSaved(address indexed user, string l2Result).
 */

package external

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/ethclient"
)

// ResultContractABI is the ABI of the result contract
const ResultContractABI = `[
	{"type":"function","name":"saveResult","stateMutability":"nonpayable",
	 "inputs":[{"name":"_l2Result","type":"string"}],"outputs":[]},
	{"type":"event","name":"ResultSaved","anonymous":false,
	 "inputs":[{"name":"user","type":"address","indexed":true},{"name":"l2Result","type":"string","indexed":false}]}
]`

// DefaultContractAddress is the deployed result contract on Base mainnet
const DefaultContractAddress = "0xb1efcfedf8ecf8dd971b7f9d9212059f0b088f68"

const saveResultMethod = "saveResult"

// Ledger records a result on chain and returns the transaction hash
type Ledger interface {
	SaveResult(ctx context.Context, result string) (string, error)
}

// LedgerConfig holds the settings used to dial the chain and sign transactions
type LedgerConfig struct {
	RPCURL          string
	ContractAddress string
	PrivateKey      string
}

// transactor is the subset of bind.BoundContract the ledger uses
type transactor interface {
	Transact(opts *bind.TransactOpts, method string, params ...interface{}) (*types.Transaction, error)
}

type waitMinedFunc func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)

// EthLedger writes results through a bound contract signed with a server side key
type EthLedger struct {
	contract  transactor
	opts      *bind.TransactOpts
	waitMined waitMinedFunc
	client    *ethclient.Client
}

var _ Ledger = (*EthLedger)(nil)

// NewEthLedger dials the RPC endpoint, binds the result contract and prepares a keyed transactor for the chain
// reported by the endpoint.
// Preconditions: cfg has an RPC url and a hex encoded private key
// Postconditions: returns ErrNotConfigured if either is missing
func NewEthLedger(ctx context.Context, cfg LedgerConfig) (*EthLedger, error) {
	if cfg.RPCURL == "" || cfg.PrivateKey == "" {
		return nil, ErrNotConfigured
	}
	if cfg.ContractAddress == "" {
		cfg.ContractAddress = DefaultContractAddress
	}
	if !common.IsHexAddress(cfg.ContractAddress) {
		return nil, fmt.Errorf("invalid contract address %q", cfg.ContractAddress)
	}

	key, err := crypto.HexToECDSA(strings.TrimPrefix(cfg.PrivateKey, "0x"))
	if err != nil {
		return nil, fmt.Errorf("error parsing private key: %w", err)
	}

	client, err := ethclient.DialContext(ctx, cfg.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("error dialing rpc endpoint: %w", err)
	}

	chainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error fetching chain id: %w", err)
	}

	parsed, err := abi.JSON(strings.NewReader(ResultContractABI))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error parsing contract abi: %w", err)
	}

	opts, err := bind.NewKeyedTransactorWithChainID(key, chainID)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("error creating transactor: %w", err)
	}

	contract := bind.NewBoundContract(common.HexToAddress(cfg.ContractAddress), parsed, client, client, client)
	log.Printf("Ledger ready: chain %s, contract %s, signer %s", chainID, cfg.ContractAddress, opts.From.Hex())

	return &EthLedger{
		contract: contract,
		opts:     opts,
		client:   client,
		waitMined: func(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
			return bind.WaitMined(ctx, client, tx)
		},
	}, nil
}

// SaveResult submits saveResult(result) and waits for the transaction to be mined.
// Postconditions: returns the transaction hash, or ErrUserRejected if the signer refused the transaction
func (l *EthLedger) SaveResult(ctx context.Context, result string) (string, error) {
	opts := *l.opts
	opts.Context = ctx

	tx, err := l.contract.Transact(&opts, saveResultMethod, result)
	if err != nil {
		if errors.Is(err, bind.ErrNotAuthorized) {
			return "", fmt.Errorf("%w: %v", ErrUserRejected, err)
		}
		return "", fmt.Errorf("error submitting transaction: %w", err)
	}

	receipt, err := l.waitMined(ctx, tx)
	if err != nil {
		return tx.Hash().Hex(), fmt.Errorf("error waiting for transaction %s: %w", tx.Hash().Hex(), err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return tx.Hash().Hex(), fmt.Errorf("transaction %s reverted", tx.Hash().Hex())
	}

	return tx.Hash().Hex(), nil
}

// Close releases the RPC connection
func (l *EthLedger) Close() {
	if l.client != nil {
		l.client.Close()
	}
}
