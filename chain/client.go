package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"

	"github.com/0x-tools/ordersim/domain"
)

// Caller is the subset of the node API the fetchers need. *ethclient.Client satisfies it.
type Caller interface {
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BlockNumber(ctx context.Context) (uint64, error)
}

var _ Caller = &ethclient.Client{}

// errUndecodableOutput marks return data that does not match the ABI, such as the empty output of an address without code.
var errUndecodableOutput = errors.New("undecodable call output")

// Contracts holds the addresses of the exchange and the asset proxies it transfers through.
type Contracts struct {
	Exchange     common.Address
	ERC20Proxy   common.Address
	ERC721Proxy  common.Address
	ERC1155Proxy common.Address
}

// NewContracts parses the configured contract addresses.
func NewContracts(config domain.ContractsConfig) (Contracts, error) {
	contracts := Contracts{}
	for _, entry := range []struct {
		name    string
		address string
		dest    *common.Address
	}{
		{"exchange", config.Exchange, &contracts.Exchange},
		{"erc20-proxy", config.ERC20Proxy, &contracts.ERC20Proxy},
		{"erc721-proxy", config.ERC721Proxy, &contracts.ERC721Proxy},
		{"erc1155-proxy", config.ERC1155Proxy, &contracts.ERC1155Proxy},
	} {
		if !common.IsHexAddress(entry.address) {
			return Contracts{}, fmt.Errorf("%s is not a valid address: %q", entry.name, entry.address)
		}
		*entry.dest = common.HexToAddress(entry.address)
	}
	return contracts, nil
}

// NewClient dials the node at rpcEndpoint and checks that it serves chainID.
func NewClient(ctx context.Context, rpcEndpoint string, chainID uint64) (*ethclient.Client, error) {
	client, err := ethclient.DialContext(ctx, rpcEndpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to RPC: %w", err)
	}

	actualChainID, err := client.ChainID(ctx)
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to get chain id: %w", err)
	}

	if !actualChainID.IsUint64() || actualChainID.Uint64() != chainID {
		client.Close()
		return nil, fmt.Errorf("node serves chain id %s, configured %d", actualChainID, chainID)
	}

	return client, nil
}

// call packs method with args, runs it against contract at blockNumber and unpacks the outputs.
// A nil blockNumber reads the latest state.
func call(ctx context.Context, caller Caller, contractABI abi.ABI, contract common.Address, blockNumber *big.Int, method string, args ...interface{}) ([]interface{}, error) {
	data, err := contractABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to pack %s: %w", method, err)
	}

	output, err := caller.CallContract(ctx, ethereum.CallMsg{
		To:   &contract,
		Data: data,
	}, blockNumber)
	if err != nil {
		return nil, domain.FetchError{Method: method, Err: err}
	}

	values, err := contractABI.Unpack(method, output)
	if err != nil {
		return nil, domain.FetchError{Method: method, Err: fmt.Errorf("%w: %w", errUndecodableOutput, err)}
	}

	if len(values) != 1 {
		return nil, domain.FetchError{Method: method, Err: fmt.Errorf("%w: expected 1 output, got %d", errUndecodableOutput, len(values))}
	}

	return values, nil
}

func callUint256(ctx context.Context, caller Caller, contractABI abi.ABI, contract common.Address, blockNumber *big.Int, method string, args ...interface{}) (*big.Int, error) {
	values, err := call(ctx, caller, contractABI, contract, blockNumber, method, args...)
	if err != nil {
		return nil, err
	}

	value, ok := values[0].(*big.Int)
	if !ok {
		return nil, domain.FetchError{Method: method, Err: fmt.Errorf("%w: unexpected output type %T", errUndecodableOutput, values[0])}
	}
	return value, nil
}

func callBool(ctx context.Context, caller Caller, contractABI abi.ABI, contract common.Address, blockNumber *big.Int, method string, args ...interface{}) (bool, error) {
	values, err := call(ctx, caller, contractABI, contract, blockNumber, method, args...)
	if err != nil {
		return false, err
	}

	value, ok := values[0].(bool)
	if !ok {
		return false, domain.FetchError{Method: method, Err: fmt.Errorf("%w: unexpected output type %T", errUndecodableOutput, values[0])}
	}
	return value, nil
}

func callAddress(ctx context.Context, caller Caller, contractABI abi.ABI, contract common.Address, blockNumber *big.Int, method string, args ...interface{}) (common.Address, error) {
	values, err := call(ctx, caller, contractABI, contract, blockNumber, method, args...)
	if err != nil {
		return common.Address{}, err
	}

	value, ok := values[0].(common.Address)
	if !ok {
		return common.Address{}, domain.FetchError{Method: method, Err: fmt.Errorf("%w: unexpected output type %T", errUndecodableOutput, values[0])}
	}
	return value, nil
}

// isRevert reports whether err carries revert data returned by the node.
func isRevert(err error) bool {
	var dataErr rpc.DataError
	return errors.As(err, &dataErr)
}

// isCallFailure reports whether the called contract itself failed: it reverted or returned data
// that does not decode. Such failures are deterministic at a block, unlike node or transport errors.
func isCallFailure(err error) bool {
	return isRevert(err) || errors.Is(err, errUndecodableOutput)
}
