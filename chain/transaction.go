package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransactionData is an Ethereum transaction's host-visible fields,
// matching original_source/src/chain/ethereum/transaction.rs's
// EthereumTransactionData. To is nil for contract-creation transactions.
type TransactionData struct {
	Hash     common.Hash
	Index    uint64
	From     common.Address
	To       *common.Address
	Value    *big.Int
	GasLimit *big.Int
	GasPrice *big.Int
	Input    []byte
	Nonce    *big.Int
}

// TransactionReceipt is an Ethereum transaction receipt's host-visible
// fields, matching AscEthereumTransactionReceipt in
// original_source/src/chain/ethereum/transaction.rs. BlockHash,
// BlockNumber, GasUsed, ContractAddress, Status and Root are optional on
// the wire depending on the provider/fork.
type TransactionReceipt struct {
	TransactionHash   common.Hash
	TransactionIndex  uint64
	BlockHash         *common.Hash
	BlockNumber       *big.Int
	CumulativeGasUsed *big.Int
	GasUsed           *big.Int
	ContractAddress   *common.Address
	Logs              []Log
	Status            *big.Int
	Root              *common.Hash
	LogsBloom         []byte
}
