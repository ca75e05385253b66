package chain

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// EventData is a decoded Ethereum log event, matching
// original_source/src/chain/ethereum/event.rs's EthereumEventData: the log
// address/index, the containing block and transaction, and the decoded
// named parameters a datasource's event handler receives.
type EventData struct {
	Address             common.Address
	LogIndex            *big.Int
	TransactionLogIndex *big.Int
	LogType             *string
	Block               BlockData
	Transaction         TransactionData
	Params              []EventParam
}
