package jsonrpc

import (
	"encoding/hex"
	"strings"

	"github.com/tronwallet/walletgo/common"
)

// Ledger methods. Builders take the contract parameter of their kind and
// return an unsigned transaction.
const (
	MethodGetAccount       = "wallet_getAccount"
	MethodListAccounts     = "wallet_listAccounts"
	MethodListWitnesses    = "wallet_listWitnesses"
	MethodListNodes        = "wallet_listNodes"
	MethodGetNowBlock      = "wallet_getNowBlock"
	MethodGetBlockByNum    = "wallet_getBlockByNum"
	MethodGetBlockByID     = "wallet_getBlockById"
	MethodGetBlockByLimit  = "wallet_getBlockByLimitNext"
	MethodGetBlockByLatest = "wallet_getBlockByLatestNum"

	MethodGetAssetIssueList            = "wallet_getAssetIssueList"
	MethodGetAssetIssueByAccount       = "wallet_getAssetIssueByAccount"
	MethodGetAssetIssueByName          = "wallet_getAssetIssueByName"
	MethodGetAssetIssueListByTimestamp = "wallet_getAssetIssueListByTimestamp"

	MethodGetTransactionByID         = "wallet_getTransactionById"
	MethodGetTransactionsFromThis    = "wallet_getTransactionsFromThis"
	MethodGetTransactionsToThis      = "wallet_getTransactionsToThis"
	MethodGetTransactionsByTimestamp = "wallet_getTransactionsByTimestamp"
	MethodTotalTransaction           = "wallet_totalTransaction"

	MethodCreateTransaction     = "wallet_createTransaction"
	MethodTransferAsset         = "wallet_transferAsset"
	MethodParticipateAssetIssue = "wallet_participateAssetIssue"
	MethodFreezeBalance         = "wallet_freezeBalance"
	MethodUnfreezeBalance       = "wallet_unfreezeBalance"
	MethodUnfreezeAsset         = "wallet_unfreezeAsset"
	MethodWithdrawBalance       = "wallet_withdrawBalance"
	MethodVoteWitnessAccount    = "wallet_voteWitnessAccount"
	MethodCreateAssetIssue      = "wallet_createAssetIssue"
	MethodCreateWitness         = "wallet_createWitness"
	MethodUpdateAccount         = "wallet_updateAccount"
	MethodBroadcastTransaction  = "wallet_broadcastTransaction"
)

type AddressParam struct {
	Address Address `json:"address" validate:"required,t_addr"`
}

type BlockNumParam struct {
	Num int64 `json:"num"`
}

type IDParam struct {
	ID string `json:"id" validate:"required,t_hash"`
}

type BlockRangeParam struct {
	Start int64 `json:"start" validate:"gte=0"`
	End   int64 `json:"end" validate:"gtfield=Start"`
}

type LimitParam struct {
	Limit int64 `json:"limit" validate:"gt=0"`
}

type NameParam struct {
	Name string `json:"name" validate:"required"`
}

type TimeRangeParam struct {
	Start int64 `json:"start" validate:"gte=0"`
	End   int64 `json:"end" validate:"gtefield=Start"`
}

type TimestampParam struct {
	Timestamp int64 `json:"timestamp" validate:"gte=0"`
}

// TransactionMessage carries a wire encoded transaction.
type TransactionMessage struct {
	Raw string `json:"raw" validate:"required,t_hex"`
}

func NewTransactionMessage(raw []byte) *TransactionMessage {
	return &TransactionMessage{Raw: hex.EncodeToString(raw)}
}

func (m *TransactionMessage) Bytes() ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(m.Raw, "0x"))
}

type NumberMessage struct {
	Num int64 `json:"num"`
}

type Return struct {
	Result  bool       `json:"result"`
	Code    ReturnCode `json:"code"`
	Message string     `json:"message,omitempty"`
}

type Vote struct {
	VoteAddress Address `json:"vote_address"`
	VoteCount   int64   `json:"vote_count"`
}

type Frozen struct {
	FrozenBalance int64 `json:"frozen_balance"`
	ExpireTime    int64 `json:"expire_time"`
}

type Account struct {
	Address       Address          `json:"address"`
	AccountName   string           `json:"account_name,omitempty"`
	Type          int32            `json:"type"`
	Balance       int64            `json:"balance"`
	Votes         []Vote           `json:"votes,omitempty"`
	Assets        map[string]int64 `json:"asset,omitempty"`
	Frozen        []Frozen         `json:"frozen,omitempty"`
	NetUsage      int64            `json:"net_usage"`
	CreateTime    int64            `json:"create_time"`
	LatestOprTime int64            `json:"latest_opration_time"`
	Allowance     int64            `json:"allowance"`
	IsWitness     bool             `json:"is_witness"`
}

type Witness struct {
	Address        Address         `json:"address"`
	VoteCount      int64           `json:"vote_count"`
	PubKey         common.HexBytes `json:"pub_key,omitempty"`
	URL            string          `json:"url"`
	TotalProduced  int64           `json:"total_produced"`
	TotalMissed    int64           `json:"total_missed"`
	LatestBlockNum int64           `json:"latest_block_num"`
	IsJobs         bool            `json:"is_jobs"`
}

type Node struct {
	Host string `json:"host"`
	Port int32  `json:"port"`
}

type BlockHeader struct {
	Number         int64           `json:"number"`
	Timestamp      int64           `json:"timestamp"`
	ParentHash     common.HexBytes `json:"parent_hash"`
	TxTrieRoot     common.HexBytes `json:"tx_trie_root"`
	WitnessAddress Address         `json:"witness_address"`
}

type Block struct {
	ID           common.HexBytes `json:"block_id"`
	Header       BlockHeader     `json:"block_header"`
	Transactions []string        `json:"transactions,omitempty"`
}

type AssetIssue struct {
	OwnerAddress Address `json:"owner_address"`
	Name         string  `json:"name"`
	TotalSupply  int64   `json:"total_supply"`
	TrxNum       int32   `json:"trx_num"`
	Num          int32   `json:"num"`
	StartTime    int64   `json:"start_time"`
	EndTime      int64   `json:"end_time"`
	VoteScore    int32   `json:"vote_score"`
	Description  string  `json:"description,omitempty"`
	URL          string  `json:"url,omitempty"`
}
