package transaction

import (
	"fmt"

	"github.com/vmihailenco/msgpack/v4"

	"github.com/tronwallet/walletgo/common"
	"github.com/tronwallet/walletgo/common/errors"
)

type ContractType int32

const (
	AccountCreateContractType         ContractType = 0
	TransferContractType              ContractType = 1
	TransferAssetContractType         ContractType = 2
	VoteWitnessContractType           ContractType = 4
	WitnessCreateContractType         ContractType = 5
	AssetIssueContractType            ContractType = 6
	ParticipateAssetIssueContractType ContractType = 9
	AccountUpdateContractType         ContractType = 10
	FreezeBalanceContractType         ContractType = 11
	UnfreezeBalanceContractType       ContractType = 12
	WithdrawBalanceContractType       ContractType = 13
	UnfreezeAssetContractType         ContractType = 14
)

var contractNames = map[ContractType]string{
	AccountCreateContractType:         "AccountCreateContract",
	TransferContractType:              "TransferContract",
	TransferAssetContractType:         "TransferAssetContract",
	VoteWitnessContractType:           "VoteWitnessContract",
	WitnessCreateContractType:         "WitnessCreateContract",
	AssetIssueContractType:            "AssetIssueContract",
	ParticipateAssetIssueContractType: "ParticipateAssetIssueContract",
	AccountUpdateContractType:         "AccountUpdateContract",
	FreezeBalanceContractType:         "FreezeBalanceContract",
	UnfreezeBalanceContractType:       "UnfreezeBalanceContract",
	WithdrawBalanceContractType:       "WithdrawBalanceContract",
	UnfreezeAssetContractType:         "UnfreezeAssetContract",
}

func (t ContractType) String() string {
	if name, ok := contractNames[t]; ok {
		return name
	}
	return fmt.Sprintf("ContractType(%d)", int32(t))
}

// Parameter is the typed body of a contract.
type Parameter interface {
	ContractType() ContractType
	// Owner returns the address of the account running the contract.
	Owner() []byte
}

// Contract is one operation of a transaction. Parameter holds the encoded
// body whose layout is selected by Type.
type Contract struct {
	_msgpack struct{} `msgpack:",asArray"`

	Type      ContractType    `json:"type"`
	Parameter common.HexBytes `json:"parameter"`
}

func NewContract(p Parameter) (Contract, error) {
	bs, err := msgpack.Marshal(p)
	if err != nil {
		return Contract{}, errors.IllegalArgumentError.Wrapf(err,
			"encode %s", p.ContractType())
	}
	return Contract{Type: p.ContractType(), Parameter: bs}, nil
}

var parameterFactories = map[ContractType]func() Parameter{
	AccountCreateContractType:         func() Parameter { return new(AccountCreateContract) },
	TransferContractType:              func() Parameter { return new(TransferContract) },
	TransferAssetContractType:         func() Parameter { return new(TransferAssetContract) },
	VoteWitnessContractType:           func() Parameter { return new(VoteWitnessContract) },
	WitnessCreateContractType:         func() Parameter { return new(WitnessCreateContract) },
	AssetIssueContractType:            func() Parameter { return new(AssetIssueContract) },
	ParticipateAssetIssueContractType: func() Parameter { return new(ParticipateAssetIssueContract) },
	AccountUpdateContractType:         func() Parameter { return new(AccountUpdateContract) },
	FreezeBalanceContractType:         func() Parameter { return new(FreezeBalanceContract) },
	UnfreezeBalanceContractType:       func() Parameter { return new(UnfreezeBalanceContract) },
	WithdrawBalanceContractType:       func() Parameter { return new(WithdrawBalanceContract) },
	UnfreezeAssetContractType:         func() Parameter { return new(UnfreezeAssetContract) },
}

// Decode returns the typed parameter of the contract.
func (c *Contract) Decode() (Parameter, error) {
	factory, ok := parameterFactories[c.Type]
	if !ok {
		return nil, errors.UnsupportedError.Errorf("unknown contract type %d", c.Type)
	}
	p := factory()
	if err := msgpack.Unmarshal(c.Parameter, p); err != nil {
		return nil, errors.MalformedBytesError.Wrapf(err, "decode %s", c.Type)
	}
	return p, nil
}

type AccountCreateContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address"`
	AccountName  common.HexBytes `json:"account_name"`
	AccountType  int32           `json:"type"`
}

func (*AccountCreateContract) ContractType() ContractType { return AccountCreateContractType }

func (c *AccountCreateContract) Owner() []byte { return c.OwnerAddress }

type TransferContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	ToAddress    common.HexBytes `json:"to_address" validate:"required,len=21"`
	Amount       int64           `json:"amount" validate:"gt=0"`
}

func (*TransferContract) ContractType() ContractType { return TransferContractType }

func (c *TransferContract) Owner() []byte { return c.OwnerAddress }

type TransferAssetContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	AssetName    common.HexBytes `json:"asset_name" validate:"required"`
	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	ToAddress    common.HexBytes `json:"to_address" validate:"required,len=21"`
	Amount       int64           `json:"amount" validate:"gt=0"`
}

func (*TransferAssetContract) ContractType() ContractType { return TransferAssetContractType }

func (c *TransferAssetContract) Owner() []byte { return c.OwnerAddress }

type ParticipateAssetIssueContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	ToAddress    common.HexBytes `json:"to_address" validate:"required,len=21"`
	AssetName    common.HexBytes `json:"asset_name" validate:"required"`
	Amount       int64           `json:"amount" validate:"gt=0"`
}

func (*ParticipateAssetIssueContract) ContractType() ContractType {
	return ParticipateAssetIssueContractType
}

func (c *ParticipateAssetIssueContract) Owner() []byte { return c.OwnerAddress }

type Vote struct {
	_msgpack struct{} `msgpack:",asArray"`

	VoteAddress common.HexBytes `json:"vote_address" validate:"required,len=21"`
	VoteCount   int64           `json:"vote_count" validate:"gt=0"`
}

type VoteWitnessContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	Votes        []Vote          `json:"votes" validate:"dive"`
}

func (*VoteWitnessContract) ContractType() ContractType { return VoteWitnessContractType }

func (c *VoteWitnessContract) Owner() []byte { return c.OwnerAddress }

type WitnessCreateContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	URL          common.HexBytes `json:"url" validate:"required"`
}

func (*WitnessCreateContract) ContractType() ContractType { return WitnessCreateContractType }

func (c *WitnessCreateContract) Owner() []byte { return c.OwnerAddress }

type FrozenSupply struct {
	_msgpack struct{} `msgpack:",asArray"`

	FrozenAmount int64 `json:"frozen_amount"`
	FrozenDays   int64 `json:"frozen_days"`
}

type AssetIssueContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
	Name         common.HexBytes `json:"name" validate:"required"`
	TotalSupply  int64           `json:"total_supply" validate:"gt=0"`
	FrozenSupply []FrozenSupply  `json:"frozen_supply,omitempty"`
	TrxNum       int32           `json:"trx_num" validate:"gt=0"`
	Num          int32           `json:"num" validate:"gt=0"`
	StartTime    int64           `json:"start_time"`
	EndTime      int64           `json:"end_time" validate:"gtfield=StartTime"`
	VoteScore    int32           `json:"vote_score"`
	Description  common.HexBytes `json:"description"`
	URL          common.HexBytes `json:"url"`
}

func (*AssetIssueContract) ContractType() ContractType { return AssetIssueContractType }

func (c *AssetIssueContract) Owner() []byte { return c.OwnerAddress }

type AccountUpdateContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	AccountName  common.HexBytes `json:"account_name" validate:"required"`
	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
}

func (*AccountUpdateContract) ContractType() ContractType { return AccountUpdateContractType }

func (c *AccountUpdateContract) Owner() []byte { return c.OwnerAddress }

type FreezeBalanceContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress   common.HexBytes `json:"owner_address" validate:"required,len=21"`
	FrozenBalance  int64           `json:"frozen_balance" validate:"gt=0"`
	FrozenDuration int64           `json:"frozen_duration" validate:"gt=0"`
}

func (*FreezeBalanceContract) ContractType() ContractType { return FreezeBalanceContractType }

func (c *FreezeBalanceContract) Owner() []byte { return c.OwnerAddress }

type UnfreezeBalanceContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
}

func (*UnfreezeBalanceContract) ContractType() ContractType { return UnfreezeBalanceContractType }

func (c *UnfreezeBalanceContract) Owner() []byte { return c.OwnerAddress }

type WithdrawBalanceContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
}

func (*WithdrawBalanceContract) ContractType() ContractType { return WithdrawBalanceContractType }

func (c *WithdrawBalanceContract) Owner() []byte { return c.OwnerAddress }

type UnfreezeAssetContract struct {
	_msgpack struct{} `msgpack:",asArray"`

	OwnerAddress common.HexBytes `json:"owner_address" validate:"required,len=21"`
}

func (*UnfreezeAssetContract) ContractType() ContractType { return UnfreezeAssetContractType }

func (c *UnfreezeAssetContract) Owner() []byte { return c.OwnerAddress }

// NewVoteWitnessContract builds a vote from base58 witness addresses.
// Addresses that don't decode on net are skipped.
func NewVoteWitnessContract(owner *common.Address, net *common.Network, votes map[string]int64) *VoteWitnessContract {
	c := &VoteWitnessContract{OwnerAddress: owner.Bytes()}
	for _, text := range sortedKeys(votes) {
		addr, err := net.DecodeAddress(text)
		if err != nil {
			logger.Warnf("skip vote for %q: %v", text, err)
			continue
		}
		c.Votes = append(c.Votes, Vote{
			VoteAddress: addr.Bytes(),
			VoteCount:   votes[text],
		})
	}
	return c
}
