package jsonrpc

import (
	"github.com/tronwallet/walletgo/common"
)

// Address is the text form of an account address. Base58Check is the
// canonical form; hex is accepted on input.
type Address string

func (addr Address) Address(net *common.Network) (*common.Address, error) {
	if hexAddressRegex.MatchString(string(addr)) {
		return net.DecodeHexAddress(string(addr))
	}
	return net.DecodeAddress(string(addr))
}

func AddressOf(addr *common.Address) Address {
	if addr == nil {
		return ""
	}
	return Address(addr.String())
}

// ReturnCode is the result code of a broadcast.
type ReturnCode int32

const (
	ReturnSuccess ReturnCode = iota
	ReturnSignatureError
	ReturnContractValidateError
	ReturnContractExecuteError
	ReturnBandwidthError
	ReturnDuplicateTransaction
	ReturnTaposError
	ReturnTooBigTransaction
	ReturnTransactionExpired
	ReturnServerBusy
	ReturnOtherError ReturnCode = 20
)

var returnCodeNames = map[ReturnCode]string{
	ReturnSuccess:               "SUCCESS",
	ReturnSignatureError:        "SIGERROR",
	ReturnContractValidateError: "CONTRACT_VALIDATE_ERROR",
	ReturnContractExecuteError:  "CONTRACT_EXE_ERROR",
	ReturnBandwidthError:        "BANDWITH_ERROR",
	ReturnDuplicateTransaction:  "DUP_TRANSACTION_ERROR",
	ReturnTaposError:            "TAPOS_ERROR",
	ReturnTooBigTransaction:     "TOO_BIG_TRANSACTION_ERROR",
	ReturnTransactionExpired:    "TRANSACTION_EXPIRATION_ERROR",
	ReturnServerBusy:            "SERVER_BUSY",
	ReturnOtherError:            "OTHER_ERROR",
}

func (c ReturnCode) String() string {
	if s, ok := returnCodeNames[c]; ok {
		return s
	}
	return "UNKNOWN"
}
