package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/tronwallet/walletgo/common"
)

func TestValidator(t *testing.T) {
	validator := NewValidator()

	var param struct {
		ID      string  `json:"id" validate:"required,t_hash"`
		Owner   Address `json:"owner" validate:"required,t_addr"`
		To      Address `json:"to" validate:"required,t_addr"`
		Raw     string  `json:"raw" validate:"optional,t_hex"`
		Version string  `json:"jsonrpc" validate:"required,version"`
	}

	params := []byte(`
		{
			"id":      "b5f908339f447ca97525a3eb8c3e450e767ffe3e242df3f87e4af4295e1277f3",
			"owner":   "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
			"to":      "0x41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
			"raw":     "0x0a0b",
			"jsonrpc": "2.0"
		}
	`)

	if err := json.Unmarshal(params, &param); err != nil {
		assert.Fail(t, "unmarshal fail", err.Error())
	}
	assert.NoError(t, validator.Validate(&param))

	addr, err := param.Owner.Address(nil)
	assert.NoError(t, err)
	assert.Equal(t, "41a614f803b6fd780986a42c78ec9c7f77e6ded13c", addr.Hex())
}

func TestValidator_Invalid(t *testing.T) {
	validator := NewValidator()

	for _, tc := range []struct {
		name  string
		param interface{}
	}{
		{"ShortAddress", &AddressParam{Address: "TR7NHqjeKQxGTCi8q8ZY4pL8"}},
		{"AddressWithZero", &AddressParam{Address: "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj60"}},
		{"HexAddressWrongPrefix", &AddressParam{Address: "42a614f803b6fd780986a42c78ec9c7f77e6ded13c"}},
		{"UpperCaseHash", &IDParam{ID: "B5F908339F447CA97525A3EB8C3E450E767FFE3E242DF3F87E4AF4295E1277F3"}},
		{"OddHex", &TransactionMessage{Raw: "0x0a0"}},
		{"EmptyRange", &BlockRangeParam{Start: 5, End: 5}},
		{"ZeroLimit", &LimitParam{}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			assert.Error(t, validator.Validate(tc.param))
		})
	}
}

func TestAddress_Address(t *testing.T) {
	for _, text := range []Address{
		"TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t",
		"41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
		"0x41a614f803b6fd780986a42c78ec9c7f77e6ded13c",
	} {
		addr, err := text.Address(nil)
		if assert.NoError(t, err, text) {
			assert.Equal(t, "TR7NHqjeKQxGTCi8q8ZY4pL8otSzgjLj6t", string(AddressOf(addr)))
		}
	}
	_, err := Address("41a614f803b6fd780986a42c78ec9c7f77e6ded13c").Address(common.TestNet)
	assert.Error(t, err)
}
