package jsonrpc

import (
	"reflect"
	"regexp"

	"gopkg.in/go-playground/validator.v9"
)

// Validator checks decoded params by their validate tags. Besides the
// builtin tags it knows the wallet's text formats.
//
//	t_addr_b58  base58check address
//	t_addr_hex  hex address with the 0x41 or 0xa0 prefix
//	t_addr      either of the above
//	t_hash      32 byte lowercase hex
//	t_hex       lowercase hex of whole bytes
type Validator struct {
	v *validator.Validate
}

var formats = map[string]*regexp.Regexp{
	"t_addr_b58": regexp.MustCompile("^[1-9A-HJ-NP-Za-km-z]{34,35}$"),
	"t_addr_hex": regexp.MustCompile("^(0x)?(41|a0)[0-9a-f]{40}$"),
	"t_hash":     regexp.MustCompile("^(0x)?[0-9a-f]{64}$"),
	"t_hex":      regexp.MustCompile("^(0x)?([0-9a-f]{2})*$"),
}

var hexAddressRegex = formats["t_addr_hex"]

func matchFormat(re *regexp.Regexp) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return re.MatchString(fl.Field().String())
	}
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterAlias("optional", "omitempty")
	must(v.RegisterValidation("version", func(fl validator.FieldLevel) bool {
		return fl.Field().String() == Version
	}))
	must(v.RegisterValidation("id", func(fl validator.FieldLevel) bool {
		switch fl.Field().Kind() {
		case reflect.Bool, reflect.Array, reflect.Slice, reflect.Map:
			return false
		}
		return true
	}))
	for tag, re := range formats {
		must(v.RegisterValidation(tag, matchFormat(re)))
	}
	v.RegisterAlias("t_addr", "t_addr_b58|t_addr_hex")
	return &Validator{v: v}
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// Validate implements echo.Validator.
func (v *Validator) Validate(i interface{}) error {
	return v.v.Struct(i)
}
