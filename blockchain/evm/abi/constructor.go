package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strconv"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// ConstructorArguments converts the command line values into the
// go types that the constructor inputs expect.
//
// Supported types: string, address, bool, intN, uintN, bytes, bytesN.
func (a *Artifact) ConstructorArguments(raw []string) ([]interface{}, error) {
	inputs := a.geth_abi.Constructor.Inputs
	if len(inputs) != len(raw) {
		return nil, fmt.Errorf("constructor expects %d arguments, given %d", len(inputs), len(raw))
	}

	args := make([]interface{}, len(raw))
	for i, input := range inputs {
		value, err := convert(input.Type, raw[i])
		if err != nil {
			return nil, fmt.Errorf("argument %d '%s' of %s type: %w", i, input.Name, input.Type.String(), err)
		}
		args[i] = value
	}

	return args, nil
}

func convert(t abi.Type, raw string) (interface{}, error) {
	switch t.T {
	case abi.StringTy:
		return raw, nil
	case abi.AddressTy:
		if !common.IsHexAddress(raw) {
			return nil, fmt.Errorf("'%s' is not an address", raw)
		}
		return common.HexToAddress(raw), nil
	case abi.BoolTy:
		return strconv.ParseBool(raw)
	case abi.IntTy, abi.UintTy:
		return convertNumber(t, raw)
	case abi.BytesTy:
		return hexutil.Decode(raw)
	case abi.FixedBytesTy:
		bytes, err := hexutil.Decode(raw)
		if err != nil {
			return nil, err
		}
		if len(bytes) != t.Size {
			return nil, fmt.Errorf("expected %d bytes, given %d", t.Size, len(bytes))
		}
		value := reflect.New(t.GetType()).Elem()
		reflect.Copy(value, reflect.ValueOf(bytes))
		return value.Interface(), nil
	}

	return nil, fmt.Errorf("unsupported type")
}

func convertNumber(t abi.Type, raw string) (interface{}, error) {
	number, ok := new(big.Int).SetString(raw, 0)
	if !ok {
		return nil, fmt.Errorf("'%s' is not a number", raw)
	}
	if t.T == abi.UintTy && number.Sign() < 0 {
		return nil, fmt.Errorf("'%s' is negative", raw)
	}
	if t.T == abi.IntTy {
		// [-2^(N-1), 2^(N-1)-1]
		limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1))
		if number.Cmp(limit) >= 0 || number.Cmp(new(big.Int).Neg(limit)) < 0 {
			return nil, fmt.Errorf("'%s' overflows int%d", raw, t.Size)
		}
	} else if number.BitLen() > t.Size {
		return nil, fmt.Errorf("'%s' overflows %d bits", raw, t.Size)
	}

	go_type := t.GetType()
	if go_type == reflect.TypeOf(&big.Int{}) {
		return number, nil
	}

	value := reflect.New(go_type).Elem()
	if t.T == abi.UintTy {
		value.SetUint(number.Uint64())
	} else {
		if value.OverflowInt(number.Int64()) || !number.IsInt64() {
			return nil, fmt.Errorf("'%s' overflows %d bits", raw, t.Size)
		}
		value.SetInt(number.Int64())
	}

	return value.Interface(), nil
}
