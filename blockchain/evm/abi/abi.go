// Package abi keeps the compiled smartcontract: its interface and the bytecode.
// It's the wrapper over the go-ethereum abi.
package abi

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
)

// //////////////////////////////////////////////////////////////////////////
//
// Artifact is the output of the compiler.
// it has the smartcontract interface to pack the method calls and
// the bytecode to deploy the smartcontract.
//
// //////////////////////////////////////////////////////////////////////////
type Artifact struct {
	Name     string
	Bytes    []byte // raw abi json
	Bytecode []byte
	geth_abi abi.ABI // interface
}

// The layout of the solc standard json output
// as well as the truffle/hardhat artifacts.
type rawArtifact struct {
	ContractName string          `json:"contractName"`
	Abi          json.RawMessage `json:"abi"`
	Bytecode     string          `json:"bytecode"`
	Evm          struct {
		Bytecode struct {
			Object string `json:"object"`
		} `json:"bytecode"`
	} `json:"evm"`
}

// New artifact from the abi json and the bytecode.
// The bytecode could be empty, then the artifact is used to interact only.
func New(name string, abi_bytes []byte, bytecode []byte) (*Artifact, error) {
	artifact := Artifact{
		Name:     name,
		Bytes:    abi_bytes,
		Bytecode: bytecode,
	}

	if err := json.Unmarshal(abi_bytes, &artifact.geth_abi); err != nil {
		return nil, fmt.Errorf("failed to decompose abi to geth abi: %w", err)
	}

	return &artifact, nil
}

// NewFromJson parses the compiler output.
//
// The abi could be given as the json array or as the string with the json.
// The bytecode is the hex string with or without 0x prefix.
func NewFromJson(data []byte) (*Artifact, error) {
	var raw rawArtifact
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}
	if len(raw.Abi) == 0 {
		return nil, errors.New("missing 'abi' parameter")
	}

	abi_bytes := []byte(raw.Abi)
	if raw.Abi[0] == '"' {
		var abi_string string
		if err := json.Unmarshal(raw.Abi, &abi_string); err != nil {
			return nil, fmt.Errorf("abi string: %w", err)
		}
		abi_bytes = []byte(abi_string)
	}

	hex_bytecode := raw.Evm.Bytecode.Object
	if len(hex_bytecode) == 0 {
		hex_bytecode = raw.Bytecode
	}
	bytecode, err := DecodeBytecode(hex_bytecode)
	if err != nil {
		return nil, fmt.Errorf("DecodeBytecode: %w", err)
	}

	return New(raw.ContractName, abi_bytes, bytecode)
}

// Load the artifact from the json file
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("os.ReadFile(%s): %w", path, err)
	}

	artifact, err := NewFromJson(data)
	if err != nil {
		return nil, fmt.Errorf("NewFromJson(%s): %w", path, err)
	}

	return artifact, nil
}

// DecodeBytecode decodes the hex string with optional 0x prefix
func DecodeBytecode(hex_bytecode string) ([]byte, error) {
	hex_bytecode = strings.TrimSpace(hex_bytecode)
	if strings.HasPrefix(hex_bytecode, "0x") || strings.HasPrefix(hex_bytecode, "0X") {
		hex_bytecode = hex_bytecode[2:]
	}

	bytecode, err := hex.DecodeString(hex_bytecode)
	if err != nil {
		return nil, fmt.Errorf("hex.DecodeString: %w", err)
	}
	return bytecode, nil
}

// Abi returns the go-ethereum interface
func (a *Artifact) Abi() abi.ABI {
	return a.geth_abi
}

// Deployable returns true if the artifact has the bytecode
func (a *Artifact) Deployable() bool {
	return len(a.Bytecode) > 0
}

// GetMethod returns an abi.Method from geth
func (a *Artifact) GetMethod(method string) (*abi.Method, error) {
	m, ok := a.geth_abi.Methods[method]
	if !ok {
		return nil, fmt.Errorf("method %s not found in abi", method)
	}

	return &m, nil
}

// HasMethod checks that the interface declares the method
func (a *Artifact) HasMethod(method string) bool {
	_, ok := a.geth_abi.Methods[method]
	return ok
}
