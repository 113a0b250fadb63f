// Package fvmabi encodes and decodes the call data accepted by the bridge: a 4 byte selector
// followed by the ABI encoded message of the selected method.
package fvmabi

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
)

const SelectorSize = 4

type Method int

const (
	MethodUnknown Method = iota
	MethodDeposit
	MethodWithdraw
	MethodDryRun
	MethodExec
)

var signatures = map[Method]string{
	MethodDeposit:  "fvm_deposit(string)",
	MethodWithdraw: "fvm_withdraw(string)",
	MethodDryRun:   "fvm_dry_run(string)",
	MethodExec:     "fvm_exec(string)",
}

var (
	ErrShortCallData   = errors.New("call data shorter than a selector")
	ErrUnknownSelector = errors.New("unknown selector")
)

var methodsBySelector = func() map[uint32]Method {
	m := make(map[uint32]Method, len(signatures))
	for method, signature := range signatures {
		m[SelectorOf(signature)] = method
	}
	return m
}()

// SelectorOf returns the first 4 bytes of the keccak256 hash of the given signature as a
// big-endian integer.
func SelectorOf(signature string) uint32 {
	return binary.BigEndian.Uint32(crypto.Keccak256([]byte(signature))[:SelectorSize])
}

func (m Method) Selector() uint32 {
	signature, ok := signatures[m]
	if !ok {
		return 0
	}
	return SelectorOf(signature)
}

func (m Method) String() string {
	if signature, ok := signatures[m]; ok {
		return signature
	}
	return "unknown"
}

// SplitCallData separates the selector from the message. The returned message shares the
// underlying array of data.
func SplitCallData(data []byte) (Method, uint32, []byte, error) {
	if len(data) < SelectorSize {
		return MethodUnknown, 0, nil, ErrShortCallData
	}
	selector := binary.BigEndian.Uint32(data[:SelectorSize])
	method, ok := methodsBySelector[selector]
	if !ok {
		return MethodUnknown, selector, data[SelectorSize:], fmt.Errorf(
			"%w 0x%08x", ErrUnknownSelector, selector,
		)
	}
	return method, selector, data[SelectorSize:], nil
}

// EncodeCallData prefixes the message with the selector of the given method.
func EncodeCallData(method Method, message []byte) ([]byte, error) {
	if _, ok := signatures[method]; !ok {
		return nil, ErrUnknownSelector
	}
	data := make([]byte, SelectorSize, SelectorSize+len(message))
	binary.BigEndian.PutUint32(data, method.Selector())
	return append(data, message...), nil
}
