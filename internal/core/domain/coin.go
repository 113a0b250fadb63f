package domain

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
)

// FuelTestnetBaseAssetId is the base asset of the Fuel testnet, used when no other asset is
// configured.
const FuelTestnetBaseAssetId = "f8f8b6283d7fa5b672b530cbb84fcccb4ff8dc40f8176ef4544ddb1f1952ad07"

type (
	TxId    [32]byte
	AssetId [32]byte
	Owner   [32]byte
	Address [20]byte
)

func (t TxId) String() string    { return hex.EncodeToString(t[:]) }
func (a AssetId) String() string { return hex.EncodeToString(a[:]) }
func (o Owner) String() string   { return hex.EncodeToString(o[:]) }
func (a Address) String() string { return hex.EncodeToString(a[:]) }

// TxIdFromIndex right-aligns the big-endian encoding of the given counter value.
func TxIdFromIndex(index uint64) TxId {
	var id TxId
	binary.BigEndian.PutUint64(id[24:], index)
	return id
}

// OwnerFromAddress maps an account address to the owner of the coins it receives.
func OwnerFromAddress(addr Address) Owner {
	var owner Owner
	copy(owner[12:], addr[:])
	return owner
}

func TxIdFromString(s string) (TxId, error) {
	var id TxId
	if err := decodeFixed(s, id[:]); err != nil {
		return TxId{}, fmt.Errorf("invalid tx id: %w", err)
	}
	return id, nil
}

func AssetIdFromString(s string) (AssetId, error) {
	var id AssetId
	if err := decodeFixed(s, id[:]); err != nil {
		return AssetId{}, fmt.Errorf("invalid asset id: %w", err)
	}
	return id, nil
}

func OwnerFromString(s string) (Owner, error) {
	var owner Owner
	if err := decodeFixed(s, owner[:]); err != nil {
		return Owner{}, fmt.Errorf("invalid owner: %w", err)
	}
	return owner, nil
}

func AddressFromString(s string) (Address, error) {
	var addr Address
	if err := decodeFixed(s, addr[:]); err != nil {
		return Address{}, fmt.Errorf("invalid address: %w", err)
	}
	return addr, nil
}

func decodeFixed(s string, dst []byte) error {
	buf, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
	if err != nil {
		return err
	}
	if len(buf) != len(dst) {
		return fmt.Errorf("expected %d bytes, got %d", len(dst), len(buf))
	}
	copy(dst, buf)
	return nil
}

// CoinId is the key of a coin in the ledger: the transaction that created it and the output
// index within that transaction.
type CoinId struct {
	TxId        TxId
	OutputIndex uint16
}

func (k *CoinId) FromString(s string) error {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return fmt.Errorf("invalid coin id string: %s", s)
	}
	txid, err := TxIdFromString(parts[0])
	if err != nil {
		return err
	}
	index, err := strconv.ParseUint(parts[1], 10, 16)
	if err != nil {
		return fmt.Errorf("invalid output index string: %s", parts[1])
	}
	k.TxId = txid
	k.OutputIndex = uint16(index)
	return nil
}

func (k CoinId) String() string {
	return fmt.Sprintf("%s:%d", k.TxId, k.OutputIndex)
}

type Coin struct {
	CoinId
	Owner   Owner
	Amount  uint64
	AssetId AssetId
}

func (c Coin) IsZero() bool {
	return c.Amount == 0
}
