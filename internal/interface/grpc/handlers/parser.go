package handlers

import (
	"context"
	"fmt"
	"strconv"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/holiman/uint256"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

// Metadata keys carrying the call context of a Call request.
const (
	CallerMetadataKey    = "x-fvm-caller"
	ValueMetadataKey     = "x-fvm-value"
	RequestIdMetadataKey = "x-request-id"
)

type callContext struct {
	requestId string
	caller    domain.Address
	value     *uint256.Int
}

func parseCallContext(ctx context.Context) (*callContext, error) {
	md, _ := metadata.FromIncomingContext(ctx)

	caller := firstValue(md, CallerMetadataKey)
	if caller == "" {
		return nil, fmt.Errorf("missing caller")
	}
	addr, err := domain.AddressFromString(caller)
	if err != nil {
		return nil, err
	}

	value := uint256.NewInt(0)
	if v := firstValue(md, ValueMetadataKey); v != "" {
		if value, err = parseAmount(v); err != nil {
			return nil, fmt.Errorf("invalid value: %s", err)
		}
	}

	return &callContext{
		requestId: firstValue(md, RequestIdMetadataKey),
		caller:    addr,
		value:     value,
	}, nil
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}

func parseCoinId(s string) (domain.CoinId, error) {
	if s == "" {
		return domain.CoinId{}, fmt.Errorf("missing coin id")
	}
	var id domain.CoinId
	if err := id.FromString(s); err != nil {
		return domain.CoinId{}, err
	}
	return id, nil
}

// parseOwner accepts either a 32 bytes owner or a 20 bytes account address.
func parseOwner(s string) (domain.Owner, error) {
	if s == "" {
		return domain.Owner{}, fmt.Errorf("missing owner")
	}
	if addr, err := domain.AddressFromString(s); err == nil {
		return domain.OwnerFromAddress(addr), nil
	}
	return domain.OwnerFromString(s)
}

func parseAddress(s string) (domain.Address, error) {
	if s == "" {
		return domain.Address{}, fmt.Errorf("missing address")
	}
	return domain.AddressFromString(s)
}

// parseAmount parses a decimal, or 0x prefixed hex, account-domain amount.
func parseAmount(s string) (*uint256.Int, error) {
	if len(s) > 2 && s[:2] == "0x" {
		return uint256.FromHex(s)
	}
	return uint256.FromDecimal(s)
}

func parseFundRequest(req *structpb.Struct) (domain.Address, *uint256.Int, error) {
	fields := req.GetFields()
	addr, err := parseAddress(fields["address"].GetStringValue())
	if err != nil {
		return domain.Address{}, nil, err
	}
	amountStr := fields["amount"].GetStringValue()
	if amountStr == "" {
		return domain.Address{}, nil, fmt.Errorf("missing amount")
	}
	amount, err := parseAmount(amountStr)
	if err != nil {
		return domain.Address{}, nil, fmt.Errorf("invalid amount: %s", err)
	}
	return addr, amount, nil
}

type coin domain.Coin

func (c coin) toMap() map[string]any {
	return map[string]any{
		"coin_id":      c.CoinId.String(),
		"tx_id":        c.TxId.String(),
		"output_index": int64(c.OutputIndex),
		"owner":        c.Owner.String(),
		// uint64 amounts don't fit a json number without losing precision.
		"amount":   strconv.FormatUint(c.Amount, 10),
		"asset_id": c.AssetId.String(),
	}
}

type coinList []domain.Coin

func (l coinList) toList() []any {
	list := make([]any, 0, len(l))
	for _, c := range l {
		list = append(list, coin(c).toMap())
	}
	return list
}

type coinIdList []domain.CoinId

func (l coinIdList) toList() []any {
	list := make([]any, 0, len(l))
	for _, id := range l {
		list = append(list, id.String())
	}
	return list
}

type supplyInfo application.SupplyInfo

func (i supplyInfo) toMap() map[string]any {
	return map[string]any{
		"asset_id":       i.AssetId.String(),
		"supply":         strconv.FormatUint(i.Supply, 10),
		"escrow":         i.Escrow.String(),
		"escrow_balance": i.EscrowBalance.Dec(),
	}
}
