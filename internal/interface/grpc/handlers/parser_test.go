package handlers

import (
	"context"
	"testing"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	testAddress = "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"
	testOwner   = "000000000000000000000000" + testAddress
)

func TestParseCallContext(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		fixtures := []struct {
			description   string
			md            metadata.MD
			expectedValue string
			expectedId    string
		}{
			{
				description:   "decimal value",
				md:            metadata.Pairs(CallerMetadataKey, testAddress, ValueMetadataKey, "1000"),
				expectedValue: "1000",
			},
			{
				description:   "hex value",
				md:            metadata.Pairs(CallerMetadataKey, "0x"+testAddress, ValueMetadataKey, "0x3e8"),
				expectedValue: "1000",
			},
			{
				description:   "missing value",
				md:            metadata.Pairs(CallerMetadataKey, testAddress),
				expectedValue: "0",
			},
			{
				description: "with request id",
				md: metadata.Pairs(
					CallerMetadataKey, testAddress, RequestIdMetadataKey, "req-1",
				),
				expectedValue: "0",
				expectedId:    "req-1",
			},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				ctx := metadata.NewIncomingContext(context.Background(), f.md)
				call, err := parseCallContext(ctx)
				require.NoError(t, err)
				require.Equal(t, testAddress, call.caller.String())
				require.Equal(t, f.expectedValue, call.value.Dec())
				require.Equal(t, f.expectedId, call.requestId)
			})
		}
	})

	t.Run("invalid", func(t *testing.T) {
		fixtures := []struct {
			description string
			md          metadata.MD
		}{
			{"missing metadata", nil},
			{"missing caller", metadata.Pairs(ValueMetadataKey, "1")},
			{"short caller", metadata.Pairs(CallerMetadataKey, "a1a1")},
			{"invalid value", metadata.Pairs(CallerMetadataKey, testAddress, ValueMetadataKey, "1e9")},
			{"negative value", metadata.Pairs(CallerMetadataKey, testAddress, ValueMetadataKey, "-1")},
		}
		for _, f := range fixtures {
			t.Run(f.description, func(t *testing.T) {
				ctx := context.Background()
				if f.md != nil {
					ctx = metadata.NewIncomingContext(ctx, f.md)
				}
				call, err := parseCallContext(ctx)
				require.Error(t, err)
				require.Nil(t, call)
			})
		}
	})
}

func TestParseOwner(t *testing.T) {
	owner, err := parseOwner(testAddress)
	require.NoError(t, err)
	require.Equal(t, testOwner, owner.String())

	owner, err = parseOwner("0x" + testOwner)
	require.NoError(t, err)
	require.Equal(t, testOwner, owner.String())

	_, err = parseOwner("")
	require.Error(t, err)
	_, err = parseOwner("a1a1")
	require.Error(t, err)
}

func TestParseCoinId(t *testing.T) {
	txid := domain.TxIdFromIndex(7)
	id, err := parseCoinId(txid.String() + ":3")
	require.NoError(t, err)
	require.Equal(t, domain.CoinId{TxId: txid, OutputIndex: 3}, id)

	for _, s := range []string{"", txid.String(), txid.String() + ":70000", "zz:1"} {
		_, err := parseCoinId(s)
		require.Error(t, err, s)
	}
}

func TestParseFundRequest(t *testing.T) {
	req, err := structpb.NewStruct(map[string]any{
		"address": testAddress,
		"amount":  "5000000000",
	})
	require.NoError(t, err)

	addr, amount, err := parseFundRequest(req)
	require.NoError(t, err)
	require.Equal(t, testAddress, addr.String())
	require.Equal(t, "5000000000", amount.Dec())

	fixtures := []struct {
		description string
		fields      map[string]any
	}{
		{"missing address", map[string]any{"amount": "1"}},
		{"missing amount", map[string]any{"address": testAddress}},
		{"numeric amount", map[string]any{"address": testAddress, "amount": 1}},
		{"invalid amount", map[string]any{"address": testAddress, "amount": "one"}},
	}
	for _, f := range fixtures {
		t.Run(f.description, func(t *testing.T) {
			req, err := structpb.NewStruct(f.fields)
			require.NoError(t, err)
			_, _, err = parseFundRequest(req)
			require.Error(t, err)
		})
	}
}

func TestCoinToMap(t *testing.T) {
	c := domain.Coin{
		CoinId: domain.CoinId{TxId: domain.TxIdFromIndex(1)},
		Amount: 18_000_000_000_000_000_000,
	}
	m := coin(c).toMap()
	require.Equal(t, "18000000000000000000", m["amount"])
	require.Equal(t, c.CoinId.String(), m["coin_id"])
	require.Equal(t, int64(0), m["output_index"])

	_, err := structpb.NewStruct(m)
	require.NoError(t, err)
}
