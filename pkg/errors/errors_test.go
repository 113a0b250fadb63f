package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	grpccodes "google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// generateErrorFixtures creates test fixtures with sample metadata for each error type
func generateErrorFixtures() []Error {
	coinId := "0000000000000000000000000000000000000000000000000000000000000001:0"
	owner := "000000000000000000000000390a4cedbb65be7511d9e1a35b115376f39dbdf3"

	return []Error{
		INTERNAL_ERROR.New("something went wrong").
			WithMetadata(map[string]any{"component": "database"}),

		INSUFFICIENT_BALANCE.New("caller balance is lower than the deposit value").
			WithMetadata(InsufficientBalanceMetadata{
				Address: "390a4cedbb65be7511d9e1a35b115376f39dbdf3",
				Balance: "1000000000",
				Value:   "2000000000",
			}),

		ZERO_DEPOSIT.New("deposit value must be greater than zero").
			WithMetadata(DepositValueMetadata{Value: "0"}),

		INEXACT_CONVERSION.New("deposit value is not a multiple of 10^9").
			WithMetadata(DepositValueMetadata{Value: "1500000001"}),

		AMOUNT_OVERFLOW.New("deposit value too large").
			WithMetadata(DepositValueMetadata{Value: "18446744073709551616000000000"}),

		EMPTY_COIN_LIST.New("missing coins to spend"),

		DUPLICATE_COIN_ID.New("coin listed twice").
			WithMetadata(CoinMetadata{CoinId: coinId}),

		COIN_NOT_FOUND.New("coin not found").
			WithMetadata(CoinMetadata{CoinId: coinId}),

		ASSET_MISMATCH.New("coin asset is not the base asset").
			WithMetadata(AssetMismatchMetadata{
				CoinId:        coinId,
				AssetId:       "0000000000000000000000000000000000000000000000000000000000000000",
				ExpectedAsset: "f8f8b6283d7fa5b672b530cbb84fcccb4ff8dc40f8176ef4544ddb1f1952ad07",
			}),

		OWNER_MISMATCH.New("all coins must have the same owner").
			WithMetadata(OwnerMismatchMetadata{
				CoinId:        coinId,
				Owner:         owner,
				ExpectedOwner: "0000000000000000000000000000000000000000000000000000000000000000",
			}),

		INSUFFICIENT_COIN_TOTAL.New("coins total lower than requested amount").
			WithMetadata(InsufficientCoinTotalMetadata{Total: 10, Requested: 11}),

		COIN_ID_COLLISION.New("coin id already in use").
			WithMetadata(CoinMetadata{CoinId: coinId}),

		STORE_FAILURE.Wrap(fmt.Errorf("disk full")),

		MALFORMED_MESSAGE.New("failed to decode message").
			WithMetadata(MalformedMessageMetadata{Selector: "deadbeef", Message: "00"}),

		EXECUTION_FAILED.Wrap(fmt.Errorf("connection refused")),

		ESCROW_CALLER.New("escrow account cannot call the bridge").
			WithMetadata(EscrowCallerMetadata{Escrow: "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"}),
	}
}

func TestErrorGRPCStatus(t *testing.T) {
	fixtures := generateErrorFixtures()

	for _, err := range fixtures {
		require.NotNil(t, err)
		require.NotEmpty(t, err.Error())

		st := status.Convert(err)
		require.NotNil(t, st)
		require.Equal(t, err.GrpcCode(), st.Code())

		details := st.Details()
		require.Len(t, details, 1)

		detail := details[0].(*errdetails.ErrorInfo)
		require.Equal(t, err.CodeName(), detail.Reason)
		require.Equal(t, errorDomain, detail.Domain)
		require.Equal(t, fmt.Sprint(err.Code()), detail.Metadata["code"])
	}
}

func TestErrorMetadata(t *testing.T) {
	err := OWNER_MISMATCH.New("owner mismatch").WithMetadata(OwnerMismatchMetadata{
		CoinId:        "a:0",
		Owner:         "b",
		ExpectedOwner: "c",
	})

	require.Equal(t, map[string]string{
		"coin_id":        "a:0",
		"owner":          "b",
		"expected_owner": "c",
	}, err.Metadata())
	require.Equal(t, uint16(9), err.Code())
	require.Equal(t, grpccodes.InvalidArgument, err.GrpcCode())
	require.Equal(t, "OWNER_MISMATCH (9): owner mismatch", err.Error())

	require.Empty(t, EMPTY_COIN_LIST.New("empty").Metadata())
}

func TestErrorWrap(t *testing.T) {
	cause := fmt.Errorf("boom")
	err := STORE_FAILURE.Wrap(cause)

	require.ErrorIs(t, err, cause)

	var typed Error
	require.True(t, errors.As(fmt.Errorf("outer: %w", err), &typed))
	require.Equal(t, "STORE_FAILURE", typed.CodeName())
}
