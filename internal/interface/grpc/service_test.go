package grpcservice

import (
	"context"
	"net"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	"github.com/fluentlabs-xyz/fvmbridge/internal/core/domain"
	"github.com/fluentlabs-xyz/fvmbridge/internal/infrastructure/db"
	"github.com/fluentlabs-xyz/fvmbridge/internal/interface/grpc/handlers"
	"github.com/fluentlabs-xyz/fvmbridge/internal/interface/grpc/interceptors"
	"github.com/fluentlabs-xyz/fvmbridge/pkg/fvmabi"
	"github.com/stretchr/testify/require"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	grpchealth "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const (
	aliceHex  = "a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1a1"
	bobHex    = "b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0b0"
	escrowHex = "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee"

	oneCoin = "1000000000000000000"
)

type testBridge struct {
	client    handlers.BridgeServiceClient
	health    grpchealth.HealthClient
	readiness *interceptors.ReadinessService
}

func newTestBridge(t *testing.T) *testBridge {
	return newTestBridgeWithFund(t, true)
}

func newTestBridgeWithFund(t *testing.T, enableFund bool) *testBridge {
	repoManager, err := db.NewService(db.ServiceConfig{
		EventStoreType:  "inmemory",
		DataStoreType:   "badger",
		DataStoreConfig: []interface{}{"", nil},
	})
	require.NoError(t, err)

	baseAsset, err := domain.AssetIdFromString(domain.FuelTestnetBaseAssetId)
	require.NoError(t, err)
	escrow, err := domain.AddressFromString(escrowHex)
	require.NoError(t, err)

	appSvc, err := application.NewService(repoManager, nil, nil, nil, baseAsset, escrow, 0)
	require.NoError(t, err)
	require.Nil(t, appSvc.Start())

	readiness := interceptors.NewReadinessService()
	grpcServer, _ := newServer(appSvc, readiness, enableFund)

	lis := bufconn.Listen(1024 * 1024)
	go func() {
		//nolint:errcheck
		grpcServer.Serve(lis)
	}()

	conn, err := grpc.NewClient(
		"passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		//nolint:errcheck
		conn.Close()
		grpcServer.Stop()
		appSvc.Stop()
	})

	return &testBridge{
		client:    handlers.NewBridgeServiceClient(conn),
		health:    grpchealth.NewHealthClient(conn),
		readiness: readiness,
	}
}

func (b *testBridge) call(
	t *testing.T, caller, value string, data []byte,
) *structpb.Struct {
	ctx := metadata.AppendToOutgoingContext(
		context.Background(),
		handlers.CallerMetadataKey, caller,
		handlers.ValueMetadataKey, value,
	)
	resp, err := b.client.Call(ctx, wrapperspb.Bytes(data))
	require.NoError(t, err)
	return resp
}

func (b *testBridge) fund(t *testing.T, address, amount string) {
	req, err := structpb.NewStruct(map[string]any{"address": address, "amount": amount})
	require.NoError(t, err)
	_, err = b.client.Fund(context.Background(), req)
	require.NoError(t, err)
}

func (b *testBridge) balance(t *testing.T, address string) string {
	resp, err := b.client.GetBalance(context.Background(), wrapperspb.String(address))
	require.NoError(t, err)
	return resp.GetValue()
}

func TestReadiness(t *testing.T) {
	bridge := newTestBridge(t)
	ctx := context.Background()

	_, err := bridge.client.GetSupply(ctx, &emptypb.Empty{})
	require.Equal(t, codes.Unavailable, status.Code(err))

	resp, err := bridge.health.Check(ctx, &grpchealth.HealthCheckRequest{})
	require.NoError(t, err)
	require.Equal(t, grpchealth.HealthCheckResponse_SERVING, resp.GetStatus())

	bridge.readiness.MarkAppServiceStarted()
	supply, err := bridge.client.GetSupply(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.Equal(t, "0", supply.GetFields()["supply"].GetStringValue())
}

func TestCall(t *testing.T) {
	bridge := newTestBridge(t)
	bridge.readiness.MarkAppServiceStarted()
	ctx := context.Background()

	bridge.fund(t, aliceHex, "5"+oneCoin[1:])

	// alice deposits 3 coins for bob.
	depositData := depositCallData(t, bobHex)
	resp := bridge.call(t, aliceHex, "3"+oneCoin[1:], depositData)
	require.Equal(t, float64(application.ExitCodeOk), exitCode(resp))
	minted := resp.GetFields()["coin"].GetStructValue().GetFields()
	require.NotNil(t, minted)
	require.Equal(t, "3000000000", minted["amount"].GetStringValue())
	require.Equal(t, "000000000000000000000000"+bobHex, minted["owner"].GetStringValue())
	require.Equal(t, "2"+oneCoin[1:], bridge.balance(t, aliceHex))
	require.Equal(t, "3"+oneCoin[1:], bridge.balance(t, escrowHex))

	coinId := minted["coin_id"].GetStringValue()
	got, err := bridge.client.GetCoin(ctx, wrapperspb.String(coinId))
	require.NoError(t, err)
	require.Equal(t, coinId, got.GetFields()["coin_id"].GetStringValue())

	list, err := bridge.client.ListCoins(ctx, wrapperspb.String(bobHex))
	require.NoError(t, err)
	require.Len(t, list.GetFields()["coins"].GetListValue().GetValues(), 1)

	// alice can't deposit more than her balance.
	resp = bridge.call(t, aliceHex, "3"+oneCoin[1:], depositData)
	require.Equal(t, float64(application.ExitCodeInsufficientBalance), exitCode(resp))
	require.Nil(t, resp.GetFields()["coin"])

	// bob withdraws 1 coin and gets the rest back as change.
	var id domain.CoinId
	require.NoError(t, id.FromString(coinId))
	withdrawData := withdrawCallData(t, 1_000_000_000, id)
	resp = bridge.call(t, bobHex, "0", withdrawData)
	require.Equal(t, float64(application.ExitCodeOk), exitCode(resp))
	require.Equal(t, oneCoin, resp.GetFields()["credited"].GetStringValue())
	require.Len(t, resp.GetFields()["spent"].GetListValue().GetValues(), 1)
	change := resp.GetFields()["change"].GetStructValue().GetFields()
	require.Equal(t, "2000000000", change["amount"].GetStringValue())
	require.Equal(t, oneCoin, bridge.balance(t, bobHex))
	require.Equal(t, "2"+oneCoin[1:], bridge.balance(t, escrowHex))

	_, err = bridge.client.GetCoin(ctx, wrapperspb.String(coinId))
	require.Equal(t, codes.NotFound, status.Code(err))
	st, _ := status.FromError(err)
	require.Len(t, st.Details(), 1)
	info, ok := st.Details()[0].(*errdetails.ErrorInfo)
	require.True(t, ok)
	require.Equal(t, "COIN_NOT_FOUND", info.GetReason())

	// spending the same coin again aborts the call.
	resp = bridge.call(t, bobHex, "0", withdrawData)
	require.Equal(t, float64(application.ExitCodeAborted), exitCode(resp))
	require.Equal(t, "COIN_NOT_FOUND", errorName(resp))
	require.Equal(t, oneCoin, bridge.balance(t, bobHex))

	// the escrow account can't mint coins backed by its own balance.
	resp = bridge.call(t, escrowHex, oneCoin, depositData)
	require.Equal(t, float64(application.ExitCodeAborted), exitCode(resp))
	require.Equal(t, "ESCROW_CALLER", errorName(resp))
	require.Equal(t, "2"+oneCoin[1:], bridge.balance(t, escrowHex))

	audit, err := bridge.client.Audit(ctx, &emptypb.Empty{})
	require.NoError(t, err)
	require.True(t, audit.GetFields()["balanced"].GetBoolValue())
	require.Equal(t, "2000000000", audit.GetFields()["supply"].GetStringValue())
}

func TestCallInvalid(t *testing.T) {
	bridge := newTestBridge(t)
	bridge.readiness.MarkAppServiceStarted()
	bridge.fund(t, aliceHex, oneCoin)

	fixtures := []struct {
		description  string
		data         func(t *testing.T) []byte
		value        string
		expectedCode application.ExitCode
		expectedErr  string
	}{
		{
			description:  "short call data",
			data:         func(*testing.T) []byte { return []byte{0x01, 0x02} },
			value:        "0",
			expectedCode: application.ExitCodeMalformedInput,
			expectedErr:  "MALFORMED_MESSAGE",
		},
		{
			description:  "unknown selector",
			data:         func(*testing.T) []byte { return []byte{0xde, 0xad, 0xbe, 0xef, 0x00} },
			value:        "0",
			expectedCode: application.ExitCodeUnknownSelector,
			expectedErr:  "MALFORMED_MESSAGE",
		},
		{
			description: "malformed deposit message",
			data: func(t *testing.T) []byte {
				data, err := fvmabi.EncodeCallData(fvmabi.MethodDeposit, []byte{0x01})
				require.NoError(t, err)
				return data
			},
			value:        oneCoin,
			expectedCode: application.ExitCodeMalformedInput,
			expectedErr:  "MALFORMED_MESSAGE",
		},
		{
			description:  "zero deposit",
			data:         func(t *testing.T) []byte { return depositCallData(t, aliceHex) },
			value:        "0",
			expectedCode: application.ExitCodeAborted,
			expectedErr:  "ZERO_DEPOSIT",
		},
		{
			description:  "inexact deposit",
			data:         func(t *testing.T) []byte { return depositCallData(t, aliceHex) },
			value:        "1000000001",
			expectedCode: application.ExitCodeAborted,
			expectedErr:  "INEXACT_CONVERSION",
		},
		{
			description:  "empty withdrawal",
			data:         func(t *testing.T) []byte { return withdrawCallData(t, 1) },
			value:        "0",
			expectedCode: application.ExitCodeAborted,
			expectedErr:  "EMPTY_COIN_LIST",
		},
		{
			description: "dry run without execution engine",
			data: func(t *testing.T) []byte {
				data, err := fvmabi.EncodeCallData(fvmabi.MethodDryRun, []byte{0x01})
				require.NoError(t, err)
				return data
			},
			value:        "0",
			expectedCode: application.ExitCodeAborted,
			expectedErr:  "EXECUTION_FAILED",
		},
	}

	for _, f := range fixtures {
		t.Run(f.description, func(t *testing.T) {
			resp := bridge.call(t, aliceHex, f.value, f.data(t))
			require.Equal(t, float64(f.expectedCode), exitCode(resp))
			require.Equal(t, f.expectedErr, errorName(resp))
			require.Equal(t, oneCoin, bridge.balance(t, aliceHex))
		})
	}

	t.Run("missing caller", func(t *testing.T) {
		_, err := bridge.client.Call(
			context.Background(), wrapperspb.Bytes(depositCallData(t, aliceHex)),
		)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})

	t.Run("invalid queries", func(t *testing.T) {
		ctx := context.Background()
		_, err := bridge.client.GetCoin(ctx, wrapperspb.String("not-a-coin-id"))
		require.Equal(t, codes.InvalidArgument, status.Code(err))

		_, err = bridge.client.GetBalance(ctx, wrapperspb.String("0x1234"))
		require.Equal(t, codes.InvalidArgument, status.Code(err))

		req, err := structpb.NewStruct(map[string]any{"address": aliceHex, "amount": "0"})
		require.NoError(t, err)
		_, err = bridge.client.Fund(ctx, req)
		require.Equal(t, codes.InvalidArgument, status.Code(err))
	})
}

func depositCallData(t *testing.T, recipient string) []byte {
	msg, err := fvmabi.EncodeDeposit(fvmabi.DepositMessage{Recipient: common.HexToAddress(recipient)})
	require.NoError(t, err)
	data, err := fvmabi.EncodeCallData(fvmabi.MethodDeposit, msg)
	require.NoError(t, err)
	return data
}

func withdrawCallData(t *testing.T, amount uint64, ids ...domain.CoinId) []byte {
	utxos := make([]fvmabi.UtxoRef, 0, len(ids))
	for _, id := range ids {
		utxos = append(utxos, fvmabi.UtxoRef{TxId: [32]byte(id.TxId), OutputIndex: id.OutputIndex})
	}
	msg, err := fvmabi.EncodeWithdraw(fvmabi.WithdrawMessage{Utxos: utxos, Amount: amount})
	require.NoError(t, err)
	data, err := fvmabi.EncodeCallData(fvmabi.MethodWithdraw, msg)
	require.NoError(t, err)
	return data
}

func exitCode(resp *structpb.Struct) float64 {
	return resp.GetFields()["exit_code"].GetNumberValue()
}

func errorName(resp *structpb.Struct) string {
	return resp.GetFields()["error"].GetStructValue().GetFields()["name"].GetStringValue()
}

func TestFundDisabled(t *testing.T) {
	bridge := newTestBridgeWithFund(t, false)
	bridge.readiness.MarkAppServiceStarted()

	req, err := structpb.NewStruct(map[string]any{"address": aliceHex, "amount": oneCoin})
	require.NoError(t, err)
	_, err = bridge.client.Fund(context.Background(), req)
	require.Equal(t, codes.PermissionDenied, status.Code(err))
	require.Equal(t, "0", bridge.balance(t, aliceHex))
}
