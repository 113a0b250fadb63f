package handlers

import (
	"context"

	"github.com/fluentlabs-xyz/fvmbridge/internal/core/application"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

type handler struct {
	svc         application.Service
	router      *router
	fundEnabled bool
}

// NewBridgeHandler returns the bridge service handler. Fund mints account balance out of
// nothing, it's refused unless fundEnabled is set and is meant for development setups only.
func NewBridgeHandler(svc application.Service, fundEnabled bool) BridgeServiceServer {
	return &handler{
		svc:         svc,
		router:      newRouter(svc),
		fundEnabled: fundEnabled,
	}
}

// Call never fails for aborted calls: the outcome is reported by the exit code of the response,
// along with the details of the error that aborted the call.
func (h *handler) Call(
	ctx context.Context, req *wrapperspb.BytesValue,
) (*structpb.Struct, error) {
	call, err := parseCallContext(ctx)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	result := h.router.route(ctx, *call, req.GetValue())

	resp := map[string]any{
		"request_id": result.requestId,
		"method":     result.method.String(),
		"exit_code":  result.exitCode,
		"status":     application.ExitCode(result.exitCode).String(),
	}
	if result.deposit != nil && result.deposit.Coin != nil {
		resp["coin"] = coin(*result.deposit.Coin).toMap()
	}
	if result.withdraw != nil {
		resp["spent"] = coinIdList(result.withdraw.Spent).toList()
		resp["credited"] = result.withdraw.Credited.Dec()
		if result.withdraw.Change != nil {
			resp["change"] = coin(*result.withdraw.Change).toMap()
		}
	}
	if result.err != nil {
		errMetadata := make(map[string]any)
		for k, v := range result.err.Metadata() {
			errMetadata[k] = v
		}
		resp["error"] = map[string]any{
			"code":     int64(result.err.Code()),
			"name":     result.err.CodeName(),
			"message":  result.err.Error(),
			"metadata": errMetadata,
		}
	}

	return toStruct(resp)
}

func (h *handler) GetCoin(
	ctx context.Context, req *wrapperspb.StringValue,
) (*structpb.Struct, error) {
	id, err := parseCoinId(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	c, verr := h.svc.GetCoin(ctx, id)
	if verr != nil {
		return nil, verr
	}
	return toStruct(coin(*c).toMap())
}

func (h *handler) ListCoins(
	ctx context.Context, req *wrapperspb.StringValue,
) (*structpb.Struct, error) {
	owner, err := parseOwner(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	coins, verr := h.svc.ListCoins(ctx, owner)
	if verr != nil {
		return nil, verr
	}
	return toStruct(map[string]any{
		"owner": owner.String(),
		"coins": coinList(coins).toList(),
	})
}

func (h *handler) GetBalance(
	ctx context.Context, req *wrapperspb.StringValue,
) (*wrapperspb.StringValue, error) {
	addr, err := parseAddress(req.GetValue())
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	balance, verr := h.svc.GetBalance(ctx, addr)
	if verr != nil {
		return nil, verr
	}
	return wrapperspb.String(balance.Dec()), nil
}

func (h *handler) GetSupply(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	info, err := h.svc.GetSupply(ctx)
	if err != nil {
		return nil, err
	}
	return toStruct(supplyInfo(*info).toMap())
}

func (h *handler) Fund(ctx context.Context, req *structpb.Struct) (*emptypb.Empty, error) {
	if !h.fundEnabled {
		return nil, status.Error(codes.PermissionDenied, "fund is disabled")
	}

	addr, amount, err := parseFundRequest(req)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, err.Error())
	}

	if err := h.svc.Fund(ctx, addr, amount); err != nil {
		return nil, err
	}
	return &emptypb.Empty{}, nil
}

func (h *handler) Audit(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	report, err := h.svc.Audit(ctx)
	if err != nil {
		return nil, err
	}

	resp := supplyInfo(report.SupplyInfo).toMap()
	resp["expected_escrow_balance"] = report.Expected.Dec()
	resp["balanced"] = report.Balanced
	return toStruct(resp)
}

func toStruct(m map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "failed to encode response: %s", err)
	}
	return s, nil
}
