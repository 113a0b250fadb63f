package handlers

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The bridge service only exchanges well-known protobuf types, the service descriptor below
// matches api-spec/protobuf/fvm/v1/bridge.proto.
const BridgeServiceName = "fvm.v1.BridgeService"

const (
	BridgeServiceCallMethod       = "/fvm.v1.BridgeService/Call"
	BridgeServiceGetCoinMethod    = "/fvm.v1.BridgeService/GetCoin"
	BridgeServiceListCoinsMethod  = "/fvm.v1.BridgeService/ListCoins"
	BridgeServiceGetBalanceMethod = "/fvm.v1.BridgeService/GetBalance"
	BridgeServiceGetSupplyMethod  = "/fvm.v1.BridgeService/GetSupply"
	BridgeServiceFundMethod       = "/fvm.v1.BridgeService/Fund"
	BridgeServiceAuditMethod      = "/fvm.v1.BridgeService/Audit"
)

type BridgeServiceServer interface {
	// Call runs the call data (selector || message) with the caller and value found in the
	// request metadata.
	Call(context.Context, *wrapperspb.BytesValue) (*structpb.Struct, error)
	GetCoin(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	ListCoins(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetBalance(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	GetSupply(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Fund(context.Context, *structpb.Struct) (*emptypb.Empty, error)
	Audit(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func RegisterBridgeServiceServer(s grpc.ServiceRegistrar, srv BridgeServiceServer) {
	s.RegisterService(&bridgeServiceDesc, srv)
}

var bridgeServiceDesc = grpc.ServiceDesc{
	ServiceName: BridgeServiceName,
	HandlerType: (*BridgeServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Call", Handler: bridgeServiceCallHandler},
		{MethodName: "GetCoin", Handler: bridgeServiceGetCoinHandler},
		{MethodName: "ListCoins", Handler: bridgeServiceListCoinsHandler},
		{MethodName: "GetBalance", Handler: bridgeServiceGetBalanceHandler},
		{MethodName: "GetSupply", Handler: bridgeServiceGetSupplyHandler},
		{MethodName: "Fund", Handler: bridgeServiceFundHandler},
		{MethodName: "Audit", Handler: bridgeServiceAuditHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "fvm/v1/bridge.proto",
}

// unaryHandler adapts a typed server method to the grpc.MethodDesc handler signature.
func unaryHandler[Req any, Resp any](
	fullMethod string, call func(BridgeServiceServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(
		srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor,
	) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BridgeServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(BridgeServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var (
	bridgeServiceCallHandler = unaryHandler(
		BridgeServiceCallMethod, BridgeServiceServer.Call,
	)
	bridgeServiceGetCoinHandler = unaryHandler(
		BridgeServiceGetCoinMethod, BridgeServiceServer.GetCoin,
	)
	bridgeServiceListCoinsHandler = unaryHandler(
		BridgeServiceListCoinsMethod, BridgeServiceServer.ListCoins,
	)
	bridgeServiceGetBalanceHandler = unaryHandler(
		BridgeServiceGetBalanceMethod, BridgeServiceServer.GetBalance,
	)
	bridgeServiceGetSupplyHandler = unaryHandler(
		BridgeServiceGetSupplyMethod, BridgeServiceServer.GetSupply,
	)
	bridgeServiceFundHandler = unaryHandler(
		BridgeServiceFundMethod, BridgeServiceServer.Fund,
	)
	bridgeServiceAuditHandler = unaryHandler(
		BridgeServiceAuditMethod, BridgeServiceServer.Audit,
	)
)

type BridgeServiceClient interface {
	Call(ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetCoin(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	ListCoins(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*structpb.Struct, error)
	GetBalance(ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	GetSupply(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
	Fund(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*emptypb.Empty, error)
	Audit(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type bridgeServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewBridgeServiceClient(cc grpc.ClientConnInterface) BridgeServiceClient {
	return &bridgeServiceClient{cc}
}

func (c *bridgeServiceClient) Call(
	ctx context.Context, in *wrapperspb.BytesValue, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BridgeServiceCallMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) GetCoin(
	ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BridgeServiceGetCoinMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) ListCoins(
	ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BridgeServiceListCoinsMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) GetBalance(
	ctx context.Context, in *wrapperspb.StringValue, opts ...grpc.CallOption,
) (*wrapperspb.StringValue, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, BridgeServiceGetBalanceMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) GetSupply(
	ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BridgeServiceGetSupplyMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Fund(
	ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption,
) (*emptypb.Empty, error) {
	out := new(emptypb.Empty)
	if err := c.cc.Invoke(ctx, BridgeServiceFundMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *bridgeServiceClient) Audit(
	ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption,
) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, BridgeServiceAuditMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
