package transport

import (
	"context"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/report"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"google.golang.org/grpc"
)

const serviceName = "txcodec.v1.TxCodec"

// TxCodecServiceDesc describes the unary TxCodec service. Messages use the JSON codec.
var TxCodecServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TxCodecServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Decode", Handler: unaryHandler("Decode", TxCodecServer.Decode)},
		{MethodName: "Encode", Handler: unaryHandler("Encode", TxCodecServer.Encode)},
		{MethodName: "Disassemble", Handler: unaryHandler("Disassemble", TxCodecServer.Disassemble)},
		{MethodName: "Assemble", Handler: unaryHandler("Assemble", TxCodecServer.Assemble)},
		{MethodName: "Classify", Handler: unaryHandler("Classify", TxCodecServer.Classify)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "txcodec/v1/txcodec",
}

func RegisterTxCodecServer(s grpc.ServiceRegistrar, srv TxCodecServer) {
	s.RegisterService(&TxCodecServiceDesc, srv)
}

func unaryHandler[Req, Resp any](
	method string,
	call func(TxCodecServer, context.Context, *Req) (*Resp, error),
) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + serviceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		handle := func(ctx context.Context, req any) (any, error) {
			resp, err := call(srv.(TxCodecServer), ctx, req.(*Req))
			if err != nil {
				return nil, toStatus(err)
			}
			return resp, nil
		}
		if interceptor == nil {
			return handle(ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		return interceptor(ctx, in, info, handle)
	}
}

// TxCodecClient calls a TxCodec server.
type TxCodecClient struct {
	cc grpc.ClientConnInterface
}

func NewTxCodecClient(cc grpc.ClientConnInterface) *TxCodecClient {
	return &TxCodecClient{cc: cc}
}

func (c *TxCodecClient) Decode(ctx context.Context, in *DecodeRequest, opts ...grpc.CallOption) (*report.Transaction, error) {
	return invoke[report.Transaction](ctx, c.cc, "Decode", in, opts)
}

func (c *TxCodecClient) Encode(ctx context.Context, in *tx.Template, opts ...grpc.CallOption) (*report.Transaction, error) {
	return invoke[report.Transaction](ctx, c.cc, "Encode", in, opts)
}

func (c *TxCodecClient) Disassemble(ctx context.Context, in *ScriptRequest, opts ...grpc.CallOption) (*report.Script, error) {
	return invoke[report.Script](ctx, c.cc, "Disassemble", in, opts)
}

func (c *TxCodecClient) Assemble(ctx context.Context, in *AssembleRequest, opts ...grpc.CallOption) (*report.Script, error) {
	return invoke[report.Script](ctx, c.cc, "Assemble", in, opts)
}

func (c *TxCodecClient) Classify(ctx context.Context, in *ScriptRequest, opts ...grpc.CallOption) (*report.Script, error) {
	return invoke[report.Script](ctx, c.cc, "Classify", in, opts)
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(JSONCodecName)}, opts...)
	if err := cc.Invoke(ctx, "/"+serviceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
