package server

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	coregrpc "github.com/msto63/lavoisier/pkg/core/grpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified gRPC service name
const ServiceName = "lavoisier.v1.Balancer"

// Full method names, as used by clients with ClientConn.Invoke
const (
	MethodBalance  = "/" + ServiceName + "/Balance"
	MethodParse    = "/" + ServiceName + "/Parse"
	MethodTokenize = "/" + ServiceName + "/Tokenize"
	MethodExamples = "/" + ServiceName + "/Examples"
	MethodExample  = "/" + ServiceName + "/Example"
	MethodHistory  = "/" + ServiceName + "/History"
)

// BalancerServer is the gRPC surface of the balancing service. Requests and
// responses are generic structs carrying the JSON shape of the HTTP API.
type BalancerServer interface {
	Balance(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Parse(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Tokenize(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Examples(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Example(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	History(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// RegisterBalancerServer registers srv with a gRPC server
func RegisterBalancerServer(s grpc.ServiceRegistrar, srv BalancerServer) {
	s.RegisterService(&balancerServiceDesc, srv)
}

var balancerServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*BalancerServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Balance", Handler: unaryHandler(MethodBalance, newStruct, BalancerServer.Balance)},
		{MethodName: "Parse", Handler: unaryHandler(MethodParse, newStruct, BalancerServer.Parse)},
		{MethodName: "Tokenize", Handler: unaryHandler(MethodTokenize, newStruct, BalancerServer.Tokenize)},
		{MethodName: "Examples", Handler: unaryHandler(MethodExamples, newEmpty, BalancerServer.Examples)},
		{MethodName: "Example", Handler: unaryHandler(MethodExample, newString, BalancerServer.Example)},
		{MethodName: "History", Handler: unaryHandler(MethodHistory, newStruct, BalancerServer.History)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "lavoisier/v1/balancer.proto",
}

func newStruct() *structpb.Struct { return new(structpb.Struct) }
func newEmpty() *emptypb.Empty { return new(emptypb.Empty) }
func newString() *wrapperspb.StringValue { return new(wrapperspb.StringValue) }

func unaryHandler[Req proto.Message](
	fullMethod string,
	newReq func() Req,
	call func(BalancerServer, context.Context, Req) (*structpb.Struct, error),
) func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := newReq()
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(BalancerServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(BalancerServer), ctx, req.(Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GRPCService implements BalancerServer on top of the balancing service
type GRPCService struct {
	svc *service.Service
}

// NewGRPCService creates the gRPC adapter
func NewGRPCService(svc *service.Service) *GRPCService {
	return &GRPCService{svc: svc}
}

// Balance balances {"equation": "..."}
func (g *GRPCService) Balance(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := g.svc.Balance(ctx, service.BalanceRequest{
		Equation:  stringField(req, "equation"),
		Source:    "grpc",
		RequestID: coregrpc.GetRequestID(ctx),
	})
	if err != nil {
		return nil, err
	}
	return ToStruct(result)
}

// Parse parses {"equation": "..."} without balancing
func (g *GRPCService) Parse(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	result, err := g.svc.Parse(ctx, stringField(req, "equation"))
	if err != nil {
		return nil, err
	}
	return ToStruct(result)
}

// Tokenize returns {"tokens": [...]} for {"equation": "..."}
func (g *GRPCService) Tokenize(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	tokens, err := g.svc.Tokenize(ctx, stringField(req, "equation"))
	if err != nil {
		return nil, err
	}
	return ToStruct(map[string]interface{}{"tokens": TokenViews(tokens)})
}

// Examples returns {"examples": [...]}
func (g *GRPCService) Examples(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return ToStruct(map[string]interface{}{"examples": g.svc.Examples()})
}

// Example returns one example by name
func (g *GRPCService) Example(ctx context.Context, name *wrapperspb.StringValue) (*structpb.Struct, error) {
	ex, err := g.svc.Example(name.GetValue())
	if err != nil {
		return nil, err
	}
	return ToStruct(ex)
}

// History serves three shapes: {"id": "..."} returns one record,
// {"stats": true} returns counters and anything else lists records using
// the optional status, source, limit and offset fields.
func (g *GRPCService) History(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	if id := stringField(req, "id"); id != "" {
		rec, err := g.svc.HistoryRecord(ctx, id)
		if err != nil {
			return nil, err
		}
		return ToStruct(rec)
	}
	if req.GetFields()["stats"].GetBoolValue() {
		stats, err := g.svc.HistoryStats(ctx)
		if err != nil {
			return nil, err
		}
		return ToStruct(stats)
	}

	records, err := g.svc.History(ctx, store.Filter{
		Status: store.Status(stringField(req, "status")),
		Source: stringField(req, "source"),
		Limit:  int(req.GetFields()["limit"].GetNumberValue()),
		Offset: int(req.GetFields()["offset"].GetNumberValue()),
	})
	if err != nil {
		return nil, err
	}
	return ToStruct(map[string]interface{}{"records": records})
}

func stringField(s *structpb.Struct, name string) string {
	return s.GetFields()[name].GetStringValue()
}

// ToStruct converts v to a struct through its JSON encoding
func ToStruct(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return structpb.NewStruct(m)
}

// FromStruct decodes s into v through its JSON encoding
func FromStruct(s *structpb.Struct, v interface{}) error {
	data, err := json.Marshal(s.AsMap())
	if err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
