// Package client talks to a running Lavoisier server over gRPC.
package client

import (
	"context"
	"fmt"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/catalog"
	"github.com/msto63/lavoisier/internal/lavoisier/server"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	coregrpc "github.com/msto63/lavoisier/pkg/core/grpc"
	"github.com/msto63/lavoisier/pkg/core/logging"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// Client is a Balancer gRPC client
type Client struct {
	conn *grpc.ClientConn
}

// Dial connects to the server at target, e.g. "localhost:9310"
func Dial(target string, opts ...grpc.DialOption) (*Client, error) {
	cfg := coregrpc.DefaultClientConfig(target)
	cfg.Logger = logging.New("lavoisier-client")
	conn, err := coregrpc.Dial(cfg, opts...)
	if err != nil {
		return nil, mdwerror.Wrap(err, "failed to connect").
			WithCode(mdwerror.CodeServiceUnavailable).
			WithOperation("client.Dial")
	}
	return &Client{conn: conn}, nil
}

// Close closes the connection
func (c *Client) Close() error {
	return c.conn.Close()
}

// Balance balances equation on the server
func (c *Client) Balance(ctx context.Context, equation string) (*service.BalanceResult, error) {
	var result service.BalanceResult
	if err := c.call(ctx, server.MethodBalance, equationRequest(equation), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Parse parses equation on the server
func (c *Client) Parse(ctx context.Context, equation string) (*service.ParseResult, error) {
	var result service.ParseResult
	if err := c.call(ctx, server.MethodParse, equationRequest(equation), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Tokens returns the token stream of equation
func (c *Client) Tokens(ctx context.Context, equation string) ([]server.TokenView, error) {
	var result struct {
		Tokens []server.TokenView `json:"tokens"`
	}
	if err := c.call(ctx, server.MethodTokenize, equationRequest(equation), &result); err != nil {
		return nil, err
	}
	return result.Tokens, nil
}

// Examples lists the sample equations of the server
func (c *Client) Examples(ctx context.Context) ([]catalog.Example, error) {
	var result struct {
		Examples []catalog.Example `json:"examples"`
	}
	if err := c.call(ctx, server.MethodExamples, &emptypb.Empty{}, &result); err != nil {
		return nil, err
	}
	return result.Examples, nil
}

// Example returns one sample equation
func (c *Client) Example(ctx context.Context, name string) (*catalog.Example, error) {
	var ex catalog.Example
	if err := c.call(ctx, server.MethodExample, wrapperspb.String(name), &ex); err != nil {
		return nil, err
	}
	return &ex, nil
}

// History lists recorded attempts
func (c *Client) History(ctx context.Context, filter store.Filter) ([]*store.Record, error) {
	req, err := structpb.NewStruct(map[string]interface{}{
		"status": string(filter.Status),
		"source": filter.Source,
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})
	if err != nil {
		return nil, err
	}
	var result struct {
		Records []*store.Record `json:"records"`
	}
	if err := c.call(ctx, server.MethodHistory, req, &result); err != nil {
		return nil, err
	}
	return result.Records, nil
}

// HistoryStats summarizes recorded attempts
func (c *Client) HistoryStats(ctx context.Context) (*store.Stats, error) {
	req, err := structpb.NewStruct(map[string]interface{}{"stats": true})
	if err != nil {
		return nil, err
	}
	var stats store.Stats
	if err := c.call(ctx, server.MethodHistory, req, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (c *Client) call(ctx context.Context, method string, req proto.Message, out interface{}) error {
	var trailer metadata.MD
	resp := new(structpb.Struct)
	if err := c.conn.Invoke(ctx, method, req, resp, grpc.Trailer(&trailer)); err != nil {
		return fromStatus(err, trailer, method)
	}
	return server.FromStruct(resp, out)
}

func equationRequest(equation string) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		"equation": structpb.NewStringValue(equation),
	}}
}

// fromStatus restores the foundation error code sent by the server
func fromStatus(err error, trailer metadata.MD, method string) error {
	st, _ := status.FromError(err)
	code := coregrpc.ErrorCode(trailer)
	if code == mdwerror.CodeUnknown {
		code = mdwerror.CodeServiceUnavailable
	}
	return mdwerror.New(st.Message()).
		WithCode(code).
		WithOperation(method).
		WithDetail("grpc_code", fmt.Sprint(st.Code()))
}
