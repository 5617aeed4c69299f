package calc

import (
	"context"
	"errors"
	"fmt"

	"github.com/signalsfoundry/rfcalc/rf"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Client calls a remote calculator service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// Evaluate invokes method with the given request fields and returns the
// response fields.
func (c *Client) Evaluate(ctx context.Context, method string, fields map[string]any, opts ...grpc.CallOption) (map[string]any, error) {
	in, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, fmt.Errorf("encode %s request: %w", method, err)
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out.AsMap(), nil
}

// RadarMaxRange evaluates the radar range equation remotely.
func (c *Client) RadarMaxRange(ctx context.Context, p rf.RadarParams, opts ...grpc.CallOption) (float64, error) {
	out, err := c.Evaluate(ctx, "RadarMaxRange", map[string]any{
		"transmit_power": p.TransmitPower,
		"gain":           p.Gain,
		"cross_section":  p.CrossSection,
		"freq":           p.Freq,
		"sensitivity":    p.Sensitivity,
	}, opts...)
	if err != nil {
		return 0, err
	}
	rng, ok := out["range_m"].(float64)
	if !ok {
		return 0, errors.New("RadarMaxRange response missing range_m")
	}
	return rng, nil
}
