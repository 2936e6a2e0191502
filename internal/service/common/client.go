//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	api "github.com/oshokin/webbox/internal/api/grpc/generator"
	"github.com/oshokin/webbox/internal/config"
	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/progress"
	"github.com/oshokin/webbox/internal/service/generator"
)

// Client talks to a generation daemon.
type Client struct {
	// conn is the underlying gRPC connection to the daemon.
	conn *grpc.ClientConn
	// actor is attached to every request.
	actor *api.Actor

	// callTimeout is the default timeout for unary calls. Generate streams are
	// bounded only by the caller's context.
	callTimeout time.Duration
}

// Option configures client behaviour.
type Option func(*Client)

// WithCallTimeout sets a default timeout for unary calls.
func WithCallTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.callTimeout = timeout
		}
	}
}

// WithActor sets the requester attached to every call.
func WithActor(actor *api.Actor) Option {
	return func(c *Client) {
		c.actor = actor
	}
}

var (
	// errAddressRequired is returned when a required address value is missing.
	errAddressRequired = errors.New("address must be provided")
	// errNoResult is returned when a Generate stream ends without a result.
	errNoResult = errors.New("generation stream ended without a result")
)

// Dial prepares a connection to the generation daemon.
// Note: this uses insecure transport credentials; the daemon is meant to listen
// on the loopback interface.
func Dial(_ context.Context, address string, opts ...Option) (*Client, error) {
	if address == "" {
		return nil, errAddressRequired
	}

	// Use the non-context NewClient API recommended by grpc-go
	// (DialContext is deprecated as of grpc-go v1.60+).
	conn, err := grpc.NewClient(address,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.CallContentSubtype(api.CodecName)),
	)
	if err != nil {
		return nil, fmt.Errorf("dial generation daemon: %w", err)
	}

	client := &Client{
		conn:        conn,
		callTimeout: config.DefaultTimeout,
	}

	for _, opt := range opts {
		opt(client)
	}

	return client, nil
}

// Close releases the underlying gRPC connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// Generate runs a generation on the daemon, passing every progress event to
// onProgress, and returns the result. Pipeline failures come back as
// *generation.Error.
func (c *Client) Generate(
	ctx context.Context,
	raw generation.RawRequest,
	onProgress func(progress.Event),
) (*generator.Result, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	stream, err := c.conn.NewStream(ctx, &api.ServiceDesc.Streams[0], api.GenerateFullMethodName)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	if err = stream.SendMsg(&api.GenerateRequest{Request: raw, Requester: c.actor}); err != nil {
		return nil, fmt.Errorf("generate: %w", api.FromStatus(err))
	}

	if err = stream.CloseSend(); err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}

	for {
		ev := new(api.GenerateEvent)

		err = stream.RecvMsg(ev)
		if errors.Is(err, io.EOF) {
			return nil, errNoResult
		}

		if err != nil {
			return nil, api.FromStatus(err)
		}

		if ev.Progress != nil && onProgress != nil {
			onProgress(*ev.Progress)
		}

		if ev.Result != nil {
			return ev.Result, nil
		}
	}
}

// Reveal asks the daemon to show a bundle in its file manager.
func (c *Client) Reveal(ctx context.Context, path string) error {
	return c.pathCall(ctx, api.RevealFullMethodName, path)
}

// Launch asks the daemon to start a bundle.
func (c *Client) Launch(ctx context.Context, path string) error {
	return c.pathCall(ctx, api.LaunchFullMethodName, path)
}

func (c *Client) pathCall(ctx context.Context, method, path string) error {
	callCtx, cancel := c.callContext(ctx)
	defer cancel()

	resp := new(api.PathResponse)

	if err := c.conn.Invoke(callCtx, method, &api.PathRequest{Path: path, Requester: c.actor}, resp); err != nil {
		return api.FromStatus(err)
	}

	return nil
}

// callContext returns a context with the client's call timeout if configured,
// otherwise a cancellable child context without a deadline.
func (c *Client) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.callTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, c.callTimeout)
}
