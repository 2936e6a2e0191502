package generator

import (
	"context"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/webbox/internal/domain/generation"
	"github.com/oshokin/webbox/internal/logger"
	service "github.com/oshokin/webbox/internal/service/generator"
)

// Pipeline abstracts the generation operations the transport depends on.
type Pipeline interface {
	Start(ctx context.Context, raw generation.RawRequest) *service.Invocation
}

// Shell abstracts the bundle actions the transport depends on.
type Shell interface {
	Reveal(ctx context.Context, path string) error
	Launch(ctx context.Context, path string) error
}

// Server implements the webbox.v1.Generator gRPC API.
type Server struct {
	// pipeline runs generations.
	pipeline Pipeline
	// shell reveals and launches bundles.
	shell Shell
}

// NewServer wires the provided implementations into a gRPC handler.
func NewServer(pipeline Pipeline, shell Shell) *Server {
	return &Server{
		pipeline: pipeline,
		shell:    shell,
	}
}

// Generate runs one generation and streams its progress back to the caller.
// If the caller goes away the run is canceled, unless it is already finalizing.
func (s *Server) Generate(req *GenerateRequest, stream GenerateStream) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "request is required")
	}

	ctx := stream.Context()
	inv := s.pipeline.Start(ctx, req.Request)

	ctx = logger.WithKV(logger.WithName(ctx, "grpc"), "invocation_id", inv.ID)
	logger.InfoKV(ctx, "Generation requested", "requester", req.Requester.String(), "name", req.Request.DisplayName)

	sendErr := stream.Send(&GenerateEvent{InvocationID: inv.ID})

	// The stream is drained even after a send error so the run can finish.
	for ev := range inv.Events() {
		if sendErr != nil {
			continue
		}

		sendErr = stream.Send(&GenerateEvent{InvocationID: inv.ID, Progress: &ev})
	}

	result, err := inv.Wait()
	if err != nil {
		return ToStatus(err)
	}

	if sendErr != nil {
		logger.WarnKV(ctx, "Caller left before the result was sent", "error", sendErr)

		return sendErr
	}

	return stream.Send(&GenerateEvent{InvocationID: inv.ID, Result: result})
}

// Reveal shows a bundle in the daemon host's file manager.
func (s *Server) Reveal(ctx context.Context, req *PathRequest) (*PathResponse, error) {
	if req == nil || req.Path == "" {
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}

	logger.InfoKV(logger.WithName(ctx, "grpc"), "Reveal requested", "requester", req.Requester.String(), "path", req.Path)

	if err := s.shell.Reveal(ctx, req.Path); err != nil {
		return nil, ToStatus(err)
	}

	return &PathResponse{Path: req.Path}, nil
}

// Launch starts a bundle on the daemon host.
func (s *Server) Launch(ctx context.Context, req *PathRequest) (*PathResponse, error) {
	if req == nil || req.Path == "" {
		return nil, status.Error(codes.InvalidArgument, "path is required")
	}

	logger.InfoKV(logger.WithName(ctx, "grpc"), "Launch requested", "requester", req.Requester.String(), "path", req.Path)

	if err := s.shell.Launch(ctx, req.Path); err != nil {
		return nil, ToStatus(err)
	}

	return &PathResponse{Path: req.Path}, nil
}
