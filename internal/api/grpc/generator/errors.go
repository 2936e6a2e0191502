package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/oshokin/webbox/internal/domain/generation"
)

// ErrorDomain is the ErrorInfo domain of pipeline failures.
const ErrorDomain = "webbox.io"

// Metadata keys of ErrorInfo.
const (
	metadataOp     = "op"
	metadataReason = "reason"
	metadataCause  = "cause"
	metadataErrno  = "errno"
)

// wellKnownCauses survive the transport so clients can still recognize them.
//
//nolint:gochecknoglobals // Immutable lookup table.
var wellKnownCauses = map[string]error{
	"EACCES": fs.ErrPermission,
	"ENOSPC": syscall.ENOSPC,
}

// codeOf maps a failure kind to a gRPC status code.
func codeOf(kind generation.Kind) codes.Code {
	switch kind {
	case generation.KindInvalidRequest, generation.KindIconDecode:
		return codes.InvalidArgument
	case generation.KindPathNotFound:
		return codes.NotFound
	case generation.KindTemplateMissing, generation.KindPermissionPreservation, generation.KindLaunchFailed:
		return codes.FailedPrecondition
	case generation.KindCanceled:
		return codes.Canceled
	default:
		return codes.Internal
	}
}

// ToStatus converts err into a gRPC status error carrying its kind, operation
// and offending field.
func ToStatus(err error) error {
	if err == nil {
		return nil
	}

	var genErr *generation.Error
	if !errors.As(err, &genErr) {
		return status.Error(codes.Internal, err.Error())
	}

	st := status.New(codeOf(genErr.Kind), err.Error())

	info := &errdetails.ErrorInfo{
		Reason: string(genErr.Kind),
		Domain: ErrorDomain,
		Metadata: map[string]string{
			metadataOp:     genErr.Op,
			metadataReason: genErr.Reason,
		},
	}

	if genErr.Err != nil {
		info.Metadata[metadataCause] = genErr.Err.Error()
	}

	for name, sentinel := range wellKnownCauses {
		if errors.Is(err, sentinel) {
			info.Metadata[metadataErrno] = name
		}
	}

	withInfo, detailErr := st.WithDetails(info)
	if detailErr != nil {
		return st.Err()
	}

	if genErr.Field == "" {
		return withInfo.Err()
	}

	withField, detailErr := withInfo.WithDetails(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{
			Field:       genErr.Field,
			Description: genErr.Reason,
		}},
	})
	if detailErr != nil {
		return withInfo.Err()
	}

	return withField.Err()
}

// FromStatus rebuilds a *generation.Error from a status produced by ToStatus.
// Other errors are returned unchanged.
func FromStatus(err error) error {
	st, ok := status.FromError(err)
	if !ok || st.Code() == codes.OK {
		return err
	}

	rebuilt := &generation.Error{}

	for _, detail := range st.Details() {
		switch d := detail.(type) {
		case *errdetails.ErrorInfo:
			if d.GetDomain() != ErrorDomain {
				continue
			}

			rebuilt.Kind = generation.Kind(d.GetReason())
			rebuilt.Op = d.GetMetadata()[metadataOp]
			rebuilt.Reason = d.GetMetadata()[metadataReason]

			rebuilt.Err = rebuildCause(d.GetMetadata())
		case *errdetails.BadRequest:
			if violations := d.GetFieldViolations(); len(violations) > 0 {
				rebuilt.Field = violations[0].GetField()
			}
		}
	}

	if rebuilt.Kind == "" {
		if st.Code() == codes.Canceled {
			return generation.Wrap(generation.KindCanceled, "generate", err)
		}

		return err
	}

	return rebuilt
}

func rebuildCause(metadata map[string]string) error {
	cause := metadata[metadataCause]
	sentinel, known := wellKnownCauses[metadata[metadataErrno]]

	switch {
	case known && cause != "":
		return fmt.Errorf("%s: %w", cause, sentinel)
	case known:
		return sentinel
	case cause != "":
		return errors.New(cause)
	default:
		return nil
	}
}
