package handlers

import (
	"errors"
	"sort"

	e "github.com/gartstein/jingjai/internal/jingjai/errors"
	"github.com/gartstein/jingjai/internal/jingjai/validation"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// parseID reads a required record ID.
func parseID(field, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, validation.Violations{field: "must be a valid id"}
	}
	return id, nil
}

// optionalID reads the ID of an upsert; empty means create.
func optionalID(raw string) (*uuid.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := parseID("id", raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

var kindCodes = map[e.Kind]codes.Code{
	e.KindUnauthenticated:    codes.Unauthenticated,
	e.KindInvalidArgument:    codes.InvalidArgument,
	e.KindFailedPrecondition: codes.FailedPrecondition,
	e.KindAlreadyExists:      codes.AlreadyExists,
	e.KindNotFound:           codes.NotFound,
}

// mapServiceError maps domain or repository errors to gRPC status errors.
// Field violations travel as a BadRequest detail. Internal errors are
// logged and replaced by a generic message.
func (h *ControlHandler) mapServiceError(err error) error {
	if _, ok := status.FromError(err); ok {
		return err
	}
	code, ok := kindCodes[e.KindOf(err)]
	if !ok {
		h.logger.Error("Internal server error", zap.Error(err))
		return status.Error(codes.Internal, "internal server error")
	}

	st := status.New(code, err.Error())
	var violations validation.Violations
	if errors.As(err, &violations) {
		st = withFieldViolations(st, violations)
	}
	return st.Err()
}

func withFieldViolations(st *status.Status, v validation.Violations) *status.Status {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	br := &errdetails.BadRequest{}
	for _, f := range fields {
		br.FieldViolations = append(br.FieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       f,
			Description: v[f],
		})
	}
	detailed, err := st.WithDetails(br)
	if err != nil {
		return st
	}
	return detailed
}

// fieldViolations extracts the field map carried by a status, if any.
func fieldViolations(st *status.Status) map[string]string {
	var out map[string]string
	for _, d := range st.Details() {
		br, ok := d.(*errdetails.BadRequest)
		if !ok {
			continue
		}
		if out == nil {
			out = make(map[string]string, len(br.GetFieldViolations()))
		}
		for _, fv := range br.GetFieldViolations() {
			out[fv.GetField()] = fv.GetDescription()
		}
	}
	return out
}

var codeKinds = map[codes.Code]e.Kind{
	codes.Unauthenticated:    e.KindUnauthenticated,
	codes.InvalidArgument:    e.KindInvalidArgument,
	codes.FailedPrecondition: e.KindFailedPrecondition,
	codes.AlreadyExists:      e.KindAlreadyExists,
	codes.NotFound:           e.KindNotFound,
}

// kindOfCode is the error kind reported to HTTP callers for a gRPC code.
func kindOfCode(code codes.Code) e.Kind {
	if kind, ok := codeKinds[code]; ok {
		return kind
	}
	return e.KindInternal
}
