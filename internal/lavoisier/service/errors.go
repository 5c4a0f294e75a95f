package service

import (
	"context"
	"errors"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/parser"
	"github.com/msto63/lavoisier/internal/lavoisier/solver"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
)

var errEmptyInput = errors.New("equation is required")

// classify wraps err into a foundation error carrying the code and the
// position details frontends need to point at the problem
func classify(err error, op string) error {
	var e *mdwerror.Error
	if errors.As(err, &e) {
		return err
	}

	var (
		syn  *parser.SyntaxError
		serr *solver.SolveError
	)
	switch {
	case errors.Is(err, errEmptyInput):
		return mdwerror.Wrap(err, "invalid input").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)

	case errors.As(err, &syn):
		code := mdwerror.CodeSyntax
		if errors.Is(syn, parser.ErrInputTooLong) || errors.Is(syn, parser.ErrCountTooLarge) {
			code = mdwerror.CodeInvalidInput
		}
		out := mdwerror.Wrap(err, "cannot parse equation").
			WithCode(code).
			WithOperation(op).
			WithDetail("reason", syn.Reason.Error()).
			WithDetail("position", syn.Position).
			WithDetail("line", syn.Line).
			WithDetail("column", syn.Column)
		if syn.State != 0 {
			out.WithDetail("state", syn.State.String())
		}
		if syn.Token.Value != "" {
			out.WithDetail("token", syn.Token.Value)
		}
		return out

	case errors.As(err, &serr):
		code := mdwerror.CodeAllZero
		if serr.Kind == solver.KindMultipleSolutions {
			code = mdwerror.CodeMultipleSolutions
		}
		return mdwerror.Wrap(err, "cannot balance equation").
			WithCode(code).
			WithOperation(op).
			WithDetail("kind", serr.Kind.String())

	case errors.Is(err, solver.ErrOverflow):
		return mdwerror.Wrap(err, "atom counts too large to balance").
			WithCode(mdwerror.CodeInvalidInput).
			WithOperation(op)

	case errors.Is(err, solver.ErrUnbalanced):
		return mdwerror.Wrap(err, "verification failed").
			WithCode(mdwerror.CodeUnbalanced).
			WithOperation(op)

	case errors.Is(err, store.ErrNotFound):
		return mdwerror.Wrap(err, "not found").
			WithCode(mdwerror.CodeNotFound).
			WithOperation(op)

	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return mdwerror.Wrap(err, "request aborted").
			WithCode(mdwerror.CodeTimeout).
			WithOperation(op)

	default:
		return mdwerror.Wrap(err, "internal error").
			WithCode(mdwerror.CodeInternal).
			WithOperation(op)
	}
}
