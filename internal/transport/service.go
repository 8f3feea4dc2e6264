// Package transport exposes the codec over HTTP and gRPC.
package transport

import (
	"context"
	"errors"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/report"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/script"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/tx"
	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type (
	DecodeRequest struct {
		// Hex is a raw transaction or a JSON-RPC envelope {"result": "<hex>"}.
		Hex string `json:"hex"`
	}
	ScriptRequest struct {
		Hex string `json:"hex"`
	}
	AssembleRequest struct {
		ASM string `json:"asm"`
		// Canonical rejects ASM that would not disassemble to the same text.
		Canonical bool `json:"canonical,omitempty"`
	}
	ErrorResponse struct {
		Error string `json:"error"`
		Kind  string `json:"kind"`
	}
)

// TxCodecServer is the service shared by the HTTP routes and the gRPC server.
type TxCodecServer interface {
	Decode(ctx context.Context, req *DecodeRequest) (*report.Transaction, error)
	Encode(ctx context.Context, req *tx.Template) (*report.Transaction, error)
	Disassemble(ctx context.Context, req *ScriptRequest) (*report.Script, error)
	Assemble(ctx context.Context, req *AssembleRequest) (*report.Script, error)
	Classify(ctx context.Context, req *ScriptRequest) (*report.Script, error)
}

type Handler struct {
	codec  *tx.Codec
	params *chaincfg.Params
}

func NewHandler(codec *tx.Codec, params *chaincfg.Params) *Handler {
	return &Handler{codec: codec, params: params}
}

func (h *Handler) Decode(ctx context.Context, req *DecodeRequest) (*report.Transaction, error) {
	t, err := h.codec.DecodeHex(ctx, req.Hex)
	if err != nil {
		return nil, err
	}
	return report.NewTransaction(t, h.codec, h.params)
}

func (h *Handler) Encode(_ context.Context, req *tx.Template) (*report.Transaction, error) {
	t, err := h.codec.Build(*req)
	if err != nil {
		return nil, err
	}
	return report.NewTransaction(t, h.codec, h.params)
}

func (h *Handler) Disassemble(_ context.Context, req *ScriptRequest) (*report.Script, error) {
	s, err := script.FromHex(req.Hex)
	if err != nil {
		return nil, err
	}
	if _, err := s.Disassemble(); err != nil {
		return nil, err
	}
	view := report.NewScript(s, h.params)
	return &view, nil
}

func (h *Handler) Assemble(_ context.Context, req *AssembleRequest) (*report.Script, error) {
	assemble := script.Assemble
	if req.Canonical {
		assemble = script.AssembleCanonical
	}
	s, err := assemble(req.ASM)
	if err != nil {
		return nil, err
	}
	view := report.NewScript(s, h.params)
	return &view, nil
}

func (h *Handler) Classify(_ context.Context, req *ScriptRequest) (*report.Script, error) {
	s, err := script.FromHex(req.Hex)
	if err != nil {
		return nil, err
	}
	view := report.NewScript(s, h.params)
	return &view, nil
}

// Code maps codec errors onto gRPC status codes.
func Code(err error) codes.Code {
	if s, ok := status.FromError(err); ok {
		return s.Code()
	}
	switch {
	case errors.Is(err, context.Canceled):
		return codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		return codes.DeadlineExceeded
	}
	switch txerr.KindOf(err) {
	case txerr.InputValidation, txerr.MalformedEncoding:
		return codes.InvalidArgument
	case txerr.InvariantViolation:
		return codes.FailedPrecondition
	case txerr.UnresolvedDependency:
		return codes.Unavailable
	default:
		return codes.Internal
	}
}

func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(Code(err), err.Error())
}
