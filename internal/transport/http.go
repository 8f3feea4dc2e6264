package transport

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goodnatureofminers/blockinsight7000-txcodec/internal/txerr"
	gwruntime "github.com/grpc-ecosystem/grpc-gateway/v2/runtime"
)

//go:generate mockgen -source=http.go -destination=mocks_test.go -package=transport

// MaxRequestBytes bounds request bodies accepted by the HTTP routes.
const MaxRequestBytes = 4 << 20

type Metrics interface {
	Observe(route string, err error, started time.Time)
}

type noopMetrics struct{}

func (noopMetrics) Observe(string, error, time.Time) {}

// RegisterHTTP mounts the JSON routes on mux.
func RegisterHTTP(mux *gwruntime.ServeMux, srv TxCodecServer, metrics Metrics) error {
	if metrics == nil {
		metrics = noopMetrics{}
	}
	routes := []struct {
		method  string
		path    string
		handler gwruntime.HandlerFunc
	}{
		{http.MethodPost, "/v1/tx/decode", route("decode", metrics, srv.Decode)},
		{http.MethodPost, "/v1/tx/encode", route("encode", metrics, srv.Encode)},
		{http.MethodPost, "/v1/script/disassemble", route("disassemble", metrics, srv.Disassemble)},
		{http.MethodPost, "/v1/script/assemble", route("assemble", metrics, srv.Assemble)},
		{http.MethodPost, "/v1/script/classify", route("classify", metrics, srv.Classify)},
		{http.MethodGet, "/healthz", healthz},
	}
	for _, r := range routes {
		if err := mux.HandlePath(r.method, r.path, r.handler); err != nil {
			return fmt.Errorf("register %s %s: %w", r.method, r.path, err)
		}
	}
	return nil
}

func route[Req, Resp any](name string, metrics Metrics, call func(context.Context, *Req) (*Resp, error)) gwruntime.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request, _ map[string]string) {
		started := time.Now()
		resp, err := serve(w, r, call)
		metrics.Observe(name, err, started)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

func serve[Req, Resp any](w http.ResponseWriter, r *http.Request, call func(context.Context, *Req) (*Resp, error)) (*Resp, error) {
	req := new(Req)
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxRequestBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(req); err != nil {
		return nil, txerr.Wrap(txerr.InputValidation, "decode request body", err)
	}
	return call(r.Context(), req)
}

func healthz(w http.ResponseWriter, _ *http.Request, _ map[string]string) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeError(w http.ResponseWriter, err error) {
	kind := txerr.KindOf(err).String()
	var tooLarge *http.MaxBytesError
	code := gwruntime.HTTPStatusFromCode(Code(err))
	if errors.As(err, &tooLarge) {
		code = http.StatusRequestEntityTooLarge
	}
	writeJSON(w, code, ErrorResponse{
		Error: err.Error(),
		Kind:  strings.ReplaceAll(kind, " ", "_"),
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
