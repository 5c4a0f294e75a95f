package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	mdwerror "github.com/msto63/lavoisier/foundation/core/error"
	"github.com/msto63/lavoisier/internal/lavoisier/parser"
	"github.com/msto63/lavoisier/internal/lavoisier/service"
	"github.com/msto63/lavoisier/internal/lavoisier/store"
	"github.com/msto63/lavoisier/pkg/core/health"
	"github.com/msto63/lavoisier/pkg/core/logging"
	"github.com/msto63/lavoisier/pkg/core/version"
)

// maxBodySize limits request bodies of the JSON endpoints
const maxBodySize = 64 * 1024

// EquationRequest is the body of the balance, parse and tokens endpoints
type EquationRequest struct {
	Equation string `json:"equation"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string                 `json:"error"`
	Code    string                 `json:"code"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// TokenView is the wire form of a lexer token
type TokenView struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Position int    `json:"position"`
	Column   int    `json:"column"`
	State    int    `json:"state"`
}

// Handler serves the REST API
type Handler struct {
	svc     *service.Service
	health  *health.Registry
	logger  *logging.Logger
	timeout time.Duration
}

// NewHandler creates a REST handler. A zero timeout means requests are only
// bounded by the client.
func NewHandler(svc *service.Service, registry *health.Registry, timeout time.Duration) *Handler {
	return &Handler{
		svc:     svc,
		health:  registry,
		logger:  logging.New("lavoisier-http"),
		timeout: timeout,
	}
}

// ServeHTTP routes API requests
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	ctx := r.Context()
	if h.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.timeout)
		defer cancel()
		r = r.WithContext(ctx)
	}

	path := strings.TrimPrefix(r.URL.Path, "/api/v1")
	path = strings.Trim(path, "/")

	switch {
	case path == "health":
		h.handleHealth(w, r)
	case path == "version":
		h.handleVersion(w, r)
	case path == "balance":
		h.handleBalance(w, r)
	case path == "parse":
		h.handleParse(w, r)
	case path == "tokens":
		h.handleTokens(w, r)
	case path == "examples":
		h.handleExamples(w, r)
	case strings.HasPrefix(path, "examples/"):
		h.handleExample(w, r, strings.TrimPrefix(path, "examples/"))
	case path == "history":
		h.handleHistory(w, r)
	case path == "history/stats":
		h.handleHistoryStats(w, r)
	case strings.HasPrefix(path, "history/"):
		h.handleHistoryRecord(w, r, strings.TrimPrefix(path, "history/"))
	default:
		h.writeError(w, http.StatusNotFound, string(mdwerror.CodeNotFound), "Endpoint not found", nil)
	}
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	report := h.health.Check(r.Context())
	status := http.StatusOK
	if report.Status == health.StatusUnhealthy {
		status = http.StatusServiceUnavailable
	}
	h.writeJSON(w, status, report)
}

func (h *Handler) handleVersion(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, version.Get())
}

func (h *Handler) handleBalance(w http.ResponseWriter, r *http.Request) {
	equation, ok := h.readEquation(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Balance(r.Context(), service.BalanceRequest{
		Equation:  equation,
		Source:    "http",
		RequestID: RequestIDFromContext(r.Context()),
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleParse(w http.ResponseWriter, r *http.Request) {
	equation, ok := h.readEquation(w, r)
	if !ok {
		return
	}
	result, err := h.svc.Parse(r.Context(), equation)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, result)
}

func (h *Handler) handleTokens(w http.ResponseWriter, r *http.Request) {
	equation, ok := h.readEquation(w, r)
	if !ok {
		return
	}
	tokens, err := h.svc.Tokenize(r.Context(), equation)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"tokens": TokenViews(tokens)})
}

func (h *Handler) handleExamples(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"examples": h.svc.Examples()})
}

func (h *Handler) handleExample(w http.ResponseWriter, r *http.Request, name string) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	ex, err := h.svc.Example(name)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, ex)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}

	q := r.URL.Query()
	filter := store.Filter{
		Status: store.Status(strings.ToUpper(q.Get("status"))),
		Source: q.Get("source"),
	}
	var err error
	if filter.Limit, err = intParam(q.Get("limit")); err != nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid limit", nil)
		return
	}
	if filter.Offset, err = intParam(q.Get("offset")); err != nil {
		h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid offset", nil)
		return
	}
	if since := q.Get("since"); since != "" {
		if filter.Since, err = time.Parse(time.RFC3339, since); err != nil {
			h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid since, want RFC 3339", nil)
			return
		}
	}

	records, err := h.svc.History(r.Context(), filter)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	if records == nil {
		records = []*store.Record{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"records": records})
}

func (h *Handler) handleHistoryStats(w http.ResponseWriter, r *http.Request) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	stats, err := h.svc.HistoryStats(r.Context())
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) handleHistoryRecord(w http.ResponseWriter, r *http.Request, id string) {
	if !h.allow(w, r, http.MethodGet) {
		return
	}
	rec, err := h.svc.HistoryRecord(r.Context(), id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	h.writeJSON(w, http.StatusOK, rec)
}

// readEquation accepts GET ?equation=... and POST {"equation": "..."}
func (h *Handler) readEquation(w http.ResponseWriter, r *http.Request) (string, bool) {
	switch r.Method {
	case http.MethodGet:
		return r.URL.Query().Get("equation"), true
	case http.MethodPost:
		var req EquationRequest
		body := http.MaxBytesReader(w, r.Body, maxBodySize)
		if err := json.NewDecoder(body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			h.writeError(w, http.StatusBadRequest, string(mdwerror.CodeInvalidInput), "Invalid request body", nil)
			return "", false
		}
		return req.Equation, true
	default:
		h.writeError(w, http.StatusMethodNotAllowed, string(mdwerror.CodeInvalidInput), "Method not allowed", nil)
		return "", false
	}
}

func (h *Handler) allow(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		h.writeError(w, http.StatusMethodNotAllowed, string(mdwerror.CodeInvalidInput), "Method not allowed", nil)
		return false
	}
	return true
}

func intParam(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0, errors.New("not a non-negative integer")
	}
	return n, nil
}

// HTTPStatus maps a foundation error code to an HTTP status
func HTTPStatus(code mdwerror.Code) int {
	switch code {
	case mdwerror.CodeInvalidInput, mdwerror.CodeSyntax:
		return http.StatusBadRequest
	case mdwerror.CodeAllZero, mdwerror.CodeMultipleSolutions:
		return http.StatusUnprocessableEntity
	case mdwerror.CodeNotFound:
		return http.StatusNotFound
	case mdwerror.CodeTimeout:
		return http.StatusGatewayTimeout
	case mdwerror.CodeStorage, mdwerror.CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var e *mdwerror.Error
	if !errors.As(err, &e) {
		h.logger.Error("Unclassified service error", "error", err)
		h.writeError(w, http.StatusInternalServerError, string(mdwerror.CodeInternal), err.Error(), nil)
		return
	}
	status := HTTPStatus(e.Code())
	if status >= http.StatusInternalServerError {
		h.logger.Error("Request failed", "code", e.Code().String(), "error", err)
	}
	h.writeError(w, status, e.Code().String(), err.Error(), e.Details())
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("Failed to write response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, code, message string, details map[string]interface{}) {
	if len(details) == 0 {
		details = nil
	}
	h.writeJSON(w, status, ErrorResponse{
		Error:   message,
		Code:    code,
		Details: details,
	})
}

// TokenViews converts parser tokens to their wire form
func TokenViews(tokens []parser.Token) []TokenView {
	views := make([]TokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, TokenView{
			Type:     t.Type.String(),
			Value:    t.Value,
			Position: t.Position,
			Column:   t.Column,
			State:    int(t.State),
		})
	}
	return views
}
