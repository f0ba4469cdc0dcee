package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/hadwinjiang/s3-signed-url/pkg/signedurl"
)

// SignHandler handles the signed-URL API endpoint
type SignHandler struct {
	service signedurl.Service
}

// NewSignHandler creates a new sign handler
func NewSignHandler(service signedurl.Service) *SignHandler {
	return &SignHandler{
		service: service,
	}
}

// Routes returns the router for signed-URL endpoints
func (h *SignHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SignDownload)
	return r
}

// SignURLRequest represents the request for a signed download URL. Clients
// send either s3Path, or bucket and key together.
type SignURLRequest struct {
	S3Path   string `json:"s3Path,omitempty"`
	Bucket   string `json:"bucket,omitempty"`
	Key      string `json:"key,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// SignURLResponse represents a successfully signed URL
type SignURLResponse struct {
	SignedURL string `json:"signedUrl"`
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expiresIn"`
}

// ErrorResponse is the error envelope returned for every rejected request
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// SignDownload decodes one request body and hands it to the service. The
// body must decode before any locator handling happens, so a malformed body
// is always reported as InvalidRequestBody.
func (h *SignHandler) SignDownload(w http.ResponseWriter, r *http.Request) {
	var req SignURLRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Failed to decode request body", "error", err)
		renderError(w, r, &signedurl.RequestError{
			Category: signedurl.CategoryInvalidRequestBody,
			Message:  "request body must be a valid JSON object",
		})
		return
	}

	result, err := h.service.SignDownload(r.Context(), signedurl.SignRequest{
		S3Path:   req.S3Path,
		Bucket:   req.Bucket,
		Key:      req.Key,
		Filename: req.Filename,
	})
	if err != nil {
		var rerr *signedurl.RequestError
		if !errors.As(err, &rerr) {
			slog.Error("Unclassified sign failure", "error", err)
			rerr = &signedurl.RequestError{
				Category: signedurl.CategoryInternalError,
				Message:  "an internal error occurred",
			}
		}
		slog.Warn("Sign request rejected", "category", rerr.Category, "message", rerr.Message)
		renderError(w, r, rerr)
		return
	}

	slog.Info("Signed download URL issued",
		"path", signedurl.FormatLocatorPath(result.Bucket, result.Key),
		"expires_in", result.ExpiresIn)
	render.JSON(w, r, SignURLResponse{
		SignedURL: result.URL,
		Bucket:    result.Bucket,
		Key:       result.Key,
		ExpiresIn: result.ExpiresIn,
	})
}

// renderError writes the categorized error envelope. Throttled rejections
// carry a Retry-After hint.
func renderError(w http.ResponseWriter, r *http.Request, rerr *signedurl.RequestError) {
	if rerr.RetryAfter > 0 {
		w.Header().Set("Retry-After", strconv.Itoa(rerr.RetryAfter))
	}
	render.Status(r, statusFor(rerr.Category))
	render.JSON(w, r, ErrorResponse{
		Error:   string(rerr.Category),
		Message: rerr.Message,
	})
}

// statusFor maps a failure category to its HTTP status. BucketNotFound is
// deliberately 400, not 404: a nonexistent bucket is treated as a client
// input problem.
func statusFor(category signedurl.ErrorCategory) int {
	switch category {
	case signedurl.CategoryAccessDenied:
		return http.StatusForbidden
	case signedurl.CategoryTooManyRequests:
		return http.StatusTooManyRequests
	case signedurl.CategoryInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}
