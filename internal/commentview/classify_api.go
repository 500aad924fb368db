package commentview

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lueurxax/dc-comment-filter/internal/core/domain"
	"github.com/lueurxax/dc-comment-filter/internal/core/errors"
	"github.com/lueurxax/dc-comment-filter/internal/process/classifier"
)

// ClassifyPath is where the classification endpoint is mounted.
const ClassifyPath = "/v1/classify"

type classifyRequest struct {
	Comments []classifyComment `json:"comments"`
}

type classifyComment struct {
	Text    string `json:"text"`
	Special bool   `json:"special"`
}

type classifyResponse struct {
	Hidden   []int          `json:"hidden"`
	Verdicts []verdictEntry `json:"verdicts"`
}

type verdictEntry struct {
	Spam    bool     `json:"spam"`
	Reasons []string `json:"reasons,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ClassifyHandler classifies a JSON list of comments with the same rules the
// page filter uses.
type ClassifyHandler struct {
	maxBodyBytes int64
	logger       *zerolog.Logger
}

// NewClassifyHandler creates the classification endpoint handler.
func NewClassifyHandler(maxBodyBytes int64, logger *zerolog.Logger) *ClassifyHandler {
	return &ClassifyHandler{maxBodyBytes: maxBodyBytes, logger: logger}
}

// ServeHTTP handles POST /v1/classify.
func (h *ClassifyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		h.writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		ClassifyRequestsTotal.WithLabelValues(StatusNotAllowed).Inc()

		return
	}

	var req classifyRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.writeError(w, http.StatusRequestEntityTooLarge, errors.ErrBodyTooLarge.Error())
			ClassifyRequestsTotal.WithLabelValues(StatusTooLarge).Inc()

			return
		}

		h.writeError(w, http.StatusBadRequest, errors.ErrInvalidInput.Error()+": "+err.Error())
		ClassifyRequestsTotal.WithLabelValues(StatusBadRequest).Inc()

		return
	}

	comments := make(domain.CommentList, 0, len(req.Comments))
	for _, c := range req.Comments {
		comments = append(comments, domain.Comment{Text: c.Text, IsSpecialContent: c.Special})
	}

	result := classifier.ClassifySource(comments)
	CommentsClassifiedTotal.Add(float64(len(comments)))

	resp := classifyResponse{
		Hidden:   make([]int, 0, len(result.Hidden)),
		Verdicts: make([]verdictEntry, 0, len(result.Verdicts)),
	}

	resp.Hidden = append(resp.Hidden, result.Hidden...)

	for _, v := range result.Verdicts {
		resp.Verdicts = append(resp.Verdicts, verdictEntry{Spam: v.IsSpam(), Reasons: v.Reasons()})
	}

	h.writeJSON(w, http.StatusOK, resp)
	ClassifyRequestsTotal.WithLabelValues(StatusOK).Inc()
}

func (h *ClassifyHandler) writeError(w http.ResponseWriter, code int, message string) {
	h.writeJSON(w, code, errorResponse{Error: message})
}

func (h *ClassifyHandler) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set(headerContentType, "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		ErrorsTotal.WithLabelValues(ErrorTypeEncode).Inc()
		h.logger.Error().Err(err).Msg("Failed to encode classify response")
	}
}
