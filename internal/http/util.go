package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"agrofund/internal/domain"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func parseInt(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// parseBool returns nil for an empty or unparsable value.
func parseBool(s string) *bool {
	if s == "" {
		return nil
	}
	b, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &b
}

func readBodyJSON(r *http.Request, maxBytes int64, out any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBytes))
	if err != nil {
		return err
	}
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

// writeError logs the failure and writes the envelope. Permission failures
// are HTTP 403; everything else is a business failure on HTTP 200.
func writeError(w http.ResponseWriter, logger *zap.Logger, op string, err error) {
	if errors.Is(err, domain.ErrForbidden) {
		logger.Warn(op+" forbidden", zap.Error(err))
		writeJSON(w, http.StatusForbidden, failWithCode(ResultForbidden, err.Error()))
		return
	}
	logger.Error(op+" failed", zap.Error(err))
	writeJSON(w, http.StatusOK, Fail(err.Error()))
}
