package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/socialmedia/internal/common"
	"github.com/gorilla/mux"
)

func decodeJSON(body io.ReadCloser, dst any) error {
	defer body.Close()
	return json.NewDecoder(body).Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeEmpty answers with status and no body.
func writeEmpty(w http.ResponseWriter, status int) {
	w.WriteHeader(status)
}

// pathID parses the {id} route variable.
func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
}

// fail maps a service error to a response. Rejections get rejectStatus and no
// body, unauthorized logins get 401, anything else is a 500.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error, rejectStatus int) {
	ctx := r.Context()

	if reason, ok := common.ReasonOf(err); ok {
		s.metrics.RecordRejection(string(reason))
		s.log(r).Info(ctx, "request rejected", "reason", reason)
		writeEmpty(w, rejectStatus)
		return
	}

	if errors.Is(err, common.ErrorUnauthorized) {
		s.log(r).Info(ctx, "login refused")
		writeEmpty(w, http.StatusUnauthorized)
		return
	}

	var se *common.StorageError
	if errors.As(err, &se) {
		s.metrics.RecordStorageError(se.Op, se.Kind.String())
	} else {
		s.metrics.RecordStorageError("", common.KindUnknown.String())
	}
	s.log(r).Error(ctx, "request failed", "error", err)
	writeEmpty(w, http.StatusInternalServerError)
}

// malformed answers 400 for bodies or ids that cannot be parsed.
func (s *Server) malformed(w http.ResponseWriter, r *http.Request, err error) {
	s.metrics.RecordRejection(string(common.ReasonMalformedRequest))
	s.log(r).Info(r.Context(), "malformed request", "error", err)
	writeEmpty(w, http.StatusBadRequest)
}
