// internal/app/features/collaborations/respond.go
package collaborations

import (
	"encoding/json"
	"net/http"

	"github.com/dalemusser/collabhub/internal/app/core/collaberr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps the error taxonomy onto HTTP statuses. Unclassified errors
// are logged and reported as 500 without leaking internals.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var status int
	var msg string

	switch {
	case collaberr.IsValidation(err):
		status, msg = http.StatusBadRequest, err.Error()
	case collaberr.IsAuthorization(err):
		status, msg = http.StatusForbidden, err.Error()
	case collaberr.IsNotFound(err):
		status, msg = http.StatusNotFound, err.Error()
	case collaberr.IsConflict(err):
		status, msg = http.StatusConflict, err.Error()
	case collaberr.IsSearch(err):
		status, msg = http.StatusBadGateway, "search provider unavailable"
		if log != nil {
			log.Error("search provider error", zap.Error(err))
		}
	case collaberr.IsStorage(err):
		status, msg = http.StatusInternalServerError, "storage error"
		if log != nil {
			log.Error("storage error", zap.Error(err))
		}
	default:
		status, msg = http.StatusInternalServerError, "internal error"
		if log != nil {
			log.Error("unhandled error", zap.Error(err))
		}
	}

	writeJSON(w, status, errorBody{Error: errorDetail{Code: status, Message: msg}})
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: errorDetail{
		Code:    http.StatusBadRequest,
		Message: msg,
	}})
}

func writeForbidden(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusForbidden, errorBody{Error: errorDetail{
		Code:    http.StatusForbidden,
		Message: msg,
	}})
}

// collabParams extracts and validates the {objectType}/{id} route pair.
func collabParams(r *http.Request) (objectType string, id primitive.ObjectID, err error) {
	objectType = chi.URLParam(r, "objectType")
	id, err = primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	return objectType, id, err
}

// userIDParam extracts the {userID} route parameter.
func userIDParam(r *http.Request) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(chi.URLParam(r, "userID"))
}
