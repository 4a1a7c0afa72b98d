package api

import (
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
)

type Response struct {
	Data any `json:"data"`
}

type ResponseError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

func SuccessJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(Response{Data: data})
}

// ErrorJSON 500以上不回傳細節, 內部故障細節只進server log
func ErrorJSON(w http.ResponseWriter, code int, err error, message string) {
	body := ResponseError{
		Code:    code,
		Message: message,
	}
	if err != nil && code < int(er.InternalErrorCode) {
		body.Detail = err.Error()
	}

	status := code
	// upstream失敗對client就是一般server error
	if code == int(er.UpstreamErrorCode) {
		status = int(er.InternalErrorCode)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
