package handler

import (
	"net/http"
	"strconv"

	"github.com/RoyceAzure/lab/storefront/internal/infra/token"
	"github.com/RoyceAzure/lab/storefront/internal/pkg/er"
	"github.com/RoyceAzure/lab/storefront/internal/util"
	"github.com/go-chi/chi/v5"
)

// parseIDParam 解析url內的數字ID, 失敗回傳InvalidArgument
func parseIDParam(r *http.Request, name string) (uint, error) {
	raw := chi.URLParam(r, name)
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, er.Newf(er.InvalidArgumentCode, "invalid %s %q", name, raw)
	}
	return uint(id), nil
}

// payloadFromRequest middleware已擋掉沒有payload的請求, 這裡再防一層
func payloadFromRequest(r *http.Request) (*token.Payload, error) {
	payload := util.GetTokenPayloadFromContext(r.Context())
	if payload == nil {
		return nil, er.New(er.UnauthenticatedCode, "invalid token")
	}
	return payload, nil
}
