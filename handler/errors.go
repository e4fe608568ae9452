package handler

import (
	"errors"
	"net/http"

	"Pulse/pkg/response"
	"Pulse/service"
)

// asBizError 业务错误翻译成响应错误
func asBizError(err error) error {
	var ve *service.ValidationError
	if errors.As(err, &ve) {
		return response.NewError(http.StatusUnprocessableEntity, ve.Msg)
	}
	var nfe *service.NotFoundError
	if errors.As(err, &nfe) {
		return response.NewError(http.StatusNotFound, nfe.Msg)
	}
	var ce *service.ConflictError
	if errors.As(err, &ce) {
		return response.NewError(http.StatusConflict, ce.Msg)
	}
	return response.NewError(http.StatusInternalServerError, err.Error())
}
