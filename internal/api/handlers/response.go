package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m04kA/SandwichBooking/internal/domain"
)

const (
	msgInternalError = "внутренняя ошибка сервера"

	codeBadRequest   = "bad_request"
	codeUnauthorized = "unauthorized"
	codeForbidden    = "forbidden"
	codeNotFound     = "not_found"
	codeConflict     = "conflict"
	codeInternal     = "internal_error"
)

// ErrorResponse тело ответа с ошибкой
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// domainErrors HTTP статус и сообщение для каждого кода доменной ошибки
var domainErrors = map[string]struct {
	status  int
	message string
}{
	domain.CodeSlotFull:                    {http.StatusConflict, "в выбранном слоте нет свободных мест"},
	domain.CodeDuplicateOrder:              {http.StatusConflict, "у пользователя уже есть заказ в этом слоте"},
	domain.CodeOrderNotModifiable:          {http.StatusConflict, "заказ больше нельзя изменить"},
	domain.CodeInvalidOrderStateTransition: {http.StatusConflict, "недопустимая смена статуса заказа"},
	domain.CodeUnauthorizedOrderAccess:     {http.StatusForbidden, "доступ к заказу запрещен"},
	domain.CodeServiceDayInactive:          {http.StatusConflict, "день обслуживания не активен"},
	domain.CodeWeekInPast:                  {http.StatusBadRequest, "неделя целиком в прошлом"},
	domain.CodeInvalidStatus:               {http.StatusBadRequest, "неизвестный статус заказа"},
	domain.CodeConfiguration:               {http.StatusInternalServerError, "день обслуживания настроен некорректно"},
}

// DecodeJSON декодирует тело запроса; неизвестные поля считаются ошибкой
func DecodeJSON(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return errors.New("empty request body")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// RespondJSON отправляет JSON ответ
func RespondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data != nil {
		_ = json.NewEncoder(w).Encode(data)
	}
}

// RespondNoContent отправляет пустой ответ 204
func RespondNoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// RespondErrorCode отправляет ошибку с явным кодом
func RespondErrorCode(w http.ResponseWriter, status int, code, message string) {
	RespondJSON(w, status, ErrorResponse{Code: code, Message: message})
}

// RespondError отправляет ошибку с кодом по HTTP статусу
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondErrorCode(w, status, codeForStatus(status), message)
}

func RespondBadRequest(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusBadRequest, message)
}

func RespondUnauthorized(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusUnauthorized, message)
}

func RespondForbidden(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusForbidden, message)
}

func RespondNotFound(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusNotFound, message)
}

func RespondConflict(w http.ResponseWriter, message string) {
	RespondError(w, http.StatusConflict, message)
}

func RespondInternalError(w http.ResponseWriter) {
	RespondError(w, http.StatusInternalServerError, msgInternalError)
}

// IsDomainError проверяет, что для err есть HTTP отображение доменной ошибки
func IsDomainError(err error) bool {
	_, ok := domainErrors[domain.ErrorCode(err)]
	return ok
}

// RespondDomainError отправляет ответ для доменной ошибки, остальные ошибки считаются внутренними
func RespondDomainError(w http.ResponseWriter, err error) {
	code := domain.ErrorCode(err)
	mapped, ok := domainErrors[code]
	if !ok {
		RespondInternalError(w)
		return
	}

	RespondErrorCode(w, mapped.status, code, mapped.message)
}

func codeForStatus(status int) string {
	switch status {
	case http.StatusBadRequest:
		return codeBadRequest
	case http.StatusUnauthorized:
		return codeUnauthorized
	case http.StatusForbidden:
		return codeForbidden
	case http.StatusNotFound:
		return codeNotFound
	case http.StatusConflict:
		return codeConflict
	default:
		return codeInternal
	}
}
