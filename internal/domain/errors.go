package domain

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

// ErrorKind — класс ошибки получения погоды.
type ErrorKind string

const (
	KindValidation ErrorKind = "validation" // пустой запрос, до сети не доходит
	KindNotFound   ErrorKind = "not_found"  // провайдер не знает такого места (частный случай http)
	KindHTTP       ErrorKind = "http"       // ответ не 2xx
	KindNetwork    ErrorKind = "network"    // ответа нет вовсе
	KindDecode     ErrorKind = "decode"     // 2xx, но тело не той формы
)

// MalformedResponseMessage — сообщение для ошибок декодирования успешного ответа.
const MalformedResponseMessage = "malformed response"

// IsHTTP — относится ли вид ошибки к http-классу (not_found и decode включительно).
func (k ErrorKind) IsHTTP() bool {
	switch k {
	case KindHTTP, KindNotFound, KindDecode:
		return true
	default:
		return false
	}
}

// ErrorInfo — ошибка в виде, пригодном для состояния сессии.
type ErrorInfo struct {
	Kind    ErrorKind `json:"kind"`
	Status  int       `json:"status,omitempty"`
	Message string    `json:"message"`
}

// FetchError — типизированная ошибка провайдера.
type FetchError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s error (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
}

func (e *FetchError) Unwrap() error { return e.Err }

// Info — ErrorInfo для состояния.
func (e *FetchError) Info() ErrorInfo {
	return ErrorInfo{Kind: e.Kind, Status: e.Status, Message: e.Message}
}

// StatusError — классифицирует не-2xx ответ. Пустое сообщение заменяется
// на синтезированное из кода и текста статуса.
func StatusError(status int, message string) *FetchError {
	if message == "" {
		message = fmt.Sprintf("request failed: %d %s", status, http.StatusText(status))
	}
	kind := KindHTTP
	if status == http.StatusNotFound {
		kind = KindNotFound
	}
	return &FetchError{Kind: kind, Status: status, Message: message}
}

// DecodeError — ответ получен, но не распознан.
func DecodeError(status int, err error) *FetchError {
	return &FetchError{Kind: KindDecode, Status: status, Message: MalformedResponseMessage, Err: err}
}

// NetworkError — сбой транспорта.
func NetworkError(message string, err error) *FetchError {
	return &FetchError{Kind: KindNetwork, Message: message, Err: err}
}

// ErrorInfoFrom — приводит произвольную ошибку к ErrorInfo.
// Всё, что не FetchError, считается сетевой ошибкой.
func ErrorInfoFrom(err error) ErrorInfo {
	var fe *FetchError
	if errors.As(err, &fe) {
		info := fe.Info()
		if info.Message == "" {
			info.Message = string(info.Kind) + " error"
		}
		return info
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return ErrorInfo{Kind: KindNetwork, Message: "request timed out"}
	case errors.Is(err, context.Canceled):
		return ErrorInfo{Kind: KindNetwork, Message: "request canceled"}
	case err == nil:
		return ErrorInfo{Kind: KindNetwork, Message: "unknown error"}
	default:
		return ErrorInfo{Kind: KindNetwork, Message: err.Error()}
	}
}
