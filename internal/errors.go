package internal

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"
	ErrCodeInvalidValue     ErrorCode = "INVALID_VALUE"

	ErrCodeCustomerNotFound     ErrorCode = "CUSTOMER_NOT_FOUND"
	ErrCodeDealNotFound         ErrorCode = "DEAL_NOT_FOUND"
	ErrCodeTicketNotFound       ErrorCode = "TICKET_NOT_FOUND"
	ErrCodeFeedbackNotFound     ErrorCode = "FEEDBACK_NOT_FOUND"
	ErrCodeInteractionNotFound  ErrorCode = "INTERACTION_NOT_FOUND"
	ErrCodeProductNotFound      ErrorCode = "PRODUCT_NOT_FOUND"
	ErrCodeConversationNotFound ErrorCode = "CONVERSATION_NOT_FOUND"
	ErrCodeUserNotFound         ErrorCode = "USER_NOT_FOUND"
	ErrCodeModuleNotFound       ErrorCode = "MODULE_NOT_FOUND"

	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	ErrCodeDuplicate        ErrorCode = "DUPLICATE"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeMissingToken       ErrorCode = "MISSING_TOKEN"
)

type AppError struct {
	Type       ErrorType   `json:"type"`
	Code       ErrorCode   `json:"code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	StatusCode int         `json:"-"`
	Cause      error       `json:"-"`
}

func (e *AppError) Error() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok && len(validationErrors.Errors) > 0 {
			return validationErrors.Errors[0].Message
		}
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// GetDetailedMessage joins field messages so a single envelope message can carry all of them.
func (e *AppError) GetDetailedMessage() string {
	if e.Details != nil {
		if validationErrors, ok := e.Details.(ValidationErrors); ok {
			if len(validationErrors.Errors) == 1 {
				return validationErrors.Errors[0].Message
			} else if len(validationErrors.Errors) > 1 {
				messages := make([]string, len(validationErrors.Errors))
				for i, err := range validationErrors.Errors {
					messages[i] = err.Message
				}
				return strings.Join(messages, "؛ ")
			}
		}
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches on code so sentinel errors compare equal after WithCause copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code && e.Type == t.Type
}

// WithCause returns a copy so shared sentinels are never mutated.
func (e *AppError) WithCause(cause error) *AppError {
	cp := *e
	cp.Cause = cause
	return &cp
}

func (e *AppError) WithDetails(details interface{}) *AppError {
	cp := *e
	cp.Details = details
	return &cp
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationFieldError(field, message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    message,
		StatusCode: http.StatusBadRequest,
		Details: ValidationErrors{
			Errors: []ValidationError{
				{Field: field, Message: message, Code: string(code)},
			},
		},
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

// Persian user-facing messages.
const (
	MsgInternal         = "خطای داخلی سرور"
	MsgUnauthorized     = "احراز هویت انجام نشده است"
	MsgInvalidToken     = "توکن نامعتبر یا منقضی شده است"
	MsgForbidden        = "شما دسترسی لازم برای این عملیات را ندارید"
	MsgInvalidBody      = "بدنه درخواست نامعتبر است"
	MsgInvalidID        = "شناسه نامعتبر است"
	MsgRequiredFields   = "لطفاً فیلدهای الزامی را تکمیل کنید"
	MsgDeleted          = "با موفقیت حذف شد"
	MsgCustomerNotFound = "مشتری یافت نشد"
)

var (
	ErrPermissionDenied = NewForbiddenError(MsgForbidden, ErrCodePermissionDenied)

	ErrCustomerNotFound     = NewNotFoundError(MsgCustomerNotFound, ErrCodeCustomerNotFound)
	ErrDealNotFound         = NewNotFoundError("معامله یافت نشد", ErrCodeDealNotFound)
	ErrTicketNotFound       = NewNotFoundError("تیکت یافت نشد", ErrCodeTicketNotFound)
	ErrFeedbackNotFound     = NewNotFoundError("بازخورد یافت نشد", ErrCodeFeedbackNotFound)
	ErrInteractionNotFound  = NewNotFoundError("تعامل یافت نشد", ErrCodeInteractionNotFound)
	ErrProductNotFound      = NewNotFoundError("محصول یافت نشد", ErrCodeProductNotFound)
	ErrConversationNotFound = NewNotFoundError("گفتگو یافت نشد", ErrCodeConversationNotFound)
	ErrUserNotFound         = NewNotFoundError("کاربر یافت نشد", ErrCodeUserNotFound)
	ErrModuleNotFound       = NewNotFoundError("ماژول یافت نشد", ErrCodeModuleNotFound)

	ErrInvalidCredentials = NewUnauthorizedError("ایمیل یا رمز عبور اشتباه است", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewUnauthorizedError("حساب کاربری غیرفعال است", ErrCodeUserInactive)
	ErrInvalidToken       = NewUnauthorizedError(MsgInvalidToken, ErrCodeInvalidToken)
	ErrMissingToken       = NewUnauthorizedError(MsgUnauthorized, ErrCodeMissingToken)
	ErrEmailTaken         = NewConflictError("این ایمیل قبلاً ثبت شده است", ErrCodeDuplicate)
)

func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// Envelope is the response shape shared by every JSON endpoint.
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

func (e *AppError) ToHTTPResponse() (int, interface{}) {
	resp := Envelope{Success: false, Message: e.GetDetailedMessage()}
	if details, ok := e.Details.(ValidationErrors); ok {
		resp.Errors = details.Errors
	}
	return e.StatusCode, resp
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType   `json:"type"`
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}
