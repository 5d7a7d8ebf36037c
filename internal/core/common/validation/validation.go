package validation

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"unicode/utf8"

	errors "github.com/frahmantamala/cxm/internal"
	"github.com/go-playground/validator/v10"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func engine() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// fieldLabels maps json field names to the Persian label shown to users.
var fieldLabels = map[string]string{
	"name":                "نام",
	"email":               "ایمیل",
	"phone":               "شماره تلفن",
	"password":            "رمز عبور",
	"current_password":    "رمز عبور فعلی",
	"new_password":        "رمز عبور جدید",
	"company":             "شرکت",
	"type":                "نوع",
	"status":              "وضعیت",
	"customer_id":         "مشتری",
	"title":               "عنوان",
	"value":               "مبلغ",
	"stage":               "مرحله",
	"probability":         "احتمال",
	"subject":             "موضوع",
	"description":         "توضیحات",
	"priority":            "اولویت",
	"assigned_to":         "مسئول",
	"score":               "امتیاز",
	"channel":             "کانال",
	"direction":           "جهت",
	"duration_seconds":    "مدت",
	"price":               "قیمت",
	"category":            "دسته‌بندی",
	"content":             "متن پیام",
	"participant_ids":     "شرکت‌کنندگان",
	"role":                "نقش",
	"module":              "ماژول",
	"expected_close_date": "تاریخ پیش‌بینی بستن",
}

func Label(field string) string {
	if l, ok := fieldLabels[field]; ok {
		return l
	}
	return field
}

// Struct validates `validate:` tags and returns a 400 AppError with one Persian message per field.
func Struct(s interface{}) *errors.AppError {
	err := engine().Struct(s)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return errors.NewValidationError(errors.MsgInvalidBody, errors.ErrCodeValidationFailed)
	}

	out := make([]errors.ValidationError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, errors.ValidationError{
			Field:   fe.Field(),
			Message: message(fe),
			Code:    codeFor(fe.Tag()),
		})
	}
	return errors.NewValidationError(errors.MsgRequiredFields, errors.ErrCodeValidationFailed).
		WithDetails(errors.ValidationErrors{Errors: out})
}

func message(fe validator.FieldError) string {
	label := Label(fe.Field())
	switch fe.Tag() {
	case "required", "required_without":
		return fmt.Sprintf("%s الزامی است", label)
	case "email":
		return fmt.Sprintf("%s معتبر نیست", label)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s باید حداقل %s کاراکتر باشد", label, fe.Param())
		}
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("%s باید حداقل %s مورد داشته باشد", label, fe.Param())
		}
		return fmt.Sprintf("%s نباید کمتر از %s باشد", label, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s نباید بیشتر از %s کاراکتر باشد", label, fe.Param())
		}
		return fmt.Sprintf("%s نباید بیشتر از %s باشد", label, fe.Param())
	case "gte":
		return fmt.Sprintf("%s نباید کمتر از %s باشد", label, fe.Param())
	case "lte":
		return fmt.Sprintf("%s نباید بیشتر از %s باشد", label, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s باید یکی از مقادیر %s باشد", label, strings.ReplaceAll(fe.Param(), " ", "، "))
	case "uuid", "uuid4":
		return fmt.Sprintf("%s شناسه معتبری نیست", label)
	default:
		return fmt.Sprintf("%s نامعتبر است", label)
	}
}

func codeFor(tag string) string {
	switch tag {
	case "required", "required_without":
		return string(errors.ErrCodeMissingField)
	default:
		return string(errors.ErrCodeInvalidValue)
	}
}

// ----------------- BUILDER -----------------

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []FieldValidator
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]FieldValidator, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return &v.fields[len(v.fields)-1]
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case *int:
			missing = v == nil
		case []string:
			missing = len(v) == 0
		case nil:
			missing = true
		}
		if missing {
			return errors.NewValidationFieldError(fv.FieldName, fmt.Sprintf("%s الزامی است", Label(fv.FieldName)), errors.ErrCodeMissingField)
		}
		return nil
	})
	return fv
}

// IntRange accepts int and *int; a nil pointer is skipped.
func (fv *FieldValidator) IntRange(min, max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var n int
		switch v := value.(type) {
		case int:
			n = v
		case *int:
			if v == nil {
				return nil
			}
			n = *v
		default:
			return nil
		}
		if n < min || n > max {
			msg := fmt.Sprintf("%s باید بین %d و %d باشد", Label(fv.FieldName), min, max)
			return errors.NewValidationFieldError(fv.FieldName, msg, errors.ErrCodeInvalidValue)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := value.(string); ok {
			if utf8.RuneCountInString(v) < min {
				msg := fmt.Sprintf("%s باید حداقل %d کاراکتر باشد", Label(fv.FieldName), min)
				return errors.NewValidationFieldError(fv.FieldName, msg, errors.ErrCodeInvalidValue)
			}
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) OneOf(allowed ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := value.(string)
		if !ok || v == "" {
			return nil
		}
		for _, a := range allowed {
			if v == a {
				return nil
			}
		}
		msg := fmt.Sprintf("%s باید یکی از مقادیر %s باشد", Label(fv.FieldName), strings.Join(allowed, "، "))
		return errors.NewValidationFieldError(fv.FieldName, msg, errors.ErrCodeInvalidValue)
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	var validationErrors []errors.ValidationError

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			err := validator(field.Value)
			if err == nil {
				continue
			}
			if details, ok := err.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
			} else {
				validationErrors = append(validationErrors, errors.ValidationError{
					Field:   field.FieldName,
					Message: err.Message,
					Code:    string(err.Code),
				})
			}
			// first failure per field is enough
			break
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError(errors.MsgRequiredFields, errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
