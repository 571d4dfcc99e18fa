// Package validation turns raw request bodies into typed, checked inputs.
//
// Every schema reports failures as *Error carrying a single human-readable
// message of the form `"<field>" <reason>`. Nothing in this package panics on
// malformed input.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"usergroups/internal/models"

	"github.com/go-playground/validator/v10"
)

// Error is a rejected payload.
type Error struct {
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func newError(format string, args ...any) *Error {
	return &Error{Message: fmt.Sprintf(format, args...)}
}

// UserInput is the normalized body of a create or update user request.
type UserInput struct {
	Login     string
	Password  string
	Age       int
	IsDeleted bool
}

// GroupInput is the normalized body of a create or update group request.
type GroupInput struct {
	Name        string
	Permissions []models.Permission
}

// Credentials is the normalized body of a login request.
type Credentials struct {
	Login    string
	Password string
}

type userBody struct {
	Login     *string `json:"login" validate:"required,min=1,max=30,alphanum"`
	Password  *string `json:"password" validate:"required,haslower,hasupper,hasdigit"`
	Age       *int    `json:"age" validate:"required,min=4,max=130"`
	IsDeleted *bool   `json:"isDeleted" validate:"required"`
}

type groupBody struct {
	Name        *string             `json:"name" validate:"required,min=1,max=30,alphanum"`
	Permissions []models.Permission `json:"permissions" validate:"omitempty,dive,permission"`
}

type credentialsBody struct {
	Login    *string `json:"login" validate:"required"`
	Password *string `json:"password" validate:"required"`
}

type userIDsBody struct {
	UserIDs *[]string `json:"userIds" validate:"required"`
}

// Rules holds the configured validator shared by every schema.
type Rules struct {
	validate *validator.Validate
}

// New builds the rule set and registers the custom tags it relies on.
func New() *Rules {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("haslower", containsRange('a', 'z'))
	_ = v.RegisterValidation("hasupper", containsRange('A', 'Z'))
	_ = v.RegisterValidation("hasdigit", containsRange('0', '9'))
	_ = v.RegisterValidation("permission", func(fl validator.FieldLevel) bool {
		return models.Permission(fl.Field().String()).IsValid()
	})
	return &Rules{validate: v}
}

// containsRange matches strings holding at least one ASCII rune in [lo, hi].
func containsRange(lo, hi rune) validator.Func {
	return func(fl validator.FieldLevel) bool {
		return strings.IndexFunc(fl.Field().String(), func(r rune) bool {
			return r >= lo && r <= hi
		}) >= 0
	}
}

// CreateUser checks a new user payload. All four fields are required.
func (r *Rules) CreateUser(body []byte) (UserInput, error) {
	var in userBody
	if err := r.check(body, &in, true); err != nil {
		return UserInput{}, err
	}
	return UserInput{
		Login:     *in.Login,
		Password:  *in.Password,
		Age:       *in.Age,
		IsDeleted: *in.IsDeleted,
	}, nil
}

// UpdateUser checks a user replacement payload. It is the same schema as CreateUser.
func (r *Rules) UpdateUser(body []byte) (UserInput, error) {
	return r.CreateUser(body)
}

// CreateGroup checks a new group payload. Permissions may be omitted, in which
// case the group is created without any.
func (r *Rules) CreateGroup(body []byte) (GroupInput, error) {
	var in groupBody
	if err := r.check(body, &in, true); err != nil {
		return GroupInput{}, err
	}
	permissions := in.Permissions
	if permissions == nil {
		permissions = []models.Permission{}
	}
	return GroupInput{Name: *in.Name, Permissions: permissions}, nil
}

// UpdateGroup checks a group replacement payload. It is the same schema as CreateGroup.
func (r *Rules) UpdateGroup(body []byte) (GroupInput, error) {
	return r.CreateGroup(body)
}

// Credentials checks a login payload. Unknown fields are ignored.
func (r *Rules) Credentials(body []byte) (Credentials, error) {
	var in credentialsBody
	if err := r.check(body, &in, false); err != nil {
		return Credentials{}, err
	}
	return Credentials{Login: *in.Login, Password: *in.Password}, nil
}

// UserIDs extracts the userIds list of an add-users-to-group payload. The ids
// themselves are not checked here.
func (r *Rules) UserIDs(body []byte) ([]string, error) {
	var in userIDsBody
	if err := r.check(body, &in, false); err != nil {
		return nil, err
	}
	return *in.UserIDs, nil
}

func (r *Rules) check(body []byte, dst any, strict bool) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return newError(`"value" is required`)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	if strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}

	if err := r.validate.Struct(dst); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
			return fieldError(fieldErrs[0])
		}
		return newError("%s", err.Error())
	}
	return nil
}

func decodeError(err error) *Error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		if typeErr.Field == "" {
			return newError(`"value" must be of type object`)
		}
		return newError(`"%s" must be %s`, typeErr.Field, describeKind(typeErr.Type, typeErr.Value))
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return newError(`"value" must be valid JSON`)
	}

	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		return newError(`%s is not allowed`, field)
	}
	return newError(`"value" %s`, err.Error())
}

func describeKind(t reflect.Type, got string) string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if strings.HasPrefix(got, "number") {
			return "an integer"
		}
		return "a number"
	case reflect.Bool:
		return "a boolean"
	case reflect.String:
		return "a string"
	case reflect.Slice, reflect.Array:
		return "an array"
	default:
		return "of type " + t.Kind().String()
	}
}

func fieldError(fe validator.FieldError) *Error {
	field := fe.Field()
	if ns := fe.Namespace(); strings.Contains(ns, "[") {
		// Keep the index for errors inside slices, e.g. permissions[1].
		_, field, _ = strings.Cut(ns, ".")
	}

	switch fe.Tag() {
	case "required":
		return newError(`"%s" is required`, field)
	case "alphanum":
		return newError(`"%s" must only contain alpha-numeric characters`, field)
	case "min":
		if fe.Kind() == reflect.String {
			if fe.Value() == "" {
				return newError(`"%s" is not allowed to be empty`, field)
			}
			return newError(`"%s" length must be at least %s characters long`, field, fe.Param())
		}
		return newError(`"%s" must be greater than or equal to %s`, field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return newError(`"%s" length must be less than or equal to %s characters long`, field, fe.Param())
		}
		return newError(`"%s" must be less than or equal to %s`, field, fe.Param())
	case "haslower":
		return newError(`"%s" must contain at least one lowercase letter`, field)
	case "hasupper":
		return newError(`"%s" must contain at least one uppercase letter`, field)
	case "hasdigit":
		return newError(`"%s" must contain at least one digit`, field)
	case "permission":
		names := make([]string, len(models.Permissions))
		for i, p := range models.Permissions {
			names[i] = string(p)
		}
		return newError(`"%s" must be one of [%s]`, field, strings.Join(names, ", "))
	default:
		return newError(`"%s" failed on the '%s' rule`, field, fe.Tag())
	}
}
