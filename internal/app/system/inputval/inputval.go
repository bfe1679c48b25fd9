// internal/app/system/inputval/inputval.go

// Package inputval validates decoded admin API request bodies with
// waffle/pantry/validate struct tags and turns the failures into the
// field → message map the SPA shows next to its inputs.
//
//	type createUserInput struct {
//	    Email string `json:"email" validate:"required,email" label:"Email"`
//	    Role  string `json:"role" validate:"required,role" label:"Role"`
//	}
//
//	if res := inputval.Validate(in); res.HasErrors() {
//	    jsonutil.ValidationError(w, res.Fields())
//	    return
//	}
package inputval

import (
	"net/mail"
	"net/url"
	"reflect"
	"strings"
	"sync"

	"github.com/dalemusser/elaspodem/internal/app/system/authutil"
	"github.com/dalemusser/elaspodem/internal/domain/models"
	"github.com/dalemusser/waffle/pantry/validate"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Result holds the failures of one Validate call, in field order.
type Result struct {
	Errors []FieldError
}

// FieldError is one failed rule.
type FieldError struct {
	Field   string // json name of the field
	Label   string // label tag, or Field when there is none
	Message string
}

// HasErrors reports whether any rule failed.
func (r *Result) HasErrors() bool {
	return len(r.Errors) > 0
}

// First returns the first message, or "".
func (r *Result) First() string {
	if len(r.Errors) > 0 {
		return r.Errors[0].Message
	}
	return ""
}

// Fields returns the first message of each field, keyed by json name. This is
// the shape jsonutil.ValidationError writes.
func (r *Result) Fields() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for _, e := range r.Errors {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}

// All returns every message joined with "; ".
func (r *Result) All() string {
	msgs := make([]string, len(r.Errors))
	for i, e := range r.Errors {
		msgs[i] = e.Message
	}
	return strings.Join(msgs, "; ")
}

// rule is a string rule registered on top of the pantry/validate built-ins.
type rule struct {
	check   func(string) bool
	message func(label string) string
}

// customRules are available in every validate tag:
//
//	role      one of models.AllRoles, exact case
//	password  accepted by authutil.ValidatePassword
//	httpurl   absolute http:// or https:// URL
//	objectid  MongoDB ObjectID hex
var customRules = map[string]rule{
	"role": {
		check: models.IsValidRole,
		message: func(label string) string {
			return label + " must be one of: " + strings.Join(models.AllRoles(), ", ") + "."
		},
	},
	"password": {
		check:   func(s string) bool { return authutil.ValidatePassword(s) == nil },
		message: func(string) string { return authutil.PasswordRules() },
	},
	"httpurl": {
		check:   IsValidHTTPURL,
		message: func(label string) string { return label + " must be a valid URL starting with http:// or https://." },
	},
	"objectid": {
		check:   IsValidObjectID,
		message: func(label string) string { return label + " is not a valid ID." },
	},
}

var (
	validator     *validate.Validator
	validatorOnce sync.Once
)

func getValidator() *validate.Validator {
	validatorOnce.Do(func() {
		validator = validate.New(validate.WithStopOnFirstError())
		for name, r := range customRules {
			check := r.check
			validator.RegisterRuleFunc(name, func(value any) bool {
				s, ok := value.(string)
				return ok && check(s)
			}, name)
		}
	})
	return validator
}

// Validate runs the validate tags of s (a struct or a pointer to one). Field
// keys come from the json tags and messages use the label tags.
//
// Besides the pantry/validate built-ins (required, email, oneof, min, max)
// the custom rules listed on customRules are available.
func Validate(s any) *Result {
	result := &Result{}

	err := getValidator().Struct(s)
	if err == nil {
		return result
	}
	errs, ok := err.(validate.Errors)
	if !ok {
		return result
	}

	labels := fieldLabels(s)
	for _, e := range errs {
		label := labels[e.Field]
		if label == "" {
			label = e.Field
		}
		result.Errors = append(result.Errors, FieldError{
			Field:   e.Field,
			Label:   label,
			Message: message(label, e.Rule, e.Param),
		})
	}
	return result
}

// fieldLabels maps json field names to their label tags.
func fieldLabels(s any) map[string]string {
	labels := make(map[string]string)

	val := reflect.ValueOf(s)
	if val.Kind() == reflect.Ptr {
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return labels
	}

	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		label := field.Tag.Get("label")
		if label == "" {
			continue
		}
		name := field.Name
		if tag, _, _ := strings.Cut(field.Tag.Get("json"), ","); tag != "" && tag != "-" {
			name = tag
		}
		labels[name] = label
	}
	return labels
}

func message(label, ruleName, param string) string {
	if r, ok := customRules[ruleName]; ok {
		return r.message(label)
	}
	switch ruleName {
	case "required":
		return label + " is required."
	case "email":
		return "A valid email address is required."
	case "oneof", "enum":
		return label + " must be one of: " + strings.ReplaceAll(param, " ", ", ") + "."
	case "min":
		return label + " must be at least " + param + "."
	case "max":
		return label + " must be at most " + param + "."
	default:
		return label + " is invalid."
	}
}

// IsValidEmail reports whether email is a bare RFC 5322 address.
func IsValidEmail(email string) bool {
	email = strings.TrimSpace(email)
	if email == "" {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	// ParseAddress also accepts "Name <email>".
	return addr.Address == email
}

// IsValidHTTPURL reports whether s is an absolute http or https URL with a
// host, the form required for ogImage and supporter links.
func IsValidHTTPURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

// IsValidObjectID reports whether s is a MongoDB ObjectID hex string.
func IsValidObjectID(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	_, err := primitive.ObjectIDFromHex(s)
	return err == nil
}
