package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/KaramelBytes/actisum-cli/internal/activity"
)

// ErrInvalidConfig is matched by every ValidationError.
var ErrInvalidConfig = errors.New("invalid configuration")

// FieldError names one offending key.
type FieldError struct {
	Key   string
	Rule  string
	Param string
	Value any
}

func (f FieldError) String() string {
	switch f.Rule {
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s (got %v)", f.Key, f.Param, f.Value)
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s] (got %v)", f.Key, f.Param, f.Value)
	case "required":
		return fmt.Sprintf("%s is required", f.Key)
	case "":
		return fmt.Sprintf("%s is invalid (got %v)", f.Key, f.Value)
	}
	return fmt.Sprintf("%s must satisfy %s=%s (got %v)", f.Key, f.Rule, f.Param, f.Value)
}

// ValidationError lists every key that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfig, strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool { return target == ErrInvalidConfig }

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report keys as they appear in config files.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks ranges and cutpoint ordering.
func (c *Global) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate config: %w", err)
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{
			Key:   keyOf(fe.Namespace()),
			Rule:  fe.Tag(),
			Param: strings.ToLower(fe.Param()),
			Value: fe.Value(),
		})
	}
	return out
}

// keyOf turns "Global.cutpoints.low" into "cutpoints.low".
func keyOf(ns string) string {
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return ns
}

// ActivityCutpoints converts the configured thresholds.
func (c *Global) ActivityCutpoints() (activity.Cutpoints, error) {
	return activity.NewCutpoints(c.Cutpoints.Low, c.Cutpoints.Moderate, c.Cutpoints.Vigorous)
}
