/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

package config

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validatorOnce sync.Once
	validateInst  *validator.Validate
)

// validatorInstance returns the shared validator with custom tags registered.
func validatorInstance() *validator.Validate {
	validatorOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())

		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
			if name == "-" {
				return ""
			}
			return name
		})

		_ = v.RegisterValidation("collection_role", func(fl validator.FieldLevel) bool {
			return slices.Contains(Roles, fl.Field().String())
		})

		validateInst = v
	})
	return validateInst
}

// FieldError describes one invalid config field.
type FieldError struct {
	// Field is the dotted path, e.g. "source.collections.density".
	Field   string
	Message string
}

// ValidationError collects every invalid field in a config.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.Field + ": " + f.Message
	}
	return "invalid config: " + strings.Join(parts, "; ")
}

// Validate checks field constraints and cross-field rules.
func Validate(cfg *Config) error {
	var fields []FieldError

	if err := validatorInstance().Struct(cfg); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{
				Field:   fieldPath(fe.Namespace()),
				Message: describe(fe),
			})
		}
	}

	fields = append(fields, crossFieldErrors(cfg)...)
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

func crossFieldErrors(cfg *Config) []FieldError {
	var fields []FieldError

	seen := map[string]string{}
	for _, role := range Roles {
		id := cfg.Source.Collections.ByRole()[role]
		if id == "" {
			continue
		}
		if other, ok := seen[id]; ok {
			fields = append(fields, FieldError{
				Field:   "source.collections." + role,
				Message: fmt.Sprintf("collection %q is already assigned to %s", id, other),
			})
			continue
		}
		seen[id] = role
	}

	widths := map[int]string{}
	for _, name := range sortedKeys(cfg.Modes.Breakpoints) {
		w := cfg.Modes.Breakpoints[name].MinWidth
		if other, ok := widths[w]; ok {
			fields = append(fields, FieldError{
				Field:   "modes.breakpoints." + name,
				Message: fmt.Sprintf("minWidth %d duplicates breakpoint %q", w, other),
			})
			continue
		}
		widths[w] = name
	}

	check := func(prefix string, enabled bool, classes map[string]string) {
		if !enabled {
			return
		}
		for _, class := range sortedKeys(classes) {
			if _, ok := cfg.Breakpoint(classes[class]); !ok {
				fields = append(fields, FieldError{
					Field:   prefix + "." + class,
					Message: fmt.Sprintf("unknown breakpoint %q", classes[class]),
				})
			}
		}
	}
	check("platforms.ios.sizeClasses", cfg.Platforms.IOS.Enabled, cfg.Platforms.IOS.SizeClasses)
	check("platforms.android.sizeClasses", cfg.Platforms.Android.Enabled, cfg.Platforms.Android.SizeClasses)

	if len(cfg.EnabledPlatforms()) == 0 {
		fields = append(fields, FieldError{Field: "platforms", Message: "at least one platform must be enabled"})
	}

	return fields
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(ns string) string {
	_, rest, ok := strings.Cut(ns, ".")
	if !ok {
		return ns
	}
	return rest
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "required_if":
		return "is required when the platform is enabled"
	case "oneof":
		return fmt.Sprintf("must be one of [%s], got %v", fe.Param(), fe.Value())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "max":
		return fmt.Sprintf("must be at most %s", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "url":
		return "must be a URL"
	case "collection_role":
		return fmt.Sprintf("unknown collection role %q (expected one of %s)", fe.Value(), strings.Join(Roles, ", "))
	}
	return fmt.Sprintf("failed %q check", fe.Tag())
}
