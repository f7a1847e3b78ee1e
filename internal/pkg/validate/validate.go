package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// v is the package-level singleton validator. It is initialised once at
// package load time. Any custom type registrations must be made during init()
// before the first call to Struct.
var v = validator.New()

var (
	innRe     = regexp.MustCompile(`^(\d{10}|\d{12})$`)
	kppRe     = regexp.MustCompile(`^\d{9}$`)
	ogrnRe    = regexp.MustCompile(`^(\d{13}|\d{15})$`)
	bikRe     = regexp.MustCompile(`^\d{9}$`)
	accountRe = regexp.MustCompile(`^\d{20}$`)
	otpRe     = regexp.MustCompile(`^\d{6}$`)
)

func init() {
	register := func(tag string, re *regexp.Regexp) {
		if err := v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
			return re.MatchString(fl.Field().String())
		}); err != nil {
			panic(fmt.Sprintf("register %s validation: %v", tag, err))
		}
	}
	register("inn", innRe)
	register("kpp", kppRe)
	register("ogrn", ogrnRe)
	register("bik", bikRe)
	register("account", accountRe)
	register("otpcode", otpRe)
}

// Struct validates the given struct using its validate tags.
// Returns a human-readable error string or nil.
func Struct(s interface{}) error {
	if err := v.Struct(s); err != nil {
		ve, ok := err.(validator.ValidationErrors)
		if !ok {
			return err
		}
		var msgs []string
		for _, fe := range ve {
			msgs = append(msgs, fmt.Sprintf("field '%s' failed '%s'", fe.Field(), fe.Tag()))
		}
		return fmt.Errorf("%s", strings.Join(msgs, "; "))
	}
	return nil
}

// Email normalizes an address (trim, lower-case) and checks its format.
func Email(raw string) (string, error) {
	email := NormalizeEmail(raw)
	if email == "" || len(email) > 254 {
		return "", fmt.Errorf("invalid email")
	}
	if err := v.Var(email, "email"); err != nil {
		return "", fmt.Errorf("invalid email")
	}
	return email, nil
}

// NormalizeEmail returns the canonical form used as a storage key.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// OTPCode checks that code is exactly six digits.
func OTPCode(code string) error {
	if !otpRe.MatchString(code) {
		return fmt.Errorf("invalid code format")
	}
	return nil
}
