// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/danielhkuo/reva-evote/models"
)

// DefaultEmailDomain is the institutional domain voters must sign in with.
const DefaultEmailDomain = "reva.edu.in"

var ErrInvalidToken = errors.New("invalid token format")

// R + year + branch + number, e.g. R23CS001, R24ME055
var rollNoPattern = regexp.MustCompile(`(?i)^R\d{2}[A-Z0-9]{2,4}\d{3,4}$`)

var otpPattern = regexp.MustCompile(`^\d{4}$`)

// Messages shown to the voter, in the order the checks run
const (
	MsgFieldsRequired = "All fields are required."
	MsgInvalidRollNo  = "Invalid Student ID format. Format: R[Year][Branch][Number] (e.g., R23CS001)"
	MsgInvalidPhone   = "Please enter a valid contact number."
	MsgIncompleteOTP  = "Please enter the complete 4-digit OTP."
)

// details is the validated shape of a login form.
// Field order is the order failures are reported in.
type details struct {
	Name      string `validate:"required"`
	StudentID string `validate:"required,rollno"`
	Email     string `validate:"required,univemail"`
	Phone     string `validate:"required,min=10"`
}

// Verifier checks login details against the university's formats.
type Verifier struct {
	validate     *validator.Validate
	emailPattern *regexp.Regexp
	domain       string
}

func NewVerifier(emailDomain string) *Verifier {
	if emailDomain == "" {
		emailDomain = DefaultEmailDomain
	}

	v := &Verifier{
		validate:     validator.New(),
		emailPattern: regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@` + regexp.QuoteMeta(emailDomain) + `$`),
		domain:       emailDomain,
	}

	// Registration only fails on an empty tag name or nil func
	_ = v.validate.RegisterValidation("rollno", func(fl validator.FieldLevel) bool {
		return ValidRollNumber(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("univemail", func(fl validator.FieldLevel) bool {
		return v.ValidEmail(fl.Field().String())
	})

	return v
}

// ValidRollNumber reports whether s matches the roll number format, ignoring case.
func ValidRollNumber(s string) bool {
	return rollNoPattern.MatchString(s)
}

// ValidEmail reports whether s is an address at the configured domain.
func (v *Verifier) ValidEmail(s string) bool {
	return v.emailPattern.MatchString(s)
}

// ValidateDetails checks a login form. The returned error is a
// *models.ValidationError carrying the message for the first failed check.
func (v *Verifier) ValidateDetails(req models.RequestOTPRequest) error {
	d := details{
		Name:      strings.TrimSpace(req.Name),
		StudentID: strings.TrimSpace(req.StudentID),
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	}

	err := v.validate.Struct(d)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to validate details: %w", err)
	}

	// Missing fields are reported before any format problem
	for _, fe := range fieldErrs {
		if fe.Tag() == "required" {
			return &models.ValidationError{Message: MsgFieldsRequired}
		}
	}

	switch first := fieldErrs[0]; first.Field() {
	case "StudentID":
		return &models.ValidationError{Field: "student_id", Message: MsgInvalidRollNo}
	case "Email":
		return &models.ValidationError{Field: "email", Message: fmt.Sprintf("Please use your verified @%s email address.", v.domain)}
	case "Phone":
		return &models.ValidationError{Field: "phone", Message: MsgInvalidPhone}
	default:
		return &models.ValidationError{Field: strings.ToLower(first.Field()), Message: first.Error()}
	}
}

// VerifyOTP accepts any four digits. No code is actually sent.
func VerifyOTP(otp string) error {
	if !otpPattern.MatchString(otp) {
		return &models.ValidationError{Field: "otp", Message: MsgIncompleteOTP}
	}
	return nil
}

// NewIdentity builds the voter identity for validated details.
// The student ID doubles as the roll number and is upper-cased.
func NewIdentity(req models.RequestOTPRequest) models.VoterIdentity {
	id := strings.ToUpper(strings.TrimSpace(req.StudentID))
	return models.VoterIdentity{
		Name:      strings.TrimSpace(req.Name),
		RollNo:    id,
		StudentID: id,
		Email:     strings.TrimSpace(req.Email),
		Phone:     strings.TrimSpace(req.Phone),
	}
}

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateSessionToken creates a random secure token for a voter session
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateSessionToken checks the shape of a token produced by GenerateSessionToken
func ValidateSessionToken(token string) error {
	if len(token) != 32 {
		return ErrInvalidToken
	}
	if _, err := base64.RawURLEncoding.DecodeString(token); err != nil {
		return ErrInvalidToken
	}
	return nil
}
