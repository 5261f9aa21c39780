package domain

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// FieldError describes a single invalid input field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors collects field-level validation failures
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// OrNil returns nil when no field failed, so callers can use the
// usual err != nil check.
func (v ValidationErrors) OrNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

// NormalizeEmail trims and lowercases an email for lookup and storage
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateName checks the display name constraints (2-50 characters)
func ValidateName(name string) *FieldError {
	name = strings.TrimSpace(name)
	if utf8.RuneCountInString(name) < 2 {
		return &FieldError{Field: "name", Message: "name must be at least 2 characters"}
	}
	if utf8.RuneCountInString(name) > 50 {
		return &FieldError{Field: "name", Message: "name cannot be more than 50 characters"}
	}
	return nil
}

// ValidateEmail checks email address syntax
func ValidateEmail(email string) *FieldError {
	email = NormalizeEmail(email)
	if email == "" {
		return &FieldError{Field: "email", Message: "email is required"}
	}
	if !emailPattern.MatchString(email) {
		return &FieldError{Field: "email", Message: "email must be a valid address"}
	}
	return nil
}

// ValidatePassword checks password length. The upper bound stays a byte
// count because it is the bcrypt input limit of 72 bytes.
func ValidatePassword(password string) *FieldError {
	if utf8.RuneCountInString(password) < 6 {
		return &FieldError{Field: "password", Message: "password must be at least 6 characters"}
	}
	if len(password) > 72 {
		return &FieldError{Field: "password", Message: "password cannot be more than 72 characters"}
	}
	return nil
}

// ValidateBio checks the optional bio length (max 500 characters)
func ValidateBio(bio string) *FieldError {
	if utf8.RuneCountInString(bio) > 500 {
		return &FieldError{Field: "bio", Message: "bio cannot be more than 500 characters"}
	}
	return nil
}

// ValidateTitle checks the task title constraints (3-100 characters)
func ValidateTitle(title string) *FieldError {
	title = strings.TrimSpace(title)
	if utf8.RuneCountInString(title) < 3 {
		return &FieldError{Field: "title", Message: "title must be at least 3 characters"}
	}
	if utf8.RuneCountInString(title) > 100 {
		return &FieldError{Field: "title", Message: "title cannot be more than 100 characters"}
	}
	return nil
}

// ValidateDescription checks the optional task description length
func ValidateDescription(description string) *FieldError {
	if utf8.RuneCountInString(description) > 500 {
		return &FieldError{Field: "description", Message: "description cannot be more than 500 characters"}
	}
	return nil
}

// ValidateStatus checks enum membership for a task status
func ValidateStatus(status TaskStatus) *FieldError {
	if !status.IsValid() {
		return &FieldError{Field: "status", Message: "status must be one of pending, in_progress, completed"}
	}
	return nil
}

// ValidatePriority checks enum membership for a task priority
func ValidatePriority(priority TaskPriority) *FieldError {
	if !priority.IsValid() {
		return &FieldError{Field: "priority", Message: "priority must be one of low, medium, high"}
	}
	return nil
}
