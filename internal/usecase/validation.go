package usecase

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/sumeshsheil/Budget-Travel-Packages-India-sub001/internal/entity"
)

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func validationFailed(errs []ValidationError) error {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return &DomainError{
		Code:    CodeValidation,
		Message: "validation failed: " + strings.Join(parts, ", "),
		Details: errs,
	}
}

var (
	nonDigits     = regexp.MustCompile(`\D`)
	upperPattern  = regexp.MustCompile(`[A-Z]`)
	lowerPattern  = regexp.MustCompile(`[a-z]`)
	digitPattern  = regexp.MustCompile(`\d`)
	folderPattern = regexp.MustCompile(`^[a-z0-9_\-/]{1,64}$`)
)

func ValidateSubmitLeadInput(input SubmitLeadInput) []ValidationError {
	var errors []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errors = append(errors, ValidationError{"name", "is required"})
	} else if len(input.Name) < 2 {
		errors = append(errors, ValidationError{"name", "must have at least 2 characters"})
	} else if len(input.Name) > 120 {
		errors = append(errors, ValidationError{"name", "must not exceed 120 characters"})
	}

	if strings.TrimSpace(input.Email) == "" {
		errors = append(errors, ValidationError{"email", "is required"})
	} else if !isValidEmail(input.Email) {
		errors = append(errors, ValidationError{"email", "is invalid"})
	}

	if strings.TrimSpace(input.Phone) == "" {
		errors = append(errors, ValidationError{"phone", "is required"})
	} else if !isValidPhoneNumber(input.Phone) {
		errors = append(errors, ValidationError{"phone", "must be a valid 10 digit mobile number"})
	}

	if strings.TrimSpace(input.Destination) == "" {
		errors = append(errors, ValidationError{"destination", "is required"})
	}

	if input.TravelDate != "" && !isValidDate(input.TravelDate) {
		errors = append(errors, ValidationError{"travelDate", "must be a valid date (YYYY-MM-DD)"})
	}

	if input.DurationDays < 0 || input.DurationDays > 90 {
		errors = append(errors, ValidationError{"durationDays", "must be between 0 and 90"})
	}

	if input.Budget < 0 {
		errors = append(errors, ValidationError{"budget", "must not be negative"})
	}

	if len(input.Travelers) > 20 {
		errors = append(errors, ValidationError{"travelers", "must not exceed 20 travelers"})
	}
	for i, tr := range input.Travelers {
		if strings.TrimSpace(tr.Name) == "" {
			errors = append(errors, ValidationError{fmt.Sprintf("travelers[%d].name", i), "is required"})
		}
		if tr.Age < 0 || tr.Age > 120 {
			errors = append(errors, ValidationError{fmt.Sprintf("travelers[%d].age", i), "must be between 0 and 120"})
		}
	}

	return errors
}

func ValidateLeadDetails(d entity.LeadDetails) []ValidationError {
	var errors []ValidationError

	for field, v := range map[string]*float64{"budget": d.Budget, "netAmount": d.NetAmount} {
		if v != nil && *v < 0 {
			errors = append(errors, ValidationError{field, "must not be negative"})
		}
	}
	if d.PaymentStatus != nil && !d.PaymentStatus.Valid() {
		errors = append(errors, ValidationError{"paymentStatus", "must be pending, partial, paid or refunded"})
	}
	if d.TravelDate != nil && *d.TravelDate != "" && !isValidDate(*d.TravelDate) {
		errors = append(errors, ValidationError{"travelDate", "must be a valid date (YYYY-MM-DD)"})
	}
	if d.DurationDays != nil && (*d.DurationDays < 0 || *d.DurationDays > 90) {
		errors = append(errors, ValidationError{"durationDays", "must be between 0 and 90"})
	}
	for i, doc := range d.Documents {
		if !strings.HasPrefix(doc, "https://") {
			errors = append(errors, ValidationError{fmt.Sprintf("documents[%d]", i), "must be an https URL"})
		}
	}
	if d.ItineraryURL != nil && *d.ItineraryURL != "" && !strings.HasPrefix(*d.ItineraryURL, "https://") {
		errors = append(errors, ValidationError{"itineraryUrl", "must be an https URL"})
	}

	return errors
}

func ValidatePasswordStrength(pw string) []ValidationError {
	var errors []ValidationError
	if len(pw) < 8 {
		errors = append(errors, ValidationError{"newPassword", "must have at least 8 characters"})
	}
	if !lowerPattern.MatchString(pw) {
		errors = append(errors, ValidationError{"newPassword", "must contain a lowercase letter"})
	}
	if !upperPattern.MatchString(pw) {
		errors = append(errors, ValidationError{"newPassword", "must contain an uppercase letter"})
	}
	if !digitPattern.MatchString(pw) {
		errors = append(errors, ValidationError{"newPassword", "must contain a digit"})
	}
	return errors
}

func isValidEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == strings.TrimSpace(email)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// normalizePhone strips formatting and an Indian country code prefix.
func normalizePhone(phone string) string {
	cleaned := nonDigits.ReplaceAllString(phone, "")
	if len(cleaned) == 12 && strings.HasPrefix(cleaned, "91") {
		cleaned = cleaned[2:]
	}
	if len(cleaned) == 11 && strings.HasPrefix(cleaned, "0") {
		cleaned = cleaned[1:]
	}
	return cleaned
}

func isValidPhoneNumber(phone string) bool {
	cleaned := normalizePhone(phone)
	return len(cleaned) == 10 && cleaned[0] >= '6'
}

func isValidDate(dateStr string) bool {
	_, err := time.Parse("2006-01-02", dateStr)
	return err == nil
}

func isValidFolder(folder string) bool {
	return folderPattern.MatchString(folder) && !strings.Contains(folder, "..")
}

// isValidID reports whether id has the canonical UUID form record ids are stored in.
func isValidID(id string) bool {
	return len(id) == 36 && uuid.Validate(id) == nil
}
