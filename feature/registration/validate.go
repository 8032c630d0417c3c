package registration

import (
	"errors"
	"reflect"
	"regexp"
	"strings"

	"course-registry/feature/registration/models"

	"github.com/go-playground/validator/v10"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Input is a registration submission.
type Input struct {
	Name       string            `json:"name" validate:"required"`
	Email      string            `json:"email" validate:"required,regemail"`
	Phone      string            `json:"phone" validate:"required,phone"`
	Experience models.Experience `json:"experience" validate:"experience"`
	Interests  []string          `json:"interests" validate:"min=1"`
	HearAbout  string            `json:"hearAbout"`
	Notes      string            `json:"notes"`
}

// FieldError describes one rejected field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError is returned for a submission the user must correct.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		names = append(names, f.Field)
	}
	return "invalid registration: " + strings.Join(names, ", ")
}

// IsValidationError reports whether err is a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// messages maps field and failed tag to the user-facing message.
var messages = map[string]map[string]string{
	"name": {
		"required": "الاسم مطلوب",
	},
	"email": {
		"required": "البريد الإلكتروني مطلوب",
		"regemail": "البريد الإلكتروني غير صالح",
	},
	"phone": {
		"required": "رقم الهاتف مطلوب",
		"phone":    "رقم الهاتف يجب أن يتكون من 10 أرقام ويبدأ بـ 091 أو 092 أو 093 أو 094 أو 095 أو 096 أو 097 أو 098 أو 099",
	},
	"experience": {
		"experience": "مستوى الخبرة غير صالح",
	},
	"interests": {
		"min": "يرجى اختيار مجال اهتمام واحد على الأقل",
	},
}

// Validator checks registration input.
type Validator struct {
	validate    *validator.Validate
	countryCode string
}

// NewValidator creates a validator accepting phone numbers for countryCode.
func NewValidator(countryCode string) *Validator {
	v := &Validator{validate: validator.New(), countryCode: countryCode}

	v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// RegisterValidation only fails for empty or reserved tag names.
	_ = v.validate.RegisterValidation("regemail", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.validate.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return ValidPhone(fl.Field().String(), v.countryCode)
	})
	_ = v.validate.RegisterValidation("experience", func(fl validator.FieldLevel) bool {
		return models.Experience(fl.Field().String()).Valid()
	})

	return v
}

// Clean trims the text fields, drops blank and duplicate interests and
// defaults the experience level.
func Clean(in Input) Input {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.HearAbout = strings.TrimSpace(in.HearAbout)
	in.Notes = strings.TrimSpace(in.Notes)

	exp := models.Experience(strings.ToLower(strings.TrimSpace(string(in.Experience))))
	if exp == "" {
		exp = models.ExperienceBeginner
	}
	in.Experience = exp

	seen := make(map[string]struct{}, len(in.Interests))
	interests := make([]string, 0, len(in.Interests))
	for _, tag := range in.Interests {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		interests = append(interests, tag)
	}
	in.Interests = interests
	return in
}

// Validate cleans in and checks it. It returns the cleaned input or a
// *ValidationError listing every rejected field.
func (v *Validator) Validate(in Input) (Input, error) {
	in = Clean(in)

	err := v.validate.Struct(in)
	if err == nil {
		return in, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return in, err
	}

	ve := &ValidationError{}
	for _, fe := range verrs {
		msg := messages[fe.Field()][fe.Tag()]
		if msg == "" {
			msg = "قيمة غير صالحة"
		}
		ve.Fields = append(ve.Fields, FieldError{Field: fe.Field(), Message: msg})
	}
	return in, ve
}
