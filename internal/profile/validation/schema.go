package validation

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/AlibekovAA/profile-editor/internal/common/constants"
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
)

var phonePattern = regexp.MustCompile(`^[+]?[1-9][\d\s\-().]{8,20}$`)

// Form is the complete set of editable profile fields.
type Form struct {
	Name     string `json:"name"`
	Bio      string `json:"bio"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

func FormFromProfile(p domain.Profile) Form {
	return Form{
		Name:     p.Name,
		Bio:      p.Bio,
		Email:    p.Email,
		Phone:    p.Phone,
		Location: p.Location,
	}
}

// ToUpdate turns a full form into an update touching every field.
func (f Form) ToUpdate() domain.Update {
	return domain.Update{
		Name:     domain.StringPtr(f.Name),
		Bio:      domain.StringPtr(f.Bio),
		Email:    domain.StringPtr(f.Email),
		Phone:    domain.StringPtr(f.Phone),
		Location: domain.StringPtr(f.Location),
	}
}

func (f Form) Get(field string) (string, bool) {
	switch field {
	case "name":
		return f.Name, true
	case "bio":
		return f.Bio, true
	case "email":
		return f.Email, true
	case "phone":
		return f.Phone, true
	case "location":
		return f.Location, true
	}
	return "", false
}

func (f *Form) Set(field, value string) bool {
	switch field {
	case "name":
		f.Name = value
	case "bio":
		f.Bio = value
	case "email":
		f.Email = value
	case "phone":
		f.Phone = value
	case "location":
		f.Location = value
	default:
		return false
	}
	return true
}

// Errors maps a field name to the message of its first violated rule.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e[k]))
	}
	return strings.Join(parts, "; ")
}

func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

type rule struct {
	field    string
	tag      string
	messages map[string]string
}

var Fields = []string{"name", "bio", "email", "phone", "location"}

var rules = map[string]rule{
	"name": {
		field: "name",
		tag:   fmt.Sprintf("min=%d,max=%d", constants.ProfileNameMinLength, constants.ProfileNameMaxLength),
		messages: map[string]string{
			"min": fmt.Sprintf("Name must be at least %d characters", constants.ProfileNameMinLength),
			"max": fmt.Sprintf("Name must be less than %d characters", constants.ProfileNameMaxLength),
		},
	},
	"bio": {
		field: "bio",
		tag:   fmt.Sprintf("min=%d,max=%d", constants.ProfileBioMinLength, constants.ProfileBioMaxLength),
		messages: map[string]string{
			"min": fmt.Sprintf("Bio must be at least %d characters", constants.ProfileBioMinLength),
			"max": fmt.Sprintf("Bio must be less than %d characters", constants.ProfileBioMaxLength),
		},
	},
	"email": {
		field: "email",
		tag:   "email",
		messages: map[string]string{
			"email": "Please enter a valid email address",
		},
	},
	"phone": {
		field: "phone",
		tag:   fmt.Sprintf("min=%d,phone", constants.ProfilePhoneMinLength),
		messages: map[string]string{
			"min":   fmt.Sprintf("Phone number must be at least %d characters", constants.ProfilePhoneMinLength),
			"phone": "Please enter a valid phone number (e.g., +1 (555) 123-4567 or 555-123-4567)",
		},
	},
	"location": {
		field: "location",
		tag:   fmt.Sprintf("min=%d,max=%d", constants.ProfileLocationMinLength, constants.ProfileLocationMaxLength),
		messages: map[string]string{
			"min": fmt.Sprintf("Location must be at least %d characters", constants.ProfileLocationMinLength),
			"max": fmt.Sprintf("Location must be less than %d characters", constants.ProfileLocationMaxLength),
		},
	},
}

// Schema evaluates the profile rules. It is safe for concurrent use.
type Schema struct {
	validate *validator.Validate
}

func NewSchema() *Schema {
	v := validator.New()
	if err := v.RegisterValidation("phone", func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	}); err != nil {
		panic(fmt.Sprintf("register phone validation: %v", err))
	}
	return &Schema{validate: v}
}

// Validate checks every field of a full form and returns nil when it is valid.
func (s *Schema) Validate(f Form) Errors {
	errs := Errors{}
	for _, field := range Fields {
		value, _ := f.Get(field)
		if msg, ok := s.check(rules[field], value); !ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidatePartial applies the same rules to only the fields present in u.
func (s *Schema) ValidatePartial(u domain.Update) Errors {
	values := map[string]*string{
		"name":     u.Name,
		"bio":      u.Bio,
		"email":    u.Email,
		"phone":    u.Phone,
		"location": u.Location,
	}

	errs := Errors{}
	for _, field := range Fields {
		value := values[field]
		if value == nil {
			continue
		}
		if msg, ok := s.check(rules[field], *value); !ok {
			errs[field] = msg
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (s *Schema) ValidateField(field, value string) (string, bool) {
	r, ok := rules[field]
	if !ok {
		return fmt.Sprintf("unknown field %q", field), false
	}
	return s.check(r, value)
}

func (s *Schema) check(r rule, value string) (string, bool) {
	err := s.validate.Var(value, r.tag)
	if err == nil {
		return "", true
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := r.messages[verrs[0].Tag()]; ok {
			return msg, false
		}
	}
	return fmt.Sprintf("%s is invalid", r.field), false
}
