package datasync

import (
	"github.com/AlibekovAA/profile-editor/internal/profile/domain"
	"github.com/AlibekovAA/profile-editor/internal/profile/validation"
)

// form is the editable copy of the profile. baseline holds the values last
// loaded or saved; the form is dirty while values differ from it.
type form struct {
	values   validation.Form
	baseline validation.Form
	errors   validation.Errors
}

func (f *form) reset(p domain.Profile) {
	f.values = validation.FormFromProfile(p)
	f.baseline = f.values
	f.errors = nil
}

func (f *form) discard() {
	f.values = f.baseline
	f.errors = nil
}

func (f *form) dirty() bool {
	return f.values != f.baseline
}

func (f *form) setError(field, msg string) {
	if f.errors == nil {
		f.errors = validation.Errors{}
	}
	f.errors[field] = msg
}

func (f *form) clearError(field string) {
	delete(f.errors, field)
	if len(f.errors) == 0 {
		f.errors = nil
	}
}

func (f *form) errorsCopy() validation.Errors {
	if len(f.errors) == 0 {
		return nil
	}
	out := make(validation.Errors, len(f.errors))
	for k, v := range f.errors {
		out[k] = v
	}
	return out
}
