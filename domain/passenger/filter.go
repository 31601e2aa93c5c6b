package passenger

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/hannaerdza/titanic-visualization/internal/errors"
)

// Field names a filter control; the value doubles as the query parameter name
type Field string

const (
	FieldSurvived Field = "survived"
	FieldClass    Field = "pclass"
	FieldSex      Field = "sex"
	FieldMinAge   Field = "min_age"
	FieldMaxAge   Field = "max_age"
	FieldEmbarked Field = "embarked"
)

// Fields lists every filter control in display order
var Fields = []Field{FieldSurvived, FieldClass, FieldSex, FieldEmbarked, FieldMinAge, FieldMaxAge}

// ParseField resolves a control name
func ParseField(name string) (Field, error) {
	for _, f := range Fields {
		if string(f) == name {
			return f, nil
		}
	}
	return "", errors.InvalidInput(fmt.Sprintf("unknown filter field %q", name))
}

// Filter is the state of the filter controls. An empty value leaves the field unconstrained.
type Filter struct {
	Survived string
	Class    string
	Sex      string
	MinAge   string
	MaxAge   string
	Embarked string
}

// Get returns the control value for field
func (f Filter) Get(field Field) string {
	switch field {
	case FieldSurvived:
		return f.Survived
	case FieldClass:
		return f.Class
	case FieldSex:
		return f.Sex
	case FieldMinAge:
		return f.MinAge
	case FieldMaxAge:
		return f.MaxAge
	case FieldEmbarked:
		return f.Embarked
	}
	return ""
}

// With returns a copy of f with one control changed. The receiver is never modified.
func (f Filter) With(field Field, value string) (Filter, error) {
	if err := validateValue(field, value); err != nil {
		return f, err
	}
	switch field {
	case FieldSurvived:
		f.Survived = value
	case FieldClass:
		f.Class = value
	case FieldSex:
		f.Sex = value
	case FieldMinAge:
		f.MinAge = value
	case FieldMaxAge:
		f.MaxAge = value
	case FieldEmbarked:
		f.Embarked = value
	default:
		return f, errors.InvalidInput(fmt.Sprintf("unknown filter field %q", field))
	}
	return f, nil
}

// Validate checks every control value
func (f Filter) Validate() error {
	for _, field := range Fields {
		if err := validateValue(field, f.Get(field)); err != nil {
			return err
		}
	}
	return nil
}

// IsEmpty reports whether no control is set
func (f Filter) IsEmpty() bool {
	return len(f.Predicate()) == 0
}

// Predicate strips empty controls
func (f Filter) Predicate() Predicate {
	p := make(Predicate)
	for _, field := range Fields {
		if v := f.Get(field); v != "" {
			p[field] = v
		}
	}
	return p
}

// Predicate maps constrained fields to their values. Absent fields are unconstrained.
type Predicate map[Field]string

// Values encodes the predicate as query parameters, one per constrained field
func (p Predicate) Values() url.Values {
	values := url.Values{}
	for field, v := range p {
		if v == "" {
			continue
		}
		values.Set(string(field), v)
	}
	return values
}

func validateValue(field Field, value string) error {
	if value == "" {
		return nil
	}
	switch field {
	case FieldSurvived:
		if value != "0" && value != "1" {
			return errors.InvalidInput("survived must be 0 or 1")
		}
	case FieldClass:
		if value != "1" && value != "2" && value != "3" {
			return errors.InvalidInput("pclass must be 1, 2 or 3")
		}
	case FieldSex:
		if value != "male" && value != "female" {
			return errors.InvalidInput("sex must be male or female")
		}
	case FieldEmbarked:
		switch Port(value) {
		case PortCherbourg, PortQueenstown, PortSouthampton:
		default:
			return errors.InvalidInput("embarked must be C, Q or S")
		}
	case FieldMinAge, FieldMaxAge:
		age, err := strconv.ParseFloat(value, 64)
		if err != nil || age < 0 {
			return errors.InvalidInput(fmt.Sprintf("%s must be a non-negative number", field))
		}
	default:
		return errors.InvalidInput(fmt.Sprintf("unknown filter field %q", field))
	}
	return nil
}
