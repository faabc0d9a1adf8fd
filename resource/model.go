package resource

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// DefaultModelFamily is the family of every built in model.
var DefaultModelFamily = ModelFamily{Namespace: APINamespaceCore, Name: "builtin"}

var modelNameRegexp = regexp.MustCompile(`^[\w-]+$`)

// ModelFamily groups related models, e.g. "timed-robot:builtin".
type ModelFamily struct {
	Namespace APINamespace
	Name      string
}

// WithModel returns a model of this family.
func (f ModelFamily) WithModel(name string) Model {
	return Model{Family: f, Name: name}
}

func (f ModelFamily) String() string {
	return fmt.Sprintf("%s:%s", f.Namespace, f.Name)
}

// Model identifies one implementation of an API, e.g. "timed-robot:builtin:fake".
type Model struct {
	Family ModelFamily
	Name   string
}

// NewModelFromString parses either a bare model name of the default family ("fake") or a fully
// qualified "namespace:family:name" triple.
func NewModelFromString(modelStr string) (Model, error) {
	parts := strings.Split(modelStr, ":")
	switch len(parts) {
	case 1:
		m := DefaultModelFamily.WithModel(parts[0])
		return m, m.Validate()
	case 3:
		m := ModelFamily{Namespace: APINamespace(parts[0]), Name: parts[1]}.WithModel(parts[2])
		return m, m.Validate()
	default:
		return Model{}, errors.Errorf("string %q is not a valid model name", modelStr)
	}
}

// Validate ensures every part of the model is a valid name.
func (m Model) Validate() error {
	for field, value := range map[string]string{
		"namespace": string(m.Family.Namespace),
		"family":    m.Family.Name,
		"name":      m.Name,
	} {
		if !modelNameRegexp.MatchString(value) {
			return errors.Errorf("model %s %q must only contain letters, numbers, underscores and hyphens", field, value)
		}
	}
	return nil
}

func (m Model) String() string {
	return fmt.Sprintf("%s:%s", m.Family, m.Name)
}

// MarshalJSON writes the model as its string form.
func (m Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON parses a model from its string form.
func (m *Model) UnmarshalJSON(data []byte) error {
	var modelStr string
	if err := json.Unmarshal(data, &modelStr); err != nil {
		return err
	}
	parsed, err := NewModelFromString(modelStr)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
