package resource

import (
	"fmt"
	"reflect"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	goutils "go.viam.com/utils"

	"go.viam.com/timedrobot/utils"
)

// Config describes the configuration of a single resource.
type Config struct {
	Name       string             `json:"name"`
	Type       string             `json:"type"`
	Model      Model              `json:"model"`
	Attributes utils.AttributeMap `json:"attributes,omitempty"`
	DependsOn  []string           `json:"depends_on,omitempty"`

	API                 API             `json:"-"`
	ConvertedAttributes ConfigValidator `json:"-"`
	ImplicitDependsOn   []string        `json:"-"`
}

// ConfigValidator is implemented by every native config. Validate returns the names of the
// resources the config implicitly depends on.
type ConfigValidator interface {
	Validate(path string) ([]string, error)
}

// NoNativeConfig is used by models that take no attributes.
type NoNativeConfig struct{}

// Validate always succeeds.
func (NoNativeConfig) Validate(path string) ([]string, error) {
	return nil, nil
}

// NativeConfig returns the native config from the given config via its converted attributes.
func NativeConfig[T any](conf Config) (T, error) {
	return utils.AssertType[T](conf.ConvertedAttributes)
}

// ResourceName returns the name of the resource the config describes.
func (conf *Config) ResourceName() Name {
	return NewName(conf.API, conf.Name)
}

func (conf *Config) String() string {
	return fmt.Sprintf("%s (%s)", conf.ResourceName(), conf.Model)
}

// Dependencies returns the deduplicated union of user-defined and implicit dependencies.
func (conf *Config) Dependencies() []string {
	return lo.Uniq(append(append([]string{}, conf.DependsOn...), conf.ImplicitDependsOn...))
}

// Validate ensures all parts of the config are valid, converts the attributes to the native config
// of the registered model and records the implicit dependencies it reports.
func (conf *Config) Validate(path string) ([]string, error) {
	if conf.Name == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "name")
	}
	if !modelNameRegexp.MatchString(conf.Name) {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("name %q must only contain letters, numbers, underscores and hyphens", conf.Name))
	}
	if conf.Type == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "type")
	}
	if conf.Model.Name == "" {
		return nil, goutils.NewConfigValidationFieldRequiredError(path, "model")
	}
	if conf.API.SubtypeName == "" {
		conf.API = APINamespaceCore.WithComponentType(conf.Type)
	}

	reg, ok := LookupRegistration(conf.API, conf.Model)
	if !ok {
		return nil, goutils.NewConfigValidationError(path,
			errors.Errorf("no registration for api %q and model %q", conf.API, conf.Model))
	}
	if conf.ConvertedAttributes == nil && reg.AttributeMapConverter != nil {
		converted, err := reg.AttributeMapConverter(conf.Attributes)
		if err != nil {
			return nil, goutils.NewConfigValidationError(path, errors.Wrap(err, "error converting attributes"))
		}
		conf.ConvertedAttributes = converted
	}
	if conf.ConvertedAttributes == nil {
		return nil, nil
	}

	deps, err := conf.ConvertedAttributes.Validate(fmt.Sprintf("%s.attributes", path))
	if err != nil {
		return nil, err
	}
	conf.ImplicitDependsOn = deps
	return deps, nil
}

// TransformAttributeMap uses an attribute map to transform attributes to the prescribed format.
func TransformAttributeMap[T any](attributes utils.AttributeMap) (T, error) {
	var out T

	var forResult interface{}

	toT := reflect.TypeOf(out)
	if toT == nil {
		// nothing to transform
		return out, nil
	}
	if toT.Kind() == reflect.Ptr {
		// needs to be allocated then
		var ok bool
		out, ok = reflect.New(toT.Elem()).Interface().(T)
		if !ok {
			return out, errors.Errorf("failed to allocate default config type %T", out)
		}
		forResult = out
	} else {
		forResult = &out
	}

	var md mapstructure.Metadata
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           forResult,
		Metadata:         &md,
		WeaklyTypedInput: false,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return out, err
	}
	if err := decoder.Decode(attributes); err != nil {
		return out, err
	}
	if len(md.Unused) != 0 {
		return out, errors.Errorf("unknown attributes %v", md.Unused)
	}
	return out, nil
}
