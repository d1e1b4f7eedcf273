package policy

import (
	"gopkg.in/yaml.v3"

	"github.com/hlop3z/enumig/internal/enerr"
)

// MarshalYAML encodes the kind as its string name.
func (k Kind) MarshalYAML() (any, error) {
	return k.String(), nil
}

// UnmarshalYAML decodes a kind from its string name.
func (k *Kind) UnmarshalYAML(value *yaml.Node) error {
	var name string
	if err := value.Decode(&name); err != nil {
		return err
	}
	parsed, ok := ParseKind(name)
	if !ok {
		return enerr.Newf(enerr.ErrPolicyInvalid, "unknown removal policy %q", name)
	}
	*k = parsed
	return nil
}

// ParseKind maps a policy name to its Kind.
func ParseKind(name string) (Kind, bool) {
	switch name {
	case "protect":
		return KindProtect, true
	case "cascade":
		return KindCascade, true
	case "set_null":
		return KindSetNull, true
	case "set_default":
		return KindSetDefault, true
	case "set_value":
		return KindSetValue, true
	default:
		return 0, false
	}
}
