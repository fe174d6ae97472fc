package model

import "github.com/nmstate/nmstate-go/pkg/nmerror"

// DispatchConfig declares pre/post activation scripts nmstate-go runs
// around a backend's interface activation/deactivation, plus variables
// interpolated into those scripts.
type DispatchConfig struct {
	PostActivation   string            `yaml:"post-activation,omitempty" json:"postActivation,omitempty"`
	PostDeactivation string            `yaml:"post-deactivation,omitempty" json:"postDeactivation,omitempty"`
	Variables        map[string]string `yaml:"variables,omitempty" json:"variables,omitempty"`

	// Kind only applies to interfaces of Type == TypeDispatch.
	Kind string `yaml:"type,omitempty" json:"type,omitempty"`
}

// ValidateDispatch enforces that `dispatch.type` is reserved for
// TypeDispatch interfaces.
func ValidateDispatch(ifaceType InterfaceType, name string, d *DispatchConfig) error {
	if d == nil {
		return nil
	}
	if ifaceType != TypeDispatch && d.Kind != "" {
		return nmerror.InvalidArgument(name,
			"interface with type %q is not allowed to hold dispatch.type, which is reserved for type 'dispatch'", ifaceType)
	}
	return nil
}

// DispatchInterface represents a standalone dispatch-script-only
// pseudo interface.
type DispatchInterface struct {
	Base BaseInterface `yaml:",inline"`
}
