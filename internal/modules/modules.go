// Package modules holds the configuration modules bundled with
// cloud-init-exec.
package modules

import (
	"github.com/andrej220/modexec/pkg/cloudinit"
	"github.com/andrej220/modexec/pkg/registry"
	"github.com/andrej220/modexec/pkg/value"
)

// Register adds every bundled module to reg.
func Register(reg *registry.Registry[cloudinit.Handler]) {
	reg.Register(DebugName, Debug{})
	reg.Register(UsersGroupsName, UsersGroups{})
}

// show renders v for log messages.
func show(v value.Value) string {
	s, err := value.Repr(v)
	if err != nil {
		return v.Kind().String()
	}
	return s
}
