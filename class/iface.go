package class

import (
	"lineage/types"
)

// validateInterfaces checks that every member of every interface surface
// is present on d's surface. Only presence is checked, not whether the
// member is a method or a value.
func validateInterfaces(d *Descriptor, interfaces []*Descriptor) error {
	for _, iface := range interfaces {
		for _, name := range iface.MemberNames() {
			if _, ok := d.surface[name]; !ok {
				return types.NewError(types.E_INTERFACE,
					"Cannot find the method or variable '%s' of the interface '%s'", name, iface.Label())
			}
		}
	}
	return nil
}

// Satisfies reports whether d's surface provides every member of iface
func (d *Descriptor) Satisfies(iface *Descriptor) bool {
	return validateInterfaces(d, []*Descriptor{iface}) == nil
}
