package class

import (
	"lineage/types"
)

// resolveRefs replaces every entry of an ancestor or interface list with
// its registered descriptor. Entries may be descriptors, names or ids;
// strings are always names here, never ids. The first unresolved entry
// fails the whole list.
func (r *Registry) resolveRefs(list string, refs []any) ([]*Descriptor, error) {
	resolved := make([]*Descriptor, len(refs))
	for i, ref := range refs {
		d := r.resolveRef(ref)
		if d == nil {
			return nil, types.NewError(types.E_UNRESOLVED, "One %s entry is undefined. (%s[%d] = %v)", list, list, i, ref)
		}
		resolved[i] = d
	}
	return resolved, nil
}

func (r *Registry) resolveRef(ref any) *Descriptor {
	switch v := ref.(type) {
	case *Descriptor:
		if r.owns(v) {
			return v
		}
		return nil
	case string:
		if v == "" {
			return nil
		}
		return r.byNameLocked(v)
	}
	if id, ok := integerRef(ref); ok {
		return r.byID(id)
	}
	return nil
}
