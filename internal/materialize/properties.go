package materialize

import (
	"fmt"

	"github.com/specialistvlad/shadermat/internal/descriptor"
	"github.com/specialistvlad/shadermat/internal/host"
	"github.com/specialistvlad/shadermat/internal/resource"
	"github.com/specialistvlad/shadermat/internal/value"
)

// ApplyProperties resolves every value in props and sets it on target, in
// key order. The first failure stops the loop; properties already set stay set.
func ApplyProperties(cache *resource.Cache, target host.Settable, props map[string]value.Value, ext string) error {
	for _, name := range descriptor.SortedKeys(props) {
		hv, err := ResolveValue(cache, props[name], ext)
		if err != nil {
			return fmt.Errorf("property %q of %s: %w", name, target.Name(), err)
		}
		if err := target.Set(name, hv); err != nil {
			return &InvalidPropertyError{Target: target.Name(), Property: name, Err: err}
		}
	}
	return nil
}
