package meeting

import "strings"

// RefRegistry allocates RST hyperlink reference names for minute items.
// Names are unique within a session and stable once allocated.
type RefRegistry struct {
	used   map[string]bool
	order  []string
	byItem map[*Item]rstRef
}

type rstRef struct {
	name       string
	definition string
}

// NewRefRegistry returns an empty registry.
func NewRefRegistry() *RefRegistry {
	return &RefRegistry{
		used:   make(map[string]bool),
		byItem: make(map[*Item]rstRef),
	}
}

// Allocate returns the reference name for the item, allocating one on first
// use. The base name is nick+time when the nick ends in "_", otherwise
// nick+"-"+time; collisions get suffixes a, b, ..., z, aa, ab, ...
func (r *RefRegistry) Allocate(it *Item, logURL string) string {
	if ref, ok := r.byItem[it]; ok {
		return ref.name
	}

	base := it.Nick + "-" + it.Time
	if strings.HasSuffix(it.Nick, "_") {
		base = it.Nick + it.Time
	}

	name := base
	for n := 1; r.used[name]; n++ {
		name = base + letterSuffix(n)
	}

	r.used[name] = true
	r.order = append(r.order, name)
	r.byItem[it] = rstRef{
		name:       name,
		definition: ".. _" + name + ": " + logURL + "#" + it.Anchor(),
	}
	return name
}

// Definition returns the ".. _ref: url#anchor" line for an allocated item.
func (r *RefRegistry) Definition(it *Item) (string, bool) {
	ref, ok := r.byItem[it]
	return ref.definition, ok
}

// Definitions returns the definition lines for the given items, in item order,
// skipping items without a reference.
func (r *RefRegistry) Definitions(items []*Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if def, ok := r.Definition(it); ok {
			out = append(out, def)
		}
	}
	return out
}

// Names returns every allocated reference name in allocation order.
func (r *RefRegistry) Names() []string {
	return append([]string(nil), r.order...)
}

// letterSuffix converts n >= 1 to a bijective base-26 letter sequence:
// 1 -> a, 26 -> z, 27 -> aa, 28 -> ab.
func letterSuffix(n int) string {
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('a' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}
