package catalog

import (
	"errors"
	"sort"
	"strings"

	"github.com/DamianKursa/hvyt-ecom-sub000/internal/models"
)

var (
	// ErrNoMatch is returned when no variant carries the requested option.
	ErrNoMatch = errors.New("no variant matches the selection")
	// ErrAmbiguousOption is returned when a deep-link value is an option of
	// more than one attribute and cannot seed a selection on its own.
	ErrAmbiguousOption = errors.New("option value is shared by several attributes")
)

// signatureGroup indexes variants that declare the same attribute set.
type signatureGroup struct {
	attributes []string       // normalized attribute names, sorted
	byKey      map[string]int // composite option key -> variant position
}

// VariantIndex resolves attribute selections to variants by lookup. It is
// built once per catalog load and is read-only afterwards.
type VariantIndex struct {
	product    *models.Product
	groups     []*signatureGroup
	duplicates int
}

// NewVariantIndex precomputes a normalized composite key for every variant.
// When two variants share a key the first in catalog order is kept.
func NewVariantIndex(product *models.Product) *VariantIndex {
	idx := &VariantIndex{product: product}
	if product == nil {
		return idx
	}

	bySignature := make(map[string]*signatureGroup)
	for pos := range product.Variants {
		names, key, ok := variantKey(product.Variants[pos].Attributes)
		if !ok {
			continue
		}
		sig := strings.Join(names, "|")
		g, ok := bySignature[sig]
		if !ok {
			g = &signatureGroup{attributes: names, byKey: make(map[string]int)}
			bySignature[sig] = g
			idx.groups = append(idx.groups, g)
		}
		if _, exists := g.byKey[key]; exists {
			idx.duplicates++
			continue
		}
		g.byKey[key] = pos
	}
	return idx
}

// Duplicates returns how many variants were shadowed by an earlier variant
// with an identical attribute combination.
func (idx *VariantIndex) Duplicates() int {
	return idx.duplicates
}

// Resolve returns the variant identified by selection, or nil. The selection
// must carry a non-empty value for every attribute the variant declares;
// partial selections never match.
func (idx *VariantIndex) Resolve(selection models.Selection) *models.Variant {
	if idx.product == nil || len(selection) == 0 {
		return nil
	}
	normalized := normalizeSelection(selection)

	best := -1
	for _, g := range idx.groups {
		key, ok := selectionKey(g.attributes, normalized)
		if !ok {
			continue
		}
		if pos, found := g.byKey[key]; found && (best < 0 || pos < best) {
			best = pos
		}
	}
	if best < 0 {
		return nil
	}
	return &idx.product.Variants[best]
}

// Preselect seeds a selection from a single deep-link value. The first
// variant in catalog order carrying the value under that attribute wins.
// A value that is an option of several different attributes is rejected
// with ErrAmbiguousOption instead of guessing.
func (idx *VariantIndex) Preselect(value string) (models.Selection, error) {
	want := Normalize(value)
	if idx.product == nil || want == "" {
		return nil, ErrNoMatch
	}

	var (
		attribute string
		seed      *models.Variant
	)
	for i := range idx.product.Variants {
		v := &idx.product.Variants[i]
		for _, a := range v.Attributes {
			if Normalize(a.Option) != want {
				continue
			}
			name := normalizeName(a.Name)
			if attribute != "" && attribute != name {
				return nil, ErrAmbiguousOption
			}
			attribute = name
			if seed == nil {
				seed = v
			}
		}
	}
	if seed == nil {
		return nil, ErrNoMatch
	}

	selection := make(models.Selection, len(seed.Attributes))
	for _, a := range seed.Attributes {
		selection[a.Name] = a.Option
	}
	return selection, nil
}

// Missing lists the attributes, in catalog order, that selection leaves
// empty. Callers use it to tell the shopper what is still to choose.
func (idx *VariantIndex) Missing(selection models.Selection) []string {
	if idx.product == nil {
		return nil
	}
	normalized := normalizeSelection(selection)
	var missing []string
	for _, a := range idx.product.Attributes {
		if !a.Variation {
			continue
		}
		if normalized[normalizeName(a.Name)] == "" {
			missing = append(missing, a.Name)
		}
	}
	return missing
}

// variantKey is not ok for variants without attributes or with an empty
// option, which no complete selection can match.
func variantKey(attrs []models.VariantAttribute) ([]string, string, bool) {
	pairs := make(map[string]string, len(attrs))
	names := make([]string, 0, len(attrs))
	for _, a := range attrs {
		name := normalizeName(a.Name)
		if _, seen := pairs[name]; !seen {
			names = append(names, name)
		}
		pairs[name] = Normalize(a.Option)
	}
	if len(names) == 0 {
		return nil, "", false
	}
	sort.Strings(names)
	key, ok := selectionKey(names, pairs)
	return names, key, ok
}

func selectionKey(names []string, values map[string]string) (string, bool) {
	var b strings.Builder
	for i, name := range names {
		v := values[name]
		if v == "" {
			return "", false
		}
		if i > 0 {
			b.WriteByte('|')
		}
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(v)
	}
	return b.String(), true
}

func normalizeSelection(selection models.Selection) map[string]string {
	out := make(map[string]string, len(selection))
	for name, option := range selection {
		out[normalizeName(name)] = Normalize(option)
	}
	return out
}

// normalizeName folds attribute names and drops the "pa_" taxonomy prefix
// the backend puts on global attributes.
func normalizeName(name string) string {
	n := Normalize(name)
	return strings.TrimPrefix(n, "pa_")
}
