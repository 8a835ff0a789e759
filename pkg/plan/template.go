// Package plan expands a declarative config into the ordered execution plan
// for a capture run: URL templates into concrete variants, and the config
// into the (state, viewport, screen, url) matrix.
package plan

import (
	"fmt"
	"strings"

	"github.com/entrhq/screenboard/pkg/config"
)

// URLVariant is one concrete URL produced by template expansion. Variant is
// empty when the template yielded a single combination, otherwise
// "variant-N" (1-based, product order) for suffixing manifest entry ids.
type URLVariant struct {
	URL     string
	Variant string
}

// ExpandTemplate substitutes named parameters into a URL template, producing
// the cartesian product across all parameter value lists. Both ":name" and
// "{name}" placeholder syntaxes are replaced globally. With no params the
// template itself is returned, untagged.
func ExpandTemplate(template string, params *config.Params) []URLVariant {
	combos := expandParams(params)

	variants := make([]URLVariant, 0, len(combos))
	for _, combo := range combos {
		url := template
		for _, kv := range combo {
			url = strings.ReplaceAll(url, ":"+kv.key, kv.value)
			url = strings.ReplaceAll(url, "{"+kv.key+"}", kv.value)
		}
		variants = append(variants, URLVariant{URL: url})
	}

	if len(variants) > 1 {
		for i := range variants {
			variants[i].Variant = fmt.Sprintf("variant-%d", i+1)
		}
	}
	return variants
}

type paramValue struct {
	key   string
	value string
}

// expandParams computes the cartesian product of the parameter value lists,
// keys in declaration order, each key's values in list order. No params
// yields a single empty combination.
func expandParams(params *config.Params) [][]paramValue {
	combos := [][]paramValue{{}}

	for _, key := range params.Keys() {
		values := params.Values(key)
		next := make([][]paramValue, 0, len(combos)*len(values))
		for _, combo := range combos {
			for _, value := range values {
				extended := make([]paramValue, len(combo), len(combo)+1)
				copy(extended, combo)
				next = append(next, append(extended, paramValue{key, value}))
			}
		}
		combos = next
	}
	return combos
}
