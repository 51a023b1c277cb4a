package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// DefaultRegion is appended to bare language codes decoded from voice ids.
const DefaultRegion = "IN"

// Axis is the catalog data for one component. Order of Providers and of every
// list value is the declared enumeration order and is never re-sorted.
type Axis struct {
	Providers []string                    `yaml:"providers"`
	Models    map[string][]string         `yaml:"models"`
	Languages map[string][]string         `yaml:"languages"`
	Encoding  map[string]LanguageEncoding `yaml:"language_encoding"`
	// Costs is keyed by model id for STT/LLM and by provider for TTS.
	// A nil value is an explicitly unpriced entry.
	Costs map[string]*float64 `yaml:"costs"`
}

// Catalog is read-only after construction and safe for concurrent use.
type Catalog struct {
	axes  map[Component]*Axis
	names map[string]string
}

// New builds a catalog from per-component axes. It does not validate; call Validate.
func New(axes map[Component]Axis, languageNames map[string]string) *Catalog {
	c := &Catalog{
		axes:  make(map[Component]*Axis, len(axes)),
		names: make(map[string]string, len(languageNames)),
	}
	for comp, axis := range axes {
		a := axis
		if a.Models == nil {
			a.Models = map[string][]string{}
		}
		if a.Languages == nil {
			a.Languages = map[string][]string{}
		}
		if a.Encoding == nil {
			a.Encoding = map[string]LanguageEncoding{}
		}
		if a.Costs == nil {
			a.Costs = map[string]*float64{}
		}
		c.axes[comp] = &a
	}
	for code, name := range languageNames {
		c.names[code] = name
	}
	return c
}

func (c *Catalog) axis(comp Component) *Axis {
	a, ok := c.axes[comp]
	if !ok {
		panic(fmt.Sprintf("catalog: unknown component %q", comp))
	}
	return a
}

func (c *Catalog) mustProvider(comp Component, provider string) *Axis {
	a := c.axis(comp)
	if !slices.Contains(a.Providers, provider) {
		panic(fmt.Sprintf("catalog: unknown %s provider %q", comp, provider))
	}
	return a
}

// ProvidersFor returns the providers of comp in catalog order.
func (c *Catalog) ProvidersFor(comp Component) []string {
	return slices.Clone(c.axis(comp).Providers)
}

// LanguagesFor returns the languages provider supports for comp. LLM has no
// language axis and always yields nil.
func (c *Catalog) LanguagesFor(comp Component, provider string) []string {
	a := c.mustProvider(comp, provider)
	if !comp.HasLanguageAxis() {
		return nil
	}
	return slices.Clone(a.Languages[provider])
}

// ModelsFor returns the model or voice ids of provider in catalog order.
func (c *Catalog) ModelsFor(comp Component, provider string) []string {
	return slices.Clone(c.mustProvider(comp, provider).Models[provider])
}

// ModelsForLanguageAndProvider filters provider's ids to those whose embedded
// language matches language. Providers that embed no language return the full list.
func (c *Catalog) ModelsForLanguageAndProvider(comp Component, language, provider string) []string {
	a := c.mustProvider(comp, provider)
	models := a.Models[provider]
	if a.Encoding[provider] == EncodingNone {
		return slices.Clone(models)
	}
	out := make([]string, 0, len(models))
	for _, m := range models {
		if lang, ok := decodeLanguage(a.Encoding[provider], m); ok && lang == language {
			out = append(out, m)
		}
	}
	return out
}

// ProvidersForLanguage returns, in catalog order, the providers of comp whose
// language set contains language.
func (c *Catalog) ProvidersForLanguage(comp Component, language string) []string {
	a := c.axis(comp)
	var out []string
	for _, p := range a.Providers {
		if slices.Contains(a.Languages[p], language) {
			out = append(out, p)
		}
	}
	return out
}

// Languages returns the union of languages for comp, ordered by first appearance.
func (c *Catalog) Languages(comp Component) []string {
	a := c.axis(comp)
	var out []string
	for _, p := range a.Providers {
		for _, l := range a.Languages[p] {
			if !slices.Contains(out, l) {
				out = append(out, l)
			}
		}
	}
	return out
}

// HasProvider reports whether provider is declared for comp.
func (c *Catalog) HasProvider(comp Component, provider string) bool {
	return slices.Contains(c.axis(comp).Providers, provider)
}

// HasModel reports whether id is declared under provider for comp.
func (c *Catalog) HasModel(comp Component, provider, id string) bool {
	if !c.HasProvider(comp, provider) {
		return false
	}
	return slices.Contains(c.axis(comp).Models[provider], id)
}

// KnowsLanguage reports whether any provider of comp supports language.
func (c *Catalog) KnowsLanguage(comp Component, language string) bool {
	return len(c.ProvidersForLanguage(comp, language)) > 0
}

// DeclaresLanguage reports whether code has a display name, i.e. whether an
// operator can pick it from the language list even if no provider supports it.
func (c *Catalog) DeclaresLanguage(code string) bool {
	_, ok := c.names[code]
	return ok
}

// ModelLanguage decodes the language embedded in a model or voice id.
// Region-encoded ids are used as-is ("hi-IN"); bare codes get DefaultRegion ("hi" -> "hi-IN").
func (c *Catalog) ModelLanguage(comp Component, id string) (string, bool) {
	a := c.axis(comp)
	return decodeLanguage(a.Encoding[ProviderOf(id)], id)
}

func decodeLanguage(enc LanguageEncoding, id string) (string, bool) {
	rest := StripProvider(id)
	switch enc {
	case EncodingRegion:
		parts := strings.SplitN(rest, "-", 3)
		if len(parts) < 3 || parts[0] == "" || parts[1] == "" {
			return "", false
		}
		return parts[0] + "-" + parts[1], true
	case EncodingBare:
		code, _, ok := strings.Cut(rest, "-")
		if !ok || code == "" {
			return "", false
		}
		return code + "-" + DefaultRegion, true
	default:
		return "", false
	}
}

// Cost looks up a per-minute price. Missing and explicitly unpriced entries both report false.
func (c *Catalog) Cost(comp Component, key string) (float64, bool) {
	v, ok := c.axis(comp).Costs[key]
	if !ok || v == nil {
		return 0, false
	}
	return *v, true
}

// LanguageName returns the display name of a language code, or the code itself.
func (c *Catalog) LanguageName(code string) string {
	if name, ok := c.names[code]; ok {
		return name
	}
	return code
}

// Validate checks the catalog's structural invariants.
func (c *Catalog) Validate() error {
	var errs []error
	for _, comp := range Components() {
		a, ok := c.axes[comp]
		if !ok {
			errs = append(errs, fmt.Errorf("%s: component missing", comp))
			continue
		}
		if len(a.Providers) == 0 {
			errs = append(errs, fmt.Errorf("%s: no providers", comp))
		}
		seen := make(map[string]bool, len(a.Providers))
		for _, p := range a.Providers {
			if seen[p] {
				errs = append(errs, fmt.Errorf("%s: duplicate provider %q", comp, p))
			}
			seen[p] = true
			models, ok := a.Models[p]
			if !ok {
				errs = append(errs, fmt.Errorf("%s: provider %q has no models entry", comp, p))
			}
			for _, m := range models {
				if ProviderOf(m) != p {
					errs = append(errs, fmt.Errorf("%s: model %q is not prefixed with %q", comp, m, p+":"))
				}
			}
			if comp.HasLanguageAxis() {
				if _, ok := a.Languages[p]; !ok {
					errs = append(errs, fmt.Errorf("%s: provider %q has no languages entry", comp, p))
				}
			}
		}
		for p := range a.Models {
			if !seen[p] {
				errs = append(errs, fmt.Errorf("%s: models declared for unknown provider %q", comp, p))
			}
		}
		for p, enc := range a.Encoding {
			if enc != EncodingNone && enc != EncodingRegion && enc != EncodingBare {
				errs = append(errs, fmt.Errorf("%s: provider %q has unknown language encoding %q", comp, p, enc))
			}
		}
	}
	return errors.Join(errs...)
}
