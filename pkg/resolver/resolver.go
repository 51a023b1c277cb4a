package resolver

import (
	"slices"

	"github.com/harunnryd/callpanel/pkg/catalog"
)

// Resolver restores consistency between provider, language and model after a
// single-axis edit. It holds no mutable state; Apply is a pure function of its
// inputs.
//
// Empty-set policy: when a provider declares no languages the prior language
// is held; when a language filter leaves no voices the provider's first model
// is used; when a provider declares no models at all the prior model is held.
type Resolver struct {
	cat *catalog.Catalog
}

func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{cat: cat}
}

// Catalog returns the catalog the resolver reads from.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

// Initial returns the default state: the first provider of every component,
// resolved as if the operator had just picked it.
func (r *Resolver) Initial() State {
	var s State
	for _, comp := range catalog.Components() {
		providers := r.cat.ProvidersFor(comp)
		if len(providers) == 0 {
			continue
		}
		s.set(comp, r.onProvider(comp, Selection{}, providers[0]))
	}
	return s
}

// Apply runs one transition. On error the input state is returned unchanged.
func (r *Resolver) Apply(s State, ev Event) (State, error) {
	comp, err := catalog.ParseComponent(string(ev.Component))
	if err != nil {
		return s, &OptionError{Component: ev.Component, Axis: Axis(ev.Kind), Value: ev.Value, Reason: "unknown component"}
	}
	ev.Component = comp
	cur := s.Get(ev.Component)
	var (
		next Selection
		axis Axis
	)
	switch ev.Kind {
	case ProviderChanged:
		axis = AxisProvider
		if !r.cat.HasProvider(ev.Component, ev.Value) {
			return s, &OptionError{Component: ev.Component, Axis: axis, Value: ev.Value, Reason: "not in catalog"}
		}
		next = r.onProvider(ev.Component, cur, ev.Value)
	case LanguageChanged:
		axis = AxisLanguage
		next, err = r.onLanguage(ev.Component, cur, ev.Value)
	case ModelChanged:
		axis = AxisModel
		next, err = r.onModel(ev.Component, cur, ev.Value)
	default:
		return s, &OptionError{Component: ev.Component, Axis: Axis(ev.Kind), Value: ev.Value, Reason: "unknown edit kind"}
	}
	if err != nil {
		return s, err
	}
	out := s
	out.set(ev.Component, next)
	out.LastTouched = Touch{Component: ev.Component, Axis: axis}
	return out, nil
}

func (r *Resolver) onProvider(comp catalog.Component, sel Selection, provider string) Selection {
	sel.Provider = provider
	if comp.HasLanguageAxis() {
		langs := r.cat.LanguagesFor(comp, provider)
		if len(langs) > 0 && !slices.Contains(langs, sel.Language) {
			sel.Language = langs[0]
		}
	}
	sel.Model = r.pickModel(comp, sel)
	return sel
}

func (r *Resolver) onLanguage(comp catalog.Component, sel Selection, language string) (Selection, error) {
	if !comp.HasLanguageAxis() {
		return sel, &OptionError{Component: comp, Axis: AxisLanguage, Value: language, Reason: "component has no language"}
	}
	if !r.cat.DeclaresLanguage(language) && !r.cat.KnowsLanguage(comp, language) {
		return sel, &OptionError{Component: comp, Axis: AxisLanguage, Value: language, Reason: "not in catalog"}
	}
	sel.Language = language
	if sel.Provider == "" || !r.cat.HasProvider(comp, sel.Provider) || !slices.Contains(r.cat.LanguagesFor(comp, sel.Provider), language) {
		providers := r.cat.ProvidersForLanguage(comp, language)
		if len(providers) == 0 {
			return sel, &CatalogIntegrityError{Component: comp, Language: language, Detail: "no provider supports it"}
		}
		sel.Provider = providers[0]
	}
	sel.Model = r.pickModel(comp, sel)
	return sel, nil
}

func (r *Resolver) onModel(comp catalog.Component, sel Selection, model string) (Selection, error) {
	if !r.cat.HasModel(comp, sel.Provider, model) {
		return sel, &OptionError{Component: comp, Axis: AxisModel, Value: model, Reason: "not offered by provider " + sel.Provider}
	}
	sel.Model = model
	if comp.HasLanguageAxis() {
		// Trust the catalog: the decoded language is not re-checked against the
		// provider's language list.
		if lang, ok := r.cat.ModelLanguage(comp, model); ok {
			sel.Language = lang
		}
	}
	return sel, nil
}

func (r *Resolver) pickModel(comp catalog.Component, sel Selection) string {
	all := r.cat.ModelsFor(comp, sel.Provider)
	if len(all) == 0 {
		return sel.Model
	}
	candidates := all
	if comp.HasLanguageAxis() {
		candidates = r.cat.ModelsForLanguageAndProvider(comp, sel.Language, sel.Provider)
	}
	if slices.Contains(candidates, sel.Model) {
		return sel.Model
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return all[0]
}

// Verify checks that s satisfies the selection invariants for every component.
// A language decoded from the chosen voice is accepted even when the provider's
// language list spells it differently.
func (r *Resolver) Verify(s State) error {
	for _, comp := range catalog.Components() {
		sel := s.Get(comp)
		if !r.cat.HasProvider(comp, sel.Provider) {
			return &OptionError{Component: comp, Axis: AxisProvider, Value: sel.Provider, Reason: "not in catalog"}
		}
		if !r.cat.HasModel(comp, sel.Provider, sel.Model) {
			return &OptionError{Component: comp, Axis: AxisModel, Value: sel.Model, Reason: "not offered by provider " + sel.Provider}
		}
		if !comp.HasLanguageAxis() {
			continue
		}
		if slices.Contains(r.cat.LanguagesFor(comp, sel.Provider), sel.Language) {
			continue
		}
		if lang, ok := r.cat.ModelLanguage(comp, sel.Model); ok && lang == sel.Language {
			continue
		}
		return &OptionError{Component: comp, Axis: AxisLanguage, Value: sel.Language, Reason: "not supported by provider " + sel.Provider}
	}
	return nil
}
