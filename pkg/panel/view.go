package panel

import (
	"github.com/harunnryd/callpanel/pkg/callrequest"
	"github.com/harunnryd/callpanel/pkg/catalog"
	"github.com/harunnryd/callpanel/pkg/cost"
	"github.com/harunnryd/callpanel/pkg/resolver"
)

// Language is a code with its display name.
type Language struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// Options are the choices offered next to one component's current selection.
type Options struct {
	Providers []string   `json:"providers"`
	Languages []Language `json:"languages,omitempty"`
	Models    []string   `json:"models"`
}

// View is everything the panel renders for a session.
type View struct {
	State    resolver.State                `json:"state"`
	Form     callrequest.Form              `json:"form"`
	Options  map[catalog.Component]Options `json:"options"`
	Cost     cost.Estimate                 `json:"cost"`
	CostText string                        `json:"cost_text"`
}

func (s *Service) view(state resolver.State, form callrequest.Form) View {
	cat := s.resolver.Catalog()
	v := View{
		State:   state,
		Form:    form,
		Options: make(map[catalog.Component]Options, 3),
	}
	for _, comp := range catalog.Components() {
		sel := state.Get(comp)
		opts := Options{Providers: cat.ProvidersFor(comp)}
		if !cat.HasProvider(comp, sel.Provider) {
			v.Options[comp] = opts
			continue
		}
		opts.Models = cat.ModelsFor(comp, sel.Provider)
		if comp.HasLanguageAxis() {
			for _, code := range cat.Languages(comp) {
				opts.Languages = append(opts.Languages, Language{Code: code, Name: cat.LanguageName(code)})
			}
			if filtered := cat.ModelsForLanguageAndProvider(comp, sel.Language, sel.Provider); len(filtered) > 0 {
				opts.Models = filtered
			}
		}
		v.Options[comp] = opts
	}
	v.Cost = s.estimator.Estimate(state)
	v.CostText = v.Cost.String()
	return v
}
