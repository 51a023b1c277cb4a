package resolver

import (
	"fmt"

	"github.com/harunnryd/callpanel/pkg/catalog"
)

// OptionError reports an edit naming a provider, language or model the catalog
// does not offer in the current context. It is a user input error.
type OptionError struct {
	Component catalog.Component
	Axis      Axis
	Value     string
	Reason    string
}

func (e *OptionError) Error() string {
	msg := fmt.Sprintf("invalid %s %s %q", e.Component, e.Axis, e.Value)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

// CatalogIntegrityError reports a state the catalog should make impossible,
// such as a listed language no provider supports.
type CatalogIntegrityError struct {
	Component catalog.Component
	Language  string
	Detail    string
}

func (e *CatalogIntegrityError) Error() string {
	return fmt.Sprintf("catalog integrity: %s language %q: %s", e.Component, e.Language, e.Detail)
}
