package telemetry

import (
	"fmt"
)

// API is what components report through instead of logging directly, tests
// swap in a Recorder to assert on what was reported.
//
// note: fault injection point
type API interface {
	// ReportBroken flags a component that failed and needs attention.
	//
	// `id` names the component, not the failing call: a 500 on the detail page
	// while resolving an identity is reported as `client.identity`, the status
	// goes in a param or in the wrapped error.
	//
	// ids are lowercase, underscores separate words of a component and dashes
	// separate a component from one of its methods.
	ReportBroken(id string, params ...any)

	// ReportWarning flags something odd that did not stop the component.
	// `id` follows the same rules as ReportBroken.
	ReportWarning(id string, params ...any)

	// ReportDebug is dropped unless debug output is enabled.
	ReportDebug(msg string, params ...any)

	// ReportCount records a sample of a quantity at this point in time,
	// samples are not meant to be summed.
	ReportCount(id string, count int64)
}

// ScopedAPI prefixes every id with a namespace before handing it to the
// wrapped API, scopes nest ("crawler: 4fj2k9aq: crawler.production").
type ScopedAPI struct {
	namespace string
	inner     API
}

func NewScopedAPI(namespace string, inner API) ScopedAPI {
	return ScopedAPI{namespace: namespace, inner: inner}
}

func (s ScopedAPI) scoped(id string) string {
	return fmt.Sprintf("%s: %s", s.namespace, id)
}

func (s ScopedAPI) ReportBroken(id string, params ...any) {
	s.inner.ReportBroken(s.scoped(id), params...)
}

func (s ScopedAPI) ReportWarning(id string, params ...any) {
	s.inner.ReportWarning(s.scoped(id), params...)
}

func (s ScopedAPI) ReportDebug(msg string, params ...any) {
	s.inner.ReportDebug(s.scoped(msg), params...)
}

func (s ScopedAPI) ReportCount(id string, count int64) {
	s.inner.ReportCount(s.scoped(id), count)
}
