package security

import (
	"fmt"

	"github.com/badwolf-sec/secured/triple"
)

// AccessDenied is the supertype every denial error satisfies, letting
// a caller catch the four specific denials uniformly with
// errors.As(err, &ad), with ad declared as an AccessDenied, or a plain
// type switch on the interface.
type AccessDenied interface {
	error
	// Action is the operation that was denied.
	Action() Action
	// GraphIRI is the graph the operation targeted.
	GraphIRI() string
	// Triple is the offending triple pattern, or nil for a graph-level
	// denial.
	Triple() *triple.Pattern
}

type denial struct {
	kind     string
	action   Action
	graphIRI string
	pat      *triple.Pattern
}

func (d *denial) Error() string {
	if d.pat == nil {
		return fmt.Sprintf("%s: %s denied on graph %q", d.kind, d.action, d.graphIRI)
	}
	return fmt.Sprintf("%s: %s denied on graph %q for triple <%s %s %s>",
		d.kind, d.action, d.graphIRI, d.pat.S, d.pat.P, d.pat.O)
}

func (d *denial) Action() Action            { return d.action }
func (d *denial) GraphIRI() string          { return d.graphIRI }
func (d *denial) Triple() *triple.Pattern   { return d.pat }

// ReadDenied reports that the principal lacks Read on the graph, or on
// a specific triple whose existence would otherwise have been
// revealed by the attempted operation.
type ReadDenied struct{ *denial }

// NewReadDenied builds a ReadDenied for a graph-level check.
func NewReadDenied(graphIRI string) *ReadDenied {
	return &ReadDenied{&denial{kind: "ReadDenied", action: Read, graphIRI: graphIRI}}
}

// NewReadDeniedTriple builds a ReadDenied naming the offending triple.
func NewReadDeniedTriple(graphIRI string, pat triple.Pattern) *ReadDenied {
	return &ReadDenied{&denial{kind: "ReadDenied", action: Read, graphIRI: graphIRI, pat: &pat}}
}

// UpdateDenied reports that the principal lacks Update on the graph.
type UpdateDenied struct{ *denial }

// NewUpdateDenied builds an UpdateDenied.
func NewUpdateDenied(graphIRI string) *UpdateDenied {
	return &UpdateDenied{&denial{kind: "UpdateDenied", action: Update, graphIRI: graphIRI}}
}

// AddDenied reports that the principal lacks Create on a specific
// triple.
type AddDenied struct{ *denial }

// NewAddDenied builds an AddDenied naming the offending triple.
func NewAddDenied(graphIRI string, pat triple.Pattern) *AddDenied {
	return &AddDenied{&denial{kind: "AddDenied", action: Create, graphIRI: graphIRI, pat: &pat}}
}

// DeleteDenied reports that the principal lacks Delete on a specific
// triple.
type DeleteDenied struct{ *denial }

// NewDeleteDenied builds a DeleteDenied naming the offending triple.
func NewDeleteDenied(graphIRI string, pat triple.Pattern) *DeleteDenied {
	return &DeleteDenied{&denial{kind: "DeleteDenied", action: Delete, graphIRI: graphIRI, pat: &pat}}
}

// AuthenticationRequired reports that the evaluator requires an
// authenticated principal and the ambient principal is
// Unauthenticated. It precedes any authorization outcome.
type AuthenticationRequired struct {
	graphIRI string
}

// NewAuthenticationRequired builds an AuthenticationRequired error.
func NewAuthenticationRequired(graphIRI string) *AuthenticationRequired {
	return &AuthenticationRequired{graphIRI: graphIRI}
}

func (e *AuthenticationRequired) Error() string {
	return fmt.Sprintf("AuthenticationRequired: graph %q requires an authenticated principal", e.graphIRI)
}

// PropertyNotFound reports that no statement matched a
// getRequiredProperty lookup. Preserved from the base model's own
// "not found" semantics; callers must never see this where the
// absence itself would leak unreadable data (see ReadDenied).
type PropertyNotFound struct {
	graphIRI string
	subject  string
	property string
}

// NewPropertyNotFound builds a PropertyNotFound error.
func NewPropertyNotFound(graphIRI, subject, property string) *PropertyNotFound {
	return &PropertyNotFound{graphIRI: graphIRI, subject: subject, property: property}
}

func (e *PropertyNotFound) Error() string {
	return fmt.Sprintf("PropertyNotFound: no statement (%s, %s, *) in graph %q", e.subject, e.property, e.graphIRI)
}
