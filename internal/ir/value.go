package ir

import "strings"

// Reference points at another declaration's attribute, e.g.
// aws_s3_bucket.assets.arn. References are always emitted unquoted.
type Reference struct {
	Target    string // declaration address, type.name
	Attribute string
}

// Ref is shorthand for constructing a Reference.
func Ref(target, attribute string) Reference {
	return Reference{Target: target, Attribute: attribute}
}

func (r Reference) String() string {
	if r.Attribute == "" {
		return r.Target
	}
	return r.Target + "." + r.Attribute
}

// Expression is a raw code fragment emitted verbatim, e.g. a jsonencode(...)
// call or a var.* lookup built at synthesis time.
type Expression string

// referencePrefixes drive classification of plain strings that did not come
// through the typed Reference/Expression constructors (raw config
// passthrough). A string carrying one of these prefixes is emitted unquoted.
var referencePrefixes = []string{"var.", "aws_", "google_", "azurerm_"}

// IsReference reports whether a plain string value should be treated as a
// reference expression rather than a quoted literal.
func IsReference(s string) bool {
	for _, p := range referencePrefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// QuoteString renders s as a quoted literal, escaping backslashes and
// embedded quotes. Interpolation sequences are left intact.
func QuoteString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}
