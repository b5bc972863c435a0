// Package emit serializes a SynthesisOutput into provider-correct block
// text and verifies the result. Quoting follows the reference rules: typed
// references and recognized reference prefixes are emitted raw, everything
// else is quote-escaped, and multi-line strings become heredocs.
package emit

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/cloudist-io/cloudist/internal/ir"
)

const indentStep = "  "

// Render serializes the full output: declarations, then variables, then
// outputs, in graph order within each group.
func Render(out *ir.SynthesisOutput) string {
	var b strings.Builder
	writeDeclarations(&b, out)
	writeVariables(&b, out)
	writeOutputs(&b, out)
	return b.String()
}

// RenderDocuments splits the output into the per-file map consumed by the
// review collaborator and the export surface.
func RenderDocuments(out *ir.SynthesisOutput) map[string]string {
	var decls, vars, outs strings.Builder
	writeDeclarations(&decls, out)
	writeVariables(&vars, out)
	writeOutputs(&outs, out)
	return map[string]string{
		"main.tf":      decls.String(),
		"variables.tf": vars.String(),
		"outputs.tf":   outs.String(),
		"provider.tf":  Preamble(out.Provider, NeedsArchive(out)),
	}
}

func writeDeclarations(b *strings.Builder, out *ir.SynthesisOutput) {
	for i, d := range out.Declarations {
		if i > 0 {
			b.WriteString("\n")
		}
		writeDeclaration(b, d)
	}
}

func writeDeclaration(b *strings.Builder, d *ir.Declaration) {
	block := d.Block
	if block == "" {
		block = ir.BlockResource
	}
	fmt.Fprintf(b, "%s %q %q {\n", block, d.Type, d.Name)
	for _, f := range d.Fields {
		writeField(b, f.Key, f.Value, 1, false)
	}
	if len(d.DependsOn) > 0 {
		fmt.Fprintf(b, "\n%sdepends_on = [%s]\n", indentStep, strings.Join(d.DependsOn, ", "))
	}
	b.WriteString("}\n")
}

func writeVariables(b *strings.Builder, out *ir.SynthesisOutput) {
	for _, v := range out.Variables {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "variable %q {\n", v.Name)
		if v.Description != "" {
			fmt.Fprintf(b, "%sdescription = %s\n", indentStep, ir.QuoteString(v.Description))
		}
		if v.Type != "" {
			fmt.Fprintf(b, "%stype = %s\n", indentStep, v.Type)
		}
		if v.Default != nil {
			writeField(b, "default", v.Default, 1, false)
		}
		b.WriteString("}\n")
	}
}

func writeOutputs(b *strings.Builder, out *ir.SynthesisOutput) {
	for _, o := range out.Outputs {
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(b, "output %q {\n", o.Name)
		if o.Description != "" {
			fmt.Fprintf(b, "%sdescription = %s\n", indentStep, ir.QuoteString(o.Description))
		}
		writeField(b, "value", o.Value, 1, false)
		b.WriteString("}\n")
	}
}

// writeField renders one key/value pair at the given indent level. inTags
// keeps nested tag maps in the argument form.
func writeField(b *strings.Builder, key string, value any, indent int, inTags bool) {
	pad := strings.Repeat(indentStep, indent)
	switch v := value.(type) {
	case ir.Fields:
		writeMap(b, key, v, indent, inTags)
	case map[string]any:
		writeMap(b, key, sortedFields(v), indent, inTags)
	case []any:
		writeList(b, key, v, indent)
	case string:
		if strings.Contains(v, "\n") && !ir.IsReference(v) {
			writeHeredoc(b, key, v, indent)
			return
		}
		fmt.Fprintf(b, "%s%s = %s\n", pad, key, formatScalar(v))
	default:
		fmt.Fprintf(b, "%s%s = %s\n", pad, key, formatScalar(v))
	}
}

func writeMap(b *strings.Builder, key string, fields ir.Fields, indent int, inTags bool) {
	pad := strings.Repeat(indentStep, indent)
	if key == "tags" || inTags {
		fmt.Fprintf(b, "%s%s = {\n", pad, key)
		for _, f := range fields {
			writeField(b, f.Key, f.Value, indent+1, true)
		}
		fmt.Fprintf(b, "%s}\n", pad)
		return
	}
	// Structural keys (versioning, lifecycle, provisioner,
	// point_in_time_recovery) and every other non-tag map use the labeled
	// block form.
	fmt.Fprintf(b, "%s%s {\n", pad, key)
	for _, f := range fields {
		writeField(b, f.Key, f.Value, indent+1, false)
	}
	fmt.Fprintf(b, "%s}\n", pad)
}

func writeList(b *strings.Builder, key string, list []any, indent int) {
	pad := strings.Repeat(indentStep, indent)
	// A list of maps is a repeated block, one per element.
	if allMaps(list) {
		for _, el := range list {
			switch m := el.(type) {
			case ir.Fields:
				writeMap(b, key, m, indent, false)
			case map[string]any:
				writeMap(b, key, sortedFields(m), indent, false)
			}
		}
		return
	}
	parts := make([]string, len(list))
	for i, el := range list {
		parts[i] = formatScalar(el)
	}
	fmt.Fprintf(b, "%s%s = [%s]\n", pad, key, strings.Join(parts, ", "))
}

func allMaps(list []any) bool {
	if len(list) == 0 {
		return false
	}
	for _, el := range list {
		switch el.(type) {
		case ir.Fields, map[string]any:
		default:
			return false
		}
	}
	return true
}

func writeHeredoc(b *strings.Builder, key string, value string, indent int) {
	pad := strings.Repeat(indentStep, indent)
	fmt.Fprintf(b, "%s%s = <<-EOT\n", pad, key)
	for _, line := range strings.Split(strings.TrimRight(value, "\n"), "\n") {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(b, "%s%s\n", pad+indentStep, line)
	}
	fmt.Fprintf(b, "%sEOT\n", pad)
}

// formatScalar renders a single-line value. Strings satisfying the
// reference predicate, typed References, and Expressions are emitted
// unquoted; everything else is a quoted literal.
func formatScalar(v any) string {
	switch val := v.(type) {
	case ir.Reference:
		return val.String()
	case ir.Expression:
		return string(val)
	case string:
		if ir.IsReference(val) {
			return val
		}
		return ir.QuoteString(val)
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	case nil:
		return "null"
	default:
		return ir.QuoteString(fmt.Sprintf("%v", val))
	}
}

// sortedFields converts a raw map into a deterministic ordered field list.
func sortedFields(m map[string]any) ir.Fields {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	var f ir.Fields
	for _, k := range keys {
		f.Set(k, m[k])
	}
	return f
}
