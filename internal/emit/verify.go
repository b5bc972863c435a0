package emit

import (
	"fmt"
	"sort"
	"strings"

	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/zclconf/go-cty/cty"

	"github.com/cloudist-io/cloudist/internal/ir"
)

// Issue severities.
const (
	SeverityError   = "error"
	SeverityWarning = "warning"
)

// Issue is one finding from verifying the rendered documents.
type Issue struct {
	Severity string
	Document string
	Summary  string
}

// Result is the consistency report over a rendered document set.
type Result struct {
	Issues []Issue

	// Literal vs reference attribute counts across all parsed documents,
	// classified by evaluating each expression with an empty scope.
	Literals   int
	References int
}

// Errors reports how many issues are error severity.
func (r Result) Errors() int {
	n := 0
	for _, i := range r.Issues {
		if i.Severity == SeverityError {
			n++
		}
	}
	return n
}

// Verify parses every rendered document and cross-checks it against the
// synthesis output: HCL syntax diagnostics, depends_on entries that resolve
// to nothing, duplicate declaration addresses, and dependency cycles. It is
// a pure function; all findings are report entries.
func Verify(out *ir.SynthesisOutput, docs map[string]string) Result {
	var res Result

	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)

	parser := hclparse.NewParser()
	seen := make(map[string]string) // address → document
	for _, name := range names {
		content := docs[name]
		if content == "" {
			continue
		}
		file, diags := parser.ParseHCL([]byte(content), name)
		for _, d := range diags {
			res.Issues = append(res.Issues, Issue{
				Severity: SeverityError,
				Document: name,
				Summary:  d.Error(),
			})
		}
		if file == nil {
			continue
		}
		body, ok := file.Body.(*hclsyntax.Body)
		if !ok {
			continue
		}
		for _, block := range body.Blocks {
			if addr := blockAddress(block); addr != "" {
				if prev, dup := seen[addr]; dup {
					res.Issues = append(res.Issues, Issue{
						Severity: SeverityError,
						Document: name,
						Summary:  fmt.Sprintf("duplicate declaration %s (also in %s)", addr, prev),
					})
				} else {
					seen[addr] = name
				}
			}
		}
		classifyExpressions(body, &res)
	}

	addrs := make(map[string]bool, len(out.Declarations))
	for _, d := range out.Declarations {
		addrs[d.Address()] = true
	}
	for _, d := range out.Declarations {
		for _, dep := range d.DependsOn {
			if !addrs[dep] {
				res.Issues = append(res.Issues, Issue{
					Severity: SeverityError,
					Document: "main.tf",
					Summary:  fmt.Sprintf("%s depends on %s, which is not declared", d.Address(), dep),
				})
			}
		}
	}

	if cycle := findCycle(out.Declarations); cycle != "" {
		res.Issues = append(res.Issues, Issue{
			Severity: SeverityError,
			Document: "main.tf",
			Summary:  "dependency cycle detected: " + cycle,
		})
	}

	return res
}

func blockAddress(block *hclsyntax.Block) string {
	if len(block.Labels) != 2 {
		return ""
	}
	switch block.Type {
	case "resource":
		return block.Labels[0] + "." + block.Labels[1]
	case "data":
		return "data." + block.Labels[0] + "." + block.Labels[1]
	}
	return ""
}

// classifyExpressions counts literal vs reference attributes. Evaluating
// with an empty scope succeeds only for constant expressions; anything that
// needs a variable is a reference.
func classifyExpressions(body *hclsyntax.Body, res *Result) {
	for _, attr := range body.Attributes {
		val, diags := attr.Expr.Value(nil)
		if diags.HasErrors() || val.RawEquals(cty.DynamicVal) || !val.IsWhollyKnown() {
			res.References++
		} else {
			res.Literals++
		}
	}
	for _, block := range body.Blocks {
		classifyExpressions(block.Body, res)
	}
}

// findCycle runs Kahn's algorithm over the depends_on graph and returns the
// addresses left unsorted when a cycle exists.
func findCycle(decls []*ir.Declaration) string {
	nodes := make(map[string][]string, len(decls))
	for _, d := range decls {
		nodes[d.Address()] = nil
	}
	inDegree := make(map[string]int, len(decls))
	for _, d := range decls {
		for _, dep := range d.DependsOn {
			if _, ok := nodes[dep]; !ok {
				continue // unresolved deps are reported separately
			}
			nodes[dep] = append(nodes[dep], d.Address())
			inDegree[d.Address()]++
		}
	}

	var queue []string
	for addr := range nodes {
		if inDegree[addr] == 0 {
			queue = append(queue, addr)
		}
	}
	sorted := 0
	for len(queue) > 0 {
		addr := queue[0]
		queue = queue[1:]
		sorted++
		for _, dependent := range nodes[addr] {
			inDegree[dependent]--
			if inDegree[dependent] == 0 {
				queue = append(queue, dependent)
			}
		}
	}
	if sorted == len(nodes) {
		return ""
	}
	var remaining []string
	for addr, deg := range inDegree {
		if deg > 0 {
			remaining = append(remaining, addr)
		}
	}
	sort.Strings(remaining)
	return strings.Join(remaining, ", ")
}
