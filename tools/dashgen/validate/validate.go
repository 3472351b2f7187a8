// Package validate checks generated dashboards and rule files: every PromQL
// expression must parse and reference only known metrics.
package validate

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/prometheus/prometheus/promql/parser"

	"github.com/donaldgifford/gamepass-price-scanner/tools/dashgen/rules"
)

// Result collects validation findings. Errors fail generation; warnings are
// reported.
type Result struct {
	Errors   []string
	Warnings []string
}

// Ok reports whether there were no errors.
func (r *Result) Ok() bool {
	return len(r.Errors) == 0
}

func (r *Result) errorf(format string, args ...any) {
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

func (r *Result) warnf(format string, args ...any) {
	r.Warnings = append(r.Warnings, fmt.Sprintf(format, args...))
}

var histogramSuffixes = []string{"_bucket", "_sum", "_count"}

// Expr parses expr and checks its metric references against known. where
// labels findings.
func Expr(r *Result, where, expr string, known map[string]bool) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		r.errorf("%s: invalid PromQL %q: %v", where, expr, err)
		return
	}

	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		vs, ok := n.(*parser.VectorSelector)
		if !ok {
			return nil
		}
		name := vs.Name
		if name == "" {
			r.warnf("%s: selector %s has no metric name", where, vs.String())
			return nil
		}
		if !knownMetric(name, known) {
			r.errorf("%s: unknown metric %q", where, name)
		}
		return nil
	})
}

func knownMetric(name string, known map[string]bool) bool {
	if known[name] {
		return true
	}
	for _, suffix := range histogramSuffixes {
		if base, ok := strings.CutSuffix(name, suffix); ok && known[base] {
			return true
		}
	}
	return false
}

// Dashboard validates every panel query in a built dashboard. dash may be
// any value that marshals to Grafana dashboard JSON.
func Dashboard(dash any, known map[string]bool) *Result {
	r := &Result{}

	data, err := json.Marshal(dash)
	if err != nil {
		r.errorf("marshaling dashboard: %v", err)
		return r
	}
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		r.errorf("decoding dashboard: %v", err)
		return r
	}

	panels, _ := doc["panels"].([]any)
	for _, p := range panels {
		checkPanel(r, p, known)
	}
	return r
}

func checkPanel(r *Result, p any, known map[string]bool) {
	panel, ok := p.(map[string]any)
	if !ok {
		return
	}
	title, _ := panel["title"].(string)

	if panel["type"] == "row" {
		inner, _ := panel["panels"].([]any)
		if len(inner) == 0 {
			r.warnf("row %q has no panels", title)
		}
		for _, ip := range inner {
			checkPanel(r, ip, known)
		}
		return
	}

	targets, _ := panel["targets"].([]any)
	if len(targets) == 0 {
		r.warnf("panel %q has no queries", title)
		return
	}

	refs := make(map[string]bool, len(targets))
	for _, t := range targets {
		target, ok := t.(map[string]any)
		if !ok {
			continue
		}
		ref, _ := target["refId"].(string)
		if refs[ref] {
			r.errorf("panel %q: duplicate refId %q", title, ref)
		}
		refs[ref] = true

		expr, _ := target["expr"].(string)
		if expr == "" {
			r.errorf("panel %q: query %s has no expression", title, ref)
			continue
		}
		Expr(r, fmt.Sprintf("panel %q query %s", title, ref), expr, known)
	}
}

// Rules validates every rule in a PrometheusRule CR. Alerts must carry a
// severity label and summary/description annotations.
func Rules(cr rules.PrometheusRule, known map[string]bool) *Result {
	r := &Result{}
	seen := make(map[string]bool)

	for _, g := range cr.Spec.Groups {
		for _, rule := range g.Rules {
			name := rule.Record
			if name == "" {
				name = rule.Alert
			}
			switch {
			case name == "":
				r.errorf("group %s: rule has neither record nor alert", g.Name)
				continue
			case rule.Record != "" && rule.Alert != "":
				r.errorf("group %s: rule %s sets both record and alert", g.Name, name)
			}
			if seen[name] {
				r.errorf("group %s: duplicate rule %s", g.Name, name)
			}
			seen[name] = true

			Expr(r, fmt.Sprintf("rule %s", name), rule.Expr, known)

			if rule.Alert != "" {
				for _, key := range []string{"summary", "description"} {
					if rule.Annotations[key] == "" {
						r.warnf("alert %s: missing %s annotation", name, key)
					}
				}
				if rule.Labels["severity"] == "" {
					r.warnf("alert %s: missing severity label", name)
				}
			}
		}
	}
	return r
}

// Metrics returns the sorted metric names referenced by expr.
func Metrics(expr string) ([]string, error) {
	node, err := parser.ParseExpr(expr)
	if err != nil {
		return nil, err
	}
	set := make(map[string]bool)
	parser.Inspect(node, func(n parser.Node, _ []parser.Node) error {
		if vs, ok := n.(*parser.VectorSelector); ok && vs.Name != "" {
			set[vs.Name] = true
		}
		return nil
	})
	out := make([]string, 0, len(set))
	for name := range set {
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}
