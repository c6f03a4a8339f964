/*
Copyright 2026 Benny Powers. All rights reserved.
Use of this source code is governed by the GPLv3
license that can be found in the LICENSE file.
*/

// Package validator reports data-quality problems in a Figma variable export
// that do not stop the pipeline but usually indicate a mistake in the source file.
package validator

import (
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/mazznoer/csscolorparser"

	"bennypowers.dev/tokenpipe/combine"
	"bennypowers.dev/tokenpipe/graph"
	"bennypowers.dev/tokenpipe/resolver"
)

// MagnitudeRatio is the spread across content brands above which numeric
// values are reported as suspicious.
const MagnitudeRatio = 4.0

// ValidationError represents one data-quality finding.
type ValidationError struct {
	// VariableID identifies the offending variable, if any.
	VariableID string
	// Path is the variable path.
	Path string
	// Mode is the mode display name or ID the finding concerns.
	Mode string
	// Message describes what's wrong.
	Message string
	// Suggestion provides an actionable fix.
	Suggestion string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var sb strings.Builder
	if e.Path != "" {
		sb.WriteString(e.Path)
		if e.Mode != "" {
			sb.WriteString(":")
			sb.WriteString(e.Mode)
		}
		sb.WriteString(": ")
	}
	sb.WriteString(e.Message)
	if e.Suggestion != "" {
		sb.WriteString(" (")
		sb.WriteString(e.Suggestion)
		sb.WriteString(")")
	}
	return sb.String()
}

// ValidateGraph checks structural consistency of the loaded graph:
//   - every value is keyed by a mode of the owning collection
//   - literals parse as the declared type
//   - aliases point at variables of the same type
//   - the alias graph is acyclic (reported once, with one example cycle)
func ValidateGraph(g *graph.Graph) []ValidationError {
	var errs []ValidationError
	for _, v := range g.Variables() {
		c := g.CollectionOf(v)
		if c == nil {
			continue
		}
		modeIDs := make([]string, 0, len(v.Values))
		for id := range v.Values {
			modeIDs = append(modeIDs, id)
		}
		slices.Sort(modeIDs)

		for _, modeID := range modeIDs {
			val := v.Values[modeID]
			mode := modeID
			m, known := c.Mode(modeID)
			if known {
				mode = m.Name
			} else {
				errs = append(errs, ValidationError{
					VariableID: v.ID,
					Path:       v.Path,
					Mode:       modeID,
					Message:    fmt.Sprintf("value keyed by mode %q, which collection %q does not declare", modeID, c.Name),
					Suggestion: "remove the stale value or re-export the collection",
				})
			}
			if val.IsAlias() {
				target := g.Variable(val.AliasID)
				if target != nil && target.Type != v.Type {
					errs = append(errs, ValidationError{
						VariableID: v.ID,
						Path:       v.Path,
						Mode:       mode,
						Message:    fmt.Sprintf("%s variable aliases %s variable %s", v.Type, target.Type, target.Path),
						Suggestion: "alias a variable of the same type",
					})
				}
				continue
			}
			if msg := checkLiteral(v.Type, val.Literal); msg != "" {
				errs = append(errs, ValidationError{
					VariableID: v.ID,
					Path:       v.Path,
					Mode:       mode,
					Message:    msg,
				})
			}
		}
	}

	if cycle := resolver.BuildDependencyGraph(g).FindCycle(); cycle != nil {
		names := make([]string, len(cycle))
		for i, id := range cycle {
			names[i] = id
			if v := g.Variable(id); v != nil {
				names[i] = v.Path
			}
		}
		errs = append(errs, ValidationError{
			Message:    "alias cycle: " + strings.Join(names, " -> "),
			Suggestion: "cycles that only span different modes resolve fine; otherwise break the loop",
		})
	}
	return errs
}

func checkLiteral(t graph.Type, lit string) string {
	switch t {
	case graph.TypeColor:
		if _, err := csscolorparser.Parse(lit); err != nil {
			return fmt.Sprintf("unparsable color %q", lit)
		}
	case graph.TypeFloat:
		if _, err := strconv.ParseFloat(lit, 64); err != nil {
			return fmt.Sprintf("FLOAT variable has non-numeric value %q", lit)
		}
	case graph.TypeBoolean:
		if lit != "true" && lit != "false" {
			return fmt.Sprintf("BOOLEAN variable has value %q", lit)
		}
	}
	return ""
}

// CheckMagnitudes flags numeric variables whose resolved values differ by
// more than MagnitudeRatio across content brands under otherwise identical
// modes. Such spreads usually mean one brand was exported in another unit.
func CheckMagnitudes(res *combine.Result) []ValidationError {
	brands := res.Axes.Modes(graph.AxisContentBrand)
	if len(brands) < 2 {
		return nil
	}
	var errs []ValidationError
	for _, lv := range res.Set.All() {
		if lv.Type != graph.TypeFloat || !lv.Affinity.Has(graph.AxisContentBrand) {
			continue
		}
		worst, lowName, highName, scope := 0.0, "", "", combine.Combination{}
		for _, c := range res.Axes.Enumerate(lv.Affinity.Without(graph.AxisContentBrand)) {
			low, high := math.Inf(1), 0.0
			var lowBrand, highBrand string
			for _, b := range brands {
				tok, _ := res.Token(lv.ID, c.With(graph.AxisContentBrand, b.ID))
				if !tok.OK() {
					continue
				}
				f, err := strconv.ParseFloat(tok.Text, 64)
				if err != nil || f <= 0 {
					continue
				}
				if f < low {
					low, lowBrand = f, b.Name
				}
				if f > high {
					high, highBrand = f, b.Name
				}
			}
			if high == 0 || math.IsInf(low, 1) {
				continue
			}
			if r := high / low; r > worst {
				worst, lowName, highName, scope = r, lowBrand, highBrand, c
			}
		}
		if worst > MagnitudeRatio {
			errs = append(errs, ValidationError{
				VariableID: lv.ID,
				Path:       lv.Path,
				Mode:       res.Axes.Label(scope),
				Message:    fmt.Sprintf("%s is %.1fx larger than %s", highName, worst, lowName),
				Suggestion: "check the unit base of the brand's values in the source file",
			})
		}
	}
	return errs
}
