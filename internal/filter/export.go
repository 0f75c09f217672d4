// Copyright 2024 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package filter

import "fmt"

// Export returns f as a tree of maps, slices and scalars
// that encoding/json and gopkg.in/yaml.v3 can encode.
// Each node is a map whose first-level key names the node type.
func Export(f Filter) map[string]any {
	switch f := f.(type) {
	case *Lit:
		return map[string]any{"lit": Value(f.Atom)}
	case *Array:
		return map[string]any{"array": Export(f.Elems)}
	case *Object:
		entries := []any{}
		for _, e := range f.Entries {
			entries = append(entries, map[string]any{
				"key":   Export(e.Key),
				"value": Export(e.Value),
			})
		}
		return map[string]any{"object": entries}
	case *Logic:
		return map[string]any{"logic": f.Op.String(), "left": Export(f.L), "right": Export(f.R)}
	case *Math:
		return map[string]any{"math": f.Op.String(), "left": Export(f.L), "right": Export(f.R)}
	case *Func:
		m := map[string]any{"func": f.Name.String()}
		if f.Arg != nil {
			m["arg"] = Export(f.Arg)
		}
		return m
	case *Pipe:
		return map[string]any{"pipe": []any{Export(f.L), Export(f.R)}}
	case *Comma:
		return map[string]any{"comma": []any{Export(f.L), Export(f.R)}}
	case *Empty:
		return map[string]any{"empty": true}
	case *IfThenElse:
		return map[string]any{"if": Export(f.Cond), "then": Export(f.Then), "else": Export(f.Else)}
	case *Assign:
		return map[string]any{"assign": exportPath(f.Path), "value": Export(f.Value)}
	case *Update:
		return map[string]any{"update": exportPath(f.Path), "with": Export(f.F)}
	case *First:
		return map[string]any{"first": Export(f.F)}
	case *Last:
		return map[string]any{"last": Export(f.F)}
	case *Recurse:
		return map[string]any{"recurse": Export(f.F)}
	case *Fold:
		return map[string]any{"fold": map[string]any{
			"init":    Export(f.Init),
			"update":  Export(f.Update),
			"extract": Export(f.Extract),
		}}
	case *Limit:
		return map[string]any{"limit": Export(f.N), "filter": Export(f.F)}
	case *PathExpr:
		return map[string]any{"path": exportPath(f.Path)}
	}
	panic(fmt.Sprintf("unknown filter %T", f))
}

func exportPath(p Path) []any {
	elems := []any{}
	for _, e := range p {
		var m map[string]any
		switch e := e.(type) {
		case *Index:
			m = map[string]any{"index": Export(e.F)}
			if e.Opt {
				m["optional"] = true
			}
		case *Range:
			r := map[string]any{}
			if e.From != nil {
				r["from"] = Export(e.From)
			}
			if e.Until != nil {
				r["until"] = Export(e.Until)
			}
			m = map[string]any{"range": r}
			if e.Opt {
				m["optional"] = true
			}
		default:
			panic(fmt.Sprintf("unknown path element %T", e))
		}
		elems = append(elems, m)
	}
	return elems
}
