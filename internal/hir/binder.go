package hir

import (
	"strconv"
	"strings"

	"github.com/aurum-edmund/boltc/internal/ast"
	"github.com/aurum-edmund/boltc/internal/diagnostic"
)

// functionAttributes is the closed set of attribute names legal on a
// function declaration (§4.D.2). kernel_* is accepted via prefix, handled
// separately.
var functionAttributes = map[string]bool{
	"interruptHandler": true, "bareFunction": true, "inSection": true,
	"aligned": true, "pageAligned": true, "systemRequest": true, "intrinsic": true,
}

var blueprintAttributes = map[string]bool{"packed": true, "aligned": true}

var fieldAttributes = map[string]bool{"bits": true, "aligned": true}

// Bind lifts a parsed compilation unit into HIR, validating attributes and
// qualifiers and checking symbol uniqueness along the way.
func Bind(mod *ast.Module) (*Module, []diagnostic.Diagnostic) {
	b := &binder{diags: diagnostic.NewBag()}

	return b.bind(mod), b.diags.Diagnostics()
}

type binder struct {
	diags *diagnostic.Bag
}

func (b *binder) bind(mod *ast.Module) *Module {
	out := &Module{
		PackageName: mod.PackageName.Text,
		ModuleName:  mod.ModuleName.Text,
		Span:        mod.Span,
	}

	seenImports := map[string]bool{}

	for _, imp := range mod.Imports {
		if len(imp.Attributes) > 0 {
			b.diags.Errorf("BOLT-E2108", imp.Span, "attributes are not allowed on import declarations")
		}

		if len(imp.Modifiers) > 0 {
			b.diags.Errorf("BOLT-E2109", imp.Span, "modifiers are not allowed on import declarations")
		}

		if seenImports[imp.Path.Text] {
			b.diags.Errorf("BOLT-E2218", imp.Span, "duplicate import %q", imp.Path.Text)

			continue
		}

		seenImports[imp.Path.Text] = true
		out.Imports = append(out.Imports, Import{ModulePath: imp.Path.Text, Span: imp.Span})
	}

	blueprintNames := map[string]bool{}
	for _, bp := range mod.Blueprints {
		blueprintNames[bp.Name] = true
	}

	seenBlueprints := map[string]bool{}

	for _, bp := range mod.Blueprints {
		if seenBlueprints[bp.Name] {
			b.diags.Errorf("BOLT-E2211", bp.Span, "duplicate blueprint name %q", bp.Name)
		}

		seenBlueprints[bp.Name] = true
		out.Blueprints = append(out.Blueprints, b.convertBlueprint(bp))
	}

	seenFunctions := map[string]bool{}

	for _, fn := range mod.Functions {
		if seenFunctions[fn.Name] {
			b.diags.Errorf("BOLT-E2210", fn.Span, "duplicate function name %q", fn.Name)
		}

		seenFunctions[fn.Name] = true
		out.Functions = append(out.Functions, b.convertFunction(fn, blueprintNames))
	}

	return out
}

// validateAttributes checks duplicate (E2200) and allowed-set (E2201)
// membership for a construct's attribute list, returning only those that
// are both unique and legal.
func (b *binder) validateAttributes(attrs []ast.Attribute, allowed map[string]bool) []ast.Attribute {
	seen := map[string]bool{}

	var kept []ast.Attribute

	for _, a := range attrs {
		if seen[a.Name] {
			b.diags.Errorf("BOLT-E2200", a.Span, "duplicate attribute %q", a.Name)

			continue
		}

		seen[a.Name] = true

		if allowed[a.Name] || strings.HasPrefix(a.Name, "kernel_") {
			kept = append(kept, a)

			continue
		}

		b.diags.Errorf("BOLT-E2201", a.Span, "unknown or misplaced attribute %q", a.Name)
	}

	return kept
}

func findArg(a ast.Attribute, name string) (string, bool) {
	for _, arg := range a.Arguments {
		if arg.Name == name {
			return arg.Value, true
		}
	}

	for _, arg := range a.Arguments {
		if arg.Name == "" {
			return arg.Value, true
		}
	}

	return "", false
}

func (b *binder) convertFunction(fn ast.Function, blueprintNames map[string]bool) Function {
	out := Function{Name: fn.Name, Modifiers: fn.Modifiers, Span: fn.Span}

	attrs := b.validateAttributes(fn.Attributes, functionAttributes)
	out.Attributes = attrs

	hasInterrupt, hasBare := false, false

	for _, a := range attrs {
		switch {
		case a.Name == "interruptHandler":
			hasInterrupt = true
		case a.Name == "bareFunction":
			hasBare = true
		case a.Name == "inSection":
			if v, ok := findArg(a, "name"); ok && v != "" {
				val := v
				out.SectionName = &val
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "inSection requires a 'name' argument")
			}
		case a.Name == "aligned":
			if v, ok := findArg(a, "bytes"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					out.AlignmentBytes = &n
				} else {
					b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a positive integer 'bytes' argument")
				}
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a 'bytes' argument")
			}
		case a.Name == "pageAligned":
			out.IsPageAligned = true
		case a.Name == "systemRequest":
			if v, ok := findArg(a, "identifier"); ok {
				if n, err := strconv.Atoi(v); err == nil {
					out.SystemRequestID = &n
				} else {
					b.diags.Errorf("BOLT-E2214", a.Span, "systemRequest requires an integer 'identifier' argument")
				}
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "systemRequest requires an 'identifier' argument")
			}
		case a.Name == "intrinsic":
			if v, ok := findArg(a, "name"); ok && v != "" {
				val := v
				out.IntrinsicName = &val
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "intrinsic requires a non-empty 'name' argument")
			}
		case strings.HasPrefix(a.Name, "kernel_"):
			out.KernelMarkers = append(out.KernelMarkers, a.Name)
		}
	}

	if hasInterrupt && hasBare {
		b.diags.Errorf("BOLT-E2215", fn.Span, "'interruptHandler' and 'bareFunction' are mutually exclusive")
	}

	out.IsInterruptHandler = hasInterrupt
	out.IsBareFunction = hasBare

	seenParams := map[string]bool{}

	for _, p := range fn.Parameters {
		if seenParams[p.Name] {
			b.diags.Errorf("BOLT-E2212", p.Span, "duplicate parameter name %q", p.Name)
		}

		seenParams[p.Name] = true

		ref, isLive := parseTypeReference(p.Type.Text, p.Type.Span, b.diags)
		out.Parameters = append(out.Parameters, Parameter{Name: p.Name, Type: ref, Span: p.Span, IsLiveValue: isLive})
	}

	if fn.ReturnType.Valid {
		ref, isLive := parseTypeReference(fn.ReturnType.Text, fn.ReturnType.Span, b.diags)
		out.ReturnType = ref
		out.HasReturnType = true
		out.ReturnIsLiveValue = isLive
	} else if fn.HasLegacyArrow && fn.LegacyReturn != nil && fn.LegacyReturn.Valid {
		ref, isLive := parseTypeReference(fn.LegacyReturn.Text, fn.LegacyReturn.Span, b.diags)
		out.ReturnType = ref
		out.HasReturnType = true
		out.ReturnIsLiveValue = isLive
	}

	if out.ReturnIsLiveValue && !out.HasReturnType {
		b.diags.Errorf("BOLT-E2217", fn.Span, "'Live' return qualifier requires a concrete return type")
		out.ReturnIsLiveValue = false
	}

	b.bindBlueprintLifecycle(&out, fn, blueprintNames)

	return out
}

// bindBlueprintLifecycle implements §4.D.5: a function named after an
// existing blueprint is a constructor; a function named `~<Blueprint>` is
// a destructor.
func (b *binder) bindBlueprintLifecycle(out *Function, fn ast.Function, blueprintNames map[string]bool) {
	if strings.HasPrefix(fn.Name, "~") {
		target := fn.Name[1:]
		if !blueprintNames[target] {
			return
		}

		out.IsBlueprintDestructor = true
		out.BlueprintName = &target

		if len(out.Parameters) > 0 {
			b.diags.Errorf("BOLT-E2230", fn.Span, "destructor %q must take no parameters", fn.Name)
		}

		return
	}

	if !blueprintNames[fn.Name] {
		return
	}

	name := fn.Name
	out.IsBlueprintConstructor = true
	out.BlueprintName = &name

	for i := range out.Parameters {
		p := &out.Parameters[i]
		b.synthesizeDefault(p)
	}
}

// synthesizeDefault fills DefaultValue per the type-category rules of
// §4.D.5, or marks RequiresExplicitValue with BOLT-W2210 for
// reference-typed constructor parameters.
func (b *binder) synthesizeDefault(p *Parameter) {
	if p.Type == nil {
		return
	}

	if p.Type.Kind == Reference {
		p.RequiresExplicitValue = true
		b.diags.Warningf("BOLT-W2210", p.Span, "reference-typed constructor parameter %q requires an explicit value", p.Name)

		return
	}

	category := typeCategory(p.Type)

	var value string

	switch category {
	case "integer":
		value = "0"
	case "float":
		value = "0.0"
	case "pointer":
		value = "null"
	default:
		return
	}

	p.DefaultValue = &value
}

func typeCategory(ref *TypeReference) string {
	if ref.Kind == Pointer {
		return "pointer"
	}

	if ref.Kind != Named {
		return ""
	}

	name := ref.Name.Text()
	if name == "float" || name == "double" {
		return "float"
	}

	if strings.HasPrefix(name, "integer") || name == "byte" {
		return "integer"
	}

	return ""
}

func (b *binder) convertBlueprint(bp ast.Blueprint) Blueprint {
	out := Blueprint{Name: bp.Name, Modifiers: bp.Modifiers, Span: bp.Span}

	attrs := b.validateAttributes(bp.Attributes, blueprintAttributes)
	out.Attributes = attrs

	for _, a := range attrs {
		switch a.Name {
		case "packed":
			out.IsPacked = true
		case "aligned":
			if v, ok := findArg(a, "bytes"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					out.AlignmentBytes = &n
				} else {
					b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a positive integer 'bytes' argument")
				}
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a 'bytes' argument")
			}
		}
	}

	seenFields := map[string]bool{}

	for _, f := range bp.Fields {
		if seenFields[f.Name] {
			b.diags.Errorf("BOLT-E2213", f.Span, "duplicate field name %q", f.Name)
		}

		seenFields[f.Name] = true
		out.Fields = append(out.Fields, b.convertField(f, out.IsPacked))
	}

	return out
}

func (b *binder) convertField(f ast.Field, parentPacked bool) BlueprintField {
	out := BlueprintField{Name: f.Name, Span: f.Span}

	attrs := b.validateAttributes(f.Attributes, fieldAttributes)
	out.Attributes = attrs

	for _, a := range attrs {
		switch a.Name {
		case "bits":
			v, ok := findArg(a, "width")

			var n int

			var err error

			if ok {
				n, err = strconv.Atoi(v)
			}

			if !ok || err != nil || n < 1 || n > 64 {
				b.diags.Errorf("BOLT-E2214", a.Span, "bits requires a 'width' argument in 1..64")

				continue
			}

			if !parentPacked {
				b.diags.Errorf("BOLT-E2216", a.Span, "'bits' is only legal inside a [packed] blueprint")
			}

			width := n
			out.BitWidth = &width
		case "aligned":
			if v, ok := findArg(a, "bytes"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					out.AlignmentBytes = &n
				} else {
					b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a positive integer 'bytes' argument")
				}
			} else {
				b.diags.Errorf("BOLT-E2214", a.Span, "aligned requires a 'bytes' argument")
			}
		}
	}

	ref, isLive := parseTypeReference(f.Type.Text, f.Type.Span, b.diags)
	out.Type = ref
	out.IsLiveValue = isLive

	return out
}
