package mir

import (
	"strconv"
	"strings"

	"github.com/aurum-edmund/boltc/internal/hir"
)

// Lower produces an MIR module from HIR. Lowering is pure: the same HIR
// module always produces byte-identical MIR (invariant I6).
func Lower(mod *hir.Module) *Module {
	out := &Module{
		PackageName:        mod.PackageName,
		ModuleName:         mod.ModuleName,
		CanonicalModulePath: canonicalModulePath(mod.PackageName, mod.ModuleName),
	}

	for _, imp := range mod.Imports {
		out.Imports = append(out.Imports, imp.ModulePath)
	}

	for _, fn := range mod.Functions {
		out.Functions = append(out.Functions, lowerFunction(fn))
	}

	for _, bp := range mod.Blueprints {
		out.Functions = append(out.Functions, lowerBlueprint(bp))
	}

	return out
}

func canonicalModulePath(packageName, moduleName string) string {
	if packageName == "" || packageName == moduleName {
		return moduleName
	}

	return packageName + "::" + moduleName
}

func typeText(ref *hir.TypeReference) string {
	if ref == nil {
		return ""
	}

	if ref.NormalizedText != "" {
		return ref.NormalizedText
	}

	return ref.Text
}

func lowerFunction(fn hir.Function) *Function {
	b := NewBuilder(fn.Name)
	out := b.Function()
	out.HasReturnType = fn.HasReturnType
	out.ReturnIsLive = fn.ReturnIsLiveValue
	out.IsBlueprintConstructor = fn.IsBlueprintConstructor
	out.IsBlueprintDestructor = fn.IsBlueprintDestructor

	if fn.BlueprintName != nil {
		out.BlueprintName = *fn.BlueprintName
	}

	if fn.HasReturnType {
		out.ReturnType = typeText(fn.ReturnType)
	}

	for _, p := range fn.Parameters {
		param := Parameter{Name: p.Name, Type: typeText(p.Type), IsLiveValue: p.IsLiveValue, RequiresExplicitValue: p.RequiresExplicitValue}
		if p.DefaultValue != nil {
			param.HasDefaultValue = true
			param.DefaultValue = *p.DefaultValue
		}

		out.Parameters = append(out.Parameters, param)
	}

	entry := b.AppendBlock("entry")

	if len(fn.Modifiers) > 0 {
		b.AppendInstruction(entry, Unary).Detail = "modifiers: " + strings.Join(fn.Modifiers, ", ")
	}

	if fn.IsInterruptHandler {
		b.AppendInstruction(entry, Unary).Detail = "interruptHandler"
	}

	if fn.IsBareFunction {
		b.AppendInstruction(entry, Unary).Detail = "bareFunction"
	}

	if fn.IsPageAligned {
		b.AppendInstruction(entry, Unary).Detail = "pageAligned"
	}

	if fn.SectionName != nil {
		b.AppendInstruction(entry, Unary).Detail = "inSection: " + *fn.SectionName
	}

	if fn.AlignmentBytes != nil {
		b.AppendInstruction(entry, Unary).Detail = "aligned: " + strconv.Itoa(*fn.AlignmentBytes)
	}

	if fn.SystemRequestID != nil {
		b.AppendInstruction(entry, Unary).Detail = "systemRequest: " + strconv.Itoa(*fn.SystemRequestID)
	}

	if fn.IntrinsicName != nil {
		b.AppendInstruction(entry, Unary).Detail = "intrinsic: " + *fn.IntrinsicName
	}

	for _, marker := range fn.KernelMarkers {
		b.AppendInstruction(entry, Unary).Detail = "kernel: " + marker
	}

	if fn.HasReturnType {
		detail := "return " + out.ReturnType
		if fn.ReturnIsLiveValue {
			detail += " live"
		}

		b.AppendInstruction(entry, Unary).Detail = detail
	}

	for _, p := range fn.Parameters {
		b.AppendInstruction(entry, Unary).Detail = paramDetail(p)
	}

	b.AppendInstruction(entry, Return).Detail = "function"

	return out
}

func paramDetail(p hir.Parameter) string {
	var sb strings.Builder

	sb.WriteString("param ")
	sb.WriteString(typeText(p.Type))
	sb.WriteByte(' ')
	sb.WriteString(p.Name)

	if p.IsLiveValue {
		sb.WriteString(" live")
	}

	if p.DefaultValue != nil {
		sb.WriteString(" default=")
		sb.WriteString(*p.DefaultValue)
	}

	if p.RequiresExplicitValue {
		sb.WriteString(" required")
	}

	return sb.String()
}

func lowerBlueprint(bp hir.Blueprint) *Function {
	b := NewBuilder("blueprint." + bp.Name)
	out := b.Function()
	out.BlueprintName = bp.Name

	entry := b.AppendBlock("entry")

	if len(bp.Modifiers) > 0 {
		b.AppendInstruction(entry, Unary).Detail = "modifiers: " + strings.Join(bp.Modifiers, ", ")
	}

	if bp.IsPacked {
		b.AppendInstruction(entry, Unary).Detail = "packed"
	}

	if bp.AlignmentBytes != nil {
		b.AppendInstruction(entry, Unary).Detail = "aligned: " + strconv.Itoa(*bp.AlignmentBytes)
	}

	for _, f := range bp.Fields {
		b.AppendInstruction(entry, Unary).Detail = fieldDetail(f)
	}

	b.AppendInstruction(entry, Return).Detail = "blueprint"

	return out
}

func fieldDetail(f hir.BlueprintField) string {
	var sb strings.Builder

	sb.WriteString("field ")
	sb.WriteString(typeText(f.Type))
	sb.WriteByte(' ')
	sb.WriteString(f.Name)

	if f.IsLiveValue {
		sb.WriteString(" live")
	}

	if f.BitWidth != nil {
		sb.WriteString(" bits=")
		sb.WriteString(strconv.Itoa(*f.BitWidth))
	}

	if f.AlignmentBytes != nil {
		sb.WriteString(" align=")
		sb.WriteString(strconv.Itoa(*f.AlignmentBytes))
	}

	return sb.String()
}
