package compiler

import (
	"csvpp/internal/ast"
	"csvpp/internal/module"
	"csvpp/internal/parser"
)

// mergeScope builds the effective scope a module's formulas resolve names against:
// imported bindings merge first (later `use` wins among imports), the
// module's own code-section bindings shadow those, and finally any `var=`-bound spreadsheet
// positions fill in names the code section didn't already claim. overrides (the CLI's
// `-k key=value` pairs) shadow everything.
func mergeScope(mod *module.Module, loader *module.Loader, overrides map[string]ast.Node) *module.Scope {
	merged := parser.NewScope()

	for _, dep := range mod.Scope.Uses {
		depPath := module.ResolvePath(mod.Path, dep)
		depMod, ok := loader.Get(depPath)
		if !ok {
			continue
		}
		for name, body := range depMod.Scope.Variables {
			merged.Variables[name] = body
		}
		for name, fn := range depMod.Scope.Functions {
			merged.Functions[name] = fn
		}
	}

	// Sheet-level `var=` bindings are part of the current module, so they shadow imports the
	// same way the module's own code-section variables do; an explicit `:=` binding of the
	// same name still wins over a structural cell binding, applied next.
	for name, v := range mod.Spreadsheet.Variables() {
		merged.Variables[name] = v
	}

	for name, body := range mod.Scope.Variables {
		merged.Variables[name] = body
	}
	for name, fn := range mod.Scope.Functions {
		merged.Functions[name] = fn
	}

	for name, body := range overrides {
		merged.Variables[name] = body
	}

	merged.Uses = mod.Scope.Uses
	return merged
}
