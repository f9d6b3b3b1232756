package compiler

import (
	"context"
	"fmt"

	"csvpp/internal/ast"
	"csvpp/internal/config"
	"csvpp/internal/logger"
	"csvpp/internal/module"
	"csvpp/internal/sheet"
)

// Compile runs a full build of sourcePath: it loads the source and its `use` dependency graph,
// merges scopes with overrides at highest precedence, expands fills into the concrete
// spreadsheet a target writer consumes, and evaluates every formula cell against its final
// address.
func Compile(ctx context.Context, sourcePath string, cfg *config.Config, overrides map[string]ast.Node) (*module.Module, error) {
	loader := module.NewLoader(config.CompilerVersion, cfg.Compiler.EncodingHints, cfg.Compiler.UseCache)

	mod, err := loader.Load(ctx, sourcePath)
	if err != nil {
		return nil, err
	}

	mod.Scope = mergeScope(mod, loader, overrides)

	// Variables/fills are read off the template sheet (Expand discards each clone's Fill),
	// but every formula is evaluated against its final, post-expansion address: position-aware
	// builtins like rownum must see the replica's own row, not the template row's.
	fills := mod.Spreadsheet.FillsByID()
	mod.Spreadsheet = sheet.Expand(mod.Spreadsheet)

	for _, row := range mod.Spreadsheet.Rows {
		for _, cell := range row.Cells {
			if cell.AST == nil {
				continue
			}
			resolved, err := evaluateCell(cell.AST, cell.Address, mod.Scope, fills)
			if err != nil {
				logger.LogCompileError(sourcePath, cell.Address, err)
				return nil, fmt.Errorf("%s: %w", cell.Address.String(), err)
			}
			cell.AST = resolved
		}
	}

	return mod, nil
}
