package module

import (
	"crypto/sha256"
	"encoding/gob"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"csvpp/internal/ast"
	"csvpp/internal/cerr"
	"csvpp/internal/source"
)

func init() {
	gob.Register(ast.Boolean(false))
	gob.Register(ast.Float(0))
	gob.Register(ast.Integer(0))
	gob.Register(ast.Text(""))
	gob.Register(ast.DateTime{})
	gob.Register(ast.Reference{})
	gob.Register(&ast.Variable{})
	gob.Register(&ast.Function{})
	gob.Register(&ast.FunctionCall{})
	gob.Register(&ast.InfixCall{})
	gob.Register(&ast.PrefixCall{})
	gob.Register(&ast.PostfixCall{})
	gob.Register(ast.VariableValue{})
}

// cacheEntry is the on-disk shape of a ".csvpo" object file: the module plus the two facts
// that decide whether it's still trustworthy against its source.
type cacheEntry struct {
	CompilerVersion string
	SourceHash      [32]byte
	SourceModTime   int64
	Module          *Module
}

// Load returns the cached Module for code if a ".csvpo" file exists next to it, was produced
// by compilerVersion, and still matches code's current mtime and content hash. Any mismatch
// (including a missing file) is a cache miss, not an error — the caller just recompiles.
func Load(code *source.Code, compilerVersion string) (*Module, bool) {
	objPath := code.ObjectFilename()

	f, err := os.Open(objPath)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	var entry cacheEntry
	if err := gob.NewDecoder(f).Decode(&entry); err != nil {
		return nil, false
	}

	if entry.CompilerVersion != compilerVersion {
		return nil, false
	}
	if entry.SourceHash != sha256.Sum256([]byte(code.Raw)) {
		return nil, false
	}

	info, err := os.Stat(code.Filename)
	if err != nil || info.ModTime().UnixNano() != entry.SourceModTime {
		// Both the content hash and the exact mtime recorded at save time must match, so a
		// source whose mtime changed is a miss even when its bytes are identical.
		return nil, false
	}

	return entry.Module, true
}

// Save writes mod's object cache entry for code, keyed to compilerVersion. It encodes to a
// uniquely named temp file in the same directory and renames it into place, so a reader never
// observes a partially written ".csvpo" file.
func Save(code *source.Code, compilerVersion string, mod *Module) error {
	objPath := code.ObjectFilename()

	info, err := os.Stat(code.Filename)
	if err != nil {
		return &cerr.ObjectWriteError{Filename: objPath, Message: err.Error()}
	}

	entry := cacheEntry{
		CompilerVersion: compilerVersion,
		SourceHash:      sha256.Sum256([]byte(code.Raw)),
		SourceModTime:   info.ModTime().UnixNano(),
		Module:          mod,
	}

	tmpPath := filepath.Join(filepath.Dir(objPath), "."+uuid.NewString()+".csvpo.tmp")

	tmp, err := os.Create(tmpPath)
	if err != nil {
		return &cerr.ObjectWriteError{Filename: objPath, Message: err.Error()}
	}
	if err := gob.NewEncoder(tmp).Encode(&entry); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return &cerr.ObjectWriteError{Filename: objPath, Message: err.Error()}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return &cerr.ObjectWriteError{Filename: objPath, Message: err.Error()}
	}

	if err := os.Rename(tmpPath, objPath); err != nil {
		return &cerr.ObjectWriteError{Filename: objPath, Message: err.Error()}
	}
	return nil
}
