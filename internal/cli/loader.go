package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/roach88/tixgen/internal/compiler"
	"github.com/roach88/tixgen/internal/diagnostic"
)

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No model files found
	ErrCodeLoadFailed  = "E004" // Model file could not be parsed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // Generation could not run
	ErrCodeWriteFailed = "E007" // File write error
)

// LoadResult contains the declarations read from a model path.
type LoadResult struct {
	Declarations []compiler.Declaration
	FileCount    int
}

// LoadError represents an error that occurred while loading models.
type LoadError struct {
	Code    string
	Message string
	Pos     diagnostic.Position
}

func (e *LoadError) Error() string {
	if loc := e.Pos.String(); loc != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadModels reads declarations from a model file or directory.
func LoadModels(path string) (*LoadResult, error) {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("models path not found: %s", path)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing models path: %v", err)}
	}

	count := 1
	if info.IsDir() {
		cueFiles, yamlFiles, err := compiler.ModelFiles(path)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
		}
		count = len(cueFiles) + len(yamlFiles)
		if count == 0 {
			return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no .cue or .yaml model files found in %s", path)}
		}
	}

	decls, err := compiler.Load(path)
	if err != nil {
		return nil, convertCompileError(err)
	}
	return &LoadResult{Declarations: decls, FileCount: count}, nil
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		code := ErrCodeLoadFailed
		if c := compiler.CodeOf(err); c != "" && c != compiler.ErrInvalidDeclaration {
			code = c
		}
		msg := compileErr.Message
		if compileErr.Entity != "" {
			msg = compileErr.Entity + ": " + msg
		}
		return &LoadError{Code: code, Message: msg, Pos: compileErr.Pos}
	}
	return &LoadError{Code: ErrCodeLoadFailed, Message: err.Error()}
}
