// Package stylepack reads and writes style lists: the source export handed
// to the importer and the master style pack kept in the repository.
package stylepack

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/klauern/styleimport/internal/model"
)

var (
	// ErrNotFound reports a missing input file or styles directory.
	ErrNotFound = errors.New("not found")
	// ErrMalformed reports input that is not a valid style list.
	ErrMalformed = errors.New("malformed style list")
)

// schemaJSON describes the minimum shape both the source export and the
// master pack must have. Additional properties are allowed everywhere.
const schemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "array",
  "items": {
    "type": "object",
    "required": ["name", "sections"],
    "properties": {
      "name": {"type": "string"},
      "sections": {
        "type": "array",
        "items": {
          "type": "object",
          "required": ["code"],
          "properties": {
            "code": {"type": "string"}
          }
        }
      }
    }
  }
}`

var schema = mustCompileSchema()

func mustCompileSchema() *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		panic(fmt.Sprintf("stylepack: compile schema: %v", err))
	}
	return s
}

// Paths locates the importer's inputs.
type Paths struct {
	Source    string
	Master    string
	StylesDir string
}

// Check verifies every input exists before anything is read. The source is
// checked first so a mistyped argument is reported ahead of layout problems.
func (p Paths) Check() error {
	if _, err := os.Stat(p.Source); err != nil {
		return fmt.Errorf("source file %s: %w", p.Source, ErrNotFound)
	}

	info, err := os.Stat(p.StylesDir)
	if err != nil {
		return fmt.Errorf("path %s %w; run the importer from the project root", p.StylesDir, ErrNotFound)
	}
	if !info.IsDir() {
		return fmt.Errorf("styles path %s is not a directory: %w", p.StylesDir, ErrNotFound)
	}

	if _, err := os.Stat(p.Master); err != nil {
		return fmt.Errorf("path %s %w; run the importer from the project root", p.Master, ErrNotFound)
	}
	return nil
}

// Load reads the style list at path.
func Load(path string) ([]*model.Style, error) {
	// #nosec G304 - path is provided by the operator
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	styles, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return styles, nil
}

// Parse validates data against the style list schema and decodes it.
func Parse(data []byte) ([]*model.Style, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, verr := range result.Errors() {
			field := verr.Field()
			if field == "" || field == "(root)" {
				field = "root"
			}
			msgs = append(msgs, field+": "+verr.Description())
		}
		return nil, fmt.Errorf("%w: %s", ErrMalformed, strings.Join(msgs, "; "))
	}

	var styles []*model.Style
	if err := json.Unmarshal(data, &styles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return styles, nil
}
