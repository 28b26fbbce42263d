package render

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// RenderError reports a failure while formatting the résumé or reading and writing its files.
type RenderError struct {
	Op  string
	Err error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

// Cause returns the underlying error.
func (e *RenderError) Cause() error {
	return e.Err
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

// ReadTemplate loads the LaTeX template.
func ReadTemplate(path string) (template string, err error) {
	err = validateFiles(path)
	if err != nil {
		err = &RenderError{Op: "read template", Err: err}
		return template, err
	}

	var data []byte
	data, err = os.ReadFile(path)
	if err != nil {
		err = &RenderError{Op: "read template", Err: errors.Wrapf(err, "failed to read file: %s", path)}
		return template, err
	}

	template = string(data)
	return template, err
}

// validateFiles checks that required files exist.
func validateFiles(paths ...string) (err error) {
	for _, path := range paths {
		_, err = os.Stat(path)
		if os.IsNotExist(err) {
			err = errors.Errorf("file not found: %s", path)
			return err
		}
	}
	return err
}

// WriteOutput writes the rendered résumé, replacing any previous file.
func WriteOutput(content, outputPath string) (err error) {
	// Ensure output directory exists
	outputDir := filepath.Dir(outputPath)
	err = os.MkdirAll(outputDir, 0750)
	if err != nil {
		err = &RenderError{Op: "write output", Err: errors.Wrapf(err, "failed to create output directory: %s", outputDir)}
		return err
	}

	err = os.WriteFile(outputPath, []byte(content), 0600)
	if err != nil {
		err = &RenderError{Op: "write output", Err: errors.Wrapf(err, "failed to write file: %s", outputPath)}
		return err
	}

	return err
}
