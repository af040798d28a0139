package feedback

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/prosodia/prosody-coach/prosody"
)

// WriteReport exports the result to a file; the extension picks the format.
func WriteReport(path string, res *prosody.Result) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		data, err = json.MarshalIndent(res, "", "  ")
	case ".yaml", ".yml":
		data, err = yaml.Marshal(res)
	default:
		return fmt.Errorf("unsupported report format %q: use .json, .yaml, or .yml", filepath.Ext(path))
	}
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
