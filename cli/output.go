package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"
)

// Output formats
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// writeOutput renders v in the format selected by cmdCtx. text is used for
// OutputText; when nil, text mode falls back to JSON.
func writeOutput(cmdCtx *CommandContext, v interface{}, text func(w io.Writer) error) error {
	switch {
	case cmdCtx.Output == OutputText && text != nil:
		return text(cmdCtx.Out)
	case cmdCtx.Output == OutputYAML:
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML output: %w", err)
		}
		_, err = cmdCtx.Out.Write(data)
		return err
	default:
		enc := json.NewEncoder(cmdCtx.Out)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("failed to marshal JSON output: %w", err)
		}
		return nil
	}
}
