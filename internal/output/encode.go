package output

import (
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/safetylens-cli/internal/utils"
)

// Markdowner is implemented by values with a plain-text rendering.
type Markdowner interface {
	Markdown() string
}

// Formats lists the accepted --format values.
var Formats = []string{"markdown", "json", "yaml"}

// NormalizeFormat maps aliases to a canonical format name.
func NormalizeFormat(format string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", "markdown", "md":
		return "markdown", nil
	case "json":
		return "json", nil
	case "yaml", "yml":
		return "yaml", nil
	default:
		return "", fmt.Errorf("unsupported format %q (want %s)", format, strings.Join(Formats, ", "))
	}
}

// Encode writes v to w in the given format. Markdown needs v to implement
// Markdowner.
func Encode(w io.Writer, format string, v any) error {
	f, err := NormalizeFormat(format)
	if err != nil {
		return err
	}
	switch f {
	case "json":
		b, err := utils.PrettyJSON(v)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return fmt.Errorf("marshal yaml: %w", err)
		}
		return enc.Close()
	default:
		m, ok := v.(Markdowner)
		if !ok {
			return fmt.Errorf("%T has no markdown rendering", v)
		}
		_, err := io.WriteString(w, m.Markdown())
		return err
	}
}

// Extension returns the file extension for a format.
func Extension(format string) string {
	f, _ := NormalizeFormat(format)
	switch f {
	case "json":
		return ".json"
	case "yaml":
		return ".yaml"
	default:
		return ".md"
	}
}
