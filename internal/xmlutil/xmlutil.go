package xmlutil

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// Prettify reformats the XML file in place with tab indentation. The
// operation is cosmetic and idempotent: elements, attributes, character
// data, comments and directives pass through unchanged, only inter-element
// whitespace is normalized.
func Prettify(path string) error {
	contents, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	pretty, err := prettify(contents)
	if err != nil {
		return fmt.Errorf("prettify %s: %w", path, err)
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}

	if err = os.WriteFile(path, pretty, info.Mode().Perm()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return nil
}

func prettify(contents []byte) ([]byte, error) {
	decoder := xml.NewDecoder(bytes.NewReader(contents))

	var output bytes.Buffer

	encoder := xml.NewEncoder(&output)
	encoder.Indent("", "\t")

	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		} else if err != nil {
			return nil, err
		}

		// Indentation-only character data would defeat idempotence.
		if data, ok := token.(xml.CharData); ok {
			if strings.TrimSpace(string(data)) == "" {
				continue
			}
		}

		if err = encoder.EncodeToken(token); err != nil {
			return nil, err
		}
	}

	if err := encoder.Flush(); err != nil {
		return nil, err
	}

	output.WriteByte('\n')

	return output.Bytes(), nil
}
