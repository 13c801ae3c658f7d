// Package dataset saves a JSON-stat document from the CSO PxStat API.
package dataset

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// RawGetter fetches a validated JSON body. *client.Client satisfies it.
type RawGetter interface {
	GetRaw(ctx context.Context, url string) ([]byte, error)
}

// Save fetches url and writes the body, indented by four spaces, to path.
// Nothing is written unless the fetch succeeds.
func Save(ctx context.Context, getter RawGetter, url, path string, out io.Writer) error {
	body, err := getter.GetRaw(ctx, url)
	if err != nil {
		return fmt.Errorf("fetch dataset: %w", err)
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, body, "", "    "); err != nil {
		return fmt.Errorf("format dataset: %w", err)
	}

	if err := writeFile(path, buf.Bytes()); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}

	fmt.Fprintf(out, "Saved dataset to %s\n", filepath.Base(path))
	return nil
}

// writeFile goes through a temp file in the same directory so a failed
// write never leaves a truncated document at path.
func writeFile(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".dataset-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
