// Package transfer reads and writes the JSON files used to back up and move
// brews between machines.
package transfer

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"time"

	"github.com/manav03panchal/brewlog/internal/errors"
	"github.com/manav03panchal/brewlog/internal/model"
	"github.com/manav03panchal/brewlog/internal/store"
)

// FilePrefix starts every generated export file name.
const FilePrefix = "brewlog-export-"

// NewExport builds the export document for records.
func NewExport(records []*model.Brew, now time.Time) model.ExportDocument {
	if records == nil {
		records = []*model.Brew{}
	}
	return model.ExportDocument{
		Version:    model.ExportVersion,
		ExportedAt: model.FormatTimestamp(now),
		Brews:      records,
	}
}

// Marshal renders doc as indented JSON with a trailing newline.
func Marshal(doc model.ExportDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Encode writes doc to w as indented JSON.
func Encode(w io.Writer, doc model.ExportDocument) error {
	data, err := Marshal(doc)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// ExportFilename returns the default export file name for the UTC date of now.
func ExportFilename(now time.Time) string {
	return FilePrefix + now.UTC().Format("20060102") + ".json"
}

// DecodeImport extracts the candidate brew items from an import file. It
// accepts a bare array or an object with a "brews" array.
func DecodeImport(data []byte) ([]json.RawMessage, error) {
	data = bytes.TrimSpace(data)
	if !json.Valid(data) {
		return nil, errors.NewUserErrorFrom(errors.ErrInvalidImport, "Import file is not valid JSON")
	}

	noArray := errors.NewUserErrorFrom(errors.ErrNoRecordArray, "No brew list found in import file")

	switch data[0] {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(data, &items); err != nil {
			return nil, noArray
		}
		return items, nil

	case '{':
		var doc struct {
			Brews json.RawMessage `json:"brews"`
		}
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, noArray
		}
		brews := bytes.TrimSpace(doc.Brews)
		if len(brews) == 0 || brews[0] != '[' {
			return nil, noArray
		}
		var items []json.RawMessage
		if err := json.Unmarshal(brews, &items); err != nil {
			return nil, noArray
		}
		return items, nil
	}

	return nil, noArray
}

// ReadImportFile reads and decodes the import file at path.
func ReadImportFile(path string) ([]json.RawMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewUserErrorWithField("file", path, "Import file not found",
				"Check the path and try again.")
		}
		return nil, errors.NewSystemErrorWithOp("read import file", "Cannot read "+path, err)
	}
	return DecodeImport(data)
}

// ParseMode parses the --mode flag of an import.
func ParseMode(value string) (store.ImportMode, error) {
	return store.ParseImportMode(value)
}
