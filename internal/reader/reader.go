// Package reader dispatches a staged source file to the parser for its kind.
package reader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ginjaninja78/salesync/internal/csvparser"
	"github.com/ginjaninja78/salesync/internal/dbfparser"
	"github.com/ginjaninja78/salesync/internal/types"
	"github.com/ginjaninja78/salesync/internal/xlsxparser"
)

// KindFromPath derives the declared kind from the file extension.
func KindFromPath(path string) (types.SourceKind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return types.KindCSV, nil
	case ".xlsx":
		return types.KindXLSX, nil
	case ".dbf":
		return types.KindDBF, nil
	default:
		return "", fmt.Errorf("%w: unsupported file format %q", types.ErrUnreadableSource, filepath.Ext(path))
	}
}

// Read decodes path as the given kind.
func Read(path string, kind types.SourceKind) (*types.Table, error) {
	switch kind {
	case types.KindCSV:
		return csvparser.Parse(path)
	case types.KindXLSX:
		return xlsxparser.Parse(path)
	case types.KindDBF:
		return dbfparser.Parse(path)
	default:
		return nil, fmt.Errorf("%w: unsupported source kind %q", types.ErrUnreadableSource, kind)
	}
}

// ReadPath infers the kind from the extension and decodes the file.
func ReadPath(path string) (*types.Table, error) {
	kind, err := KindFromPath(path)
	if err != nil {
		return nil, err
	}
	return Read(path, kind)
}
