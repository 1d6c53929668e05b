package dataset

//go:generate mockgen -destination=mock/mock_decoder.go -package=mockdataset -source=decoder.go

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

const (
	// ProfileSaveName is the account-wide save every valid folder holds
	ProfileSaveName = "profile"

	// DocumentName is the pre-decoded dataset JSONDecoder reads
	DocumentName = "dataset.json"
)

// Decoder turns a save folder into a Dataset.
// previous is the last good Dataset for the folder, nil on the first load.
type Decoder interface {
	Decode(ctx context.Context, folder string, previous *Dataset) (*Dataset, error)
}

// FindSaveFile returns the path of <name>.sav in folder, or "" when it is missing
func FindSaveFile(folder, name string) string {
	if folder == "" {
		return ""
	}
	path := filepath.Join(folder, name+".sav")
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return path
}

// JSONDecoder reads a dataset document that an upstream decoder already produced
type JSONDecoder struct {
	// Name overrides DocumentName when set
	Name string
}

var _ Decoder = (*JSONDecoder)(nil)

// Decode implements Decoder
func (d *JSONDecoder) Decode(ctx context.Context, folder string, previous *Dataset) (*Dataset, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name := DocumentName
	if d != nil && d.Name != "" {
		name = d.Name
	}

	data, err := os.ReadFile(filepath.Join(folder, name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("no decoded dataset in %s: %w", folder, err)
		}
		return nil, fmt.Errorf("reading decoded dataset: %w", err)
	}

	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("parsing decoded dataset: %w", err)
	}
	return &ds, nil
}
