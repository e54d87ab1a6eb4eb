package library

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"golang.org/x/text/cases"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// loadArray decodes the JSON array stored under key into dst. A missing key
// leaves dst untouched.
func loadArray(blobs BlobStore, key string, dst any) error {
	data, err := blobs.Get(key)
	if errors.Is(err, ErrBlobNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("load %s: %w", key, err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

func saveArray(blobs BlobStore, key string, src any) error {
	data, err := json.Marshal(src)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := blobs.Put(key, data); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// fold returns the case-folded form of s used for every title and search
// comparison. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(s)
}

func sameTitle(a, b string) bool { return fold(a) == fold(b) }
