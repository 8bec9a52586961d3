package main

import (
	"os"
	"regexp"
	"strings"

	"github.com/mozillazg/go-unidecode"
	"github.com/pkg/errors"

	"github.com/pivolan/readiness_analyzer/domain/models"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// asciiFilename transliterates name and replaces anything outside [A-Za-z0-9._-] with '_'.
func asciiFilename(name string) string {
	safe := unsafeFilenameChars.ReplaceAllString(unidecode.Unidecode(name), "_")
	safe = strings.Trim(safe, "_")
	if safe == "" {
		return "dataset"
	}
	return safe
}

// readOptionsFile parses an options document; an empty path means no options.
func readOptionsFile(path string) (models.Options, error) {
	if path == "" {
		return models.Options{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return models.Options{}, errors.Wrapf(err, "cannot read options file %s", path)
	}
	return models.ParseOptions(raw)
}
