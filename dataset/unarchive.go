package dataset

import (
	"archive/zip"
	"bytes"
	"compress/gzip"
	"io"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4"
	"github.com/pkg/errors"
)

// unpackArchive returns the payload of .zip, .gz and .lz4 uploads together with the
// name of the unpacked file. Other files are returned unchanged.
func unpackArchive(name string, data []byte) (string, []byte, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".zip":
		return unpackZipArchive(name, data)
	case ".gz":
		return unpackStream(strings.TrimSuffix(name, filepath.Ext(name)), data, func(r io.Reader) (io.Reader, error) {
			return gzip.NewReader(r)
		})
	case ".lz4":
		return unpackStream(strings.TrimSuffix(name, filepath.Ext(name)), data, func(r io.Reader) (io.Reader, error) {
			return lz4.NewReader(r), nil
		})
	}
	return name, data, nil
}

// unpackZipArchive extracts the largest file of the archive.
func unpackZipArchive(name string, data []byte) (string, []byte, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot open zip %q", name)
	}

	var largestFile *zip.File
	var largestSize uint64
	for _, f := range r.File {
		if f.FileInfo().IsDir() {
			continue
		}
		if largestFile == nil || f.UncompressedSize64 > largestSize {
			largestFile = f
			largestSize = f.UncompressedSize64
		}
	}
	if largestFile == nil {
		return "", nil, errors.Errorf("zip %q contains no files", name)
	}

	rc, err := largestFile.Open()
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot open %q in zip", largestFile.Name)
	}
	defer rc.Close()
	payload, err := io.ReadAll(rc)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot extract %q", largestFile.Name)
	}
	return largestFile.Name, payload, nil
}

func unpackStream(name string, data []byte, open func(io.Reader) (io.Reader, error)) (string, []byte, error) {
	r, err := open(bytes.NewReader(data))
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot open archive for %q", name)
	}
	payload, err := io.ReadAll(r)
	if err != nil {
		return "", nil, errors.Wrapf(err, "cannot uncompress %q", name)
	}
	return name, payload, nil
}
