package assets

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

const (
	MimeJSON        = "application/json"
	MimeText        = "text/plain"
	MimePNG         = "image/png"
	MimeOctetStream = "application/octet-stream"
)

// MimeTypeFor classifies a file name by its extension. Extensions match exactly,
// so "a.PNG" is octet-stream.
func MimeTypeFor(name string) string {
	switch filepath.Ext(name) {
	case ".json":
		return MimeJSON
	case ".atlas":
		return MimeText
	case ".png":
		return MimePNG
	default:
		return MimeOctetStream
	}
}

func isTextMime(mime string) bool {
	return mime == MimeJSON || mime == MimeText
}

// EncodeFile reads the file at path and returns its base name together with
// its transport representation.
func EncodeFile(path string) (string, TransportBlob, error) {
	name, ok := fileName(path)
	if !ok {
		return "", TransportBlob{}, newResolutionError(ErrorInvalidFileName, fmt.Sprintf("%q", path), nil)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", TransportBlob{}, newResolutionError(ErrorIO, fmt.Sprintf("failed to read file '%s'", name), err)
	}

	mime := MimeTypeFor(name)
	if isTextMime(mime) && !utf8.Valid(data) {
		return "", TransportBlob{}, newResolutionError(ErrorIO,
			fmt.Sprintf("failed to read file '%s'", name), errors.New("stream did not contain valid UTF-8"))
	}

	return name, TransportBlob{
		MimeType:      mime,
		Base64Payload: base64.StdEncoding.EncodeToString(data),
	}, nil
}

// DataURI returns the blob as "data:<mime>;base64,<payload>"
func (tb TransportBlob) DataURI() string {
	return "data:" + tb.MimeType + ";base64," + tb.Base64Payload
}

// Decode returns the raw bytes carried by the blob
func (tb TransportBlob) Decode() ([]byte, error) {
	return base64.StdEncoding.DecodeString(tb.Base64Payload)
}

// ParseDataURI parses the output of DataURI
func ParseDataURI(uri string) (TransportBlob, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return TransportBlob{}, errors.New("missing data: scheme")
	}
	mime, payload, ok := strings.Cut(rest, ";base64,")
	if !ok || mime == "" {
		return TransportBlob{}, errors.New("missing ;base64, marker")
	}
	return TransportBlob{MimeType: mime, Base64Payload: payload}, nil
}

// fileName returns the terminal name component of path
func fileName(path string) (string, bool) {
	if path == "" || strings.HasSuffix(path, string(filepath.Separator)) || strings.HasSuffix(path, "/") {
		return "", false
	}
	name := filepath.Base(path)
	switch name {
	case ".", "..", string(filepath.Separator):
		return "", false
	}
	return name, true
}
