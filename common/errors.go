package common

import (
	"errors"
	"fmt"
	"net/http"
)

// Error kinds returned by every stage of an asset load. Callers match them with errors.Is;
// concrete failures wrap one (or more) of these together with the underlying cause.
var (
	ErrNotFound                = errors.New("asset not found")
	ErrIO                      = errors.New("asset i/o error")
	ErrNetwork                 = errors.New("network error")
	ErrParse                   = errors.New("parse error")
	ErrMissingIndices          = errors.New("primitive has no indices")
	ErrMissingAttribute        = errors.New("missing vertex attribute")
	ErrMalformedAsset          = errors.New("malformed asset")
	ErrUnsupportedFormat       = errors.New("unsupported format")
	ErrBufferSlice             = errors.New("buffer slice out of range")
	ErrMaterialBuild           = errors.New("material build failed")
	ErrAttributeLengthMismatch = errors.New("attribute length mismatch")
)

// ParseError describes malformed OBJ, MTL or glTF syntax at a specific location.
// Line is 1-based and zero when the format has no meaningful line (binary containers, JSON).
type ParseError struct {
	File string
	Line int
	Msg  string
	Err  error
}

func (e *ParseError) Error() string {
	loc := e.File
	if e.Line > 0 {
		loc = fmt.Sprintf("%s:%d", e.File, e.Line)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %s: %v", ErrParse, loc, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s: %s", ErrParse, loc, e.Msg)
}

func (e *ParseError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrParse, e.Err}
	}
	return []error{ErrParse}
}

// MaterialBuildError wraps any failure raised while turning a material description into a
// GPU-bound material (image decode, layout mismatch, bind group creation).
type MaterialBuildError struct {
	Material string
	Err      error
}

func (e *MaterialBuildError) Error() string {
	return fmt.Sprintf("%s: material %q: %v", ErrMaterialBuild, e.Material, e.Err)
}

func (e *MaterialBuildError) Unwrap() []error {
	return []error{ErrMaterialBuild, e.Err}
}

// StatusError is returned by the remote asset source for a non-success HTTP status.
// A 404 also matches ErrNotFound.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: GET %s: %d %s", ErrNetwork, e.URL, e.Code, http.StatusText(e.Code))
}

func (e *StatusError) Unwrap() []error {
	if e.Code == http.StatusNotFound {
		return []error{ErrNetwork, ErrNotFound}
	}
	return []error{ErrNetwork}
}
