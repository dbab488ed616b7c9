package importer

import (
	"errors"
	"fmt"
	"time"
)

// Kind names the asset type of a Result.
type Kind string

const (
	KindTexture  Kind = "texture"
	KindMaterial Kind = "material"
)

// Result is the outcome of importing one asset.
type Result struct {
	Kind     Kind
	Name     string
	Err      error
	Duration time.Duration
}

// Report lists one Result per asset: textures first, then materials, each in
// input order.
type Report struct {
	Results []Result
}

// Succeeded counts the assets that imported without error.
func (r *Report) Succeeded() int {
	n := 0
	for _, res := range r.Results {
		if res.Err == nil {
			n++
		}
	}
	return n
}

// Failed counts the assets whose import returned an error.
func (r *Report) Failed() int {
	return len(r.Results) - r.Succeeded()
}

// Failures returns the failed results.
func (r *Report) Failures() []Result {
	var out []Result
	for _, res := range r.Results {
		if res.Err != nil {
			out = append(out, res)
		}
	}
	return out
}

// Err joins every failure into one error, or returns nil.
func (r *Report) Err() error {
	var errs []error
	for _, res := range r.Failures() {
		errs = append(errs, fmt.Errorf("%s %q: %w", res.Kind, res.Name, res.Err))
	}
	return errors.Join(errs...)
}
