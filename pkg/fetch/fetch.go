package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// FetchError represents a failed call to a profile source.
type FetchError struct {
	Source     string
	StatusCode int // 0 when no response was received
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode == 0 {
		return fmt.Sprintf("%s request failed: %v", e.Source, e.Err)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s query failed: %d: %v", e.Source, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s query failed: %d: %s", e.Source, e.StatusCode, e.Body)
}

// Cause returns the underlying transport error, if any.
func (e *FetchError) Cause() error {
	return e.Err
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Source produces the raw JSON of one profile source.
type Source func(ctx context.Context) (raw []byte, err error)

// CacheOptions controls the on-disk snapshot used in local mode.
type CacheOptions struct {
	Local bool
	Path  string
}

// Cached returns the cached snapshot in local mode when it exists, and otherwise calls source.
// Fresh responses are written back to the cache in local mode.
func Cached(ctx context.Context, opts CacheOptions, source Source) (raw []byte, err error) {
	log := logrus.WithField("cache", opts.Path)

	if opts.Local && opts.Path != "" {
		_, err = os.Stat(opts.Path)
		if err == nil {
			log.Debug("reading cached snapshot")
			raw, err = readCache(opts.Path)
			return raw, err
		}
		err = nil
	}

	raw, err = source(ctx)
	if err != nil {
		return raw, err
	}

	if opts.Local && opts.Path != "" {
		// Only a parseable payload may become a snapshot
		if !json.Valid(raw) {
			err = errors.Errorf("refusing to cache invalid JSON response: %s", opts.Path)
			return raw, err
		}

		log.Debug("writing snapshot")
		err = writeCache(opts.Path, raw)
		if err != nil {
			return raw, err
		}
	}

	return raw, err
}

// readCache reads a snapshot and checks that it still holds JSON.
func readCache(path string) (raw []byte, err error) {
	raw, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read cache file: %s", path)
		return raw, err
	}

	if !json.Valid(raw) {
		err = errors.Errorf("cache file is not valid JSON: %s", path)
		return raw, err
	}

	return raw, err
}

// writeCache persists a raw snapshot, creating the parent directory.
func writeCache(path string, raw []byte) (err error) {
	dir := filepath.Dir(path)
	err = os.MkdirAll(dir, 0750)
	if err != nil {
		err = errors.Wrapf(err, "failed to create cache directory: %s", dir)
		return err
	}

	err = os.WriteFile(path, raw, 0600)
	if err != nil {
		err = errors.Wrapf(err, "failed to write cache file: %s", path)
		return err
	}

	return err
}

// Do sends req and returns the body of a 2xx response.
func Do(client *http.Client, req *http.Request, source string) (body []byte, err error) {
	var resp *http.Response
	resp, err = client.Do(req)
	if err != nil {
		err = &FetchError{Source: source, Err: err}
		return body, err
	}
	defer resp.Body.Close()

	body, err = io.ReadAll(resp.Body)
	if err != nil {
		err = &FetchError{Source: source, StatusCode: resp.StatusCode, Err: errors.Wrap(err, "failed to read response body")}
		return body, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		err = &FetchError{Source: source, StatusCode: resp.StatusCode, Body: string(body)}
		return body, err
	}

	if !json.Valid(body) {
		err = &FetchError{Source: source, StatusCode: resp.StatusCode, Body: string(body), Err: errors.New("response is not valid JSON")}
		return body, err
	}

	return body, err
}
