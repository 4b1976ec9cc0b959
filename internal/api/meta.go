package api

import (
	"context"
	"fmt"

	"golang.org/x/mod/semver"
)

// SupportedMajor is the backend API major version this client speaks.
const SupportedMajor = "v1"

// Info returns the backend banner.
func (c *Client) Info(ctx context.Context) (*Info, error) {
	var out Info
	if err := c.get(ctx, "/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Health pings the backend.
func (c *Client) Health(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/health", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckCompatible fetches Info and verifies the backend speaks a version
// this client understands.
func (c *Client) CheckCompatible(ctx context.Context) (*Info, error) {
	info, err := c.Info(ctx)
	if err != nil {
		return nil, err
	}
	if err := Compatible(info.Version); err != nil {
		return info, err
	}
	return info, nil
}

// Compatible reports whether a backend version string is supported.
func Compatible(version string) error {
	v := version
	if len(v) > 0 && v[0] != 'v' {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return &Error{Kind: KindBackend, Detail: fmt.Sprintf("backend reported an invalid version %q", version)}
	}
	if semver.Major(v) != SupportedMajor {
		return &Error{Kind: KindBackend, Detail: fmt.Sprintf("backend version %s is not supported (need %s.x)", version, SupportedMajor)}
	}
	return nil
}
