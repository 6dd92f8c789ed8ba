package domain

import (
	"errors"
	"testing"
)

func testRegistry(t *testing.T) *VersionRegistry {
	t.Helper()
	r, err := NewVersionRegistry(
		VersionEntry{Version: V1, BaseURL: "http://www.strava.com/api/v1/", SecureBaseURL: "https://www.strava.com/api/v1/"},
		VersionEntry{Version: V2, BaseURL: "http://www.strava.com/api/v2/", SecureBaseURL: "https://www.strava.com/api/v2/"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return r
}

func TestVersionRegistry_ResolveTable(t *testing.T) {
	r := testRegistry(t)

	cases := []struct {
		version APIVersion
		secure  bool
		want    string
	}{
		{V1, false, "http://www.strava.com/api/v1/"},
		{V1, true, "https://www.strava.com/api/v1/"},
		{V2, false, "http://www.strava.com/api/v2/"},
		{V2, true, "https://www.strava.com/api/v2/"},
	}
	for _, tc := range cases {
		got, err := r.Resolve(tc.version, tc.secure)
		if err != nil {
			t.Fatalf("%s secure=%v: unexpected error: %v", tc.version, tc.secure, err)
		}
		if got != tc.want {
			t.Fatalf("%s secure=%v: expected %q, got %q", tc.version, tc.secure, tc.want, got)
		}
	}
}

func TestVersionRegistry_ResolveUnknownVersion(t *testing.T) {
	r := testRegistry(t)

	_, err := r.Resolve(APIVersion(9), false)
	if !errors.Is(err, ErrUnknownVersion) {
		t.Fatalf("expected ErrUnknownVersion, got %v", err)
	}
}

func TestNewVersionRegistry_RejectsIncompleteTable(t *testing.T) {
	ok := VersionEntry{Version: V1, BaseURL: "http://a/", SecureBaseURL: "https://a/"}

	cases := map[string][]VersionEntry{
		"missing v2": {ok},
		"duplicated": {ok, ok},
		"empty url":  {ok, {Version: V2, BaseURL: "http://b/"}},
		"bad enum":   {ok, {Version: APIVersion(0), BaseURL: "http://b/", SecureBaseURL: "https://b/"}},
	}
	for name, entries := range cases {
		if _, err := NewVersionRegistry(entries...); err == nil {
			t.Fatalf("%s: expected error", name)
		}
	}
}
