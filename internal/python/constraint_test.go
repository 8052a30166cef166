// SPDX-License-Identifier: MPL-2.0

package python

import (
	"testing"

	goversion "github.com/hashicorp/go-version"
)

func TestParseRequiresPython(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		spec    string
		version string
		want    bool
	}{
		{name: "simple floor includes newer", spec: ">=3.10", version: "3.13.1", want: true},
		{name: "simple floor excludes older", spec: ">=3.10", version: "3.9.19", want: false},
		{name: "range includes middle", spec: ">=3.9, <3.14", version: "3.12.4", want: true},
		{name: "range excludes ceiling", spec: ">=3.9, <3.14", version: "3.14.1", want: false},
		{name: "compat release includes same major", spec: "~=3.11", version: "3.13.0", want: true},
		{name: "compat release excludes next major", spec: "~=3.11", version: "4.0.0", want: false},
		{name: "compat release with patch level", spec: "~=3.11.2", version: "3.11.9", want: true},
		{name: "compat release with patch excludes next minor", spec: "~=3.11.2", version: "3.12.0", want: false},
		{name: "wildcard pin includes patch", spec: "==3.10.*", version: "3.10.14", want: true},
		{name: "wildcard pin excludes other minor", spec: "==3.10.*", version: "3.11.0", want: false},
		{name: "exclusion", spec: ">=3.9, !=3.11.0", version: "3.11.0", want: false},
		{name: "no spaces", spec: ">=3.9,<3.13", version: "3.12.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			constraint, err := ParseRequiresPython(tt.spec)
			if err != nil {
				t.Fatalf("ParseRequiresPython(%q) unexpected error: %v", tt.spec, err)
			}

			v := goversion.Must(goversion.NewVersion(tt.version))
			if got := constraint.Check(v); got != tt.want {
				t.Errorf("%q.Check(%s) = %v, want %v", tt.spec, tt.version, got, tt.want)
			}
		})
	}
}

func TestParseRequiresPythonErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		spec string
	}{
		{name: "empty", spec: ""},
		{name: "whitespace only", spec: "  , "},
		{name: "garbage", spec: "not a constraint"},
		{name: "wildcard exclusion unsupported", spec: "!=3.10.*"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if _, err := ParseRequiresPython(tt.spec); err == nil {
				t.Errorf("ParseRequiresPython(%q) should return error", tt.spec)
			}
		})
	}
}
