// SPDX-License-Identifier: MPL-2.0

package python

import (
	"fmt"
	"strings"

	goversion "github.com/hashicorp/go-version"
)

// ParseRequiresPython converts a PEP 440 requires-python expression
// (e.g. ">=3.10", ">=3.9, <3.14", "~=3.11") into a version constraint.
//
// The two grammars are close; the differences handled here:
//   - the compatible-release operator is spelled "~=" instead of "~>"
//   - wildcard pins like "==3.10.*" have no direct equivalent and are
//     rewritten to the pessimistic form "~> 3.10.0"
func ParseRequiresPython(spec string) (goversion.Constraints, error) {
	parts := strings.Split(spec, ",")
	translated := make([]string, 0, len(parts))

	for _, part := range parts {
		p := strings.TrimSpace(part)
		if p == "" {
			continue
		}

		switch {
		case strings.HasPrefix(p, "~="):
			p = "~>" + strings.TrimSpace(strings.TrimPrefix(p, "~="))
		case strings.HasPrefix(p, "==") && strings.HasSuffix(p, ".*"):
			base := strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(p, "=="), ".*"))
			p = "~> " + base + ".0"
		case strings.HasPrefix(p, "!=") && strings.HasSuffix(p, ".*"):
			// Wildcard exclusions cannot be expressed as a single
			// comparison; they are rare enough to reject outright.
			return nil, fmt.Errorf("unsupported wildcard exclusion %q in requires-python", p)
		}

		translated = append(translated, p)
	}

	if len(translated) == 0 {
		return nil, fmt.Errorf("empty requires-python expression")
	}

	constraint, err := goversion.NewConstraint(strings.Join(translated, ", "))
	if err != nil {
		return nil, fmt.Errorf("parse requires-python %q: %w", spec, err)
	}
	return constraint, nil
}
