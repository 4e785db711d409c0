// Copyright 2026 The wslpty Authors
// SPDX-License-Identifier: Apache-2.0

package version

import (
	"bytes"
	"strings"
	"testing"
)

func TestPrintIncludesProgramAndVersion(t *testing.T) {
	var output bytes.Buffer
	Print(&output, "wslpty")

	got := output.String()
	if !strings.HasPrefix(got, "wslpty "+Version+" (") {
		t.Errorf("Print output %q does not start with program and version", got)
	}
	if !strings.Contains(got, "Platform: ") {
		t.Errorf("Print output %q is missing platform", got)
	}
}
