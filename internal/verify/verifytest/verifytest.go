// Package verifytest exposes the verifier as testify assertions.
package verifytest

import (
	"github.com/chmouel/wcexpect/internal/models"
	"github.com/chmouel/wcexpect/internal/verify"
	"github.com/chmouel/wcexpect/internal/wc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RequireSingleEntry stops the test unless entries describe the single file at path.
func RequireSingleEntry(t require.TestingT, m *wc.Model, entries []models.DirEntry, path string) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NoError(t, verify.SingleEntry(m, entries, path), "listing of %s", path)
}

// RequireListing stops the test unless entries match the model below basePath.
func RequireListing(t require.TestingT, m *wc.Model, entries []models.DirEntry, basePath string, recursive bool, opts ...verify.Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NoError(t, verify.Listing(m, entries, basePath, recursive, opts...), "listing of %q", basePath)
}

// RequireStatus stops the test unless statuses match the model exactly.
func RequireStatus(t require.TestingT, m *wc.Model, statuses []models.Status, root string, opts ...verify.Option) {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	require.NoError(t, verify.Status(m, statuses, root, opts...), "status of %s", root)
}

// AssertStatus is RequireStatus that lets the test continue.
func AssertStatus(t assert.TestingT, m *wc.Model, statuses []models.Status, root string, opts ...verify.Option) bool {
	if h, ok := t.(interface{ Helper() }); ok {
		h.Helper()
	}
	return assert.NoError(t, verify.Status(m, statuses, root, opts...), "status of %s", root)
}
