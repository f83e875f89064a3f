package fsstore

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bnei-Baruch/apiurlfix/internal/domain"
)

func writeTree(t *testing.T, root string, files ...string) {
	t.Helper()
	for _, f := range files {
		p := filepath.Join(root, filepath.FromSlash(f))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	}
}

func TestResolve_LiteralPathsKeepOrderAndMissing(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, "frontend/app/page.tsx", "frontend/app/events/[id]/page.tsx")

	got, err := NewResolver().Resolve(root, []string{
		"frontend/app/events/[id]/page.tsx",
		"frontend/app/page.tsx",
		"frontend/components/Missing.tsx",
		"./frontend/app/page.tsx",
		"  ",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"frontend/app/events/[id]/page.tsx",
		"frontend/app/page.tsx",
		"frontend/components/Missing.tsx",
	}, got)
}

func TestResolve_GlobCrossesDirectories(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"frontend/app/page.tsx",
		"frontend/app/events/page.tsx",
		"frontend/components/PartForm.tsx",
		"frontend/lib/api.ts",
		"frontend/node_modules/pkg/index.tsx",
	)

	got, err := NewResolver().Resolve(root, []string{"frontend/**.tsx"})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"frontend/app/events/page.tsx",
		"frontend/app/page.tsx",
		"frontend/components/PartForm.tsx",
	}, got)
}

func TestResolve_UnmatchedGlobIsKept(t *testing.T) {
	root := t.TempDir()

	got, err := NewResolver().Resolve(root, []string{"src/*.tsx"})
	require.NoError(t, err)
	assert.Equal(t, []string{"src/*.tsx"}, got)
}

func TestResolve_InvalidGlob(t *testing.T) {
	_, err := NewResolver().Resolve(t.TempDir(), []string{"src/[.tsx"})
	require.Error(t, err)
	assert.True(t, domain.IsKind(err, domain.KindInvalidConfig), "got %v", err)
}

func TestJoin(t *testing.T) {
	root := t.TempDir()
	assert.Equal(t, filepath.Join(root, "a", "b.tsx"), Join(root, "a/b.tsx"))
	abs := filepath.Join(root, "x.tsx")
	assert.Equal(t, abs, Join("/elsewhere", abs))
}
