package include

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) string {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("www A 192.0.2.1\n"), 0o600))

	return path
}

func TestResolveStrategies(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	extra := t.TempDir()

	writeFile(t, filepath.Join(root, "zones", "local.inc"))
	writeFile(t, filepath.Join(root, "shared.inc"))
	writeFile(t, filepath.Join(root, "deep", "nested", "buried.inc"))
	writeFile(t, filepath.Join(outside, "cwd.inc"))
	writeFile(t, filepath.Join(extra, "extra.inc"))

	r := &Resolver{Root: root, WorkDir: outside, SearchPaths: []string{extra}}

	testCases := []struct {
		name     string
		token    string
		baseDir  string
		strategy string
		path     string
		err      error
	}{
		{name: "base dir", token: "local.inc", baseDir: filepath.Join(root, "zones"), strategy: StrategyBaseDir, path: filepath.Join(root, "zones", "local.inc")},
		{name: "import root", token: "shared.inc", baseDir: filepath.Join(root, "zones"), strategy: StrategyImportRoot, path: filepath.Join(root, "shared.inc")},
		{name: "recursive search", token: "buried.inc", baseDir: filepath.Join(root, "zones"), strategy: StrategyRecursiveSearch, path: filepath.Join(root, "deep", "nested", "buried.inc")},
		{name: "cwd outside root is skipped", token: "cwd.inc", baseDir: root, err: ErrNotFound},
		{name: "search path outside root is skipped", token: "extra.inc", baseDir: root, err: ErrNotFound},
		{name: "relative escape is skipped", token: "../" + filepath.Base(outside) + "/cwd.inc", baseDir: root, err: ErrNotFound},
		{name: "missing", token: "nope.inc", baseDir: root, err: ErrNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := r.Resolve(tc.token, tc.baseDir)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.strategy, res.Strategy)
			assert.Equal(t, tc.path, res.Path)
		})
	}
}

func TestResolveCWDAndSearchPathInsideRoot(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "work", "cwd.inc"))
	writeFile(t, filepath.Join(root, "lib", "extra.inc"))

	r := &Resolver{Root: root, WorkDir: filepath.Join(root, "work"), SearchPaths: []string{filepath.Join(root, "lib")}}

	res, err := r.Resolve("cwd.inc", filepath.Join(root, "elsewhere"))
	require.NoError(t, err)
	assert.Equal(t, StrategyCWD, res.Strategy)

	res, err = r.Resolve("extra.inc", filepath.Join(root, "elsewhere"))
	require.NoError(t, err)
	assert.Equal(t, StrategySearchPathPrefix+filepath.Join(root, "lib"), res.Strategy)
}

func TestResolveSandboxLiftedByAbsolutePolicy(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	extra := t.TempDir()

	writeFile(t, filepath.Join(extra, "extra.inc"))
	writeFile(t, filepath.Join(outside, "cwd.inc"))

	testCases := []struct {
		name     string
		resolver *Resolver
		token    string
		strategy string
		err      error
	}{
		{
			name:     "search path outside root with absolute includes allowed",
			resolver: &Resolver{Root: root, WorkDir: root, AllowAbsolute: true, SearchPaths: []string{extra}},
			token:    "extra.inc",
			strategy: StrategySearchPathPrefix + extra,
		},
		{
			name:     "cwd outside root with absolute includes allowed",
			resolver: &Resolver{Root: root, WorkDir: outside, AllowAbsolute: true},
			token:    "cwd.inc",
			strategy: StrategyCWD,
		},
		{
			name:     "search path outside root stays sandboxed by default",
			resolver: &Resolver{Root: root, WorkDir: root, SearchPaths: []string{extra}},
			token:    "extra.inc",
			err:      ErrNotFound,
		},
		{
			name:     "outside root flag alone does not lift the sandbox",
			resolver: &Resolver{Root: root, WorkDir: root, AbsoluteOutsideRoot: true, SearchPaths: []string{extra}},
			token:    "extra.inc",
			err:      ErrNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := tc.resolver.Resolve(tc.token, root)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.strategy, res.Strategy)
		})
	}
}

func TestResolveAbsolute(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	inside := writeFile(t, filepath.Join(root, "abs.inc"))
	away := writeFile(t, filepath.Join(outside, "away.inc"))

	_, err := (&Resolver{Root: root}).Resolve(inside, root)
	require.ErrorIs(t, err, ErrAbsoluteIncludeDenied)
	require.ErrorIs(t, err, ErrSecurityDenied)

	res, err := (&Resolver{Root: root, AllowAbsolute: true}).Resolve(inside, root)
	require.NoError(t, err)
	assert.Equal(t, StrategyAbsolute, res.Strategy)

	_, err = (&Resolver{Root: root, AllowAbsolute: true}).Resolve(away, root)
	require.ErrorIs(t, err, ErrOutsideImportRoot)
	require.ErrorIs(t, err, ErrSecurityDenied)

	res, err = (&Resolver{Root: root, AllowAbsolute: true, AbsoluteOutsideRoot: true}).Resolve(away, root)
	require.NoError(t, err)
	assert.Equal(t, away, res.Path)
}

func TestResolveSymlinkEscape(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	target := writeFile(t, filepath.Join(outside, "secret.inc"))

	if err := os.Symlink(target, filepath.Join(root, "link.inc")); err != nil {
		t.Skip("symlinks not supported")
	}

	_, err := (&Resolver{Root: root, WorkDir: root}).Resolve("link.inc", root)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestResolveAmbiguousRecursive(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "dup.inc"))
	writeFile(t, filepath.Join(root, "b", "dup.inc"))

	res, err := (&Resolver{Root: root, WorkDir: root}).Resolve("dup.inc", filepath.Join(root, "c"))
	require.NoError(t, err)
	assert.Equal(t, StrategyRecursiveSearch, res.Strategy)
	assert.Equal(t, filepath.Join(root, "a", "dup.inc"), res.Path)
}

func TestNotFoundErrorListsAttempts(t *testing.T) {
	root := t.TempDir()

	_, err := (&Resolver{Root: root, WorkDir: root}).Resolve("missing.inc", root)

	var nf *NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "missing.inc", nf.Token)
	assert.Contains(t, nf.Attempted, filepath.Join(root, "missing.inc"))
	assert.Contains(t, err.Error(), "recursive search")

	// base dir, import root and working directory are the same directory
	assert.Equal(t, []string{filepath.Join(root, "missing.inc"), "recursive search under " + root}, nf.Attempted)
}

func TestKeyKind(t *testing.T) {
	assert.Equal(t, KeyKSK, KeyKind("/etc/bind/Kexample.com.KSK.key"))
	assert.Equal(t, KeyZSK, KeyKind("example.com.zsk.key"))
	assert.Equal(t, KeyNone, KeyKind("example.com.key"))
	assert.Equal(t, KeyNone, KeyKind("common.inc"))
}
