// Package include locates the files named by $INCLUDE directives.
//
// Relative tokens are tried against a fixed list of base directories, in order. Every candidate
// must stay inside the import root unless absolute includes are allowed; candidates that escape
// it are skipped. Absolute tokens are refused unless the policy allows them.
package include

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Resolution strategy tags.
const (
	StrategyAbsolute         = "absolute"
	StrategyBaseDir          = "base_dir"
	StrategyImportRoot       = "import_root"
	StrategyCWD              = "cwd"
	StrategySearchPathPrefix = "search_path:"
	StrategyRecursiveSearch  = "recursive_search"
)

// Resolver resolves include tokens against the import root.
type Resolver struct {
	// Root is the import root; every resolved file must be inside it unless exempted.
	Root string
	// AllowAbsolute permits absolute include tokens and lifts the sandbox for relative candidates.
	AllowAbsolute bool
	// AbsoluteOutsideRoot lets allowed absolute tokens leave Root.
	AbsoluteOutsideRoot bool
	// SearchPaths are extra directories tried after the working directory.
	SearchPaths []string
	// WorkDir replaces the process working directory when set.
	WorkDir string
}

// Resolution is a resolved include file.
type Resolution struct {
	Path     string // absolute, cleaned
	Strategy string
}

// Resolve finds the file for token, declared in a file located in baseDir.
func (r *Resolver) Resolve(token, baseDir string) (Resolution, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return Resolution{}, ErrEmptyToken
	}

	if filepath.IsAbs(token) {
		return r.resolveAbsolute(token)
	}

	nf := &NotFoundError{Token: token}
	seen := make(map[string]bool)

	for _, c := range r.candidates(token, baseDir) {
		path, err := filepath.Abs(c.path)
		if err != nil || seen[path] {
			continue
		}

		seen[path] = true
		nf.Attempted = append(nf.Attempted, path)

		if !isFile(path) {
			continue
		}

		if !r.sandboxExempt() && !r.inRoot(path) {
			log.Warn().Str("include", token).Str("path", path).Str("strategy", c.strategy).
				Msg("include candidate outside the import root skipped")

			continue
		}

		return Resolution{Path: path, Strategy: c.strategy}, nil
	}

	if !strings.ContainsAny(token, `/\`) {
		if path, ok := r.recursiveSearch(token); ok {
			return Resolution{Path: path, Strategy: StrategyRecursiveSearch}, nil
		}

		nf.Attempted = append(nf.Attempted, "recursive search under "+r.Root)
	}

	return Resolution{}, nf
}

func (r *Resolver) resolveAbsolute(token string) (Resolution, error) {
	if !r.AllowAbsolute {
		return Resolution{}, errors.Wrap(ErrAbsoluteIncludeDenied, token)
	}

	path := filepath.Clean(token)

	if !isFile(path) {
		return Resolution{}, &NotFoundError{Token: token, Attempted: []string{path}}
	}

	if !r.AbsoluteOutsideRoot && !r.inRoot(path) {
		return Resolution{}, errors.Wrap(ErrOutsideImportRoot, token)
	}

	return Resolution{Path: path, Strategy: StrategyAbsolute}, nil
}

type candidate struct {
	path     string
	strategy string
}

func (r *Resolver) candidates(token, baseDir string) []candidate {
	var out []candidate

	if baseDir != "" {
		out = append(out, candidate{filepath.Join(baseDir, token), StrategyBaseDir})
	}

	if r.Root != "" {
		out = append(out, candidate{filepath.Join(r.Root, token), StrategyImportRoot})
	}

	if wd := r.workDir(); wd != "" {
		out = append(out, candidate{filepath.Join(wd, token), StrategyCWD})
	}

	for _, sp := range r.SearchPaths {
		out = append(out, candidate{filepath.Join(sp, token), StrategySearchPathPrefix + sp})
	}

	return out
}

// recursiveSearch walks Root for a file named token. The first match in walk order wins.
func (r *Resolver) recursiveSearch(token string) (string, bool) {
	if r.Root == "" {
		return "", false
	}

	var matches []string

	_ = filepath.WalkDir(r.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr
		}

		if !d.IsDir() && d.Name() == token {
			if abs, err := filepath.Abs(path); err == nil && (r.sandboxExempt() || r.inRoot(abs)) {
				matches = append(matches, abs)
			}
		}

		return nil
	})

	if len(matches) == 0 {
		return "", false
	}

	if len(matches) > 1 {
		log.Warn().Str("include", token).Strs("matches", matches).Str("using", matches[0]).
			Msg("include file name is ambiguous")
	}

	return matches[0], true
}

// sandboxExempt reports whether relative candidates may leave Root.
func (r *Resolver) sandboxExempt() bool {
	return r.AllowAbsolute
}

func (r *Resolver) workDir() string {
	if r.WorkDir != "" {
		return r.WorkDir
	}

	wd, err := os.Getwd()
	if err != nil {
		return ""
	}

	return wd
}

// inRoot reports whether path is Root or below it after following symlinks.
func (r *Resolver) inRoot(path string) bool {
	if r.Root == "" {
		return false
	}

	root, err := realPath(r.Root)
	if err != nil {
		return false
	}

	p, err := realPath(path)
	if err != nil {
		return false
	}

	rel, err := filepath.Rel(root, p)
	if err != nil {
		return false
	}

	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func realPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	return filepath.EvalSymlinks(abs)
}

func isFile(path string) bool {
	fi, err := os.Stat(path)

	return err == nil && fi.Mode().IsRegular()
}
