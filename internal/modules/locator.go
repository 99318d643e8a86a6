// Package modules implements the module locator (canonical module path ↔
// file path index, with dotted-alias support) and the import resolver that
// consults it.
package modules

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Issue records a problem encountered while scanning a search root (a
// missing root, a non-directory root) — non-fatal, the root is just
// skipped.
type Issue struct {
	Root    string
	Message string
}

// Duplicate records two files that both map to the same canonical module
// path; the first-registered file wins.
type Duplicate struct {
	CanonicalPath string
	KeptFile      string
	SkippedFile   string
}

// Locator maintains the canonical-path -> file-path map, the dotted-alias
// -> canonical-path map, and the ordered search roots, per §4.E. It is
// logically immutable once Discover has completed; concurrent mutation is
// not supported (§5).
type Locator struct {
	mu          sync.Mutex
	roots       []string
	registered  map[string]string // canonical path -> file path
	aliases     map[string]string // dotted alias -> canonical path
	concurrency int
}

// NewLocator constructs an empty locator. Discovery concurrency defaults
// to GOMAXPROCS*8, overridable via the BOLT_MAX_CONCURRENCY environment
// variable, mirroring the ancestor compiler's ioConcurrency convention.
func NewLocator() *Locator {
	return &Locator{
		registered:  make(map[string]string),
		aliases:     make(map[string]string),
		concurrency: ioConcurrency(),
	}
}

func ioConcurrency() int {
	if v := os.Getenv("BOLT_MAX_CONCURRENCY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			if n > 1024 {
				return 1024
			}

			return n
		}
	}

	c := runtime.GOMAXPROCS(0) * 8
	if c < 4 {
		c = 4
	}

	if c > 1024 {
		c = 1024
	}

	return c
}

// SetSearchRoots replaces the locator's search roots with a
// lexically-normalised copy of roots.
func (l *Locator) SetSearchRoots(roots []string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	normalised := make([]string, len(roots))
	for i, r := range roots {
		normalised[i] = filepath.Clean(r)
	}

	l.roots = normalised
}

// RegisterModule registers a canonical path explicitly, adding the dotted
// alias automatically when the canonical path's components contain no '.'.
func (l *Locator) RegisterModule(canonicalPath, filePath string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.registered[canonicalPath] = filePath

	if alias, ok := canonicalToDotted(canonicalPath); ok {
		l.aliases[alias] = canonicalPath
	}
}

// modulePathToRelativePath converts a canonical or dotted module path into
// the relative file path it must occupy: any ':' or '.' becomes the
// platform separator, with a '.bolt' extension appended.
func modulePathToRelativePath(modulePath string) string {
	replaced := strings.Map(func(r rune) rune {
		if r == ':' || r == '.' {
			return filepath.Separator
		}

		return r
	}, modulePath)

	// Collapse the doubled separator produced by "::".
	sep := string(filepath.Separator)
	for strings.Contains(replaced, sep+sep) {
		replaced = strings.ReplaceAll(replaced, sep+sep, sep)
	}

	return replaced + ".bolt"
}

// relativePathToCanonicalPath converts a discovered file's path (relative
// to a search root) into its canonical module path, rejecting paths with
// '.' or '..' segments (besides the mandatory '.bolt' suffix) and paths
// not ending in '.bolt'.
func relativePathToCanonicalPath(relativePath string) (string, bool) {
	if !strings.HasSuffix(relativePath, ".bolt") {
		return "", false
	}

	trimmed := strings.TrimSuffix(relativePath, ".bolt")

	segments := strings.Split(filepath.ToSlash(trimmed), "/")
	for _, seg := range segments {
		if seg == "" || seg == "." || seg == ".." || strings.Contains(seg, ".") {
			return "", false
		}
	}

	return strings.Join(segments, "::"), true
}

// canonicalToDotted returns the dotted-alias form of a canonical path,
// valid only when no component itself contains a '.'.
func canonicalToDotted(canonicalPath string) (string, bool) {
	if strings.Contains(canonicalPath, ".") {
		return "", false
	}

	return strings.ReplaceAll(canonicalPath, "::", "."), true
}

// Discover walks every search root concurrently (bounded by the locator's
// configured concurrency, via errgroup) looking for '.bolt' files,
// registering each under its canonical path. The first file registered
// under a canonical path wins; later collisions are reported as
// Duplicates, not inserted.
func (l *Locator) Discover(ctx context.Context) ([]Issue, []Duplicate, error) {
	l.mu.Lock()
	roots := append([]string{}, l.roots...)
	l.mu.Unlock()

	var (
		issuesMu sync.Mutex
		issues   []Issue
		dupsMu   sync.Mutex
		dups     []Duplicate
	)

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, l.concurrency)

	for _, root := range roots {
		root := root

		g.Go(func() error {
			select {
			case sem <- struct{}{}:
			case <-gctx.Done():
				return gctx.Err()
			}
			defer func() { <-sem }()

			info, err := os.Stat(root)
			if err != nil {
				issuesMu.Lock()
				issues = append(issues, Issue{Root: root, Message: "import root does not exist"})
				issuesMu.Unlock()

				return nil
			}

			if !info.IsDir() {
				issuesMu.Lock()
				issues = append(issues, Issue{Root: root, Message: "import root is not a directory"})
				issuesMu.Unlock()

				return nil
			}

			return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
				if err != nil {
					if os.IsPermission(err) {
						return fs.SkipDir
					}

					return nil
				}

				select {
				case <-gctx.Done():
					return gctx.Err()
				default:
				}

				if d.IsDir() || filepath.Ext(path) != ".bolt" {
					return nil
				}

				rel, err := filepath.Rel(root, path)
				if err != nil {
					return nil
				}

				canonical, ok := relativePathToCanonicalPath(rel)
				if !ok {
					return nil
				}

				l.mu.Lock()
				existing, already := l.registered[canonical]

				if already && filepath.Clean(existing) != filepath.Clean(path) {
					l.mu.Unlock()
					dupsMu.Lock()
					dups = append(dups, Duplicate{CanonicalPath: canonical, KeptFile: existing, SkippedFile: path})
					dupsMu.Unlock()

					return nil
				}

				if !already {
					l.registered[canonical] = path

					if alias, ok := canonicalToDotted(canonical); ok {
						if _, taken := l.aliases[alias]; !taken {
							l.aliases[alias] = canonical
						}
					}
				}

				l.mu.Unlock()

				return nil
			})
		})
	}

	if err := g.Wait(); err != nil {
		return issues, dups, err
	}

	sort.Slice(issues, func(i, j int) bool { return issues[i].Root < issues[j].Root })
	sort.Slice(dups, func(i, j int) bool { return dups[i].CanonicalPath < dups[j].CanonicalPath })

	return issues, dups, nil
}

// Locate resolves a canonical or dotted module path to its canonical path
// and file path. It tries, in order: the registered map, the alias map,
// then (if search roots are configured) direct construction under each
// root via modulePathToRelativePath. The last step does not register its
// hit into the maps.
func (l *Locator) Locate(modulePath string) (canonicalPath, filePath string, ok bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if fp, found := l.registered[modulePath]; found {
		return modulePath, fp, true
	}

	if canonical, found := l.aliases[modulePath]; found {
		if fp, found := l.registered[canonical]; found {
			return canonical, fp, true
		}
	}

	rel := modulePathToRelativePath(modulePath)

	for _, root := range l.roots {
		candidate := filepath.Join(root, rel)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return modulePath, candidate, true
		}
	}

	return "", "", false
}
