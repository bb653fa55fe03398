package experiment

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/crimson-sun/rigtrac/internal/facet"
	"github.com/crimson-sun/rigtrac/internal/format"
	"github.com/crimson-sun/rigtrac/internal/interp"
	"github.com/crimson-sun/rigtrac/internal/model"
	"github.com/crimson-sun/rigtrac/internal/registry"
)

// Options tune a scan.
type Options struct {
	// Workers bounds concurrent classify/decode tasks. Zero means a
	// small fixed default.
	Workers int

	// NoAlign disables time-base alignment after collation.
	NoAlign bool
}

const defaultWorkers = 4

// fileResult is one worker's verdict on one candidate file. Exactly one
// of the interpretation fields is meaningful, per the outcome.
type fileResult struct {
	path string
	tags []registry.TypeTag

	table  *model.Table
	facets *facet.Set
	err    error
}

// Scan walks root, classifies every file against the catalog, decodes
// matched files, and collates the interpreters into an Experiment.
//
// Classification and decoding run in parallel across files; collation
// is a single collecting loop, so insertion is serialized. Results are
// path-sorted before alignment, which makes the experiment content and
// its time-base offsets independent of walk order.
//
// On cancellation Scan returns the partial experiment (Partial set)
// together with ctx.Err(); partial results never mix into a previously
// returned experiment.
func Scan(ctx context.Context, cat *format.Catalog, root string, opts Options) (*Experiment, error) {
	root = filepath.Clean(root)
	if info, err := os.Stat(root); err == nil && !info.IsDir() {
		// Pointing at a data file means "the session containing it".
		root = filepath.Dir(root)
	}
	exp := &Experiment{
		ID:    uuid.New(),
		Root:  root,
		byTag: make(map[registry.TypeTag][]*interp.Interpreter),
	}

	walker := newWalker()
	paths, err := walker.walk(root)
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}

	cancelled := collate(ctx, cat, paths, opts.Workers, exp)

	// Convention: session data is sometimes stored beside, not inside,
	// the named directory. If the root itself yielded no matches,
	// probe one level up with the same visited set.
	if !cancelled && len(exp.all) == 0 {
		parent := filepath.Dir(root)
		if parent != root {
			slog.Info("no matches under root, probing parent", "root", root, "parent", parent)
			extra, err := walker.walk(parent)
			if err == nil {
				// Drop the root's own files: already classified.
				kept := extra[:0]
				for _, p := range extra {
					if !strings.HasPrefix(p, root+string(filepath.Separator)) {
						kept = append(kept, p)
					}
				}
				cancelled = collate(ctx, cat, kept, opts.Workers, exp)
			}
		}
	}

	finish(exp, opts)

	if cancelled {
		exp.Partial = true
		return exp, ctx.Err()
	}
	return exp, nil
}

// collate fans candidate paths out to workers and drains their results
// into exp. Returns true if the context was cancelled mid-scan.
func collate(ctx context.Context, cat *format.Catalog, paths []string, workers int, exp *Experiment) bool {
	if len(paths) == 0 {
		return false
	}
	if workers <= 0 {
		workers = defaultWorkers
	}
	if workers > len(paths) {
		workers = len(paths)
	}

	work := make(chan string)
	results := make(chan fileResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for path := range work {
				results <- examine(cat, path)
			}
		}()
	}

	go func() {
		defer close(work)
		for _, p := range paths {
			select {
			case <-ctx.Done():
				return
			case work <- p:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single-writer insert: this loop is the only place the
	// experiment's collection mutates.
	for res := range results {
		insert(exp, res)
	}
	return ctx.Err() != nil
}

// examine classifies one file and, on an unambiguous match, decodes it
// and extracts its facets. Pure with respect to shared state.
func examine(cat *format.Catalog, path string) fileResult {
	info, err := os.Stat(path)
	if err != nil {
		return fileResult{path: path, err: err}
	}
	cand := registry.NewCandidate(path, info.Size())

	tags := cand.MatchAll(cat.Registry())
	if len(tags) != 1 {
		return fileResult{path: path, tags: tags}
	}

	tag := tags[0]
	dec, ok := cat.Registry().Decoder(tag)
	if !ok {
		// Register rejects nil decoders, so this is unreachable
		// short of a hand-built registry.
		return fileResult{path: path, tags: tags, err: fmt.Errorf("no decoder for tag %q", tag)}
	}
	table, err := dec.Decode(path)
	if err != nil {
		return fileResult{path: path, tags: tags, err: err}
	}
	return fileResult{
		path:   path,
		tags:   tags,
		table:  table,
		facets: facet.Extract(path, cat.Wants(tag)),
	}
}

func insert(exp *Experiment, res fileResult) {
	switch {
	case res.err != nil && res.table == nil && len(res.tags) == 1:
		slog.Warn("matched file failed to decode", "path", res.path, "error", res.err)
		exp.diags.Errored = append(exp.diags.Errored, FileDiagnostic{
			Path: res.path, Reason: "decode failed", Tags: res.tags, Err: res.err,
		})
	case res.err != nil:
		exp.diags.Errored = append(exp.diags.Errored, FileDiagnostic{
			Path: res.path, Reason: "unreadable", Err: res.err,
		})
	case len(res.tags) == 0:
		exp.diags.Unclassified = append(exp.diags.Unclassified, FileDiagnostic{
			Path: res.path, Reason: "no classifier matched",
		})
	case len(res.tags) > 1:
		slog.Warn("file matches multiple types", "path", res.path, "tags", tagStrings(res.tags))
		exp.diags.Ambiguous = append(exp.diags.Ambiguous, FileDiagnostic{
			Path:   res.path,
			Reason: fmt.Sprintf("matches %d types", len(res.tags)),
			Tags:   res.tags,
		})
	default:
		it := interp.New(res.tags[0], res.table, res.facets)
		exp.byTag[it.Tag()] = append(exp.byTag[it.Tag()], it)
		exp.all = append(exp.all, it)
	}
}

// finish sorts everything by path and applies time-base alignment, so
// the experiment content is deterministic for a given file set.
func finish(exp *Experiment, opts Options) {
	sort.Slice(exp.all, func(i, j int) bool { return exp.all[i].Path() < exp.all[j].Path() })
	for _, list := range exp.byTag {
		sort.Slice(list, func(i, j int) bool { return list[i].Path() < list[j].Path() })
	}
	sortDiags(exp.diags.Unclassified)
	sortDiags(exp.diags.Ambiguous)
	sortDiags(exp.diags.Errored)

	if opts.NoAlign {
		return
	}
	for _, it := range exp.all {
		tb, ok := it.Facets().TimeBase()
		if !ok {
			continue
		}
		if !exp.haveEpoch || tb.Start < exp.epoch {
			exp.epoch = tb.Start
			exp.haveEpoch = true
		}
	}
	if !exp.haveEpoch {
		return
	}
	for _, it := range exp.all {
		if it.Has(facet.KindTimeBase) {
			it.SetEpochOffset(exp.epoch)
		}
	}
}

func sortDiags(d []FileDiagnostic) {
	sort.Slice(d, func(i, j int) bool { return d[i].Path < d[j].Path })
}

func tagStrings(tags []registry.TypeTag) []string {
	out := make([]string, len(tags))
	for i, t := range tags {
		out[i] = string(t)
	}
	return out
}

// walker enumerates regular files under a tree, following directory
// symlinks while tracking resolved real paths so cycles terminate.
type walker struct {
	visitedDirs  map[string]bool
	visitedFiles map[string]bool
}

func newWalker() *walker {
	return &walker{
		visitedDirs:  make(map[string]bool),
		visitedFiles: make(map[string]bool),
	}
}

func (w *walker) walk(root string) ([]string, error) {
	real, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := w.walkDir(root, real, &out); err != nil {
		return nil, err
	}
	sort.Strings(out)
	return out, nil
}

func (w *walker) walkDir(dir, realDir string, out *[]string) error {
	if w.visitedDirs[realDir] {
		return nil
	}
	w.visitedDirs[realDir] = true

	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		real, err := filepath.EvalSymlinks(path)
		if err != nil {
			slog.Debug("skipping unresolvable path", "path", path, "error", err)
			continue
		}
		info, err := os.Stat(real)
		if err != nil {
			continue
		}
		switch {
		case info.IsDir():
			if err := w.walkDir(path, real, out); err != nil {
				return err
			}
		case info.Mode().IsRegular():
			if w.visitedFiles[real] {
				continue
			}
			w.visitedFiles[real] = true
			*out = append(*out, path)
		}
	}
	return nil
}
