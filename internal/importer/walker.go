package importer

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/include"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/oracle"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

// Parent describes the file that declared an include.
type Parent struct {
	Name       string
	Origin     string
	DefaultTTL uint32
	HasTTL     bool // false when DefaultTTL is only the configured fallback
}

// Request asks Process for one $INCLUDE directive.
type Request struct {
	Include zonetext.Include
	BaseDir string // directory of the declaring file
	Parent  Parent
}

// child is a processed include waiting for its edge.
type child struct {
	id       int64
	position int
	name     string
}

// processIncludes walks incs in order. Failed branches are logged and counted; the returned
// children are the includes that produced a descriptor.
func (im *Importer) processIncludes(ctx context.Context, sess *Session, incs []zonetext.Include, baseDir string, parent Parent) []child {
	var children []child

	for i, inc := range incs {
		l := sess.log.With().Str("zone", parent.Name).Str("include", inc.Token).Int("line", inc.Line).Logger()

		id, err := im.Process(ctx, sess, Request{Include: inc, BaseDir: baseDir, Parent: parent})

		switch {
		case errors.Is(err, include.ErrSecurityDenied):
			im.failed()
			l.Error().Err(err).Msg("include denied by security policy")
		case err != nil:
			im.failed()
			l.Error().Err(err).Msg("include branch failed")
		case id != 0:
			children = append(children, child{id: id, position: i + 1, name: inc.Token})
		}
	}

	return children
}

// assertEdges links parentID to every child. Edges already asserted in this run are skipped.
func (im *Importer) assertEdges(ctx context.Context, sess *Session, parentID int64, children []child) {
	for _, c := range children {
		key := [2]int64{parentID, c.id}
		if sess.edges[key] {
			continue
		}

		if err := im.sink.CreateIncludeEdge(ctx, parentID, c.id, c.position); err != nil {
			im.failed()
			sess.log.Error().Err(err).Int64("parent_id", parentID).Int64("child_id", c.id).
				Str("include", c.name).Msg("failed to create include edge")

			continue
		}

		sess.edges[key] = true
		im.edgeCreated()
	}
}

// Process resolves and imports one include file and returns the id of its descriptor. A file
// already processed in this run returns the existing id. DNSSEC key files are recorded on the
// session's master and yield id 0.
//
// Errors abort this branch only: the depth limit, a cycle, an unresolvable or denied include, an
// unreadable or unparsable file and a rejected descriptor.
func (im *Importer) Process(ctx context.Context, sess *Session, req Request) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Wrap(err, "import interrupted")
	}

	res, err := im.resolver.Resolve(req.Include.Token, req.BaseDir)
	if err != nil {
		return 0, err //nolint:wrapcheck
	}

	l := sess.log.With().Str("include", req.Include.Token).Str("path", res.Path).
		Str("strategy", res.Strategy).Logger()

	if kind := include.KeyKind(res.Path); kind != include.KeyNone {
		l.Info().Str("zone", sess.master.name).Str("key", string(kind)).Msg("DNSSEC key include recorded on master")
		sess.setKey(kind, res.Path)

		return 0, nil
	}

	sess.depth++
	defer func() { sess.depth-- }()

	if sess.depth > sess.maxDepth {
		return 0, errors.Wrapf(ErrDepthExceeded, "depth %d > %d at %s", sess.depth, sess.maxDepth, res.Path)
	}

	if sess.visiting[res.Path] {
		return 0, errors.Wrap(ErrCycle, res.Path)
	}

	if id, ok := sess.processed[pathKey(res.Path)]; ok {
		if sess.masters[res.Path] {
			l.Warn().Int64("id", id).Msg("include is a master zone file of this run, linking to the master")
		} else {
			l.Debug().Int64("id", id).Msg("include already processed")
		}

		return id, nil
	}

	data, err := os.ReadFile(res.Path)
	if err != nil {
		return 0, errors.Wrap(ErrReadFile, err.Error())
	}

	sum := contentHash(data)
	if id, ok := sess.processed[hashKey(sum)]; ok {
		l.Info().Int64("id", id).Msg("include content already imported")
		sess.processed[pathKey(res.Path)] = id

		return id, nil
	}

	sess.visiting[res.Path] = true
	defer delete(sess.visiting, res.Path)

	text := string(data)

	origin := zonetext.FirstOrigin(text)
	switch {
	case origin != "":
	case req.Include.Origin != "":
		origin = req.Include.Origin
	default:
		origin = req.Parent.Origin
	}

	facts := zonetext.Scan(text, origin)
	for _, w := range facts.Warnings {
		l.Warn().Msg(w)
	}

	ttl, hasTTL := facts.TTL, facts.HasTTL

	if !hasTTL {
		ttl, hasTTL = req.Parent.DefaultTTL, req.Parent.HasTTL
		if !hasTTL {
			ttl = im.cfg.DefaultTTL
			l.Warn().Uint32("ttl", ttl).Msg("neither include nor parent set $TTL, using the default")
		}
	}

	name := filepath.Base(res.Path)

	children := im.processIncludes(ctx, sess, facts.Includes, filepath.Dir(res.Path), Parent{
		Name: name, Origin: origin, DefaultTTL: ttl, HasTTL: hasTTL,
	})

	z, err := oracle.Parse(oracleText(text, facts, ttl), origin)
	if err != nil {
		logOrphans(l, children)
		return 0, err //nolint:wrapcheck
	}

	desc := &zone.Descriptor{
		Name:        name,
		Filename:    name,
		Path:        res.Path,
		Directory:   im.storageDir(res.Path),
		Origin:      origin,
		Kind:        zone.KindInclude,
		DefaultTTL:  ttl,
		Content:     text,
		ContentHash: sum,
	}

	id, err := im.sink.CreateZone(ctx, desc)
	if err != nil {
		logOrphans(l, children)
		return 0, errors.Wrap(ErrCreateZone, err.Error())
	}

	desc.ID = id
	sess.processed[pathKey(res.Path)] = id
	sess.processed[hashKey(sum)] = id

	im.includeCreated()
	l.Info().Int64("id", id).Str("origin", origin).Int("depth", sess.depth).Msg("include created")

	im.emitRecords(ctx, sess, desc, z, facts)
	im.assertEdges(ctx, sess, id, children)

	return id, nil
}

// logOrphans reports include descriptors created for a file that itself failed. They stay in
// the sink without a parent edge.
func logOrphans(l zerolog.Logger, children []child) {
	if len(children) == 0 {
		return
	}

	ids := make([]int64, 0, len(children))
	for _, c := range children {
		ids = append(ids, c.id)
	}

	l.Warn().Ints64("orphaned_ids", ids).Msg("parent include failed, its nested includes have no edge")
}
