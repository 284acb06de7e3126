// Package importer drives the import of BIND zone files into a sink.
//
// A master file is scanned, parsed by the canonical parser and reconciled against its own text.
// Its $INCLUDE directives are walked depth-first; every distinct include file becomes a
// descriptor of its own linked to its parent by an include edge. Errors never abort the run:
// they are logged, counted and the import moves on to the next record, include or file.
package importer

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/include"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/oracle"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/reconcile"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

// Importer imports zone files into a sink and counts what happened.
type Importer struct {
	cfg      config.Import
	sink     sink.Sink
	resolver *include.Resolver
	root     string

	stats   Stats
	metrics *metrics
}

// New returns an importer writing to s. In dry-run mode s is only asked whether zones exist and
// may be nil.
func New(cfg config.Import, s sink.Sink) (*Importer, error) {
	if cfg.DryRun {
		var lookup sink.Sink
		if cfg.SkipExisting {
			lookup = s
		}

		s = sink.NewDryRun(lookup)
	}

	if s == nil {
		return nil, sink.ErrSinkNil
	}

	if cfg.MaxIncludeDepth == 0 {
		cfg.MaxIncludeDepth = config.DefaultMaxIncludeDepth
	}

	if cfg.DefaultTTL == 0 {
		cfg.DefaultTTL = config.DefaultTTL
	}

	if len(cfg.Extensions) == 0 {
		cfg.Extensions = config.DefaultExtensions
	}

	root := cfg.Root
	if root == "" {
		root = cfg.Dir
	}

	if root != "" {
		abs, err := filepath.Abs(root)
		if err != nil {
			return nil, errors.Wrap(err, "import root")
		}

		root = abs
	}

	return &Importer{
		cfg:  cfg,
		sink: s,
		resolver: &include.Resolver{
			Root:                root,
			AllowAbsolute:       cfg.AllowAbsoluteIncludes,
			AbsoluteOutsideRoot: cfg.AbsoluteIncludesOutsideRoot,
			SearchPaths:         cfg.SearchPaths,
		},
		root:    root,
		metrics: newMetrics(),
	}, nil
}

// ImportDirectory imports every zone file directly inside dir, in name order. The error is only
// set when dir cannot be listed or holds no zone file; failures of single files are counted.
func (im *Importer) ImportDirectory(ctx context.Context, dir string) error {
	files, err := im.zoneFiles(dir)
	if err != nil {
		im.failed()
		return err
	}

	if len(files) == 0 {
		log.Warn().Str("dir", dir).Msg("no zone files found")
		return errors.Wrap(ErrNoZoneFiles, dir)
	}

	log.Info().Str("dir", dir).Int("files", len(files)).Msg("found zone files")

	sess := NewSession(im.cfg.MaxIncludeDepth)

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "import interrupted")
		}

		_ = im.importFile(ctx, sess, path)
	}

	return nil
}

// ImportFile imports one master zone file in a session of its own. The returned error is the
// one that aborted the file, it is already counted.
func (im *Importer) ImportFile(ctx context.Context, path string) error {
	return im.importFile(ctx, NewSession(im.cfg.MaxIncludeDepth), path)
}

// zoneFiles lists the files of dir matching the extension allow-list, or without extension when
// enabled, minus hidden and excluded names.
func (im *Importer) zoneFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrap(ErrNotADirectory, err.Error())
	}

	var files []string

	for _, e := range entries {
		name := e.Name()

		if !e.Type().IsRegular() || strings.HasPrefix(name, ".") || im.excluded(name) {
			continue
		}

		ext := filepath.Ext(name)

		switch {
		case ext == "" && im.cfg.Extensionless:
		case ext != "" && im.allowedExt(ext):
		default:
			continue
		}

		files = append(files, filepath.Join(dir, name))
	}

	sort.Strings(files)

	return files, nil
}

func (im *Importer) allowedExt(ext string) bool {
	for _, allowed := range im.cfg.Extensions {
		if strings.EqualFold(ext, allowed) {
			return true
		}
	}

	return false
}

func (im *Importer) excluded(name string) bool {
	for _, pattern := range im.cfg.Exclude {
		if ok, err := filepath.Match(pattern, name); err == nil && ok {
			return true
		}
	}

	return false
}

// originFromName derives an origin from a file name without $ORIGIN: the name minus a known
// extension.
func (im *Importer) originFromName(path string) string {
	name := filepath.Base(path)

	if ext := filepath.Ext(name); ext != "" && im.allowedExt(ext) {
		name = strings.TrimSuffix(name, ext)
	}

	return zone.NormalizeOrigin(strings.ToLower(name))
}

// storageDir is the directory of path relative to the import root, "" for the root itself.
func (im *Importer) storageDir(path string) string {
	dir := filepath.Dir(path)

	if im.root == "" {
		return filepath.ToSlash(dir)
	}

	rel, err := filepath.Rel(im.root, dir)
	if err != nil || rel == "." {
		return ""
	}

	if strings.HasPrefix(rel, "..") {
		return filepath.ToSlash(dir)
	}

	return filepath.ToSlash(rel)
}

func (im *Importer) importFile(ctx context.Context, sess *Session, path string) error {
	l := sess.log.With().Str("file", path).Logger()
	l.Info().Msg("processing zone file")

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		im.failed()
		l.Error().Err(err).Msg("failed to read zone file")

		return errors.Wrap(ErrReadFile, err.Error())
	}

	text := string(data)

	origin := zonetext.FirstOrigin(text)
	if origin == "" {
		origin = im.originFromName(abs)
	}

	name := zone.Bare(origin)
	l = l.With().Str("zone", name).Logger()

	if im.cfg.SkipExisting {
		exists, err := im.sink.ZoneExists(ctx, name)

		switch {
		case err != nil:
			l.Warn().Err(err).Msg("could not check whether the zone exists, importing it")
		case exists:
			im.zoneSkipped()
			l.Info().Msg("zone already exists, skipping")

			return nil
		}
	}

	facts := zonetext.Scan(text, origin)
	for _, w := range facts.Warnings {
		l.Warn().Msg(w)
	}

	ttl := facts.TTL
	if !facts.HasTTL {
		ttl = im.cfg.DefaultTTL
		l.Debug().Uint32("ttl", ttl).Msg("zone has no $TTL, using the default")
	}

	z, err := oracle.Parse(oracleText(text, facts, ttl), origin)
	if err != nil {
		im.failed()
		l.Error().Err(err).Msg("failed to parse zone file")

		return err //nolint:wrapcheck
	}

	sess.beginMaster(name)
	im.presetKeys(sess, facts.Includes, filepath.Dir(abs))

	desc := &zone.Descriptor{
		Name:        name,
		Filename:    filepath.Base(abs),
		Path:        abs,
		Directory:   im.storageDir(abs),
		Origin:      origin,
		Kind:        zone.KindMaster,
		DefaultTTL:  ttl,
		SOA:         soaOf(z),
		KSKInclude:  sess.master.ksk,
		ZSKInclude:  sess.master.zsk,
		Content:     text,
		ContentHash: contentHash(data),
	}

	if desc.SOA == nil {
		l.Warn().Msg("zone has no SOA record, using default timers")

		soa := zone.DefaultSOA()
		desc.SOA = &soa
	}

	id, err := im.sink.CreateZone(ctx, desc)
	if err != nil {
		im.failed()
		l.Error().Err(err).Msg("failed to create zone")

		return errors.Wrap(ErrCreateZone, err.Error())
	}

	im.zoneCreated()
	sess.master.id = id
	desc.ID = id

	if prev, ok := sess.processed[pathKey(abs)]; ok {
		l.Warn().Int64("include_id", prev).Msg("zone file was already imported as an include of another master")
	}

	sess.processed[pathKey(abs)] = id
	sess.masters[abs] = true

	sess.visiting[abs] = true
	defer delete(sess.visiting, abs)

	children := im.processIncludes(ctx, sess, facts.Includes, filepath.Dir(abs), Parent{
		Name: name, Origin: origin, DefaultTTL: ttl, HasTTL: true,
	})

	im.flushKeys(ctx, sess)
	im.emitRecords(ctx, sess, desc, z, facts)
	im.assertEdges(ctx, sess, id, children)

	return nil
}

// presetKeys resolves the DNSSEC key includes written directly in the master, so the master
// descriptor is created with them.
func (im *Importer) presetKeys(sess *Session, incs []zonetext.Include, baseDir string) {
	for _, inc := range incs {
		kind := include.KeyKind(inc.Token)
		if kind == include.KeyNone {
			continue
		}

		res, err := im.resolver.Resolve(inc.Token, baseDir)
		if err != nil {
			continue
		}

		sess.setKey(kind, res.Path)
	}
}

// flushKeys pushes key includes found below the master's direct includes.
func (im *Importer) flushKeys(ctx context.Context, sess *Session) {
	if !sess.master.keysDirty {
		return
	}

	sess.master.keysDirty = false

	ku, ok := im.sink.(sink.KeyUpdater)
	if !ok {
		sess.log.Warn().Str("zone", sess.master.name).Str("ksk", sess.master.ksk).Str("zsk", sess.master.zsk).
			Msg("sink cannot update DNSSEC key includes of an existing zone")

		return
	}

	if err := ku.SetKeyIncludes(ctx, sess.master.id, sess.master.ksk, sess.master.zsk); err != nil {
		im.failed()
		sess.log.Error().Err(err).Str("zone", sess.master.name).Msg("failed to set DNSSEC key includes")
	}
}

// emitRecords reconciles the canonical records of z with facts, recovers out-of-origin lines and
// writes every record under d.
func (im *Importer) emitRecords(ctx context.Context, sess *Session, d *zone.Descriptor, z *oracle.Zone, facts *zonetext.Facts) {
	l := sess.log.With().Str("zone", d.Name).Int64("zone_id", d.ID).Logger()

	records, convErrs := reconcile.Reconcile(z, facts)
	for _, err := range convErrs {
		im.failed()
		l.Warn().Err(err).Msg("record conversion failed, skipping")
	}

	recovered, skipped := reconcile.RecoverOutOfOrigin(facts, d.Origin)
	for _, s := range skipped {
		im.recordSkipped()
		l.Warn().Int("line", s.Line).Str("owner", s.Owner).Str("type", s.Type).Err(s.Err).
			Msg("out-of-origin record skipped")
	}

	if len(recovered) > 0 {
		l.Info().Int("recovered", len(recovered)).Int("dropped_by_parser", z.Dropped).
			Msg("recovered out-of-origin records")
	}

	records = append(records, recovered...)

	l.Info().Int("records", len(records)).Msg("importing records")

	for i := range records {
		rec := &records[i]

		err := im.sink.CreateRecord(ctx, d.ID, rec)

		switch {
		case errors.Is(err, sink.ErrRecordSkipped):
			im.recordSkipped()
			l.Warn().Err(err).Str("owner", rec.Owner).Str("type", string(rec.Type)).Int("line", rec.Line).
				Msg("record skipped by sink")

			continue
		case err != nil:
			im.failed()
			l.Error().Err(err).Str("owner", rec.Owner).Str("type", string(rec.Type)).Int("line", rec.Line).
				Msg("failed to create record")

			continue
		}

		im.recordCreated()
	}
}

// oracleText prepares text for the canonical parser: $INCLUDE lines are blanked and a $TTL is
// put in front when the file has none.
func oracleText(text string, facts *zonetext.Facts, ttl uint32) string {
	out := zonetext.StripIncludes(text)
	if !facts.HasTTL {
		out = zonetext.PrependTTL(out, ttl)
	}

	return out
}

// soaOf converts the SOA of z, nil when the zone has none. Names are stored relative to the origin.
func soaOf(z *oracle.Zone) *zone.SOA {
	if z.SOA == nil {
		return nil
	}

	return &zone.SOA{
		MName:   zone.Relativize(z.SOA.Ns, z.Origin),
		RName:   zone.Relativize(z.SOA.Mbox, z.Origin),
		Serial:  z.SOA.Serial,
		Refresh: z.SOA.Refresh,
		Retry:   z.SOA.Retry,
		Expire:  z.SOA.Expire,
		Minimum: z.SOA.Minttl,
	}
}
