package importer

import (
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/blake2b"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/include"
)

// Session holds the state of one top-level import. It is passed down the include walk and is
// not safe for concurrent use.
type Session struct {
	ID uuid.UUID

	depth    int
	maxDepth int

	// visiting holds the files on the current root-to-leaf include path.
	visiting map[string]bool
	// processed maps "path:<abs>" and "hash:<sum>" keys to created descriptor ids for the whole run.
	processed map[string]int64
	// edges holds the include edges asserted in this run.
	edges map[[2]int64]bool
	// masters holds the paths of the master files created in this run.
	masters map[string]bool

	master masterState

	log zerolog.Logger
}

// masterState is the per master file part of a session.
type masterState struct {
	id        int64
	name      string
	ksk, zsk  string
	keysDirty bool
}

// NewSession starts a session allowing maxDepth levels of nested includes.
func NewSession(maxDepth int) *Session {
	id := uuid.New()

	return &Session{
		ID:        id,
		maxDepth:  maxDepth,
		visiting:  make(map[string]bool),
		processed: make(map[string]int64),
		edges:     make(map[[2]int64]bool),
		masters:   make(map[string]bool),
		log:       log.With().Str("run", id.String()).Logger(),
	}
}

// Depth returns the current include depth, 0 outside of any include.
func (s *Session) Depth() int {
	return s.depth
}

func (s *Session) beginMaster(name string) {
	s.master = masterState{name: name}
}

// setKey records a DNSSEC key include on the current master. The last one of each kind wins.
func (s *Session) setKey(kind include.KeyType, path string) {
	current := &s.master.ksk
	if kind == include.KeyZSK {
		current = &s.master.zsk
	}

	if *current == path {
		return
	}

	if *current != "" {
		s.log.Warn().Str("zone", s.master.name).Str("key", string(kind)).Str("previous", *current).
			Str("path", path).Msg("conflicting DNSSEC key includes, keeping the last one")
	}

	*current = path

	if s.master.id != 0 {
		s.master.keysDirty = true
	}
}

func pathKey(path string) string {
	return "path:" + path
}

func hashKey(sum string) string {
	return "hash:" + sum
}

// contentHash returns the hex BLAKE2b-256 sum of data.
func contentHash(data []byte) string {
	sum := blake2b.Sum256(data)

	return hex.EncodeToString(sum[:])
}
