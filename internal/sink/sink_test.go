package sink

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

var (
	_ Sink       = (*Memory)(nil)
	_ Sink       = (*DryRun)(nil)
	_ KeyUpdater = (*Memory)(nil)
	_ KeyUpdater = (*DryRun)(nil)
)

func TestMemory(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	master, err := m.CreateZone(ctx, &zone.Descriptor{Name: "example.com", Kind: zone.KindMaster})
	require.NoError(t, err)
	inc, err := m.CreateZone(ctx, &zone.Descriptor{Name: "common.inc", Kind: zone.KindInclude})
	require.NoError(t, err)
	assert.Equal(t, int64(1), master)
	assert.Equal(t, int64(2), inc)

	require.NoError(t, m.CreateRecord(ctx, master, &zone.Record{Owner: "www", Type: zone.TypeA, Value: "192.0.2.1"}))
	require.ErrorIs(t, m.CreateRecord(ctx, 99, &zone.Record{}), ErrUnknownZone)
	assert.Len(t, m.Records(master), 1)

	require.NoError(t, m.CreateIncludeEdge(ctx, master, inc, 1))
	require.NoError(t, m.CreateIncludeEdge(ctx, master, inc, 2))
	assert.Equal(t, []zone.IncludeEdge{{ParentID: master, ChildID: inc, Position: 1}}, m.Edges())

	exists, err := m.ZoneExists(ctx, "EXAMPLE.com")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.SetKeyIncludes(ctx, master, "/k/a.ksk.key", ""))
	z, ok := m.Zone(master)
	require.True(t, ok)
	assert.Equal(t, "/k/a.ksk.key", z.KSKInclude)
}

func TestDryRun(t *testing.T) {
	ctx := context.Background()

	backing := NewMemory()
	_, err := backing.CreateZone(ctx, &zone.Descriptor{Name: "existing.com"})
	require.NoError(t, err)

	d := NewDryRun(backing)

	id1, err := d.CreateZone(ctx, &zone.Descriptor{Name: "a.com"})
	require.NoError(t, err)
	id2, err := d.CreateZone(ctx, &zone.Descriptor{Name: "b.com"})
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)

	require.NoError(t, d.CreateRecord(ctx, id1, &zone.Record{Owner: "@", Type: zone.TypeA}))
	require.NoError(t, d.CreateIncludeEdge(ctx, id1, id2, 1))

	// nothing reached the backing sink
	assert.Len(t, backing.Zones(), 1)

	exists, err := d.ZoneExists(ctx, "existing.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = NewDryRun(nil).ZoneExists(ctx, "existing.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
