package pdns

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/powerdns"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
)

const zonesPath = "/api/v1/servers/localhost/zones"

type fakeRRset struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	TTL     uint32 `json:"ttl"`
	Records []struct {
		Content string `json:"content"`
	} `json:"records"`
}

// fakePDNS answers the few PowerDNS API calls the sink makes.
type fakePDNS struct {
	mu     sync.Mutex
	zones  map[string]bool
	rrsets map[string]fakeRRset
}

func (f *fakePDNS) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")

	if r.Header.Get("X-API-Key") != "key" {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"Unauthorized"}`))

		return
	}

	name := strings.TrimPrefix(strings.TrimPrefix(r.URL.Path, zonesPath), "/")
	name = zone.NormalizeOrigin(name)

	switch {
	case r.Method == http.MethodGet && r.URL.Path == zonesPath:
		_, _ = w.Write([]byte(`[]`))
	case r.Method == http.MethodPost && r.URL.Path == zonesPath:
		var body struct {
			Name string `json:"name"`
			Kind string `json:"kind"`
		}

		_ = json.NewDecoder(r.Body).Decode(&body)
		f.zones[body.Name] = true

		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": body.Name, "name": body.Name, "kind": body.Kind})
	case r.Method == http.MethodGet && f.zones[name]:
		_ = json.NewEncoder(w).Encode(map[string]string{"id": name, "name": name, "kind": "Native"})
	case r.Method == http.MethodPatch && f.zones[name]:
		var body struct {
			RRsets []fakeRRset `json:"rrsets"`
		}

		_ = json.NewDecoder(r.Body).Decode(&body)

		for _, set := range body.RRsets {
			f.rrsets[set.Name+" "+set.Type] = set
		}

		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Not Found"}`))
	}
}

func (f *fakePDNS) contents(key string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []string
	for _, r := range f.rrsets[key].Records {
		out = append(out, r.Content)
	}

	return out
}

func newTestSink(t *testing.T) (*Sink, *fakePDNS) {
	t.Helper()

	fake := &fakePDNS{zones: map[string]bool{}, rrsets: map[string]fakeRRset{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	engine, err := powerdns.New(config.PowerDNS{URL: srv.URL, APIKey: "key"}, srv.Client())
	require.NoError(t, err)
	require.NoError(t, engine.Test(context.Background()))

	s, err := New(engine)
	require.NoError(t, err)

	return s, fake
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	require.ErrorIs(t, err, powerdns.ErrClientNotInitialized)

	_, err = powerdns.New(config.PowerDNS{}, nil)
	require.ErrorIs(t, err, powerdns.ErrEmptyURL)
}

func TestSinkWritesRRsets(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSink(t)

	exists, err := s.ZoneExists(ctx, "example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	soa := zone.DefaultSOA()
	soa.MName, soa.RName, soa.Serial = "ns1", "admin", 2024120801

	masterID, err := s.CreateZone(ctx, &zone.Descriptor{
		Name: "example.com", Origin: "example.com.", Kind: zone.KindMaster, DefaultTTL: 3600, SOA: &soa,
	})
	require.NoError(t, err)

	exists, err = s.ZoneExists(ctx, "example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	assert.Equal(t,
		[]string{"ns1.example.com. admin.example.com. 2024120801 10800 900 604800 3600"},
		fake.contents("example.com. SOA"))

	incID, err := s.CreateZone(ctx, &zone.Descriptor{Name: "hosts.inc", Origin: "example.com.", Kind: zone.KindInclude, DefaultTTL: 3600})
	require.NoError(t, err)
	require.NoError(t, s.CreateIncludeEdge(ctx, masterID, incID, 1))

	ttl := uint32(300)
	require.NoError(t, s.CreateRecord(ctx, masterID, &zone.Record{Owner: "@", Type: zone.TypeNS, Value: "ns1", Target: "ns1"}))
	require.NoError(t, s.CreateRecord(ctx, masterID, &zone.Record{Owner: "@", Type: zone.TypeNS, Value: "ns2", Target: "ns2"}))
	require.NoError(t, s.CreateRecord(ctx, incID, &zone.Record{
		Owner: "www", Type: zone.TypeA, Value: "192.0.2.1", AddressIPv4: "192.0.2.1", TTL: &ttl,
	}))

	assert.Equal(t, []string{"ns1.example.com.", "ns2.example.com."}, fake.contents("example.com. NS"))
	assert.Equal(t, []string{"192.0.2.1"}, fake.contents("www.example.com. A"))

	fake.mu.Lock()
	assert.Equal(t, uint32(3600), fake.rrsets["example.com. NS"].TTL)
	assert.Equal(t, uint32(300), fake.rrsets["www.example.com. A"].TTL)
	fake.mu.Unlock()
}

func TestSinkUnknownZone(t *testing.T) {
	s, _ := newTestSink(t)

	err := s.CreateRecord(context.Background(), 42, &zone.Record{Owner: "@", Type: zone.TypeA, Value: "192.0.2.1"})
	require.ErrorIs(t, err, sink.ErrUnknownZone)
}

func TestSinkIncludeWithoutZone(t *testing.T) {
	ctx := context.Background()
	s, _ := newTestSink(t)

	id, err := s.CreateZone(ctx, &zone.Descriptor{Name: "orphan.inc", Origin: "orphan.example.", Kind: zone.KindInclude})
	require.NoError(t, err)

	err = s.CreateRecord(ctx, id, &zone.Record{Owner: "www", Type: zone.TypeA, Value: "192.0.2.1"})
	require.Error(t, err)
}

func TestSinkIncludeWithSubOrigin(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSink(t)

	_, err := s.CreateZone(ctx, &zone.Descriptor{Name: "example.com", Origin: "example.com.", Kind: zone.KindMaster, DefaultTTL: 3600})
	require.NoError(t, err)

	_, err = s.CreateZone(ctx, &zone.Descriptor{Name: "sub.example.com", Origin: "sub.example.com.", Kind: zone.KindMaster, DefaultTTL: 3600})
	require.NoError(t, err)

	testCases := []struct {
		name   string
		origin string
		owner  string
		key    string
	}{
		{name: "sub origin under the master", origin: "hosts.example.com.", owner: "www", key: "www.hosts.example.com. A"},
		{name: "longest master wins", origin: "deep.sub.example.com.", owner: "db", key: "db.deep.sub.example.com. A"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			id, err := s.CreateZone(ctx, &zone.Descriptor{Name: tc.owner + ".inc", Origin: tc.origin, Kind: zone.KindInclude, DefaultTTL: 300})
			require.NoError(t, err)

			require.NoError(t, s.CreateRecord(ctx, id, &zone.Record{
				Owner: tc.owner, Type: zone.TypeA, Value: "192.0.2.7", AddressIPv4: "192.0.2.7",
			}))
			assert.Equal(t, []string{"192.0.2.7"}, fake.contents(tc.key))
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	assert.Equal(t, "example.com.", s.enclosingMaster("hosts.example.com."))
	assert.Equal(t, "sub.example.com.", s.enclosingMaster("deep.sub.example.com."))
	assert.Empty(t, s.enclosingMaster("other.example."))
}

func TestSinkSkipsOutOfZoneRecords(t *testing.T) {
	ctx := context.Background()
	s, fake := newTestSink(t)

	id, err := s.CreateZone(ctx, &zone.Descriptor{Name: "example.com", Origin: "example.com.", Kind: zone.KindMaster, DefaultTTL: 3600})
	require.NoError(t, err)

	err = s.CreateRecord(ctx, id, &zone.Record{
		Owner: "host.other-domain.example.", Type: zone.TypeA, Value: "192.0.2.5", AddressIPv4: "192.0.2.5",
	})
	require.ErrorIs(t, err, sink.ErrRecordSkipped)
	assert.Empty(t, fake.contents("host.other-domain.example. A"))
}
