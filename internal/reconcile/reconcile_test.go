package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/oracle"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

const exampleZone = `$ORIGIN example.com.
$TTL 3600
@       IN      SOA     ns1.example.com. admin.example.com. (
                        2024120801 ; serial
                        10800      ; refresh
                        900        ; retry
                        604800     ; expire
                        3600       ; minimum
                        )
        IN      NS      ns1.example.com.
        IN      NS      ns2.example.com.
        IN      A       192.0.2.1
www     IN      A       192.0.2.1
mail    IN      A       192.0.2.10
        IN      MX      10 mail.example.com.
ftp     IN      CNAME   www.example.com.
`

func run(t *testing.T, text, origin string) ([]zone.Record, []error) {
	t.Helper()

	facts := zonetext.Scan(text, origin)

	z, err := oracle.Parse(zonetext.StripIncludes(text), origin)
	require.NoError(t, err)

	return Reconcile(z, facts)
}

func find(records []zone.Record, owner string, typ zone.RecordType) []zone.Record {
	var out []zone.Record

	for _, r := range records {
		if r.Owner == owner && r.Type == typ {
			out = append(out, r)
		}
	}

	return out
}

func TestReconcileExampleZone(t *testing.T) {
	records, errs := run(t, exampleZone, "example.com.")
	require.Empty(t, errs)
	require.Len(t, records, 7)

	for _, r := range records {
		assert.Nil(t, r.TTL, "%s %s inherits the zone TTL", r.Owner, r.Type)
	}

	ns := find(records, "@", zone.TypeNS)
	require.Len(t, ns, 2)
	assert.Equal(t, "ns1", ns[0].Target)
	assert.Equal(t, "ns2", ns[1].Target)

	apex := find(records, "@", zone.TypeA)
	require.Len(t, apex, 1)
	assert.Equal(t, "192.0.2.1", apex[0].AddressIPv4)

	mx := find(records, "mail", zone.TypeMX)
	require.Len(t, mx, 1)
	assert.Equal(t, uint16(10), *mx[0].Priority)
	assert.Equal(t, "mail", mx[0].Target)
	assert.Equal(t, "10 mail", mx[0].Value)

	cname := find(records, "ftp", zone.TypeCNAME)
	require.Len(t, cname, 1)
	assert.Equal(t, "www", cname[0].Target)
	assert.Equal(t, 16, cname[0].Line)
}

func TestReconcileTTL(t *testing.T) {
	text := `$TTL 1d
www 300 IN A 192.0.2.1
www IN A 192.0.2.2
mail 2h IN MX 10 mx1
mail IN MX 20 mx2
`
	records, errs := run(t, text, "example.com.")
	require.Empty(t, errs)

	www := find(records, "www", zone.TypeA)
	require.Len(t, www, 2)
	require.NotNil(t, www[0].TTL)
	assert.Equal(t, uint32(300), *www[0].TTL)
	assert.Equal(t, "192.0.2.1", www[0].AddressIPv4)
	assert.Nil(t, www[1].TTL)

	mail := find(records, "mail", zone.TypeMX)
	require.Len(t, mail, 2)
	require.NotNil(t, mail[0].TTL)
	assert.Equal(t, uint32(7200), *mail[0].TTL)
	assert.Equal(t, "mx1", mail[0].Target)
	assert.Nil(t, mail[1].TTL)
	assert.Equal(t, "mx2", mail[1].Target)
}

func TestReconcileMatchesByTarget(t *testing.T) {
	text := `$TTL 1d
@ IN MX 20 mx2.example.com.
@ IN MX 10 mx1
@ 60 IN MX 30 backup.other.net.
`
	records, errs := run(t, text, "example.com.")
	require.Empty(t, errs)

	mx := find(records, "@", zone.TypeMX)
	require.Len(t, mx, 3)

	byTarget := make(map[string]zone.Record)
	for _, r := range mx {
		byTarget[r.Target] = r
	}

	require.Contains(t, byTarget, "backup.other.net.")
	require.NotNil(t, byTarget["backup.other.net."].TTL)
	assert.Equal(t, uint32(60), *byTarget["backup.other.net."].TTL)
	assert.Nil(t, byTarget["mx1"].TTL)
	assert.Nil(t, byTarget["mx2"].TTL)
}

func TestReconcileOwnerNotation(t *testing.T) {
	text := `$TTL 1h
@ IN TXT "apex"
www.example.com. IN A 192.0.2.1
host IN A 192.0.2.2
$ORIGIN sub.example.com.
deep IN A 192.0.2.3
`
	records, errs := run(t, text, "example.com.")
	require.Empty(t, errs)

	assert.Len(t, find(records, "@", zone.TypeTXT), 1)
	assert.Len(t, find(records, "www.example.com.", zone.TypeA), 1)
	assert.Len(t, find(records, "host", zone.TypeA), 1)
	assert.Len(t, find(records, "deep.sub", zone.TypeA), 1)
}

func TestReconcileAtTarget(t *testing.T) {
	text := `$TTL 1h
@ IN MX 10 @
alias IN CNAME @
`
	records, errs := run(t, text, "example.com.")
	require.Empty(t, errs)

	mx := find(records, "@", zone.TypeMX)
	require.Len(t, mx, 1)
	assert.Equal(t, "@", mx[0].Target)
	assert.Equal(t, "10 @", mx[0].Value)

	cname := find(records, "alias", zone.TypeCNAME)
	require.Len(t, cname, 1)
	assert.Equal(t, "@", cname[0].Target)
}

func TestReconcileTypedFields(t *testing.T) {
	text := `$TTL 1h
_sip._tcp IN SRV 10 60 5060 sipserver
@ IN CAA 0 issue "ca.example.net"
txt IN TXT "part one" "part two"
v6 IN AAAA 2001:db8::1
1 IN PTR host.example.com.
`
	records, errs := run(t, text, "example.com.")
	require.Empty(t, errs)

	srv := find(records, "_sip._tcp", zone.TypeSRV)
	require.Len(t, srv, 1)
	assert.Equal(t, uint16(10), *srv[0].Priority)
	assert.Equal(t, uint16(60), *srv[0].Weight)
	assert.Equal(t, uint16(5060), *srv[0].Port)
	assert.Equal(t, "sipserver", srv[0].Target)
	assert.Equal(t, "10 60 5060 sipserver", srv[0].Value)

	caa := find(records, "@", zone.TypeCAA)
	require.Len(t, caa, 1)
	assert.Equal(t, uint8(0), *caa[0].CAAFlag)
	assert.Equal(t, "issue", caa[0].CAATag)
	assert.Equal(t, "ca.example.net", caa[0].CAAValue)

	txt := find(records, "txt", zone.TypeTXT)
	require.Len(t, txt, 1)
	assert.Equal(t, "part one part two", txt[0].TXT)
	assert.Equal(t, `"part one" "part two"`, txt[0].Value)

	aaaa := find(records, "v6", zone.TypeAAAA)
	require.Len(t, aaaa, 1)
	assert.Equal(t, "2001:db8::1", aaaa[0].AddressIPv6)

	ptr := find(records, "1", zone.TypePTR)
	require.Len(t, ptr, 1)
	assert.Equal(t, "host", ptr[0].Target)
}

func TestSameTarget(t *testing.T) {
	testCases := []struct {
		name      string
		typ       string
		canonical string
		raw       string
		want      bool
	}{
		{name: "equal names", typ: "CNAME", canonical: "www.example.com", raw: "www.example.com", want: true},
		{name: "different names", typ: "NS", canonical: "ns1.example.com", raw: "ns1.example.co", want: false},
		{name: "closed quotes are not prefixes", typ: "TXT", canonical: `"v=spf1 mx"`, raw: `"v=spf1 mx -all"`, want: false},
		{name: "prefix match", typ: "TXT", canonical: `"v=spf1`, raw: `"v=spf1 mx"`, want: true},
		{name: "empty raw", typ: "A", canonical: "192.0.2.1", raw: "", want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sameTarget(tc.typ, tc.canonical, tc.raw))
		})
	}
}
