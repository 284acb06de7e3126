package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/zone"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/zonetext"
)

func TestRecoverOutOfOrigin(t *testing.T) {
	text := `$TTL 1h
www IN A 192.0.2.1
host.other-domain.example. IN A 192.0.2.50
mx.other-domain.example. 2h IN MX 10 mail.other-domain.example.
alias.other-domain.example. CNAME www.example.com.
txt.other-domain.example. IN TXT "hello" "world"
caa.other-domain.example. IN CAA 0 issuewild ";"
`
	f := zonetext.Scan(text, "example.com.")

	records, skipped := RecoverOutOfOrigin(f, "example.com.")
	require.Empty(t, skipped)
	require.Len(t, records, 5)

	host := records[0]
	assert.Equal(t, "host.other-domain.example.", host.Owner)
	assert.Equal(t, zone.TypeA, host.Type)
	assert.Equal(t, "192.0.2.50", host.AddressIPv4)
	assert.Nil(t, host.TTL)
	assert.Equal(t, 3, host.Line)

	mx := records[1]
	require.NotNil(t, mx.TTL)
	assert.Equal(t, uint32(7200), *mx.TTL)
	assert.Equal(t, uint16(10), *mx.Priority)
	assert.Equal(t, "mail.other-domain.example.", mx.Target)

	assert.Equal(t, "www", records[2].Target)
	assert.Equal(t, "hello world", records[3].TXT)
	assert.Equal(t, "issuewild", records[4].CAATag)
	assert.Equal(t, ";", records[4].CAAValue)
}

func TestRecoverOutOfOriginSkips(t *testing.T) {
	text := `ext.other.net. IN HINFO "cpu" "os"
bad.other.net. IN A 999.1.1.1
ok.other.net. IN AAAA 2001:db8::5
`
	f := zonetext.Scan(text, "example.com.")

	records, skipped := RecoverOutOfOrigin(f, "example.com.")
	require.Len(t, records, 1)
	assert.Equal(t, "2001:db8::5", records[0].AddressIPv6)

	require.Len(t, skipped, 2)
	require.ErrorIs(t, skipped[0], ErrUnsupportedType)
	assert.Equal(t, "ext.other.net.", skipped[0].Owner)
	require.ErrorIs(t, skipped[1], ErrMalformed)
	assert.Equal(t, 2, skipped[1].Line)
}

func TestRecoverIgnoresInOrigin(t *testing.T) {
	f := zonetext.Scan("www.example.com. IN A 192.0.2.1\n@ IN A 192.0.2.2\n", "example.com.")

	records, skipped := RecoverOutOfOrigin(f, "example.com.")
	assert.Empty(t, records)
	assert.Empty(t, skipped)
}
