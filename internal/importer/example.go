package importer

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/GoPowerDNS-Admin/zone-importer/internal/config"
	"github.com/GoPowerDNS-Admin/zone-importer/internal/sink"
)

// ExampleZone is the sample zone of the example command.
const ExampleZone = `$ORIGIN example.com.
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

// RunExample imports ExampleZone into a memory sink and prints the zone and its records to w.
func RunExample(ctx context.Context, w io.Writer) (*sink.Memory, error) {
	dir, err := os.MkdirTemp("", "zone-importer-example-")
	if err != nil {
		return nil, errors.Wrap(err, "create example directory")
	}

	defer func() { _ = os.RemoveAll(dir) }()

	if err := os.WriteFile(filepath.Join(dir, "example.com.zone"), []byte(ExampleZone), 0o600); err != nil { //nolint:mnd
		return nil, errors.Wrap(err, "write example zone")
	}

	mem := sink.NewMemory()

	im, err := New(config.Import{Dir: dir}, mem)
	if err != nil {
		return nil, err
	}

	if err := im.ImportDirectory(ctx, dir); err != nil {
		return nil, err
	}

	if !im.Stats().Success() {
		return mem, errors.Errorf("example import finished with %d errors", im.Stats().Errors)
	}

	_, _ = fmt.Fprint(w, "Sample zone content:\n\n"+ExampleZone+"\n")

	for _, z := range mem.Zones() {
		_, _ = fmt.Fprintf(w, "Zone %s (origin %s, default TTL %d", z.Name, z.Origin, z.DefaultTTL)
		if z.SOA != nil {
			_, _ = fmt.Fprintf(w, ", serial %d", z.SOA.Serial)
		}

		records := mem.Records(z.ID)
		_, _ = fmt.Fprintf(w, "), %d records:\n", len(records))

		for _, r := range records {
			ttl := "-"
			if r.TTL != nil {
				ttl = fmt.Sprint(*r.TTL)
			}

			_, _ = fmt.Fprintf(w, "  - %s %s IN %s %s\n", r.Owner, ttl, r.Type, r.Value)
		}
	}

	return mem, nil
}
