package gen

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"
)

const (
	DEFAULT_KEYS = 413
	DEFAULT_SKEW = 1.1

	MAX_VALUE = 999 // tenths
)

var baseStations = []string{
	"Abha", "Abidjan", "Accra", "Addis Ababa", "Adelaide", "Albuquerque",
	"Alexandria", "Amsterdam", "Anchorage", "Ashgabat", "Athens", "Auckland",
	"Baghdad", "Bangkok", "Barcelona", "Beijing", "Belgrade", "Bergen",
	"Bogotá", "Bulawayo", "Cairo", "Cape Town", "Chihuahua", "Dakar",
	"Dhaka", "Dublin", "Hamburg", "Helsinki", "Ho Chi Minh City", "Honolulu",
	"Istanbul", "İzmir", "Jakarta", "Kinshasa", "Kyoto", "Las Palmas de Gran Canaria",
	"Lima", "Ljubljana", "Mexico City", "Montreal", "Napoli", "Oslo",
	"Reykjavík", "São Paulo", "St. John's", "Tokyo", "Ürümqi", "Zürich",
}

type Config struct {
	Rows int
	// Keys is the number of distinct stations to draw from.
	Keys int
	// Skew is the Zipf exponent; it must be > 1.
	Skew float64
	Seed uint64
}

func DefaultConfig() Config {
	return Config{
		Rows: 1_000_000,
		Keys: DEFAULT_KEYS,
		Skew: DEFAULT_SKEW,
		Seed: 1,
	}
}

// Generate writes cfg.Rows records of the form <station>;<value>\n.
// Values have one fractional digit and lie in [-99.9, 99.9].
func Generate(w io.Writer, cfg Config) error {
	if cfg.Keys <= 0 {
		return fmt.Errorf("invalid key count %d", cfg.Keys)
	}
	if cfg.Skew <= 1 {
		return fmt.Errorf("invalid skew %.3f: must be > 1", cfg.Skew)
	}

	r := rand.New(rand.NewSource(cfg.Seed))
	keys := Stations(cfg.Keys)
	zipf := rand.NewZipf(r, cfg.Skew, 1, uint64(len(keys)-1))

	bw := bufio.NewWriterSize(w, 1024*1024)
	buf := make([]byte, 0, 128)

	for range cfg.Rows {
		buf = append(buf[:0], keys[zipf.Uint64()]...)
		buf = append(buf, ';')
		v := float64(r.Intn(2*MAX_VALUE+1)-MAX_VALUE) / 10
		buf = strconv.AppendFloat(buf, v, 'f', 1, 64)
		buf = append(buf, '\n')

		if _, err := bw.Write(buf); err != nil {
			return fmt.Errorf("unable to write record: %w", err)
		}
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("unable to flush records: %w", err)
	}
	return nil
}

// GenerateFile writes the records to a new file at path. The file is closed
// before returning and a failed close is reported, since buffered data may
// be lost with it.
func GenerateFile(path string, cfg Config) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	return generateAndClose(f, cfg)
}

func generateAndClose(wc io.WriteCloser, cfg Config) error {
	if err := Generate(wc, cfg); err != nil {
		return errors.Join(err, wc.Close())
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("unable to close output file: %w", err)
	}
	return nil
}

// Stations returns n distinct station names in a stable order. Names past
// the built-in list get a numeric suffix.
func Stations(n int) []string {
	seen := make(map[string]struct{}, n)
	for i := 0; len(seen) < n; i++ {
		name := baseStations[i%len(baseStations)]
		if i >= len(baseStations) {
			name = fmt.Sprintf("%s %d", name, i/len(baseStations))
		}
		seen[name] = struct{}{}
	}

	names := maps.Keys(seen)
	slices.Sort(names)
	return names
}
