// internal/deck/deck.go
//
// Symbol pools that boards are dealt from.
//
// Responsibilities:
//   - Load the embedded default pool (30 emoji) from the assets package.
//   - Optionally load extra pools from a file:
//       *.yaml / *.yml → map of pool name to symbol list
//       anything else  → one symbol per line, replaces the default pool
//   - Look pools up by name, falling back to the default.
//
// Environment variables (read by config, passed in here):
//   DECK_FILE=/path/to/pools.yaml
//
// Constraints:
//   • Symbols are trimmed; blank lines and "#" comments are skipped.
//   • Duplicate symbols inside a pool are dropped (first wins).

package deck

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/robalobadob/memorygame/assets"
	"github.com/robalobadob/memorygame/internal/game"
)

// DefaultPool is the name of the pool used when none is requested.
const DefaultPool = "default"

// Deck is a read-only set of named symbol pools.
type Deck struct {
	pools map[string][]game.FaceValue
}

// Load builds a Deck from the embedded defaults plus the optional file at path.
// An empty path loads the defaults only.
func Load(path string) (*Deck, error) {
	syms, err := assets.SymbolList()
	if err != nil {
		return nil, fmt.Errorf("read embedded symbols: %w", err)
	}
	d := &Deck{pools: map[string][]game.FaceValue{DefaultPool: toFaces(syms)}}
	if path == "" {
		return d, nil
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		extra, err := readYAMLFile(path)
		if err != nil {
			return nil, err
		}
		for name, list := range extra {
			d.pools[name] = toFaces(list)
		}
	default:
		list, err := readSymbolFile(path)
		if err != nil {
			return nil, err
		}
		d.pools[DefaultPool] = toFaces(list)
	}

	if len(d.pools[DefaultPool]) == 0 {
		return nil, errors.New("deck: default pool is empty")
	}
	return d, nil
}

// Pool returns the named pool, or the default pool if name is unknown or empty.
// The returned slice is a copy.
func (d *Deck) Pool(name string) []game.FaceValue {
	p, ok := d.pools[name]
	if !ok {
		p = d.pools[DefaultPool]
	}
	return append([]game.FaceValue(nil), p...)
}

// Has reports whether a pool with this name was loaded.
func (d *Deck) Has(name string) bool {
	_, ok := d.pools[name]
	return ok
}

// Names lists the loaded pools in sorted order.
func (d *Deck) Names() []string {
	out := make([]string, 0, len(d.pools))
	for n := range d.pools {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// Stats returns the symbol count per pool.
func (d *Deck) Stats() map[string]int {
	out := make(map[string]int, len(d.pools))
	for n, p := range d.pools {
		out[n] = len(p)
	}
	return out
}

// NumericPool returns "1".."n" for boards with numbered cards.
func NumericPool(n int) []game.FaceValue {
	out := make([]game.FaceValue, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, game.FaceValue(strconv.Itoa(i)))
	}
	return out
}

// readYAMLFile parses a map of pool name → symbols.
func readYAMLFile(path string) (map[string][]string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	var pools map[string][]string
	if err := yaml.Unmarshal(raw, &pools); err != nil {
		return nil, fmt.Errorf("parse deck file %s: %w", path, err)
	}
	return pools, nil
}

// readSymbolFile loads one symbol per line from a file.
func readSymbolFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("read deck file: %w", err)
	}
	defer f.Close()
	var out []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// toFaces trims, drops blanks and duplicates, and converts to face values.
func toFaces(list []string) []game.FaceValue {
	seen := make(map[string]struct{}, len(list))
	out := make([]game.FaceValue, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, game.FaceValue(s))
	}
	return out
}
