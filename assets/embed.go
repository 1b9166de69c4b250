package assets

import (
	"bufio"
	"embed"
	"strings"
)

//go:embed symbols.txt
var FS embed.FS

func readLines(name string) ([]string, error) {
	f, err := FS.Open(name)
	if err != nil {
		return nil, err
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

// SymbolList returns the embedded default symbol pool.
func SymbolList() ([]string, error) {
	return readLines("symbols.txt")
}
