package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v2"

	"github.com/robalobadob/memorygame/internal/deck"
	"github.com/robalobadob/memorygame/internal/game"
)

var dealOpts struct {
	pairs   int
	seed    int64
	pool    string
	numeric bool
	format  string
}

var dealCmd = &cobra.Command{
	Use:   "deal",
	Short: "Print a freshly dealt board snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		return deal(cmd.OutOrStdout())
	},
}

func init() {
	f := dealCmd.Flags()
	f.IntVarP(&dealOpts.pairs, "pairs", "n", 8, "number of pairs")
	f.Int64Var(&dealOpts.seed, "seed", 0, "RNG seed (0 = random)")
	f.StringVar(&dealOpts.pool, "pool", "", "symbol pool name (default from DECK_POOL)")
	f.BoolVar(&dealOpts.numeric, "numeric", false, "use numbered cards instead of a symbol pool")
	f.StringVarP(&dealOpts.format, "format", "f", "json", "output format: json or yaml")
}

func deal(w io.Writer) error {
	var pool []game.FaceValue
	if dealOpts.numeric {
		pool = deck.NumericPool(dealOpts.pairs)
	} else {
		dk, err := deck.Load(cfg.DeckFile)
		if err != nil {
			return fmt.Errorf("load deck: %w", err)
		}
		name := dealOpts.pool
		if name == "" {
			name = cfg.DeckPool
		}
		pool = dk.Pool(name)
	}

	seed := dealOpts.seed
	if seed == 0 {
		s, err := game.NewSeed()
		if err != nil {
			return err
		}
		seed = s
	}
	b, err := game.New(dealOpts.pairs, pool, game.NewRand(seed))
	if err != nil {
		return err
	}
	return writeSnapshot(w, b.Snapshot(), dealOpts.format)
}

func writeSnapshot(w io.Writer, s game.Snapshot, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case "yaml", "yml":
		out, err := yaml.Marshal(s)
		if err != nil {
			return err
		}
		_, err = w.Write(out)
		return err
	}
	return fmt.Errorf("unknown format %q", format)
}
