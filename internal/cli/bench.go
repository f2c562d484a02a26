package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opensource-legal/caracara/internal/config"
	"github.com/opensource-legal/caracara/internal/engine"
	"github.com/opensource-legal/caracara/internal/generator"
)

var (
	benchCases int
	benchSeed  int64
	benchRuns  int
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Benchmark the engine on a synthetic batch",
	Long: `Generates a synthetic batch with injected collusion patterns and
times repeated analysis runs. The same seed always generates the same
batch, so results are comparable across machines and versions.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		genCfg := generator.DefaultConfig()
		genCfg.NumCases = benchCases
		genCfg.Seed = benchSeed
		batch := generator.New(genCfg).Generate()

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}

		fmt.Printf("batch: %d cases, %d witnesses (seed %d)\n",
			len(batch.Cases), len(batch.Witnesses), genCfg.Seed)

		var total time.Duration
		for i := 0; i < benchRuns; i++ {
			start := time.Now()
			res := eng.Analyze(cmd.Context(), batch.Cases, batch.Witnesses)
			elapsed := time.Since(start)
			total += elapsed
			if i == 0 {
				fmt.Printf("matches: troca=%d triangulacao=%d duplo=%d emprestada=%d\n",
					res.Summary.DirectExchangeCount, res.Summary.TriangulationCount,
					res.Summary.DualRoleCount, res.Summary.BorrowedWitnessCount)
			}
		}

		fmt.Printf("runs: %d  avg: %s\n", benchRuns, total/time.Duration(benchRuns))
		return nil
	},
}

func init() {
	benchCmd.Flags().IntVar(&benchCases, "cases", 1000, "number of background cases")
	benchCmd.Flags().Int64Var(&benchSeed, "seed", 1, "generator seed")
	benchCmd.Flags().IntVar(&benchRuns, "runs", 5, "analysis runs to average")
	rootCmd.AddCommand(benchCmd)
}
