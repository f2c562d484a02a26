package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/opensource-legal/caracara/internal/config"
	"github.com/opensource-legal/caracara/internal/domain"
	"github.com/opensource-legal/caracara/internal/engine"
)

var (
	analyzeInput  string
	analyzeFormat string
	analyzeScores bool
)

// batchFile is the JSON input shape: the engine's own typed records.
type batchFile struct {
	Cases     []domain.CaseRecord    `json:"cases"`
	Witnesses []domain.WitnessRecord `json:"witnesses"`
}

var analyzeCmd = &cobra.Command{
	Use:   "analyze",
	Short: "Analyze a batch of case and witness records",
	Long: `Reads a JSON batch ({"cases": [...], "witnesses": [...]}) of
already-validated records, runs the four pattern detectors, and prints
the analysis. With --scores the weighted score reports are included.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if analyzeInput == "" {
			return fmt.Errorf("--input is required")
		}

		data, err := os.ReadFile(analyzeInput)
		if err != nil {
			return fmt.Errorf("reading batch file: %w", err)
		}
		var batch batchFile
		if err := json.Unmarshal(data, &batch); err != nil {
			return fmt.Errorf("parsing batch file %s: %w", analyzeInput, err)
		}

		cfg, err := config.Load(viper.GetViper())
		if err != nil {
			return err
		}
		eng, err := engine.New(cfg)
		if err != nil {
			return err
		}

		res := eng.Analyze(cmd.Context(), batch.Cases, batch.Witnesses)

		switch analyzeFormat {
		case "json":
			return printJSON(analysisOutput(eng, res, &batch))
		case "text":
			printTextReport(eng, res, &batch)
			return nil
		default:
			return fmt.Errorf("unknown format %q (want json or text)", analyzeFormat)
		}
	},
}

func init() {
	analyzeCmd.Flags().StringVarP(&analyzeInput, "input", "i", "", "JSON batch file")
	analyzeCmd.Flags().StringVarP(&analyzeFormat, "format", "f", "text", "output format: text or json")
	analyzeCmd.Flags().BoolVar(&analyzeScores, "scores", false, "include weighted score reports")
	rootCmd.AddCommand(analyzeCmd)
}

type fullOutput struct {
	Analysis  *domain.AnalysisResult     `json:"analysis"`
	Cases     *domain.CaseScoreReport    `json:"case_scores,omitempty"`
	Witnesses *domain.WitnessScoreReport `json:"witness_scores,omitempty"`
}

func analysisOutput(eng *engine.Engine, res *domain.AnalysisResult, batch *batchFile) fullOutput {
	out := fullOutput{Analysis: res}
	if analyzeScores {
		cases := eng.ScoreAllCases(res, batch.Cases)
		witnesses := eng.ScoreAllWitnesses(res, batch.Witnesses)
		out.Cases = &cases
		out.Witnesses = &witnesses
	}
	return out
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printTextReport(eng *engine.Engine, res *domain.AnalysisResult, batch *batchFile) {
	bold := color.New(color.Bold)

	bold.Println("Análise de padrões de testemunhas")
	fmt.Printf("  processos: %d (ignorados: %d)  testemunhas: %d (ignoradas: %d)\n",
		res.Summary.TotalCases, res.Summary.SkippedCases,
		res.Summary.TotalWitnesses, res.Summary.SkippedWitnesses)
	fmt.Printf("  troca direta: %d  triangulação: %d  duplo papel: %d  prova emprestada: %d\n",
		res.Summary.DirectExchangeCount, res.Summary.TriangulationCount,
		res.Summary.DualRoleCount, res.Summary.BorrowedWitnessCount)
	fmt.Printf("  processos sinalizados: %d\n\n", res.Summary.FlaggedCases)

	for i := range res.DirectExchange {
		m := &res.DirectExchange[i]
		fmt.Printf("  [troca direta] %s ↔ %s (confiança %d)\n", m.ParticipantA, m.ParticipantB, m.Confidence)
	}
	for i := range res.Triangulation {
		m := &res.Triangulation[i]
		fmt.Printf("  [triangulação] %s (confiança %d)\n", m.Path, m.Confidence)
	}
	for i := range res.DualRole {
		m := &res.DualRole[i]
		fmt.Printf("  [duplo papel] %s: %d como reclamante, %d como testemunha (%s)\n",
			m.Name, len(m.CasesAsClaimant), len(m.CasesAsWitness), riskColor(m.Risk))
	}
	for i := range res.BorrowedWitness {
		m := &res.BorrowedWitness[i]
		fmt.Printf("  [prova emprestada] %s: %d depoimentos (%s)\n",
			m.Name, m.TestimonyCount, riskColor(m.Risk))
	}

	if !analyzeScores {
		return
	}

	report := eng.ScoreAllCases(res, batch.Cases)
	fmt.Println()
	bold.Println("Distribuição de scores (processos)")
	d := report.Metrics.Distribution
	fmt.Printf("  %s: %d  %s: %d  %s: %d  %s: %d  %s: %d\n",
		classColor(domain.ClassCritical), d.Critical,
		classColor(domain.ClassHigh), d.High,
		classColor(domain.ClassMedium), d.Medium,
		classColor(domain.ClassLow), d.Low,
		classColor(domain.ClassMinimal), d.Minimal)
}

func riskColor(r domain.RiskTier) string {
	switch r {
	case domain.RiskHigh:
		return color.RedString(string(r))
	case domain.RiskMedium:
		return color.YellowString(string(r))
	default:
		return color.GreenString(string(r))
	}
}

func classColor(c domain.Classification) string {
	switch c {
	case domain.ClassCritical:
		return color.New(color.FgRed, color.Bold).Sprint(string(c))
	case domain.ClassHigh:
		return color.RedString(string(c))
	case domain.ClassMedium:
		return color.YellowString(string(c))
	case domain.ClassLow:
		return color.CyanString(string(c))
	default:
		return color.GreenString(string(c))
	}
}
