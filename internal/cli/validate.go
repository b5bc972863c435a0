package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudist-io/cloudist/internal/emit"
	"github.com/cloudist-io/cloudist/internal/review"
	"github.com/cloudist-io/cloudist/internal/rules"
	"github.com/cloudist-io/cloudist/internal/synth"
)

var validateMinScore int

var validateCmd = &cobra.Command{
	Use:   "validate <diagram.json>",
	Short: "Synthesize in-memory and report consistency",
	Long: `Runs a full synthesis pass without writing files, verifies the
rendered documents, and prints the review report. Exits non-zero when the
score falls below --min-score.`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().IntVar(&validateMinScore, "min-score", 70, "Minimum acceptable review score")
	validateCmd.Flags().StringVar(&synthProvider, "provider", "", "Override the diagram's provider (aws, gcp, azure)")
}

func runValidate(cmd *cobra.Command, args []string) error {
	d, err := loadDiagram(args[0])
	if err != nil {
		return err
	}

	out := synth.Synthesize(d)
	docs := emit.RenderDocuments(out)
	suggestions := rules.Suggestions(d.Nodes, d.Edges, d.Provider)

	reviewer := review.NewStaticReviewer(out, suggestions)
	report, err := reviewer.Review(docs)
	if err != nil {
		return fmt.Errorf("review failed: %w", err)
	}

	fmt.Printf("Score: %d/100\n", report.Score)
	if len(report.Issues) > 0 {
		fmt.Println("\nIssues:")
		for _, issue := range report.Issues {
			fmt.Printf("  - %s\n", issue)
		}
	}
	if len(report.Recommendations) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range report.Recommendations {
			fmt.Printf("  - %s\n", rec)
		}
	}

	if report.Score < validateMinScore {
		return fmt.Errorf("review score %d below minimum %d", report.Score, validateMinScore)
	}
	return nil
}
