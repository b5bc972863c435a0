package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/cloudist-io/cloudist/internal/emit"
	"github.com/cloudist-io/cloudist/internal/graph"
	"github.com/cloudist-io/cloudist/internal/rules"
	"github.com/cloudist-io/cloudist/internal/synth"
)

var (
	synthOutDir   string
	synthProvider string
)

var synthCmd = &cobra.Command{
	Use:   "synth <diagram.json>",
	Short: "Synthesize Terraform documents from a diagram",
	Long: `Reads a diagram JSON export and writes the synthesized documents
(main.tf, variables.tf, outputs.tf, provider.tf) to the output directory.

Connection suggestions are printed as advisory warnings, never errors.`,
	Args: cobra.ExactArgs(1),
	RunE: runSynth,
}

func init() {
	synthCmd.Flags().StringVarP(&synthOutDir, "out", "o", ".", "Directory to write documents into")
	synthCmd.Flags().StringVar(&synthProvider, "provider", "", "Override the diagram's provider (aws, gcp, azure)")
}

func loadDiagram(path string) (*graph.Diagram, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open diagram: %w", err)
	}
	defer f.Close()

	d, err := graph.DecodeDiagram(f)
	if err != nil {
		return nil, err
	}
	if synthProvider != "" {
		d.Provider = graph.Provider(synthProvider)
	}
	if d.Provider == "" {
		d.Provider = graph.ProviderAWS
	}
	return d, nil
}

func runSynth(cmd *cobra.Command, args []string) error {
	d, err := loadDiagram(args[0])
	if err != nil {
		return err
	}

	out := synth.Synthesize(d)
	docs := emit.RenderDocuments(out)

	if err := os.MkdirAll(synthOutDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	names := make([]string, 0, len(docs))
	for name := range docs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if docs[name] == "" {
			fmt.Printf("skipping %s (empty document)\n", name)
			continue
		}
		path := filepath.Join(synthOutDir, name)
		if err := os.WriteFile(path, []byte(docs[name]), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", name, err)
		}
		fmt.Printf("wrote %s\n", path)
	}

	fmt.Printf("\nSynthesized %d declarations, %d variables, %d outputs\n",
		len(out.Declarations), len(out.Variables), len(out.Outputs))

	for _, diag := range out.Diagnostics {
		fmt.Printf("warning: %s\n", diag)
	}
	for _, s := range rules.Suggestions(d.Nodes, d.Edges, d.Provider) {
		fmt.Printf("suggestion: %s\n", s)
	}
	return nil
}
