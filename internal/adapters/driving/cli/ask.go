package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docrag/internal/core/ports/driving"
)

var askCmd = &cobra.Command{
	Use:   "ask [question...]",
	Short: "Ask a question about the ingested documents",
	Long: `Retrieve the chunks closest to the question and ask the LLM to answer.
The answer is printed as JSON with the fields respuesta, documento_referencia
and pagina_referencia.

Without a question the configured target question is asked.`,
	Example: `  docrag ask "¿Dónde vive la chinchilla?"
  docrag ask --region Coquimbo "¿Qué proyectos mencionan la chinchilla?"
  docrag ask --target`,
	RunE: runAsk,
}

func init() {
	askCmd.Flags().String("region", "", "only use chunks tagged with this region")
	askCmd.Flags().IntP("k", "k", 0, "number of chunks to retrieve (0 = configured default)")
	askCmd.Flags().Bool("target", false, "ask the configured target question")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	region, _ := cmd.Flags().GetString("region")
	k, _ := cmd.Flags().GetInt("k")
	target, _ := cmd.Flags().GetBool("target")

	svc, err := requireQuery(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	question := strings.TrimSpace(strings.Join(args, " "))
	if target || question == "" {
		return printJSON(cmd, svc.RunTargetQuestion(ctx))
	}

	answer := svc.Query(ctx, question, driving.QueryOptions{Region: region, K: k})
	return printJSON(cmd, answer)
}
