package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/marketops/console/internal/ai"
)

func (rt *runtime) aiCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "ai", Aliases: []string{"ia"}, Short: "Generate copy and images"}
	cmd.AddCommand(rt.aiTextCmd(), rt.aiImageCmd(), rt.aiHistoryCmd())
	return cmd
}

func (rt *runtime) aiTextCmd() *cobra.Command {
	var req ai.TextRequest
	var contentID int64
	cmd := &cobra.Command{
		Use:   "text <prompt>",
		Short: "Generate marketing copy",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studio, err := rt.console.Studio()
			if err != nil {
				return err
			}
			req.Prompt = args[0]
			if cmd.Flags().Changed("content") {
				req.ContentID = &contentID
			}
			res, err := studio.GenerateText(cmd.Context(), req)
			if err != nil {
				return err
			}
			return rt.render(res, func(w io.Writer) { row(w, res.Text) })
		},
	}
	cmd.Flags().StringVar(&req.Tone, "tone", "", "formal, cercano, divertido or inspirador")
	cmd.Flags().StringVar(&req.Format, "format", "", "post, articulo, email or anuncio")
	cmd.Flags().IntVar(&req.MaxWords, "max-words", 0, "word limit")
	cmd.Flags().Int64Var(&contentID, "content", 0, "related content id")
	return cmd
}

func (rt *runtime) aiImageCmd() *cobra.Command {
	var req ai.ImageRequest
	cmd := &cobra.Command{
		Use:   "image <prompt>",
		Short: "Generate an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			studio, err := rt.console.Studio()
			if err != nil {
				return err
			}
			req.Prompt = args[0]
			res, err := studio.GenerateImage(cmd.Context(), req)
			if err != nil {
				return err
			}
			return rt.render(res, func(w io.Writer) { row(w, res.URL) })
		},
	}
	cmd.Flags().StringVar(&req.Style, "style", "", "foto, ilustracion or minimalista")
	cmd.Flags().StringVar(&req.Size, "size", "", "512x512, 1024x1024 or 1024x1792")
	return cmd
}

func (rt *runtime) aiHistoryCmd() *cobra.Command {
	var page int
	var kind string
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List past generations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			studio, err := rt.console.Studio()
			if err != nil {
				return err
			}
			if err := studio.LoadHistory(cmd.Context(), page, kind); err != nil {
				return err
			}
			h := studio.State().History
			return rt.render(h, func(w io.Writer) {
				row(w, "ID", "TIPO", "FECHA", "PROMPT", "RESULTADO")
				for _, e := range h.Data {
					row(w, e.ID, e.Kind, formatTime(e.CreatedAt), truncate(e.Prompt, 40), truncate(e.Result, 60))
				}
			})
		},
	}
	cmd.Flags().IntVar(&page, "page", 1, "page number")
	cmd.Flags().StringVar(&kind, "kind", "", "texto or imagen")
	return cmd
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
