package commands

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"leedsbot-backend/internal/services"
)

// ExtractCommand prints the text the upload pipeline would store for a file.
func ExtractCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "extract <file>",
		Short: "Extract text from a PDF, DOCX or text file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}

			sniff := data
			if len(sniff) > 512 {
				sniff = sniff[:512]
			}
			text, mime, err := services.NewFileExtractService().Extract(filepath.Base(args[0]), http.DetectContentType(sniff), data)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.ErrOrStderr(), "mime: %s, chars: %d\n", mime, len([]rune(text)))
			fmt.Fprintln(cmd.OutOrStdout(), text)
			return nil
		},
	}
}
