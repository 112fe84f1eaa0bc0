package main

import (
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"time"

	"backoffice-api/internal/app"
	"backoffice-api/internal/domain/reminders"
	"backoffice-api/internal/platform/httpclient"

	"github.com/spf13/cobra"
)

func processCmd(load loader) *cobra.Command {
	var remote string

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Ejecuta una pasada de procesamiento de lembretes",
		Long: `Ejecuta una pasada de procesamiento y muestra el resumen en JSON.

Sin --remote corre en este proceso contra el storage configurado.
Con --remote dispara POST /lembretes/webhook en una instancia levantada,
autenticando con PROCESS_TOKEN.

Ejemplos:
  backoffice-api process
  backoffice-api process --remote https://api.example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := load()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			var sum reminders.PassSummary
			if strings.TrimSpace(remote) != "" {
				client, err := httpclient.NewWithOptions(httpclient.Options{
					BaseURL: remote,
					Timeout: time.Minute,
				})
				if err != nil {
					return err
				}
				headers := map[string]string{}
				if tok := cfg.Auth.ProcessToken; tok != "" {
					headers["Authorization"] = "Bearer " + tok
				}
				if err := client.DoJSON(ctx, http.MethodPost, "/lembretes/webhook", headers, nil, &sum); err != nil {
					return err
				}
			} else {
				a, err := app.Build(ctx, cfg, log)
				if err != nil {
					return err
				}
				defer a.Close()

				if sum, err = a.Processor.Run(ctx); err != nil {
					return err
				}
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sum)
		},
	}

	cmd.Flags().StringVar(&remote, "remote", "", "URL base de una instancia levantada")
	return cmd
}
