package main

import (
	"encoding/json"
	"io/fs"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	churnform "github.com/goliatone/go-churnform"
)

var (
	schemaFormat  string
	schemaOpenAPI bool
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the form model (or the bundled OpenAPI document)",
	RunE: func(cmd *cobra.Command, args []string) error {
		w := cmd.OutOrStdout()
		if schemaOpenAPI {
			data, err := fs.ReadFile(churnform.SchemaFS(), churnform.SchemaFile)
			if err != nil {
				return eris.Wrap(err, "read schema")
			}
			_, err = w.Write(data)
			return err
		}

		form, err := buildForm(cmd.Context())
		if err != nil {
			return err
		}

		switch schemaFormat {
		case "json":
			enc := json.NewEncoder(w)
			enc.SetIndent("", "  ")
			return enc.Encode(form)
		case "yaml", "":
			// Round-trip through JSON so YAML keys follow the json tags.
			data, err := json.Marshal(form)
			if err != nil {
				return eris.Wrap(err, "encode form")
			}
			var doc any
			if err := yaml.Unmarshal(data, &doc); err != nil {
				return eris.Wrap(err, "convert form")
			}
			enc := yaml.NewEncoder(w)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(doc)
		default:
			return eris.Errorf("unknown format %q (want yaml or json)", schemaFormat)
		}
	},
}

func init() {
	schemaCmd.Flags().StringVar(&schemaFormat, "format", "yaml", "output format: yaml or json")
	schemaCmd.Flags().BoolVar(&schemaOpenAPI, "openapi", false, "print the bundled OpenAPI document instead")
	rootCmd.AddCommand(schemaCmd)
}
