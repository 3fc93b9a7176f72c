package cmd

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var fieldsSchema string

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Inspect the metadata field registry",
}

var fieldsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered metadata fields",
	Long: `List the fields of the metadata registry, optionally for one schema.

Examples:
  dspace-crosswalk fields list
  dspace-crosswalk fields list --schema dc
  dspace-crosswalk fields list --schemas local-fields.yaml --schema local`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"FIELD", "SCOPE NOTE"})
		for _, f := range env.Fields.FieldsOf(fieldsSchema) {
			t.AppendRow(table.Row{f.Name(), f.ScopeNote})
		}
		t.Render()
		return nil
	},
}

var fieldsSchemasCmd = &cobra.Command{
	Use:   "schemas",
	Short: "List registered metadata schemas",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"PREFIX", "NAMESPACE", "FIELDS"})
		for _, s := range env.Fields.Schemas() {
			t.AppendRow(table.Row{s.Prefix, s.Namespace, len(env.Fields.FieldsOf(s.Prefix))})
		}
		t.Render()
		return nil
	},
}

func init() {
	fieldsListCmd.Flags().StringVar(&fieldsSchema, "schema", "", "Only list fields of this schema prefix")
	fieldsCmd.AddCommand(fieldsListCmd)
	fieldsCmd.AddCommand(fieldsSchemasCmd)
}
