package cmd

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/lehigh-university-libraries/dspace-crosswalk/config"
	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/schema"
)

var (
	validateInput   string
	validateVerbose bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <crosswalk>",
	Short: "Check a document against the metadata registry without changing anything",
	Long: `Ingest a document into a scratch item and report every metadata field
it would need that the registry does not define.

The fixture is never modified: a copy of the field registry is used and
missing fields are created there only. The command fails when any field
is missing.

Examples:
  dspace-crosswalk validate qdc -i record.xml
  dspace-crosswalk validate mods -i record.xml --schemas local-fields.yaml -v`,
	Args: cobra.ExactArgs(1),
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateInput, "input", "i", "", "Input file (default: stdin)")
	validateCmd.Flags().BoolVarP(&validateVerbose, "verbose", "v", false, "Also print the values the document produced")
}

func runValidate(cmd *cobra.Command, args []string) error {
	ctx := slogcontext.With(cmd.Context(), "crosswalk", args[0])
	env, err := loadEnv()
	if err != nil {
		return err
	}

	scratchFields := schema.NewRegistry()
	scratchFields.Merge(env.Fields)
	cfg := *env.Config
	cfg.MissingField = config.MissingFieldAdd
	store := content.NewStore(cfg.HandlePrefix, cfg.SiteName)
	scratch := crosswalk.NewEnv(store, scratchFields, &cfg, env.Profiles)

	cw, err := crosswalk.DefaultRegistry.Build(args[0], scratch)
	if err != nil {
		return err
	}
	r, err := openInput(validateInput)
	if err != nil {
		return err
	}
	defer r.Close()

	item := store.NewItem(nil, nil)
	if err := ingestOne(ctx, cw, item, r, validateInput); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	values := item.AllMetadata()
	if validateVerbose {
		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(out)
		t.AppendHeader(table.Row{"FIELD", "LANG", "VALUE"})
		for _, v := range values {
			t.AppendRow(table.Row{v.Field.String(), v.Language, v.Value})
		}
		t.Render()
	}

	var missing []string
	seen := make(map[string]bool)
	for _, v := range values {
		name := v.Field.String()
		if seen[name] {
			continue
		}
		seen[name] = true
		if _, ok := env.Fields.FieldByName(name); !ok {
			missing = append(missing, name)
		}
	}

	fmt.Fprintf(out, "%d values in %d fields\n", len(values), len(seen))
	if len(missing) > 0 {
		fmt.Fprintf(out, "Fields not in the registry:\n")
		for _, name := range missing {
			fmt.Fprintf(out, "  %s\n", name)
		}
		return fmt.Errorf("%d unknown metadata fields: %s", len(missing), strings.Join(missing, ", "))
	}
	fmt.Fprintln(out, "OK")
	return nil
}
