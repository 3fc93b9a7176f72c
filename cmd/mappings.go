package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var mappingsCmd = &cobra.Command{
	Use:   "mappings",
	Short: "Inspect mapping profiles",
	Long:  `List and inspect the field tables the mapping-driven crosswalks use.`,
}

var mappingsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List available mapping profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}

		names := env.Profiles.List()
		if len(names) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No profiles found")
			return nil
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"PROFILE", "FORMAT", "FIELDS", "DESCRIPTION"})
		for _, name := range names {
			p, _ := env.Profiles.Get(name)
			t.AppendRow(table.Row{p.VersionedName(), p.Format, len(p.Fields) + len(p.Values), p.Description})
		}
		t.Render()
		return nil
	},
}

var mappingsShowCmd = &cobra.Command{
	Use:   "show <profile>",
	Short: "Show a mapping profile as YAML",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		p, err := env.Profiles.MustGet(args[0])
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(p)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var mappingsFieldsCmd = &cobra.Command{
	Use:   "fields <profile>",
	Short: "List the field mappings of a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		p, err := env.Profiles.MustGet(args[0])
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(cmd.OutOrStdout())
		if len(p.Fields) == 0 {
			// value tables such as the MODS type converter
			t.AppendHeader(table.Row{"KEY", "VALUE"})
			keys := make([]string, 0, len(p.Values))
			for k := range p.Values {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				t.AppendRow(table.Row{k, p.Values[k]})
			}
			if p.Default != "" {
				t.AppendFooter(table.Row{"(default)", p.Default})
			}
			t.Render()
			return nil
		}

		t.AppendHeader(table.Row{"DSPACE FIELD", "TARGET", "OPTIONS"})
		for _, field := range p.FieldNames() {
			m := p.Fields[field]
			var opts []string
			if m.Scheme != "" {
				opts = append(opts, "scheme:"+m.Scheme)
			}
			if m.Role != "" {
				opts = append(opts, "role:"+m.Role)
			}
			if m.Transform != "" {
				opts = append(opts, "transform:"+m.Transform)
			}
			if m.Priority != 0 {
				opts = append(opts, fmt.Sprintf("priority:%d", m.Priority))
			}
			if m.DisseminateOnly {
				opts = append(opts, "disseminate-only")
			}
			t.AppendRow(table.Row{field, m.Key(), strings.Join(opts, ", ")})
		}
		t.Render()
		return nil
	},
}

func init() {
	mappingsCmd.AddCommand(mappingsListCmd)
	mappingsCmd.AddCommand(mappingsShowCmd)
	mappingsCmd.AddCommand(mappingsFieldsCmd)
}
