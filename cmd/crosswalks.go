package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

var crosswalksCmd = &cobra.Command{
	Use:   "crosswalks",
	Short: "Inspect the registered crosswalks",
}

var crosswalksListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered crosswalks and what they can do",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		infos, err := crosswalk.DefaultRegistry.Describe(env)
		if err != nil {
			return err
		}

		t := table.NewWriter()
		t.SetStyle(table.StyleLight)
		t.SetOutputMirror(cmd.OutOrStdout())
		t.AppendHeader(table.Row{"NAME", "DISSEMINATE", "INGEST", "DESCRIPTION"})
		for _, info := range infos {
			t.AppendRow(table.Row{info.Name, capability(info.Disseminate, info.StreamDisseminate), capability(info.Ingest, info.StreamIngest), info.Description})
		}
		t.Render()
		return nil
	},
}

func capability(xml, stream bool) string {
	switch {
	case xml && stream:
		return "xml, stream"
	case xml:
		return "xml"
	case stream:
		return "stream"
	}
	return "-"
}

var crosswalksShowCmd = &cobra.Command{
	Use:   "show <crosswalk>",
	Short: "Show the namespaces and capabilities of a crosswalk",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := loadEnv()
		if err != nil {
			return err
		}
		infos, err := crosswalk.DefaultRegistry.Describe(env)
		if err != nil {
			return err
		}
		name := strings.ToLower(args[0])
		i := sort.Search(len(infos), func(i int) bool { return infos[i].Name >= name })
		if i == len(infos) || infos[i].Name != name {
			return fmt.Errorf("unknown crosswalk: %s", args[0])
		}
		info := infos[i]

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Name:         %s\n", info.Name)
		fmt.Fprintf(out, "Description:  %s\n", info.Description)
		fmt.Fprintf(out, "Disseminate:  %s\n", capability(info.Disseminate, info.StreamDisseminate))
		fmt.Fprintf(out, "Ingest:       %s\n", capability(info.Ingest, info.StreamIngest))
		if info.SchemaLocation != "" {
			fmt.Fprintf(out, "Schema:       %s\n", info.SchemaLocation)
		}
		if len(info.Namespaces) > 0 {
			t := table.NewWriter()
			t.SetStyle(table.StyleLight)
			t.SetOutputMirror(out)
			t.AppendHeader(table.Row{"PREFIX", "URI"})
			for _, ns := range info.Namespaces {
				t.AppendRow(table.Row{ns.Prefix, ns.URI})
			}
			t.Render()
		}
		return nil
	},
}

func init() {
	crosswalksCmd.AddCommand(crosswalksListCmd)
	crosswalksCmd.AddCommand(crosswalksShowCmd)
}
