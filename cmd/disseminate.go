package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
)

var (
	objectRef  string
	outputFile string
	pretty     bool
	asList     bool
)

var disseminateCmd = &cobra.Command{
	Use:   "disseminate <crosswalk>",
	Short: "Render a repository object through a crosswalk",
	Long: `Render a repository object as XML (or the crosswalk's stream format).

The object is a uuid or a handle from the fixture. Output defaults to stdout.

Examples:
  dspace-crosswalk disseminate mods --fixture repo.json --object 123456789/5
  dspace-crosswalk disseminate oai_dc --fixture repo.json --object 123456789/5 --pretty
  dspace-crosswalk disseminate license --fixture repo.json --object 123456789/5 -o license.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runDisseminate,
}

func init() {
	disseminateCmd.Flags().StringVar(&objectRef, "object", "", "Object uuid or handle")
	disseminateCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")
	disseminateCmd.Flags().BoolVar(&pretty, "pretty", false, "Indent XML output")
	disseminateCmd.Flags().BoolVar(&asList, "list", false, "Emit the element list instead of a single root")
	_ = disseminateCmd.MarkFlagRequired("object")
}

func runDisseminate(cmd *cobra.Command, args []string) (err error) {
	ctx := cmd.Context()
	env, err := loadEnv()
	if err != nil {
		return err
	}
	obj, err := env.Store.Resolve(objectRef)
	if err != nil {
		return err
	}
	cw, err := crosswalk.DefaultRegistry.Build(args[0], env)
	if err != nil {
		return err
	}

	out, err := createOutput(outputFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing output file: %w", cerr)
		}
	}()

	switch d := cw.(type) {
	case crosswalk.Disseminator:
		if !d.CanDisseminate(obj) {
			return crosswalk.NotSupported(d.Name(), obj)
		}
		if asList || d.PreferList() {
			elems, err := d.DisseminateList(ctx, obj)
			if err != nil {
				return err
			}
			return crosswalk.Serialize(out, elems, pretty)
		}
		root, err := d.DisseminateElement(ctx, obj)
		if err != nil {
			return err
		}
		return crosswalk.SerializeDocument(out, root, pretty)
	case crosswalk.StreamDisseminator:
		if !d.CanDisseminate(obj) {
			return crosswalk.NotSupported(d.Name(), obj)
		}
		return d.Disseminate(ctx, obj, out)
	}
	return fmt.Errorf("crosswalk %s does not disseminate", cw.Name())
}
