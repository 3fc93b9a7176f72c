package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lehigh-university-libraries/dspace-crosswalk/patch"
	"github.com/lehigh-university-libraries/dspace-crosswalk/rest"
)

var patchInput string

var patchCmd = &cobra.Command{
	Use:   "patch <model> [id]",
	Short: "Apply a JSON Patch document to a repository object",
	Long: `Apply a JSON Patch (RFC 6902) document to an object and print the
object as the REST API would return it.

The model is the name of a REST endpoint: items, bitstreams, bundles,
collections, communities, sites, epersons, groups, profiles, subscriptions,
resourcepolicies, boxes or tabs. The id is a uuid, or a number for
subscriptions, resourcepolicies, boxes and tabs. "patch bitstreams" without
an id patches the bitstreams endpoint itself (bulk delete).

Examples:
  dspace-crosswalk patch items 0a2c... --fixture repo.json -i ops.json
  echo '[{"op":"replace","path":"/withdrawn","value":true}]' | dspace-crosswalk patch items 0a2c... --fixture repo.json
  dspace-crosswalk patch boxes 12 --fixture repo.json -i box.json`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runPatch,
}

func init() {
	patchCmd.Flags().StringVarP(&patchInput, "input", "i", "", "Patch document (default: stdin)")
}

func runPatch(cmd *cobra.Command, args []string) error {
	env, err := loadEnv()
	if err != nil {
		return err
	}
	model := strings.ToLower(args[0])

	var obj any
	switch {
	case len(args) == 2:
		if obj, err = rest.Find(env.Store, model, args[1]); err != nil {
			return err
		}
	case model == "bitstreams":
		obj = env.Store.Site()
	default:
		return fmt.Errorf("patch %s needs an id", model)
	}

	r, err := openInput(patchInput)
	if err != nil {
		return err
	}
	defer r.Close()
	body, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("reading patch: %w", err)
	}
	ops, err := patch.Decode(body)
	if err != nil {
		return err
	}

	penv := &patch.Env{Store: env.Store, Fields: env.Fields, Config: env.Config}
	if err := patch.Apply(cmd.Context(), penv, model, obj, ops); err != nil {
		return fmt.Errorf("patch failed (%d): %w", patch.StatusOf(err), err)
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(rest.View(env.Store, obj))
}
