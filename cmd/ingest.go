package cmd

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/beevik/etree"
	"github.com/karrick/godirwalk"
	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"
	"golang.org/x/sync/errgroup"

	"github.com/lehigh-university-libraries/dspace-crosswalk/content"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk"
	"github.com/lehigh-university-libraries/dspace-crosswalk/crosswalk/dim"
)

var (
	ingestInput   string
	ingestDir     string
	ingestWorkers int
	ingestPretty  bool
	createMissing bool
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <crosswalk>",
	Short: "Apply metadata to a repository object through a crosswalk",
	Long: `Apply an XML document (or the crosswalk's stream format) to an object
and print the object's resulting metadata as DIM.

With --dir every .xml file under the directory is ingested into a new item
of the collection given by --object. Files are parsed by --workers workers.

Examples:
  dspace-crosswalk ingest qdc --fixture repo.json --object 123456789/5 -i qdc.xml
  dspace-crosswalk ingest mods --fixture repo.json --object 123456789/2 --dir records/ --workers 8
  dspace-crosswalk ingest license --fixture repo.json --object 123456789/5 -i license.txt`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().StringVar(&objectRef, "object", "", "Object uuid or handle")
	ingestCmd.Flags().StringVarP(&ingestInput, "input", "i", "", "Input file (default: stdin)")
	ingestCmd.Flags().StringVar(&ingestDir, "dir", "", "Ingest every .xml file under this directory")
	ingestCmd.Flags().IntVar(&ingestWorkers, "workers", 4, "Parallel parsers for --dir")
	ingestCmd.Flags().BoolVar(&createMissing, "create-missing", false, "Create unknown metadata fields")
	ingestCmd.Flags().BoolVar(&ingestPretty, "pretty", true, "Indent DIM output")
	_ = ingestCmd.MarkFlagRequired("object")
}

func runIngest(cmd *cobra.Command, args []string) (err error) {
	ctx := slogcontext.With(cmd.Context(), "crosswalk", args[0])
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
	out := cmd.OutOrStdout()

	if ingestDir != "" {
		col, ok := obj.(*content.Collection)
		if !ok {
			return fmt.Errorf("--dir needs a collection, got %s", content.Describe(obj))
		}
		in, ok := cw.(crosswalk.Ingester)
		if !ok {
			return fmt.Errorf("crosswalk %s does not ingest XML", cw.Name())
		}
		return ingestDirectory(ctx, env, in, col, out)
	}

	r, err := openInput(ingestInput)
	if err != nil {
		return err
	}
	defer r.Close()
	if err := ingestOne(ctx, cw, obj, r, ingestInput); err != nil {
		return err
	}
	return writeDIM(out, obj)
}

// ingestOne applies r to obj with an XML ingester, falling back to a stream
// ingester.
func ingestOne(ctx context.Context, cw crosswalk.Crosswalk, obj content.Object, r io.Reader, name string) error {
	switch in := cw.(type) {
	case crosswalk.Ingester:
		root, err := crosswalk.Parse(r)
		if err != nil {
			return err
		}
		return in.Ingest(ctx, obj, root, createMissing)
	case crosswalk.StreamIngester:
		mimeType := in.IngestMIMEType()
		if ext := filepath.Ext(name); ext != "" {
			if t := mime.TypeByExtension(ext); t != "" {
				mimeType = t
			}
		}
		return in.Ingest(ctx, obj, r, mimeType)
	}
	return fmt.Errorf("crosswalk %s does not ingest", cw.Name())
}

func ingestDirectory(ctx context.Context, env *crosswalk.Env, in crosswalk.Ingester, col *content.Collection, out io.Writer) error {
	var paths []string
	err := godirwalk.Walk(ingestDir, &godirwalk.Options{
		Callback: func(path string, de *godirwalk.Dirent) error {
			if de.IsRegular() && strings.EqualFold(filepath.Ext(path), ".xml") {
				paths = append(paths, path)
			}
			return nil
		},
		Unsorted: true,
	})
	if err != nil {
		return fmt.Errorf("walking %s: %w", ingestDir, err)
	}
	sort.Strings(paths)
	slogcontext.Log(ctx, slog.LevelInfo, "ingesting directory", "dir", ingestDir, "files", len(paths))

	results := make([]*content.Item, len(paths))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	if ingestWorkers > 0 {
		g.SetLimit(ingestWorkers)
	}
	for i, path := range paths {
		g.Go(func() error {
			data, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			root, err := crosswalk.Parse(bytes.NewReader(data))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			// the store and the field registry are shared; ingest one file at a time
			mu.Lock()
			defer mu.Unlock()
			item := env.Store.NewItem(col, nil)
			fctx := slogcontext.With(gctx, "file", path)
			if err := in.Ingest(fctx, item, root, createMissing); err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			results[i] = item
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, item := range results {
		if _, err := fmt.Fprintf(out, "<!-- %s -->\n", paths[i]); err != nil {
			return err
		}
		if err := writeDIM(out, item); err != nil {
			return err
		}
	}
	return nil
}

// writeDIM prints the metadata of obj as a dim:dim document.
func writeDIM(w io.Writer, obj content.Object) error {
	root := dim.Build(obj.Type(), obj.Base().AllMetadata())
	return crosswalk.Serialize(w, []*etree.Element{root}, ingestPretty)
}
