// Command barohead-query answers questions about a built crafting database:
// how an item is made, what consumes it, what yields it, and which items
// match a name.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"

	"barohead/internal/blob"
	"barohead/internal/config"
	"barohead/internal/export"
	"barohead/internal/persist"
	"barohead/pkg/itemdb"
)

var exitFunc = os.Exit

var (
	errUsage       = errors.New("usage")
	errUnknownItem = errors.New("unknown item")
)

const usage = `usage: barohead-query [flags] <command> <arg>

commands:
  item ID          show the recipes of an item
  used-by ID       list recipes consuming an item
  produced-by ID   list recipes yielding an item
  search QUERY     find items by name or identifier
`

func main() {
	code := cli(os.Args[1:], os.Stdout, os.Stderr)
	exitFunc(code)
}

type options struct {
	dbPath     string
	configPath string
	language   string
	limit      int
	json       bool
}

func cli(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("barohead-query", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprint(stderr, usage, "\nflags:\n")
		fs.PrintDefaults()
	}
	var o options
	fs.StringVar(&o.dbPath, "db", "", "database JSON file; when empty the configured storage or latest published database is used")
	fs.StringVar(&o.configPath, "config", "", "path to a YAML config file")
	fs.StringVar(&o.language, "lang", "English", "language used for display names")
	fs.IntVar(&o.limit, "limit", 10, "maximum search results (0 = all)")
	fs.BoolVar(&o.json, "json", false, "print results as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return 2
	}

	err := run(context.Background(), o, fs.Arg(0), fs.Arg(1), stdout)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errUsage):
		_, _ = fmt.Fprintf(stderr, "barohead-query: %v\n", err)
		return 2
	default:
		_, _ = fmt.Fprintf(stderr, "barohead-query: %v\n", err)
		return 1
	}
}

func run(ctx context.Context, o options, command, arg string, w io.Writer) error {
	switch command {
	case "item", "used-by", "produced-by", "search":
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, command)
	}
	db, err := loadDatabase(ctx, o)
	if err != nil {
		return err
	}
	p := printer{w: w, db: db, lang: o.language, json: o.json}
	switch command {
	case "item":
		item, ok := db.Item(arg)
		if !ok {
			return fmt.Errorf("%w %q", errUnknownItem, arg)
		}
		return p.item(item)
	case "used-by", "produced-by":
		if _, ok := db.Item(arg); !ok {
			return fmt.Errorf("%w %q", errUnknownItem, arg)
		}
		idx := itemdb.BuildIndex(db)
		refs := idx.UsedBy(arg)
		if command == "produced-by" {
			refs = idx.ProducedBy(arg)
		}
		return p.refs(refs)
	default:
		return p.search(itemdb.Search(db, o.language, arg, o.limit))
	}
}

// loadDatabase prefers -db, then the snapshot store, then the latest
// published database.
func loadDatabase(ctx context.Context, o options) (*itemdb.Database, error) {
	if o.dbPath != "" {
		f, err := os.Open(o.dbPath)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		defer func() { _ = f.Close() }()
		return itemdb.Decode(f)
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errUsage, err)
	}
	if opts, ok := cfg.Persist(); ok {
		store, err := persist.Open(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("open storage: %w", err)
		}
		defer func() { _ = store.Close() }()
		return store.Load(ctx)
	}
	if opts, ok := cfg.OutputBlob(); ok {
		store, err := blob.Open(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("open output store: %w", err)
		}
		db, _, err := export.Latest(ctx, store, cfg.Output.Prefix)
		return db, err
	}
	return nil, fmt.Errorf("%w: no database; pass -db or configure storage or output", errUsage)
}

type printer struct {
	w    io.Writer
	db   *itemdb.Database
	lang string
	json bool
}

func (p printer) encode(v any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (p printer) item(item *itemdb.Item) error {
	if p.json {
		return p.encode(item)
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)\n", p.db.DisplayName(item.ID, p.lang), item.ID)
	for i, f := range item.Fabricate {
		fmt.Fprintf(&b, "fabricate #%d: %gs", i, f.Time)
		if len(f.SuitableFabricators) > 0 {
			fmt.Fprintf(&b, " at %s", strings.Join(f.SuitableFabricators, ", "))
		}
		if f.Amount != 1 {
			fmt.Fprintf(&b, ", yields %d", f.Amount)
		}
		if f.RequiresRecipe {
			b.WriteString(", requires recipe")
		}
		b.WriteString("\n")
		p.requirements(&b, f.RequiredItems, f.RequiredSkills)
	}
	for i, d := range item.Deconstruct {
		fmt.Fprintf(&b, "deconstruct #%d: %gs\n", i, d.Time)
		p.requirements(&b, d.RequiredItems, d.RequiredSkills)
		for _, out := range d.Items {
			fmt.Fprintf(&b, "  yields %d x %s\n", out.Amount, p.db.DisplayName(out.ID, p.lang))
		}
	}
	if !item.HasRecipes() {
		b.WriteString("no recipes\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p printer) requirements(b *strings.Builder, items []itemdb.RequiredItem, skills itemdb.SkillRequirements) {
	for _, req := range items {
		name := req.Item.String()
		if id, ok := req.Item.ID(); ok {
			name = p.db.DisplayName(id, p.lang)
		} else if tag, ok := req.Item.Tag(); ok {
			name = "any " + tag
		}
		fmt.Fprintf(b, "  needs %d x %s\n", req.Amount, name)
	}
	for _, skill := range slices.Sorted(maps.Keys(skills)) {
		if lvl := skills[skill]; lvl != nil {
			fmt.Fprintf(b, "  skill %s %d\n", skill, *lvl)
		} else {
			fmt.Fprintf(b, "  skill %s\n", skill)
		}
	}
}

func (p printer) refs(refs []itemdb.ProcessRef) error {
	if p.json {
		if refs == nil {
			refs = []itemdb.ProcessRef{}
		}
		return p.encode(refs)
	}
	var b strings.Builder
	for _, ref := range refs {
		fmt.Fprintf(&b, "%s #%d of %s (%s)\n", ref.Kind, ref.Idx, p.db.DisplayName(ref.ItemID, p.lang), ref.ItemID)
	}
	if len(refs) == 0 {
		b.WriteString("none\n")
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}

func (p printer) search(results []itemdb.SearchResult) error {
	if p.json {
		if results == nil {
			results = []itemdb.SearchResult{}
		}
		return p.encode(results)
	}
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s\t%s\n", r.ID, r.Name)
	}
	_, err := io.WriteString(p.w, b.String())
	return err
}
