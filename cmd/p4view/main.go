// p4view reads Perforce tagged output and prints it through a node shape
package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/nainya/depotview/internal/logger"
	"github.com/nainya/depotview/pkg/history"
	"github.com/nainya/depotview/pkg/query"
	"github.com/nainya/depotview/pkg/result"
	"github.com/nainya/depotview/pkg/revision"
	"github.com/nainya/depotview/pkg/view"
	"github.com/nainya/depotview/pkg/ztag"
)

const usage = `usage: p4view <command> [flags] [args]

commands:
  parse <spec>...     parse revision specifiers
  show [flags]        project tagged output through a shape
  resolve <spec>      resolve a specifier against filelog or fstat output
  shapes              list the available shapes
`

// filters collects repeated -where flags
type filters []string

func (f *filters) String() string     { return strings.Join(*f, ",") }
func (f *filters) Set(v string) error { *f = append(*f, v); return nil }

// usageError marks a mistake on the command line rather than in the input.
type usageError struct {
	err error
	// reported is set when the flag package has already printed it
	reported bool
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usagef(format string, args ...any) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// parseFlags wraps flag errors other than -h as usage errors.
func parseFlags(fs *flag.FlagSet, args []string) error {
	err := fs.Parse(args)
	if err == nil || errors.Is(err, flag.ErrHelp) {
		return err
	}
	return &usageError{err: err, reported: true}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 {
		fmt.Fprint(stderr, usage)
		return 2
	}

	var err error
	switch args[0] {
	case "parse":
		err = runParse(args[1:], stdout, stderr)
	case "show":
		err = runShow(args[1:], stdin, stdout, stderr)
	case "resolve":
		err = runResolve(args[1:], stdin, stdout, stderr)
	case "shapes":
		for _, name := range view.Shapes() {
			fmt.Fprintln(stdout, name)
		}
	case "help", "-h", "-help", "--help":
		fmt.Fprint(stdout, usage)
	default:
		fmt.Fprintf(stderr, "p4view: unknown command %q\n", args[0])
		fmt.Fprint(stderr, usage)
		return 2
	}

	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	var ue *usageError
	if errors.As(err, &ue) {
		if !ue.reported {
			fmt.Fprintf(stderr, "p4view: %v\n", ue)
		}
		return 2
	}
	if err != nil {
		fmt.Fprintf(stderr, "p4view: %v\n", err)
		return 1
	}
	return 0
}

func newLogger(stderr io.Writer, verbose bool) *logger.Logger {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return logger.NewLogger(logger.Config{Level: level, Pretty: true, Output: stderr})
}

func runParse(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(stderr)
	asJSON := fs.Bool("json", false, "Print one JSON object per specifier")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() == 0 {
		return usagef("parse: no specifiers given")
	}

	enc := json.NewEncoder(stdout)
	failed := 0
	for _, text := range fs.Args() {
		r, ok := revision.Parse(text)
		if !ok {
			failed++
		}
		if *asJSON {
			if err := enc.Encode(map[string]any{
				"text":      text,
				"matched":   ok,
				"kind":      r.Kind().String(),
				"canonical": r.String(),
			}); err != nil {
				return err
			}
			continue
		}
		if !ok {
			fmt.Fprintf(stdout, "%s\tinvalid\n", text)
			continue
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", text, r.Kind(), r)
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d specifiers did not parse", failed, fs.NArg())
	}
	return nil
}

// readResults loads tagged output from path, or stdin for "" and "-".
// format is ztag, json, or auto to sniff the first byte.
func readResults(path, format string, stdin io.Reader) (*result.ResultSet, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if format == "auto" {
		format = "ztag"
		if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '{' {
			format = "json"
		}
	}
	switch format {
	case "ztag":
		return ztag.Decode(bytes.NewReader(data))
	case "json":
		return ztag.DecodeJSON(bytes.NewReader(data))
	}
	return nil, fmt.Errorf("unknown input format %q", format)
}

func runShow(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("show", flag.ContinueOnError)
	fs.SetOutput(stderr)
	shape := fs.String("shape", "raw", "Node shape ("+strings.Join(view.Shapes(), ", ")+")")
	input := fs.String("in", "-", "Input file, - for stdin")
	format := fs.String("format", "auto", "Input format: ztag, json or auto")
	asJSON := fs.Bool("json", false, "Print one JSON object per node")
	orderBy := fs.String("order", "", "Sort by field")
	desc := fs.Bool("desc", false, "Sort descending")
	limit := fs.Int("limit", 0, "Maximum nodes to print (0 for all)")
	offset := fs.Int("offset", 0, "Nodes to skip")
	verbose := fs.Bool("v", false, "Log diagnostics to stderr")
	var where filters
	fs.Var(&where, "where", "Filter as field=value, field!=value, field^=prefix, field~=text, field*=glob or field (repeatable)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	log := newLogger(stderr, *verbose)

	if _, ok := view.Lookup(*shape); !ok {
		return fmt.Errorf("unknown shape %q", *shape)
	}
	rs, err := readResults(*input, *format, stdin)
	if err != nil {
		return err
	}
	log.Debug("Read tagged output").Int("records", rs.Len()).Int("texts", len(rs.Texts())).Send()

	if len(where) > 0 || *orderBy != "" || *limit > 0 || *offset > 0 {
		qb := query.NewQueryBuilder().Limit(*limit).Offset(*offset)
		for _, w := range where {
			f, err := query.ParseFilter(w)
			if err != nil {
				return err
			}
			qb.Filter(f)
		}
		if *orderBy != "" {
			qb.OrderBy(*orderBy, *desc)
		}
		res, err := query.Execute(rs, qb.Build())
		if err != nil {
			return err
		}
		log.Debug("Query applied").Int("total", res.Total).Bool("has_more", res.HasMore).Send()
		page := res.ToResultSet()
		for _, t := range rs.Texts() {
			page.AddText(t.Channel, t.Value, t.Level)
		}
		rs = page
	}

	start := time.Now()
	v, err := view.Project(*shape, rs)
	if err != nil {
		return err
	}
	log.LogProjection(*shape, time.Since(start), v.Count(), nil)

	if err := printNodes(stdout, v, *asJSON); err != nil {
		return err
	}
	if v.HasError() {
		return errors.New(strings.TrimSpace(v.ErrorText()))
	}
	return nil
}

func printNodes(w io.Writer, v *view.View[view.Projector], asJSON bool) error {
	enc := json.NewEncoder(w)
	first := true
	for n := range v.Nodes() {
		if asJSON {
			obj := make(map[string]any)
			for _, p := range n.Properties() {
				obj[p.Name] = p.Value
			}
			if err := enc.Encode(obj); err != nil {
				return err
			}
			continue
		}
		if !first {
			fmt.Fprintln(w)
		}
		first = false
		for _, p := range n.Properties() {
			fmt.Fprintf(w, "%s: %s\n", p.Name, formatValue(p.Value))
		}
	}
	return nil
}

func formatValue(v any) string {
	switch x := v.(type) {
	case []string:
		return strings.Join(x, "; ")
	case time.Time:
		if x.IsZero() {
			return ""
		}
		return x.Format(revision.DateLayout)
	}
	return fmt.Sprint(v)
}

func runResolve(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("resolve", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("in", "-", "filelog or fstat output, - for stdin")
	format := fs.String("format", "auto", "Input format: ztag, json or auto")
	have := fs.Int("have", 0, "Workspace revision for #have (default from haveRev)")
	verbose := fs.Bool("v", false, "Log diagnostics to stderr")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("resolve: exactly one specifier required")
	}
	log := newLogger(stderr, *verbose)

	spec, ok := revision.Parse(fs.Arg(0))
	log.ParseLogger().LogParse(fs.Arg(0), spec.Kind().String(), ok)
	if !ok {
		return fmt.Errorf("invalid revision specifier %q", fs.Arg(0))
	}

	rs, err := readResults(*input, *format, stdin)
	if err != nil {
		return err
	}
	if rs.HasText(result.StdErr) {
		return errors.New(strings.TrimSpace(rs.ErrorText()))
	}
	h, err := history.FromResultSet(rs, *have)
	if err != nil {
		return err
	}
	entries, err := h.Resolve(spec)
	if err != nil {
		return err
	}
	log.Debug("Resolved").Str("file", h.DepotFile).Int("entries", len(entries)).Send()

	for _, e := range entries {
		fmt.Fprintf(stdout, "%s#%d\tchange %d\t%s\t%s\n",
			e.DepotFile, e.Rev, e.Change, e.Action, formatValue(e.Time))
	}
	return nil
}
