// Command phonetic is the CLI for Juniper Phonetic.
// It encodes words with Caverphone 2.0 and maintains a SQLite name index
// for sounds-alike lookups.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/alecthomas/kong"
	"github.com/google/uuid"

	"github.com/FocuswithJustin/JuniperPhonetic/core/encoding"
	coreerrors "github.com/FocuswithJustin/JuniperPhonetic/core/errors"
	"github.com/FocuswithJustin/JuniperPhonetic/core/index"
	"github.com/FocuswithJustin/JuniperPhonetic/core/phonetic"
	"github.com/FocuswithJustin/JuniperPhonetic/core/sqlite"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/config"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/logging"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/source"
	"github.com/FocuswithJustin/JuniperPhonetic/internal/validation"
)

const version = "0.1.0"

// errCodesDiffer makes compare exit with status 1 without an error message.
var errCodesDiffer = errors.New("codes differ")

// CLI defines the command-line interface for phonetic.
type CLI struct {
	// Global flags override PHONETIC_* environment settings.
	DB        string `name:"db" help:"Name index database path (default $PHONETIC_DB)"`
	LogLevel  string `name:"log-level" help:"Log level: debug, info, warn, error"`
	LogFormat string `name:"log-format" help:"Log format: text or json"`

	Encode  EncodeCmd  `cmd:"" help:"Encode words to Caverphone 2.0 codes"`
	Compare CompareCmd `cmd:"" help:"Check whether two words share a code"`
	Index   IndexGroup `cmd:"" help:"Name index operations"`
	Version VersionCmd `cmd:"" help:"Print version information"`
}

// IndexGroup contains name index operations.
type IndexGroup struct {
	Add    IndexAddCmd    `cmd:"" help:"Add names from a .txt or .xml list (optionally .xz)"`
	Match  IndexMatchCmd  `cmd:"" help:"List indexed names that sound like a word"`
	Groups IndexGroupsCmd `cmd:"" help:"List codes shared by several names"`
	Export IndexExportCmd `cmd:"" help:"Export the index as xz-compressed JSON lines"`
	Import IndexImportCmd `cmd:"" help:"Import records written by export"`
}

// App carries the resolved configuration into every command.
type App struct {
	Ctx    context.Context
	Config config.Config
	Enc    *phonetic.Cached
	Out    io.Writer
	In     io.Reader
}

// newApp resolves environment config, applies flag overrides and sets up
// logging. Logs go to logOut so command output stays parseable.
func newApp(cli *CLI, out io.Writer, in io.Reader, logOut io.Writer) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if cli.DB != "" {
		cfg.DBPath = cli.DB
	}
	if cli.LogLevel != "" {
		cfg.LogLevel = cli.LogLevel
	}
	if cli.LogFormat != "" {
		cfg.LogFormat = cli.LogFormat
	}
	level, format, err := cfg.Logging()
	if err != nil {
		return nil, err
	}
	logging.InitLoggerTo(logOut, level, format)

	return &App{
		Ctx:    logging.WithRunID(context.Background(), uuid.NewString()),
		Config: cfg,
		Enc:    phonetic.NewCached(phonetic.NewCaverphone2(), cfg.CacheSize),
		Out:    out,
		In:     in,
	}, nil
}

func (a *App) openIndex() (*index.Index, error) {
	if a.Config.DBPath != ":memory:" {
		if err := validation.ValidatePath(a.Config.DBPath); err != nil {
			return nil, fmt.Errorf("invalid database path: %w", err)
		}
	}
	return index.Open(a.Ctx, a.Config.DBPath, a.Enc)
}

// openIndexReadOnly opens an existing index for lookups. It never creates
// the database file.
func (a *App) openIndexReadOnly() (*index.Index, error) {
	if a.Config.DBPath == ":memory:" {
		return a.openIndex()
	}
	if err := validation.ValidateInputFile(a.Config.DBPath); err != nil {
		return nil, fmt.Errorf("invalid database path: %w", err)
	}
	return index.OpenReadOnly(a.Ctx, a.Config.DBPath, a.Enc)
}

// EncodeCmd encodes words given as arguments or on standard input.
type EncodeCmd struct {
	Words   []string `arg:"" optional:"" help:"Words to encode"`
	Stdin   bool     `help:"Also read words from standard input, one per line"`
	Charset string   `help:"Charset of standard input" default:"UTF-8"`
	Format  string   `help:"Output format" enum:"text,json,xml" default:"text"`
}

type encodedWord struct {
	Word string `json:"word"`
	Code string `json:"code"`
}

func (c *EncodeCmd) Run(app *App) error {
	start := time.Now()
	words := append([]string(nil), c.Words...)
	src := "args"
	if c.Stdin {
		data, err := io.ReadAll(app.In)
		if err != nil {
			return coreerrors.NewIO("read", "stdin", err)
		}
		text, err := encoding.NewString(data, c.Charset)
		if err != nil {
			return err
		}
		lines, err := source.ParseLines([]byte(*text))
		if err != nil {
			return coreerrors.NewIO("read", "stdin", err)
		}
		words = append(words, lines...)
		src = "stdin"
	}
	if len(words) == 0 {
		return coreerrors.NewValidation("words", "no words to encode")
	}

	results := make([]encodedWord, len(words))
	for i, w := range words {
		results[i] = encodedWord{Word: w, Code: app.Enc.Encode(w)}
	}
	logging.BatchEncoded(app.Ctx, src, len(results), time.Since(start),
		"cache_hits", app.Enc.Stats().Hits)

	return writeEncoded(app.Out, c.Format, results)
}

func writeEncoded(w io.Writer, format string, results []encodedWord) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	case "xml":
		var b strings.Builder
		b.WriteString("<codes>\n")
		for _, r := range results {
			fmt.Fprintf(&b, "  <code word=\"%s\">%s</code>\n",
				encoding.EscapeXMLAttr(r.Word), encoding.EscapeXMLText(r.Code))
		}
		b.WriteString("</codes>\n")
		_, err := io.WriteString(w, b.String())
		return err
	default:
		for _, r := range results {
			if _, err := fmt.Fprintf(w, "%s\t%s\n", r.Code, r.Word); err != nil {
				return err
			}
		}
		return nil
	}
}

// CompareCmd reports whether two words encode identically.
type CompareCmd struct {
	A string `arg:"" help:"First word"`
	B string `arg:"" help:"Second word"`
}

func (c *CompareCmd) Run(app *App) error {
	codeA, codeB := app.Enc.Encode(c.A), app.Enc.Encode(c.B)
	fmt.Fprintf(app.Out, "%s\t%s\n%s\t%s\n", codeA, c.A, codeB, c.B)
	if codeA != codeB {
		fmt.Fprintln(app.Out, "differ")
		return errCodesDiffer
	}
	fmt.Fprintln(app.Out, "match")
	return nil
}

// IndexAddCmd loads a name list into the index.
type IndexAddCmd struct {
	File  string `arg:"" help:"Name list (.txt, .xml, optionally .xz)" type:"existingfile"`
	XPath string `name:"xpath" help:"XPath selecting names in XML lists (default //name)"`
}

func (c *IndexAddCmd) Run(app *App) error {
	names, err := source.Load(c.File, source.Options{XPath: c.XPath})
	if err != nil {
		return err
	}
	ix, err := app.openIndex()
	if err != nil {
		return err
	}
	defer ix.Close()

	start := time.Now()
	var added, duplicates, rejected int
	for _, name := range names {
		_, ok, err := ix.Add(app.Ctx, name)
		var vErr *coreerrors.ValidationError
		switch {
		case errors.As(err, &vErr):
			logging.Warn("skipping name", "name", name, "reason", vErr.Message)
			rejected++
		case err != nil:
			return err
		case ok:
			added++
		default:
			duplicates++
		}
	}
	logging.BatchEncoded(app.Ctx, c.File, len(names), time.Since(start))
	logging.IndexEvent(app.Ctx, "add", app.Config.DBPath,
		"added", added, "duplicates", duplicates, "rejected", rejected)

	fmt.Fprintf(app.Out, "added %d, duplicates %d, rejected %d\n", added, duplicates, rejected)
	return nil
}

// IndexMatchCmd lists indexed names sharing a word's code.
type IndexMatchCmd struct {
	Word string `arg:"" help:"Word to look up"`
	JSON bool   `name:"json" help:"Output records as JSON"`
}

func (c *IndexMatchCmd) Run(app *App) error {
	ix, err := app.openIndexReadOnly()
	if err != nil {
		return err
	}
	defer ix.Close()

	recs, err := ix.Match(app.Ctx, c.Word)
	if err != nil {
		return err
	}
	if c.JSON {
		enc := json.NewEncoder(app.Out)
		enc.SetIndent("", "  ")
		if recs == nil {
			recs = []index.Record{}
		}
		return enc.Encode(recs)
	}
	for _, r := range recs {
		fmt.Fprintf(app.Out, "%s\t%s\n", r.Code, r.Name)
	}
	return nil
}

// IndexGroupsCmd prints codes shared by at least Min names.
type IndexGroupsCmd struct {
	Min int `help:"Minimum group size" default:"2"`
}

func (c *IndexGroupsCmd) Run(app *App) error {
	ix, err := app.openIndexReadOnly()
	if err != nil {
		return err
	}
	defer ix.Close()

	groups, err := ix.Groups(app.Ctx, c.Min)
	if err != nil {
		return err
	}
	for _, g := range groups {
		names := make([]string, len(g.Records))
		for i, r := range g.Records {
			names[i] = r.Name
		}
		fmt.Fprintf(app.Out, "%s\t%s\n", g.Code, strings.Join(names, ", "))
	}
	return nil
}

// IndexExportCmd writes the index to a compressed file.
type IndexExportCmd struct {
	Out string `required:"" help:"Output path (.jsonl.xz)" type:"path"`
}

func (c *IndexExportCmd) Run(app *App) error {
	if err := validation.ValidatePath(c.Out); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}
	ix, err := app.openIndexReadOnly()
	if err != nil {
		return err
	}
	defer ix.Close()

	f, err := os.Create(c.Out)
	if err != nil {
		return coreerrors.NewIO("create", c.Out, err)
	}
	n, err := ix.Export(app.Ctx, f)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = coreerrors.NewIO("close", c.Out, cerr)
	}
	if err != nil {
		return err
	}
	logging.IndexEvent(app.Ctx, "export", c.Out, "records", n)
	fmt.Fprintf(app.Out, "exported %d records to %s\n", n, c.Out)
	return nil
}

// IndexImportCmd loads records produced by export.
type IndexImportCmd struct {
	File string `arg:"" help:"Export file (.jsonl.xz)" type:"existingfile"`
}

func (c *IndexImportCmd) Run(app *App) error {
	if err := validation.ValidateInputFile(c.File); err != nil {
		return fmt.Errorf("invalid input file: %w", err)
	}
	f, err := os.Open(c.File)
	if err != nil {
		return coreerrors.NewIO("open", c.File, err)
	}
	defer f.Close()

	ix, err := app.openIndex()
	if err != nil {
		return err
	}
	defer ix.Close()

	n, err := ix.Import(app.Ctx, f)
	if err != nil {
		return err
	}
	logging.IndexEvent(app.Ctx, "import", c.File, "added", n)
	fmt.Fprintf(app.Out, "imported %d records\n", n)
	return nil
}

// VersionCmd prints version information.
type VersionCmd struct{}

func (c *VersionCmd) Run(app *App) error {
	info := sqlite.GetInfo()
	fmt.Fprintf(app.Out, "phonetic version %s (sqlite: %s, %s)\n", version, info.Package, info.DriverType)
	return nil
}

func newParser(cli *CLI, options ...kong.Option) (*kong.Kong, error) {
	opts := append([]kong.Option{
		kong.Name("phonetic"),
		kong.Description("Juniper Phonetic - Caverphone 2.0 encoding and sounds-alike name index"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
	}, options...)
	return kong.New(cli, opts...)
}

// run parses args and executes the selected command.
func run(args []string, out io.Writer, in io.Reader, logOut io.Writer) error {
	var cli CLI
	parser, err := newParser(&cli)
	if err != nil {
		return err
	}
	ctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	app, err := newApp(&cli, out, in, logOut)
	if err != nil {
		return err
	}
	return ctx.Run(app)
}

// exitCode maps a command error to the process status: 1 for differing
// codes and runtime failures, 2 for invalid input.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errCodesDiffer):
		return 1
	case errors.Is(err, coreerrors.ErrInvalidInput):
		return 2
	default:
		return 1
	}
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stdin, os.Stderr)
	if err != nil && !errors.Is(err, errCodesDiffer) {
		fmt.Fprintf(os.Stderr, "phonetic: error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
