package postprocess

import (
	"bytes"
	"cmp"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"

	"github.com/CognitoIQ/xsdpost/internal/dependency"
	"github.com/CognitoIQ/xsdpost/internal/ordered"
	"github.com/CognitoIQ/xsdpost/javadoc"
	"github.com/CognitoIQ/xsdpost/javasrc"
	"github.com/CognitoIQ/xsdpost/xmltree"
	"github.com/CognitoIQ/xsdpost/xsd"
	"github.com/google/uuid"
	"github.com/tliron/commonlog"

	_ "github.com/tliron/commonlog/simple"
)

var log = commonlog.GetLogger("xsdpost.postprocess")

// DefaultSchemaPattern matches the file names schemagen writes.
const DefaultSchemaPattern = `^schema[0-9]+\.xsd$`

// A Config holds the settings of a post-processing run. The zero
// Config is not usable; start from NewConfig.
type Config struct {
	logger     commonlog.Logger
	renderer   javadoc.Renderer
	sources    []string
	exclude    []string
	transforms []TransformSchema
	pattern    *regexp.Regexp
	indent     string
	inject     bool
}

// An Option is used to customize a Config.
type Option func(*Config) Option

// DefaultOptions are applied by NewConfig before any other option.
// They inject documentation, if sources are given, with the default
// renderer, and indent rewritten files with four spaces.
var DefaultOptions = []Option{
	Logger(log),
	Renderer(javadoc.DefaultRenderer{}),
	SchemaPattern(regexp.MustCompile(DefaultSchemaPattern)),
	Indent("    "),
	InjectDocumentation(true),
}

// NewConfig returns a Config with DefaultOptions and opts applied.
func NewConfig(opts ...Option) *Config {
	cfg := new(Config)
	cfg.Option(DefaultOptions...)
	cfg.Option(opts...)
	return cfg
}

// The Option method is used to configure an existing configuration.
// The return value of the Option method can be used to revert the
// final option to its previous setting.
func (cfg *Config) Option(opts ...Option) (previous Option) {
	for _, opt := range opts {
		previous = opt(cfg)
	}
	return previous
}

// Logger sets the logger progress is reported to.
func Logger(l commonlog.Logger) Option {
	return func(cfg *Config) Option {
		prev := cfg.logger
		cfg.logger = l
		return Logger(prev)
	}
}

// Renderer sets the renderer for injected documentation.
func Renderer(r javadoc.Renderer) Option {
	return func(cfg *Config) Option {
		prev := cfg.renderer
		cfg.renderer = r
		return Renderer(prev)
	}
}

// Sources sets the Java source files, or directories to search for
// them, that documentation is read from. Without sources, no
// documentation is injected.
func Sources(paths ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.sources
		cfg.sources = paths
		return Sources(prev...)
	}
}

// Exclude leaves out source files matching any of the patterns; see
// javasrc.FindSources.
func Exclude(patterns ...string) Option {
	return func(cfg *Config) Option {
		prev := cfg.exclude
		cfg.exclude = patterns
		return Exclude(prev...)
	}
}

// Transforms sets the prefix and file name changes to apply.
func Transforms(list ...TransformSchema) Option {
	return func(cfg *Config) Option {
		prev := cfg.transforms
		cfg.transforms = list
		return Transforms(prev...)
	}
}

// SchemaPattern selects the files of a directory that are processed,
// by base name. Matching files are processed in the order of the
// first number in their name.
func SchemaPattern(re *regexp.Regexp) Option {
	return func(cfg *Config) Option {
		prev := cfg.pattern
		cfg.pattern = re
		return SchemaPattern(prev)
	}
}

// Indent sets the indentation of rewritten files. With an empty
// indent, files keep their whitespace.
func Indent(s string) Option {
	return func(cfg *Config) Option {
		prev := cfg.indent
		cfg.indent = s
		return Indent(prev)
	}
}

// InjectDocumentation enables or disables documentation injection.
func InjectDocumentation(enable bool) Option {
	return func(cfg *Config) Option {
		prev := cfg.inject
		cfg.inject = enable
		return InjectDocumentation(prev)
	}
}

// Index extracts the documentation of the configured sources.
func (cfg *Config) Index() (*javadoc.Index, error) {
	paths, err := javasrc.FindSources(cfg.sources, cfg.exclude)
	if err != nil {
		return nil, err
	}
	ix, err := javadoc.ExtractFiles(paths)
	var dup *javadoc.DuplicateLocationError
	if errors.As(err, &dup) {
		return nil, consistency(err)
	}
	return ix, err
}

// Run post-processes the schema files in dir, applying opts on top
// of DefaultOptions.
func Run(dir string, opts ...Option) (*Result, error) {
	return NewConfig(opts...).Run(dir)
}

// Run post-processes the schema files in dir: it injects
// documentation, then renames prefixes, then updates references to
// renamed files and renames them. Each step reads and writes every
// file it changes. The first error stops the run; files already
// written are left as they are.
func (cfg *Config) Run(dir string) (*Result, error) {
	p := cfg.NewPipeline(dir)
	if err := p.Resolve(); err != nil {
		return nil, err
	}
	if cfg.inject && len(cfg.sources) > 0 {
		ix, err := cfg.Index()
		if err != nil {
			return nil, err
		}
		if err := p.Annotate(ix); err != nil {
			return nil, err
		}
	} else {
		p.infof("documentation injection skipped")
	}
	if err := p.RewritePrefixes(); err != nil {
		return nil, err
	}
	if err := p.RewriteLocations(); err != nil {
		return nil, err
	}
	if err := p.RenameFiles(); err != nil {
		return nil, err
	}
	p.state = Done
	result := p.Result()
	p.infof("done: %d files, %d annotations, %d prefix rewrites, %d references, %d renames",
		len(result.Files), result.Annotations, result.PrefixRewrites, result.References, result.Renamed)
	return &result, nil
}

// State is the progress of a Pipeline. States are passed in order;
// stages that have nothing to do are skipped.
type State int

const (
	Idle State = iota
	ResolversBuilt
	DocumentationInjected
	PrefixesRewritten
	FilenamesRewritten
	FilesRenamed
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ResolversBuilt:
		return "resolvers built"
	case DocumentationInjected:
		return "documentation injected"
	case PrefixesRewritten:
		return "prefixes rewritten"
	case FilenamesRewritten:
		return "file names rewritten"
	case FilesRenamed:
		return "files renamed"
	case Done:
		return "done"
	}
	return "State(" + strconv.Itoa(int(s)) + ")"
}

// A Result summarizes a run.
type Result struct {
	// RunID tags the log messages of the run.
	RunID string
	// Files are the final paths of the schema files, in the order
	// they were processed.
	Files []string

	Annotations    int
	PrefixRewrites int
	References     int
	Renamed        int
}

// A Pipeline runs the stages of Config.Run one at a time, over one
// directory.
type Pipeline struct {
	cfg       *Config
	dir       string
	id        string
	state     State
	resolvers []*xsd.NamespaceResolver
	renames   []rename
	result    Result
}

// NewPipeline prepares a run over dir.
func (cfg *Config) NewPipeline(dir string) *Pipeline {
	id := uuid.NewString()
	return &Pipeline{cfg: cfg, dir: dir, id: id, result: Result{RunID: id}}
}

func (p *Pipeline) infof(format string, v ...interface{}) {
	if p.cfg.logger != nil {
		p.cfg.logger.Infof("[%s] "+format, append([]interface{}{p.id}, v...)...)
	}
}

func (p *Pipeline) debugf(format string, v ...interface{}) {
	if p.cfg.logger != nil {
		p.cfg.logger.Debugf("[%s] "+format, append([]interface{}{p.id}, v...)...)
	}
}

func (p *Pipeline) warningf(format string, v ...interface{}) {
	if p.cfg.logger != nil {
		p.cfg.logger.Warningf("[%s] "+format, append([]interface{}{p.id}, v...)...)
	}
}

// State returns the last state reached.
func (p *Pipeline) State() State { return p.state }

// Resolvers returns the namespace resolvers of the schema files, in
// processing order.
func (p *Pipeline) Resolvers() []*xsd.NamespaceResolver { return slices.Clone(p.resolvers) }

// Result returns the summary of the stages run so far.
func (p *Pipeline) Result() Result {
	r := p.result
	r.Files = make([]string, len(p.resolvers))
	for i, res := range p.resolvers {
		r.Files[i] = res.Path
	}
	return r
}

func (p *Pipeline) enter(s State) error {
	if p.state < ResolversBuilt || p.state >= s {
		return fmt.Errorf("pipeline cannot reach state %q from state %q", s, p.state)
	}
	return nil
}

// Resolve validates the transforms, finds the schema files and reads
// their namespace declarations and imports. Files are ordered so that
// a file comes after the files it imports.
func (p *Pipeline) Resolve() error {
	if p.state != Idle {
		return fmt.Errorf("pipeline cannot reach state %q from state %q", ResolversBuilt, p.state)
	}
	if err := ValidateTransforms(p.cfg.transforms); err != nil {
		return err
	}
	paths, err := p.discover()
	if err != nil {
		return err
	}

	resolvers := make([]*xsd.NamespaceResolver, len(paths))
	imports := make([][]xsd.Ref, len(paths))
	for i, path := range paths {
		doc, err := xmltree.ParseFile(path)
		if err != nil {
			return err
		}
		if resolvers[i], err = xsd.ResolveNamespaces(path, doc); err != nil {
			return consistency(err)
		}
		if imports[i], err = xsd.Imports(doc); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		p.debugf("%s", resolvers[i])
	}

	var graph dependency.Graph
	byPath := make(map[string]*xsd.NamespaceResolver, len(paths))
	for i, path := range paths {
		byPath[path] = resolvers[i]
		graph.Add(path)
		for _, ref := range imports[i] {
			if j := importedFile(resolvers, i, ref); j >= 0 {
				graph.Add(path, paths[j])
			}
		}
	}
	graph.Flatten(func(path string) {
		p.resolvers = append(p.resolvers, byPath[path])
	})
	p.state = ResolversBuilt
	p.infof("resolved %d schema files in %s", len(p.resolvers), p.dir)
	return nil
}

// importedFile finds the file an import of file i refers to, by
// schemaLocation, then by namespace. It returns -1 for imports of
// other documents.
func importedFile(resolvers []*xsd.NamespaceResolver, i int, ref xsd.Ref) int {
	if ref.Location != "" {
		for j, r := range resolvers {
			if j != i && r.Filename() == filepath.Base(ref.Location) {
				return j
			}
		}
	}
	for j, r := range resolvers {
		if j != i && ref.Namespace != "" && r.LocalNamespace == ref.Namespace {
			return j
		}
	}
	return -1
}

func (p *Pipeline) discover() ([]string, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if e.Type().IsRegular() && p.cfg.pattern.MatchString(e.Name()) {
			names = append(names, e.Name())
		}
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%s: no files match %s", p.dir, p.cfg.pattern)
	}
	slices.SortFunc(names, compareNumbered)
	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(p.dir, name)
	}
	return paths, nil
}

var number = regexp.MustCompile(`[0-9]+`)

// compareNumbered orders names by the first number in them, so that
// schema2.xsd comes before schema10.xsd.
func compareNumbered(a, b string) int {
	na, errA := strconv.Atoi(number.FindString(a))
	nb, errB := strconv.Atoi(number.FindString(b))
	if errA == nil && errB == nil {
		if c := cmp.Compare(na, nb); c != 0 {
			return c
		}
	}
	return cmp.Compare(a, b)
}

// rewrite parses a file, lets fn modify it, and writes it back if fn
// reports a change.
func (p *Pipeline) rewrite(path string, fn func(doc *xmltree.Document) (bool, error)) error {
	doc, err := xmltree.ParseFile(path)
	if err != nil {
		return err
	}
	changed, err := fn(doc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	if !changed {
		return nil
	}
	var buf bytes.Buffer
	if p.cfg.indent == "" {
		err = xmltree.Encode(&buf, doc)
	} else {
		err = xmltree.EncodeIndent(&buf, doc, "", p.cfg.indent)
	}
	if err != nil {
		return err
	}
	perm := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		perm = info.Mode().Perm()
	}
	p.debugf("writing %s", path)
	return os.WriteFile(path, buf.Bytes(), perm)
}

// Annotate injects the documentation of ix into every schema file.
func (p *Pipeline) Annotate(ix *javadoc.Index) error {
	if err := p.enter(DocumentationInjected); err != nil {
		return err
	}
	types := NewAnnotationInjector(ix, p.cfg.renderer)
	enums := NewEnumAnnotationInjector(ix, p.cfg.renderer)
	for _, r := range p.resolvers {
		before := types.Injected + enums.Injected
		err := p.rewrite(r.Path, func(doc *xmltree.Document) (bool, error) {
			if err := xmltree.Visit(doc.Root, true, types); err != nil {
				return false, err
			}
			if err := xmltree.Visit(doc.Root, true, enums); err != nil {
				return false, err
			}
			return types.Injected+enums.Injected > before, nil
		})
		if err != nil {
			return err
		}
	}
	p.result.Annotations = types.Injected + enums.Injected
	p.state = DocumentationInjected
	p.infof("injected %d annotations from %d documented declarations", p.result.Annotations, ix.Len())
	return nil
}

type prefixChange struct {
	old, new string
}

// RewritePrefixes gives each namespace with a ToPrefix transform its
// new prefix, in every file that declares it. All files are checked
// with CheckPrefixAvailable before any is changed.
func (p *Pipeline) RewritePrefixes() error {
	if err := p.enter(PrefixesRewritten); err != nil {
		return err
	}
	prefixes := prefixesByURI(p.cfg.transforms)
	plan := make([][]prefixChange, len(p.resolvers))
	for i, r := range p.resolvers {
		for _, uri := range ordered.Keys(prefixes) {
			want := prefixes[uri]
			old, ok := r.Prefix(uri)
			switch {
			case !ok, old == want:
				continue
			case old == xsd.DefaultNamespacePrefix:
				p.warningf("%s: %s is the default namespace; not binding it to prefix %q", r.Path, uri, want)
				continue
			}
			if err := CheckPrefixAvailable(r, uri, want); err != nil {
				return err
			}
			plan[i] = append(plan[i], prefixChange{old: old, new: want})
		}
	}

	for i, r := range p.resolvers {
		if len(plan[i]) == 0 {
			continue
		}
		err := p.rewrite(r.Path, func(doc *xmltree.Document) (bool, error) {
			for _, c := range plan[i] {
				rw := NewPrefixRewriter(doc, c.old, c.new)
				if err := xmltree.Visit(doc.Root, true, rw); err != nil {
					return false, err
				}
				p.result.PrefixRewrites += rw.Rewritten
				p.debugf("%s: renamed prefix %s to %s in %d places", r.Path, c.old, c.new, rw.Rewritten)
			}
			updated, err := xsd.ResolveNamespaces(r.Path, doc)
			if err != nil {
				return false, consistency(err)
			}
			p.resolvers[i] = updated
			return true, nil
		})
		if err != nil {
			return err
		}
	}
	p.state = PrefixesRewritten
	return nil
}

// RewriteLocations points the imports of every file at the new names
// of renamed files. It checks that the renames can be made before
// changing any file; RenameFiles then makes them.
func (p *Pipeline) RewriteLocations() error {
	if err := p.enter(FilenamesRewritten); err != nil {
		return err
	}
	files := filesByURI(p.cfg.transforms)
	plan, err := planRenames(p.resolvers, files)
	if err != nil {
		return err
	}
	p.renames = plan
	if len(files) > 0 {
		rw := &FilenameRewriter{Files: files}
		for _, r := range p.resolvers {
			before := rw.Rewritten
			err := p.rewrite(r.Path, func(doc *xmltree.Document) (bool, error) {
				if err := xmltree.Visit(doc.Root, true, rw); err != nil {
					return false, err
				}
				return rw.Rewritten > before, nil
			})
			if err != nil {
				return err
			}
		}
		p.result.References = rw.Rewritten
	}
	p.state = FilenamesRewritten
	return nil
}

// RenameFiles renames the files whose target namespace has a ToFile
// transform. It must follow RewriteLocations.
func (p *Pipeline) RenameFiles() error {
	if p.state != FilenamesRewritten {
		return fmt.Errorf("pipeline cannot reach state %q from state %q", FilesRenamed, p.state)
	}
	for _, mv := range p.renames {
		if err := os.Rename(mv.from, mv.to); err != nil {
			return err
		}
		p.resolvers[mv.index].Path = mv.to
		p.result.Renamed++
		p.infof("renamed %s to %s", mv.from, filepath.Base(mv.to))
	}
	p.state = FilesRenamed
	return nil
}
