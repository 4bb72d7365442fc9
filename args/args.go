// Package args models a ProGuard invocation as typed, ordered
// configuration and serializes it into the argument vector the tool
// expects.
//
// The model is append-only during configuration and read exactly once
// by Serialize. Structural validation (empty groups, ambiguous output
// targets) is deferred to serialize time: inputs and outputs are
// usually supplied by lazy file resolution whose values are unknown
// while the model is being assembled. After the first Serialize call
// the model is sealed and mutators panic.
//
// All paths handed to the model must already be resolved absolute
// paths; the package never touches the filesystem.
package args

import "fmt"

// ClasspathEntry is an ordered set of archive/directory paths treated
// as one logical classpath unit, with an optional ProGuard filter
// (e.g. "!META-INF/**") applied to every path in the entry.
type ClasspathEntry struct {
	Files  []string
	Filter string
}

// OutputEntry is one shrinker output target: exactly one of Archive or
// Directory must be set by serialize time. Both fields exist so that
// lazily-resolved configuration can be carried unvalidated; Serialize
// enforces the exclusivity.
type OutputEntry struct {
	Archive   string
	Directory string
	Filter    string
}

// FileOptions are the optional single-file ProGuard options. A zero
// value means the option is absent and emits no tokens.
type FileOptions struct {
	ApplyMapping                 string
	ObfuscationDictionary        string
	ClassObfuscationDictionary   string
	PackageObfuscationDictionary string
	PrintConfiguration           string
	PrintMapping                 string
	PrintSeeds                   string
	PrintUsage                   string
	Dump                         string
}

// Group pairs an ordered list of inputs with the outputs they are
// processed into. Groups, and entries within a group, are emitted in
// insertion order; that order is the tool's matching order and is
// semantically significant.
type Group struct {
	model   *Model
	inputs  []ClasspathEntry
	outputs []OutputEntry
}

// AddInput appends an input file-set to the group.
func (g *Group) AddInput(files []string, filter string) {
	g.model.mustMutable("AddInput")
	g.inputs = append(g.inputs, ClasspathEntry{Files: files, Filter: filter})
}

// AddOutput appends an output target to the group. No validation
// happens here; Serialize rejects entries with both or neither of
// Archive and Directory set.
func (g *Group) AddOutput(out OutputEntry) {
	g.model.mustMutable("AddOutput")
	g.outputs = append(g.outputs, out)
}

// Model is the mutable invocation configuration. The zero value is
// ready to use.
type Model struct {
	groups    []*Group
	libraries []ClasspathEntry
	options   FileOptions
	includes  []string
	rules     []string
	sealed    bool
}

// AddGroup appends a new empty input/output group and returns it for
// population.
func (m *Model) AddGroup() *Group {
	m.mustMutable("AddGroup")
	g := &Group{model: m}
	m.groups = append(m.groups, g)
	return g
}

// AddLibrary appends a library classpath entry. Libraries are a flat
// list, independent of groups.
func (m *Model) AddLibrary(files []string, filter string) {
	m.mustMutable("AddLibrary")
	m.libraries = append(m.libraries, ClasspathEntry{Files: files, Filter: filter})
}

// SetFileOptions replaces the scalar file options.
func (m *Model) SetFileOptions(opts FileOptions) {
	m.mustMutable("SetFileOptions")
	m.options = opts
}

// AddInclude appends a rules file referenced by path (-include).
func (m *Model) AddInclude(path string) {
	m.mustMutable("AddInclude")
	m.includes = append(m.includes, path)
}

// AddRule appends a fully-formed configuration line passed through to
// the tool verbatim as a single token.
func (m *Model) AddRule(rule string) {
	m.mustMutable("AddRule")
	m.rules = append(m.rules, rule)
}

// mustMutable panics when the model has already been serialized.
// Serialization reads the model exactly once; mutation afterwards is a
// caller bug, caught loudly rather than silently ignored.
func (m *Model) mustMutable(op string) {
	if m.sealed {
		panic(fmt.Sprintf("args: %s after Serialize", op))
	}
}
