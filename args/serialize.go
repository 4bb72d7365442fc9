package args

// ProGuard option flags, in the order the serializer emits them.
const (
	FlagInJars          = "-injars"
	FlagOutJars         = "-outjars"
	FlagLibraryJars     = "-libraryjars"
	FlagApplyMapping    = "-applymapping"
	FlagObfuscationDict = "-obfuscationdictionary"
	FlagClassObfDict    = "-classobfuscationdictionary"
	FlagPackageObfDict  = "-packageobfuscationdictionary"
	FlagPrintConfig     = "-printconfiguration"
	FlagPrintMapping    = "-printmapping"
	FlagPrintSeeds      = "-printseeds"
	FlagPrintUsage      = "-printusage"
	FlagDump            = "-dump"
	FlagInclude         = "-include"
	FlagForceProcessing = "-forceprocessing"
)

// Serialize renders the model into the ordered ProGuard argument
// vector and seals the model against further mutation.
//
// Emission order: per-group inputs then outputs, libraries, scalar
// file options in their canonical order, rules files, verbatim rules,
// and the unconditional trailing -forceprocessing. Every structural
// invariant violation aborts with a *ConfigError before any argument
// vector escapes.
func (m *Model) Serialize() ([]string, error) {
	m.sealed = true

	var argv []string

	multiGroup := len(m.groups) > 1
	for gi, g := range m.groups {
		emitted := 0
		for _, in := range g.inputs {
			for _, file := range in.Files {
				argv = append(argv, FlagInJars, quotePath(file, in.Filter))
				emitted++
			}
		}
		if emitted == 0 {
			return nil, &ConfigError{Kind: ConfigErrorEmptyGroup, GroupIndex: gi, OutputIndex: -1}
		}
		if len(g.outputs) == 0 && multiGroup {
			return nil, &ConfigError{Kind: ConfigErrorMissingOutputs, GroupIndex: gi, OutputIndex: -1}
		}
		for oi, out := range g.outputs {
			switch {
			case out.Archive != "" && out.Directory != "":
				return nil, &ConfigError{Kind: ConfigErrorAmbiguousOutput, GroupIndex: gi, OutputIndex: oi}
			case out.Archive == "" && out.Directory == "":
				return nil, &ConfigError{Kind: ConfigErrorMissingOutputTarget, GroupIndex: gi, OutputIndex: oi}
			case out.Archive != "":
				argv = append(argv, FlagOutJars, quotePath(out.Archive, out.Filter))
			default:
				argv = append(argv, FlagOutJars, quotePath(out.Directory, out.Filter))
			}
		}
	}

	for _, lib := range m.libraries {
		for _, file := range lib.Files {
			argv = append(argv, FlagLibraryJars, quotePath(file, lib.Filter))
		}
	}

	// Scalar file options in canonical order. Absent options emit
	// nothing, never placeholders.
	scalars := []struct {
		flag string
		path string
	}{
		{FlagApplyMapping, m.options.ApplyMapping},
		{FlagObfuscationDict, m.options.ObfuscationDictionary},
		{FlagClassObfDict, m.options.ClassObfuscationDictionary},
		{FlagPackageObfDict, m.options.PackageObfuscationDictionary},
		{FlagPrintConfig, m.options.PrintConfiguration},
		{FlagPrintMapping, m.options.PrintMapping},
		{FlagPrintSeeds, m.options.PrintSeeds},
		{FlagPrintUsage, m.options.PrintUsage},
		{FlagDump, m.options.Dump},
	}
	for _, opt := range scalars {
		if opt.path != "" {
			argv = append(argv, opt.flag, quotePath(opt.path, ""))
		}
	}

	for _, include := range m.includes {
		argv = append(argv, FlagInclude, quotePath(include, ""))
	}

	// Rules are fully formed by the caller; each is one token.
	argv = append(argv, m.rules...)

	argv = append(argv, FlagForceProcessing)
	return argv, nil
}

// quotePath wraps a path in ProGuard's single-quote convention so
// embedded spaces and parentheses survive, and appends a non-empty
// filter as "(filter)" with no separating space. The result is one
// argv element; it never passes through a shell.
func quotePath(path, filter string) string {
	quoted := "'" + path + "'"
	if filter != "" {
		quoted += "(" + filter + ")"
	}
	return quoted
}
