// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/mockschema

// mockschema synthesizes mock payloads from JSON Schema and constraint notation.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jessevdk/go-flags"
	"gopkg.in/yaml.v3"

	"github.com/woozymasta/mockschema"
)

var (
	Version    = "dev"
	Commit     = "unknown"
	BuildTime  = time.Unix(0, 0)
	URL        = "https://github.com/woozymasta/mockschema"
	_buildTime string
)

// errNoFragments is returned when schema document has nothing to generate from.
var errNoFragments = errors.New("schema document has no fragments")

// cliOptions describes mockschema CLI flags and subcommands.
type cliOptions struct {
	Version  versionCommand  `command:"version" description:"Print version information"`
	Generate generateCommand `command:"generate" description:"Synthesize mock payload from JSON Schema"`
	Registry registryCommand `command:"registry" description:"Print deduplicated canonical schema table"`
	Notation notationCommand `command:"notation" description:"Synthesize mock payload from constraint notation"`
}

// policyFlags groups generation policy flags.
type policyFlags struct {
	PolicyFile           string `short:"P" long:"policy-file" description:"JSON or YAML generation policy file; flags below override it"`
	UseDefault           bool   `long:"use-default" description:"Prefer schema default values"`
	UseExamples          bool   `long:"use-examples" description:"Prefer first schema example when no default applies"`
	RequiredOnly         bool   `long:"required-only" description:"Emit required properties only"`
	AlwaysOptionals      bool   `long:"always-optionals" description:"Emit every optional property"`
	OptionalsProbability string `long:"optionals-probability" description:"Chance of emitting each optional property, 0..1 (default 0.8)"`
	OmitNulls            bool   `long:"omit-nulls" description:"Drop optional properties generated as null"`
}

// strategyFlags groups value strategy flags.
type strategyFlags struct {
	Strategy string `short:"S" long:"strategy" description:"Value strategy" choice:"deterministic" choice:"randomized" default:"deterministic"`
	Seed     uint64 `long:"seed" description:"Seed for randomized strategy (0 seeds from clock)"`
}

// overrideFlags groups root override flags.
type overrideFlags struct {
	OverridesFile string   `short:"O" long:"overrides-file" description:"JSON or YAML object with root property overrides"`
	Set           []string `long:"set" description:"Root property override as key=value; value is parsed as YAML scalar" value-name:"KEY=VALUE"`
}

// outputFlags groups output encoding flags.
type outputFlags struct {
	Format string `short:"f" long:"format" description:"Output format" choice:"json" choice:"yaml" default:"json"`
}

// ioArgs holds optional input and output file paths.
type ioArgs struct {
	Input  string `positional-arg-name:"input" description:"Input file path (optional; stdin when omitted or -)"`
	Output string `positional-arg-name:"output" description:"Output file path (optional; stdout when omitted)"`
}

// generateCommand synthesizes payload for one schema fragment.
type generateCommand struct {
	runner *cliRunner

	Schema string `short:"s" long:"schema" description:"Fragment name or registry symbol to synthesize (default: Root or the only fragment)"`
	Args   ioArgs `positional-args:"yes"`

	PolicyFlags   policyFlags   `group:"Generation Policy"`
	StrategyFlags strategyFlags `group:"Value Strategy"`
	OverrideFlags overrideFlags `group:"Overrides"`
	OutputFlags   outputFlags   `group:"Output"`
}

// Execute runs generate subcommand.
func (command *generateCommand) Execute(_ []string) error {
	return command.runner.runGenerate(command)
}

// registryCommand prints canonical symbol table.
type registryCommand struct {
	runner *cliRunner

	Args        ioArgs      `positional-args:"yes"`
	OutputFlags outputFlags `group:"Output"`
}

// Execute runs registry subcommand.
func (command *registryCommand) Execute(_ []string) error {
	return command.runner.runRegistry(command)
}

// notationCommand synthesizes payload from constraint notation.
type notationCommand struct {
	runner *cliRunner

	Expression string `short:"e" long:"expr" description:"Notation text (input file or stdin is read when omitted)"`
	ShowSchema bool   `long:"show-schema" description:"Print recovered canonical schema instead of payload"`
	Args       ioArgs `positional-args:"yes"`

	PolicyFlags   policyFlags   `group:"Generation Policy"`
	StrategyFlags strategyFlags `group:"Value Strategy"`
	OverrideFlags overrideFlags `group:"Overrides"`
	OutputFlags   outputFlags   `group:"Output"`
}

// Execute runs notation subcommand.
func (command *notationCommand) Execute(_ []string) error {
	return command.runner.runNotation(command)
}

// cliRunner executes CLI operations with custom IO streams.
type cliRunner struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	programName string
}

// versionCommand prints version information.
type versionCommand struct {
	runner *cliRunner
}

// Execute runs version subcommand.
func (command *versionCommand) Execute(_ []string) error {
	printVersionInfo(command.runner.stdout)
	return nil
}

func init() {
	if _buildTime != "" {
		if t, err := time.Parse(time.RFC3339, _buildTime); err == nil {
			BuildTime = t.UTC()
		}
	}
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes CLI logic and returns process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	return runWithIO(args, os.Stdin, stdout, stderr)
}

// runWithIO executes CLI logic with custom stdin, for tests.
func runWithIO(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	programName := strings.TrimSpace(os.Args[0])
	if programName == "" {
		programName = "mockschema"
	}

	programName = filepath.Base(programName)
	runner := cliRunner{
		programName: programName,
		stdin:       stdin,
		stdout:      stdout,
		stderr:      stderr,
	}

	return runner.run(args)
}

// run parses CLI args and maps errors to process exit codes.
func (runner *cliRunner) run(args []string) int {
	err := parseCLIArgs(args, runner)
	if err == nil {
		return 0
	}

	var flagErr *flags.Error
	if errors.As(err, &flagErr) {
		if flagErr.Type == flags.ErrHelp {
			writeCLIError(runner.stdout, err)
			return 0
		}

		writeCLIError(runner.stderr, err)
		return 2
	}

	writeCLIError(runner.stderr, err)
	return 1
}

// runGenerate loads fragments, compiles registry and writes synthesized payload.
func (runner *cliRunner) runGenerate(command *generateCommand) error {
	data, err := runner.readInput(command.Args.Input)
	if err != nil {
		return fmt.Errorf("read schema input: %w", err)
	}

	fragments, err := mockschema.LoadFragments(data)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	registry, aliases, diag := mockschema.Compile(fragments)
	runner.writeWarnings(diag)

	symbol, err := selectSymbol(registry, aliases, command.Schema)
	if err != nil {
		return err
	}

	policy, err := loadPolicy(command.PolicyFlags)
	if err != nil {
		return err
	}

	overrides, err := loadOverrides(command.OverrideFlags)
	if err != nil {
		return err
	}

	builder, err := registry.Builder(symbol)
	if err != nil {
		return err
	}

	for _, key := range sortedOverrideKeys(overrides) {
		if key == mockschema.ItemsOverrideKey && builder.Schema().Kind == mockschema.KindArray {
			continue
		}

		if err := builder.Set(key, overrides[key]); err != nil {
			_, _ = fmt.Fprintf(runner.stderr, "warning: override %v\n", err)
		}
	}

	strategy, err := newStrategy(command.StrategyFlags)
	if err != nil {
		return err
	}

	value, err := registry.Generate(symbol, policy, strategy, overrides)
	if err != nil {
		return err
	}

	return runner.writePayload(value, builder.Schema(), command.OutputFlags.Format, command.Args.Output)
}

// runRegistry writes canonical symbol table.
func (runner *cliRunner) runRegistry(command *registryCommand) error {
	data, err := runner.readInput(command.Args.Input)
	if err != nil {
		return fmt.Errorf("read schema input: %w", err)
	}

	fragments, err := mockschema.LoadFragments(data)
	if err != nil {
		return fmt.Errorf("load schema: %w", err)
	}

	registry, _, diag := mockschema.Compile(fragments)
	runner.writeWarnings(diag)

	format, err := mockschema.ParseOutputFormat(command.OutputFlags.Format)
	if err != nil {
		return err
	}

	encoded, err := mockschema.EncodeRegistry(registry, format)
	if err != nil {
		return err
	}

	return runner.writeOutput(encoded, command.Args.Output)
}

// runNotation parses notation text and writes payload or recovered schema.
func (runner *cliRunner) runNotation(command *notationCommand) error {
	text := command.Expression
	output := command.Args.Output
	if strings.TrimSpace(text) == "" {
		data, err := runner.readInput(command.Args.Input)
		if err != nil {
			return fmt.Errorf("read notation input: %w", err)
		}

		text = string(data)
	} else if command.Args.Input != "" && output == "" {
		// With --expr the single positional argument is the output path.
		output = command.Args.Input
	}

	schema, diag := mockschema.ReadNotation(text)
	runner.writeWarnings(diag)

	if command.ShowSchema {
		registry := mockschema.NewRegistry()
		registry.Register(schema, "Notation")

		format, err := mockschema.ParseOutputFormat(command.OutputFlags.Format)
		if err != nil {
			return err
		}

		encoded, err := mockschema.EncodeRegistry(registry, format)
		if err != nil {
			return err
		}

		return runner.writeOutput(encoded, output)
	}

	policy, err := loadPolicy(command.PolicyFlags)
	if err != nil {
		return err
	}

	overrides, err := loadOverrides(command.OverrideFlags)
	if err != nil {
		return err
	}

	strategy, err := newStrategy(command.StrategyFlags)
	if err != nil {
		return err
	}

	value := mockschema.Synthesize(schema, policy, strategy, overrides)
	return runner.writePayload(value, schema, command.OutputFlags.Format, output)
}

// selectSymbol resolves requested fragment name or symbol into registry symbol.
func selectSymbol(registry *mockschema.Registry, aliases map[string]string, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		if symbol, ok := aliases[requested]; ok {
			return symbol, nil
		}

		if _, ok := registry.Lookup(requested); ok {
			return requested, nil
		}

		return "", fmt.Errorf("%w %q; available: %s", mockschema.ErrUnknownSymbol, requested, strings.Join(fragmentNames(aliases), ", "))
	}

	switch {
	case len(aliases) == 0:
		return "", errNoFragments
	case len(aliases) == 1:
		for _, symbol := range aliases {
			return symbol, nil
		}
	}

	if symbol, ok := aliases["Root"]; ok {
		return symbol, nil
	}

	return "", fmt.Errorf("document has %d fragments, select one with --schema: %s", len(aliases), strings.Join(fragmentNames(aliases), ", "))
}

// sortedOverrideKeys returns override keys in lexical order.
func sortedOverrideKeys(overrides map[string]any) []string {
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}

	sort.Strings(keys)
	return keys
}

// fragmentNames returns sorted fragment names.
func fragmentNames(aliases map[string]string) []string {
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}

	sort.Strings(names)
	return names
}

// loadPolicy reads policy file and applies flag overrides.
func loadPolicy(options policyFlags) (mockschema.Policy, error) {
	var policy mockschema.Policy
	if path := strings.TrimSpace(options.PolicyFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return policy, fmt.Errorf("read policy file %q: %w", path, err)
		}

		policy, err = mockschema.ParsePolicy(data)
		if err != nil {
			return policy, fmt.Errorf("parse policy file %q: %w", path, err)
		}
	}

	policy.UseDefault = policy.UseDefault || options.UseDefault
	policy.UseExamples = policy.UseExamples || options.UseExamples
	policy.RequiredOnly = policy.RequiredOnly || options.RequiredOnly
	policy.AlwaysIncludeOptionals = policy.AlwaysIncludeOptionals || options.AlwaysOptionals
	policy.OmitNulls = policy.OmitNulls || options.OmitNulls

	switch value := strings.ToLower(strings.TrimSpace(options.OptionalsProbability)); value {
	case "":
	case "false", "null":
		policy.OptionalsProbability = mockschema.Probability{}
	default:
		probability, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return policy, fmt.Errorf("%w: optionals-probability %q is not a number", mockschema.ErrInvalidPolicy, options.OptionalsProbability)
		}

		policy.OptionalsProbability = mockschema.ProbabilityOf(probability)
	}

	return policy, nil
}

// loadOverrides reads overrides file and applies --set assignments on top.
func loadOverrides(options overrideFlags) (map[string]any, error) {
	overrides := make(map[string]any)
	if path := strings.TrimSpace(options.OverridesFile); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read overrides file %q: %w", path, err)
		}

		overrides, err = mockschema.ParseOverrides(data)
		if err != nil {
			return nil, fmt.Errorf("parse overrides file %q: %w", path, err)
		}
	}

	for _, assignment := range options.Set {
		key, value, err := parseAssignment(assignment)
		if err != nil {
			return nil, err
		}

		overrides[key] = value
	}

	return overrides, nil
}

// parseAssignment splits key=value and decodes value as YAML scalar or flow collection.
func parseAssignment(assignment string) (string, any, error) {
	key, raw, ok := strings.Cut(assignment, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", nil, fmt.Errorf("invalid --set %q: want key=value", assignment)
	}

	if strings.TrimSpace(raw) == "" {
		return key, "", nil
	}

	var value any
	if err := yaml.Unmarshal([]byte(raw), &value); err != nil {
		return "", nil, fmt.Errorf("invalid --set %q value: %w", assignment, err)
	}

	return key, value, nil
}

// newStrategy builds value strategy; randomized without seed draws from clock.
func newStrategy(options strategyFlags) (mockschema.Strategy, error) {
	if options.Strategy == mockschema.StrategyRandomized && options.Seed == 0 {
		return mockschema.NewRandomized(nil), nil
	}

	return mockschema.NewStrategy(options.Strategy, options.Seed)
}

// writePayload encodes generated value and writes it to stdout or file.
func (runner *cliRunner) writePayload(value any, schema *mockschema.Schema, formatName, outputPath string) error {
	format, err := mockschema.ParseOutputFormat(formatName)
	if err != nil {
		return err
	}

	encoded, err := mockschema.Encode(value, schema, format)
	if err != nil {
		return err
	}

	return runner.writeOutput(encoded, outputPath)
}

// writeOutput writes bytes to stdout or output file.
func (runner *cliRunner) writeOutput(data []byte, outputPath string) error {
	if strings.TrimSpace(outputPath) == "" {
		if _, err := runner.stdout.Write(data); err != nil {
			return fmt.Errorf("write output to stdout: %w", err)
		}

		return nil
	}

	if err := os.WriteFile(outputPath, data, 0o600); err != nil {
		return fmt.Errorf("write output file %q: %w", outputPath, err)
	}

	return nil
}

// writeWarnings prints canonicalization and notation warnings to stderr.
func (runner *cliRunner) writeWarnings(diag *mockschema.Diagnostics) {
	for _, warning := range diag.Warnings() {
		_, _ = fmt.Fprintf(runner.stderr, "warning: %s\n", warning)
	}
}

// readInput reads file path or stdin.
func (runner *cliRunner) readInput(path string) ([]byte, error) {
	path = strings.TrimSpace(path)
	if path != "" && path != "-" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read file %q: %w", path, err)
		}

		return data, nil
	}

	data, err := io.ReadAll(runner.stdin)
	if err != nil {
		return nil, fmt.Errorf("read stdin: %w", err)
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errors.New("read stdin: empty input")
	}

	return data, nil
}

// writeCLIError writes a plain-text CLI error line to the selected stream.
func writeCLIError(output io.Writer, err error) {
	if err == nil {
		return
	}

	//nolint:gosec // CLI writes plain-text diagnostics to terminal streams, not HTTP responses.
	_, _ = fmt.Fprintln(output, err.Error())
}

// parseCLIArgs parses CLI arguments and triggers selected subcommand execution.
func parseCLIArgs(args []string, runner *cliRunner) error {
	options := &cliOptions{}
	options.Version.runner = runner
	options.Generate.runner = runner
	options.Registry.runner = runner
	options.Notation.runner = runner

	parser := flags.NewParser(options, flags.HelpFlag)
	parser.Name = runner.programName
	applyCommandLongDescriptions(parser, runner.programName)

	_, err := parser.ParseArgs(args)
	return err
}

// applyCommandLongDescriptions configures detailed command help text with examples.
func applyCommandLongDescriptions(parser *flags.Parser, programName string) {
	descriptions := map[string]string{
		"generate": strings.TrimSpace(fmt.Sprintf(`
Synthesize mock payload from JSON Schema or OpenAPI document.
Fragments are taken from components.schemas, $defs or definitions.
Reads schema from file argument or stdin; writes payload to file argument or stdout.

Examples:
> $ %s generate --schema User openapi.yaml > user.json
> $ %s generate -S randomized --seed 42 -f yaml --set name=demo schema.json
`, programName, programName)),
		"registry": strings.TrimSpace(fmt.Sprintf(`
Canonicalize all schema fragments and print deduplicated symbol table.
Structurally identical fragments share one symbol.

Examples:
> $ %s registry openapi.yaml
> $ %s registry -f yaml schema.json registry.yaml
`, programName, programName)),
		"notation": strings.TrimSpace(fmt.Sprintf(`
Recover schema from constraint notation and synthesize payload for it.

Examples:
> $ %s notation -e 'z.object({ id: z.string().uuid(), age: z.number().int().min(18) })'
> $ %s notation --show-schema model.ts
`, programName, programName)),
	}

	for commandName, description := range descriptions {
		command := parser.Find(commandName)
		if command == nil {
			continue
		}

		command.LongDescription = description
	}
}

func printVersionInfo(output io.Writer) {
	_, _ = fmt.Fprintf(output, `url:      %s
file:     %s
version:  %s
commit:   %s
built:    %s
`, URL, os.Args[0], Version, Commit, BuildTime)
}
