// Command scl runs simplicial-complex language programs: from a file,
// interactively, or behind an HTTP API.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	scl "github.com/Simobr312/lpl-project"
	"github.com/Simobr312/lpl-project/server"
)

// Version is the CLI version.
const Version = "0.3.0"

var (
	rootCmd = &cobra.Command{
		Use:   "scl",
		Short: "An interpreter for a language of simplicial complexes",
		Long: `scl evaluates programs that build simplicial complexes with
union, glue and join, and inspects them with dimension, face counts
and GF(2) Betti numbers.`,
	}

	runCmd = &cobra.Command{
		Use:   "run [file]",
		Short: "Evaluate a program file and print its complexes",
		Args:  cobra.ExactArgs(1),
		RunE:  runFile,
	}

	replCmd = &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		RunE:  func(*cobra.Command, []string) error { return runRepl() },
	}

	serveConfig string
	serveAddr   string
	serveCmd    = &cobra.Command{
		Use:   "serve",
		Short: "Serve the interpreter over HTTP",
		RunE:  runServe,
	}

	demoCmd = &cobra.Command{
		Use:   "demo",
		Short: "Build a hollow tetrahedron and report its homology",
		RunE:  runDemo,
	}

	versionCmd = &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(Version)
		},
	}
)

func init() {
	serveCmd.Flags().StringVar(&serveConfig, "config", "", "path to a YAML config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides the config)")
	rootCmd.AddCommand(runCmd, replCmd, serveCmd, demoCmd, versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runFile(_ *cobra.Command, args []string) error {
	file := args[0]
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("cannot read %s: %w", file, err)
	}

	res, err := scl.NewInterpreter().EvalSource(string(src))
	if err != nil {
		fmt.Fprintln(os.Stderr, scl.FormatErrorWithSource(err, file, string(src)))
		os.Exit(1)
	}

	printSnapshot(res.Snapshot())
	return nil
}

// printSnapshot lists every complex variable in name order.
func printSnapshot(snapshot map[string]scl.ComplexView) {
	names := make([]string, 0, len(snapshot))
	for name := range snapshot {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		view := snapshot[name]
		fmt.Printf("%s: dim %d, %d vertices\n", name, view.Dimension, len(view.Vertices))
		for _, s := range view.Simplices {
			fmt.Printf("  %v\n", s)
		}
	}
}

func runServe(_ *cobra.Command, _ []string) error {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))

	cfg := server.DefaultConfig()
	if serveConfig != "" {
		loaded, err := server.LoadConfig(serveConfig)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if serveAddr != "" {
		cfg.ListenAddr = serveAddr
	}
	return server.New(cfg).Run()
}

const demoProgram = `// The boundary of a tetrahedron: four triangular faces,
// no solid interior.
complex face1 = [V1, V2, V3]
complex face2 = [V1, V2, V4]
complex face3 = [V2, V3, V4]
complex face4 = [V1, V3, V4]

complex shell = union(union(union(face1, face2), face3), face4)
`

func runDemo(_ *cobra.Command, _ []string) error {
	fmt.Print(demoProgram)
	fmt.Println("---")

	res, err := scl.NewInterpreter().EvalSource(demoProgram)
	if err != nil {
		return err
	}
	shell, err := res.Complex("shell")
	if err != nil {
		return err
	}

	fmt.Printf("shell: dim %d, %d vertices, %d faces\n",
		shell.Dimension(), shell.NumVertices(), shell.NumFaces())
	betti := scl.Homology(shell)
	for k := 0; k <= shell.Dimension(); k++ {
		fmt.Printf("  betti %d = %d\n", k, betti[k])
	}
	return nil
}
