// Command atlas is the host callable surface's CLI driver: compile,
// check, run, ast and opcodes, each wired to pkg/atlas and
// internal/atlaslog the way the teacher's own cobra CLI wires its
// subcommands to its core packages.
//
// The lexer/parser that turns source text into internal/rawast's tree is
// explicitly out of scope for this module (spec.md's "explicitly out of
// scope" list); every subcommand below that would otherwise take an
// Atlas source file instead runs its pipeline against a small built-in
// sample program, so `atlas run`, `atlas compile`, `atlas check` and
// `atlas ast` still exercise the real binder/checker/compiler/engines
// end to end.
package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/atlas-lang/atlas/internal/atlaslog"
	"github.com/atlas-lang/atlas/internal/bytecode"
	"github.com/atlas-lang/atlas/internal/diag"
	"github.com/atlas-lang/atlas/internal/rawast"
	"github.com/atlas-lang/atlas/internal/security"
	atlaspkg "github.com/atlas-lang/atlas/pkg/atlas"
	"github.com/atlas-lang/atlas/pkg/config"
)

const samplePath = "sample.atl"

// stdoutOutput adapts os.Stdout to dispatch.Output for print-family
// builtins invoked by `atlas run`.
type stdoutOutput struct{}

func (stdoutOutput) WriteString(s string) (int, error) { return fmt.Fprint(os.Stdout, s) }

// sampleProgram is the built-in stand-in for a parsed .atl file: a tiny
// program exercising a let binding, arithmetic, and a print call, enough
// to drive every stage of the pipeline.
func sampleProgram() *rawast.Program {
	sp := diag.Span{File: samplePath, Line: 1, Column: 1}
	return &rawast.Program{
		Sp: sp,
		Items: []rawast.Node{
			&rawast.LetDecl{
				Name: "sum", Mutable: false,
				Init: &rawast.BinaryOp{
					Op:    "+",
					Left:  &rawast.NumberLit{Value: 2, Sp: sp},
					Right: &rawast.NumberLit{Value: 3, Sp: sp},
					Sp:    sp,
				},
				Sp: sp,
			},
			&rawast.ExprStmt{
				Expr: &rawast.CallExpr{
					Callee: &rawast.Identifier{Name: "print", Sp: sp},
					Args:   []rawast.Node{&rawast.Identifier{Name: "sum", Sp: sp}},
					Sp:     sp,
				},
				Sp: sp,
			},
		},
	}
}

func main() {
	root := &cobra.Command{
		Use:   "atlas",
		Short: "Atlas language toolchain: compile, check, run, inspect",
	}

	var logLevel string
	root.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the logging.level config value")
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		cfg, err := config.Load("")
		if err != nil {
			atlaslog.Logger().WithError(err).Warn("using default configuration")
			cfg = &config.AppConfig
		}
		if logLevel != "" {
			atlaslog.SetLevel(logLevel)
		} else {
			atlaslog.SetLevel(cfg.Logging.Level)
		}
	}

	root.AddCommand(checkCmd(), compileCmd(), runCmd(), astCmd(), opcodesCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func renderDiagnostics(diags []diag.Diagnostic, format string) {
	for _, d := range diags {
		if format == "json" {
			b, err := diag.RenderJSON(d, "")
			if err != nil {
				atlaslog.Logger().WithError(err).Error("rendering diagnostic")
				continue
			}
			fmt.Fprintln(os.Stdout, string(b))
			continue
		}
		fmt.Fprint(os.Stdout, diag.RenderHuman(d, ""))
	}
}

func checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "bind and type-check the sample program, reporting diagnostics",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.AppConfig
			diags := atlaspkg.Check(sampleProgram())
			renderDiagnostics(diags, cfg.Diagnostics.Format)
			if atlaspkg.HasErrors(diags) {
				os.Exit(1)
			}
		},
	}
}

func compileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "compile",
		Short: "compile the sample program to bytecode and summarize the chunk",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.AppConfig
			chunk, diags := atlaspkg.Compile(sampleProgram())
			renderDiagnostics(diags, cfg.Diagnostics.Format)
			if chunk == nil {
				os.Exit(1)
			}
			fmt.Printf("compiled %d bytes, %d constants\n", chunk.Len(), len(chunk.Constants))
		},
	}
}

func runCmd() *cobra.Command {
	var engine string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "run the sample program on the interpreter or the bytecode VM",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.AppConfig
			if engine == "" {
				engine = cfg.Engine.Default
			}
			sec := security.Unrestricted()
			out := stdoutOutput{}

			switch engine {
			case "vm":
				chunk, diags := atlaspkg.Compile(sampleProgram())
				renderDiagnostics(diags, cfg.Diagnostics.Format)
				if chunk == nil {
					os.Exit(1)
				}
				result, err := atlaspkg.EvalVM(chunk, sec, out)
				reportResult(result, err)
			case "interpreter":
				prog, diags := atlaspkg.AST(sampleProgram())
				renderDiagnostics(diags, cfg.Diagnostics.Format)
				if atlaspkg.HasErrors(diags) {
					os.Exit(1)
				}
				result, err := atlaspkg.EvalInterpreter(prog, sec, out)
				reportResult(result, err)
			default:
				atlaslog.Logger().Fatalf("unknown engine %q (want interpreter or vm)", engine)
			}
		},
	}
	cmd.Flags().StringVar(&engine, "engine", "", "interpreter or vm (default: engine.default from config)")
	return cmd
}

func reportResult(result interface{ String() string }, err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	fmt.Println(result.String())
}

func astCmd() *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "ast",
		Short: "print the bound, type-checked tree of the sample program",
		Run: func(cmd *cobra.Command, args []string) {
			cfg := config.AppConfig
			prog, diags := atlaspkg.AST(sampleProgram())
			renderDiagnostics(diags, cfg.Diagnostics.Format)

			switch format {
			case "yaml":
				enc := yaml.NewEncoder(os.Stdout)
				defer enc.Close()
				if err := enc.Encode(prog); err != nil {
					atlaslog.Logger().WithError(err).Error("encoding ast")
					os.Exit(1)
				}
			default:
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(prog); err != nil {
					atlaslog.Logger().WithError(err).Error("encoding ast")
					os.Exit(1)
				}
			}
		},
	}
	cmd.Flags().StringVar(&format, "format", "json", "json or yaml")
	return cmd
}

func opcodesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "opcodes",
		Short: "list every opcode internal/bytecode defines",
		Run: func(cmd *cobra.Command, args []string) {
			for _, entry := range bytecode.Catalogue() {
				fmt.Printf("%3d  %s\n", entry.Op, entry.Name)
			}
		},
	}
}
