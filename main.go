// Command algopseudo transpiles a French-pseudocode source file to C,
// Java, or Python by running the lexer, parser, and semantic analyzer in
// sequence, then handing the resolved AST to the backend the user picks.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/codeassociates/algopseudo/ast"
	"github.com/codeassociates/algopseudo/diag"
	"github.com/codeassociates/algopseudo/emit/c"
	"github.com/codeassociates/algopseudo/emit/java"
	"github.com/codeassociates/algopseudo/emit/python"
	"github.com/codeassociates/algopseudo/lexer"
	"github.com/codeassociates/algopseudo/parser"
	"github.com/codeassociates/algopseudo/sema"
)

const version = "0.1.0"

// Exit codes, per the tool's observable external contract.
const (
	exitSuccess   = 0
	exitBadArgs   = 1
	exitLexical   = 2
	exitSyntactic = 3
	exitSemantic  = 4
	exitEmission  = 5
)

var (
	flagTokens bool
	flagAST    bool
	flagTarget string
	flagOutput string
)

func main() {
	root := &cobra.Command{
		Use:     "algopseudo <fichier>",
		Short:   "Transpile French-pseudocode source to C, Java, or Python",
		Version: version,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			os.Exit(run(args[0]))
			return nil
		},
		SilenceUsage: true,
	}

	root.Flags().BoolVar(&flagTokens, "tokens", true, "print the token stream")
	root.Flags().BoolVar(&flagAST, "ast", true, "print the parsed syntax tree")
	root.Flags().StringVar(&flagTarget, "target", "", "target language (c, java, python); skips the interactive prompt")
	root.Flags().StringVarP(&flagOutput, "output", "o", "", "output file path (default: out.c, Main.java, or out.py)")

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitBadArgs)
	}
}

// run executes the full pipeline for the source file at path and returns
// the process exit code.
func run(path string) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "impossible d'ouvrir %q: %s\n", path, err)
		return exitBadArgs
	}

	toks, lexErrs := lexer.Tokenize(string(src))
	if flagTokens {
		fmt.Println("=== Tokens ===")
		fmt.Print(lexer.TokenNames(toks))
	}
	if !lexErrs.Empty() {
		fmt.Println("=== Erreurs lexicales ===")
		for _, s := range lexErrs.Strings() {
			fmt.Println(s)
		}
		return exitLexical
	}

	p := parser.New(lexer.New(string(src)))
	prog := p.ParseProgram()
	if flagAST {
		fmt.Println("=== Arbre syntaxique ===")
		fmt.Print(ast.Print(prog))
	}
	if !p.Errors.Empty() {
		fmt.Println("=== Erreurs syntaxiques ===")
		for _, s := range p.Errors.Strings() {
			fmt.Println(s)
		}
		return exitSyntactic
	}

	info, semErrs := sema.AnalyzeProgram(prog)
	if !semErrs.Empty() {
		fmt.Println("=== Erreurs sémantiques ===")
		for _, s := range semErrs.Strings() {
			fmt.Println(s)
		}
		return exitSemantic
	}

	target := flagTarget
	if target == "" {
		target = promptTarget()
		if target == "" {
			fmt.Fprintln(os.Stderr, "choix de langage cible invalide, génération annulée")
			return exitBadArgs
		}
	}

	out, outPath, genErrs, ok := generate(target, prog, info)
	if !ok {
		fmt.Fprintln(os.Stderr, "langage cible inconnu:", target)
		return exitBadArgs
	}
	if !genErrs.Empty() {
		fmt.Println("=== Erreurs de génération ===")
		for _, s := range genErrs.Strings() {
			fmt.Println(s)
		}
		return exitEmission
	}

	if flagOutput != "" {
		outPath = flagOutput
	}
	if err := os.WriteFile(outPath, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "erreur d'écriture de %q: %s\n", outPath, err)
		return exitEmission
	}

	fmt.Printf("fichier généré: %s\n", outPath)
	return exitSuccess
}

// promptTarget reads the interactive 1/2/3 target-language selection from
// stdin, returning "c", "java", "python", or "" for an invalid selection.
func promptTarget() string {
	fmt.Print("Langage cible (1 = C, 2 = Java, 3 = Python): ")
	reader := bufio.NewReader(os.Stdin)
	line, _ := reader.ReadString('\n')
	switch strings.TrimSpace(line) {
	case "1":
		return "c"
	case "2":
		return "java"
	case "3":
		return "python"
	default:
		return ""
	}
}

func generate(target string, prog *ast.Program, info *sema.Info) (source, outPath string, errs diag.Stream, ok bool) {
	switch target {
	case "c":
		src, d := c.Generate(prog, info.Types)
		return src, "out.c", d, true
	case "java":
		src, d := java.Generate(prog, info.Types)
		return src, "Main.java", d, true
	case "python":
		src, d := python.Generate(prog, info.Types)
		return src, "out.py", d, true
	default:
		return "", "", diag.Stream{}, false
	}
}
