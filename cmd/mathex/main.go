// Command mathex is a small REPL/one-shot CLI around the mathex engine: it
// parses and evaluates expressions given on the command line, from a file,
// or from stdin, optionally seeding variables beforehand.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	mathex "github.com/st9007a/MathEX"
	"github.com/st9007a/MathEX/builtin"
)

func main() {
	var (
		inname, verb string
		with         [][2]string
		lines        bool
		echo         bool
		verbose      bool
	)
	addwith := func(s string) error {
		d := strings.SplitN(s, "=", 2)
		if len(d) != 2 {
			return fmt.Errorf("variable definitions must be \"name=value\", not %q", s)
		}
		with = append(with, [2]string{strings.TrimSpace(d[0]), strings.TrimSpace(d[1])})
		return nil
	}
	flag.StringVar(&inname, "in", "", "input file (default stdin if no expressions given)")
	flag.StringVar(&verb, "fmt", "%g", "result formatting string")
	flag.Func("given", "name=value variable definition (any number of times)", addwith)
	flag.BoolVar(&lines, "n", false, "treat each line of input as a separate expression")
	flag.BoolVar(&echo, "echo", false, "print parse trees alongside results")
	flag.BoolVar(&verbose, "v", false, "enable debug logging of parse activity")
	flag.Parse()

	var logger *zap.SugaredLogger
	if verbose {
		l, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		defer l.Sync()
		logger = l.Sugar()
	}

	env := &mathex.Variables{}
	funcs := builtin.Funcs(logger)

	for _, d := range with {
		seed, err := mathex.Parse(d[1], env, funcs)
		if err != nil {
			fmt.Fprintf(os.Stderr, "setting %s: %v\n", d[0], err)
			os.Exit(1)
		}
		env.LookupOrCreate(d[0]).Value = seed.Eval()
	}

	var exprs []string
	if flag.NArg() > 0 {
		exprs = flag.Args()
	} else {
		src, err := readSource(inname)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		if lines {
			for _, ln := range strings.Split(src, "\n") {
				if strings.TrimSpace(ln) != "" {
					exprs = append(exprs, ln)
				}
			}
		} else {
			exprs = []string{src}
		}
	}

	var opts []mathex.ParseOption
	if logger != nil {
		opts = append(opts, mathex.WithLogger(logger))
	}

	verb += "\n"
	for _, src := range exprs {
		tree, err := mathex.Parse(src, env, funcs, opts...)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", src, err)
			os.Exit(1)
		}
		if echo {
			fmt.Printf("%v : ", tree)
		}
		fmt.Printf(verb, tree.Eval())
		tree.Destroy()
	}
}

func readSource(inname string) (string, error) {
	var f *os.File
	switch {
	case inname != "" && inname != "-":
		in, err := os.Open(inname)
		if err != nil {
			return "", err
		}
		defer in.Close()
		f = in
	default:
		f = os.Stdin
	}
	r := bufio.NewReader(f)
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
