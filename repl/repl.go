package skink

import (
	"bufio"
	"fmt"
	"os"
	"runtime/pprof"
	"strings"
)

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

// NB at the moment this doesn't track comment and string state,
// so it will fail if unbalanced '(' are found in either.
func isBalanced(str string) bool {
	parens := 0

	for _, c := range str {
		switch c {
		case '(':
			parens++
		case ')':
			parens--
		}
	}

	return parens == 0
}

var continuationPrompt = ">> "

func (pr *Prompter) getExpressionOrig(reader *bufio.Reader) (string, error) {

	line, err := getLine(reader)
	if err != nil {
		return "", err
	}

	for !isBalanced(line) {
		fmt.Printf(continuationPrompt)
		nextline, err := getLine(reader)
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

// reads Stdin only
func (pr *Prompter) getExpressionWithLiner() (string, error) {

	line, err := pr.Getline(nil)
	if err != nil {
		return "", err
	}

	for !isBalanced(line) {
		nextline, err := pr.Getline(&continuationPrompt)
		if err != nil {
			return "", err
		}
		line += "\n" + nextline
	}
	return line, nil
}

func Repl(env *Skink, cfg *SkinkConfig) {
	// used if one wishes to drop the liner library and use
	// pr.getExpressionOrig() instead.
	//reader := bufio.NewReader(os.Stdin)

	fmt.Printf("skink version %s\n", Version())
	fmt.Printf("press tab (repeatedly) to get completion suggestions. Shift-tab goes back.\n")
	pr := NewPrompter()
	defer pr.Close()

	for {
		//line, err := pr.getExpressionOrig(reader)
		line, err := pr.getExpressionWithLiner()
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}

		parts := strings.Split(strings.TrimSpace(line), " ")
		if len(parts) == 0 || parts[0] == "" {
			continue
		}

		if parts[0] == "quit" {
			break
		}

		if parts[0] == "dump" {
			env.DumpEnvironment()
			continue
		}

		expr, err := env.EvalString(line)
		if err != nil {
			fmt.Println(err)
			continue
		}

		if expr != SexpNull {
			fmt.Println(expr.SexpString())
		}
	}
}

func runScript(env *Skink, fname string, cfg *SkinkConfig) {
	file, err := os.Open(fname)
	if err != nil {
		fmt.Println(err)
		return
	}
	defer file.Close()

	_, err = env.EvalFile(file)
	if err != nil {
		fmt.Println(err)
		if cfg.ExitOnFailure {
			os.Exit(-1)
		}
		Repl(env, cfg)
	}
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *SkinkConfig) {
	env := NewSkink()

	if cfg.CpuProfile != "" {
		f, err := os.Create(cfg.CpuProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		err = pprof.StartCPUProfile(f)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer pprof.StopCPUProfile()
	}

	args := cfg.Flags.Args()
	if len(args) > 0 {
		runScript(env, args[0], cfg)
	} else {
		Repl(env, cfg)
	}

	if cfg.MemProfile != "" {
		f, err := os.Create(cfg.MemProfile)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
		defer f.Close()

		err = pprof.Lookup("heap").WriteTo(f, 1)
		if err != nil {
			fmt.Println(err)
			os.Exit(-1)
		}
	}
}
