package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/kballard/go-shellquote"
	"gopkg.in/yaml.v3"

	"github.com/mkarman/go-stash/core"
	"github.com/mkarman/go-stash/stash"
	"github.com/mkarman/go-stash/value"
)

func main() {
	baseDir := flag.String("dir", "", "Base directory for the store (default: user config dir)")
	configFile := flag.String("config", "", "Path to a YAML config file")
	flag.Parse()

	var opts []stash.Option
	if *baseDir != "" {
		opts = append(opts, stash.WithBaseDir(*baseDir))
	}
	if *configFile != "" {
		opts = append(opts, stash.WithConfigFile(*configFile))
	}

	store, err := stash.Open(opts...)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println("Type commands. 'help' for information or 'exit' to quit.")

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		line, err := reader.ReadString('\n')
		if err != nil {
			fmt.Println("input error:", err)
			return
		}

		line = strings.TrimSpace(line)

		if line == "" {
			continue
		}

		if line == "exit" {
			return
		}

		args, err := shellquote.Split(line)
		if err != nil {
			fmt.Println("parse error:", err)
			continue
		}
		if len(args) == 0 {
			continue
		}

		if err := run(store, reader, args); err != nil {
			fmt.Println(err)
		}
	}
}

func run(store *stash.Store, reader *bufio.Reader, args []string) error {
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "set":
		return runSet(store, args)
	case "get":
		return runGet(store, args)
	case "del":
		return runDel(store, args)
	case "push":
		return runPush(store, args)
	case "pop":
		return runPop(store, args)
	case "list":
		return runList(store)
	case "history":
		return runHistory(store, args)
	case "reset":
		return runReset(store, reader)
	case "help":
		fmt.Println(strings.TrimSpace(helpText))
		return nil
	}

	return fmt.Errorf("invalid command %q, try 'help'", cmd)
}

func runSet(store *stash.Store, args []string) error {
	var format string
	args, format = extractOption(args, "--format")

	if len(args) < 2 {
		return errors.New("usage: set <key> <value> [--format msgpack|json|yaml]")
	}

	v, err := parseLiteral(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	stored, err := store.Set(args[0], v, format)
	if err != nil {
		return err
	}

	fmt.Println(stored)
	return nil
}

func runGet(store *stash.Store, args []string) error {
	key := core.DefaultKey
	if len(args) > 0 {
		key = args[0]
	}

	v, ok, err := store.Get(key)
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("nil")
		return nil
	}

	fmt.Println(v)
	return nil
}

func runDel(store *stash.Store, args []string) error {
	key := core.DefaultKey
	if len(args) > 0 {
		key = args[0]
	}
	return store.Del(key)
}

func runPush(store *stash.Store, args []string) error {
	var unique bool
	args, unique = extractFlag(args, "--unique")

	if len(args) < 1 {
		return errors.New("usage: push <key> <value> [--unique]")
	}
	if len(args) < 2 {
		return errors.New("push requires a value")
	}

	v, err := parseLiteral(strings.Join(args[1:], " "))
	if err != nil {
		return err
	}

	stored, err := store.Push(args[0], v, unique)
	if err != nil {
		return err
	}

	fmt.Println(stored)
	return nil
}

func runPop(store *stash.Store, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: pop <key>")
	}

	v, ok, err := store.Pop(args[0])
	if err != nil {
		return err
	}
	if !ok {
		fmt.Println("nil")
		return nil
	}

	fmt.Println(v)
	return nil
}

func runList(store *stash.Store) error {
	entries, err := store.List()
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("nil")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s\t%s\t%s\n", e.Key, e.Filename, e.Modified.Format("2006-01-02 15:04:05"))
	}
	return nil
}

func runHistory(store *stash.Store, args []string) error {
	if len(args) < 1 {
		return errors.New("usage: history <key>")
	}

	versions, err := store.History(args[0])
	if err != nil {
		return err
	}

	if len(versions) == 0 {
		fmt.Println("nil")
		return nil
	}

	for _, v := range versions {
		fmt.Printf("%s\t%s\n", v.Written.Format("2006-01-02 15:04:05.000000"), v.Filename)
	}
	return nil
}

func runReset(store *stash.Store, reader *bufio.Reader) error {
	fmt.Print("Clear every key from the index? Value files stay on disk. [y/N] ")

	answer, err := reader.ReadString('\n')
	if err != nil {
		return err
	}

	if strings.ToLower(strings.TrimSpace(answer)) != "y" {
		fmt.Println("aborted")
		return nil
	}

	return store.Reset()
}

// parseLiteral turns a command-line value literal into a typed value: 42,
// 3.14, true, null, [a, b] and {x: 1} all become their natural kinds, and
// anything unrecognized stays a string.
func parseLiteral(s string) (value.Value, error) {
	var native any
	if err := yaml.Unmarshal([]byte(s), &native); err != nil {
		// Not parseable as a structured literal, keep the raw string.
		return value.String(s), nil
	}
	return value.FromInterface(native)
}

// extractOption removes "name <arg>" from args if present.
func extractOption(args []string, name string) ([]string, string) {
	for i, a := range args {
		if a == name && i+1 < len(args) {
			val := args[i+1]
			return append(args[:i:i], args[i+2:]...), val
		}
	}
	return args, ""
}

// extractFlag removes the bare flag name from args if present.
func extractFlag(args []string, name string) ([]string, bool) {
	for i, a := range args {
		if a == name {
			return append(args[:i:i], args[i+1:]...), true
		}
	}
	return args, false
}

const helpText = `
Available Commands:

SET <key> <value> [--format msgpack|json|yaml]
  Store a value for the given key. Writes a new value file and repoints
  the key; earlier versions stay on disk.
  Response: the stored value

GET [key]
  Retrieve the value for the key (default key: "last").
  Response: value | nil

DEL [key]
  Remove the key from the index (default key: "last").
  Value files are not removed.

PUSH <key> <value> [--unique]
  Append the value to the list stored at the key, creating the list if
  the key is new. --unique drops existing equal elements first.
  Response: the stored list

POP <key>
  Remove and return the last element of the list stored at the key.
  Response: element | nil

LIST
  List keys in recency order with their value file and modification time.

HISTORY <key>
  Show every version ever written for the key, oldest first.

RESET
  Clear the whole index (asks for confirmation). Value files stay on disk.

HELP
  Show this help message.

EXIT
  Quit.
`
