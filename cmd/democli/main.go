// main.go: democli, an orpheus-style command-line host that exercises
// pkg/fscontext end to end — list, read, search, and checksum over a
// single approved root, the same shape an AI agent host would wrap.
//
// Copyright (c) 2025 AGILira - A. Giordano
// Series: an AGILira library
// SPDX-License-Identifier: MPL-2.0

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/agilira/filesystem-context/pkg/fscontext"
	"github.com/agilira/orpheus/pkg/orpheus"
)

func main() {
	app := orpheus.New("democli").
		SetDescription("Sandboxed filesystem-context demo").
		SetVersion("1.0.0")

	app.AddGlobalFlag("root", "r", ".", "allowed root directory")

	app.Command("ls", "List a directory under the allowed root", cmdList)
	app.Command("read", "Print a file's contents", cmdRead)
	app.Command("search", "Search file contents for a pattern", cmdSearch)
	app.Command("sum", "Print a file's SHA-256 checksum", cmdChecksum)

	app.SetDefaultCommand("ls")

	if err := app.Run(os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}

// sandboxFromContext builds the allowed-root sandbox for this invocation.
// The --root flag first passes through orpheus's own CLI-input security
// layer (traversal/device-name/control-character screening) before it
// ever reaches fscontext's sandbox, which performs the authoritative
// symlink-resolved containment check.
func sandboxFromContext(ctx *orpheus.Context) (*fscontext.Sandbox, error) {
	root := ctx.GetGlobalFlagString("root")
	if root == "" {
		root = "."
	}
	if res := orpheus.ValidateSecurePath(root, orpheus.DefaultSecurityConfig()); !res.IsSecure() {
		return nil, fmt.Errorf("--root rejected by CLI input screening: %s", strings.Join(res.Errors, "; "))
	}

	abs, err := fscontext.NormalizePath(root)
	if err != nil {
		return nil, err
	}
	return fscontext.NewSandbox([]string{abs})
}

func printJSON(v interface{}) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func cmdList(ctx *orpheus.Context) error {
	sandbox, err := sandboxFromContext(ctx)
	if err != nil {
		return orpheus.ExecutionError("ls", err.Error())
	}

	target := "."
	if ctx.ArgCount() > 0 {
		target = ctx.GetArg(0)
	}
	requested, err := fscontext.NormalizePath(target)
	if err != nil {
		return orpheus.ExecutionError("ls", err.Error())
	}

	res := fscontext.List(sandbox, requested, fscontext.WalkOptions{MaxDepth: 4, MaxEntries: 2000})
	if !res.OK {
		return orpheus.ExecutionError("ls", fmt.Sprintf("%s: %s", res.Error.Code, res.Error.Message))
	}
	printJSON(res.Payload)
	return nil
}

func cmdRead(ctx *orpheus.Context) error {
	if ctx.ArgCount() == 0 {
		return orpheus.ValidationError("read", "file path required")
	}
	sandbox, err := sandboxFromContext(ctx)
	if err != nil {
		return orpheus.ExecutionError("read", err.Error())
	}

	requested, err := fscontext.NormalizePath(ctx.GetArg(0))
	if err != nil {
		return orpheus.ExecutionError("read", err.Error())
	}

	res := fscontext.Read(sandbox, requested, fscontext.ReadFileRequest{SkipBinary: true})
	if !res.OK {
		return orpheus.ExecutionError("read", fmt.Sprintf("%s: %s", res.Error.Code, res.Error.Message))
	}
	fmt.Print(res.Payload.Content)
	return nil
}

func cmdSearch(ctx *orpheus.Context) error {
	if ctx.ArgCount() == 0 {
		return orpheus.ValidationError("search", "search pattern required")
	}
	sandbox, err := sandboxFromContext(ctx)
	if err != nil {
		return orpheus.ExecutionError("search", err.Error())
	}

	pattern := ctx.GetArg(0)
	req := fscontext.ContentSearchRequest{
		Pattern:      pattern,
		MatchOptions: fscontext.MatchOptions{Pattern: pattern},
		ContextLines: 2,
		MaxResults:   200,
		SkipBinary:   true,
	}
	res := fscontext.ContentSearch(sandbox, ".", req)
	if !res.OK {
		return orpheus.ExecutionError("search", fmt.Sprintf("%s: %s", res.Error.Code, res.Error.Message))
	}
	printJSON(res.Payload)
	return nil
}

func cmdChecksum(ctx *orpheus.Context) error {
	if ctx.ArgCount() == 0 {
		return orpheus.ValidationError("sum", "file path required")
	}
	sandbox, err := sandboxFromContext(ctx)
	if err != nil {
		return orpheus.ExecutionError("sum", err.Error())
	}

	requested, err := fscontext.NormalizePath(ctx.GetArg(0))
	if err != nil {
		return orpheus.ExecutionError("sum", err.Error())
	}

	res := fscontext.ChecksumFile(sandbox, requested, fscontext.ChecksumOptions{Algorithm: fscontext.ChecksumSHA256})
	if !res.OK {
		return orpheus.ExecutionError("sum", fmt.Sprintf("%s: %s", res.Error.Code, res.Error.Message))
	}
	fmt.Println(res.Payload)
	return nil
}
