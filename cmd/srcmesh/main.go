package main

import (
	"fmt"
	"os"
	"runtime/pprof"

	"github.com/joho/godotenv"

	"github.com/lukaszgryglicki/srcmesh/internal/srcmesh"
)

// debugBuild is set by binaries built with -tags debug.
var debugBuild bool

func main() {
	if len(os.Args) > 1 {
		fmt.Fprintln(os.Stderr, srcmesh.ErrUsage)
		os.Exit(1)
	}
	envErr := godotenv.Load()
	srcmesh.Debug = debugBuild || os.Getenv("DEBUG") != ""
	if envErr != nil {
		srcmesh.DebugLog("No .env file found, using process environment")
	}
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if profile {
			pprof.StopCPUProfile()
		}
		os.Exit(1)
	}
}

func run() error {
	path := os.Getenv("SRCMESH_CONFIG")
	if path == "" {
		path = srcmesh.ConfigFile
	}
	cfg, err := srcmesh.LoadConfig(path)
	if err != nil {
		return err
	}
	if err := srcmesh.ApplyEnv(cfg, os.Getenv); err != nil {
		return err
	}
	_, err = srcmesh.Run(cfg, os.Stdout)
	return err
}
