package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"
	"runtime/pprof"
	"strconv"
	"strings"

	"github.com/hailam/chessroom/internal/board"
	"github.com/hailam/chessroom/internal/console"
	"github.com/hailam/chessroom/internal/engine"
	"github.com/hailam/chessroom/internal/storage"
)

func main() {
	// Flags (env fallbacks).
	level := flag.String("level", getenv("CHESSROOM_LEVEL", "medium"), "AI difficulty: easy, medium or hard")
	aiSide := flag.String("ai", getenv("CHESSROOM_AI", "none"), "side the AI plays: white, black or none")
	threads := flag.Int("threads", getenvInt("CHESSROOM_THREADS", runtime.NumCPU()), "root search workers")
	cacheMB := flag.Int("cache", getenvInt("CHESSROOM_CACHE_MB", 4), "evaluation cache per worker in MB")
	dataDir := flag.String("data-dir", getenv("CHESSROOM_DATA_DIR", ""), "directory for game records (empty keeps them in memory)")
	script := flag.String("script", getenv("CHESSROOM_SCRIPT", ""), "read commands from this file instead of stdin")
	quiet := flag.Bool("quiet", getenb("CHESSROOM_QUIET", false), "suppress log output")
	cpuprofile := flag.String("cpuprofile", getenv("CPUPROFILE", ""), "write cpu profile to file")
	flag.Parse()

	if *quiet {
		log.SetOutput(io.Discard)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", *cpuprofile)
	}

	difficulty, err := engine.ParseDifficulty(*level)
	fatalIf(err, "level")
	color, err := parseSide(*aiSide)
	fatalIf(err, "ai")

	store, err := storage.Open(*dataDir)
	fatalIf(err, "storage")
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("storage close: %v", err)
		}
	}()

	eng := engine.NewEngine(*cacheMB)
	eng.SetThreads(*threads)

	var in io.Reader = os.Stdin
	if *script != "" {
		f, err := os.Open(*script)
		fatalIf(err, "script")
		defer f.Close()
		in = f
	}

	c := console.New(eng, store, in, os.Stdout)
	c.SetDifficulty(difficulty)
	c.SetAIColor(color)
	log.Printf("chessroom ready: level %s, ai %s, %d threads", difficulty, *aiSide, eng.Threads())

	if err := c.Run(); err != nil {
		log.Printf("input: %v", err)
	}
}

func parseSide(s string) (board.Color, error) {
	switch strings.ToLower(s) {
	case "white":
		return board.White, nil
	case "black":
		return board.Black, nil
	case "none", "":
		return board.NoColor, nil
	}
	return board.NoColor, fmt.Errorf("unknown side %q", s)
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func getenb(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "t", "yes", "y", "on":
			return true
		case "0", "false", "f", "no", "n", "off":
			return false
		}
	}
	return def
}

func fatalIf(err error, label string) {
	if err != nil {
		log.Fatalf("%s: %v", label, err)
	}
}
