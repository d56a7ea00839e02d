// Package console runs a line-oriented command loop over one game.
package console

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessroom/internal/board"
	"github.com/hailam/chessroom/internal/engine"
	"github.com/hailam/chessroom/internal/game"
	"github.com/hailam/chessroom/internal/storage"
)

// Console reads commands from in and writes replies to out.
type Console struct {
	engine *engine.Engine
	store  *storage.Store // nil disables recording

	game       *game.Game
	difficulty engine.Difficulty
	aiColor    board.Color // side the engine answers for, NoColor for none

	// Bookkeeping for the game record
	started    time.Time
	humanMoved bool
	aiMoved    bool
	recorded   bool

	in  io.Reader
	out io.Writer
}

// New creates a console. store may be nil.
func New(eng *engine.Engine, store *storage.Store, in io.Reader, out io.Writer) *Console {
	c := &Console{
		engine:     eng,
		store:      store,
		difficulty: engine.Medium,
		aiColor:    board.NoColor,
		in:         in,
		out:        out,
	}
	c.reset(game.New())
	eng.OnInfo = c.sendInfo
	return c
}

// SetDifficulty sets the engine difficulty.
func (c *Console) SetDifficulty(d engine.Difficulty) {
	c.difficulty = d
}

// SetAIColor makes the engine answer automatically for color, or for nobody
// with NoColor.
func (c *Console) SetAIColor(color board.Color) {
	c.aiColor = color
}

// Game returns the game being played.
func (c *Console) Game() *game.Game {
	return c.game
}

// Run reads commands until "quit" or the end of input.
func (c *Console) Run() error {
	scanner := bufio.NewScanner(c.in)

	for scanner.Scan() {
		if !c.Execute(scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line. It returns false on "quit".
func (c *Console) Execute(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return true
	}

	parts := strings.Fields(line)
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "new":
		c.handleNew(args)
	case "fen":
		c.handleFEN(args)
	case "place":
		c.handlePlace(args)
	case "unplace":
		c.handleUnplace(args)
	case "move":
		c.handleMove(args)
	case "moves":
		c.handleMoves(args)
	case "promote":
		c.handlePromote(args)
	case "undo":
		if c.game.Undo() {
			c.println("ok")
		} else {
			c.println("nothing to undo")
		}
	case "ai":
		c.playAI()
	case "aiplays":
		c.handleAIPlays(args)
	case "level":
		c.handleLevel(args)
	case "board", "d":
		c.println(c.game.String())
	case "status":
		c.handleStatus()
	case "history":
		c.println(strings.Join(c.game.History(), " "))
	case "stats":
		c.handleStats()
	case "games":
		c.handleGames()
	case "perft":
		c.handlePerft(args)
	case "quit":
		return false
	default:
		c.printf("error: unknown command %q\n", cmd)
	}
	return true
}

func (c *Console) println(s string) {
	fmt.Fprintln(c.out, s)
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.out, format, args...)
}

func (c *Console) printErr(err error) {
	c.printf("error: %v\n", err)
}

// reset starts bookkeeping for a fresh game.
func (c *Console) reset(g *game.Game) {
	c.game = g
	c.started = time.Now()
	c.humanMoved = false
	c.aiMoved = false
	c.recorded = false
}

// handleNew starts a game: "new" for the standard position, "new sandbox"
// for an empty board open for placement.
func (c *Console) handleNew(args []string) {
	if len(args) > 0 && args[0] == "sandbox" {
		c.reset(game.NewSandbox())
	} else {
		c.reset(game.New())
	}
	c.println("ok")
}

// handleFEN prints the position, or loads one when a FEN is given.
func (c *Console) handleFEN(args []string) {
	if len(args) == 0 {
		c.println(c.game.FEN())
		return
	}
	g, err := game.FromFEN(strings.Join(args, " "))
	if err != nil {
		c.printErr(err)
		return
	}
	c.reset(g)
	c.println("ok")
	c.afterMove()
}

func (c *Console) handlePlace(args []string) {
	if len(args) != 1 {
		c.println("usage: place <square><color><kind>, e.g. place e4wq")
		return
	}
	ok, err := c.game.Place(args[0])
	switch {
	case err != nil:
		c.printErr(err)
	case !ok:
		c.printf("square %s is occupied\n", args[0][:2])
	default:
		c.println("ok")
	}
}

func (c *Console) handleUnplace(args []string) {
	if len(args) != 1 {
		c.println("usage: unplace <square>")
		return
	}
	ok, err := c.game.Unplace(args[0])
	switch {
	case err != nil:
		c.printErr(err)
	case !ok:
		c.printf("square %s is empty\n", args[0])
	default:
		c.println("ok")
	}
}

func (c *Console) handleMove(args []string) {
	if len(args) != 1 {
		c.println("usage: move <from>-><to>, e.g. move e2->e4")
		return
	}
	outcome, err := c.game.SubmitMove(args[0])
	switch outcome {
	case game.Applied:
		c.humanMoved = true
		if sq, pending := c.game.PendingPromotion(); pending {
			c.printf("promote on %s: promote <q|r|b|n>\n", sq)
			return
		}
		c.println("ok")
		c.afterMove()
	case game.Illegal:
		if err != nil {
			c.printErr(err)
			return
		}
		c.printf("illegal move %s\n", args[0])
	default:
		c.printErr(err)
	}
}

func (c *Console) handleMoves(args []string) {
	if len(args) != 1 {
		c.println("usage: moves <square>")
		return
	}
	dests, err := c.game.LegalDestinations(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	c.println(strings.Join(dests, " "))
}

func (c *Console) handlePromote(args []string) {
	if len(args) != 1 {
		c.println("usage: promote <q|r|b|n>")
		return
	}
	if err := c.game.ResolvePromotion(args[0]); err != nil {
		c.printErr(err)
		return
	}
	c.println("ok")
	c.afterMove()
}

func (c *Console) handleAIPlays(args []string) {
	if len(args) != 1 {
		c.println("usage: aiplays <white|black|none>")
		return
	}
	switch args[0] {
	case "white":
		c.aiColor = board.White
	case "black":
		c.aiColor = board.Black
	case "none":
		c.aiColor = board.NoColor
	default:
		c.printf("error: unknown side %q\n", args[0])
		return
	}
	c.println("ok")
	c.afterMove()
}

func (c *Console) handleLevel(args []string) {
	if len(args) != 1 {
		c.printf("level %s\n", c.difficulty)
		return
	}
	d, err := engine.ParseDifficulty(args[0])
	if err != nil {
		c.printErr(err)
		return
	}
	c.difficulty = d
	c.println("ok")
}

// playAI lets the engine move for the side to move.
func (c *Console) playAI() {
	m, err := c.game.PlayAI(c.engine, c.difficulty)
	if err != nil {
		c.printErr(err)
		return
	}
	c.aiMoved = true
	history := c.game.History()
	c.printf("ai plays %s (%s)\n", m, history[len(history)-1])
	c.afterMove()
}

// afterMove records a finished game, or lets the engine answer when it is
// its turn.
func (c *Console) afterMove() {
	if c.game.IsGameOver() {
		c.finish()
		return
	}
	if _, pending := c.game.PendingPromotion(); pending {
		return
	}
	if c.aiColor != board.NoColor && c.game.Turn() == c.aiColor {
		c.playAI()
	}
}

// finish reports the result and records the game once.
func (c *Console) finish() {
	res, reason := c.game.Result()
	c.printf("game over: %s (%s)\n", res, reason)
	if c.recorded || c.store == nil {
		return
	}
	c.recorded = true

	rec := storage.GameRecord{
		Result:   res.String(),
		Reason:   reason,
		Mode:     c.mode(),
		Moves:    c.game.History(),
		FinalFEN: c.game.FEN(),
		Duration: time.Since(c.started),
	}
	if c.aiMoved {
		rec.Difficulty = c.difficulty.String()
	}
	id, err := c.store.RecordGame(rec)
	if err != nil {
		c.printErr(err)
		return
	}
	c.printf("recorded game %d\n", id)
}

func (c *Console) mode() storage.GameMode {
	switch {
	case c.aiMoved && c.humanMoved:
		return storage.ModeHumanVsComputer
	case c.aiMoved:
		return storage.ModeComputerVsComputer
	}
	return storage.ModeHumanVsHuman
}

func (c *Console) handleStatus() {
	res, reason := c.game.Result()
	if res == game.Ongoing {
		c.printf("%s to move\n", c.game.Turn())
		return
	}
	c.printf("game over: %s (%s)\n", res, reason)
}

func (c *Console) handleStats() {
	if c.store == nil {
		c.println("error: no store")
		return
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		c.printErr(err)
		return
	}
	c.printf("games %d white %d black %d draws %d (%.1f%%) moves %d longest %d\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws,
		stats.DrawRate(), stats.TotalMoves, stats.LongestGame)
}

func (c *Console) handleGames() {
	if c.store == nil {
		c.println("error: no store")
		return
	}
	games, err := c.store.Games()
	if err != nil {
		c.printErr(err)
		return
	}
	for _, g := range games {
		c.printf("%d %s %s %s %s\n", g.ID, g.Result, g.Reason, g.Mode, strings.Join(g.Moves, " "))
	}
}

func (c *Console) handlePerft(args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 0 {
			c.printf("error: invalid depth %q\n", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	nodes := c.engine.Perft(c.game.Snapshot(), depth)
	elapsed := time.Since(start)

	c.printf("Nodes: %d\n", nodes)
	c.printf("Time: %v\n", elapsed)
}

// sendInfo prints a search summary.
func (c *Console) sendInfo(info engine.SearchInfo) {
	var parts []string

	parts = append(parts, fmt.Sprintf("depth %d", info.Depth))

	// Score
	if info.Score > engine.MateScore-engine.MaxPly {
		mateIn := (engine.MateScore - info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else if info.Score < -engine.MateScore+engine.MaxPly {
		mateIn := -(engine.MateScore + info.Score + 1) / 2
		parts = append(parts, fmt.Sprintf("score mate %d", mateIn))
	} else {
		parts = append(parts, fmt.Sprintf("score cp %d", info.Score))
	}

	parts = append(parts, fmt.Sprintf("nodes %d", info.Nodes))
	parts = append(parts, fmt.Sprintf("time %d", info.Time.Milliseconds()))
	parts = append(parts, "move "+info.Move.String())

	c.printf("info %s\n", strings.Join(parts, " "))
}
