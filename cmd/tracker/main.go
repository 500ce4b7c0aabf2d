// Package main provides a small command-line journal client. It talks to a
// running server when -remote is set and falls back to an offline on-disk
// journal otherwise.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/OnelioViera/drinking-app-v1/internal/counter"
	"github.com/OnelioViera/drinking-app-v1/internal/domain"
	"github.com/OnelioViera/drinking-app-v1/internal/journal"
)

const usage = `Usage: tracker [flags] <command> [args]

Commands:
  list                 show journal entries, newest first
  add                  record a check-in (-mood required)
  edit <index>         update the entry at the given list index
  delete <index>       remove the entry at the given list index
  purge <index>        permanently erase the entry at the given list index
  streak               show elapsed sober time (-since required)
  reset                restart the sobriety counter (remote only, asks first)

Flags:
`

func main() {
	fs := flag.NewFlagSet("tracker", flag.ExitOnError)
	remote := fs.String("remote", "", "Server base URL, e.g. http://localhost:8080")
	token := fs.String("token", os.Getenv("TRACKER_TOKEN"), "Access token for the remote server")
	dataPath := fs.String("data", defaultDataPath(), "Offline journal directory")
	mood := fs.String("mood", "", "Mood: Great, Good, Neutral, Anxious, Stressed, Tired")
	notes := fs.String("notes", "", "Free-form notes")
	triggers := fs.String("triggers", "", "Comma-separated trigger names")
	at := fs.String("at", "", "Entry timestamp (RFC 3339, default now)")
	since := fs.String("since", "", "Sobriety start for the streak command (RFC 3339)")
	watch := fs.Bool("watch", false, "Keep running: list re-prints on journal changes, streak ticks every second")
	fs.Usage = func() {
		fmt.Fprint(fs.Output(), usage)
		fs.PrintDefaults()
	}

	if err := fs.Parse(os.Args[1:]); err != nil {
		os.Exit(2)
	}
	if fs.NArg() < 1 {
		fs.Usage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	command := fs.Arg(0)
	if command == "streak" {
		if err := runStreak(ctx, *since, *watch); err != nil {
			fatal(err)
		}
		return
	}
	if command == "reset" {
		if err := runReset(ctx, *remote, *token, *at, os.Stdin); err != nil {
			fatal(err)
		}
		return
	}

	// With list -watch the change callback does the printing, both for the
	// initial load and after every on-disk change.
	var onChange journal.ChangeFunc
	if command == "list" && *watch {
		onChange = printEntries
	}

	client := journal.NewClient(openStore(*remote, *token, *dataPath), onChange)
	if err := client.Connect(ctx); err != nil {
		fatal(fmt.Errorf("connect: %w", err))
	}

	var err error
	switch command {
	case "list":
		if *watch {
			err = runListWatch(ctx, client, *remote, filepath.Join(*dataPath, "journal"))
		} else {
			err = runList(client)
		}
	case "add":
		err = runSave(ctx, client, -1, *mood, *notes, *triggers, *at)
	case "edit":
		var index int
		if index, err = parseIndex(fs.Arg(1)); err == nil {
			err = runSave(ctx, client, index, *mood, *notes, *triggers, *at)
		}
	case "delete":
		err = runDelete(ctx, client, fs.Arg(1), false)
	case "purge":
		err = runDelete(ctx, client, fs.Arg(1), true)
	default:
		fs.Usage()
		os.Exit(2)
	}
	if err != nil {
		fatal(err)
	}
}

func openStore(remote, token, dataPath string) journal.Store {
	if remote != "" {
		return journal.NewRemoteStore(remote, token)
	}
	return journal.NewLocalStore(filepath.Join(dataPath, "journal"), "local")
}

func runList(client *journal.Client) error {
	printEntries(client.Entries())
	return nil
}

// runListWatch keeps re-printing the journal as its files change on disk.
func runListWatch(ctx context.Context, client *journal.Client, remote, dir string) error {
	if remote != "" {
		return fmt.Errorf("list -watch only works with the offline journal")
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	watcher, err := journal.NewWatcher(client, dir, logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	return watcher.Run(ctx)
}

func printEntries(entries []*domain.JournalEntry) {
	if len(entries) == 0 {
		fmt.Println("No entries yet.")
		return
	}
	for i, entry := range entries {
		line := fmt.Sprintf("%3d  %s  %-8s", i, entry.OccurredAt.Local().Format("2006-01-02 15:04"), entry.Mood)
		if len(entry.Triggers) > 0 {
			line += "  [" + strings.Join(entry.Triggers, ", ") + "]"
		}
		if entry.Notes != "" {
			line += "  " + entry.Notes
		}
		fmt.Println(line)
	}
}

func runSave(ctx context.Context, client *journal.Client, editIndex int, mood, notes, triggers, at string) error {
	form := journal.NewForm(client, nil)

	if editIndex >= 0 {
		if err := form.BeginEdit(editIndex); err != nil {
			return err
		}
	}
	if mood != "" {
		m := domain.Mood(mood)
		if !m.Valid() {
			return fmt.Errorf("unknown mood %q", mood)
		}
		form.SelectMood(m)
	}
	if notes != "" {
		form.SetNotes(notes)
	}
	for _, trigger := range strings.Split(triggers, ",") {
		if trigger = strings.TrimSpace(trigger); trigger != "" {
			form.ToggleTrigger(trigger)
		}
	}
	if at != "" {
		t, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return fmt.Errorf("invalid -at value: %w", err)
		}
		form.SetOccurredAt(t)
	}

	entry, err := form.Save(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Saved entry %s (%s)\n", entry.ID, entry.Mood)
	return nil
}

func runDelete(ctx context.Context, client *journal.Client, arg string, permanent bool) error {
	index, err := parseIndex(arg)
	if err != nil {
		return err
	}
	entry := client.Entry(index)
	if entry == nil {
		return fmt.Errorf("no entry at index %d", index)
	}

	remove := client.Delete
	if permanent {
		remove = client.Purge
	}
	if err := remove(ctx, entry.ID); err != nil {
		return err
	}
	if permanent {
		fmt.Printf("Permanently deleted entry %s\n", entry.ID)
	} else {
		fmt.Printf("Deleted entry %s\n", entry.ID)
	}
	return nil
}

// runReset restarts the server-side sobriety period. The counter arms the
// reset first and sends nothing until the user confirms, so an accidental
// invocation costs nothing.
func runReset(ctx context.Context, remote, token, at string, in io.Reader) error {
	if remote == "" {
		return fmt.Errorf("reset requires -remote: the sobriety period lives on the server")
	}

	var startedAt time.Time
	if at != "" {
		var err error
		if startedAt, err = time.Parse(time.RFC3339, at); err != nil {
			return fmt.Errorf("invalid -at value: %w", err)
		}
	}

	store := journal.NewRemoteStore(remote, token)
	if err := store.Connect(ctx); err != nil {
		return fmt.Errorf("connect: %w", err)
	}

	current := time.Now()
	if period, err := store.Period(ctx); err == nil {
		current = period.StartedAt
	}

	c := counter.New(current, nil, func(ctx context.Context) (time.Time, error) {
		period, err := store.ResetPeriod(ctx, startedAt)
		if err != nil {
			return time.Time{}, err
		}
		return period.StartedAt, nil
	})

	e := counter.Since(current, time.Now())
	fmt.Printf("Current streak: %dd %02dh %02dm %02ds\n", e.Days, e.Hours, e.Minutes, e.Seconds)

	c.RequestReset()
	fmt.Print("Reset the sobriety counter? Type yes to confirm: ")
	var answer string
	fmt.Fscanln(in, &answer)
	if !strings.EqualFold(strings.TrimSpace(answer), "yes") {
		c.CancelReset()
		fmt.Println("Reset cancelled.")
		return nil
	}

	if err := c.ConfirmReset(ctx); err != nil {
		return err
	}
	fmt.Printf("Counter reset. New start: %s\n", c.StartedAt().Local().Format(time.RFC3339))
	return nil
}

func runStreak(ctx context.Context, since string, watch bool) error {
	if since == "" {
		return fmt.Errorf("streak requires -since, e.g. -since 2026-01-01T00:00:00Z")
	}
	start, err := time.Parse(time.RFC3339, since)
	if err != nil {
		return fmt.Errorf("invalid -since value: %w", err)
	}

	printElapsed := func(e counter.Elapsed) {
		fmt.Printf("\r%dd %02dh %02dm %02ds sober", e.Days, e.Hours, e.Minutes, e.Seconds)
	}

	if !watch {
		printElapsed(counter.Since(start, time.Now()))
		fmt.Println()
		return nil
	}

	c := counter.New(start, printElapsed, nil)
	c.Run(ctx)
	fmt.Println()
	return nil
}

func parseIndex(arg string) (int, error) {
	if arg == "" {
		return 0, fmt.Errorf("missing entry index")
	}
	index, err := strconv.Atoi(arg)
	if err != nil || index < 0 {
		return 0, fmt.Errorf("invalid entry index %q", arg)
	}
	return index, nil
}

func defaultDataPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".sobriety-tracker"
	}
	return filepath.Join(home, ".sobriety-tracker")
}

func fatal(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(1)
}
