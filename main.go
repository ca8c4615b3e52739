package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/takanopontaro/footloose2/internal/bookmark"
	"github.com/takanopontaro/footloose2/internal/config"
	"github.com/takanopontaro/footloose2/internal/history"
	"github.com/takanopontaro/footloose2/internal/preview"
	"github.com/takanopontaro/footloose2/internal/task"
	"github.com/takanopontaro/footloose2/internal/taskmgr"
	"github.com/takanopontaro/footloose2/internal/watch"
	"github.com/takanopontaro/footloose2/internal/wsserver"
)

var version = "dev"

func main() {
	port := flag.Int("port", 3000, "listen port (binds 127.0.0.1 only)")
	root := flag.String("root", "", "document root (required)")
	timeStyle := flag.String("time-style", "", "strftime-subset time format, e.g. %y/%m/%d %H:%M:%S")
	bookmarkPath := flag.String("bookmark", "", "path to the bookmark JSON file")
	historyPath := flag.String("history", "", "path to the sqlite command history database")
	configPath := flag.String("config", "", "optional operator config overlay (YAML)")
	flag.Parse()

	if err := validateArgs(*port, *root, *bookmarkPath); err != nil {
		log.Fatalf("args: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	effectiveTimeStyle := *timeStyle
	if effectiveTimeStyle == "" {
		effectiveTimeStyle = cfg.Get().TimeStyle
	}

	fmt.Printf("footloose2 %s\n", version)

	var hist *history.DB
	if *historyPath != "" {
		hist, err = history.Open(*historyPath)
		if err != nil {
			log.Fatalf("history: %v", err)
		}
		defer hist.Close()

		retention := time.Duration(cfg.Get().HistoryRetentionDays) * 24 * time.Hour
		if err := hist.Prune(context.Background(), time.Now().Add(-retention)); err != nil {
			log.Printf("history: prune: %v", err)
		}
	} else {
		log.Println("-history not set; command history will not be recorded")
	}

	watchMgr := watch.New(effectiveTimeStyle)
	bookmarkMgr := bookmark.New(*bookmarkPath)

	tasks := taskmgr.New()
	tasks.Register("cd", &task.ChangeDir{Watch: watchMgr})
	tasks.Register("cvd", &task.ChangeVirtualDir{Watch: watchMgr})
	tasks.Register("bookmark", &task.Bookmark{Manager: bookmarkMgr, OnMutate: bookmarkHistoryHook(hist)})
	tasks.Register("open", &task.Open{})
	tasks.Register("progress", &task.Progress{})
	tasks.Register("sh", &task.Sh{})
	tasks.Register("vcp", &task.ExtractEntries{})
	tasks.Register("kill", &task.AbortProgress{})
	tasks.RegisterInternal("remove_client", &task.RemoveClient{Watch: watchMgr})
	tasks.OnCommand = commandHistoryHook(hist)

	mux := http.NewServeMux()
	mux.Handle("/ws", wsserver.Handler(tasks))
	mux.Handle("/preview/", preview.Handler())
	mux.Handle("/", http.FileServer(http.Dir(*root)))

	srv := &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", *port),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Printf("listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http: %v", err)
		}
	}()

	<-sigCh
	log.Println("shutting down…")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
}

// commandHistoryHook adapts history.DB to taskmgr's OnCommand callback,
// returning a no-op when no history database was configured.
func commandHistoryHook(hist *history.DB) func(name, frame, cwd, outcome string) {
	if hist == nil {
		return nil
	}
	return func(name, frame, cwd, outcome string) {
		if err := hist.LogCommand(context.Background(), name, frame, cwd, outcome); err != nil {
			log.Printf("history: %v", err)
		}
	}
}

// bookmarkHistoryHook adapts history.DB to task.Bookmark's OnMutate
// callback.
func bookmarkHistoryHook(hist *history.DB) func(action, name, path string) {
	if hist == nil {
		return nil
	}
	return func(action, name, path string) {
		if err := hist.LogBookmark(context.Background(), action, name, path); err != nil {
			log.Printf("history: %v", err)
		}
	}
}

// validateArgs mirrors the original CLI's validation step: a positive
// port, a root that exists, and — if a bookmark path was given — creating
// an empty bookmark file on first run rather than failing.
func validateArgs(port int, root, bookmarkPath string) error {
	if port <= 0 {
		return fmt.Errorf("port must be positive, got %d", port)
	}
	if root == "" {
		return fmt.Errorf("-root is required")
	}
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		return fmt.Errorf("-root %q is not a directory", root)
	}
	if bookmarkPath != "" {
		if err := bookmark.EnsureFile(bookmarkPath); err != nil {
			return fmt.Errorf("bookmark file: %w", err)
		}
	}
	return nil
}
