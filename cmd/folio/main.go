package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"folio/internal/bootstrap"
	positiondto "folio/internal/modules/position/dto"
	readerdto "folio/internal/modules/reader/dto"
	relayinadapter "folio/internal/modules/relay/adapter/in"
	"folio/internal/platform/clock"
	"folio/internal/platform/config"
	"folio/internal/platform/logging"
)

type rootOptions struct {
	libraryPath string
	deviceID    string
	configFile  string
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = fmt.Fprintln(os.Stderr, "warning: load .env:", err)
	}
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "folio",
		Short:         "Reading positions across devices and readers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.libraryPath, "library", ".", "library directory")
	root.PersistentFlags().StringVar(&opts.deviceID, "device", "", "device id (default: persisted id of this install)")
	root.PersistentFlags().StringVar(&opts.configFile, "config", "", "config file (default: <library>/folio.yaml)")

	root.AddCommand(newTUICmd(opts))
	root.AddCommand(newShelfCmd(opts))
	root.AddCommand(newPositionCmd(opts))
	root.AddCommand(newReaderCmd(opts))
	root.AddCommand(newSessionCmd(opts))
	root.AddCommand(newDictCmd(opts))
	root.AddCommand(newRelayCmd(opts))
	root.AddCommand(newEngineCmd(opts))
	return root
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load(opts.libraryPath, opts.configFile)
	if err != nil {
		return config.Config{}, err
	}
	if opts.deviceID != "" {
		cfg.DeviceID = opts.deviceID
	}
	return cfg, nil
}

// loadApp wires the application with logs on stderr.
func loadApp(opts *rootOptions) (*bootstrap.App, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, logging.New(cfg.Log, os.Stderr))
}

func newTUICmd(opts *rootOptions) *cobra.Command {
	var bookID string
	cmd := &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal reader",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logFile, err := logging.OpenFile(cfg.Log.Path)
			if err != nil {
				return err
			}
			defer func() { _ = logFile.Close() }()

			app, err := bootstrap.New(cfg, logging.New(cfg.Log, logFile))
			if err != nil {
				return err
			}
			return bootstrap.RunTUI(app, bookID)
		},
	}
	cmd.Flags().StringVar(&bookID, "book", "", "book id to open on start")
	return cmd
}

func newShelfCmd(opts *rootOptions) *cobra.Command {
	shelf := &cobra.Command{Use: "shelf", Short: "Manage the books in the library"}

	var title, kind string
	var authors []string
	add := &cobra.Command{
		Use:   "add <path>",
		Short: "Add an EPUB, PDF or CBZ file to the shelf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.ShelfCLI.Add(context.Background(), args[0], title, kind, authors)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s, %s) note=%s\n", out.Title, out.ID, out.Kind, out.NotePath)
			return nil
		},
	}
	add.Flags().StringVar(&title, "title", "", "book title (default: file name)")
	add.Flags().StringVar(&kind, "kind", "", "epub|pdf|cbz (default: from extension)")
	add.Flags().StringSliceVar(&authors, "authors", nil, "authors")

	list := &cobra.Command{
		Use:   "list",
		Short: "List books",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			books, err := app.ShelfCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(books) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "shelf is empty")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tKIND\tTITLE")
			for _, b := range books {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\n", b.ID, b.Kind, b.Title)
			}
			return w.Flush()
		},
	}

	var bookID string
	show := &cobra.Command{
		Use:   "show",
		Short: "Show a book and its positions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			book, err := app.ShelfCLI.Show(context.Background(), bookID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "id:      %s\ntitle:   %s\nkind:    %s\nfile:    %s\nnote:    %s\nadded:   %s\n",
				book.ID, book.Title, book.Kind, book.FilePath, book.NotePath, book.AddedAt)
			if len(book.Authors) > 0 {
				_, _ = fmt.Fprintf(out, "authors: %s\n", strings.Join(book.Authors, ", "))
			}
			for _, p := range book.Positions {
				_, _ = fmt.Fprintf(out, "  %s  p.%d/%d  %.1f%%  %s\n", p.DeviceID, p.Page, p.MaxPage, p.TotalProgress*100, p.ChapterTitle)
			}
			return nil
		},
	}
	show.Flags().StringVar(&bookID, "id", "", "book id")
	_ = show.MarkFlagRequired("id")

	var removeID string
	remove := &cobra.Command{
		Use:   "remove",
		Short: "Remove a book and its positions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			if err := app.ShelfCLI.Remove(context.Background(), removeID); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", removeID)
			return nil
		},
	}
	remove.Flags().StringVar(&removeID, "id", "", "book id")
	_ = remove.MarkFlagRequired("id")

	shelf.AddCommand(add, list, show, remove)
	return shelf
}

func newPositionCmd(opts *rootOptions) *cobra.Command {
	position := &cobra.Command{Use: "position", Short: "Inspect and report reading positions"}

	var showBook string
	var latest bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Show this device's position (see --device) or the latest across devices",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			ctx := context.Background()
			var pos positiondto.Position
			if latest {
				pos, err = app.PositionCLI.Latest(ctx, showBook)
			} else {
				pos, err = app.PositionCLI.Show(ctx, showBook, app.Config.DeviceID)
			}
			if err != nil {
				return err
			}
			printPosition(cmd.OutOrStdout(), pos)
			return nil
		},
	}
	show.Flags().StringVar(&showBook, "book", "", "book id")
	show.Flags().BoolVar(&latest, "latest", false, "most recent position across devices")
	_ = show.MarkFlagRequired("book")

	var listBook string
	list := &cobra.Command{
		Use:   "list",
		Short: "List the positions of every device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			positions, err := app.PositionCLI.List(context.Background(), listBook)
			if err != nil {
				return err
			}
			if len(positions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no positions")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "DEVICE\tKIND\tPAGE\tPROGRESS\tCHAPTER\tUPDATED")
			for _, p := range positions {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d/%d\t%.1f%%\t%s\t%s\n", p.DeviceID, p.Kind, p.Page, p.MaxPage,
					p.TotalProgress*100, p.ChapterTitle, formatEpoch(p.Timestamp))
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&listBook, "book", "", "book id")
	_ = list.MarkFlagRequired("book")

	in := readerdto.LocateInput{}
	locate := &cobra.Command{
		Use:   "locate",
		Short: "Report a locator change as a reader would and store the resulting position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			in.DeviceID = app.Config.DeviceID
			in.HasProgression = cmd.Flags().Changed("progression")
			in.HasTotal = cmd.Flags().Changed("total")
			page, err := app.ReaderCLI.Locate(context.Background(), in)
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "p.%d/%d  %.1f%%  %s\n", page.Page, page.MaxPage, page.Progress*100, page.ChapterTitle)
			return nil
		},
	}
	locate.Flags().StringVar(&in.BookID, "book", "", "book id")
	locate.Flags().StringVar(&in.Href, "href", "", "resource reference")
	locate.Flags().StringVar(&in.Fragment, "fragment", "", "fragment, e.g. page=12")
	locate.Flags().IntVar(&in.Position, "position", 0, "absolute position (1-based)")
	locate.Flags().Float64Var(&in.Progression, "progression", 0, "progress within the resource (0..1)")
	locate.Flags().Float64Var(&in.TotalProgression, "total", 0, "progress within the book (0..1)")
	locate.Flags().StringVar(&in.Title, "title", "", "locator title")
	_ = locate.MarkFlagRequired("book")
	_ = locate.MarkFlagRequired("href")

	position.AddCommand(show, list, locate)
	return position
}

func newReaderCmd(opts *rootOptions) *cobra.Command {
	reader := &cobra.Command{Use: "reader", Short: "Reader navigation commands"}

	var bookID string
	toc := &cobra.Command{
		Use:   "toc",
		Short: "Print a book's table of contents",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			entries, err := app.ReaderCLI.TableOfContents(context.Background(), bookID)
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no table of contents")
				return nil
			}
			for _, e := range entries {
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s%-4d %s\n", strings.Repeat("  ", e.Depth), e.Page, e.Title)
			}
			return nil
		},
	}
	toc.Flags().StringVar(&bookID, "book", "", "book id")
	_ = toc.MarkFlagRequired("book")

	kinds := &cobra.Command{
		Use:   "kinds",
		Short: "List supported reader kinds",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			for _, k := range app.ReaderCLI.Kinds() {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), k)
			}
			return nil
		},
	}

	reader.AddCommand(toc, kinds)
	return reader
}

func newSessionCmd(opts *rootOptions) *cobra.Command {
	session := &cobra.Command{Use: "session", Short: "Reading session lifecycle"}

	var signalBook string
	signalCmd := &cobra.Command{
		Use:       "signal <active|inactive|background>",
		Short:     "Deliver a lifecycle phase to the book's shell",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"active", "inactive", "background"},
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Signal(context.Background(), signalBook, app.Config.DeviceID, args[0])
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case out.Opened != nil:
				_, _ = fmt.Fprintf(w, "session %s opened at p.%d\n", out.Opened.SessionID, out.Opened.Start.Page)
			case out.Closed != nil:
				_, _ = fmt.Fprintf(w, "session %s closed: p.%d -> p.%d, %ds, note=%s\n",
					out.Closed.ID, out.Closed.Start.Page, out.Closed.End.Page, out.Closed.DurationSeconds, out.Closed.NotePath)
			default:
				_, _ = fmt.Fprintf(w, "%s: no change\n", out.Phase)
			}
			return nil
		},
	}
	signalCmd.Flags().StringVar(&signalBook, "book", "", "book id")
	_ = signalCmd.MarkFlagRequired("book")

	var dismissBook string
	dismiss := &cobra.Command{
		Use:   "dismiss",
		Short: "Close the book: end any open session and publish the final position",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, err := app.SessionCLI.Dismiss(context.Background(), dismissBook, app.Config.DeviceID)
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			if out.Closed != nil {
				_, _ = fmt.Fprintf(w, "session %s closed, note=%s\n", out.Closed.ID, out.Closed.NotePath)
			}
			if out.Published {
				_, _ = fmt.Fprintln(w, "final position queued for sync")
			} else {
				_, _ = fmt.Fprintln(w, "no position to publish")
			}
			return nil
		},
	}
	dismiss.Flags().StringVar(&dismissBook, "book", "", "book id")
	_ = dismiss.MarkFlagRequired("book")

	var statusBook string
	status := &cobra.Command{
		Use:   "status",
		Short: "Show the open session of this device",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			out, ok, err := app.SessionCLI.OpenSession(context.Background(), statusBook, app.Config.DeviceID)
			if err != nil {
				return err
			}
			if !ok {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no open session")
				return nil
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "session %s since %s at p.%d\n",
				out.SessionID, out.StartedAt.Local().Format(time.DateTime), out.Start.Page)
			return nil
		},
	}
	status.Flags().StringVar(&statusBook, "book", "", "book id")
	_ = status.MarkFlagRequired("book")

	var listBook string
	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded sessions",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			sessions, err := app.SessionCLI.List(context.Background(), listBook)
			if err != nil {
				return err
			}
			if len(sessions) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no sessions")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "STARTED\tDEVICE\tPAGES\tDURATION\tDELTA")
			for _, s := range sessions {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%d->%d\t%ds\t%+.2f%%\n", s.StartedAt.Local().Format(time.DateTime), s.DeviceID,
					s.Start.Page, s.End.Page, s.DurationSeconds, s.ProgressDelta*100)
			}
			return w.Flush()
		},
	}
	list.Flags().StringVar(&listBook, "book", "", "book id")
	_ = list.MarkFlagRequired("book")

	session.AddCommand(signalCmd, dismiss, status, list)
	return session
}

func newDictCmd(opts *rootOptions) *cobra.Command {
	dict := &cobra.Command{Use: "dict", Short: "Dictionary hints"}
	dict.AddCommand(&cobra.Command{
		Use:   "hints <word>",
		Short: "Fetch completion hints for a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			hints := app.DictionaryCLI.Hints(context.Background(), args[0])
			if len(hints) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no hints")
				return nil
			}
			for _, h := range hints {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), h.Word)
			}
			return nil
		},
	})
	return dict
}

func newRelayCmd(opts *rootOptions) *cobra.Command {
	relay := &cobra.Command{Use: "relay", Short: "Synchronise positions with other installs"}

	var addr string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Serve this library's position ledger over HTTP",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			if addr == "" {
				addr = app.Config.Relay.ListenAddr
			}
			return serveSync(app, addr)
		},
	}
	serve.Flags().StringVar(&addr, "addr", "", "listen address (default: relay.listen_addr)")

	push := &cobra.Command{
		Use:   "push",
		Short: "Push queued positions to the remote server once",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			report, err := app.RelayCLI.Push(context.Background())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "pushed %d, failed %d, remaining %d\n", report.Pushed, report.Failed, report.Remaining)
			return nil
		},
	}

	pending := &cobra.Command{
		Use:   "pending",
		Short: "List positions waiting in the outbox",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			entries, err := app.RelayCLI.Pending(context.Background())
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "outbox is empty")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "ID\tBOOK\tDEVICE\tPAGE\tATTEMPTS\tLAST ERROR")
			for _, e := range entries {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n", e.ID, e.BookID, e.Position.DeviceID, e.Position.Page, e.Attempts, e.LastError)
			}
			return w.Flush()
		},
	}

	var schedule string
	run := &cobra.Command{
		Use:   "run",
		Short: "Push queued positions on a cron schedule until interrupted",
		RunE: func(_ *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			if schedule == "" {
				schedule = app.Config.Relay.Schedule
			}
			if err := relayinadapter.ValidateSchedule(schedule); err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if err := app.RelayCron.Start(ctx, schedule); err != nil {
				return err
			}
			app.RelayCron.RunOnce(ctx)
			<-ctx.Done()
			app.RelayCron.Stop()
			return nil
		},
	}
	run.Flags().StringVar(&schedule, "schedule", "", "five-field cron schedule (default: relay.schedule)")

	relay.AddCommand(serve, push, pending, run)
	return relay
}

func serveSync(app *bootstrap.App, addr string) error {
	logger := app.Logger.Named("relay")
	server := &http.Server{
		Addr:              addr,
		Handler:           app.SyncRouter,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("sync server listening", "addr", addr, "device", app.Config.DeviceID)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("serve sync: %w", err)
		}
		return nil
	case <-quit:
	}

	logger.Info("shutting down sync server")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown sync server: %w", err)
	}
	return nil
}

func newEngineCmd(opts *rootOptions) *cobra.Command {
	engine := &cobra.Command{Use: "engine", Short: "Out-of-process reader engines"}

	engine.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List engines from engines.json",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			engines, err := app.EngineCLI.List(context.Background())
			if err != nil {
				return err
			}
			if len(engines) == 0 {
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no engines")
				return nil
			}
			w := newTable(cmd.OutOrStdout())
			_, _ = fmt.Fprintln(w, "NAME\tVERSION\tENABLED\tKINDS\tBINARY")
			for _, e := range engines {
				_, _ = fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", e.Name, e.Version, e.Enabled, strings.Join(e.Kinds, ","), e.Binary)
			}
			return w.Flush()
		},
	})

	engine.AddCommand(&cobra.Command{
		Use:   "doctor",
		Short: "Verify engine checksums and lifecycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			app, err := loadApp(opts)
			if err != nil {
				return err
			}
			results, err := app.EngineCLI.Doctor(context.Background())
			if err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				state := "ok"
				if !r.ChecksumValid || !r.BinaryReachable || !r.LifecycleOK {
					state = "FAIL"
					failed++
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%-4s %s checksum=%t reachable=%t lifecycle=%t",
					state, r.Name, r.ChecksumValid, r.BinaryReachable, r.LifecycleOK)
				if r.Error != "" {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), " error=%q", r.Error)
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout())
			}
			if failed > 0 {
				return fmt.Errorf("%d engine(s) failed doctor checks", failed)
			}
			return nil
		},
	})
	return engine
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
}

func printPosition(w io.Writer, p positiondto.Position) {
	_, _ = fmt.Fprintf(w, "device:   %s\nkind:     %s\npage:     %d/%d\nprogress: %.1f%% (chapter %.1f%%)\nchapter:  %s\n",
		p.DeviceID, p.Kind, p.Page, p.MaxPage, p.TotalProgress*100, p.ChapterProgress*100, p.ChapterTitle)
	if p.Fragment != "" {
		_, _ = fmt.Fprintf(w, "fragment: %s\n", p.Fragment)
	}
	_, _ = fmt.Fprintf(w, "updated:  %s\n", formatEpoch(p.Timestamp))
}

func formatEpoch(sec float64) string {
	if sec <= 0 {
		return "-"
	}
	return clock.FromEpochSeconds(sec).Local().Format(time.DateTime)
}
