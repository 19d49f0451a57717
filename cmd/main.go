package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/shuldan/config/pkg/config"
	"github.com/shuldan/config/pkg/contracts"
	"github.com/shuldan/config/pkg/logger"
	"github.com/shuldan/config/pkg/snapshot"
	"github.com/shuldan/config/pkg/snapshot/database"
	"github.com/shuldan/config/pkg/snapshot/memory"
)

type Mailer struct {
	config.Capability
}

func NewMailer(custom map[string]any) *Mailer {
	defaults := config.NewLayer(
		config.Entry{Key: "host", Value: "localhost"},
		config.Entry{Key: "port", Value: 25},
		config.Entry{Key: "tls", Value: false},
	)
	return &Mailer{
		Capability: config.NewCapability(config.New(defaults, config.LayerFromMap(custom))),
	}
}

func main() {
	level := flag.String("level", os.Getenv("LOG_LEVEL"), "log level: trace, debug, info, warn, error, critical")
	codecName := flag.String("codec", "json", "snapshot codec: json or yaml")
	sqlite := flag.String("sqlite", "", "sqlite dsn; snapshots are kept in memory when empty")
	flag.Parse()

	lvl, ok := logger.ParseLevel(*level)
	if !ok {
		log.Fatalf("unknown log level %q", *level)
	}
	lg, err := logger.NewLogger(logger.WithLevel(lvl), logger.WithColor())
	if err != nil {
		log.Fatal(err)
	}

	codec, err := config.CodecByName(*codecName)
	if err != nil {
		lg.Critical("bad codec", "error", err)
		os.Exit(1)
	}

	if err := run(lg, *sqlite, codec); err != nil {
		lg.Critical("demo failed", "error", err)
		os.Exit(1)
	}
}

func run(lg contracts.Logger, dsn string, codec config.Codec) error {
	store, closeStore, err := openStore(dsn, snapshot.WithCodec(codec), snapshot.WithLogger(lg))
	if err != nil {
		return err
	}
	defer func() {
		if err := closeStore(); err != nil {
			lg.Warn("closing snapshot store failed", "error", err)
		}
	}()

	mailer := NewMailer(map[string]any{"port": 587})
	mailer.AddConfig("tls", true).AddConfig("from", "noreply@example.com")
	mailer.Config().Append("postmaster@example.com")

	ctx := context.Background()
	rev, err := store.Save(ctx, "mailer", mailer.Config())
	if err != nil {
		return err
	}
	lg.Info("mailer config saved", "revision", rev.ID.String(), "codec", rev.Codec)

	snap, err := store.Load(ctx, "mailer")
	if err != nil {
		return err
	}

	restored := &Mailer{Capability: config.NewCapability(snap.Config)}
	return printConfig(restored)
}

// openStore returns the store and a func releasing what it holds.
func openStore(dsn string, opts ...snapshot.Option) (snapshot.Store, func() error, error) {
	if dsn == "" {
		return memory.New(opts...), func() error { return nil }, nil
	}

	db, err := database.Open("sqlite3", dsn)
	if err != nil {
		return nil, nil, err
	}
	s, err := database.New(db, "sqlite3", database.WithStoreOptions(opts...))
	if err == nil {
		err = s.Migrate(context.Background())
	}
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	return s, db.Close, nil
}

func printConfig(m *Mailer) error {
	fmt.Println(m.Config())

	out, err := json.MarshalIndent(m.GetFullConfig(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
