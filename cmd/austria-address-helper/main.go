// SPDX-FileCopyrightText: Winni Neessen <wn@neessen.dev>
//
// SPDX-License-Identifier: MIT

// Package main implements the austria-address-helper command. It adds the official
// Austrian address to a selected object of an OSM XML file and writes the resulting
// osmChange document.
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
	"strings"
	"syscall"

	"github.com/wneessen/austria-address-helper/internal/address"
	"github.com/wneessen/austria-address-helper/internal/config"
	"github.com/wneessen/austria-address-helper/internal/i18n"
	"github.com/wneessen/austria-address-helper/internal/logger"
	"github.com/wneessen/austria-address-helper/internal/notify"
	"github.com/wneessen/austria-address-helper/internal/osmdata"
	"github.com/wneessen/austria-address-helper/internal/prompt"
	"github.com/wneessen/austria-address-helper/internal/service"
)

// Exit codes
const (
	exitOK = iota
	exitFailure
	exitNoChange
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGABRT, os.Interrupt)
	defer cancel()

	// Initialize Logger
	log := logger.New(slog.LevelError)

	confPath := flag.String("config", "", "path to the config file")
	input := flag.String("input", "", "path to the OSM XML file")
	selection := flag.String("select", "", "comma separated objects to add the address to, e.g. way/1234")
	session := flag.Bool("session", false, "read one selection per line from stdin until an empty line")
	output := flag.String("output", "-", "path to write the osmChange document to, - for stdout")
	changeset := flag.String("changeset", "", "optional path to write the changeset tags to")
	flag.Parse()

	conf, err := loadConfig(*confPath)
	if err != nil {
		log.Error("failed to load config", logger.Err(err))
		return exitFailure
	}

	log = logger.New(conf.LogLevel)
	t, err := i18n.New(conf.Locale)
	if err != nil {
		log.Error("failed to initialize localizer", logger.Err(err))
		return exitFailure
	}

	if *session && *selection != "" {
		log.Error("-select and -session cannot be combined")
		return exitFailure
	}
	refs, err := parseSelection(*selection)
	if err != nil {
		log.Error("invalid selection", logger.Err(err))
		return exitFailure
	}
	if *input == "" {
		log.Error("no OSM input file given")
		return exitFailure
	}
	doc, err := osmdata.LoadFile(*input)
	if err != nil {
		log.Error("failed to load OSM input file", logger.Err(err), slog.String("file", *input))
		return exitFailure
	}

	terminal := prompt.New(os.Stdin, os.Stderr, t)
	defer terminal.Close()
	notifier := notify.New(os.Stderr, t)
	serv, err := service.New(conf, log, t, terminal, notifier)
	if err != nil {
		log.Error("failed to initialize address helper service", logger.Err(err))
		return exitFailure
	}

	log.Debug("starting austria-address-helper", slog.String("version", version),
		slog.String("commit", commit), slog.String("date", date))
	var result osmdata.Result
	if *session {
		result, err = serv.RunSession(ctx, doc, selections(terminal, notifier))
	} else {
		result, err = serv.Run(ctx, doc, refs)
	}
	if err != nil {
		// A session ended without any selection has nothing to report
		if err == osmdata.ErrEmptyBatch {
			return exitNoChange
		}
		switch address.Classify(err) {
		case address.OutcomeNoResult, address.OutcomeCancelled:
			return exitNoChange
		default:
			log.Debug("no changes written", logger.Err(err))
			return exitFailure
		}
	}

	if err = writeTo(*output, result.WriteChange); err != nil {
		log.Error("failed to write osmChange document", logger.Err(err))
		return exitFailure
	}
	if *changeset != "" {
		if err = writeTo(*changeset, func(w io.Writer) error {
			for _, tag := range result.Changeset.Tags {
				if _, err := fmt.Fprintf(w, "%s=%s\n", tag.Key, tag.Value); err != nil {
					return err
				}
			}
			return nil
		}); err != nil {
			log.Error("failed to write changeset tags", logger.Err(err))
			return exitFailure
		}
	}
	return exitOK
}

// loadConfig reads the config file at path. Without a path, the default location is
// tried before falling back to defaults and environment.
func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.NewFromFile(filepath.Dir(path), filepath.Base(path))
	}
	if dir, file := findConfigFile(); dir != "" && file != "" {
		return config.NewFromFile(dir, file)
	}
	return config.New()
}

func findConfigFile() (string, string) {
	homedir, err := os.UserHomeDir()
	if err != nil {
		return "", ""
	}
	exts := []string{"toml", "yaml", "yml", "json"}
	for _, ext := range exts {
		path := filepath.Join(homedir, ".config", "austria-address-helper", "config."+ext)
		if _, err = os.Stat(path); err == nil {
			return filepath.Dir(path), filepath.Base(path)
		}
	}
	return "", ""
}

func parseSelection(val string) ([]osmdata.Ref, error) {
	var refs []osmdata.Ref
	for _, field := range strings.Split(val, ",") {
		if strings.TrimSpace(field) == "" {
			continue
		}
		ref, err := osmdata.ParseRef(field)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// selections reads the selections of a session from the terminal. Invalid selections are
// reported and asked for again.
func selections(terminal *prompt.Prompt, notifier *notify.Notifier) service.SelectionFunc {
	return func(ctx context.Context) ([]osmdata.Ref, error) {
		for {
			line, err := terminal.NextSelection(ctx)
			if err != nil {
				return nil, err
			}
			refs, err := parseSelection(line)
			if err != nil {
				notifier.Error(err)
				continue
			}
			return refs, nil
		}
	}
}

func writeTo(path string, write func(io.Writer) error) error {
	if path == "-" {
		return write(os.Stdout)
	}
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err = write(file); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}
