package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"mfpkg/config"
	"mfpkg/model"
	"mfpkg/server"
	"mfpkg/sub"
	"mfpkg/upw"
)

func usage() {
	fmt.Fprintf(flag.CommandLine.Output(), "usage: %s [-config path] serve\n", os.Args[0])
	fmt.Fprintf(flag.CommandLine.Output(), "       %s [-config path] convert -pkg sub|upw <in> <out>\n", os.Args[0])
	flag.PrintDefaults()
}

func main() {
	cfgPath := flag.String("config", config.DefaultPath, "configuration file")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.WithError(err).Fatal("load config")
	}
	if err := cfg.Apply(); err != nil {
		log.WithError(err).Fatal("apply config")
	}

	switch flag.Arg(0) {
	case "serve":
		err = serve(cfg)
	case "convert":
		err = convert(cfg, flag.Args()[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.WithError(err).Fatal(flag.Arg(0))
	}
}

func serve(cfg *config.Config) error {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  cfg.Server.ReadBuffer,
		WriteBufferSize: cfg.Server.WriteBuffer,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
	return server.NewServer(cfg.Server.Addr, upgrader).Serve()
}

func convert(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("convert", flag.ExitOnError)
	pkg := fs.String("pkg", "sub", "package type: sub or upw")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("convert needs an input and an output path")
	}
	in, out := fs.Arg(0), fs.Arg(1)

	host, err := cfg.Model.Host()
	if err != nil {
		return err
	}
	units := model.UnitTable{}
	var p interface{ WriteFile(string) error }
	switch strings.ToLower(*pkg) {
	case "sub":
		p, err = sub.LoadFile(in, host, units)
	case "upw":
		p, err = upw.LoadFile(in, host, units)
	default:
		return fmt.Errorf("unknown package %q", *pkg)
	}
	if err != nil {
		return err
	}
	if err := p.WriteFile(out); err != nil {
		return err
	}
	log.WithFields(log.Fields{
		"package": *pkg,
		"in":      in,
		"out":     out,
		"units":   units.Originals(),
	}).Info("converted")
	return nil
}
