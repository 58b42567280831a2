/*
Exprserve starts the exprscript HTTP service and begins listening for
connections.

Usage:

	exprserve [flags]

Once started, the service listens for HTTP requests and responds to them
per the expression-service API: issuing bearer tokens for a configured API
key, storing named macro libraries, and creating and evaluating against
named, persisted variable environments.

The flags are:

	-v, --version
		Give the current version of exprserve and then exit.

	-c, --config FILE
		Read server configuration from the given TOML file. A config file
		is effectively required since it is the only way to set
		api_key_hash, the bcrypt hash of the API key accepted by
		POST /tokens.

	-a, --addr ADDRESS
		Listen on the given address, overriding any value from the config
		file. Must be in BIND_ADDRESS:PORT or :PORT format.
*/
package main

import (
	"fmt"
	"log"
	"os"

	"github.com/lucaspiller/exprscript/internal/version"
	"github.com/lucaspiller/exprscript/server"
	"github.com/spf13/pflag"
)

var (
	flagVersion = pflag.BoolP("version", "v", false, "Give the current version of exprserve and then exit.")
	flagConfig  = pflag.StringP("config", "c", "", "Read server configuration from the given TOML file.")
	flagAddr    = pflag.StringP("addr", "a", "", "Listen on the given address.")
)

func main() {
	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s (exprscript v%s)\n", version.ServerCurrent, version.Current)
		return
	}

	var cfg server.Config
	if *flagConfig != "" {
		var err error
		cfg, err = server.LoadConfig(*flagConfig)
		if err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
			os.Exit(1)
		}
	}

	if *flagAddr != "" {
		cfg.Addr = *flagAddr
	}

	cfg = cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: invalid configuration: %s\n", err.Error())
		os.Exit(1)
	}

	store, err := cfg.DB.Connect()
	if err != nil {
		log.Fatalf("FATAL could not connect to database: %s", err.Error())
	}
	defer store.Close()

	srv := server.New(cfg, store)

	log.Printf("INFO  Starting exprserve %s on %s...", version.ServerCurrent, cfg.Addr)
	if err := srv.ListenAndServe(); err != nil {
		log.Fatalf("FATAL server exited: %s", err.Error())
	}
}
