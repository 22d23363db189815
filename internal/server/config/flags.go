package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/accounthelper/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":3000")
//	-d string   PostgreSQL DSN
//	-e string   environment name ("production" enables transports)
//	-n string   blockchain node JSON-RPC URL
//	-w string   wallet base URL for recovery links
//
// The function first filters os.Args to only the flags it recognizes
// using flagx.FilterArgs, avoiding collisions with other components.
// Credentials deliberately have no flags; they come from the environment.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-e", "-n", "-w"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.Environment, "e", config.Environment, "environment name")
	fs.StringVar(&config.NodeURL, "n", config.NodeURL, "node JSON-RPC URL")
	fs.StringVar(&config.WalletURL, "w", config.WalletURL, "wallet base URL")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
