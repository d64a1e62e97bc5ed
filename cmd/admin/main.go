// Command admin runs operator tasks against the blog store and mirror:
//
//	admin [-c config.json] export
//	admin [-c config.json] delete-account -u <username> -e <email>
//
// delete-account writes the mirror workbook, so the server must be stopped
// while it runs.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/dmitrijs2005/blogmirror/internal/admin"
	"github.com/dmitrijs2005/blogmirror/internal/logging"
	"github.com/dmitrijs2005/blogmirror/internal/server"
	"github.com/dmitrijs2005/blogmirror/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadBaseConfig()
	logger := logging.NewJSONLogger(os.Stderr, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer app.Close()

	cli := admin.NewCLI(app.Users(), app.Exporter(), os.Stdout)
	if err := cli.Run(ctx, commandArgs(os.Args[1:])); err != nil {
		log.Printf("%v", err)
		_ = app.Close()
		os.Exit(1)
	}

}

// commandArgs drops a leading -c/-config pair, which belongs to the config
// loader, so the subcommand comes first.
func commandArgs(args []string) []string {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.String("c", "", "path to config file")
	fs.String("config", "", "path to config file")
	if err := fs.Parse(args); err != nil {
		return args
	}
	return fs.Args()
}
