package main

import (
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/campuslab/hackdesk/cli"
)

func main() {
	cli.Execute()
}
