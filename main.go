package main

import (
	"os"

	"github.com/GoHelpdesk/GoHelpdesk/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
