package main

import (
	"os"

	"github.com/sitecms/sitecms/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
