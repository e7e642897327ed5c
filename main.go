/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package main

import (
	"os"

	"github.com/cristianoliveira/wardlink/cmd"
	"github.com/cristianoliveira/wardlink/internal/errors"
)

func main() {
	if err := cmd.Execute(); err != nil {
		errors.NewDefaultCLIHandler().Error(err.Error())
		os.Exit(1)
	}
}
