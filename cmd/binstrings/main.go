package main

import (
	"os"

	"github.com/CompassSecurity/binstrings/internal/cmd"
	"github.com/rs/zerolog/log"
)

func main() {
	err := cmd.Execute()
	if err != nil {
		log.Error().Err(err).Msg("binstrings failed")
	}
	cmd.CloseLogger()
	if err != nil {
		os.Exit(1)
	}
}
