package main

import (
	"github.com/rs/zerolog/log"

	"youtube-snapshot/cmd"
	"youtube-snapshot/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	root := cmd.Root(cfg)
	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Send()
	}
}
